package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/viper"

	"github.com/gadling/hob"
	"github.com/gadling/hob/config"
	"github.com/gadling/hob/plugins"
)

// run opens the storage backend, builds the bot with every plugin and runs it until it
// gets interrupted or terminated
func run(ctx context.Context, v *viper.Viper) (err error) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := openBrains(ctx, v)
	if err != nil {
		return err
	}

	bot, err := newBot(v, b)
	if err != nil {
		b.Close()
		return err
	}
	defer bot.Close()

	return bot.Run(ctx)
}

// newBot builds the bot with all plugins. The brains are closed along with it
func newBot(v *viper.Viper, b *brains) (bot *hob.Hob, err error) {
	name := v.GetString(config.NameKey)
	pc := func(pluginName string) *config.PluginConfig {
		return config.NewPluginConfig(v, pluginName)
	}

	chili := plugins.NewChili(nil)

	calc, err := plugins.NewCalc(pc(plugins.CalcPluginName))
	if err != nil {
		return nil, err
	}

	hangman, err := plugins.NewHangman(pc(plugins.HangmanPluginName), nil)
	if err != nil {
		return nil, err
	}

	ryecock, err := plugins.NewRyecock(pc(plugins.RyecockPluginName), b.cooldowns, nil)
	if err != nil {
		return nil, err
	}

	banner, err := plugins.NewBanner(pc(plugins.BannerPluginName))
	if err != nil {
		return nil, err
	}

	return hob.NewBot(name, v).
		WithCloser(b).
		WithPlugin(calc.Plugin).
		WithPlugin(plugins.NewDice(nil)).
		WithPlugin(plugins.NewEightBall(nil)).
		WithPlugin(plugins.NewKarma(b.karma).Plugin).
		WithPlugin(plugins.NewSplainer(b.facts, nil).Plugin).
		WithPlugin(ryecock.Plugin).
		WithPlugin(hangman.Plugin).
		WithPlugin(plugins.NewPleasantries(nil).Plugin).
		WithPlugin(plugins.NewEmu(chili)).
		WithPlugin(banner.Plugin).
		WithPlugin(plugins.NewPing(name, hob.Version, plugins.CurrentHost())).
		Build()
}
