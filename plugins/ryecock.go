package plugins

import (
	"context"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/gadling/hob"
	"github.com/gadling/hob/actions"
	"github.com/gadling/hob/brain"
	"github.com/gadling/hob/config"
	"github.com/gadling/hob/flood"
	"github.com/gadling/hob/plugin"
	"github.com/gadling/hob/schedule"
)

const (
	// RyecockPluginName holds identifying name for the ryecock plugin
	RyecockPluginName = "ryecock"

	ryecockFloodChannelKey = "floodChannel" // Name of the channel flooded automatically, string value
	ryecockCooldownKey     = "cooldown"     // Minimum time between automatic floods, duration value
	ryecockJitterKey       = "jitter"       // Upper bound of the random delay before each poll, duration value
	ryecockPollIntervalKey = "pollInterval" // Minutes between polls, int value
	ryecockAutoFloodKey    = "autoFlood"    // Enables automatic floods, boolean value

	defaultFloodChannel = "general"
	defaultPollInterval = 10
)

var chiliRegex = regexp.MustCompile(`(?i)\bchili\b`)

// Ryecock holds the plugin data for the ryecock plugin: chili dogs served on demand, on mention
// and to a whole channel every once in a while
type Ryecock struct {
	*hob.Plugin
	chili        *Chili
	cooldowns    brain.CooldownStorer
	floodChannel string
	autoFlood    bool
	floodOptions []flood.Option

	scheduler *flood.Scheduler
}

// NewRyecock creates a new instance of the ryecock plugin. The flood options given are applied
// after the ones built from the configuration
func NewRyecock(c *config.PluginConfig, cooldowns brain.CooldownStorer, rnd *rand.Rand, floodOptions ...flood.Option) (r *Ryecock, err error) {
	c.SetDefault(ryecockFloodChannelKey, defaultFloodChannel)
	c.SetDefault(ryecockCooldownKey, flood.DefaultCooldown)
	c.SetDefault(ryecockJitterKey, flood.DefaultJitter)
	c.SetDefault(ryecockPollIntervalKey, defaultPollInterval)
	c.SetDefault(ryecockAutoFloodKey, true)

	r = new(Ryecock)
	r.chili = NewChili(rnd)
	r.cooldowns = cooldowns
	r.floodChannel = c.GetString(ryecockFloodChannelKey)
	r.autoFlood = c.GetBool(ryecockAutoFloodKey)

	cooldown, err := c.GetDurationE(ryecockCooldownKey)
	if err != nil {
		return nil, err
	}

	jitter, err := c.GetDurationE(ryecockJitterKey)
	if err != nil {
		return nil, err
	}

	pollInterval, err := c.GetIntE(ryecockPollIntervalKey)
	if err != nil {
		return nil, err
	}

	if pollInterval < 1 {
		return nil, errors.Errorf("invalid %s [%d], must be at least 1 minute", ryecockPollIntervalKey, pollInterval)
	}

	r.floodOptions = append([]flood.Option{flood.WithCooldown(cooldown), flood.WithJitter(jitter)}, floodOptions...)

	r.Plugin = plugin.New(RyecockPluginName).
		WithCommand(actions.NewCommand("serve").
			WithUsage("!serve RECIPIENT").
			WithDescription("Serves a chili dog to `RECIPIENT`").
			WithExamples("`!serve @alice`").
			WithHandler(r.serve).
			Build()).
		WithCommand(actions.NewCommand("flood").
			WithDescription("Serves chili dogs to everyone in the channel").
			WithHandler(r.flood).
			Build()).
		WithMentionListener(r.answerChili).
		WithPassiveListener(actions.NewListener().
			WithUsage("chili").
			WithDescription("Mention chili and you might get some").
			WithHandler(r.answerChili).
			Build()).
		WithScheduledAction(actions.NewScheduledAction().
			WithSchedule(schedule.New().EveryN(uint64(pollInterval), schedule.Minutes).Build()).
			WithDescriptionf("Floods #%s with chili dogs at least %s apart", r.floodChannel, cooldown).
			WithAction(r.poll).
			Build()).
		WithInit(r.init).
		Build()

	return r, nil
}

// Scheduler returns the flood scheduler once the plugin is initialized
func (r *Ryecock) Scheduler() *flood.Scheduler {
	return r.scheduler
}

// init builds the flood scheduler from the injected services and enables automatic floods. A
// flood channel that can't be found only disables automatic floods
func (r *Ryecock) init(ctx context.Context) (err error) {
	opts := append([]flood.Option{flood.WithLogger(r.Logger)}, r.floodOptions...)
	r.scheduler = flood.New(r.ChannelDirectory, r.UserInfoFinder, r.MessagePoster, r.cooldowns, r.chili.Flood, opts...)

	if !r.autoFlood {
		r.Logger.Printf("Automatic floods are disabled by configuration")
		return nil
	}

	if err = r.scheduler.ScheduleAutoFlood(ctx, r.floodChannel); err != nil {
		r.Logger.Printf("Can't flood channel [%s]: %v", r.floodChannel, err)
	}

	return nil
}

func (r *Ryecock) poll(ctx context.Context) {
	if r.scheduler == nil {
		return
	}

	r.scheduler.Poll(ctx)
}

func (r *Ryecock) serve(ctx context.Context, c *hob.BangCommand) (*hob.Answer, error) {
	rest, ok := c.Rest.Get()
	if !ok {
		return nil, nil
	}

	recipient := strings.Fields(rest)[0]

	return &hob.Answer{Text: r.chili.Serve(recipient)}, nil
}

func (r *Ryecock) flood(ctx context.Context, c *hob.BangCommand) (*hob.Answer, error) {
	if r.scheduler == nil {
		return nil, errors.New("flood scheduler not initialized")
	}

	before := time.Now()
	report, err := r.scheduler.FloodChannel(ctx, c.Channel, flood.Manual)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to flood [%s]", c.Channel)
	}

	r.Logger.Printf("Manually flooded [%s] in %s: %d delivered, %d failed, %d bots skipped", c.Channel, time.Since(before), report.Delivered, report.Failed, report.SkippedBots)

	return nil, nil
}

func (r *Ryecock) answerChili(ctx context.Context, m *hob.Message) (*hob.Answer, error) {
	if m.User == "" || !chiliRegex.MatchString(m.Text) {
		return nil, nil
	}

	return &hob.Answer{Text: r.chili.Flood(m.User)}, nil
}
