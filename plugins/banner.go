package plugins

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/alexandre-normand/figlet4go"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"

	"github.com/gadling/hob"
	"github.com/gadling/hob/actions"
	"github.com/gadling/hob/config"
	"github.com/gadling/hob/plugin"
)

const (
	// BannerPluginName holds identifying name for the emoji banner plugin
	BannerPluginName = "banner"

	bannerFontPathKey = "fontPath" // Directory of figlet fonts to load ('~' is expanded). Empty uses the default font only, string value
	bannerFontNameKey = "fontName" // Name of the font to render with, string value

	bannerUsage = "Wrong usage: `!banner WORD EMOJI`"
	blankEmoji  = "⬜️"
)

// Banner holds the plugin data for the emoji banner plugin
type Banner struct {
	*hob.Plugin
	renderer *figlet4go.AsciiRender
	options  *figlet4go.RenderOptions
}

// NewBanner creates a new instance of the emoji banner plugin
func NewBanner(c *config.PluginConfig) (b *Banner, err error) {
	b = new(Banner)
	b.renderer = figlet4go.NewAsciiRender()
	b.options = figlet4go.NewRenderOptions()

	if fontPath := c.GetString(bannerFontPathKey); fontPath != "" {
		expanded, err := homedir.Expand(fontPath)
		if err != nil {
			return nil, errors.Wrapf(err, "[%s] Can't load fonts from [%s]", BannerPluginName, fontPath)
		}

		if err = b.renderer.LoadFont(expanded); err != nil {
			return nil, errors.Wrapf(err, "[%s] Can't load fonts from [%s]", BannerPluginName, expanded)
		}
	}

	if fontName := c.GetString(bannerFontNameKey); fontName != "" {
		b.options.FontName = fontName
	}

	b.Plugin = plugin.New(BannerPluginName).
		WithCommand(actions.NewCommand("banner").
			WithUsage("!banner WORD EMOJI").
			WithDescription("Renders a single-word banner with the provided emoji").
			WithExamples("`!banner cats :cat:`").
			WithHandler(b.answerBanner).
			Build()).
		Build()

	return b, nil
}

func (b *Banner) answerBanner(ctx context.Context, c *hob.BangCommand) (*hob.Answer, error) {
	rest, ok := c.Rest.Get()
	if !ok {
		return &hob.Answer{Text: bannerUsage}, nil
	}

	params := strings.Fields(rest)
	if len(params) != 2 {
		return &hob.Answer{Text: bannerUsage}, nil
	}

	banner, err := b.render(params[0], params[1])
	if err != nil {
		return &hob.Answer{Text: fmt.Sprintf("Error generating: %v", err)}, err
	}

	return &hob.Answer{Text: banner}, nil
}

// render renders word with the figlet font and replaces its printable characters with emoji
func (b *Banner) render(word string, emoji string) (banner string, err error) {
	rendered, err := b.renderer.RenderOpts(word, b.options)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("\r\n")
	for _, character := range rendered {
		switch {
		case character == ' ':
			sb.WriteString(blankEmoji)
		case unicode.IsPrint(character):
			sb.WriteString(emoji)
		default:
			sb.WriteRune(character)
		}
	}

	return sb.String(), nil
}
