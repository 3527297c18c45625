package plugins

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/slack-go/slack"

	"github.com/gadling/hob"
	"github.com/gadling/hob/actions"
	"github.com/gadling/hob/plugin"
)

const (
	// EmuPluginName holds identifying name for the emu plugin
	EmuPluginName = "emu"

	poloniusQuote = ">And it must follow, as the night the day,\n>Thou canst not then be `false` to any man."
)

// emuHandler impersonates someone in answer to a /be command
type emuHandler func(c *hob.SlashCommand) *hob.Answer

// NewEmu creates a new instance of the emu plugin handling the /be slash command. Its ryecock
// emu floods the caller with chili
func NewEmu(chili *Chili) (p *hob.Plugin) {
	emus := map[string]emuHandler{
		"polonius": func(c *hob.SlashCommand) *hob.Answer {
			return &hob.Answer{
				Text:          poloniusQuote,
				ContentBlocks: []slack.Block{slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, poloniusQuote, false, false), nil, nil)},
			}
		},
		"ptweak": func(c *hob.SlashCommand) *hob.Answer {
			return &hob.Answer{Text: "WUTEVA! I DO WHAT I WAN!"}
		},
		"ryecock": func(c *hob.SlashCommand) *hob.Answer {
			return &hob.Answer{Text: chili.Flood(c.User)}
		},
	}

	return plugin.New(EmuPluginName).
		WithSlashCommand(actions.NewSlashCommand("/be").
			WithHandler(func(ctx context.Context, c *hob.SlashCommand) (*hob.Answer, error) {
				return answerEmu(emus, c), nil
			}).
			Build()).
		Build()
}

func answerEmu(emus map[string]emuHandler, c *hob.SlashCommand) *hob.Answer {
	fields := strings.Fields(c.Text)
	if len(fields) == 0 {
		return &hob.Answer{Text: beHelpful(emus, c.User)}
	}

	name := fields[0]
	if name == "false" {
		name = "polonius"
	}

	if emu, ok := emus[name]; ok {
		return emu(c)
	}

	return &hob.Answer{Text: fmt.Sprintf("<@%s> My %s emu is down at the moment.", c.User, fields[0])}
}

func beHelpful(emus map[string]emuHandler, userID string) string {
	names := make([]string, 0, len(emus))
	for name := range emus {
		names = append(names, "• "+name)
	}
	sort.Strings(names)

	return fmt.Sprintf("Who should I be, <@%s>?\n%s", userID, strings.Join(names, "\n"))
}
