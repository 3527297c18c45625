package plugins

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/gadling/hob"
	"github.com/gadling/hob/actions"
	"github.com/gadling/hob/brain"
	"github.com/gadling/hob/plugin"
)

// Karma holds the plugin data for the karma plugin
type Karma struct {
	*hob.Plugin
	karmaStorer brain.KarmaStorer
}

const (
	// KarmaPluginName holds identifying name for the karma plugin
	KarmaPluginName = "karma"

	defaultLeaderboardSize = 5
	maxLeaderboardSize     = 25
)

var karmaRegex = regexp.MustCompile(`^\s*(\S+(?:\s\S+)*)\s?(\+\+|--|—)\s*$`)
var userMentionRegex = regexp.MustCompile(`^<@([A-Z0-9]+)>$`)

// NewKarma creates a new instance of the Karma plugin
func NewKarma(karmaStorer brain.KarmaStorer) (k *Karma) {
	k = new(Karma)
	k.karmaStorer = karmaStorer

	k.Plugin = plugin.New(KarmaPluginName).
		WithCommand(actions.NewCommand("karma").
			WithUsage("!karma THING").
			WithDescription("Retrieves the current karma of `THING`").
			WithHandler(k.answerKarma).
			Build()).
		WithCommand(actions.NewCommand("karma-top").
			WithUsage("!karma-top [COUNT]").
			WithDescriptionf("Returns the `COUNT` things with the most karma (%d by default)", defaultLeaderboardSize).
			WithHandler(k.leaderboardAnswerer(brain.Top, "top")).
			Build()).
		WithCommand(actions.NewCommand("karma-bottom").
			WithUsage("!karma-bottom [COUNT]").
			WithDescriptionf("Returns the `COUNT` things with the least karma (%d by default)", defaultLeaderboardSize).
			WithHandler(k.leaderboardAnswerer(brain.Bottom, "bottom")).
			Build()).
		WithPassiveListener(actions.NewListener().
			WithUsage("THING++ or THING--").
			WithDescription("Adjusts the karma of `THING`").
			WithHandler(k.recordKarma).
			Build()).
		Build()

	return k
}

func (k *Karma) answerKarma(ctx context.Context, c *hob.BangCommand) (*hob.Answer, error) {
	thing, ok := c.Rest.Get()
	if !ok {
		return &hob.Answer{Text: "Usage: `!karma THING`"}, nil
	}

	karma, err := k.karmaStorer.KarmaFor(ctx, thing)
	if value, ok := karma.Get(); ok && value != 0 {
		return &hob.Answer{Text: fmt.Sprintf("%s has karma %d", thing, value)}, nil
	}

	return &hob.Answer{Text: fmt.Sprintf("%s has neutral karma", thing)}, err
}

// recordKarma records a karma increase or decrease and reacts to the message with the outcome
func (k *Karma) recordKarma(ctx context.Context, m *hob.Message) (*hob.Answer, error) {
	match := karmaRegex.FindStringSubmatch(m.Text)
	if match == nil {
		return nil, nil
	}

	change, _ := brain.ParseKarmaChange(match[2])
	value, err := k.karmaStorer.BumpKarma(ctx, match[1], change)
	if err != nil {
		k.Logger.Printf("Error recording karma %s for [%s]: %v", change, match[1], err)
	} else {
		k.Logger.Debugf("Karma of [%s] is now %d", match[1], value)
	}

	return nil, reactTo(ctx, k.EmojiReactor, m, err == nil)
}

func (k *Karma) leaderboardAnswerer(order brain.Order, rankingType string) hob.CommandHandler {
	return func(ctx context.Context, c *hob.BangCommand) (*hob.Answer, error) {
		count := defaultLeaderboardSize
		if rest, ok := c.Rest.Get(); ok {
			n, err := strconv.Atoi(strings.Fields(rest)[0])
			if err != nil || n < 1 || n > maxLeaderboardSize {
				return &hob.Answer{Text: fmt.Sprintf("Usage: `!%s [COUNT]` with a `COUNT` between 1 and %d", c.Command, maxLeaderboardSize)}, nil
			}

			count = n
		}

		records, err := k.karmaStorer.Leaderboard(ctx, order, count)
		if err != nil {
			return &hob.Answer{Text: fmt.Sprintf("Sorry, I couldn't get the %s [%d] things for you. If you must know, this happened: %v", rankingType, count, err)}, err
		}

		if len(records) == 0 {
			return &hob.Answer{Text: "Sorry, no recorded karma found :disappointed:"}, nil
		}

		return &hob.Answer{Text: fmt.Sprintf("Here are the %s %d things: \n%s", rankingType, len(records), k.formatList(ctx, records))}, nil
	}
}

func (k *Karma) formatList(ctx context.Context, records []brain.KarmaRecord) string {
	var b bytes.Buffer
	b.WriteString("```")

	w := tabwriter.NewWriter(&b, 5, 0, 1, ' ', 0)
	for _, r := range records {
		fmt.Fprintf(w, "%d\t%s\n", r.Value, k.renderThing(ctx, r.Thing))
	}
	w.Flush()

	b.WriteString("```\n")

	return b.String()
}

// renderThing renders the thing value. In most cases, it should just return the value
// untouched but if it is a user mention, it tries to find the user info matching the value
// and returns its real name instead
func (k *Karma) renderThing(ctx context.Context, thing string) (renderedThing string) {
	m := userMentionRegex.FindStringSubmatch(thing)
	if m == nil {
		return thing
	}

	u, err := k.UserInfoFinder.GetUserInfo(ctx, m[1])
	if err != nil || u.RealName == "" {
		return thing
	}

	return u.RealName
}
