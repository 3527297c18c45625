package plugins

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"

	"github.com/gadling/hob"
	"github.com/gadling/hob/actions"
	"github.com/gadling/hob/plugin"
)

const (
	// EightBallPluginName holds identifying name for the magic 8-ball plugin
	EightBallPluginName = "8ball"
)

var eightBallRegex = regexp.MustCompile(`(?i)^8ball:?\s+(.+)$`)

var eightBallAnswers = []string{
	// Affirmative
	"it is certain",
	"it is decidedly so",
	"without a doubt",
	"yes definitely",
	"you may rely on it",
	"as I see it, yes",
	"most likely",
	"outlook good",
	"yes",
	"signs point to yes",
	// Maybe
	"reply hazy, try again",
	"ask again later",
	"better not tell you now",
	"cannot predict now",
	"concentrate and ask again",
	// Nope
	"don't count on it",
	"my reply is no",
	"my sources say no",
	"outlook is not so good",
	"very doubtful",
}

// NewEightBall creates a new instance of the magic 8-ball plugin. A nil rnd uses a time-seeded source
func NewEightBall(rnd *rand.Rand) (p *hob.Plugin) {
	r := newRandomizer(rnd)

	return plugin.New(EightBallPluginName).
		WithPassiveListener(actions.NewListener().
			WithUsage("8ball: QUESTION").
			WithDescription("Asks the magic 8-ball").
			WithExamples("`8ball: will it snow tomorrow?`").
			WithHandler(func(ctx context.Context, m *hob.Message) (*hob.Answer, error) {
				match := eightBallRegex.FindStringSubmatch(m.Text)
				if match == nil {
					return nil, nil
				}

				return &hob.Answer{Text: fmt.Sprintf("`%s`:\n>%s", match[1], selectFrom(r, eightBallAnswers))}, nil
			}).
			Build()).
		Build()
}
