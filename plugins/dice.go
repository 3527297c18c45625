package plugins

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"

	"github.com/gadling/hob"
	"github.com/gadling/hob/actions"
	"github.com/gadling/hob/option"
	"github.com/gadling/hob/plugin"
)

const (
	// DicePluginName holds identifying name for the dice plugin
	DicePluginName = "dice"

	maxDiceCount = 100
)

var diceRollRegex = regexp.MustCompile(`^(\d+)?d(\d+)\s*$`)

const diceHelp = "Example: `!dice 2d6` => `2d6 => 3 | 5`"

// DiceRoll is a number of dice of the same number of faces
type DiceRoll struct {
	Count int
	Faces int
}

// ParseDiceRoll parses a roll such as 2d6 or d20. The count defaults to 1
func ParseDiceRoll(s string) option.Option[DiceRoll] {
	m := diceRollRegex.FindStringSubmatch(s)
	if m == nil {
		return option.None[DiceRoll]()
	}

	roll := DiceRoll{Count: 1}
	if m[1] != "" {
		roll.Count, _ = strconv.Atoi(m[1])
	}
	roll.Faces, _ = strconv.Atoi(m[2])

	if roll.Count < 1 || roll.Count > maxDiceCount || roll.Faces < 1 {
		return option.None[DiceRoll]()
	}

	return option.Some(roll)
}

// NewDice creates a new instance of the dice plugin. A nil rnd uses a time-seeded source
func NewDice(rnd *rand.Rand) (p *hob.Plugin) {
	r := newRandomizer(rnd)

	return plugin.New(DicePluginName).
		WithCommand(actions.NewCommand("dice").
			WithUsage("!dice [COUNT]dFACES").
			WithDescription("Rolls `COUNT` dice of `FACES` faces").
			WithExamples("`!dice 2d6` => `2d6 => 3 | 5`").
			WithHandler(func(ctx context.Context, c *hob.BangCommand) (*hob.Answer, error) {
				return answerDiceRoll(r, c), nil
			}).
			Build()).
		Build()
}

func answerDiceRoll(r *randomizer, c *hob.BangCommand) *hob.Answer {
	rest, ok := c.Rest.Get()
	if !ok {
		return &hob.Answer{Text: diceHelp}
	}

	roll, ok := ParseDiceRoll(rest).Get()
	if !ok {
		return &hob.Answer{Text: diceHelp}
	}

	results := make([]string, roll.Count)
	for i := range results {
		results[i] = fmt.Sprintf("`%d`", r.Intn(roll.Faces)+1)
	}

	return &hob.Answer{Text: fmt.Sprintf("%s => %s", rest, strings.Join(results, " | "))}
}
