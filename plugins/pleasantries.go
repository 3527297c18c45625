package plugins

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"time"

	"github.com/pkg/errors"

	"github.com/gadling/hob"
	"github.com/gadling/hob/actions"
	"github.com/gadling/hob/plugin"
)

const (
	// PleasantriesPluginName holds identifying name for the pleasantries plugin
	PleasantriesPluginName = "pleasantries"

	defaultSuspense = 2 * time.Second
)

var todayRegex = regexp.MustCompile(`(?i)^\s*today(?:\.|\?)*\s*$`)

type pleasantry struct {
	trigger   *regexp.Regexp
	responses []string
}

var pleasantries = []pleasantry{
	{
		trigger:   regexp.MustCompile(`(?i)\b(hello|hi)\b`),
		responses: []string{"ciao", "greetings", "hallå", "hello", "hej", "hey", "hi", "hola", "こんにちは"},
	},
	{
		trigger:   regexp.MustCompile(`(?i)\b(bye|so long|ttfn)\b`),
		responses: []string{"adiós", "bye", "ciao", "goodbye", "hejdå", "see ya", "so long", "さよなら"},
	},
	{
		trigger:   regexp.MustCompile(`(?i)\b(gracias|thank you|thanks|ty)\b`),
		responses: []string{"de nada", "don't mention it", "no problem!", "you're welcome!", "varsågod!", "どういたしまして"},
	},
}

// Pleasantries holds the plugin data for the pleasantries plugin
type Pleasantries struct {
	*hob.Plugin
	r        *randomizer
	now      func() time.Time
	suspense time.Duration
}

// PleasantriesOption defines an option for the pleasantries plugin
type PleasantriesOption func(p *Pleasantries)

// OptionNow sets the function telling the current time
func OptionNow(now func() time.Time) PleasantriesOption {
	return func(p *Pleasantries) {
		p.now = now
	}
}

// OptionSuspense sets the pause between "Today is..." and the day of the week
func OptionSuspense(suspense time.Duration) PleasantriesOption {
	return func(p *Pleasantries) {
		p.suspense = suspense
	}
}

// NewPleasantries creates a new instance of the pleasantries plugin. A nil rnd uses a time-seeded source
func NewPleasantries(rnd *rand.Rand, opts ...PleasantriesOption) (p *Pleasantries) {
	p = new(Pleasantries)
	p.r = newRandomizer(rnd)
	p.now = time.Now
	p.suspense = defaultSuspense

	for _, opt := range opts {
		opt(p)
	}

	p.Plugin = plugin.New(PleasantriesPluginName).
		WithPassiveListener(actions.NewListener().
			WithUsage("today").
			WithDescription("Displays the current day of the week").
			WithHandler(p.tellDay).
			Build()).
		WithPassiveListener(actions.NewListener().
			WithDescription("I try to be polite").
			WithHandler(p.bePolite).
			Build()).
		Build()

	return p
}

func (p *Pleasantries) tellDay(ctx context.Context, m *hob.Message) (*hob.Answer, error) {
	if !todayRegex.MatchString(m.Text) {
		return nil, nil
	}

	if _, err := p.MessagePoster.PostMessage(ctx, m.Channel, "Today is..."); err != nil {
		return nil, errors.Wrap(err, "failed to build up suspense")
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(p.suspense):
	}

	return &hob.Answer{Text: p.now().Weekday().String()}, nil
}

// bePolite answers the first pleasantry found in the message
func (p *Pleasantries) bePolite(ctx context.Context, m *hob.Message) (*hob.Answer, error) {
	for _, pl := range pleasantries {
		if pl.trigger.MatchString(m.Text) {
			return &hob.Answer{Text: fmt.Sprintf("%s %s", normalizeUserID(m.User), selectFrom(p.r, pl.responses))}, nil
		}
	}

	return nil, nil
}
