package plugins

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/slack-go/slack"

	"github.com/gadling/hob"
	"github.com/gadling/hob/actions"
	"github.com/gadling/hob/brain"
	"github.com/gadling/hob/option"
	"github.com/gadling/hob/plugin"
)

const (
	// SplainerPluginName holds identifying name for the splainer plugin
	SplainerPluginName = "splain"

	maxThingLength      = 42
	minBotsplainLength  = 5
	factAssignmentToken = ":="
)

var fetchRegex = regexp.MustCompile(`^\?(.+?)\s*$`)
var passiveFetchRegex = regexp.MustCompile(`(?i)^\s*(?:what|who) (is|are) (.+?)\??\s*$`)
var passiveLearnRegex = regexp.MustCompile(`(?i)^\s*(.+?)\s+(?:is|are)\s+(.+)\s*$`)
var questionWordRegex = regexp.MustCompile(`(?i)(?:what|who)`)

// Splainer holds the plugin data for the splainer plugin. It learns facts about things and
// shares them when asked (or not)
type Splainer struct {
	*hob.Plugin
	facts brain.FactStorer
	r     *randomizer
}

type searchResults struct {
	SearchTerm string              `json:"searchTerm"`
	Results    []map[string]string `json:"results"`
}

type factDump struct {
	Active   []map[string]string `json:"active"`
	Inactive []map[string]string `json:"inactive"`
}

// NewSplainer creates a new instance of the splainer plugin. A nil rnd uses a time-seeded source
func NewSplainer(facts brain.FactStorer, rnd *rand.Rand) (s *Splainer) {
	s = new(Splainer)
	s.facts = facts
	s.r = newRandomizer(rnd)

	s.Plugin = plugin.New(SplainerPluginName).
		WithCommand(actions.NewCommand("learn").
			WithUsage("!learn THING := FACT").
			WithDescription("Learn a fact").
			WithExamples("`!learn Ontario := a province`").
			WithHandler(s.learn).
			Build()).
		WithCommand(actions.NewCommand("forget").
			WithUsage("!forget THING := FACT").
			WithDescription("Forget a fact").
			WithExamples("`!forget pluto := a planet`").
			WithHandler(s.forget).
			Build()).
		WithCommand(actions.NewCommand("forget*").
			WithUsage("!forget* THING").
			WithDescription("Forget everything about a thing").
			WithExamples("`!forget* the 2016 election`").
			WithHandler(s.forgetAll).
			Build()).
		WithCommand(actions.NewCommand("lookup").
			WithUsage("!lookup THING").
			WithDescription("Look-up all facts about a thing").
			WithExamples("`!lookup at the sky`").
			WithHandler(s.lookup).
			Build()).
		WithCommand(actions.NewCommand("search").
			WithUsage("!search WORD").
			WithDescription("Search all knowledge for a term/substring").
			WithExamples("`!search high and low`").
			WithHandler(s.search).
			Build()).
		WithCommand(actions.NewCommand("dump!").
			WithDescriptionf("Dump entire fact store (max %d records)", brain.DumpLimit).
			WithExamples("`!dump!`").
			WithHandler(s.dump).
			Build()).
		WithPassiveListener(actions.NewListener().
			WithUsage("?THING").
			WithDescription("Fetch a random fact about `THING` (if known)").
			WithHandler(s.fetch).
			Build()).
		WithPassiveListener(actions.NewListener().
			WithDescription("I'll randomly botsplain things for you").
			WithHandler(s.botsplain).
			Build()).
		WithPassiveListener(actions.NewListener().
			WithUsage("what is THING? or who is PERSON?").
			WithDescription("Return a fact about `THING` or `PERSON`").
			WithHandler(s.passiveFetch).
			Build()).
		WithPassiveListener(actions.NewListener().
			WithUsage("THING is/are FACT").
			WithDescription("Learn a `FACT` about a `THING`").
			WithHandler(s.passiveLearn).
			Build()).
		Build()

	return s
}

// parseFactAssignment splits "THING := FACT" into its trimmed thing and fact
func parseFactAssignment(rest option.Option[string]) (thing string, fact string, ok bool) {
	expr, ok := rest.Get()
	if !ok {
		return "", "", false
	}

	parts := strings.SplitN(expr, factAssignmentToken, 2)
	if len(parts) != 2 {
		return "", "", false
	}

	thing, fact = strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])

	return thing, fact, thing != "" && fact != ""
}

func (s *Splainer) learn(ctx context.Context, c *hob.BangCommand) (*hob.Answer, error) {
	thing, fact, ok := parseFactAssignment(c.Rest)
	if !ok {
		return &hob.Answer{Text: "Usage: `!learn THING := FACT`"}, nil
	}

	err := s.facts.Learn(ctx, thing, fact)
	if err != nil {
		s.Logger.Printf("Failed to learn: %s: %v", c.Text, err)
	}

	return nil, hob.React(ctx, s.EmojiReactor, c, err == nil)
}

func (s *Splainer) forget(ctx context.Context, c *hob.BangCommand) (*hob.Answer, error) {
	thing, fact, ok := parseFactAssignment(c.Rest)
	if !ok {
		return &hob.Answer{Text: "Usage: `!forget THING := FACT`"}, nil
	}

	changed, err := s.facts.Forget(ctx, thing, fact)
	if err != nil {
		s.Logger.Printf("Failed to forget [%s == %s]: %v", thing, fact, err)
	} else {
		s.Logger.Debugf("Forgot %d fact(s) about [%s]", changed, thing)
	}

	return nil, hob.React(ctx, s.EmojiReactor, c, err == nil)
}

func (s *Splainer) forgetAll(ctx context.Context, c *hob.BangCommand) (*hob.Answer, error) {
	thing, ok := c.Rest.Get()
	if !ok {
		return &hob.Answer{Text: "Usage: `!forget* THING`"}, nil
	}

	changed, err := s.facts.ForgetAll(ctx, thing)
	if err != nil {
		s.Logger.Printf("Failed to forget facts for [%s]: %v", thing, err)
	} else {
		s.Logger.Debugf("Forgot %d fact(s) about [%s]", changed, thing)
	}

	return nil, hob.React(ctx, s.EmojiReactor, c, err == nil)
}

func (s *Splainer) lookup(ctx context.Context, c *hob.BangCommand) (*hob.Answer, error) {
	thing, ok := c.Rest.Get()
	if !ok {
		return &hob.Answer{Text: "Usage: `!lookup THING`"}, nil
	}

	facts, err := s.facts.Lookup(ctx, thing)
	if err != nil || len(facts) == 0 {
		return &hob.Answer{Text: fmt.Sprintf("I don't have anything for `%s`", thing)}, err
	}

	return nil, s.upload(ctx, c, thing, facts)
}

func (s *Splainer) search(ctx context.Context, c *hob.BangCommand) (*hob.Answer, error) {
	rest, ok := c.Rest.Get()
	if !ok {
		return &hob.Answer{Text: "Usage: `!search WORD`"}, nil
	}

	term := strings.TrimSpace(rest)
	facts, err := s.facts.Search(ctx, term)
	if err != nil {
		return &hob.Answer{Text: fmt.Sprintf("I don't have anything for `%s`: `%s`", rest, err.Error())}, err
	}

	if len(facts) == 0 {
		return &hob.Answer{Text: fmt.Sprintf("I don't have anything for `%s`: `No facts for %s`", rest, term)}, nil
	}

	results := searchResults{SearchTerm: term, Results: make([]map[string]string, 0, len(facts))}
	for _, f := range facts {
		results.Results = append(results.Results, map[string]string{f.Thing: f.Fact})
	}

	return nil, s.upload(ctx, c, term, results)
}

func (s *Splainer) dump(ctx context.Context, c *hob.BangCommand) (*hob.Answer, error) {
	facts, err := s.facts.Dump(ctx)
	if err != nil {
		return &hob.Answer{Text: fmt.Sprintf("I didn't find anything! %s", err.Error())}, err
	}

	d := factDump{Active: make([]map[string]string, 0), Inactive: make([]map[string]string, 0)}
	for _, f := range facts {
		if f.Inactive {
			d.Inactive = append(d.Inactive, map[string]string{f.Thing: f.Fact})
		} else {
			d.Active = append(d.Active, map[string]string{f.Thing: f.Fact})
		}
	}

	return nil, s.upload(ctx, c, "facts", d)
}

// upload sends the indented json of content as a file titled title
func (s *Splainer) upload(ctx context.Context, c *hob.BangCommand, title string, content interface{}) (err error) {
	raw, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "failed to encode [%s]", title)
	}

	_, err = s.FileUploader.UploadFile(ctx, slack.UploadFileV2Parameters{
		Filename: title + ".json",
		Title:    title,
		Content:  string(raw),
		Channel:  c.Channel,
	}, hob.UploadInThreadOption(c))

	return errors.Wrapf(err, "failed to upload [%s]", title)
}

// randomFact returns a random active fact about thing
func (s *Splainer) randomFact(ctx context.Context, thing string) (fact option.Option[string], err error) {
	facts, err := s.facts.Lookup(ctx, thing)
	if err != nil || len(facts) == 0 {
		return option.None[string](), err
	}

	return option.Some(selectFrom(s.r, facts)), nil
}

func (s *Splainer) fetch(ctx context.Context, m *hob.Message) (*hob.Answer, error) {
	match := fetchRegex.FindStringSubmatch(m.Text)
	if match == nil {
		return nil, nil
	}

	thing := match[1]
	fact, err := s.randomFact(ctx, thing)
	if f, ok := fact.Get(); ok {
		return &hob.Answer{Text: fmt.Sprintf("%s == %s", thing, f)}, nil
	}

	return &hob.Answer{Text: fmt.Sprintf("I can't find anything for `%s`", thing)}, err
}

func (s *Splainer) botsplain(ctx context.Context, m *hob.Message) (*hob.Answer, error) {
	if len(m.Text) <= minBotsplainLength || len(m.Text) > maxThingLength || isBang(m.Text) {
		return nil, nil
	}

	facts, err := s.facts.Mentioning(ctx, m.Text)
	if err != nil || len(facts) == 0 {
		return nil, err
	}

	f := selectFrom(s.r, facts)

	return &hob.Answer{Text: fmt.Sprintf("I heard %s was %s", f.Thing, f.Fact)}, nil
}

func (s *Splainer) passiveFetch(ctx context.Context, m *hob.Message) (*hob.Answer, error) {
	match := passiveFetchRegex.FindStringSubmatch(m.Text)
	if match == nil {
		return nil, nil
	}

	verb, thing := match[1], match[2]
	fact, err := s.randomFact(ctx, thing)
	if f, ok := fact.Get(); ok {
		return &hob.Answer{Text: fmt.Sprintf("%s %s %s", thing, verb, f)}, nil
	}

	return nil, err
}

func (s *Splainer) passiveLearn(ctx context.Context, m *hob.Message) (*hob.Answer, error) {
	text := strings.TrimSpace(m.Text)
	if isBang(text) || questionWordRegex.MatchString(text) || strings.Contains(text, "?") {
		return nil, nil
	}

	match := passiveLearnRegex.FindStringSubmatch(text)
	if match == nil {
		return nil, nil
	}

	thing, fact := match[1], match[2]
	if len(thing) > maxThingLength {
		return nil, nil
	}

	s.Logger.Debugf("Learning [%s] [%s]", thing, fact)
	if err := s.facts.Learn(ctx, thing, fact); err != nil {
		s.Logger.Printf("Failed to learn [%s == %s]: %v", thing, fact, err)
		return nil, reactTo(ctx, s.EmojiReactor, m, false)
	}

	return nil, nil
}

// isBang returns true if text is a bang command (i.e. "!learn x := y")
func isBang(text string) bool {
	return hob.ParseBang(text).IsSome()
}
