package hob_test

import (
	"bytes"
	"context"
	"log"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gadling/hob"
	"github.com/gadling/hob/option"
)

func newTestRegistry() (r *hob.Registry, logs *bytes.Buffer) {
	logs = new(bytes.Buffer)
	return hob.NewRegistry(hob.NewSLogger(log.New(logs, "", 0), true)), logs
}

func echo(ctx context.Context, c *hob.BangCommand) (*hob.Answer, error) {
	return &hob.Answer{Text: c.Rest.OrElse("(nothing)")}, nil
}

func answerTexts(answers []*hob.OutgoingAnswer) (texts []string) {
	texts = make([]string, 0)
	for _, a := range answers {
		texts = append(texts, a.Text)
	}

	return texts
}

func TestRegisterCommandTwiceFails(t *testing.T) {
	r, _ := newTestRegistry()

	require.NoError(t, r.RegisterCommand("first", "echo", hob.HelpEntry{}, echo))
	assert.EqualError(t, r.RegisterCommand("second", "echo", hob.HelpEntry{}, echo), "cannot redefine command 'echo'")
}

func TestRegisterSlashCommandTwiceFails(t *testing.T) {
	r, _ := newTestRegistry()
	h := func(ctx context.Context, c *hob.SlashCommand) (*hob.Answer, error) { return nil, nil }

	require.NoError(t, r.RegisterSlashCommand("emu", "/be", h))
	assert.EqualError(t, r.RegisterSlashCommand("emu", "/be", h), "cannot redefine slash command '/be'")
}

func TestDispatchCommand(t *testing.T) {
	r, _ := newTestRegistry()
	require.NoError(t, r.RegisterCommand("parrot", "echo", hob.HelpEntry{}, echo))

	testCases := map[string]struct {
		text     string
		expected []string
	}{
		"withRest":          {"!echo  hello world ", []string{"hello world"}},
		"withoutRest":       {"!echo", []string{"(nothing)"}},
		"leadingWhitespace": {"   !echo hi", []string{"hi"}},
		"caseSensitive":     {"!ECHO hi", []string{}},
		"notABang":          {"echo hi", []string{}},
		"bangOnly":          {"!", []string{}},
		"unknown":           {"!nope hi", []string{}},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			answers := r.Dispatch(context.Background(), &hob.Message{Channel: "C1", User: "U1", Text: tc.text, Timestamp: "1.0"})
			assert.Equal(t, tc.expected, answerTexts(answers))
		})
	}
}

func TestDispatchAnswerIdentifiers(t *testing.T) {
	r, _ := newTestRegistry()
	require.NoError(t, r.RegisterCommand("parrot", "echo", hob.HelpEntry{}, echo))
	r.RegisterPassiveListener("parrot", hob.HelpEntry{}, func(ctx context.Context, m *hob.Message) (*hob.Answer, error) {
		return &hob.Answer{Text: "squawk"}, nil
	})

	answers := r.Dispatch(context.Background(), &hob.Message{Channel: "C1", Text: "!echo hi"})

	require.Len(t, answers, 2)
	assert.Equal(t, "parrot.c[echo]", answers[0].ID)
	assert.Equal(t, "parrot.l[0]", answers[1].ID)
	assert.Equal(t, "C1", answers[1].Channel)
}

func TestDispatchIgnoresSubtypesAndEmptyText(t *testing.T) {
	r, _ := newTestRegistry()
	called := 0
	r.RegisterPassiveListener("counter", hob.HelpEntry{}, func(ctx context.Context, m *hob.Message) (*hob.Answer, error) {
		called++
		return nil, nil
	})

	assert.Empty(t, r.Dispatch(context.Background(), &hob.Message{Channel: "C1", Text: "hi", SubType: "message_changed"}))
	assert.Empty(t, r.Dispatch(context.Background(), &hob.Message{Channel: "C1", Text: ""}))
	assert.Equal(t, 0, called)
}

func TestDispatchUnrecognizedCommandIsLogged(t *testing.T) {
	r, logs := newTestRegistry()

	r.Dispatch(context.Background(), &hob.Message{Channel: "C1", Text: "!nope"})

	assert.Contains(t, logs.String(), "Ignoring unrecognized command: !nope")
}

func TestPanickingListenerDoesNotStopSiblings(t *testing.T) {
	r, logs := newTestRegistry()
	r.RegisterPassiveListener("grumpy", hob.HelpEntry{}, func(ctx context.Context, m *hob.Message) (*hob.Answer, error) {
		panic("not today")
	})
	r.RegisterPassiveListener("failing", hob.HelpEntry{}, func(ctx context.Context, m *hob.Message) (*hob.Answer, error) {
		return nil, errors.New("storage is down")
	})
	r.RegisterPassiveListener("happy", hob.HelpEntry{}, func(ctx context.Context, m *hob.Message) (*hob.Answer, error) {
		return &hob.Answer{Text: "hello!"}, nil
	})

	answers := r.Dispatch(context.Background(), &hob.Message{Channel: "C1", Text: "hi"})

	assert.Equal(t, []string{"hello!"}, answerTexts(answers))
	assert.Contains(t, logs.String(), "Recovered from panic in [grumpy] listener [grumpy.l[0]] on channel [C1]: not today")
	assert.Contains(t, logs.String(), "Error in [failing] listener [failing.l[1]] on channel [C1]: storage is down")
}

func TestPanickingCommandIsRecovered(t *testing.T) {
	r, _ := newTestRegistry()
	require.NoError(t, r.RegisterCommand("grumpy", "boom", hob.HelpEntry{}, func(ctx context.Context, c *hob.BangCommand) (*hob.Answer, error) {
		var c2 *hob.BangCommand
		return &hob.Answer{Text: c2.Command}, nil
	}))

	assert.Empty(t, r.Dispatch(context.Background(), &hob.Message{Channel: "C1", Text: "!boom"}))
}

func TestDispatchMention(t *testing.T) {
	r, _ := newTestRegistry()
	r.RegisterMentionListener("ryecock", func(ctx context.Context, m *hob.Message) (*hob.Answer, error) {
		return &hob.Answer{Text: "chili?"}, nil
	})

	answers := r.DispatchMention(context.Background(), &hob.Message{Channel: "C1", Text: "<@UHOB> chili"})

	require.Len(t, answers, 1)
	assert.Equal(t, "ryecock.m[0]", answers[0].ID)
	assert.Empty(t, r.Dispatch(context.Background(), &hob.Message{Channel: "C1", Text: "<@UHOB> chili"}))
}

func TestDispatchSlash(t *testing.T) {
	r, logs := newTestRegistry()
	require.NoError(t, r.RegisterSlashCommand("emu", "/be", func(ctx context.Context, c *hob.SlashCommand) (*hob.Answer, error) {
		return &hob.Answer{Text: "being " + c.Text}, nil
	}))

	a := r.DispatchSlash(context.Background(), &hob.SlashCommand{Command: "/be", Text: "ptweak", Channel: "C1"})
	require.NotNil(t, a)
	assert.Equal(t, "being ptweak", a.Text)
	assert.Equal(t, "emu.s[/be]", a.ID)

	assert.Nil(t, r.DispatchSlash(context.Background(), &hob.SlashCommand{Command: "/nope", Channel: "C1"}))
	assert.Contains(t, logs.String(), "Ignoring unrecognized slash command: /nope")
}

func TestRegisterPluginStopsOnDuplicate(t *testing.T) {
	r, _ := newTestRegistry()

	p := &hob.Plugin{Name: "dup", Commands: []hob.CommandDefinition{
		{Name: "x", Handler: echo},
		{Name: "x", Handler: echo},
	}}

	assert.EqualError(t, r.RegisterPlugin(p), "cannot redefine command 'x'")
}

func TestCommandHelpDefaults(t *testing.T) {
	r, _ := newTestRegistry()
	require.NoError(t, r.RegisterCommand("dice", "dice", hob.HelpEntry{Description: "rolls dice"}, echo))
	require.NoError(t, r.RegisterCommand("dice", "roll", hob.HelpEntry{Section: "games", Invocation: option.Some("!roll NdM"), Description: "rolls dice too"}, echo))

	assert.Equal(t, "• `!dice` - rolls dice", r.RenderHelp(option.Some("dice")))
	assert.Equal(t, "• `!roll NdM` - rolls dice too", r.RenderHelp(option.Some("games")))
}
