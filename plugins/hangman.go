package plugins

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/pkg/errors"

	"github.com/gadling/hob"
	"github.com/gadling/hob/actions"
	"github.com/gadling/hob/config"
	"github.com/gadling/hob/hangman"
	"github.com/gadling/hob/option"
	"github.com/gadling/hob/plugin"
)

const (
	// HangmanPluginName holds identifying name for the hangman plugin
	HangmanPluginName = "hangman"

	hangmanWordsPathKey     = "wordsPath"     // Dictionary of one word per line ('~' is expanded), string value (overridden by WORDS_PATH)
	hangmanMinWordLengthKey = "minWordLength" // Minimum length of the selected words, int value
	hangmanHomeChannelKey   = "homeChannel"   // Id of the only channel where games are played. Empty allows every channel, string value
	hangmanLimbLimitKey     = "limbLimit"     // Wrong attempts before the game is lost, int value

	defaultWordsPath     = "/usr/share/dict/words"
	defaultMinWordLength = 4
)

// Hangman holds the plugin data for the hangman plugin
type Hangman struct {
	*hob.Plugin
	slot          *hangman.Slot
	wordsPath     string
	minWordLength int
	homeChannel   string
	limbLimit     int
	r             *randomizer
}

// NewHangman creates a new instance of the hangman plugin. A nil rnd uses a time-seeded source
func NewHangman(c *config.PluginConfig, rnd *rand.Rand) (h *Hangman, err error) {
	c.SetDefault(hangmanWordsPathKey, defaultWordsPath)
	c.SetDefault(hangmanMinWordLengthKey, defaultMinWordLength)
	c.SetDefault(hangmanHomeChannelKey, "")
	c.SetDefault(hangmanLimbLimitKey, hangman.DefaultLimbLimit)

	h = new(Hangman)
	h.slot = hangman.NewSlot()
	h.r = newRandomizer(rnd)
	h.wordsPath = c.GetString(hangmanWordsPathKey)
	h.homeChannel = c.GetString(hangmanHomeChannelKey)

	if h.minWordLength, err = c.GetIntE(hangmanMinWordLengthKey); err != nil {
		return nil, err
	}

	if h.limbLimit, err = c.GetIntE(hangmanLimbLimitKey); err != nil {
		return nil, err
	}

	if h.limbLimit < hangman.MinLimbLimit || h.limbLimit > hangman.MaxLimbLimit {
		return nil, errors.Errorf("invalid %s [%d], must be between %d and %d", hangmanLimbLimitKey, h.limbLimit, hangman.MinLimbLimit, hangman.MaxLimbLimit)
	}

	h.Plugin = plugin.New(HangmanPluginName).
		WithCommand(actions.NewCommand("hangman").
			InSection(HangmanPluginName).
			WithDescription("Starts a new game of hangman").
			WithHandler(h.homeOnly(h.start)).
			Build()).
		WithCommand(actions.NewCommand("guess").
			InSection(HangmanPluginName).
			WithUsage("!guess WORD").
			WithDescription("Make a guess about the hangman word").
			WithExamples("`!guess rosebud`").
			WithHandler(h.homeOnly(h.guess)).
			Build()).
		WithCommand(actions.NewCommand("letter").
			InSection(HangmanPluginName).
			WithUsage("!letter LETTER").
			WithDescription("Suggest a letter").
			WithExamples("`!letter x`").
			WithHandler(h.homeOnly(h.letter)).
			Build()).
		WithCommand(actions.NewCommand("giveup").
			InSection(HangmanPluginName).
			WithDescription("Cancels the running game and displays the word").
			WithHandler(h.homeOnly(h.giveUp)).
			Build()).
		Build()

	return h, nil
}

// Slot returns the slot holding the current game
func (h *Hangman) Slot() *hangman.Slot {
	return h.slot
}

// homeOnly restricts a command to the home channel, when one is configured
func (h *Hangman) homeOnly(handler hob.CommandHandler) hob.CommandHandler {
	return func(ctx context.Context, c *hob.BangCommand) (*hob.Answer, error) {
		if h.homeChannel != "" && c.Channel != h.homeChannel {
			return &hob.Answer{Text: fmt.Sprintf("Hangman is played in <#%s>.", h.homeChannel)}, nil
		}

		return handler(ctx, c)
	}
}

// replyWith reacts to the command and answers with the lines
func (h *Hangman) replyWith(ctx context.Context, c *hob.BangCommand, ok bool, lines ...string) (*hob.Answer, error) {
	err := hob.React(ctx, h.EmojiReactor, c, ok)

	return &hob.Answer{Text: strings.Join(lines, "\n")}, err
}

func (h *Hangman) start(ctx context.Context, c *hob.BangCommand) (*hob.Answer, error) {
	userID := normalizeUserID(c.User)

	if rest, ok := c.Rest.Get(); ok {
		return h.replyWith(ctx, c, false, fmt.Sprintf("%s I don't know what to do with `%s`", userID, rest))
	}

	if g, ok := h.slot.Current().Get(); ok && g.IsInProgress() {
		return &hob.Answer{Text: h.inProgressText(g)}, nil
	}

	g, err := h.newGame()
	if err != nil {
		h.Logger.Printf("Failed to start a game of hangman: %v", err)
		return h.replyWith(ctx, c, false, "Something went wrong. Try again?")
	}

	if !h.slot.Start(g) {
		return &hob.Answer{Text: h.inProgressText(h.slot.Current().OrElse(g))}, nil
	}

	return h.replyWith(ctx, c, true, append([]string{"I've got a word. Let's play!"}, renderBoard(g)...)...)
}

func (h *Hangman) inProgressText(g *hangman.Game) string {
	return strings.Join(append([]string{"It looks like there's a game in progress. Do you want to `!giveup`?"}, renderBoard(g)...), "\n")
}

func (h *Hangman) newGame() (g *hangman.Game, err error) {
	var word option.Option[string]
	h.r.withRand(func(rnd *rand.Rand) {
		word, err = hangman.SelectWordFromFile(h.wordsPath, hangman.DefaultWordFilter, h.minWordLength, rnd)
	})

	if err != nil {
		return nil, err
	}

	w, ok := word.Get()
	if !ok {
		return nil, errors.Errorf("no word of at least %d letters in [%s]", h.minWordLength, h.wordsPath)
	}

	return hangman.New(w, hangman.WithLimbLimit(h.limbLimit))
}

func (h *Hangman) noGameAnswer(ctx context.Context, c *hob.BangCommand) (*hob.Answer, error) {
	return h.replyWith(ctx, c, false, fmt.Sprintf("There's no game in progress, %s.", normalizeUserID(c.User)))
}

func (h *Hangman) guess(ctx context.Context, c *hob.BangCommand) (*hob.Answer, error) {
	if h.slot.Current().IsNone() {
		return h.noGameAnswer(ctx, c)
	}

	guess, ok := c.Rest.Get()
	if !ok {
		return h.replyWith(ctx, c, false, fmt.Sprintf("What's your guess, %s?", normalizeUserID(c.User)))
	}

	return h.play(ctx, c, func(g *hangman.Game) error {
		_, err := g.GuessWord(guess)
		return err
	})
}

func (h *Hangman) letter(ctx context.Context, c *hob.BangCommand) (*hob.Answer, error) {
	if h.slot.Current().IsNone() {
		return h.noGameAnswer(ctx, c)
	}

	letter, ok := c.Rest.Get()
	if !ok {
		return h.replyWith(ctx, c, false, "What letter are asking for?")
	}

	if len([]rune(letter)) != 1 {
		return h.replyWith(ctx, c, false, fmt.Sprintf("One letter at a time, %s.", normalizeUserID(c.User)))
	}

	return h.play(ctx, c, func(g *hangman.Game) error {
		_, err := g.GuessLetter(letter)
		return err
	})
}

// play applies move to the current game and answers with the board, preceded by the move's
// error when it failed. Failed moves get the FAIL reaction
func (h *Hangman) play(ctx context.Context, c *hob.BangCommand, move func(g *hangman.Game) error) (*hob.Answer, error) {
	var moveErr error
	board := h.slot.Update(func(g *hangman.Game) string {
		var lines []string
		if moveErr = move(g); moveErr != nil {
			lines = append(lines, moveErr.Error())
		}

		return strings.Join(append(lines, renderBoard(g)...), "\n")
	})

	text, ok := board.Get()
	if !ok {
		return h.noGameAnswer(ctx, c)
	}

	if moveErr != nil {
		return h.replyWith(ctx, c, false, text)
	}

	return &hob.Answer{Text: text}, nil
}

func (h *Hangman) giveUp(ctx context.Context, c *hob.BangCommand) (*hob.Answer, error) {
	board := h.slot.Update(func(g *hangman.Game) string {
		if !g.IsInProgress() {
			return ""
		}

		g.Forfeit()

		return strings.Join(append([]string{fmt.Sprintf("%s forfeits the game!", normalizeUserID(c.User))}, renderBoard(g)...), "\n")
	})

	if text, ok := board.Get(); ok && text != "" {
		return &hob.Answer{Text: text}, nil
	}

	return &hob.Answer{Text: "There's no game in progress. Start a new one with `!hangman`"}, nil
}

// renderBoard renders the gallows, the word so far and the letters missed. Games that are
// over also get the word and the outcome
func renderBoard(g *hangman.Game) (lines []string) {
	lines = hangman.RenderGallows(g.WrongAttempts())
	lines = append(lines, fmt.Sprintf("The word so far: `%s`", g.RedactedWord()))

	missed := "(none)"
	if letters := g.Missed(); len(letters) > 0 {
		rendered := make([]string, len(letters))
		for i, l := range letters {
			rendered[i] = fmt.Sprintf("`%s`", strings.ToUpper(string(l)))
		}
		missed = strings.Join(rendered, " ")
	}
	lines = append(lines, fmt.Sprintf("Letters missed: %s", missed))

	if g.IsInProgress() {
		return lines
	}

	if word, err := g.Word().Get(); err == nil {
		lines = append(lines, fmt.Sprintf("*Game over. The word was `%s`*", word))
	}

	switch g.Outcome() {
	case hangman.Won:
		lines = append(lines, "*You win!*")
	case hangman.Lost:
		lines = append(lines, "*You lose!*")
	case hangman.Forfeited:
		lines = append(lines, "*You forfeit!*")
	}

	return lines
}
