package plugins_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gadling/hob"
	"github.com/gadling/hob/config"
	"github.com/gadling/hob/hangman"
	"github.com/gadling/hob/plugins"
	"github.com/gadling/hob/test/assertanswer"
	"github.com/gadling/hob/test/assertplugin"
)

func newHangmanConfig(t *testing.T, words ...string) (pc *config.PluginConfig) {
	path := filepath.Join(t.TempDir(), "words")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(words, "\n")+"\n"), 0600))

	pc = newPluginConfig(plugins.HangmanPluginName)
	pc.Set("wordsPath", path)

	return pc
}

// board renders the expected answer: the leading lines, then the board and finally the trailing lines
func board(leading []string, wrongAttempts int, redacted string, missed string, trailing ...string) string {
	lines := append([]string{}, leading...)
	lines = append(lines, hangman.RenderGallows(wrongAttempts)...)
	lines = append(lines, "The word so far: `"+redacted+"`", "Letters missed: "+missed)

	return strings.Join(append(lines, trailing...), "\n")
}

func TestHangmanGame(t *testing.T) {
	testCases := []struct {
		text           string
		expectedAnswer string
		expectedEmojis []string
	}{
		{"!hangman", board([]string{"I've got a word. Let's play!"}, 0, "_____", "(none)"), []string{hob.EmojiOK}},
		{"!hangman", board([]string{"It looks like there's a game in progress. Do you want to `!giveup`?"}, 0, "_____", "(none)"), []string{}},
		{"!hangman now", "<@U1> I don't know what to do with `now`", []string{hob.EmojiFail}},
		{"!letter p", board(nil, 0, "_pp__", "(none)"), []string{}},
		{"!letter Z", board(nil, 1, "_pp__", "`Z`"), []string{}},
		{"!letter z", board([]string{"z was already suggested!"}, 1, "_pp__", "`Z`"), []string{hob.EmojiFail}},
		{"!letter 7", board([]string{"Invalid letter `7`!"}, 1, "_pp__", "`Z`"), []string{hob.EmojiFail}},
		{"!letter zz", "One letter at a time, <@U1>.", []string{hob.EmojiFail}},
		{"!letter", "What letter are asking for?", []string{hob.EmojiFail}},
		{"!letter q", board(nil, 2, "_pp__", "`Q` `Z`"), []string{}},
		{"!guess pear", board(nil, 3, "_pp__", "`Q` `Z`"), []string{}},
		{"!guess", "What's your guess, <@U1>?", []string{hob.EmojiFail}},
		{"!guess APPLE", board(nil, 3, "apple", "`Q` `Z`", "*Game over. The word was `apple`*", "*You win!*"), []string{}},
		{"!guess apple", "There's no game in progress, <@U1>.", []string{hob.EmojiFail}},
		{"!letter a", "There's no game in progress, <@U1>.", []string{hob.EmojiFail}},
		{"!giveup", "There's no game in progress. Start a new one with `!hangman`", []string{}},
		{"!hangman", board([]string{"I've got a word. Let's play!"}, 0, "_____", "(none)"), []string{hob.EmojiOK}},
		{"!giveup", board([]string{"<@U1> forfeits the game!"}, 0, "_____", "(none)", "*Game over. The word was `apple`*", "*You forfeit!*"), []string{}},
		{"!giveup", "There's no game in progress. Start a new one with `!hangman`", []string{}},
	}

	h, err := plugins.NewHangman(newHangmanConfig(t, "apple", "pie", "Zebra", "ça"), nil)
	require.NoError(t, err)

	assertplugin := assertplugin.New()

	for _, tc := range testCases {
		t.Run(tc.text, func(t *testing.T) {
			assertplugin.AnswersAndReacts(t, h.Plugin, msg(tc.text), func(t *testing.T, answers []*hob.Answer, emojis []string) bool {
				return assert.ElementsMatch(t, tc.expectedEmojis, emojis) &&
					assert.Len(t, answers, 1) && assertanswer.HasText(t, answers[0], tc.expectedAnswer)
			})
		})
	}
}

func TestHangmanLost(t *testing.T) {
	pc := newHangmanConfig(t, "apple")
	pc.Set("limbLimit", 2)

	h, err := plugins.NewHangman(pc, nil)
	require.NoError(t, err)

	assertplugin := assertplugin.New()
	assertplugin.AnswersAndReacts(t, h.Plugin, msg("!hangman"), func(t *testing.T, answers []*hob.Answer, emojis []string) bool {
		return assert.Equal(t, []string{hob.EmojiOK}, emojis)
	})
	assertplugin.AnswersAndReacts(t, h.Plugin, msg("!letter x"), func(t *testing.T, answers []*hob.Answer, emojis []string) bool {
		return assert.Len(t, answers, 1) && assertanswer.HasText(t, answers[0], board(nil, 1, "_____", "`X`"))
	})
	assertplugin.AnswersAndReacts(t, h.Plugin, msg("!guess peach"), func(t *testing.T, answers []*hob.Answer, emojis []string) bool {
		return assert.Len(t, answers, 1) && assertanswer.HasText(t, answers[0], board(nil, 2, "_____", "`X`", "*Game over. The word was `apple`*", "*You lose!*"))
	})

	assert.True(t, h.Slot().Current().IsNone())
}

func TestHangmanHomeChannel(t *testing.T) {
	pc := newHangmanConfig(t, "apple")
	pc.Set("homeChannel", "C9")

	h, err := plugins.NewHangman(pc, nil)
	require.NoError(t, err)

	assertplugin := assertplugin.New()
	for _, text := range []string{"!hangman", "!guess apple", "!letter a", "!giveup"} {
		assertplugin.AnswersAndReacts(t, h.Plugin, msg(text), func(t *testing.T, answers []*hob.Answer, emojis []string) bool {
			return assert.Empty(t, emojis) && assert.Len(t, answers, 1) && assertanswer.HasText(t, answers[0], "Hangman is played in <#C9>.")
		})
	}

	assertplugin.AnswersAndReacts(t, h.Plugin, &hob.Message{Channel: "C9", User: "U1", Text: "!hangman", Timestamp: "1.000"}, func(t *testing.T, answers []*hob.Answer, emojis []string) bool {
		return assert.Equal(t, []string{hob.EmojiOK}, emojis)
	})
}

func TestHangmanWithoutWords(t *testing.T) {
	testCases := map[string]*config.PluginConfig{
		"missingFile": func() *config.PluginConfig {
			pc := newPluginConfig(plugins.HangmanPluginName)
			pc.Set("wordsPath", filepath.Join(t.TempDir(), "nothing-here"))
			return pc
		}(),
		"noValidWord": newHangmanConfig(t, "ça", "Zebra", "pie"),
	}

	for name, pc := range testCases {
		t.Run(name, func(t *testing.T) {
			h, err := plugins.NewHangman(pc, nil)
			require.NoError(t, err)

			assertplugin := assertplugin.New()
			assertplugin.AnswersAndReacts(t, h.Plugin, msg("!hangman"), func(t *testing.T, answers []*hob.Answer, emojis []string) bool {
				return assert.Equal(t, []string{hob.EmojiFail}, emojis) &&
					assert.Len(t, answers, 1) && assertanswer.HasText(t, answers[0], "Something went wrong. Try again?")
			})
		})
	}
}

func TestHangmanInvalidConfiguration(t *testing.T) {
	testCases := map[string]struct {
		key   string
		value interface{}
	}{
		"limbLimitTooHigh":  {"limbLimit", 8},
		"limbLimitTooLow":   {"limbLimit", 0},
		"invalidLimbLimit":  {"limbLimit", "many"},
		"invalidWordLength": {"minWordLength", "long"},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			pc := newPluginConfig(plugins.HangmanPluginName)
			pc.Set(tc.key, tc.value)

			_, err := plugins.NewHangman(pc, nil)
			assert.Error(t, err)
		})
	}
}
