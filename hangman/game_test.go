package hangman_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gadling/hob/hangman"
)

func newGame(t *testing.T, word string, opts ...hangman.Option) (g *hangman.Game) {
	g, err := hangman.New(word, opts...)
	require.NoError(t, err)

	return g
}

func TestNewGame(t *testing.T) {
	tests := []struct {
		name    string
		word    string
		opts    []hangman.Option
		wantErr string
	}{
		{"lowercase", "apple", nil, ""},
		{"uppercase is lowered", "Apple", nil, ""},
		{"accents are rejected", "café", nil, "Words with non-ASCII characters are not supported: [café]"},
		{"empty is rejected", "", nil, "Words with non-ASCII characters are not supported: []"},
		{"limb limit too low", "apple", []hangman.Option{hangman.WithLimbLimit(0)}, "limb limit must be between 1 and 7 but was [0]"},
		{"limb limit too high", "apple", []hangman.Option{hangman.WithLimbLimit(8)}, "limb limit must be between 1 and 7 but was [8]"},
		{"limb limit of seven", "apple", []hangman.Option{hangman.WithLimbLimit(7)}, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, err := hangman.New(tc.word, tc.opts...)
			if tc.wantErr != "" {
				assert.EqualError(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "_____", g.RedactedWord())
			assert.True(t, g.IsInProgress())
		})
	}
}

func TestWinningByLetters(t *testing.T) {
	g := newGame(t, "apple")

	inProgress, err := g.GuessLetter("a")
	require.NoError(t, err)
	assert.True(t, inProgress)
	assert.Equal(t, "a____", g.RedactedWord())

	for _, l := range []string{"P", "l"} {
		_, err = g.GuessLetter(l)
		require.NoError(t, err)
	}

	assert.Equal(t, "appl_", g.RedactedWord())

	inProgress, err = g.GuessLetter("e")
	require.NoError(t, err)
	assert.False(t, inProgress)
	assert.Equal(t, hangman.Won, g.Outcome())
	assert.False(t, g.IsInProgress())
	assert.Equal(t, []rune{'a', 'e', 'l', 'p'}, g.Guessed())
	assert.Empty(t, g.Missed())

	word, err := g.Word().Get()
	require.NoError(t, err)
	assert.Equal(t, "apple", word)
}

func TestLosingByLetters(t *testing.T) {
	g := newGame(t, "apple")

	for i, l := range []string{"z", "q", "x", "j", "v", "w"} {
		_, err := g.GuessLetter(l)
		require.NoError(t, err)
		assert.Equal(t, i+1, g.WrongAttempts())
	}

	assert.Equal(t, hangman.Lost, g.Outcome())
	assert.Equal(t, []rune{'j', 'q', 'v', 'w', 'x', 'z'}, g.Missed())

	_, err := g.GuessLetter("a")
	assert.Equal(t, hangman.ErrGameOver, err)
	assert.Equal(t, 6, g.WrongAttempts())
	assert.Equal(t, "_____", g.RedactedWord())
	assert.Equal(t, hangman.Lost, g.Outcome())
}

func TestSeventhLimbWithLimitOfSeven(t *testing.T) {
	g := newGame(t, "apple", hangman.WithLimbLimit(7))

	for _, l := range []string{"z", "q", "x", "j", "v", "w"} {
		_, err := g.GuessLetter(l)
		require.NoError(t, err)
	}

	assert.True(t, g.IsInProgress())

	_, err := g.GuessLetter("k")
	require.NoError(t, err)
	assert.Equal(t, hangman.Lost, g.Outcome())
	assert.Equal(t, 7, g.LimbLimit())
}

func TestGuessLetterErrors(t *testing.T) {
	g := newGame(t, "apple")

	_, err := g.GuessLetter("a")
	require.NoError(t, err)

	tests := []struct {
		letter  string
		wantErr string
	}{
		{"ab", "One letter at a time!"},
		{"", "One letter at a time!"},
		{"1", "Invalid letter `1`!"},
		{"é", "Invalid letter `é`!"},
		{"a", "a was already suggested!"},
		{"A", "a was already suggested!"},
	}

	for _, tc := range tests {
		t.Run(tc.letter, func(t *testing.T) {
			_, err := g.GuessLetter(tc.letter)
			assert.EqualError(t, err, tc.wantErr)
		})
	}

	assert.Equal(t, 0, g.WrongAttempts())
	assert.True(t, g.IsInProgress())
}

func TestGuessWord(t *testing.T) {
	g := newGame(t, "apple")

	for _, l := range []string{"z", "q", "x", "j", "v"} {
		_, err := g.GuessLetter(l)
		require.NoError(t, err)
	}

	outcome, err := g.GuessWord("APPLE")
	require.NoError(t, err)
	assert.Equal(t, hangman.Won, outcome)
	assert.Equal(t, "apple", g.RedactedWord())

	_, err = g.GuessWord("apple")
	assert.Equal(t, hangman.ErrGameOver, err)
}

func TestWrongWordGuessCostsOneAttempt(t *testing.T) {
	g := newGame(t, "apple", hangman.WithLimbLimit(2))

	outcome, err := g.GuessWord("maple")
	require.NoError(t, err)
	assert.Equal(t, hangman.InProgress, outcome)
	assert.Equal(t, 1, g.WrongAttempts())

	outcome, err = g.GuessWord("ample")
	require.NoError(t, err)
	assert.Equal(t, hangman.Lost, outcome)
}

func TestForfeit(t *testing.T) {
	g := newGame(t, "apple")

	assert.Error(t, g.Word().Err())

	g.Forfeit()
	assert.Equal(t, hangman.Forfeited, g.Outcome())

	g.Forfeit()
	assert.Equal(t, hangman.Forfeited, g.Outcome())

	won := newGame(t, "a")
	_, err := won.GuessLetter("a")
	require.NoError(t, err)

	won.Forfeit()
	assert.Equal(t, hangman.Won, won.Outcome())
}

func TestRenderGallows(t *testing.T) {
	tests := []struct {
		attempts int
		figure   []string
	}{
		{0, []string{"║      ", "║     ", "║      "}},
		{1, []string{"║    O ", "║     ", "║      "}},
		{2, []string{"║    O ", "║    |", "║      "}},
		{4, []string{"║    O ", "║    |", "║   / \\"}},
		{6, []string{"║   \\O/", "║    |", "║   / \\"}},
		{7, []string{"║   \\X/", "║    |", "║   / \\"}},
	}

	for _, tc := range tests {
		t.Run(string(rune('0'+tc.attempts)), func(t *testing.T) {
			lines := hangman.RenderGallows(tc.attempts)

			require.Len(t, lines, 9)
			assert.Equal(t, "```", lines[0])
			assert.Equal(t, "╔════╕", lines[1])
			assert.Equal(t, tc.figure, lines[3:6])
			assert.Equal(t, "╩══════", lines[7])
			assert.Equal(t, "```", lines[8])
		})
	}
}
