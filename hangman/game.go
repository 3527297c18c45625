// Package hangman implements the game of hangman: the game state machine, its rendering and
// the selection of words from a dictionary
package hangman

import (
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/gadling/hob/option"
)

// Outcome of a game
type Outcome int

// Game outcomes
const (
	InProgress Outcome = iota
	Won
	Lost
	Forfeited
)

func (o Outcome) String() string {
	switch o {
	case Won:
		return "won"
	case Lost:
		return "lost"
	case Forfeited:
		return "forfeited"
	default:
		return "in progress"
	}
}

// Limb limits
const (
	DefaultLimbLimit = 6
	MinLimbLimit     = 1
	MaxLimbLimit     = 7
)

var (
	// ErrGameOver is returned when guessing on a game that is over
	ErrGameOver = errors.New("The game is over!")

	// ErrOneLetterAtATime is returned when a letter guess isn't a single character
	ErrOneLetterAtATime = errors.New("One letter at a time!")

	errGameInProgress = errors.New("There is already a game in progress!")
)

var validWord = regexp.MustCompile("^[a-z]+$")

// Game is a game of hangman. It isn't safe for concurrent use, see Slot for that
type Game struct {
	word          string
	guessed       map[rune]struct{}
	wrongAttempts int
	limbLimit     int
	outcome       Outcome
}

// Option defines an option of a Game
type Option func(g *Game)

// WithLimbLimit sets the number of wrong attempts after which the game is lost
func WithLimbLimit(limit int) Option {
	return func(g *Game) {
		g.limbLimit = limit
	}
}

// New returns a new game in progress for word. Only words of ascii letters are supported
func New(word string, opts ...Option) (g *Game, err error) {
	word = strings.ToLower(word)
	if !validWord.MatchString(word) {
		return nil, errors.Errorf("Words with non-ASCII characters are not supported: [%s]", word)
	}

	g = &Game{word: word, guessed: make(map[rune]struct{}), limbLimit: DefaultLimbLimit, outcome: InProgress}
	for _, opt := range opts {
		opt(g)
	}

	if g.limbLimit < MinLimbLimit || g.limbLimit > MaxLimbLimit {
		return nil, errors.Errorf("limb limit must be between %d and %d but was [%d]", MinLimbLimit, MaxLimbLimit, g.limbLimit)
	}

	return g, nil
}

// GuessLetter suggests a letter and returns whether the game is still in progress
func (g *Game) GuessLetter(letter string) (inProgress bool, err error) {
	letter = strings.ToLower(letter)

	if !g.IsInProgress() {
		return false, ErrGameOver
	}

	if len([]rune(letter)) != 1 {
		return true, ErrOneLetterAtATime
	}

	r := []rune(letter)[0]
	if r < 'a' || r > 'z' {
		return true, errors.Errorf("Invalid letter `%s`!", letter)
	}

	if _, guessed := g.guessed[r]; guessed {
		return true, errors.Errorf("%s was already suggested!", letter)
	}

	g.guessed[r] = struct{}{}
	if !strings.ContainsRune(g.word, r) {
		g.wrongAttempts++
	}

	g.evaluate()

	return g.IsInProgress(), nil
}

// GuessWord guesses the whole word. A wrong guess costs one attempt
func (g *Game) GuessWord(candidate string) (outcome Outcome, err error) {
	if !g.IsInProgress() {
		return g.outcome, ErrGameOver
	}

	if strings.ToLower(candidate) == g.word {
		for _, r := range g.word {
			g.guessed[r] = struct{}{}
		}
		g.outcome = Won

		return g.outcome, nil
	}

	g.wrongAttempts++
	g.evaluate()

	return g.outcome, nil
}

// Forfeit ends a game in progress. It does nothing on a game already over
func (g *Game) Forfeit() {
	if g.IsInProgress() {
		g.outcome = Forfeited
	}
}

// evaluate settles the outcome. The limb limit is checked first
func (g *Game) evaluate() {
	if g.wrongAttempts >= g.limbLimit {
		g.outcome = Lost
		return
	}

	if g.RedactedWord() == g.word {
		g.outcome = Won
	}
}

// RedactedWord returns the word with unguessed letters replaced by '_'
func (g *Game) RedactedWord() string {
	var b strings.Builder
	for _, r := range g.word {
		if _, guessed := g.guessed[r]; guessed {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}

	return b.String()
}

// Guessed returns the letters suggested so far, sorted
func (g *Game) Guessed() (letters []rune) {
	letters = make([]rune, 0, len(g.guessed))
	for r := range g.guessed {
		letters = append(letters, r)
	}

	sort.Slice(letters, func(i, j int) bool { return letters[i] < letters[j] })

	return letters
}

// Missed returns the suggested letters that aren't in the word, sorted
func (g *Game) Missed() (letters []rune) {
	letters = make([]rune, 0)
	for _, r := range g.Guessed() {
		if !strings.ContainsRune(g.word, r) {
			letters = append(letters, r)
		}
	}

	return letters
}

// WrongAttempts returns the number of wrong guesses
func (g *Game) WrongAttempts() int {
	return g.wrongAttempts
}

// LimbLimit returns the number of wrong attempts after which the game is lost
func (g *Game) LimbLimit() int {
	return g.limbLimit
}

// Outcome returns the outcome of the game
func (g *Game) Outcome() Outcome {
	return g.outcome
}

// IsInProgress returns true until the game is won, lost or forfeited
func (g *Game) IsInProgress() bool {
	return g.outcome == InProgress
}

// Word returns the word once the game is over
func (g *Game) Word() option.Result[string] {
	if g.IsInProgress() {
		return option.Err[string](errGameInProgress)
	}

	return option.Ok(g.word)
}
