package hangman

import (
	"sync"

	"github.com/gadling/hob/option"
)

// Slot holds the current game, if any. All operations are safe for concurrent use
type Slot struct {
	lock sync.Mutex
	game option.Option[*Game]
}

// NewSlot returns an empty Slot
func NewSlot() (s *Slot) {
	return new(Slot)
}

// Current returns the current game
func (s *Slot) Current() option.Option[*Game] {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.game
}

// Start sets g as the current game unless a game is already in progress
func (s *Slot) Start(g *Game) (started bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if current, ok := s.game.Get(); ok && current.IsInProgress() {
		return false
	}

	s.game = option.Some(g)

	return true
}

// Update runs fn on the current game and returns its result. The slot is cleared when the
// game is over once fn returns. Update returns None when there is no current game
func (s *Slot) Update(fn func(g *Game) string) option.Option[string] {
	s.lock.Lock()
	defer s.lock.Unlock()

	g, ok := s.game.Get()
	if !ok {
		return option.None[string]()
	}

	result := fn(g)
	if !g.IsInProgress() {
		s.game = option.None[*Game]()
	}

	return option.Some(result)
}

// Clear removes the current game
func (s *Slot) Clear() {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.game = option.None[*Game]()
}
