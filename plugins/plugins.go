// Package plugins provides the plugins of hob: the calculator, dice, karma, the splainer,
// hangman, the ryecock chili gag and a few smaller ones
package plugins

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/slack-go/slack"

	"github.com/gadling/hob"
)

// normalizeUserID returns the mention form of a user id (i.e. <@U123>). Ids already in that form
// are returned untouched
func normalizeUserID(userID string) string {
	if strings.Contains(userID, "<@") {
		return userID
	}

	return "<@" + userID + ">"
}

// reactTo adds the OK or FAIL emoji reaction to a message depending on ok
func reactTo(ctx context.Context, er hob.EmojiReactor, m *hob.Message, ok bool) error {
	name := hob.EmojiFail
	if ok {
		name = hob.EmojiOK
	}

	return er.AddReaction(ctx, name, slack.NewRefToMessage(m.Channel, m.Timestamp))
}

// randomizer is a rand.Rand safe for concurrent use
type randomizer struct {
	lock sync.Mutex
	rnd  *rand.Rand
}

func newRandomizer(rnd *rand.Rand) (r *randomizer) {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &randomizer{rnd: rnd}
}

func (r *randomizer) Intn(n int) int {
	r.lock.Lock()
	defer r.lock.Unlock()

	return r.rnd.Intn(n)
}

func (r *randomizer) Float64() float64 {
	r.lock.Lock()
	defer r.lock.Unlock()

	return r.rnd.Float64()
}

// selectFrom returns a random element of choices
func selectFrom[T any](r *randomizer, choices []T) T {
	return choices[r.Intn(len(choices))]
}

// withRand runs fn with exclusive use of the underlying rand.Rand
func (r *randomizer) withRand(fn func(rnd *rand.Rand)) {
	r.lock.Lock()
	defer r.lock.Unlock()

	fn(r.rnd)
}
