// Package brain holds what hob remembers: facts about things, karma and flood cooldowns.
// The interfaces are implemented over any store.SiloStringStorer (leveldb, in-memory or
// google cloud datastore) and over postgres by the pgbrain package
package brain

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/gadling/hob/option"
)

// Limits applied to fact queries
const (
	LookupLimit       = 100
	SearchLimit       = 100
	DumpLimit         = 500
	MinSearchTermSize = 3
)

// ErrQueryTooShort is returned by Search when the term has fewer than MinSearchTermSize characters
var ErrQueryTooShort = errors.New("query too short")

// Fact is something learned about a thing. Forgotten facts are kept as inactive
type Fact struct {
	Thing    string `json:"-"`
	Fact     string `json:"fact"`
	Inactive bool   `json:"inactive,omitempty"`
}

// FactStorer is implemented by any value that can learn, forget and look up facts
type FactStorer interface {
	// Learn adds the fact to thing or reactivates it if it was forgotten
	Learn(ctx context.Context, thing string, fact string) (err error)

	// Forget marks a single fact of thing as inactive and returns how many facts changed
	Forget(ctx context.Context, thing string, fact string) (changed int, err error)

	// ForgetAll marks every fact of thing as inactive and returns how many facts changed
	ForgetAll(ctx context.Context, thing string) (changed int, err error)

	// Lookup returns the active facts of thing, sorted
	Lookup(ctx context.Context, thing string) (facts []string, err error)

	// Search returns active facts whose thing or fact contain term, ignoring case
	Search(ctx context.Context, term string) (facts []Fact, err error)

	// Dump returns every fact, inactive ones included, sorted by thing and fact
	Dump(ctx context.Context) (facts []Fact, err error)

	// Mentioning returns the active facts whose thing or fact contain text, ignoring case
	Mentioning(ctx context.Context, text string) (facts []Fact, err error)
}

// KarmaRecord is the karma of a thing
type KarmaRecord struct {
	Thing string
	Value int
}

// Order of a karma leaderboard
type Order int

// Leaderboard orders
const (
	Top Order = iota
	Bottom
)

// KarmaStorer is implemented by any value that keeps track of karma
type KarmaStorer interface {
	// BumpKarma applies the change to the karma of thing, starting at 0 if thing has none
	BumpKarma(ctx context.Context, thing string, change KarmaChange) (value int, err error)

	// KarmaFor returns the karma of thing or None when it never got any
	KarmaFor(ctx context.Context, thing string) (karma option.Option[int], err error)

	// Leaderboard returns up to count records ordered from the highest karma (Top) or the lowest (Bottom)
	Leaderboard(ctx context.Context, order Order, count int) (records []KarmaRecord, err error)
}

// CooldownStorer is implemented by any value that persists when a channel was last flooded
type CooldownStorer interface {
	// LastServed returns when channelID was last served or None if it never was
	LastServed(ctx context.Context, channelID string) (lastServedAt option.Option[time.Time], err error)

	// UpsertLastServed records that channelID was served at t
	UpsertLastServed(ctx context.Context, channelID string, t time.Time) (err error)

	// EnsureCooldown records t as the last served time of channelID unless it already has one
	EnsureCooldown(ctx context.Context, channelID string, t time.Time) (err error)
}
