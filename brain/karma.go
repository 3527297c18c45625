package brain

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/pkg/errors"

	"github.com/gadling/hob/option"
	"github.com/gadling/hob/store"
)

const karmaSilo = "karma"

// Karma implements KarmaStorer over a store.SiloStringStorer. Values are stored in decimal
type Karma struct {
	lock   sync.Mutex
	storer store.SiloStringStorer
}

// NewKarma returns a new Karma persisting to storer
func NewKarma(storer store.SiloStringStorer) (k *Karma) {
	return &Karma{storer: storer}
}

func (k *Karma) get(thing string) (karma option.Option[int], err error) {
	raw, err := k.storer.GetSiloString(karmaSilo, thing)
	if store.IsNotFound(err) {
		return option.None[int](), nil
	}

	if err != nil {
		return karma, err
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return karma, errors.Wrapf(err, "invalid karma value [%s] for [%s]", raw, thing)
	}

	return option.Some(v), nil
}

// BumpKarma applies the change to the karma of thing and returns the new value
func (k *Karma) BumpKarma(ctx context.Context, thing string, change KarmaChange) (value int, err error) {
	k.lock.Lock()
	defer k.lock.Unlock()

	current, err := k.get(thing)
	if err != nil {
		return 0, err
	}

	value = current.OrElse(0) + change.Delta()
	if err = k.storer.PutSiloString(karmaSilo, thing, strconv.Itoa(value)); err != nil {
		return 0, errors.Wrapf(err, "failed to update karma %s for [%s]", change, thing)
	}

	return value, nil
}

// KarmaFor returns the karma of thing or None if it never got any
func (k *Karma) KarmaFor(ctx context.Context, thing string) (karma option.Option[int], err error) {
	k.lock.Lock()
	defer k.lock.Unlock()

	return k.get(thing)
}

// Leaderboard returns up to count records with the highest (Top) or lowest (Bottom) karma
func (k *Karma) Leaderboard(ctx context.Context, order Order, count int) (records []KarmaRecord, err error) {
	entries, err := k.storer.ScanSilo(karmaSilo)
	if err != nil {
		return nil, err
	}

	records = make([]KarmaRecord, 0, len(entries))
	for thing, raw := range entries {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid karma value [%s] for [%s]", raw, thing)
		}

		records = append(records, KarmaRecord{Thing: thing, Value: v})
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].Value != records[j].Value {
			if order == Bottom {
				return records[i].Value < records[j].Value
			}

			return records[i].Value > records[j].Value
		}

		return records[i].Thing < records[j].Thing
	})

	return truncate(records, count), nil
}
