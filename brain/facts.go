package brain

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/gadling/hob/store"
)

const factsSilo = "facts"

// Facts implements FactStorer over a store.SiloStringStorer. Every thing is an entry of
// the facts silo holding the json list of its facts
type Facts struct {
	lock   sync.Mutex
	storer store.SiloStringStorer
}

// NewFacts returns a new Facts persisting to storer
func NewFacts(storer store.SiloStringStorer) (f *Facts) {
	return &Facts{storer: storer}
}

func (f *Facts) factsOf(thing string) (facts []Fact, err error) {
	raw, err := f.storer.GetSiloString(factsSilo, thing)
	if store.IsNotFound(err) {
		return []Fact{}, nil
	}

	if err != nil {
		return nil, err
	}

	return decodeFacts(thing, raw)
}

func decodeFacts(thing string, raw string) (facts []Fact, err error) {
	if err = json.Unmarshal([]byte(raw), &facts); err != nil {
		return nil, errors.Wrapf(err, "invalid facts for [%s]", thing)
	}

	for i := range facts {
		facts[i].Thing = thing
	}

	return facts, nil
}

func (f *Facts) putFacts(thing string, facts []Fact) (err error) {
	raw, err := json.Marshal(facts)
	if err != nil {
		return errors.Wrapf(err, "failed to encode facts for [%s]", thing)
	}

	return f.storer.PutSiloString(factsSilo, thing, string(raw))
}

// Learn adds the fact to thing or reactivates it if it was forgotten
func (f *Facts) Learn(ctx context.Context, thing string, fact string) (err error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	facts, err := f.factsOf(thing)
	if err != nil {
		return err
	}

	for i := range facts {
		if facts[i].Fact == fact {
			if !facts[i].Inactive {
				return nil
			}

			facts[i].Inactive = false
			return f.putFacts(thing, facts)
		}
	}

	return f.putFacts(thing, append(facts, Fact{Thing: thing, Fact: fact}))
}

// Forget marks a single fact of thing as inactive
func (f *Facts) Forget(ctx context.Context, thing string, fact string) (changed int, err error) {
	return f.deactivate(thing, func(candidate string) bool {
		return candidate == fact
	})
}

// ForgetAll marks every fact of thing as inactive
func (f *Facts) ForgetAll(ctx context.Context, thing string) (changed int, err error) {
	return f.deactivate(thing, func(candidate string) bool {
		return true
	})
}

func (f *Facts) deactivate(thing string, matches func(fact string) bool) (changed int, err error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	facts, err := f.factsOf(thing)
	if err != nil {
		return 0, err
	}

	for i := range facts {
		if !facts[i].Inactive && matches(facts[i].Fact) {
			facts[i].Inactive = true
			changed++
		}
	}

	if changed == 0 {
		return 0, nil
	}

	return changed, f.putFacts(thing, facts)
}

// Lookup returns the active facts of thing, sorted and limited to LookupLimit
func (f *Facts) Lookup(ctx context.Context, thing string) (facts []string, err error) {
	f.lock.Lock()
	all, err := f.factsOf(thing)
	f.lock.Unlock()

	if err != nil {
		return nil, err
	}

	facts = make([]string, 0)
	for _, fact := range all {
		if !fact.Inactive {
			facts = append(facts, fact.Fact)
		}
	}

	sort.Strings(facts)

	return truncate(facts, LookupLimit), nil
}

// Search returns up to SearchLimit active facts whose thing or fact contain term, ignoring case
func (f *Facts) Search(ctx context.Context, term string) (facts []Fact, err error) {
	if len(term) < MinSearchTermSize {
		return nil, ErrQueryTooShort
	}

	facts, err = f.Mentioning(ctx, term)
	if err != nil {
		return nil, err
	}

	return truncate(facts, SearchLimit), nil
}

// Mentioning returns every active fact whose thing or fact contain text, ignoring case
func (f *Facts) Mentioning(ctx context.Context, text string) (facts []Fact, err error) {
	all, err := f.all()
	if err != nil {
		return nil, err
	}

	text = strings.ToLower(text)
	facts = make([]Fact, 0)
	for _, fact := range all {
		if fact.Inactive {
			continue
		}

		if strings.Contains(strings.ToLower(fact.Thing), text) || strings.Contains(strings.ToLower(fact.Fact), text) {
			facts = append(facts, fact)
		}
	}

	return facts, nil
}

// Dump returns up to DumpLimit facts, inactive ones included
func (f *Facts) Dump(ctx context.Context) (facts []Fact, err error) {
	facts, err = f.all()
	if err != nil {
		return nil, err
	}

	return truncate(facts, DumpLimit), nil
}

// all returns every fact sorted by thing, fact and then inactive last
func (f *Facts) all() (facts []Fact, err error) {
	entries, err := f.storer.ScanSilo(factsSilo)
	if err != nil {
		return nil, err
	}

	facts = make([]Fact, 0)
	for thing, raw := range entries {
		tf, err := decodeFacts(thing, raw)
		if err != nil {
			return nil, err
		}

		facts = append(facts, tf...)
	}

	sort.Slice(facts, func(i, j int) bool {
		if facts[i].Thing != facts[j].Thing {
			return facts[i].Thing < facts[j].Thing
		}

		if facts[i].Fact != facts[j].Fact {
			return facts[i].Fact < facts[j].Fact
		}

		return !facts[i].Inactive && facts[j].Inactive
	})

	return facts, nil
}

func truncate[T any](s []T, limit int) []T {
	if len(s) > limit {
		return s[:limit]
	}

	return s
}
