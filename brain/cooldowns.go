package brain

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/gadling/hob/option"
	"github.com/gadling/hob/store"
)

const cooldownsSilo = "cooldowns"

// Cooldowns implements CooldownStorer over a store.SiloStringStorer. Times are stored in RFC3339 with nanoseconds
type Cooldowns struct {
	lock   sync.Mutex
	storer store.SiloStringStorer
}

// NewCooldowns returns a new Cooldowns persisting to storer
func NewCooldowns(storer store.SiloStringStorer) (c *Cooldowns) {
	return &Cooldowns{storer: storer}
}

// LastServed returns when channelID was last served or None if it never was
func (c *Cooldowns) LastServed(ctx context.Context, channelID string) (lastServedAt option.Option[time.Time], err error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.get(channelID)
}

func (c *Cooldowns) get(channelID string) (lastServedAt option.Option[time.Time], err error) {
	raw, err := c.storer.GetSiloString(cooldownsSilo, channelID)
	if store.IsNotFound(err) {
		return option.None[time.Time](), nil
	}

	if err != nil {
		return lastServedAt, err
	}

	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return lastServedAt, errors.Wrapf(err, "invalid last served time [%s] for channel [%s]", raw, channelID)
	}

	return option.Some(t), nil
}

// UpsertLastServed records that channelID was served at t
func (c *Cooldowns) UpsertLastServed(ctx context.Context, channelID string, t time.Time) (err error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.storer.PutSiloString(cooldownsSilo, channelID, t.UTC().Format(time.RFC3339Nano))
}

// EnsureCooldown records t as the last served time of channelID unless one is already recorded
func (c *Cooldowns) EnsureCooldown(ctx context.Context, channelID string, t time.Time) (err error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	current, err := c.get(channelID)
	if err != nil {
		return err
	}

	if current.IsSome() {
		return nil
	}

	return c.storer.PutSiloString(cooldownsSilo, channelID, t.UTC().Format(time.RFC3339Nano))
}
