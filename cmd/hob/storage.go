package main

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"google.golang.org/api/option"

	"github.com/gadling/hob/brain"
	"github.com/gadling/hob/brain/pgbrain"
	"github.com/gadling/hob/config"
	"github.com/gadling/hob/store"
	"github.com/gadling/hob/store/datastoredb"
	"github.com/gadling/hob/store/inmemorydb"
)

// Names of the key-value databases, one per concern
const (
	factsDBName     = "facts"
	karmaDBName     = "karma"
	cooldownsDBName = "cooldowns"
)

// brains holds what the plugins remember things with and the resources to close along with them
type brains struct {
	facts     brain.FactStorer
	karma     brain.KarmaStorer
	cooldowns brain.CooldownStorer
	closers   []io.Closer
}

// Close closes every resource, the last opened first. The first error is returned
func (b *brains) Close() (err error) {
	for i := len(b.closers) - 1; i >= 0; i-- {
		if cerr := b.closers[i].Close(); cerr != nil && err == nil {
			err = cerr
		}
	}

	return err
}

// openBrains opens the storage backend selected by the configuration
func openBrains(ctx context.Context, v *viper.Viper) (b *brains, err error) {
	switch backend := v.GetString(config.StorageBackendKey); backend {
	case config.LevelDBBackend:
		return openKVBrains(func(name string) (store.GlobalSiloStringStorer, error) {
			return store.NewLevelDB(name, v.GetString(config.StoragePathKey))
		})
	case config.DatastoreBackend:
		projectID := v.GetString(config.DatastoreProjectIDKey)
		if projectID == "" {
			return nil, errors.Errorf("%s is required by the %s backend", config.DatastoreProjectIDKey, backend)
		}

		var opts []option.ClientOption
		if credentials := v.GetString(config.DatastoreCredentialsFileKey); credentials != "" {
			opts = append(opts, option.WithCredentialsFile(credentials))
		}

		return openKVBrains(func(name string) (store.GlobalSiloStringStorer, error) {
			return datastoredb.New(name, projectID, opts...)
		})
	case config.PostgresBackend:
		pg, err := pgbrain.Open(ctx, v.GetString(config.DatabaseURLKey))
		if err != nil {
			return nil, err
		}

		return &brains{facts: pg, karma: pg, cooldowns: pg, closers: []io.Closer{pg}}, nil
	default:
		return nil, errors.Errorf("unknown %s [%s], must be one of %s, %s or %s", config.StorageBackendKey, backend,
			config.LevelDBBackend, config.DatastoreBackend, config.PostgresBackend)
	}
}

// openKVBrains opens one key-value database per concern with open and keeps each of them in memory
func openKVBrains(open func(name string) (store.GlobalSiloStringStorer, error)) (b *brains, err error) {
	b = new(brains)

	storers := make(map[string]store.SiloStringStorer)
	for _, name := range []string{factsDBName, karmaDBName, cooldownsDBName} {
		persistent, err := open(name)
		if err != nil {
			b.Close()
			return nil, errors.Wrapf(err, "failed to open [%s] database", name)
		}

		imdb, err := inmemorydb.New(persistent)
		if err != nil {
			persistent.Close()
			b.Close()
			return nil, errors.Wrapf(err, "failed to load [%s] database", name)
		}

		b.closers = append(b.closers, imdb)
		storers[name] = imdb
	}

	b.facts = brain.NewFacts(storers[factsDBName])
	b.karma = brain.NewKarma(storers[karmaDBName])
	b.cooldowns = brain.NewCooldowns(storers[cooldownsDBName])

	return b, nil
}

// migrate applies the postgres schema
func migrate(ctx context.Context, v *viper.Viper) (err error) {
	if backend := v.GetString(config.StorageBackendKey); backend != config.PostgresBackend {
		return errors.Errorf("nothing to migrate with the %s backend, only %s has a schema", backend, config.PostgresBackend)
	}

	pg, err := pgbrain.Open(ctx, v.GetString(config.DatabaseURLKey))
	if err != nil {
		return err
	}
	defer pg.Close()

	return pg.Migrate(ctx)
}
