package inmemorydb

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/gadling/hob/store"
)

// InMemoryDB implements the store.GlobalSiloStringStorer interface and keeps
// a copy of everything in memory while writing through puts and deletes
// to the wrapped (persistent) GlobalSiloStringStorer. It is safe for concurrent use
type InMemoryDB struct {
	persistentStorer store.GlobalSiloStringStorer

	lock sync.RWMutex
	data map[string]map[string]string
}

// New returns a new instance of InMemoryDB wrapping the persistent GlobalSiloStringStorer.
// Note that instantiation might have some latency induced by the initial scan to load
// the current database content from the persistentStorer in memory
func New(storer store.GlobalSiloStringStorer) (imdb *InMemoryDB, err error) {
	imdb = new(InMemoryDB)
	imdb.persistentStorer = storer

	imdb.data, err = imdb.persistentStorer.GlobalScan()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load persistent content in memory")
	}

	return imdb, nil
}

// GetSiloString returns the value associated to a given key in the given silo.
// If the value is not found, the error wraps store.ErrNotFound
func (imdb *InMemoryDB) GetSiloString(silo string, key string) (value string, err error) {
	imdb.lock.RLock()
	defer imdb.lock.RUnlock()

	v, ok := imdb.data[silo][key]
	if !ok {
		return "", errors.Wrapf(store.ErrNotFound, "[%s] in silo [%s]", key, silo)
	}

	return v, nil
}

// PutSiloString stores the key/value to a silo of the database. The key/value is persisted to
// persistent storage and then kept in memory
func (imdb *InMemoryDB) PutSiloString(silo string, key string, value string) (err error) {
	imdb.lock.Lock()
	defer imdb.lock.Unlock()

	if err = imdb.persistentStorer.PutSiloString(silo, key, value); err != nil {
		return err
	}

	if _, ok := imdb.data[silo]; !ok {
		imdb.data[silo] = make(map[string]string)
	}

	imdb.data[silo][key] = value

	return nil
}

// DeleteSiloString deletes the silo entry for the given key. This is propagated to the
// persistent storage first and then deleted from memory
func (imdb *InMemoryDB) DeleteSiloString(silo string, key string) (err error) {
	imdb.lock.Lock()
	defer imdb.lock.Unlock()

	if err = imdb.persistentStorer.DeleteSiloString(silo, key); err != nil {
		return err
	}

	delete(imdb.data[silo], key)

	return nil
}

// ScanSilo returns all key/values for a silo from the database. This one returns a copy of the in-memory
// copy without querying the persistent storer
func (imdb *InMemoryDB) ScanSilo(silo string) (entries map[string]string, err error) {
	imdb.lock.RLock()
	defer imdb.lock.RUnlock()

	entries = make(map[string]string)
	for k, v := range imdb.data[silo] {
		entries[k] = v
	}

	return entries, nil
}

// GlobalScan returns all key/values from the database. This one returns a copy of the in-memory
// copy without querying the persistent storer
func (imdb *InMemoryDB) GlobalScan() (entries map[string]map[string]string, err error) {
	imdb.lock.RLock()
	defer imdb.lock.RUnlock()

	entries = make(map[string]map[string]string)
	for s, sc := range imdb.data {
		entries[s] = make(map[string]string)

		for k, v := range sc {
			entries[s][k] = v
		}
	}

	return entries, nil
}

// Close closes the underlying storer
func (imdb *InMemoryDB) Close() (err error) {
	return imdb.persistentStorer.Close()
}
