package datastoredb

import (
	"context"
	"sync"

	"cloud.google.com/go/datastore"
	"github.com/pkg/errors"
	"google.golang.org/api/option"

	"github.com/gadling/hob/store"
)

const (
	siloKindSuffix  = "Silo"
	entryKindSuffix = "Entry"
	testKey         = "testConnectivity"
)

// DatastoreDB implements the store.GlobalSiloStringStorer interface. Entries of a silo are
// entities of kind <name>Entry whose parent is a key of kind <name>Silo named after the silo
type DatastoreDB struct {
	lock sync.Mutex
	datastorer
	name string
}

// EntryValue represents an entity/entry value mapped to a datastore key
type EntryValue struct {
	Value string `datastore:",noindex"`
}

// New returns a new instance of DatastoreDB for the given name (which prefixes the datastore entity kinds and can
// be thought of as the namespace). This function also requires a gcloudProjectID as well as at least one option to provide gcloud client credentials
func New(name string, gcloudProjectID string, gcloudClientOpts ...option.ClientOption) (dsdb *DatastoreDB, err error) {
	return newWithDatastorer(name, &cloudDatastore{projectID: gcloudProjectID, opts: gcloudClientOpts})
}

func newWithDatastorer(name string, ds datastorer) (dsdb *DatastoreDB, err error) {
	if err = ds.connect(); err != nil {
		return nil, err
	}

	dsdb = new(DatastoreDB)
	dsdb.datastorer = ds
	dsdb.name = name

	if err = dsdb.testDB(); err != nil {
		dsdb.Close()
		return nil, err
	}

	return dsdb, nil
}

func (dsdb *DatastoreDB) siloKey(silo string) *datastore.Key {
	return datastore.NameKey(dsdb.name+siloKindSuffix, silo, nil)
}

func (dsdb *DatastoreDB) entryKey(silo string, key string) *datastore.Key {
	return datastore.NameKey(dsdb.name+entryKindSuffix, key, dsdb.siloKey(silo))
}

// testDB makes a lightweight call to the datastore to validate connectivity and credentials
func (dsdb *DatastoreDB) testDB() (err error) {
	var e EntryValue
	err = dsdb.datastorer.Get(context.Background(), datastore.NameKey(dsdb.name+entryKindSuffix, testKey, nil), &e)

	if err != nil && err != datastore.ErrNoSuchEntity {
		return err
	}

	return nil
}

// withReconnect runs op and, on failure, reconnects and retries it once. Credentials can be short-lived so a
// failure to reconnect or a second failure is returned as is
func (dsdb *DatastoreDB) withReconnect(op func() error) (err error) {
	dsdb.lock.Lock()
	defer dsdb.lock.Unlock()

	if err = op(); err == nil || err == datastore.ErrNoSuchEntity {
		return err
	}

	if cerr := dsdb.connect(); cerr != nil {
		return err
	}

	if terr := dsdb.testDB(); terr != nil {
		return err
	}

	return op()
}

// GetSiloString returns the value associated to a given key in silo. If the value is not
// found, the error wraps store.ErrNotFound
func (dsdb *DatastoreDB) GetSiloString(silo string, key string) (value string, err error) {
	var e EntryValue
	err = dsdb.withReconnect(func() error {
		return dsdb.datastorer.Get(context.Background(), dsdb.entryKey(silo, key), &e)
	})

	if err == datastore.ErrNoSuchEntity {
		return "", errors.Wrapf(store.ErrNotFound, "[%s] in silo [%s]", key, silo)
	} else if err != nil {
		return "", err
	}

	return e.Value, nil
}

// PutSiloString stores the key/value to a silo of the database
func (dsdb *DatastoreDB) PutSiloString(silo string, key string, value string) (err error) {
	return dsdb.withReconnect(func() error {
		_, err := dsdb.datastorer.Put(context.Background(), dsdb.entryKey(silo, key), &EntryValue{Value: value})
		return err
	})
}

// DeleteSiloString deletes the entry for the given key in silo
func (dsdb *DatastoreDB) DeleteSiloString(silo string, key string) (err error) {
	return dsdb.withReconnect(func() error {
		return dsdb.datastorer.Delete(context.Background(), dsdb.entryKey(silo, key))
	})
}

// ScanSilo returns all key/values of a silo
func (dsdb *DatastoreDB) ScanSilo(silo string) (entries map[string]string, err error) {
	var vals []*EntryValue
	var keys []*datastore.Key

	err = dsdb.withReconnect(func() (err error) {
		vals = nil
		keys, err = dsdb.datastorer.GetAll(context.Background(), datastore.NewQuery(dsdb.name+entryKindSuffix).Ancestor(dsdb.siloKey(silo)), &vals)
		return err
	})
	if err != nil {
		return nil, err
	}

	entries = make(map[string]string)
	for i, k := range keys {
		entries[k.Name] = vals[i].Value
	}

	return entries, nil
}

// GlobalScan returns the key/values of every silo
func (dsdb *DatastoreDB) GlobalScan() (entries map[string]map[string]string, err error) {
	var vals []*EntryValue
	var keys []*datastore.Key

	err = dsdb.withReconnect(func() (err error) {
		vals = nil
		keys, err = dsdb.datastorer.GetAll(context.Background(), datastore.NewQuery(dsdb.name+entryKindSuffix), &vals)
		return err
	})
	if err != nil {
		return nil, err
	}

	entries = make(map[string]map[string]string)
	for i, k := range keys {
		if k.Parent == nil {
			continue
		}

		silo := k.Parent.Name
		if _, ok := entries[silo]; !ok {
			entries[silo] = make(map[string]string)
		}

		entries[silo][k.Name] = vals[i].Value
	}

	return entries, nil
}

// Close closes the underlying datastore client
func (dsdb *DatastoreDB) Close() (err error) {
	return dsdb.datastorer.Close()
}
