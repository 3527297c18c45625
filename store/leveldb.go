package store

import (
	"bytes"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	leveldberrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// siloSeparator separates the silo from the key in leveldb keys
const siloSeparator = byte(0)

// LevelDB holds a datastore name and its leveldb instance. Silos are stored as
// key prefixes in the same database
type LevelDB struct {
	Name     string
	database *leveldb.DB
}

// NewLevelDB instantiates and open a new LevelDB instance backed by a leveldb database. If the
// leveldb database doesn't exist, one is created
func NewLevelDB(name string, storagePath string) (ldb *LevelDB, err error) {
	// Expand '~' as the full home directory path if appropriate
	path, err := homedir.Expand(storagePath)
	if err != nil {
		return nil, err
	}

	fullPath := filepath.Join(path, name)
	db, err := leveldb.OpenFile(fullPath, nil)

	if _, ok := err.(*leveldberrors.ErrCorrupted); ok {
		return nil, errors.Wrapf(err, "leveldb corrupted. Consider deleting [%s] and restarting if you don't mind losing data", fullPath)
	} else if err != nil {
		return nil, errors.Wrapf(err, "failed to open file with path [%s]", fullPath)
	}

	return &LevelDB{name, db}, nil
}

func siloKey(silo string, key string) []byte {
	k := make([]byte, 0, len(silo)+len(key)+1)
	k = append(k, silo...)
	k = append(k, siloSeparator)

	return append(k, key...)
}

// Close closes the LevelDB
func (ldb *LevelDB) Close() (err error) {
	return ldb.database.Close()
}

// GetSiloString retrieves the value associated to the key in silo
func (ldb *LevelDB) GetSiloString(silo string, key string) (value string, err error) {
	data, err := ldb.database.Get(siloKey(silo, key), nil)
	if err == leveldb.ErrNotFound {
		return "", errors.Wrapf(ErrNotFound, "[%s] in silo [%s]", key, silo)
	} else if err != nil {
		return "", errors.Wrapf(err, "failed to get [%s] in silo [%s]", key, silo)
	}

	return string(data), nil
}

// PutSiloString adds or updates the value associated to the key in silo
func (ldb *LevelDB) PutSiloString(silo string, key string, value string) (err error) {
	if err = ldb.database.Put(siloKey(silo, key), []byte(value), nil); err != nil {
		return errors.Wrapf(err, "failed to put [%s] in silo [%s]", key, silo)
	}

	return nil
}

// DeleteSiloString deletes the entry of the key in silo
func (ldb *LevelDB) DeleteSiloString(silo string, key string) (err error) {
	if err = ldb.database.Delete(siloKey(silo, key), nil); err != nil {
		return errors.Wrapf(err, "failed to delete [%s] in silo [%s]", key, silo)
	}

	return nil
}

// ScanSilo returns the complete set of key/values of a silo
func (ldb *LevelDB) ScanSilo(silo string) (entries map[string]string, err error) {
	entries = make(map[string]string)
	prefix := siloKey(silo, "")

	iter := ldb.database.NewIterator(util.BytesPrefix(prefix), nil)
	for iter.Next() {
		entries[string(iter.Key()[len(prefix):])] = string(iter.Value())
	}

	iter.Release()
	if err = iter.Error(); err != nil {
		return nil, errors.Wrapf(err, "failed to scan silo [%s]", silo)
	}

	return entries, nil
}

// GlobalScan returns the complete set of key/values of every silo
func (ldb *LevelDB) GlobalScan() (entries map[string]map[string]string, err error) {
	entries = make(map[string]map[string]string)

	iter := ldb.database.NewIterator(nil, nil)
	for iter.Next() {
		k := iter.Key()
		i := bytes.IndexByte(k, siloSeparator)
		if i < 0 {
			continue
		}

		silo := string(k[:i])
		if _, ok := entries[silo]; !ok {
			entries[silo] = make(map[string]string)
		}

		entries[silo][string(k[i+1:])] = string(iter.Value())
	}

	iter.Release()
	if err = iter.Error(); err != nil {
		return nil, errors.Wrap(err, "failed to scan database")
	}

	return entries, nil
}
