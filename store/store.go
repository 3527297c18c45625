// Package store defines the string storage interfaces used by hob's brain along with a
// leveldb implementation. Values are grouped in silos (one per concern, i.e. "karma")
package store

import (
	"io"

	"github.com/pkg/errors"
)

// ErrNotFound is returned (possibly wrapped) when a key has no value
var ErrNotFound = errors.New("not found")

// SiloStringStorer is implemented by any value that has the GetSiloString, PutSiloString,
// DeleteSiloString and ScanSilo methods
type SiloStringStorer interface {
	// GetSiloString returns the value of key in silo or an error wrapping ErrNotFound
	GetSiloString(silo string, key string) (value string, err error)

	// PutSiloString adds or updates the value of key in silo
	PutSiloString(silo string, key string, value string) (err error)

	// DeleteSiloString deletes the entry of key in silo. Deleting a missing key is not an error
	DeleteSiloString(silo string, key string) (err error)

	// ScanSilo returns every entry of silo
	ScanSilo(silo string) (entries map[string]string, err error)
}

// GlobalSiloStringStorer is a SiloStringStorer that can also return the entries of every silo
// at once and must be closed
type GlobalSiloStringStorer interface {
	SiloStringStorer
	io.Closer

	// GlobalScan returns the entries of every silo, keyed by silo
	GlobalScan() (entries map[string]map[string]string, err error)
}

// IsNotFound returns true if err is (or wraps) ErrNotFound
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
