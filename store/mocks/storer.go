// Package mocks holds testify mocks of the store interfaces
package mocks

import (
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/gadling/hob/store"
)

var _ store.GlobalSiloStringStorer = (*Storer)(nil)

// Storer is a mock store.GlobalSiloStringStorer
type Storer struct {
	mock.Mock
}

// NewStorer returns a Storer whose expectations are asserted when t completes
func NewStorer(t *testing.T) (ms *Storer) {
	ms = new(Storer)
	ms.Test(t)
	t.Cleanup(func() { ms.AssertExpectations(t) })

	return ms
}

func (ms *Storer) GetSiloString(silo string, key string) (value string, err error) {
	args := ms.Called(silo, key)
	return args.String(0), args.Error(1)
}

func (ms *Storer) PutSiloString(silo string, key string, value string) (err error) {
	return ms.Called(silo, key, value).Error(0)
}

func (ms *Storer) DeleteSiloString(silo string, key string) (err error) {
	return ms.Called(silo, key).Error(0)
}

// ScanSilo returns the entries set up for silo. A nil first return value yields nil entries
func (ms *Storer) ScanSilo(silo string) (entries map[string]string, err error) {
	args := ms.Called(silo)
	entries, _ = args.Get(0).(map[string]string)

	return entries, args.Error(1)
}

// GlobalScan returns the silos set up for the scan. A nil first return value yields nil silos
func (ms *Storer) GlobalScan() (silos map[string]map[string]string, err error) {
	args := ms.Called()
	silos, _ = args.Get(0).(map[string]map[string]string)

	return silos, args.Error(1)
}

func (ms *Storer) Close() (err error) {
	return ms.Called().Error(0)
}
