package datastoredb

import (
	"context"
	"fmt"
	"testing"

	"cloud.google.com/go/datastore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gadling/hob/store"
)

// mock of the datastore
type mockDatastore struct {
	mock.Mock
	returnNoErrOnRepeatedKey bool   // If set, the mock will ignore any expected error set on a repeated invocation with the same key. Note that the key tracking is shared across all functions
	lastKey                  string // Used to keep track of the last key in order to honor the returnNoErrOnRepeatedKey and *not* return an error on the second call with the same key
}

// connect mocks a datastore connect call
func (md *mockDatastore) connect() (err error) {
	args := md.Called()

	return args.Error(0)
}

// Close mocks a datastore Close
func (md *mockDatastore) Close() (err error) {
	args := md.Called()

	return args.Error(0)
}

func (md *mockDatastore) repeated(key string) bool {
	repeated := md.lastKey == key && md.returnNoErrOnRepeatedKey
	md.lastKey = key

	return repeated
}

// Delete mocks a Delete datastore call
func (md *mockDatastore) Delete(c context.Context, k *datastore.Key) (err error) {
	args := md.Called(c, k)

	if md.repeated(k.Name) {
		return nil
	}

	return args.Error(0)
}

// Get mocks a Get datastore call
func (md *mockDatastore) Get(c context.Context, k *datastore.Key, dest interface{}) (err error) {
	args := md.Called(c, k, dest)

	if e, ok := dest.(*EntryValue); ok {
		e.Value = fmt.Sprintf("val:%s", k.Name)
	}

	if md.repeated(k.Name) {
		return nil
	}

	return args.Error(0)
}

// GetAll mocks a GetAll datastore call. The first return value can be a function that fills dest
// and returns the keys
func (md *mockDatastore) GetAll(c context.Context, query *datastore.Query, dest interface{}) (keys []*datastore.Key, err error) {
	ret := md.Called(c, query, dest)

	if rf, ok := ret.Get(0).(func(context.Context, *datastore.Query, interface{}) []*datastore.Key); ok {
		keys = rf(c, query, dest)
	} else if ret.Get(0) != nil {
		keys = ret.Get(0).([]*datastore.Key)
	}

	// Since we don't have a key for GetAll, we support the same logic as the other
	// functions by using "getAll" as the key
	if md.repeated("getAll") {
		return keys, nil
	}

	return keys, ret.Error(1)
}

// Put mocks a Put datastore call
func (md *mockDatastore) Put(c context.Context, k *datastore.Key, v interface{}) (key *datastore.Key, err error) {
	args := md.Called(c, k, v)

	if rk, ok := args.Get(0).(*datastore.Key); ok {
		key = rk
	}

	if md.repeated(k.Name) {
		return k, nil
	}

	return key, args.Error(1)
}

const (
	testName = "hob"
)

var (
	testConnectivityKey = datastore.NameKey(testName+entryKindSuffix, testKey, nil)
	karmaSilo           = datastore.NameKey(testName+siloKindSuffix, "karma", nil)
	plutoKey            = datastore.NameKey(testName+entryKindSuffix, "pluto", karmaSilo)
)

func newConnectedMock() (md *mockDatastore) {
	md = new(mockDatastore)
	md.On("connect").Return(nil).Once()
	md.On("Get", mock.Anything, testConnectivityKey, mock.Anything).Return(datastore.ErrNoSuchEntity).Once()

	return md
}

func TestErrorOnCreationConnect(t *testing.T) {
	md := new(mockDatastore)
	md.On("connect").Return(fmt.Errorf("invalid credentials"))

	_, err := newWithDatastorer(testName, md)

	assert.EqualError(t, err, "invalid credentials")
}

func TestErrorOnDBTestOnCreation(t *testing.T) {
	md := new(mockDatastore)
	defer md.AssertExpectations(t)

	md.On("connect").Return(nil)
	md.On("Get", mock.Anything, testConnectivityKey, mock.Anything).Return(fmt.Errorf("invalid credentials"))
	md.On("Close").Return(nil)

	_, err := newWithDatastorer(testName, md)

	assert.EqualError(t, err, "invalid credentials")
}

func TestSuccessfulGetSiloString(t *testing.T) {
	md := newConnectedMock()
	defer md.AssertExpectations(t)
	md.On("Get", mock.Anything, plutoKey, mock.Anything).Return(nil)

	dsdb, err := newWithDatastorer(testName, md)
	require.NoError(t, err)

	v, err := dsdb.GetSiloString("karma", "pluto")
	assert.NoError(t, err)
	assert.Equal(t, "val:pluto", v)
}

func TestGetMissingIsNotFound(t *testing.T) {
	md := newConnectedMock()
	defer md.AssertExpectations(t)
	md.On("Get", mock.Anything, plutoKey, mock.Anything).Return(datastore.ErrNoSuchEntity).Once()

	dsdb, err := newWithDatastorer(testName, md)
	require.NoError(t, err)

	_, err = dsdb.GetSiloString("karma", "pluto")
	assert.True(t, store.IsNotFound(err))
}

func TestReconnectOnGetFailure(t *testing.T) {
	// Very importantly, we set up our mock to *not* return an error on repeated calls for the same key
	md := &mockDatastore{returnNoErrOnRepeatedKey: true}
	defer md.AssertExpectations(t)

	md.On("connect").Return(nil).Twice()
	md.On("Get", mock.Anything, testConnectivityKey, mock.Anything).Return(datastore.ErrNoSuchEntity)
	md.On("Get", mock.Anything, plutoKey, mock.Anything).Return(fmt.Errorf("rpc error: code = Unauthenticated"))

	dsdb, err := newWithDatastorer(testName, md)
	require.NoError(t, err)

	md.lastKey = ""
	v, err := dsdb.GetSiloString("karma", "pluto")
	assert.Error(t, err)
	assert.Empty(t, v)
}

func TestFailureToGetAfterReconnectOnFailure(t *testing.T) {
	md := new(mockDatastore)
	defer md.AssertExpectations(t)

	md.On("connect").Return(nil).Twice()
	md.On("Get", mock.Anything, testConnectivityKey, mock.Anything).Return(datastore.ErrNoSuchEntity).Twice()
	md.On("Get", mock.Anything, plutoKey, mock.Anything).Return(fmt.Errorf("rpc error: code = Unauthenticated")).Twice()

	dsdb, err := newWithDatastorer(testName, md)
	require.NoError(t, err)

	_, err = dsdb.GetSiloString("karma", "pluto")
	assert.EqualError(t, err, "rpc error: code = Unauthenticated")
}

func TestSuccessfulScanSilo(t *testing.T) {
	md := newConnectedMock()
	defer md.AssertExpectations(t)

	// GetAll writes to a pointer to a slice so the mock takes a function to fill it in and return the keys
	md.On("GetAll", mock.Anything, datastore.NewQuery(testName+entryKindSuffix).Ancestor(karmaSilo), mock.Anything).Return(func(c context.Context, query *datastore.Query, dest interface{}) (keys []*datastore.Key) {
		if vals, ok := dest.(*[]*EntryValue); ok {
			*vals = []*EntryValue{{Value: "3"}}
		}

		return []*datastore.Key{plutoKey}
	}, nil)

	dsdb, err := newWithDatastorer(testName, md)
	require.NoError(t, err)

	v, err := dsdb.ScanSilo("karma")
	assert.NoError(t, err)
	assert.Equal(t, map[string]string{"pluto": "3"}, v)
}

func TestSuccessfulGlobalScan(t *testing.T) {
	md := newConnectedMock()
	defer md.AssertExpectations(t)

	factsSilo := datastore.NameKey(testName+siloKindSuffix, "facts", nil)
	md.On("GetAll", mock.Anything, datastore.NewQuery(testName+entryKindSuffix), mock.Anything).Return(func(c context.Context, query *datastore.Query, dest interface{}) (keys []*datastore.Key) {
		if vals, ok := dest.(*[]*EntryValue); ok {
			*vals = []*EntryValue{{Value: "3"}, {Value: "[]"}, {Value: "orphan"}}
		}

		return []*datastore.Key{plutoKey, datastore.NameKey(testName+entryKindSuffix, "mars", factsSilo), testConnectivityKey}
	}, nil)

	dsdb, err := newWithDatastorer(testName, md)
	require.NoError(t, err)

	v, err := dsdb.GlobalScan()
	assert.NoError(t, err)
	assert.Equal(t, map[string]map[string]string{"karma": {"pluto": "3"}, "facts": {"mars": "[]"}}, v)
}

func TestFailureToScanAfterReconnectOnFailure(t *testing.T) {
	md := new(mockDatastore)
	defer md.AssertExpectations(t)

	md.On("connect").Return(nil).Twice()
	md.On("Get", mock.Anything, testConnectivityKey, mock.Anything).Return(datastore.ErrNoSuchEntity).Twice()
	md.On("GetAll", mock.Anything, mock.Anything, mock.Anything).Return(nil, fmt.Errorf("rpc error: code = Unauthenticated")).Twice()

	dsdb, err := newWithDatastorer(testName, md)
	require.NoError(t, err)

	_, err = dsdb.ScanSilo("karma")
	assert.EqualError(t, err, "rpc error: code = Unauthenticated")
}

func TestPutSuccessful(t *testing.T) {
	md := newConnectedMock()
	defer md.AssertExpectations(t)
	md.On("Put", mock.Anything, plutoKey, &EntryValue{Value: "3"}).Return(plutoKey, nil)

	dsdb, err := newWithDatastorer(testName, md)
	require.NoError(t, err)

	assert.NoError(t, dsdb.PutSiloString("karma", "pluto", "3"))
}

func TestFailureToPutAfterReconnectOnFailure(t *testing.T) {
	md := new(mockDatastore)
	defer md.AssertExpectations(t)

	md.On("connect").Return(nil).Twice()
	md.On("Get", mock.Anything, testConnectivityKey, mock.Anything).Return(datastore.ErrNoSuchEntity).Twice()
	md.On("Put", mock.Anything, plutoKey, mock.Anything).Return(nil, fmt.Errorf("rpc error: code = Unauthenticated")).Twice()

	dsdb, err := newWithDatastorer(testName, md)
	require.NoError(t, err)

	assert.EqualError(t, dsdb.PutSiloString("karma", "pluto", "3"), "rpc error: code = Unauthenticated")
}

func TestReconnectFailureReturnsOriginalError(t *testing.T) {
	md := new(mockDatastore)
	defer md.AssertExpectations(t)

	md.On("connect").Return(nil).Once()
	md.On("connect").Return(fmt.Errorf("invalid credentials")).Once()
	md.On("Get", mock.Anything, testConnectivityKey, mock.Anything).Return(datastore.ErrNoSuchEntity).Once()
	md.On("Delete", mock.Anything, plutoKey).Return(fmt.Errorf("rpc error: code = Unavailable")).Once()

	dsdb, err := newWithDatastorer(testName, md)
	require.NoError(t, err)

	assert.EqualError(t, dsdb.DeleteSiloString("karma", "pluto"), "rpc error: code = Unavailable")
}

func TestDeleteSuccessful(t *testing.T) {
	md := newConnectedMock()
	defer md.AssertExpectations(t)
	md.On("Delete", mock.Anything, plutoKey).Return(nil)

	dsdb, err := newWithDatastorer(testName, md)
	require.NoError(t, err)

	assert.NoError(t, dsdb.DeleteSiloString("karma", "pluto"))
}
