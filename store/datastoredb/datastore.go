package datastoredb

import (
	"context"
	"io"

	"cloud.google.com/go/datastore"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

// datastorer is the part of a datastore client DatastoreDB uses, plus a way to (re)connect
type datastorer interface {
	io.Closer

	// connect replaces the current client with a new one
	connect() (err error)

	Delete(c context.Context, k *datastore.Key) (err error)
	Get(c context.Context, k *datastore.Key, dest interface{}) (err error)
	GetAll(c context.Context, query *datastore.Query, dest interface{}) (keys []*datastore.Key, err error)
	Put(c context.Context, k *datastore.Key, v interface{}) (key *datastore.Key, err error)
}

// cloudDatastore is a datastorer over a google cloud datastore client
type cloudDatastore struct {
	client    *datastore.Client
	projectID string
	opts      []option.ClientOption
}

// connect opens a client with the project id and client options it was created with and
// closes the previous one. Options reading credentials from a file pick up rotated credentials
func (cd *cloudDatastore) connect() (err error) {
	client, err := datastore.NewClient(context.Background(), cd.projectID, cd.opts...)
	if err != nil {
		return errors.Wrapf(err, "failed to connect to the datastore of project [%s]", cd.projectID)
	}

	previous := cd.client
	cd.client = client

	if previous != nil {
		previous.Close()
	}

	return nil
}

// Close closes the client, if any
func (cd *cloudDatastore) Close() (err error) {
	if cd.client == nil {
		return nil
	}

	return cd.client.Close()
}

func (cd *cloudDatastore) Delete(c context.Context, k *datastore.Key) (err error) {
	return cd.client.Delete(c, k)
}

func (cd *cloudDatastore) Get(c context.Context, k *datastore.Key, dest interface{}) (err error) {
	return cd.client.Get(c, k, dest)
}

func (cd *cloudDatastore) GetAll(c context.Context, query *datastore.Query, dest interface{}) (keys []*datastore.Key, err error) {
	return cd.client.GetAll(c, query, dest)
}

func (cd *cloudDatastore) Put(c context.Context, k *datastore.Key, v interface{}) (key *datastore.Key, err error) {
	return cd.client.Put(c, k, v)
}
