/*
Package datastoredb provides an implementation of github.com/gadling/hob/store's GlobalSiloStringStorer interface
backed by the Google Cloud Datastore.

Requirements for the Google Cloud Datastore integration:
  - A valid project id with datastore mode enabled
  - Google Cloud Credentials (typically in the form of a json file with credentials from https://console.cloud.google.com/apis/credentials/serviceaccountkey)

Example code:

	import (
		"github.com/gadling/hob/store/datastoredb"
		"google.golang.org/api/option"
	)

	func main() {
		// The first argument prefixes the entity kinds. The second argument is the gcloud project id which is
		// what you'll have created with your gcloud service account. The third argument are client options
		// which are most useful for providing credentials
		storer, err := datastoredb.New("hob", "gadling", option.WithCredentialsFile(*gcloudCredentialsFile))
		if err != nil {
			log.Fatalf("Opening datastore failed: %s", err.Error())
		}
		defer storer.Close()
		...
	}
*/
package datastoredb
