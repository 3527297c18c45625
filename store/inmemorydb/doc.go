/*
Package inmemorydb provides an implementation of github.com/gadling/hob/store's GlobalSiloStringStorer interface
as an in-memory data store relying on a wrapping GlobalSiloStringStorer for actual persistence.

The main use-case for the inmemorydb is to shield the real storer implementation from receiving too many calls
as listeners may very well query their storer on every message (botsplaining does). Of course,
using this also allows lower latency at the expense of increased memory usage.

Example code:

	import (
		"github.com/gadling/hob/store"
		"github.com/gadling/hob/store/inmemorydb"
	)

	func main() {
		// Create your persistent storer first
		persistentStorer, err := store.NewLevelDB("brain", "~/.local/share/hob")
		if err != nil {
			log.Fatalf("Opening db failed: %s", err.Error())
		}

		// Create the inmemorydb
		storer, err := inmemorydb.New(persistentStorer)
		if err != nil {
			log.Fatalf("Opening creating in-memory db wrapper: %s", err.Error())
		}
		defer storer.Close()
		...
	}
*/
package inmemorydb
