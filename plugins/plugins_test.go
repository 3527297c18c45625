package plugins_test

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/gadling/hob"
	"github.com/gadling/hob/config"
	"github.com/gadling/hob/store"
	"github.com/gadling/hob/store/inmemorydb"
)

func newTestStorer(t *testing.T) (s store.GlobalSiloStringStorer) {
	ldb, err := store.NewLevelDB("plugins", t.TempDir())
	require.NoError(t, err)

	imdb, err := inmemorydb.New(ldb)
	require.NoError(t, err)
	t.Cleanup(func() { imdb.Close() })

	return imdb
}

// newPluginConfig returns an empty configuration for the plugin name
func newPluginConfig(name string) (pc *config.PluginConfig) {
	return config.NewPluginConfig(viper.New(), name)
}

// msg returns a message sent by U1 in channel C1
func msg(text string) (m *hob.Message) {
	return &hob.Message{Channel: "C1", User: "U1", Text: text, Timestamp: "1.000"}
}
