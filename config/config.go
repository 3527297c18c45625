// Package config provides the hob configuration keys along with helpers to build a
// viper configuration layered with defaults, environment overrides and per-plugin
// configuration
package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Global configuration keys
const (
	NameKey                         = "name"                                     // Name the bot goes by, string value
	BotTokenKey                     = "botToken"                                 // Slack bot token (xoxb-...), string value
	AppTokenKey                     = "appToken"                                 // Slack app-level token for socket mode (xapp-...), string value
	DebugKey                        = "debug"                                    // Debug mode, boolean value
	DeveloperModeKey                = "developerMode"                            // Verbose slack client and socket mode logging, boolean value
	ResponseCacheSizeKey            = "responseCacheSize"                        // Number of triggering messages whose responses are tracked, int value
	UserInfoCacheSizeKey            = "userInfoCacheSize"                        // Number of user info entries to cache. 0 disables caching, int value
	TimeLocationKey                 = "timeLocation"                             // Time location (i.e. "America/Los_Angeles") used by the scheduler, string value
	ThreadedRepliesKey              = "threadedReplies"                          // Reply in threads, boolean value
	BroadcastThreadedRepliesKey     = "broadcastThreadedReplies"                 // Broadcast threaded replies to the channel, boolean value
	MessageProcessingPartitionCount = "advanced.messageProcessingPartitionCount" // Number of message processing partitions. Must be a power of two, int value
	MessageProcessingBufferedCount  = "advanced.messageProcessingBufferedCount"  // Messages buffered per partition, int value
	MetricsAddressKey               = "metrics.address"                          // Listen address of the prometheus endpoint. Empty disables it, string value
	StorageBackendKey               = "storage.backend"                          // One of leveldb, datastore or postgres, string value
	StoragePathKey                  = "storage.path"                             // Directory of the leveldb databases ('~' is expanded), string value
	DatabaseURLKey                  = "storage.databaseURL"                      // Postgres connection string, string value
	DatastoreProjectIDKey           = "storage.gcloudProjectID"                  // Google cloud project id for the datastore backend, string value
	DatastoreCredentialsFileKey     = "storage.gcloudCredentialsFile"            // Optional google cloud credentials file, string value
	PluginsKey                      = "plugins"                                  // Root key of plugin configuration
)

// Storage backends
const (
	LevelDBBackend   = "leveldb"
	DatastoreBackend = "datastore"
	PostgresBackend  = "postgres"
)

// DefaultEnvFile is the dotenv file loaded when present
const DefaultEnvFile = "~/.config/hob/config"

// envOverrides maps environment variables to the configuration key they override
var envOverrides = map[string]string{
	"SLACK_BOT_TOKEN": BotTokenKey,
	"SLACK_APP_TOKEN": AppTokenKey,
	"DEVELOPER_MODE":  DeveloperModeKey,
	"HOB_DEBUG":       DebugKey,
	"DATABASE_URL":    DatabaseURLKey,
	"WORDS_PATH":      PluginsKey + ".hangman.wordsPath",
	"HOB_CALC":        PluginsKey + ".calc.binary",
}

// NewViperWithDefaults creates a new viper instance with hob's defaults set
func NewViperWithDefaults() (v *viper.Viper) {
	v = viper.New()

	return LayerConfigWithDefaults(v)
}

// LayerConfigWithDefaults sets the defaults on an existing viper instance. Values
// already set (from a file, environment or explicitly) take precedence
func LayerConfigWithDefaults(v *viper.Viper) (lv *viper.Viper) {
	v.SetDefault(NameKey, "hob")
	v.SetDefault(DebugKey, false)
	v.SetDefault(DeveloperModeKey, false)
	v.SetDefault(ResponseCacheSizeKey, 5000)
	v.SetDefault(UserInfoCacheSizeKey, 500)
	v.SetDefault(TimeLocationKey, "Local")
	v.SetDefault(ThreadedRepliesKey, false)
	v.SetDefault(BroadcastThreadedRepliesKey, false)
	v.SetDefault(MessageProcessingPartitionCount, 16)
	v.SetDefault(MessageProcessingBufferedCount, 10)
	v.SetDefault(MetricsAddressKey, "")
	v.SetDefault(StorageBackendKey, LevelDBBackend)
	v.SetDefault(StoragePathKey, "~/.local/share/hob")

	return v
}

// Load builds the configuration: defaults, then the optional configuration file at path
// (any format supported by viper) and finally the environment overrides
func Load(path string) (v *viper.Viper, err error) {
	v = NewViperWithDefaults()

	if path != "" {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid configuration path [%s]", path)
		}

		v.SetConfigFile(expanded)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read configuration file [%s]", expanded)
		}
	}

	ApplyEnvOverrides(v, os.LookupEnv)

	return v, nil
}

// ApplyEnvOverrides sets every configuration key that has its environment variable defined
func ApplyEnvOverrides(v *viper.Viper, lookup func(key string) (string, bool)) {
	for env, key := range envOverrides {
		if val, ok := lookup(env); ok && strings.TrimSpace(val) != "" {
			v.Set(key, val)
		}
	}
}

// LoadEnvFile loads a dotenv file into the process environment. Variables already
// defined in the environment are left untouched and a missing file is not an error
func LoadEnvFile(path string) (err error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return errors.Wrapf(err, "invalid env file path [%s]", path)
	}

	if _, err := os.Stat(expanded); os.IsNotExist(err) {
		return nil
	}

	if err := godotenv.Load(expanded); err != nil {
		return errors.Wrapf(err, "failed to load env file [%s]", expanded)
	}

	return nil
}

// GetTimeLocation returns the time location set in the configuration
func GetTimeLocation(v *viper.Viper) (timeLoc *time.Location, err error) {
	timeLoc, err = time.LoadLocation(v.GetString(TimeLocationKey))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid %s", TimeLocationKey)
	}

	return timeLoc, nil
}
