package config

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// PluginConfig gives a plugin access to its own configuration, found under
// plugins.<pluginName> in the global configuration
type PluginConfig struct {
	v      *viper.Viper
	prefix string
	name   string
}

// NewPluginConfig returns the configuration of the plugin with the given name. A plugin
// without any configuration still gets a PluginConfig so it can rely on its defaults
func NewPluginConfig(v *viper.Viper, name string) (pc *PluginConfig) {
	return &PluginConfig{v: v, prefix: PluginsKey + "." + name + ".", name: name}
}

// Name returns the name of the plugin this configuration is for
func (pc *PluginConfig) Name() string {
	return pc.name
}

// SetDefault sets the default value of a plugin configuration key
func (pc *PluginConfig) SetDefault(key string, value interface{}) {
	pc.v.SetDefault(pc.prefix+key, value)
}

// Set sets the value of a plugin configuration key, overriding any other value
func (pc *PluginConfig) Set(key string, value interface{}) {
	pc.v.Set(pc.prefix+key, value)
}

// IsSet returns true if the key has a value (defaults included)
func (pc *PluginConfig) IsSet(key string) bool {
	return pc.v.IsSet(pc.prefix + key)
}

// GetString returns the value of key as a string
func (pc *PluginConfig) GetString(key string) string {
	return pc.v.GetString(pc.prefix + key)
}

// GetBool returns the value of key as a bool
func (pc *PluginConfig) GetBool(key string) bool {
	return pc.v.GetBool(pc.prefix + key)
}

// GetIntE returns the value of key as an int or an error if it can't be converted
func (pc *PluginConfig) GetIntE(key string) (val int, err error) {
	val, err = cast.ToIntE(pc.v.Get(pc.prefix + key))
	if err != nil {
		return 0, errors.Wrapf(err, "[%s] invalid int value for [%s]", pc.name, key)
	}

	return val, nil
}

// GetFloat64E returns the value of key as a float64 or an error if it can't be converted
func (pc *PluginConfig) GetFloat64E(key string) (val float64, err error) {
	val, err = cast.ToFloat64E(pc.v.Get(pc.prefix + key))
	if err != nil {
		return 0, errors.Wrapf(err, "[%s] invalid float value for [%s]", pc.name, key)
	}

	return val, nil
}

// GetDurationE returns the value of key as a time.Duration or an error if it can't be
// converted. Strings are parsed with time.ParseDuration (i.e. "72h")
func (pc *PluginConfig) GetDurationE(key string) (val time.Duration, err error) {
	val, err = cast.ToDurationE(pc.v.Get(pc.prefix + key))
	if err != nil {
		return 0, errors.Wrapf(err, "[%s] invalid duration value for [%s]", pc.name, key)
	}

	return val, nil
}

// GetStringMapString returns the value of key as a map of strings
func (pc *PluginConfig) GetStringMapString(key string) map[string]string {
	return pc.v.GetStringMapString(pc.prefix + key)
}
