package hob

import (
	"io"

	"github.com/spf13/viper"
)

// Builder holds a hob instance to build. The first error encountered is kept and
// every following step is skipped
type Builder struct {
	bot *Hob
	err error
}

// NewBot returns a new Builder used to set up a new hob
func NewBot(name string, v *viper.Viper, options ...Option) (sb *Builder) {
	sb = new(Builder)
	sb.bot, sb.err = New(name, v, options...)

	return sb
}

// WithPlugin adds a plugin to the hob instance
func (sb *Builder) WithPlugin(p *Plugin) *Builder {
	return sb.WithPluginErr(p, nil)
}

// WithPluginErr adds a plugin that has a creation function returning (*Plugin, error) to the hob instance
func (sb *Builder) WithPluginErr(p *Plugin, err error) *Builder {
	return sb.WithPluginCloserErr(nil, p, err)
}

// WithPluginCloserErr adds a plugin that has a creation function returning (io.Closer, *Plugin, error) to the hob instance.
// The closer is closed when the hob instance is
func (sb *Builder) WithPluginCloserErr(closer io.Closer, p *Plugin, err error) *Builder {
	if sb.err == nil && err != nil {
		sb.err = err
	}

	if sb.err != nil {
		return sb
	}

	if sb.err = sb.bot.RegisterPlugin(p); sb.err != nil {
		return sb
	}

	if closer != nil {
		sb.bot.AddCloser(closer)
	}

	return sb
}

// WithCloser adds a resource closed along with the hob instance (i.e. a storer shared by many plugins)
func (sb *Builder) WithCloser(closer io.Closer) *Builder {
	if sb.err == nil {
		sb.bot.AddCloser(closer)
	}

	return sb
}

// Build returns the built hob instance. If there was an error during
// setup, the error is returned along with a nil hob
func (sb *Builder) Build() (h *Hob, err error) {
	if sb.err != nil {
		return nil, sb.err
	}

	return sb.bot, nil
}
