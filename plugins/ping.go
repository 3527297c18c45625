package plugins

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/gadling/hob"
	"github.com/gadling/hob/actions"
	"github.com/gadling/hob/plugin"
)

const (
	// PingPluginName holds identifying name for the ping plugin
	PingPluginName = "ping"
)

// HostInfo describes the machine hob runs on
type HostInfo struct {
	Hostname string
	Arch     string
	CPUCount int
	OS       string
}

// CurrentHost returns the HostInfo of the current machine
func CurrentHost() (hi HostInfo) {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown host"
	}

	return HostInfo{Hostname: hostname, Arch: runtime.GOARCH, CPUCount: runtime.NumCPU(), OS: runtime.GOOS}
}

// NewPing creates a new instance of the ping plugin reporting the bot's name, version and host
func NewPing(name string, version string, host HostInfo) (p *hob.Plugin) {
	if name == "" {
		name = "anonymous"
	}

	return plugin.New(PingPluginName).
		WithCommand(actions.NewCommand("ping").
			WithDescriptionf("Displays some info about `%s`", name).
			WithHandler(func(ctx context.Context, c *hob.BangCommand) (*hob.Answer, error) {
				return &hob.Answer{Text: fmt.Sprintf("%s (hob %s; %s) comin' at ya from `%s`, an `%s` machine with *%dx* cores running `%s`",
					name, version, hob.Homepage, host.Hostname, host.Arch, host.CPUCount, host.OS)}, nil
			}).
			Build()).
		Build()
}
