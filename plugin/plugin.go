// Package plugin provides a fluent API to assemble a hob.Plugin from the definitions built
// with github.com/gadling/hob/actions
package plugin

import (
	"context"

	"github.com/gadling/hob"
)

// PluginBuilder holds a plugin to build
type PluginBuilder struct {
	plugin *hob.Plugin
}

// New creates a new PluginBuilder with a plugin with the given name and empty set of definitions
func New(name string) (pb *PluginBuilder) {
	pb = new(PluginBuilder)
	pb.plugin = new(hob.Plugin)
	pb.plugin.Name = name
	pb.plugin.Commands = make([]hob.CommandDefinition, 0)
	pb.plugin.PassiveListeners = make([]hob.ListenerDefinition, 0)
	pb.plugin.MentionListeners = make([]hob.Listener, 0)
	pb.plugin.SlashCommands = make([]hob.SlashCommandDefinition, 0)
	pb.plugin.ScheduledActions = make([]hob.ScheduledActionDefinition, 0)

	return pb
}

// WithCommand adds a bang command to the plugin
func (pb *PluginBuilder) WithCommand(command hob.CommandDefinition) *PluginBuilder {
	pb.plugin.Commands = append(pb.plugin.Commands, command)
	return pb
}

// WithPassiveListener adds a listener invoked for every message
func (pb *PluginBuilder) WithPassiveListener(listener hob.ListenerDefinition) *PluginBuilder {
	pb.plugin.PassiveListeners = append(pb.plugin.PassiveListeners, listener)
	return pb
}

// WithMentionListener adds a listener invoked for every message mentioning the bot
func (pb *PluginBuilder) WithMentionListener(listener hob.Listener) *PluginBuilder {
	pb.plugin.MentionListeners = append(pb.plugin.MentionListeners, listener)
	return pb
}

// WithSlashCommand adds a slash command to the plugin
func (pb *PluginBuilder) WithSlashCommand(command hob.SlashCommandDefinition) *PluginBuilder {
	pb.plugin.SlashCommands = append(pb.plugin.SlashCommands, command)
	return pb
}

// WithScheduledAction adds a scheduled action to the plugin
func (pb *PluginBuilder) WithScheduledAction(scheduledAction hob.ScheduledActionDefinition) *PluginBuilder {
	pb.plugin.ScheduledActions = append(pb.plugin.ScheduledActions, scheduledAction)
	return pb
}

// WithInit sets the function called once the services are injected, before any event is dispatched
func (pb *PluginBuilder) WithInit(init func(ctx context.Context) error) *PluginBuilder {
	pb.plugin.Init = init
	return pb
}

// Build returns the created Plugin instance
func (pb *PluginBuilder) Build() (p *hob.Plugin) {
	return pb.plugin
}
