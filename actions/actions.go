/*
Package actions provides a fluent API for creating hob plugin commands, listeners and scheduled
actions. Typical usages will also involve using the plugin fluent API from github.com/gadling/hob/plugin.

Plugin examples using this API can be found in github.com/gadling/hob/plugins but a quick one could
look like:

	import (
		"github.com/gadling/hob"
		"github.com/gadling/hob/actions"
		"github.com/gadling/hob/plugin"
		"github.com/gadling/hob/schedule"
	)

	func newPlugin() (p *hob.Plugin) {
		p = plugin.New("maker").
			WithCommand(actions.NewCommand("make").
				WithUsage("!make SOMETHING").
				WithDescription("Make the `SOMETHING` you need").
				WithHandler(func(ctx context.Context, c *hob.BangCommand) (*hob.Answer, error) {
					return &hob.Answer{Text: ":white_check_mark: It's ready for you!"}, nil
				}).
				Build()).
			WithPassiveListener(actions.NewListener().
				WithDescription("I hear birds").
				WithHandler(func(ctx context.Context, m *hob.Message) (*hob.Answer, error) {
					if !strings.HasPrefix(m.Text, "chirp") {
						return nil, nil
					}
					return &hob.Answer{Text: "Did I hear a bird?"}, nil
				}).
				Build()).
			WithScheduledAction(actions.NewScheduledAction().
				WithSchedule(schedule.New().Every(time.Monday.String()).AtTime("10:00").Build()).
				WithDescription("Start the week off").
				WithAction(weeklyKickoff).
				Build()).
			Build()
		return p
	}
*/
package actions

import (
	"context"
	"fmt"

	"github.com/gadling/hob"
	"github.com/gadling/hob/option"
	"github.com/gadling/hob/schedule"
)

// CommandBuilder holds the command to build
type CommandBuilder struct {
	command hob.CommandDefinition
}

// ListenerBuilder holds the passive listener to build
type ListenerBuilder struct {
	listener hob.ListenerDefinition
}

// SlashCommandBuilder holds the slash command to build
type SlashCommandBuilder struct {
	command hob.SlashCommandDefinition
}

// ScheduledActionBuilder holds the scheduled action to build
type ScheduledActionBuilder struct {
	scheduledAction hob.ScheduledActionDefinition
}

var (
	// Default to never answer. This is not a default you want to use in most cases
	defaultCommandHandler = func(ctx context.Context, c *hob.BangCommand) (*hob.Answer, error) {
		return nil, nil
	}

	defaultListener = func(ctx context.Context, m *hob.Message) (*hob.Answer, error) {
		return nil, nil
	}

	defaultSlashHandler = func(ctx context.Context, c *hob.SlashCommand) (*hob.Answer, error) {
		return nil, nil
	}
)

// NewCommand returns a new CommandBuilder to build the bang command name (without the leading '!').
// When done with the setup, the caller is expected to call Build() to get the command
func NewCommand(name string) (cb *CommandBuilder) {
	cb = new(CommandBuilder)
	cb.command = hob.CommandDefinition{Name: name, Handler: defaultCommandHandler}

	return cb
}

// WithUsage sets how the command is invoked in the help (i.e. "!dice NdM"). It defaults to "!name"
func (cb *CommandBuilder) WithUsage(usage string) *CommandBuilder {
	cb.command.Help.Invocation = option.Some(usage)
	return cb
}

// WithDescription sets the command description
func (cb *CommandBuilder) WithDescription(description string) *CommandBuilder {
	cb.command.Help.Description = description
	return cb
}

// WithDescriptionf sets the command description delegating format and arguments to fmt.Sprintf
func (cb *CommandBuilder) WithDescriptionf(format string, a ...interface{}) *CommandBuilder {
	cb.command.Help.Description = fmt.Sprintf(format, a...)
	return cb
}

// WithExamples adds examples to the command help
func (cb *CommandBuilder) WithExamples(examples ...string) *CommandBuilder {
	cb.command.Help.Examples = append(cb.command.Help.Examples, examples...)
	return cb
}

// InSection sets the help section of the command. It defaults to the plugin name
func (cb *CommandBuilder) InSection(section string) *CommandBuilder {
	cb.command.Help.Section = section
	return cb
}

// WithHandler sets the command handler
func (cb *CommandBuilder) WithHandler(handler hob.CommandHandler) *CommandBuilder {
	cb.command.Handler = handler
	return cb
}

// Build returns the CommandDefinition
func (cb *CommandBuilder) Build() hob.CommandDefinition {
	return cb.command
}

// NewListener returns a new ListenerBuilder to build a passive listener
func NewListener() (lb *ListenerBuilder) {
	lb = new(ListenerBuilder)
	lb.listener = hob.ListenerDefinition{Listener: defaultListener}

	return lb
}

// WithUsage sets how the listener is triggered in the help (i.e. "THING++")
func (lb *ListenerBuilder) WithUsage(usage string) *ListenerBuilder {
	lb.listener.Help.Invocation = option.Some(usage)
	return lb
}

// WithDescription sets the listener description
func (lb *ListenerBuilder) WithDescription(description string) *ListenerBuilder {
	lb.listener.Help.Description = description
	return lb
}

// WithDescriptionf sets the listener description delegating format and arguments to fmt.Sprintf
func (lb *ListenerBuilder) WithDescriptionf(format string, a ...interface{}) *ListenerBuilder {
	lb.listener.Help.Description = fmt.Sprintf(format, a...)
	return lb
}

// WithExamples adds examples to the listener help
func (lb *ListenerBuilder) WithExamples(examples ...string) *ListenerBuilder {
	lb.listener.Help.Examples = append(lb.listener.Help.Examples, examples...)
	return lb
}

// InSection sets the help section of the listener. It defaults to the plugin name
func (lb *ListenerBuilder) InSection(section string) *ListenerBuilder {
	lb.listener.Help.Section = section
	return lb
}

// WithHandler sets the listener function
func (lb *ListenerBuilder) WithHandler(listener hob.Listener) *ListenerBuilder {
	lb.listener.Listener = listener
	return lb
}

// Build returns the ListenerDefinition
func (lb *ListenerBuilder) Build() hob.ListenerDefinition {
	return lb.listener
}

// NewSlashCommand returns a new SlashCommandBuilder to build the slash command name (i.e. "/be")
func NewSlashCommand(name string) (sb *SlashCommandBuilder) {
	sb = new(SlashCommandBuilder)
	sb.command = hob.SlashCommandDefinition{Name: name, Handler: defaultSlashHandler}

	return sb
}

// WithHandler sets the slash command handler
func (sb *SlashCommandBuilder) WithHandler(handler hob.SlashHandler) *SlashCommandBuilder {
	sb.command.Handler = handler
	return sb
}

// Build returns the SlashCommandDefinition
func (sb *SlashCommandBuilder) Build() hob.SlashCommandDefinition {
	return sb.command
}

// NewScheduledAction returns a new ScheduledActionBuilder to build a new ScheduledActionDefinition
func NewScheduledAction() (sab *ScheduledActionBuilder) {
	sab = new(ScheduledActionBuilder)
	sab.scheduledAction.Action = func(ctx context.Context) {}

	return sab
}

// WithSchedule sets the schedule for the scheduled action
func (sab *ScheduledActionBuilder) WithSchedule(schedule schedule.Definition) *ScheduledActionBuilder {
	sab.scheduledAction.Schedule = schedule
	return sab
}

// WithDescription sets the scheduled action description
func (sab *ScheduledActionBuilder) WithDescription(desc string) *ScheduledActionBuilder {
	sab.scheduledAction.Description = desc
	return sab
}

// WithDescriptionf sets the scheduled action description delegating format and arguments to fmt.Sprintf
func (sab *ScheduledActionBuilder) WithDescriptionf(format string, a ...interface{}) *ScheduledActionBuilder {
	sab.scheduledAction.Description = fmt.Sprintf(format, a...)
	return sab
}

// WithAction sets the action function to run on schedule
func (sab *ScheduledActionBuilder) WithAction(action hob.ScheduledAction) *ScheduledActionBuilder {
	sab.scheduledAction.Action = action
	return sab
}

// Build returns the ScheduledActionDefinition
func (sab *ScheduledActionBuilder) Build() hob.ScheduledActionDefinition {
	return sab.scheduledAction
}
