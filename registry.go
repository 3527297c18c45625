package hob

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/gadling/hob/option"
)

const tracerName = "github.com/gadling/hob"

// Kinds of handlers, used in spans, metrics and logs
const (
	commandKind   = "command"
	listenerKind  = "listener"
	mentionKind   = "mention"
	slashKind     = "slash"
	scheduledKind = "scheduled"
)

// CommandHandler handles a bang command. A nil answer means nothing gets sent back
type CommandHandler func(ctx context.Context, c *BangCommand) (*Answer, error)

// Listener inspects a message and decides whether to answer it. A nil answer means nothing gets sent back
type Listener func(ctx context.Context, m *Message) (*Answer, error)

// SlashHandler handles a slash command. A nil answer means nothing gets sent back
type SlashHandler func(ctx context.Context, c *SlashCommand) (*Answer, error)

// ScheduledAction is what gets executed when a ScheduledActionDefinition is triggered (by its schedule)
type ScheduledAction func(ctx context.Context)

// HelpEntry describes a command or listener in the help. Entries are grouped by section
type HelpEntry struct {
	Section     string
	Invocation  option.Option[string]
	Description string
	Examples    []string
}

type registeredCommand struct {
	plugin  string
	handler CommandHandler
}

type registeredListener struct {
	plugin string
	id     string
	listen Listener
}

type registeredSlashCommand struct {
	plugin  string
	handler SlashHandler
}

type registeredScheduledAction struct {
	plugin string
	ScheduledActionDefinition
}

// Registry holds every command and listener along with their help and dispatches inbound
// messages to them. Registration happens before the bot runs, after which the registry is
// only read
type Registry struct {
	commands         map[string]registeredCommand
	passiveListeners []registeredListener
	mentionListeners []registeredListener
	slashCommands    map[string]registeredSlashCommand
	scheduledActions []registeredScheduledAction
	help             []HelpEntry

	logger SLogger
	tracer trace.Tracer
	*instrumenter
}

// NewRegistry returns a new empty Registry logging to logger
func NewRegistry(logger SLogger) (r *Registry) {
	return newRegistry(logger, newInstrumenter("hob", nil))
}

func newRegistry(logger SLogger, ins *instrumenter) (r *Registry) {
	r = new(Registry)
	r.commands = make(map[string]registeredCommand)
	r.slashCommands = make(map[string]registeredSlashCommand)
	r.logger = logger
	r.tracer = otel.Tracer(tracerName)
	r.instrumenter = ins

	return r
}

// RegisterCommand registers the handler of the bang command name and adds its help entry.
// Registering the same command twice is an error
func (r *Registry) RegisterCommand(pluginName string, name string, help HelpEntry, h CommandHandler) (err error) {
	if _, exists := r.commands[name]; exists {
		return errors.Errorf("cannot redefine command '%s'", name)
	}

	if help.Invocation.IsNone() {
		help.Invocation = option.Some("!" + name)
	}

	r.commands[name] = registeredCommand{plugin: pluginName, handler: h}
	r.addHelp(pluginName, help)

	return nil
}

// RegisterPassiveListener registers a listener invoked for every message along with its help entry
func (r *Registry) RegisterPassiveListener(pluginName string, help HelpEntry, l Listener) {
	id := fmt.Sprintf("%s.l[%d]", pluginName, len(r.passiveListeners))
	r.passiveListeners = append(r.passiveListeners, registeredListener{plugin: pluginName, id: id, listen: l})
	r.addHelp(pluginName, help)
}

// RegisterMentionListener registers a listener invoked for every message mentioning the bot
func (r *Registry) RegisterMentionListener(pluginName string, l Listener) {
	id := fmt.Sprintf("%s.m[%d]", pluginName, len(r.mentionListeners))
	r.mentionListeners = append(r.mentionListeners, registeredListener{plugin: pluginName, id: id, listen: l})
}

// RegisterSlashCommand registers the handler of the slash command name (i.e. "/be"). Registering
// the same slash command twice is an error
func (r *Registry) RegisterSlashCommand(pluginName string, name string, h SlashHandler) (err error) {
	if _, exists := r.slashCommands[name]; exists {
		return errors.Errorf("cannot redefine slash command '%s'", name)
	}

	r.slashCommands[name] = registeredSlashCommand{plugin: pluginName, handler: h}

	return nil
}

// RegisterScheduledAction registers an action run on its schedule and adds its help entry
func (r *Registry) RegisterScheduledAction(pluginName string, sa ScheduledActionDefinition) {
	r.scheduledActions = append(r.scheduledActions, registeredScheduledAction{plugin: pluginName, ScheduledActionDefinition: sa})
	r.addHelp(pluginName, HelpEntry{Description: fmt.Sprintf("%s (`%s`)", sa.Description, sa.Schedule)})
}

// RegisterPlugin registers all commands, listeners and scheduled actions of a plugin
func (r *Registry) RegisterPlugin(p *Plugin) (err error) {
	for _, c := range p.Commands {
		if err = r.RegisterCommand(p.Name, c.Name, c.Help, c.Handler); err != nil {
			return err
		}
	}

	for _, l := range p.PassiveListeners {
		r.RegisterPassiveListener(p.Name, l.Help, l.Listener)
	}

	for _, l := range p.MentionListeners {
		r.RegisterMentionListener(p.Name, l)
	}

	for _, s := range p.SlashCommands {
		if err = r.RegisterSlashCommand(p.Name, s.Name, s.Handler); err != nil {
			return err
		}
	}

	for _, sa := range p.ScheduledActions {
		r.RegisterScheduledAction(p.Name, sa)
	}

	return nil
}

func (r *Registry) addHelp(pluginName string, help HelpEntry) {
	if help.Section == "" {
		help.Section = pluginName
	}

	r.help = append(r.help, help)
}

// Dispatch routes a message to the command it invokes, if any, and to every passive listener. Messages
// with a subtype or without text are ignored. Unrecognized commands are logged and dropped. Every
// handler runs isolated from the others: an error or a panic is logged and the others still run
func (r *Registry) Dispatch(ctx context.Context, m *Message) (answers []*OutgoingAnswer) {
	if m.SubType != "" || m.Text == "" {
		return nil
	}

	answers = make([]*OutgoingAnswer, 0)

	if f, ok := ParseBang(m.Text).Get(); ok {
		if rc, exists := r.commands[f.Command]; exists {
			c := NewBangCommand(f, m)

			a := r.invoke(ctx, commandKind, rc.plugin, f.Command, m.Channel, func(ctx context.Context) (*Answer, error) {
				return rc.handler(ctx, c)
			})

			if a != nil {
				answers = append(answers, &OutgoingAnswer{Answer: a, ID: fmt.Sprintf("%s.c[%s]", rc.plugin, f.Command), Channel: m.Channel})
			}
		} else {
			r.logger.Debugf("Ignoring unrecognized command: %s", m.Text)
		}
	}

	return append(answers, r.runListeners(ctx, listenerKind, r.passiveListeners, m)...)
}

// DispatchMention routes a message mentioning the bot to every mention listener
func (r *Registry) DispatchMention(ctx context.Context, m *Message) (answers []*OutgoingAnswer) {
	if m.Text == "" {
		return nil
	}

	return r.runListeners(ctx, mentionKind, r.mentionListeners, m)
}

// DispatchSlash routes a slash command to its handler. Unknown slash commands are logged and dropped
func (r *Registry) DispatchSlash(ctx context.Context, c *SlashCommand) (answer *OutgoingAnswer) {
	rs, exists := r.slashCommands[c.Command]
	if !exists {
		r.logger.Printf("Ignoring unrecognized slash command: %s %s", c.Command, c.Text)
		return nil
	}

	a := r.invoke(ctx, slashKind, rs.plugin, c.Command, c.Channel, func(ctx context.Context) (*Answer, error) {
		return rs.handler(ctx, c)
	})

	if a == nil {
		return nil
	}

	return &OutgoingAnswer{Answer: a, ID: fmt.Sprintf("%s.s[%s]", rs.plugin, c.Command), Channel: c.Channel}
}

func (r *Registry) runListeners(ctx context.Context, kind string, listeners []registeredListener, m *Message) (answers []*OutgoingAnswer) {
	answers = make([]*OutgoingAnswer, 0)

	for _, l := range listeners {
		l := l
		a := r.invoke(ctx, kind, l.plugin, l.id, m.Channel, func(ctx context.Context) (*Answer, error) {
			return l.listen(ctx, m)
		})

		if a != nil {
			answers = append(answers, &OutgoingAnswer{Answer: a, ID: l.id, Channel: m.Channel})
		}
	}

	return answers
}

// runScheduledAction runs a scheduled action with the same isolation as message handlers
func (r *Registry) runScheduledAction(ctx context.Context, sa registeredScheduledAction) {
	r.invoke(ctx, scheduledKind, sa.plugin, sa.Schedule.String(), "", func(ctx context.Context) (*Answer, error) {
		sa.Action(ctx)
		return nil, nil
	})
}

// invoke runs a handler in its own span, recording metrics and recovering from any panic
func (r *Registry) invoke(ctx context.Context, kind string, plugin string, name string, channel string, h func(ctx context.Context) (*Answer, error)) (a *Answer) {
	ctx, span := r.tracer.Start(ctx, "hob."+kind, trace.WithAttributes(
		attribute.String("hob.plugin", plugin),
		attribute.String("hob.handler", name),
		attribute.String("hob.channel", channel)))
	defer span.End()

	before := time.Now()
	defer func() {
		if p := recover(); p != nil {
			err := errors.Errorf("panic: %v", p)
			r.logger.Printf("Recovered from panic in [%s] %s [%s] on channel [%s]: %v", plugin, kind, name, channel, p)
			r.failed(span, plugin, kind, err)
			a = nil
		}

		r.recordHandlerInvocation(plugin, kind, time.Since(before))
	}()

	a, err := h(ctx)
	if err != nil {
		r.logger.Printf("Error in [%s] %s [%s] on channel [%s]: %v", plugin, kind, name, channel, err)
		r.failed(span, plugin, kind, err)
	}

	return a
}

func (r *Registry) failed(span trace.Span, plugin string, kind string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	r.recordHandlerError(plugin, kind)
}
