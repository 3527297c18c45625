package hob

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/hashicorp/golang-lru"
	"github.com/marcsantiago/gocron"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"
	"github.com/spf13/viper"

	"github.com/gadling/hob/config"
	"github.com/gadling/hob/schedule"
)

const (
	defaultLogPrefix = "hob: "
	defaultLogFlag   = log.Lshortfile | log.LstdFlags
)

// CommandDefinition defines a bang command (i.e. "!dice 2d6") of a plugin
type CommandDefinition struct {
	// Name of the command, without the leading '!'
	Name string

	// Help of the command. The section defaults to the plugin name and the invocation to "!Name"
	Help HelpEntry

	Handler CommandHandler
}

// ListenerDefinition defines a passive listener of a plugin, invoked for every message
type ListenerDefinition struct {
	// Help of the listener. The section defaults to the plugin name
	Help HelpEntry

	Listener Listener
}

// SlashCommandDefinition defines a slash command (i.e. "/be") of a plugin
type SlashCommandDefinition struct {
	// Name of the slash command, including the leading '/'
	Name string

	Handler SlashHandler
}

// ScheduledActionDefinition represents when a scheduled action is triggered as well
// as what it does and how
type ScheduledActionDefinition struct {
	// Schedule definition determining when the action runs
	Schedule schedule.Definition

	// Help description for the scheduled action
	Description string

	// ScheduledAction is the function that is invoked when the schedule activates
	Action ScheduledAction
}

// Plugin defines a collection of commands, listeners and scheduled actions. The services are
// injected by hob before Init is called
type Plugin struct {
	// Name of the plugin, also the default help section of its commands and listeners
	Name string

	Commands         []CommandDefinition
	PassiveListeners []ListenerDefinition
	MentionListeners []Listener
	SlashCommands    []SlashCommandDefinition
	ScheduledActions []ScheduledActionDefinition

	// Init is called once the services are injected and before any event gets dispatched. It's optional
	Init func(ctx context.Context) error

	// Those services are injected by hob
	Logger           SLogger
	EmojiReactor     EmojiReactor
	FileUploader     FileUploader
	UserInfoFinder   UserInfoFinder
	MessagePoster    MessagePoster
	ChannelDirectory ChannelDirectory
}

// Hob represents what defines a hob instance: its name, its configuration, its plugins and
// the state of its responses
type Hob struct {
	name    string
	config  *viper.Viper
	plugins []*Plugin
	closers []io.Closer

	registry *Registry

	// Tracks the responses sent for triggering messages (messageID -> map[answerID]messageID)
	responses *lru.ARCCache

	driver chatDriver

	selfID    string
	selfBotID string

	router *partitionRouter

	defaultThreaded  bool
	defaultBroadcast bool

	logger  *log.Logger
	log     *sLogger
	metrics *prometheus.Registry

	*instrumenter
}

// Option defines an option for a Hob
type Option func(*Hob)

// OptionLog sets a logger for hob
func OptionLog(logger *log.Logger) func(*Hob) {
	return func(h *Hob) {
		h.logger = logger
	}
}

// OptionLogfile sets a logfile for hob (using the standard prefix and flags)
func OptionLogfile(logfile *os.File) func(*Hob) {
	return func(h *Hob) {
		h.logger = log.New(logfile, defaultLogPrefix, defaultLogFlag)
	}
}

// OptionMetricsRegistry sets the prometheus registry the engine metrics are registered on
func OptionMetricsRegistry(reg *prometheus.Registry) func(*Hob) {
	return func(h *Hob) {
		h.metrics = reg
	}
}

// slackAPI is the part of the slack.Client hob needs
type slackAPI interface {
	chatDriver
	slackReactor
	SlackFileUploader
	slackUserInfoFinder
	slackConversations
	AuthTestContext(ctx context.Context) (response *slack.AuthTestResponse, err error)
}

// acker acknowledges socket mode requests
type acker interface {
	Ack(req socketmode.Request, payload ...interface{})
}

// New creates a new hob from a viper configuration. The caller registers the plugins before Run
//
// The logger defaults to standard out with the "hob: " prefix and can be changed with OptionLog or OptionLogfile
func New(name string, v *viper.Viper, options ...Option) (h *Hob, err error) {
	h = new(Hob)
	h.name = name
	h.config = v
	h.logger = log.New(os.Stdout, defaultLogPrefix, defaultLogFlag)

	for _, opt := range options {
		opt(h)
	}

	if h.metrics == nil {
		h.metrics = prometheus.NewRegistry()
		h.metrics.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	h.log = NewSLogger(h.logger, v.GetBool(config.DebugKey))
	h.instrumenter = newInstrumenter(name, h.metrics)
	h.defaultThreaded = v.GetBool(config.ThreadedRepliesKey)
	h.defaultBroadcast = v.GetBool(config.BroadcastThreadedRepliesKey)

	h.responses, err = lru.NewARC(v.GetInt(config.ResponseCacheSizeKey))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid %s [%d]", config.ResponseCacheSizeKey, v.GetInt(config.ResponseCacheSizeKey))
	}

	h.router, err = newPartitionRouter(v.GetInt(config.MessageProcessingPartitionCount), v.GetInt(config.MessageProcessingBufferedCount), h.log, h.instrumenter)
	if err != nil {
		return nil, err
	}

	h.registry = newRegistry(h.log, h.instrumenter)
	if err = h.RegisterPlugin(newHelpPlugin(h.registry)); err != nil {
		return nil, err
	}

	return h, nil
}

// RegisterPlugin registers a plugin with hob. A plugin redefining an existing command fails registration
func (h *Hob) RegisterPlugin(p *Plugin) (err error) {
	if err = h.registry.RegisterPlugin(p); err != nil {
		return errors.Wrapf(err, "failed to register plugin [%s]", p.Name)
	}

	h.plugins = append(h.plugins, p)

	return nil
}

// Run connects to slack in socket mode and processes events until ctx is cancelled or the
// connection terminates
func (h *Hob) Run(ctx context.Context) (err error) {
	botToken := h.config.GetString(config.BotTokenKey)
	appToken := h.config.GetString(config.AppTokenKey)
	if botToken == "" || appToken == "" {
		return errors.Errorf("both %s and %s must be set", config.BotTokenKey, config.AppTokenKey)
	}

	developerMode := h.config.GetBool(config.DeveloperModeKey)
	api := slack.New(botToken,
		slack.OptionAppLevelToken(appToken),
		slack.OptionDebug(developerMode),
		slack.OptionLog(log.New(os.Stdout, "slack: ", defaultLogFlag)))

	sm := socketmode.New(api,
		socketmode.OptionDebug(developerMode),
		socketmode.OptionLog(log.New(os.Stdout, "socketmode: ", defaultLogFlag)))

	return h.run(ctx, api, sm.Events, sm, sm.RunContext)
}

// run is the body of Run over the narrow slack interfaces
func (h *Hob) run(ctx context.Context, api slackAPI, events <-chan socketmode.Event, ack acker, connect func(ctx context.Context) error) (err error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	auth, err := api.AuthTestContext(ctx)
	if err != nil {
		return errors.Wrap(err, "slack authentication test failed")
	}

	h.selfID = auth.UserID
	h.selfBotID = auth.BotID
	h.log.Printf("Authenticated as [%s] with user id [%s] on team [%s]", auth.User, auth.UserID, auth.Team)

	h.driver = newChatDriverWithMetrics(api, h.name, h.metrics)

	if err = h.injectServices(api); err != nil {
		return err
	}

	for _, p := range h.plugins {
		if p.Init == nil {
			continue
		}

		if err = p.Init(ctx); err != nil {
			return errors.Wrapf(err, "failed to initialize plugin [%s]", p.Name)
		}
	}

	if addr := h.config.GetString(config.MetricsAddressKey); addr != "" {
		go h.serveMetrics(ctx, addr)
	}

	stopScheduler, err := h.startActionScheduler(ctx)
	if err != nil {
		return err
	}
	defer close(stopScheduler)

	h.router.start(ctx)
	defer h.router.stop()

	connErr := make(chan error, 1)
	go func() {
		connErr <- connect(ctx)
	}()

	for {
		select {
		case <-ctx.Done():
			h.log.Debugf("Context done, terminating event processing")
			return nil
		case err := <-connErr:
			if err != nil && ctx.Err() == nil {
				return errors.Wrap(err, "socket mode connection terminated")
			}
			return nil
		case evt, ok := <-events:
			if !ok {
				return nil
			}

			h.processEvent(ctx, evt, ack)
		}
	}
}

// injectServices sets the services on every plugin
func (h *Hob) injectServices(api slackAPI) (err error) {
	userInfoFinder, err := NewCachingUserInfoFinder(h.config, userInfoLoader{finder: api}, h.log)
	if err != nil {
		return err
	}

	emojiReactor := NewEmojiReactor(api)
	fileUploader := NewFileUploader(api)
	messagePoster := NewMessagePoster(h.driver)
	channelDirectory := NewChannelDirectory(api)

	for _, p := range h.plugins {
		p.Logger = h.log.withPrefix(p.Name)
		p.EmojiReactor = emojiReactor
		p.FileUploader = fileUploader
		p.UserInfoFinder = userInfoFinder
		p.MessagePoster = messagePoster
		p.ChannelDirectory = channelDirectory
	}

	return nil
}

// startActionScheduler registers every scheduled action with a new scheduler and starts it. Closing
// the returned channel stops the scheduler
func (h *Hob) startActionScheduler(ctx context.Context) (stop chan bool, err error) {
	timeLoc, err := config.GetTimeLocation(h.config)
	if err != nil {
		return nil, err
	}

	gocron.ChangeLoc(timeLoc)
	sc := gocron.NewScheduler()

	for _, sa := range h.registry.scheduledActions {
		j, err := schedule.NewJob(sc, sa.Schedule)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid scheduled action of plugin [%s]", sa.plugin)
		}

		h.log.Debugf("Adding job [%s] of plugin [%s] to scheduler", sa.Schedule, sa.plugin)
		j.Do(h.registry.runScheduledAction, ctx, sa)
	}

	if len(h.registry.scheduledActions) > 0 {
		_, t := sc.NextRun()
		h.log.Debugf("Starting scheduler with first job scheduled at [%s]", t)
	}

	return sc.Start(), nil
}

// serveMetrics serves the prometheus metrics on addr until ctx is done
func (h *Hob) serveMetrics(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(h.metrics, promhttp.HandlerOpts{Registry: h.metrics}))

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	h.log.Printf("Serving metrics on [%s]", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		h.log.Printf("Metrics server terminated: %v", err)
	}
}

// AddCloser registers a resource closed with the hob instance
func (h *Hob) AddCloser(c io.Closer) {
	h.closers = append(h.closers, c)
}

// Close closes all closers of this hob instance. The first error is returned but every closer
// is closed regardless
func (h *Hob) Close() (err error) {
	for _, c := range h.closers {
		if cerr := c.Close(); cerr != nil {
			h.log.Printf("Error closing [%T]: %v", c, cerr)
			if err == nil {
				err = cerr
			}
		}
	}

	return err
}
