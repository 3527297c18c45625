package assertplugin

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"

	"github.com/gadling/hob"
	"github.com/gadling/hob/schedule"
	"github.com/gadling/hob/test/capture"
)

// Asserter represents a plugin driver/asserter along with the workspace and logger the plugins it drives get
type Asserter struct {
	logger    *log.Logger
	workspace *capture.Workspace
}

// New creates a new asserter. Its workspace is empty unless set with OptionWorkspace
func New(options ...Option) (a *Asserter) {
	a = new(Asserter)
	a.logger = log.New(io.Discard, "", 0)
	a.workspace = capture.NewWorkspace()

	for _, option := range options {
		option(a)
	}

	return a
}

// Option defines an option for the Asserter
type Option func(*Asserter)

// OptionLog sets a logger for the asserter such that this logger is attached to the plugin when driven by
// the asserter
func OptionLog(logger *log.Logger) func(*Asserter) {
	return func(a *Asserter) {
		a.logger = logger
	}
}

// OptionWorkspace sets the workspace used as the channel directory and user info finder of the plugins
func OptionWorkspace(w *capture.Workspace) func(*Asserter) {
	return func(a *Asserter) {
		a.workspace = w
	}
}

// ResultValidator is a function to do further validation of the answers and emoji reactions resulting from
// a plugin processing of a message. The return value is meant to be true if validation is successful and
// false otherwise (following the testify convention)
type ResultValidator func(t *testing.T, answers []*hob.Answer, emojis []string) bool

// ResultWithUploadsValidator is a ResultValidator that also validates file uploads
type ResultWithUploadsValidator func(t *testing.T, answers []*hob.Answer, emojis []string, fileUploads []slack.UploadFileV2Parameters) bool

// ResultWithPostsValidator is a ResultValidator that also validates the messages posted outside
// of answers, keyed by channel ID
type ResultWithPostsValidator func(t *testing.T, answers []*hob.Answer, emojis []string, sentMsgs map[string][]string) bool

// SlashValidator validates the answer to a slash command. The answer is nil when there's none
type SlashValidator func(t *testing.T, answer *hob.Answer) bool

// ScheduledActionValidator validates the messages sent and files uploaded by scheduled actions
type ScheduledActionValidator func(t *testing.T, sentMsgs map[string][]string, fileUploads []slack.UploadFileV2Parameters) bool

// captors holds the test doubles injected in a plugin for a single drive
type captors struct {
	emojis  *capture.EmojiReactionCaptor
	uploads *capture.FileUploadCaptor
	poster  *capture.MessagePosterCaptor
}

// AnswersAndReacts drives a plugin with a message the way hob dispatches it (the command it invokes and every
// passive listener) and collects Answers as well as emoji reactions. Once all of those have been collected,
// it passes handling to a validator to assert the expected answers and emoji reactions. It follows the style of
// github.com/stretchr/testify/assert as far as returning true/false to indicate success for further nested testing.
func (a *Asserter) AnswersAndReacts(t *testing.T, p *hob.Plugin, m *hob.Message, validate ResultValidator) (valid bool) {
	return a.AnswersAndReactsWithUploads(t, p, m, func(t *testing.T, answers []*hob.Answer, emojis []string, fileUploads []slack.UploadFileV2Parameters) bool {
		return validate(t, answers, emojis)
	})
}

// AnswersAndReactsWithUploads is AnswersAndReacts with the file uploads also collected for validation
func (a *Asserter) AnswersAndReactsWithUploads(t *testing.T, p *hob.Plugin, m *hob.Message, validate ResultWithUploadsValidator) (valid bool) {
	answers, c, ok := a.drive(t, p, func(ctx context.Context, r *hob.Registry) []*hob.OutgoingAnswer {
		return r.Dispatch(ctx, m)
	})
	if !ok {
		return false
	}

	return validate(t, answers, c.emojis.Emojis, c.uploads.FileUploads)
}

// AnswersAndPosts is AnswersAndReacts with the messages posted by the plugin also collected for validation
func (a *Asserter) AnswersAndPosts(t *testing.T, p *hob.Plugin, m *hob.Message, validate ResultWithPostsValidator) (valid bool) {
	answers, c, ok := a.drive(t, p, func(ctx context.Context, r *hob.Registry) []*hob.OutgoingAnswer {
		return r.Dispatch(ctx, m)
	})
	if !ok {
		return false
	}

	return validate(t, answers, c.emojis.Emojis, c.poster.SentMessages)
}

// AnswersMention drives a plugin with a message mentioning the bot. Only mention listeners are invoked
func (a *Asserter) AnswersMention(t *testing.T, p *hob.Plugin, m *hob.Message, validate ResultValidator) (valid bool) {
	answers, c, ok := a.drive(t, p, func(ctx context.Context, r *hob.Registry) []*hob.OutgoingAnswer {
		return r.DispatchMention(ctx, m)
	})
	if !ok {
		return false
	}

	return validate(t, answers, c.emojis.Emojis)
}

// AnswersSlash drives a plugin with a slash command and validates its answer
func (a *Asserter) AnswersSlash(t *testing.T, p *hob.Plugin, sc *hob.SlashCommand, validate SlashValidator) (valid bool) {
	answers, _, ok := a.drive(t, p, func(ctx context.Context, r *hob.Registry) []*hob.OutgoingAnswer {
		if oa := r.DispatchSlash(ctx, sc); oa != nil {
			return []*hob.OutgoingAnswer{oa}
		}

		return nil
	})
	if !ok {
		return false
	}

	if len(answers) == 0 {
		return validate(t, nil)
	}

	return validate(t, answers[0])
}

// RunsOnSchedule runs every scheduled action of the plugin with schedule sd and validates what they sent.
// It fails if the plugin has no action on that schedule
func (a *Asserter) RunsOnSchedule(t *testing.T, p *hob.Plugin, sd schedule.Definition, validate ScheduledActionValidator) (valid bool) {
	c, ok := a.initialize(t, p)
	if !ok {
		return false
	}

	ran := false
	for _, sa := range p.ScheduledActions {
		if sa.Schedule == sd {
			sa.Action(context.Background())
			ran = true
		}
	}

	if !assert.Truef(t, ran, "Plugin [%s] has no scheduled action running [%s]", p.Name, sd) {
		return false
	}

	return validate(t, c.poster.SentMessages, c.uploads.FileUploads)
}

// DoesNotRunOnSchedule asserts that the plugin has no scheduled action with schedule sd
func (a *Asserter) DoesNotRunOnSchedule(t *testing.T, p *hob.Plugin, sd schedule.Definition) (valid bool) {
	for _, sa := range p.ScheduledActions {
		if sa.Schedule == sd {
			return assert.Failf(t, "Unexpected scheduled action", "Plugin [%s] has a scheduled action running [%s]", p.Name, sd)
		}
	}

	return true
}

// drive injects new captors in the plugin, initializes it and runs dispatch over a registry holding only that plugin
func (a *Asserter) drive(t *testing.T, p *hob.Plugin, dispatch func(ctx context.Context, r *hob.Registry) []*hob.OutgoingAnswer) (answers []*hob.Answer, c captors, ok bool) {
	c, ok = a.initialize(t, p)
	if !ok {
		return nil, c, false
	}

	r := hob.NewRegistry(p.Logger)
	if err := r.RegisterPlugin(p); !assert.NoErrorf(t, err, "Plugin [%s] failed to register", p.Name) {
		return nil, c, false
	}

	answers = make([]*hob.Answer, 0)
	for _, oa := range dispatch(context.Background(), r) {
		answers = append(answers, oa.Answer)
	}

	return answers, c, true
}

// initialize injects the services in the plugin the way hob does and runs its Init function
func (a *Asserter) initialize(t *testing.T, p *hob.Plugin) (c captors, ok bool) {
	c = captors{
		emojis:  capture.NewEmojiReactionCaptor(),
		uploads: capture.NewFileUploader(),
		poster:  capture.NewMessagePoster(),
	}

	p.Logger = hob.NewSLogger(a.logger, true)
	p.EmojiReactor = c.emojis
	p.FileUploader = hob.NewFileUploader(c.uploads)
	p.MessagePoster = c.poster
	p.UserInfoFinder = a.workspace
	p.ChannelDirectory = a.workspace

	if p.Init != nil {
		if err := p.Init(context.Background()); !assert.NoErrorf(t, err, "Plugin [%s] failed to initialize", p.Name) {
			return c, false
		}
	}

	return c, true
}
