package hob

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gadling/hob/config"
)

const (
	botUserID = "UHOB"
	botID     = "BHOB"
)

type sentMessage struct {
	channelID       string
	text            string
	threadTimestamp string
	ephemeralUserID string
}

// inMemorySlack is a slackAPI recording what gets sent
type inMemorySlack struct {
	sync.Mutex

	timeCursor  uint64
	sentMsgs    []sentMessage
	deletedMsgs []messageID
}

func (s *inMemorySlack) nextTimestamp() (fmtTime string) {
	s.timeCursor = s.timeCursor + 10
	return fmt.Sprintf("%d.000", s.timeCursor)
}

func (s *inMemorySlack) record(channelID string, userID string, options ...slack.MsgOption) {
	_, values, err := slack.UnsafeApplyMsgOptions("", channelID, "", options...)
	if err != nil {
		panic(err)
	}

	s.sentMsgs = append(s.sentMsgs, sentMessage{channelID: channelID, text: values.Get("text"), threadTimestamp: values.Get("thread_ts"), ephemeralUserID: userID})
}

func (s *inMemorySlack) PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error) {
	s.Lock()
	defer s.Unlock()

	s.record(channelID, "", options...)

	return channelID, s.nextTimestamp(), nil
}

func (s *inMemorySlack) PostEphemeralContext(ctx context.Context, channelID string, userID string, options ...slack.MsgOption) (string, error) {
	s.Lock()
	defer s.Unlock()

	s.record(channelID, userID, options...)

	return s.nextTimestamp(), nil
}

func (s *inMemorySlack) DeleteMessageContext(ctx context.Context, channelID string, timestamp string) (string, string, error) {
	s.Lock()
	defer s.Unlock()

	s.deletedMsgs = append(s.deletedMsgs, messageID{channelID: channelID, timestamp: timestamp})

	return channelID, timestamp, nil
}

func (s *inMemorySlack) AddReactionContext(ctx context.Context, name string, item slack.ItemRef) error {
	return nil
}

func (s *inMemorySlack) UploadFileV2Context(ctx context.Context, params slack.UploadFileV2Parameters) (*slack.FileSummary, error) {
	return &slack.FileSummary{ID: "F1", Title: params.Title}, nil
}

func (s *inMemorySlack) GetUserInfoContext(ctx context.Context, userID string) (*slack.User, error) {
	return &slack.User{ID: userID, Name: "cloud"}, nil
}

func (s *inMemorySlack) GetConversationsContext(ctx context.Context, params *slack.GetConversationsParameters) ([]slack.Channel, string, error) {
	return nil, "", nil
}

func (s *inMemorySlack) GetUsersInConversationContext(ctx context.Context, params *slack.GetUsersInConversationParameters) ([]string, string, error) {
	return nil, "", nil
}

func (s *inMemorySlack) AuthTestContext(ctx context.Context) (*slack.AuthTestResponse, error) {
	return &slack.AuthTestResponse{UserID: botUserID, User: "hob", BotID: botID, Team: "gadling"}, nil
}

type requestAcker struct {
	sync.Mutex
	acked []string
}

func (a *requestAcker) Ack(req socketmode.Request, payload ...interface{}) {
	a.Lock()
	defer a.Unlock()

	a.acked = append(a.acked, req.EnvelopeID)
}

func newTestPlugin() (p *Plugin) {
	p = new(Plugin)
	p.Name = "test"
	p.Commands = []CommandDefinition{
		{
			Name: "make",
			Help: HelpEntry{Description: "Have the test bot make something for you"},
			Handler: func(ctx context.Context, c *BangCommand) (*Answer, error) {
				return &Answer{Text: fmt.Sprintf("Make it yourself, <@%s>", c.User)}, nil
			},
		},
		{
			Name: "secret",
			Help: HelpEntry{Description: "Whispers a secret"},
			Handler: func(ctx context.Context, c *BangCommand) (*Answer, error) {
				return &Answer{Text: "psst", Options: []AnswerOption{AnswerEphemeral(c.User)}}, nil
			},
		},
	}
	p.PassiveListeners = []ListenerDefinition{{
		Help: HelpEntry{Description: "Chirps about blue jays"},
		Listener: func(ctx context.Context, m *Message) (*Answer, error) {
			if strings.Contains(m.Text, "blue jays") {
				return &Answer{Text: "I heard you say something about blue jays?"}, nil
			}

			return nil, nil
		},
	}}
	p.MentionListeners = []Listener{func(ctx context.Context, m *Message) (*Answer, error) {
		return &Answer{Text: "You called?"}, nil
	}}
	p.SlashCommands = []SlashCommandDefinition{{
		Name: "/be",
		Handler: func(ctx context.Context, c *SlashCommand) (*Answer, error) {
			return &Answer{Text: "being " + c.Text}, nil
		},
	}}

	return p
}

func messageEvent(ev *slackevents.MessageEvent) socketmode.Event {
	return socketmode.Event{
		Type: socketmode.EventTypeEventsAPI,
		Data: slackevents.EventsAPIEvent{
			Type:       slackevents.CallbackEvent,
			InnerEvent: slackevents.EventsAPIInnerEvent{Type: "message", Data: ev},
		},
		Request: &socketmode.Request{EnvelopeID: "env-" + ev.TimeStamp},
	}
}

func mentionEvent(ev *slackevents.AppMentionEvent) socketmode.Event {
	return socketmode.Event{
		Type: socketmode.EventTypeEventsAPI,
		Data: slackevents.EventsAPIEvent{
			Type:       slackevents.CallbackEvent,
			InnerEvent: slackevents.EventsAPIInnerEvent{Type: "app_mention", Data: ev},
		},
		Request: &socketmode.Request{EnvelopeID: "mention-" + ev.TimeStamp},
	}
}

func runHobWithEvents(t *testing.T, events []socketmode.Event, options ...Option) (s *inMemorySlack, a *requestAcker) {
	v := config.NewViperWithDefaults()
	v.Set(config.MessageProcessingPartitionCount, 1)

	options = append([]Option{OptionLog(log.New(io.Discard, "", 0))}, options...)
	h, err := New("hob", v, options...)
	require.NoError(t, err)
	require.NoError(t, h.RegisterPlugin(newTestPlugin()))

	ch := make(chan socketmode.Event, len(events))
	for _, e := range events {
		ch <- e
	}
	close(ch)

	s = new(inMemorySlack)
	a = new(requestAcker)
	err = h.run(context.Background(), s, ch, a, func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})
	require.NoError(t, err)

	return s, a
}

func TestCommandAnsweredOnItsChannel(t *testing.T) {
	s, a := runHobWithEvents(t, []socketmode.Event{
		messageEvent(&slackevents.MessageEvent{Channel: "C1", User: "U1", Text: "!make me a sandwich", TimeStamp: "1.000"}),
	})

	require.Len(t, s.sentMsgs, 1)
	assert.Equal(t, sentMessage{channelID: "C1", text: "Make it yourself, <@U1>"}, s.sentMsgs[0])
	assert.Equal(t, []string{"env-1.000"}, a.acked)
}

func TestCommandAndListenerBothAnswer(t *testing.T) {
	s, _ := runHobWithEvents(t, []socketmode.Event{
		messageEvent(&slackevents.MessageEvent{Channel: "C1", User: "U1", Text: "!make blue jays", TimeStamp: "1.000"}),
	})

	require.Len(t, s.sentMsgs, 2)
	assert.Equal(t, "Make it yourself, <@U1>", s.sentMsgs[0].text)
	assert.Equal(t, "I heard you say something about blue jays?", s.sentMsgs[1].text)
}

func TestOwnMessagesIgnored(t *testing.T) {
	s, _ := runHobWithEvents(t, []socketmode.Event{
		messageEvent(&slackevents.MessageEvent{Channel: "C1", User: botUserID, Text: "!make blue jays", TimeStamp: "1.000"}),
		messageEvent(&slackevents.MessageEvent{Channel: "C1", BotID: botID, Text: "!make blue jays", TimeStamp: "2.000"}),
	})

	assert.Empty(t, s.sentMsgs)
}

func TestThreadedMessageAnsweredInThread(t *testing.T) {
	s, _ := runHobWithEvents(t, []socketmode.Event{
		messageEvent(&slackevents.MessageEvent{Channel: "C1", User: "U1", Text: "!make tea", TimeStamp: "5.000", ThreadTimeStamp: "1.000"}),
	})

	require.Len(t, s.sentMsgs, 1)
	assert.Equal(t, "1.000", s.sentMsgs[0].threadTimestamp)
}

func TestEphemeralAnswer(t *testing.T) {
	s, _ := runHobWithEvents(t, []socketmode.Event{
		messageEvent(&slackevents.MessageEvent{Channel: "C1", User: "U1", Text: "!secret", TimeStamp: "1.000"}),
	})

	require.Len(t, s.sentMsgs, 1)
	assert.Equal(t, sentMessage{channelID: "C1", text: "psst", ephemeralUserID: "U1"}, s.sentMsgs[0])
}

func TestDeletedMessageDeletesResponses(t *testing.T) {
	s, _ := runHobWithEvents(t, []socketmode.Event{
		messageEvent(&slackevents.MessageEvent{Channel: "C1", User: "U1", Text: "!make blue jays", TimeStamp: "1.000"}),
		messageEvent(&slackevents.MessageEvent{Channel: "C1", User: "U1", Text: "!make coffee", TimeStamp: "2.000"}),
		messageEvent(&slackevents.MessageEvent{Channel: "C1", SubType: messageDeletedSubType, TimeStamp: "3.000", PreviousMessage: &slackevents.MessageEvent{TimeStamp: "1.000", Text: "!make blue jays"}}),
	})

	require.Len(t, s.sentMsgs, 3)
	assert.ElementsMatch(t, []messageID{{channelID: "C1", timestamp: "10.000"}, {channelID: "C1", timestamp: "20.000"}}, s.deletedMsgs)
}

func TestDeletedUnknownMessageIsIgnored(t *testing.T) {
	s, _ := runHobWithEvents(t, []socketmode.Event{
		messageEvent(&slackevents.MessageEvent{Channel: "C1", SubType: messageDeletedSubType, TimeStamp: "3.000", PreviousMessage: &slackevents.MessageEvent{TimeStamp: "1.000"}}),
	})

	assert.Empty(t, s.deletedMsgs)
}

func TestMentionAnswered(t *testing.T) {
	s, a := runHobWithEvents(t, []socketmode.Event{
		mentionEvent(&slackevents.AppMentionEvent{Channel: "C1", User: "U1", Text: "<@UHOB> hey", TimeStamp: "1.000"}),
	})

	require.Len(t, s.sentMsgs, 1)
	assert.Equal(t, "You called?", s.sentMsgs[0].text)
	assert.Equal(t, []string{"mention-1.000"}, a.acked)
}

func TestSlashCommandAckedAndAnswered(t *testing.T) {
	s, a := runHobWithEvents(t, []socketmode.Event{
		{
			Type:    socketmode.EventTypeSlashCommand,
			Data:    slack.SlashCommand{ChannelID: "C2", UserID: "U1", Command: "/be", Text: "polonius"},
			Request: &socketmode.Request{EnvelopeID: "slash-1"},
		},
		{
			Type:    socketmode.EventTypeSlashCommand,
			Data:    slack.SlashCommand{ChannelID: "C2", UserID: "U1", Command: "/unknown"},
			Request: &socketmode.Request{EnvelopeID: "slash-2"},
		},
	})

	require.Len(t, s.sentMsgs, 1)
	assert.Equal(t, sentMessage{channelID: "C2", text: "being polonius"}, s.sentMsgs[0])
	assert.Equal(t, []string{"slash-1", "slash-2"}, a.acked)
}

func TestHelpIsBuiltIn(t *testing.T) {
	s, _ := runHobWithEvents(t, []socketmode.Event{
		messageEvent(&slackevents.MessageEvent{Channel: "C1", User: "U1", Text: "!help", TimeStamp: "1.000"}),
	})

	require.Len(t, s.sentMsgs, 1)
	assert.Equal(t, "I can help with:\n\t• `help`\n\t• `test`\nAsk me `!help SECTION` for the details.", s.sentMsgs[0].text)
}

func TestHelpMentionAnswered(t *testing.T) {
	s, _ := runHobWithEvents(t, []socketmode.Event{
		mentionEvent(&slackevents.AppMentionEvent{Channel: "C1", User: "U1", Text: "<@UHOB> help", TimeStamp: "1.000"}),
	})

	require.Len(t, s.sentMsgs, 2)
	assert.Equal(t, "I can help with:\n\t• `help`\n\t• `test`\nAsk me `!help SECTION` for the details.", s.sentMsgs[0].text)
	assert.Equal(t, "You called?", s.sentMsgs[1].text)
}

func TestLogfileOverrideUsed(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "hob")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	runHobWithEvents(t, []socketmode.Event{}, OptionLogfile(tmpfile))

	logs, err := os.ReadFile(tmpfile.Name())
	require.NoError(t, err)
	assert.Contains(t, string(logs), "Authenticated as [hob] with user id [UHOB] on team [gadling]")
}

func TestNewRejectsDuplicateHelpCommand(t *testing.T) {
	h, err := New("hob", config.NewViperWithDefaults(), OptionLog(log.New(io.Discard, "", 0)))
	require.NoError(t, err)

	err = h.RegisterPlugin(&Plugin{Name: "imposter", Commands: []CommandDefinition{{Name: "help"}}})
	assert.EqualError(t, err, "failed to register plugin [imposter]: cannot redefine command 'help'")
}

func TestNewRejectsInvalidPartitionCount(t *testing.T) {
	v := config.NewViperWithDefaults()
	v.Set(config.MessageProcessingPartitionCount, 3)

	_, err := New("hob", v, OptionLog(log.New(io.Discard, "", 0)))
	assert.Error(t, err)
}

type closerFunc func() error

func (c closerFunc) Close() error {
	return c()
}

func TestCloseClosesEveryCloser(t *testing.T) {
	h, err := New("hob", config.NewViperWithDefaults(), OptionLog(log.New(io.Discard, "", 0)))
	require.NoError(t, err)

	closed := 0
	h.AddCloser(closerFunc(func() error { closed++; return errors.New("already closed") }))
	h.AddCloser(closerFunc(func() error { closed++; return nil }))

	assert.EqualError(t, h.Close(), "already closed")
	assert.Equal(t, 2, closed)
}
