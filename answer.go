package hob

import (
	"strconv"

	"github.com/slack-go/slack"
)

const (
	// ThreadedReplyOpt is the name of the option indicating a threaded-reply answer
	ThreadedReplyOpt = "threadedReply"
	// BroadcastOpt is the name of the option indicating a broadcast answer
	BroadcastOpt = "broadcast"
	// ThreadTimestamp is the name of the option indicating the explicit timestamp of the thread to reply to
	ThreadTimestamp = "threadTimestamp"
	// EphemeralAnswerToOpt marks an answer to be sent as an ephemeral message to the provided userID
	EphemeralAnswerToOpt = "ephemeralMsgToUserID"
)

// Answer holds data of a handler's answer: namely, its text and options
// to use when delivering it
type Answer struct {
	Text string

	// Options to apply when sending a message
	Options []AnswerOption

	// BlockKit content blocks to apply when sending the message
	ContentBlocks []slack.Block
}

// OutgoingAnswer is an Answer produced by a dispatch along with where it goes
type OutgoingAnswer struct {
	*Answer

	// ID identifies the handler that produced the answer. The format is
	// pluginName.c[command], pluginName.l[index], pluginName.m[index] or pluginName.s[command]
	ID string

	// Channel is the channel the answer is delivered to
	Channel string
}

// AnswerOption defines a function applied to Answers
type AnswerOption func(sendOpts map[string]string)

// AnswerInThread sets threaded replying
func AnswerInThread() AnswerOption {
	return func(sendOpts map[string]string) {
		sendOpts[ThreadedReplyOpt] = "true"
	}
}

// AnswerInExistingThread sets threaded replying with the existing thread timestamp
func AnswerInExistingThread(threadTimestamp string) AnswerOption {
	return func(sendOpts map[string]string) {
		sendOpts[ThreadedReplyOpt] = "true"
		sendOpts[ThreadTimestamp] = threadTimestamp
	}
}

// AnswerInThreadWithBroadcast sets threaded replying with broadcast enabled
func AnswerInThreadWithBroadcast() AnswerOption {
	return func(sendOpts map[string]string) {
		sendOpts[ThreadedReplyOpt] = "true"
		sendOpts[BroadcastOpt] = "true"
	}
}

// AnswerInThreadWithoutBroadcast sets threaded replying with broadcast disabled
func AnswerInThreadWithoutBroadcast() AnswerOption {
	return func(sendOpts map[string]string) {
		sendOpts[ThreadedReplyOpt] = "true"
		sendOpts[BroadcastOpt] = "false"
	}
}

// AnswerWithoutThreading sets an answer to threading (and implicitly, broadcast) disabled
func AnswerWithoutThreading() AnswerOption {
	return func(sendOpts map[string]string) {
		sendOpts[ThreadedReplyOpt] = "false"
	}
}

// AnswerEphemeral sends the answer as an ephemeral message to the provided userID
func AnswerEphemeral(userID string) AnswerOption {
	return func(sendOpts map[string]string) {
		sendOpts[EphemeralAnswerToOpt] = userID
	}
}

// ApplyAnswerOpts applies answering options to build the send configuration
func ApplyAnswerOpts(opts ...AnswerOption) (sendOptions map[string]string) {
	sendOptions = make(map[string]string)
	for _, opt := range opts {
		opt(sendOptions)
	}

	return sendOptions
}

// sendConfig is the resolved delivery configuration of an answer
type sendConfig struct {
	threaded        bool
	broadcast       bool
	threadTimestamp string
	ephemeralUserID string
}

// resolveSendConfig resolves how an answer to a message is delivered. Answer options have
// precedence over the bot defaults and a message that is already in a thread is always
// answered in that thread
func resolveSendConfig(m *Message, a *Answer, defaultThreaded bool, defaultBroadcast bool) (sc sendConfig) {
	opts := ApplyAnswerOpts(a.Options...)

	sc.threaded = defaultThreaded
	if v, ok := opts[ThreadedReplyOpt]; ok {
		sc.threaded, _ = strconv.ParseBool(v)
	}

	sc.broadcast = defaultBroadcast
	if v, ok := opts[BroadcastOpt]; ok {
		sc.broadcast, _ = strconv.ParseBool(v)
	}

	if ts, ok := opts[ThreadTimestamp]; ok {
		sc.threadTimestamp = ts
	} else if ts, inThread := threadOf(m); inThread {
		sc.threaded = true
		sc.threadTimestamp = ts
	} else if sc.threaded {
		sc.threadTimestamp = m.Timestamp
	}

	if !sc.threaded {
		sc.threadTimestamp = ""
		sc.broadcast = false
	}

	sc.ephemeralUserID = opts[EphemeralAnswerToOpt]

	return sc
}

// msgOptions returns the slack message options to deliver an answer with the sendConfig
func (sc sendConfig) msgOptions(a *Answer) (options []slack.MsgOption) {
	options = []slack.MsgOption{slack.MsgOptionText(a.Text, false)}

	if len(a.ContentBlocks) > 0 {
		options = append(options, slack.MsgOptionBlocks(a.ContentBlocks...))
	}

	if sc.threadTimestamp != "" {
		options = append(options, slack.MsgOptionTS(sc.threadTimestamp))

		if sc.broadcast {
			options = append(options, slack.MsgOptionBroadcast())
		}
	}

	return options
}
