package hob

import (
	"github.com/gadling/hob/option"
)

// Message subtypes hob reacts to. Every other subtyped message is ignored
const (
	messageDeletedSubType = "message_deleted"
)

// Message is an inbound chat message (or mention) as seen by listeners
type Message struct {
	Channel         string
	User            string
	Text            string
	Timestamp       string
	ThreadTimestamp string
	SubType         string
	BotID           string
}

// BangCommand is a parsed bang command (i.e. "!dice 2d6") along with the fields of
// the message that carried it. It is created for a single dispatch and never modified
type BangCommand struct {
	// Command is the command name without the leading '!'
	Command string

	// Rest is the trimmed remainder following the command name, if any
	Rest option.Option[string]

	// Text is the raw text of the message
	Text string

	Channel         string
	User            string
	Timestamp       string
	ThreadTimestamp string
}

// SlashCommand is an inbound slash command (i.e. "/be polonius")
type SlashCommand struct {
	Command   string
	Text      string
	Channel   string
	User      string
	UserName  string
	TriggerID string
}

// messageID holds the elements that form a unique message identifier for slack. Slack also uses
// the workspace id but since a hob instance lives within a single workspace, that part is left out
type messageID struct {
	channelID string
	timestamp string
}

// idOf returns the messageID of a message
func idOf(m *Message) messageID {
	return messageID{channelID: m.Channel, timestamp: m.Timestamp}
}

// threadOf returns the thread timestamp of a message if it's in a thread
func threadOf(m *Message) (threadTimestamp string, inThread bool) {
	if m.ThreadTimestamp != "" && m.ThreadTimestamp != m.Timestamp {
		return m.ThreadTimestamp, true
	}

	return "", false
}
