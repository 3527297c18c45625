package hob

import (
	"context"

	"github.com/slack-go/slack"
)

// MessagePoster is implemented by any value that has the PostMessage method. Plugins use it to send
// messages outside the normal answer flow (i.e. many messages or messages sent from a scheduled action)
type MessagePoster interface {
	// PostMessage sends text to the channel and returns the timestamp of the new message
	PostMessage(ctx context.Context, channelID string, text string, options ...slack.MsgOption) (timestamp string, err error)
}

// slackPoster is what slack.Client implements to post messages
type slackPoster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (rChannelID string, rTimestamp string, err error)
}

type slackMessagePoster struct {
	poster slackPoster
}

// NewMessagePoster returns a MessagePoster sending messages with the slack client
func NewMessagePoster(poster slackPoster) (mp MessagePoster) {
	return &slackMessagePoster{poster: poster}
}

// PostMessage sends the text message to the channel
func (mp *slackMessagePoster) PostMessage(ctx context.Context, channelID string, text string, options ...slack.MsgOption) (timestamp string, err error) {
	options = append([]slack.MsgOption{slack.MsgOptionText(text, false)}, options...)
	_, timestamp, err = mp.poster.PostMessageContext(ctx, channelID, options...)

	return timestamp, err
}
