package hob

import (
	"context"

	"github.com/slack-go/slack"
)

// messagePoster is implemented by any value that has the PostMessageContext method.
//
// slack.Client implements this interface
type messagePoster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (rChannelID string, rTimestamp string, err error)
}

// ephemeralPoster is implemented by any value that has the PostEphemeralContext method.
//
// slack.Client implements this interface
type ephemeralPoster interface {
	PostEphemeralContext(ctx context.Context, channelID string, userID string, options ...slack.MsgOption) (rTimestamp string, err error)
}

// messageDeleter is implemented by any value that has the DeleteMessageContext method.
//
// slack.Client implements this interface
type messageDeleter interface {
	DeleteMessageContext(ctx context.Context, channelID string, timestamp string) (rChannelID string, rTimestamp string, err error)
}

// chatDriver encompasses the messagePoster, ephemeralPoster and messageDeleter interfaces
type chatDriver interface {
	messagePoster
	ephemeralPoster
	messageDeleter
}
