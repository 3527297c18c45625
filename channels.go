package hob

import (
	"context"

	"github.com/pkg/errors"
	"github.com/slack-go/slack"
)

const channelPageSize = 200

// ChannelDirectory is implemented by any value that can list channels and their members
type ChannelDirectory interface {
	// ListChannels returns every public channel of the workspace that isn't archived
	ListChannels(ctx context.Context) (channels []slack.Channel, err error)

	// ListChannelMembers returns the user ids of every member of a channel
	ListChannelMembers(ctx context.Context, channelID string) (members []string, err error)
}

// slackConversations is what slack.Client implements to page through conversations
type slackConversations interface {
	GetConversationsContext(ctx context.Context, params *slack.GetConversationsParameters) (channels []slack.Channel, nextCursor string, err error)
	GetUsersInConversationContext(ctx context.Context, params *slack.GetUsersInConversationParameters) (members []string, nextCursor string, err error)
}

type channelDirectory struct {
	conversations slackConversations
}

// NewChannelDirectory returns a ChannelDirectory paging through slack conversations
func NewChannelDirectory(conversations slackConversations) (cd ChannelDirectory) {
	return &channelDirectory{conversations: conversations}
}

// ListChannels returns all non-archived channels, following pagination cursors
func (cd *channelDirectory) ListChannels(ctx context.Context) (channels []slack.Channel, err error) {
	params := &slack.GetConversationsParameters{ExcludeArchived: true, Limit: channelPageSize}

	for {
		page, cursor, err := cd.conversations.GetConversationsContext(ctx, params)
		if err != nil {
			return nil, errors.Wrap(err, "error listing channels")
		}

		channels = append(channels, page...)

		if cursor == "" {
			return channels, nil
		}

		params.Cursor = cursor
	}
}

// ListChannelMembers returns all members of a channel, following pagination cursors
func (cd *channelDirectory) ListChannelMembers(ctx context.Context, channelID string) (members []string, err error) {
	params := &slack.GetUsersInConversationParameters{ChannelID: channelID, Limit: channelPageSize}

	for {
		page, cursor, err := cd.conversations.GetUsersInConversationContext(ctx, params)
		if err != nil {
			return nil, errors.Wrapf(err, "error listing members of channel [%s]", channelID)
		}

		members = append(members, page...)

		if cursor == "" {
			return members, nil
		}

		params.Cursor = cursor
	}
}

// FindChannelByName returns the id of the channel with the given name (without the leading '#')
func FindChannelByName(ctx context.Context, cd ChannelDirectory, name string) (channelID string, err error) {
	channels, err := cd.ListChannels(ctx)
	if err != nil {
		return "", err
	}

	for _, c := range channels {
		if c.Name == name {
			return c.ID, nil
		}
	}

	return "", errors.Errorf("channel [%s] not found", name)
}
