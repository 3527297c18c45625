package capture

import (
	"context"
	"fmt"
	"sync"

	"github.com/slack-go/slack"
)

// Workspace is an in-memory slack workspace: its channels, their members and the users' info.
// It implements both hob.ChannelDirectory and hob.UserInfoFinder and is safe for concurrent use
type Workspace struct {
	channels []slack.Channel
	members  map[string][]string
	users    map[string]slack.User
	mu       sync.Mutex
}

// NewWorkspace returns a new empty Workspace
func NewWorkspace() (w *Workspace) {
	w = new(Workspace)
	w.members = make(map[string][]string)
	w.users = make(map[string]slack.User)

	return w
}

// WithChannel adds a channel named name with the given members
func (w *Workspace) WithChannel(id string, name string, members ...string) *Workspace {
	w.mu.Lock()
	defer w.mu.Unlock()

	c := slack.Channel{}
	c.ID = id
	c.Name = name
	w.channels = append(w.channels, c)
	w.members[id] = members

	return w
}

// WithUser adds a user. Bots have isBot set
func (w *Workspace) WithUser(id string, name string, isBot bool) *Workspace {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.users[id] = slack.User{ID: id, Name: name, RealName: name, IsBot: isBot}

	return w
}

// ListChannels returns the channels added to the workspace
func (w *Workspace) ListChannels(ctx context.Context) (channels []slack.Channel, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	return append([]slack.Channel(nil), w.channels...), nil
}

// ListChannelMembers returns the members of a channel or an error if the channel doesn't exist
func (w *Workspace) ListChannelMembers(ctx context.Context, channelID string) (members []string, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	members, exists := w.members[channelID]
	if !exists {
		return nil, fmt.Errorf("channel_not_found [%s]", channelID)
	}

	return append([]string(nil), members...), nil
}

// GetUserInfo returns the user or an error if it doesn't exist
func (w *Workspace) GetUserInfo(ctx context.Context, userID string) (user *slack.User, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	u, exists := w.users[userID]
	if !exists {
		return nil, fmt.Errorf("user_not_found [%s]", userID)
	}

	return &u, nil
}
