// Package capture provides test doubles recording what plugins send to slack
package capture

import (
	"context"
	"fmt"
	"sync"

	"github.com/slack-go/slack"
)

// MessagePosterCaptor holds messages sent to it keyed
// by channel ID. It is safe for concurrent use
type MessagePosterCaptor struct {
	SentMessages map[string][]string

	// FailFor makes PostMessage fail when sending to one of its channel IDs
	FailFor map[string]bool

	timeCursor int
	mu         sync.Mutex
}

// NewMessagePoster returns a new initialized MessagePosterCaptor instance
func NewMessagePoster() (mp *MessagePosterCaptor) {
	mp = new(MessagePosterCaptor)
	mp.SentMessages = make(map[string][]string)
	mp.FailFor = make(map[string]bool)

	return mp
}

// PostMessage captures the details of a sent message (the message itself and the channel it's sent to)
func (mp *MessagePosterCaptor) PostMessage(ctx context.Context, channelID string, text string, options ...slack.MsgOption) (timestamp string, err error) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.FailFor[channelID] {
		return "", fmt.Errorf("failed to post to [%s]", channelID)
	}

	mp.SentMessages[channelID] = append(mp.SentMessages[channelID], text)
	mp.timeCursor = mp.timeCursor + 10

	return fmt.Sprintf("%d.000", mp.timeCursor), nil
}

// Sent returns a copy of the messages sent to channelID
func (mp *MessagePosterCaptor) Sent(channelID string) (messages []string) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	return append([]string(nil), mp.SentMessages[channelID]...)
}

// Count returns the number of messages sent across all channels
func (mp *MessagePosterCaptor) Count() (count int) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	for _, msgs := range mp.SentMessages {
		count = count + len(msgs)
	}

	return count
}
