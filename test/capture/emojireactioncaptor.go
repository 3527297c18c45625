package capture

import (
	"context"
	"fmt"
	"sync"

	"github.com/slack-go/slack"
)

// EmojiReactionCaptor captures emoji reactions recorded by
// invocations of AddReaction. It only supports recording
// emojis for one given channel and timestamp
type EmojiReactionCaptor struct {
	Channel   string
	Timestamp string
	Emojis    []string
	mu        sync.Mutex
}

// AddReaction records the emoji reaction
func (e *EmojiReactionCaptor) AddReaction(ctx context.Context, name string, item slack.ItemRef) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.Channel == "" {
		e.Channel = item.Channel
		e.Timestamp = item.Timestamp
		e.Emojis = append(e.Emojis, name)
	} else if e.Channel == item.Channel && e.Timestamp == item.Timestamp {
		e.Emojis = append(e.Emojis, name)
	} else {
		return fmt.Errorf("EmojiReactionCaptor doesn't support capturing emojis for more than one message")
	}

	return nil
}

// NewEmojiReactionCaptor returns a new EmojiReactionCaptor with an initialized emojis array
func NewEmojiReactionCaptor() (emojiReactionCaptor *EmojiReactionCaptor) {
	emojiReactionCaptor = new(EmojiReactionCaptor)
	emojiReactionCaptor.Emojis = make([]string, 0)

	return emojiReactionCaptor
}
