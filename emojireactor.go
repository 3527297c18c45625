package hob

import (
	"context"

	"github.com/slack-go/slack"
)

// Emoji names used to acknowledge messages
const (
	EmojiOK   = "white_check_mark"
	EmojiFail = "x"
)

// EmojiReactor is implemented by any value that has the AddReaction method.
// The main purpose is a slight decoupling of the slack.Client in order for plugins to
// be able to write cleaner tests more easily
type EmojiReactor interface {
	// AddReaction adds an emoji reaction to a ItemRef using the emoji associated
	// with the given name (i.e. name should be thumbsup rather than :thumbsup:)
	AddReaction(ctx context.Context, name string, item slack.ItemRef) error
}

// slackReactor is what slack.Client implements to add reactions
type slackReactor interface {
	AddReactionContext(ctx context.Context, name string, item slack.ItemRef) error
}

type emojiReactor struct {
	reactor slackReactor
}

// NewEmojiReactor returns an EmojiReactor adding reactions with the slack client
func NewEmojiReactor(reactor slackReactor) (er EmojiReactor) {
	return &emojiReactor{reactor: reactor}
}

// AddReaction adds the emoji reaction to the item
func (er *emojiReactor) AddReaction(ctx context.Context, name string, item slack.ItemRef) error {
	return er.reactor.AddReactionContext(ctx, name, item)
}

// React adds the OK or FAIL emoji reaction to a bang command's message depending on ok
func React(ctx context.Context, er EmojiReactor, c *BangCommand, ok bool) error {
	name := EmojiFail
	if ok {
		name = EmojiOK
	}

	return er.AddReaction(ctx, name, slack.NewRefToMessage(c.Channel, c.Timestamp))
}
