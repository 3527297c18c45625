package hob

import (
	"regexp"
	"strings"

	"github.com/gadling/hob/option"
)

// bangPattern is the bang command grammar: a '!' marker, a command token without whitespace and
// an optional remainder running to the end of the line
var bangPattern = regexp.MustCompile(`^\s*!(\S+)(\s+(.+))?\s*$`)

// BangFragment is the result of parsing a bang command out of a message's text
type BangFragment struct {
	Command string
	Rest    option.Option[string]
}

// ParseBang extracts a bang command from text. It returns None when the text isn't a bang
// command. Command names are case-sensitive and aren't validated against registered commands
func ParseBang(text string) option.Option[BangFragment] {
	m := bangPattern.FindStringSubmatch(text)
	if m == nil {
		return option.None[BangFragment]()
	}

	f := BangFragment{Command: m[1], Rest: option.None[string]()}
	if rest := strings.TrimSpace(m[3]); rest != "" {
		f.Rest = option.Some(rest)
	}

	return option.Some(f)
}

// NewBangCommand returns the BangCommand for a fragment parsed from the message m
func NewBangCommand(f BangFragment, m *Message) (c *BangCommand) {
	return &BangCommand{
		Command:         f.Command,
		Rest:            f.Rest,
		Text:            m.Text,
		Channel:         m.Channel,
		User:            m.User,
		Timestamp:       m.Timestamp,
		ThreadTimestamp: m.ThreadTimestamp,
	}
}
