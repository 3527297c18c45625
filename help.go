package hob

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/gadling/hob/option"
)

const (
	helpPluginName = "help"
)

// newHelpPlugin returns the built-in plugin answering !help [SECTION] with the help of registry r
func newHelpPlugin(r *Registry) (p *Plugin) {
	p = new(Plugin)
	p.Name = helpPluginName
	p.Commands = []CommandDefinition{{
		Name: "help",
		Help: HelpEntry{
			Section:     helpPluginName,
			Invocation:  option.Some("!help [SECTION]"),
			Description: "Lists the help sections or, with a SECTION, everything it offers",
			Examples:    []string{"`!help karma`"},
		},
		Handler: func(ctx context.Context, c *BangCommand) (*Answer, error) {
			section := option.Map(c.Rest, func(rest string) string {
				return strings.Fields(rest)[0]
			})

			return &Answer{Text: r.RenderHelp(section)}, nil
		},
	}}
	p.MentionListeners = []Listener{func(ctx context.Context, m *Message) (*Answer, error) {
		if !strings.Contains(m.Text, "help") {
			return nil, nil
		}

		return &Answer{Text: r.RenderHelp(option.None[string]())}, nil
	}}

	return p
}

// RenderHelp renders the list of help sections when section is None or the entries of the section
func (r *Registry) RenderHelp(section option.Option[string]) string {
	var b strings.Builder

	name, ok := section.Get()
	if !ok {
		fmt.Fprintf(&b, "I can help with:\n")
		for _, s := range r.sections() {
			fmt.Fprintf(&b, "\t• `%s`\n", s)
		}
		fmt.Fprintf(&b, "Ask me `!help SECTION` for the details.")

		return b.String()
	}

	entries := r.entriesOf(name)
	if len(entries) == 0 {
		return fmt.Sprintf("I don't know anything about `%s`. Ask me `!help` for what I know.", name)
	}

	for _, e := range entries {
		if inv, ok := e.Invocation.Get(); ok {
			fmt.Fprintf(&b, "• `%s` - %s\n", inv, e.Description)
		} else {
			fmt.Fprintf(&b, "• %s\n", e.Description)
		}

		for _, ex := range e.Examples {
			fmt.Fprintf(&b, "\t%s\n", ex)
		}
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// sections returns the sorted distinct section names
func (r *Registry) sections() (sections []string) {
	seen := make(map[string]bool)
	for _, e := range r.help {
		if !seen[e.Section] {
			seen[e.Section] = true
			sections = append(sections, e.Section)
		}
	}

	sort.Strings(sections)

	return sections
}

func (r *Registry) entriesOf(section string) (entries []HelpEntry) {
	for _, e := range r.help {
		if e.Section == section {
			entries = append(entries, e)
		}
	}

	return entries
}
