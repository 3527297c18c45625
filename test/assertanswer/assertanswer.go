// Package assertanswer provides testing functions to validate a plugin's answer
package assertanswer

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gadling/hob"
)

// ResolvedAnswerOption holds a pair of Key/Value representing the physical AnswerOption
type ResolvedAnswerOption struct {
	Key   string
	Value string
}

// HasText asserts that the answer's text is the expected text
func HasText(t *testing.T, answer *hob.Answer, text string) bool {
	if assert.NotNil(t, answer) {
		return assert.Equalf(t, text, answer.Text, "Answer text expected to be [%s] but was [%s]", text, answer.Text)
	}
	return false
}

// HasTextContaining asserts that the answer's text contains the expected subString
func HasTextContaining(t *testing.T, answer *hob.Answer, subString string) bool {
	if assert.NotNil(t, answer) {
		return assert.Containsf(t, answer.Text, subString, "Answer expected to have text containing [%s] but its text [%s] didn't", subString, answer.Text)
	}
	return false
}

// HasTextMatching asserts that the answer's text matches the regular expression pattern. Answers with
// random content (i.e. dice rolls) are validated this way
func HasTextMatching(t *testing.T, answer *hob.Answer, pattern string) bool {
	if assert.NotNil(t, answer) {
		return assert.Regexpf(t, regexp.MustCompile(pattern), answer.Text, "Answer text [%s] expected to match [%s]", answer.Text, pattern)
	}
	return false
}

// HasOptions asserts that the answer's options contains the expected configuration key/values
func HasOptions(t *testing.T, answer *hob.Answer, options ...ResolvedAnswerOption) bool {
	if assert.NotNil(t, answer) {
		ropts := resolve(hob.ApplyAnswerOpts(answer.Options...))
		return assert.ElementsMatchf(t, options, ropts, "Answer options expected %s but were %s", options, ropts)
	}
	return false
}

// IsEphemeralTo asserts that the answer is sent as an ephemeral message to userID
func IsEphemeralTo(t *testing.T, answer *hob.Answer, userID string) bool {
	if assert.NotNil(t, answer) {
		opts := hob.ApplyAnswerOpts(answer.Options...)
		return assert.Equalf(t, userID, opts[hob.EphemeralAnswerToOpt], "Answer expected to be ephemeral to [%s]", userID)
	}
	return false
}

// resolve converts a map[string]string of answer options to an array
// of ResolvedAnswerOptions for easier matching
func resolve(configs map[string]string) (ropts []ResolvedAnswerOption) {
	ropts = make([]ResolvedAnswerOption, 0)

	for key, value := range configs {
		ropts = append(ropts, ResolvedAnswerOption{Key: key, Value: value})
	}

	return ropts
}
