// Package assertaction provides testing functions to validate the behavior of a single command or
// listener definition, without a registry
package assertaction

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gadling/hob"
)

// AnswerValidator is a function to do further validation of an action's answer. The return value is meant to be true if validation
// is successful and false otherwise (following the testify convention)
type AnswerValidator func(t *testing.T, a *hob.Answer) bool

// CommandAnswers asserts that the command handler returns an answer without error and passes it
// on to be further validated by AnswerValidator
func CommandAnswers(t *testing.T, command hob.CommandDefinition, c *hob.BangCommand, validateAnswer AnswerValidator) bool {
	a, err := command.Handler(context.Background(), c)

	if !assert.NoErrorf(t, err, "Command [%s] expected to answer [%s] but failed", command.Name, c.Text) {
		return false
	}

	if !assert.NotNilf(t, a, "Command [%s] expected to answer [%s] but returned no answer", command.Name, c.Text) {
		return false
	}

	return validateAnswer(t, a)
}

// CommandFails asserts that the command handler returns an error
func CommandFails(t *testing.T, command hob.CommandDefinition, c *hob.BangCommand) bool {
	_, err := command.Handler(context.Background(), c)

	return assert.Errorf(t, err, "Command [%s] expected to fail on [%s]", command.Name, c.Text)
}

// ListenerAnswers asserts that the listener answers the message without error and passes the answer
// on to be further validated by AnswerValidator
func ListenerAnswers(t *testing.T, listener hob.ListenerDefinition, m *hob.Message, validateAnswer AnswerValidator) bool {
	a, err := listener.Listener(context.Background(), m)

	if !assert.NoErrorf(t, err, "Listener expected to answer [%s] but failed", m.Text) {
		return false
	}

	if !assert.NotNilf(t, a, "Listener expected to answer [%s] but returned no answer", m.Text) {
		return false
	}

	return validateAnswer(t, a)
}

// ListenerIgnores asserts that the listener doesn't answer the message and doesn't fail
func ListenerIgnores(t *testing.T, listener hob.ListenerDefinition, m *hob.Message) bool {
	a, err := listener.Listener(context.Background(), m)

	return assert.NoErrorf(t, err, "Listener expected to ignore [%s] but failed", m.Text) &&
		assert.Nilf(t, a, "Listener expected to ignore [%s] but answered [%v]", m.Text, a)
}
