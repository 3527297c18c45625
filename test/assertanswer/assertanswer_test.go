package assertanswer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gadling/hob"
	"github.com/gadling/hob/test/assertanswer"
)

func TestHasTextNoMatch(t *testing.T) {
	mockT := new(testing.T)
	assert.Equal(t, false, assertanswer.HasText(mockT, &hob.Answer{Text: "this is my final answer"}, "this is my first answer"))
}

func TestHasTextNilAnswer(t *testing.T) {
	mockT := new(testing.T)
	assert.Equal(t, false, assertanswer.HasText(mockT, nil, "this is my first answer"))
}

func TestHasTextMatch(t *testing.T) {
	mockT := new(testing.T)
	assert.Equal(t, true, assertanswer.HasText(mockT, &hob.Answer{Text: "this is my final answer"}, "this is my final answer"))
}

func TestHasTextContainingMatch(t *testing.T) {
	mockT := new(testing.T)
	assert.Equal(t, true, assertanswer.HasTextContaining(mockT, &hob.Answer{Text: "this is my final answer"}, "final"))
}

func TestHasTextContainingNoMatch(t *testing.T) {
	mockT := new(testing.T)
	assert.Equal(t, false, assertanswer.HasTextContaining(mockT, &hob.Answer{Text: "this is my final answer"}, "the gopher always has more answers"))
}

func TestHasTextContainingNilAnswer(t *testing.T) {
	mockT := new(testing.T)
	assert.Equal(t, false, assertanswer.HasTextContaining(mockT, nil, "the gopher always has more answers"))
}

func TestHasOptionsMismatch(t *testing.T) {
	mockT := new(testing.T)
	assert.Equal(t, false, assertanswer.HasOptions(mockT, &hob.Answer{Text: "this is my final answer", Options: []hob.AnswerOption{hob.AnswerInThread()}}, assertanswer.ResolvedAnswerOption{Key: hob.BroadcastOpt, Value: "true"}))
}

func TestHasOptionsMissingOne(t *testing.T) {
	mockT := new(testing.T)
	assert.Equal(t, false, assertanswer.HasOptions(mockT, &hob.Answer{Text: "this is my final answer", Options: []hob.AnswerOption{hob.AnswerInThreadWithBroadcast()}}, assertanswer.ResolvedAnswerOption{Key: hob.ThreadedReplyOpt, Value: "true"}))
}

func TestHasOptionsMatch(t *testing.T) {
	mockT := new(testing.T)
	assert.Equal(t, true, assertanswer.HasOptions(mockT, &hob.Answer{Text: "this is my final answer", Options: []hob.AnswerOption{hob.AnswerInThreadWithBroadcast()}}, assertanswer.ResolvedAnswerOption{Key: hob.ThreadedReplyOpt, Value: "true"}, assertanswer.ResolvedAnswerOption{Key: hob.BroadcastOpt, Value: "true"}))
}

func TestHasOptionsNilAnswer(t *testing.T) {
	mockT := new(testing.T)
	assert.Equal(t, false, assertanswer.HasOptions(mockT, nil))
}

func TestHasTextMatchingMatch(t *testing.T) {
	mockT := new(testing.T)
	assert.Equal(t, true, assertanswer.HasTextMatching(mockT, &hob.Answer{Text: "<@U1> rolled 7"}, `^<@U1> rolled \d+$`))
}

func TestHasTextMatchingNoMatch(t *testing.T) {
	mockT := new(testing.T)
	assert.Equal(t, false, assertanswer.HasTextMatching(mockT, &hob.Answer{Text: "<@U1> rolled seven"}, `^<@U1> rolled \d+$`))
}

func TestHasTextMatchingNilAnswer(t *testing.T) {
	mockT := new(testing.T)
	assert.Equal(t, false, assertanswer.HasTextMatching(mockT, nil, `.*`))
}

func TestIsEphemeralTo(t *testing.T) {
	mockT := new(testing.T)
	assert.Equal(t, true, assertanswer.IsEphemeralTo(mockT, &hob.Answer{Text: "psst", Options: []hob.AnswerOption{hob.AnswerEphemeral("U1")}}, "U1"))
}

func TestIsEphemeralToSomeoneElse(t *testing.T) {
	mockT := new(testing.T)
	assert.Equal(t, false, assertanswer.IsEphemeralTo(mockT, &hob.Answer{Text: "psst", Options: []hob.AnswerOption{hob.AnswerEphemeral("U2")}}, "U1"))
}

func TestIsEphemeralToWhenPublic(t *testing.T) {
	mockT := new(testing.T)
	assert.Equal(t, false, assertanswer.IsEphemeralTo(mockT, &hob.Answer{Text: "hey all"}, "U1"))
}
