package responder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/simplechat/backend/internal/model/chat"
	"github.com/simplechat/backend/internal/service/responder"
)

func TestGreetingRule(t *testing.T) {
	engine := responder.NewEngine()

	for _, utterance := range []string{"hello", "Hi there", "HEY everyone", "greetings, friend"} {
		reply := engine.Reply(utterance, nil)
		assert.Contains(t, reply, "Hello there", "utterance %q", utterance)
	}
}

func TestIdentityRuleWinsOverQuestionRule(t *testing.T) {
	engine := responder.NewEngine()

	reply := engine.Reply("who are you?", nil)
	assert.Contains(t, reply, "I'm an AI assistant")

	reply = engine.Reply("What are you exactly", nil)
	assert.Contains(t, reply, "I'm an AI assistant")
}

func TestHelpAndGratitudeRules(t *testing.T) {
	engine := responder.NewEngine()

	assert.Contains(t, engine.Reply("can you assist me with something", nil), "happy to help")
	assert.Contains(t, engine.Reply("thank you so much", nil), "You're welcome")
	assert.Contains(t, engine.Reply("ok thanks", nil), "You're welcome")
}

func TestQuestionDispatch(t *testing.T) {
	engine := responder.NewEngine()

	assert.Contains(t, engine.Reply("how are you?", nil), "functioning well")
	assert.Contains(t, engine.Reply("what's the weather like?", nil), "weather")
	assert.Contains(t, engine.Reply("do you know the time?", nil), "UTC")
	assert.Contains(t, engine.Reply("why is the sky blue?", nil), "interesting question")
}

func TestRepetitionRule(t *testing.T) {
	engine := responder.NewEngine()

	history := []chat.Turn{
		{Role: chat.RoleUser, Content: "tell me about goroutines"},
		{Role: chat.RoleAssistant, Content: "That's interesting! Could you tell me more about that?"},
		{Role: chat.RoleUser, Content: "tell me about goroutines"},
	}
	reply := engine.Reply("tell me about goroutines", history)
	assert.Contains(t, reply, "I notice you're asking about this again")
}

func TestRepetitionRequiresThreeTurns(t *testing.T) {
	engine := responder.NewEngine()

	history := []chat.Turn{
		{Role: chat.RoleUser, Content: "tell me about goroutines"},
		{Role: chat.RoleUser, Content: "tell me about goroutines"},
	}
	reply := engine.Reply("tell me about goroutines", history)
	assert.NotContains(t, reply, "I notice you're asking about this again")
}

func TestRepetitionIgnoresDissimilarTurns(t *testing.T) {
	engine := responder.NewEngine()

	history := []chat.Turn{
		{Role: chat.RoleUser, Content: "tell me about goroutines"},
		{Role: chat.RoleAssistant, Content: "I see."},
		{Role: chat.RoleUser, Content: "my cat likes cardboard boxes"},
	}
	reply := engine.Reply("my cat likes cardboard boxes", history)
	assert.NotContains(t, reply, "I notice you're asking about this again")
}

func TestFallbackPicksFromFixedSet(t *testing.T) {
	engine := responder.NewEngine()

	fallbacks := map[string]bool{
		"That's interesting! Could you tell me more about that?":               true,
		"I understand. What would you like to know about this topic?":          true,
		"Thanks for sharing. How can I help you with this?":                    true,
		"I see. Would you like me to provide more information on this subject?": true,
		"Interesting point! What are your thoughts on this matter?":            true,
	}

	for i := 0; i < 20; i++ {
		reply := engine.Reply("the sky is blue today", nil)
		assert.True(t, fallbacks[reply], "unexpected fallback reply: %q", reply)
	}
}
