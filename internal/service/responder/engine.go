// Package responder generates the simulated assistant replies. The engine is
// an ordered list of predicate/producer pairs evaluated first-match-wins; it
// performs no I/O and does not mutate conversation memory itself (the
// coordinator records both sides of the exchange).
package responder

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/simplechat/backend/internal/model/chat"
)

const (
	greetingReply = "Hello there! How can I assist you today?"
	identityReply = "I'm an AI assistant designed to help with your questions and have conversations."
	helpReply     = "I'd be happy to help! Could you provide more details about what you need assistance with?"
	thanksReply   = "You're welcome! Is there anything else I can help you with?"
	statusReply   = "I'm functioning well, thank you for asking! How are you doing today?"
	weatherReply  = "I don't have access to real-time weather data, but I'd recommend checking a weather service for the most accurate information."
	questionReply = "That's an interesting question. Could you provide more details so I can give you a better answer?"

	repetitionReply = "I notice you're asking about this again. Let me try to provide a clearer answer. " +
		"Could you specify what part of my previous response wasn't helpful?"
)

// similarityThreshold is the word-overlap ratio above which two consecutive
// user turns count as a repeated question.
const similarityThreshold = 0.7

var greetingPrefixes = []string{"hi", "hello", "hey", "greetings"}

// fallbackReplies are open-ended prompts used when no rule matches.
var fallbackReplies = []string{
	"That's interesting! Could you tell me more about that?",
	"I understand. What would you like to know about this topic?",
	"Thanks for sharing. How can I help you with this?",
	"I see. Would you like me to provide more information on this subject?",
	"Interesting point! What are your thoughts on this matter?",
}

type rule struct {
	matches func(msg string, history []chat.Turn) bool
	reply   func(msg string, history []chat.Turn) string
}

// Engine is the rule cascade. Reply is safe for concurrent use.
type Engine struct {
	rules []rule
}

// NewEngine builds the cascade in evaluation order.
func NewEngine() *Engine {
	fixed := func(text string) func(string, []chat.Turn) string {
		return func(string, []chat.Turn) string { return text }
	}

	return &Engine{rules: []rule{
		{matches: isGreeting, reply: fixed(greetingReply)},
		{matches: containsAny("who are you", "what are you"), reply: fixed(identityReply)},
		{matches: containsAny("help", "assist"), reply: fixed(helpReply)},
		{matches: containsAny("thank you", "thanks"), reply: fixed(thanksReply)},
		{matches: containsAny("?"), reply: answerQuestion},
		{matches: isRepetition, reply: fixed(repetitionReply)},
	}}
}

// Reply evaluates the cascade against the lowercased utterance and returns
// the first matching producer's output, falling back to a uniformly random
// open-ended prompt.
func (e *Engine) Reply(utterance string, history []chat.Turn) string {
	msg := strings.ToLower(utterance)
	for _, r := range e.rules {
		if r.matches(msg, history) {
			return r.reply(msg, history)
		}
	}
	return fallbackReplies[rand.IntN(len(fallbackReplies))]
}

func isGreeting(msg string, _ []chat.Turn) bool {
	for _, prefix := range greetingPrefixes {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}

func containsAny(needles ...string) func(string, []chat.Turn) bool {
	return func(msg string, _ []chat.Turn) bool {
		for _, needle := range needles {
			if strings.Contains(msg, needle) {
				return true
			}
		}
		return false
	}
}

func answerQuestion(msg string, _ []chat.Turn) string {
	switch {
	case strings.Contains(msg, "how are you"):
		return statusReply
	case strings.Contains(msg, "weather"):
		return weatherReply
	case strings.Contains(msg, "time"):
		return fmt.Sprintf("I don't have access to your local time, but I can tell you it's currently %s in UTC.",
			time.Now().UTC().Format(time.RFC1123))
	default:
		return questionReply
	}
}

// isRepetition reports whether the user is asking near the same thing twice
// in a row. It needs at least three turns of history and compares the last
// two user turns within the trailing three-turn window.
func isRepetition(_ string, history []chat.Turn) bool {
	if len(history) < 3 {
		return false
	}

	var userTurns []string
	for _, turn := range history[len(history)-3:] {
		if turn.Role == chat.RoleUser {
			userTurns = append(userTurns, strings.ToLower(turn.Content))
		}
	}
	if len(userTurns) < 2 {
		return false
	}

	last := userTurns[len(userTurns)-1]
	previous := userTurns[len(userTurns)-2]
	return wordOverlap(last, previous) > similarityThreshold
}

// wordOverlap is the count of shared distinct whitespace-delimited tokens
// divided by the larger of the two token-set sizes.
func wordOverlap(a, b string) float64 {
	wordsA := tokenSet(a)
	wordsB := tokenSet(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	shared := 0
	for word := range wordsA {
		if _, ok := wordsB[word]; ok {
			shared++
		}
	}

	larger := len(wordsA)
	if len(wordsB) > larger {
		larger = len(wordsB)
	}
	return float64(shared) / float64(larger)
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, word := range strings.Fields(s) {
		set[word] = struct{}{}
	}
	return set
}
