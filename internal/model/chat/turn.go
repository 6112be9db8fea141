package chat

// Turn roles as seen by the reply engine.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one exchange unit kept in an identity's conversation history.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
