package memory

import "errors"

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

var (
	// ErrSystemMessage is returned when a system message is appended to a Store.
	ErrSystemMessage = errors.New("memory: system messages are not stored")
	// ErrInvalidRole is returned for roles outside user/assistant/system.
	ErrInvalidRole = errors.New("memory: invalid role")
)

// Message is one entry of the conversation log. Name is set on tool
// summaries and carries the tool that produced them.
type Message struct {
	ID      string `json:"id"`
	Role    Role   `json:"role"`
	Content string `json:"content"`
	Name    string `json:"name,omitempty"`
}

func (m Message) validate() error {
	switch m.Role {
	case RoleUser, RoleAssistant:
		return nil
	case RoleSystem:
		return ErrSystemMessage
	default:
		return ErrInvalidRole
	}
}
