package store

import (
	"fmt"
	"strings"
	"time"
)

// ChatMessage is one turn of a conversation.
type ChatMessage struct {
	Role    string    `json:"role"` // "user" or "assistant"
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// Session is the in-memory conversation state for one chat session.
type Session struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id"`
	Username  string        `json:"username"`
	Role      string        `json:"role"`
	Messages  []ChatMessage `json:"messages"`
	LastQuery string        `json:"last_query"`
	CreatedAt time.Time     `json:"created_at"`
}

// Append records one turn.
func (s *Session) Append(role, content string) {
	s.Messages = append(s.Messages, ChatMessage{
		Role:    role,
		Content: content,
		At:      time.Now(),
	})
}

// RecentContext formats the last `limit` turns for prompt injection. Long
// messages are clipped so history never dominates the prompt.
func (s *Session) RecentContext(limit int) string {
	if len(s.Messages) == 0 {
		return ""
	}

	messages := s.Messages
	if len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}

	parts := make([]string, 0, len(messages))
	for _, msg := range messages {
		speaker := "User"
		if msg.Role == "assistant" {
			speaker = "Assistant"
		}
		content := msg.Content
		if len(content) > 200 {
			content = content[:200] + "..."
		}
		parts = append(parts, fmt.Sprintf("%s: %s", speaker, content))
	}
	return strings.Join(parts, "\n")
}
