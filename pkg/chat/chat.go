package chat

import (
	"fmt"
	"strings"
)

const (
	ChatRoleUser   = "user"      // Player
	ChatRoleAgent  = "assistant" // NPC
	ChatRoleSystem = "system"    // Narration and scene changes
)

// maxSpeakerLen bounds what FormatWithSpeaker accepts as an existing prefix.
const maxSpeakerLen = 20

// ChatMessage is one line of the conversation log.
type ChatMessage struct {
	Role    string `json:"role"`
	Speaker string `json:"speaker,omitempty"`
	Content string `json:"content"`
}

func (m ChatMessage) Validate() error {
	switch m.Role {
	case ChatRoleUser, ChatRoleAgent, ChatRoleSystem:
	default:
		return fmt.Errorf("unknown chat role %q", m.Role)
	}
	if strings.TrimSpace(m.Content) == "" {
		return fmt.Errorf("message cannot be empty")
	}
	return nil
}

// String renders the message as a history line, "speaker: content".
func (m ChatMessage) String() string {
	if m.Speaker == "" {
		return m.Content
	}
	return FormatWithSpeaker(m.Content, m.Speaker)
}

// FormatWithSpeaker prefixes message with "speaker: " unless it already
// starts with a short speaker label of its own.
func FormatWithSpeaker(message, speaker string) string {
	if idx := strings.IndexAny(message, ":："); idx > 0 {
		label := message[:idx]
		if len([]rune(label)) <= maxSpeakerLen && !strings.ContainsAny(label, " \t\n") {
			return message
		}
	}
	return speaker + ": " + message
}
