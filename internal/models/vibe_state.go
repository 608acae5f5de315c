package models

import "time"

// Conversation modes.
const (
	ModeQuick        = "quick"        // single-shot classification, no dialogue
	ModeConversation = "conversation" // multi-turn confirmation flow
)

// Transcript roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// TranscriptEntry is one line of the conversation.
type TranscriptEntry struct {
	Role string `json:"role"` // user | assistant
	Text string `json:"text"`
}

// VibeState is the externally reported snapshot of the room.
// The transcript here is already truncated to the reporting window;
// the store keeps the full history internally.
type VibeState struct {
	Mode                 string            `json:"mode"` // quick | conversation
	VibeName             string            `json:"vibe_name"`
	VibeDetails          Preset            `json:"vibe_details"`
	PendingVibe          string            `json:"pending_vibe,omitempty"`
	AwaitingConfirmation bool              `json:"awaiting_confirmation"`
	Transcript           []TranscriptEntry `json:"transcript"`
	UpdatedAt            time.Time         `json:"updated_at"`
}
