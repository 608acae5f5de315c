// Package state owns the single mutable vibe record. One mutex serializes
// every read-modify-write; a whole conversation turn commits in one critical
// section so concurrent requests can never interleave a proposal with a
// confirmation meant for an older one.
package state

import (
	"errors"
	"sync"
	"time"

	"vibenest/internal/extract"
	"vibenest/internal/models"
	"vibenest/internal/preset"
)

// ErrUnknownVibe is returned when a caller names a vibe outside the preset table.
var ErrUnknownVibe = errors.New("Vibe not found")

// ErrUnknownMode is returned for modes other than quick/conversation.
var ErrUnknownMode = errors.New("unknown mode: must be quick or conversation")

// Transition describes what one applied decision did to the store,
// for logging and the event log. Changed is false for dropped or no-op
// decisions.
type Transition struct {
	Decision      extract.Decision
	VibeBefore    string
	VibeAfter     string
	PendingBefore string
	PendingAfter  string
	Changed       bool
}

// Store is the process-wide mood state. Create it once with New.
type Store struct {
	mu         sync.Mutex
	mode       string
	current    string
	pending    string
	transcript []models.TranscriptEntry
	updatedAt  time.Time

	now func() time.Time
}

func New() *Store {
	return &Store{
		mode:    models.ModeConversation,
		current: preset.DefaultVibe,
		now:     time.Now,
	}
}

// Snapshot reports the externally visible state. The transcript is capped to
// the most recent limit entries (limit <= 0 means uncapped).
func (s *Store) Snapshot(limit int) models.VibeState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(limit)
}

func (s *Store) snapshotLocked(limit int) models.VibeState {
	details, _ := preset.Lookup(s.current)

	tail := s.transcript
	if limit > 0 && len(tail) > limit {
		tail = tail[len(tail)-limit:]
	}
	transcript := make([]models.TranscriptEntry, len(tail))
	copy(transcript, tail)

	return models.VibeState{
		Mode:                 s.mode,
		VibeName:             s.current,
		VibeDetails:          details,
		PendingVibe:          s.pending,
		AwaitingConfirmation: s.pending != "",
		Transcript:           transcript,
		UpdatedAt:            s.updatedAt,
	}
}

// SetVibe forces the current vibe, bypassing the confirmation cycle and
// clearing any pending proposal.
func (s *Store) SetVibe(name string) (models.VibeState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !preset.Valid(name) {
		return models.VibeState{}, ErrUnknownVibe
	}
	s.current = name
	s.pending = ""
	s.updatedAt = s.now().UTC()
	return s.snapshotLocked(0), nil
}

// SetMode toggles between quick and conversation handling.
func (s *Store) SetMode(mode string) error {
	if mode != models.ModeQuick && mode != models.ModeConversation {
		return ErrUnknownMode
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
	s.updatedAt = s.now().UTC()
	return nil
}

// ApplyTurn commits one conversation turn atomically: user entry, state
// transition, assistant entry. Callers build userText/spoken/decision outside
// the lock; nothing here blocks.
func (s *Store) ApplyTurn(userText, spoken string, d extract.Decision) Transition {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transcript = append(s.transcript, models.TranscriptEntry{Role: models.RoleUser, Text: userText})
	tr := s.applyLocked(d)
	s.transcript = append(s.transcript, models.TranscriptEntry{Role: models.RoleAssistant, Text: spoken})
	s.updatedAt = s.now().UTC()
	return tr
}

// Apply runs a decision against the state machine without touching the
// transcript. Used by the quick path and by tests exercising transitions
// in isolation.
func (s *Store) Apply(d extract.Decision) Transition {
	s.mu.Lock()
	defer s.mu.Unlock()
	tr := s.applyLocked(d)
	if tr.Changed {
		s.updatedAt = s.now().UTC()
	}
	return tr
}

// applyLocked is the confirmation state machine. Caller holds s.mu.
func (s *Store) applyLocked(d extract.Decision) Transition {
	tr := Transition{
		Decision:      d,
		VibeBefore:    s.current,
		PendingBefore: s.pending,
	}

	switch d.Kind {
	case extract.KindPropose:
		// An unknown key is silently dropped; a valid one supersedes any
		// earlier proposal without resolving it.
		if preset.Valid(d.Vibe) && s.pending != d.Vibe {
			s.pending = d.Vibe
			tr.Changed = true
		}
	case extract.KindConfirm:
		if s.pending != "" {
			s.current = s.pending
			s.pending = ""
			tr.Changed = true
		}
	case extract.KindDecline:
		if s.pending != "" {
			s.pending = ""
			tr.Changed = true
		}
	case extract.KindNoOp:
		// nothing pending changes
	}

	tr.VibeAfter = s.current
	tr.PendingAfter = s.pending
	return tr
}

// Reset returns the store to process-start defaults with an empty transcript.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = models.ModeConversation
	s.current = preset.DefaultVibe
	s.pending = ""
	s.transcript = nil
	s.updatedAt = s.now().UTC()
}
