package state

import (
	"errors"
	"testing"
	"time"

	"vibenest/internal/extract"
	"vibenest/internal/models"
	"vibenest/internal/preset"
)

func newTestStore() *Store {
	s := New()
	s.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestNew_Defaults(t *testing.T) {
	s := newTestStore()
	st := s.Snapshot(0)
	if st.Mode != models.ModeConversation {
		t.Fatalf("expected conversation mode, got %q", st.Mode)
	}
	if st.VibeName != preset.DefaultVibe {
		t.Fatalf("expected default vibe, got %q", st.VibeName)
	}
	if st.AwaitingConfirmation || st.PendingVibe != "" {
		t.Fatalf("fresh store must not await confirmation: %+v", st)
	}
	if len(st.Transcript) != 0 {
		t.Fatalf("fresh store has transcript: %+v", st.Transcript)
	}
}

func TestApply_ProposeThenConfirm(t *testing.T) {
	s := newTestStore()

	tr := s.Apply(extract.Decision{Kind: extract.KindPropose, Vibe: "chill"})
	if !tr.Changed || tr.PendingAfter != "chill" || tr.VibeAfter != "focus" {
		t.Fatalf("propose transition: %+v", tr)
	}
	st := s.Snapshot(0)
	if !st.AwaitingConfirmation || st.PendingVibe != "chill" {
		t.Fatalf("expected pending chill, got %+v", st)
	}

	tr = s.Apply(extract.Decision{Kind: extract.KindConfirm})
	if !tr.Changed || tr.VibeAfter != "chill" || tr.PendingAfter != "" {
		t.Fatalf("confirm transition: %+v", tr)
	}
	st = s.Snapshot(0)
	if st.VibeName != "chill" || st.AwaitingConfirmation {
		t.Fatalf("expected committed chill, got %+v", st)
	}
	if st.VibeDetails.Soundtrack != "chill.mp3" {
		t.Fatalf("snapshot details not resolved: %+v", st.VibeDetails)
	}
}

func TestApply_ProposeThenDecline(t *testing.T) {
	s := newTestStore()

	s.Apply(extract.Decision{Kind: extract.KindPropose, Vibe: "chaos"})
	tr := s.Apply(extract.Decision{Kind: extract.KindDecline})
	if !tr.Changed || tr.PendingAfter != "" {
		t.Fatalf("decline transition: %+v", tr)
	}
	st := s.Snapshot(0)
	if st.VibeName != preset.DefaultVibe || st.AwaitingConfirmation {
		t.Fatalf("decline must keep current vibe: %+v", st)
	}
}

func TestApply_SecondProposalSupersedes(t *testing.T) {
	s := newTestStore()

	s.Apply(extract.Decision{Kind: extract.KindPropose, Vibe: "chill"})
	tr := s.Apply(extract.Decision{Kind: extract.KindPropose, Vibe: "midnight"})
	if !tr.Changed || tr.PendingBefore != "chill" || tr.PendingAfter != "midnight" {
		t.Fatalf("supersede transition: %+v", tr)
	}

	tr = s.Apply(extract.Decision{Kind: extract.KindConfirm})
	if tr.VibeAfter != "midnight" {
		t.Fatalf("confirm resolved stale proposal: %+v", tr)
	}
}

func TestApply_UnknownVibeDropped(t *testing.T) {
	s := newTestStore()

	tr := s.Apply(extract.Decision{Kind: extract.KindPropose, Vibe: "party"})
	if tr.Changed || tr.PendingAfter != "" {
		t.Fatalf("unknown vibe must be dropped: %+v", tr)
	}
}

func TestApply_ConfirmWithNothingPending(t *testing.T) {
	s := newTestStore()

	tr := s.Apply(extract.Decision{Kind: extract.KindConfirm})
	if tr.Changed || tr.VibeAfter != preset.DefaultVibe {
		t.Fatalf("stray confirm must be a no-op: %+v", tr)
	}
	tr = s.Apply(extract.Decision{Kind: extract.KindDecline})
	if tr.Changed {
		t.Fatalf("stray decline must be a no-op: %+v", tr)
	}
}

func TestApplyTurn_TranscriptAndTransition(t *testing.T) {
	s := newTestStore()

	tr := s.ApplyTurn("make it cozy", "Want me to switch to chill?", extract.Decision{Kind: extract.KindPropose, Vibe: "chill"})
	if !tr.Changed {
		t.Fatalf("expected applied proposal: %+v", tr)
	}

	st := s.Snapshot(0)
	if len(st.Transcript) != 2 {
		t.Fatalf("expected 2 transcript entries, got %d", len(st.Transcript))
	}
	if st.Transcript[0].Role != models.RoleUser || st.Transcript[0].Text != "make it cozy" {
		t.Fatalf("bad user entry: %+v", st.Transcript[0])
	}
	if st.Transcript[1].Role != models.RoleAssistant || st.Transcript[1].Text != "Want me to switch to chill?" {
		t.Fatalf("bad assistant entry: %+v", st.Transcript[1])
	}
}

func TestSnapshot_TranscriptWindow(t *testing.T) {
	s := newTestStore()

	for i := 0; i < 4; i++ {
		s.ApplyTurn("u", "a", extract.Decision{})
	}

	st := s.Snapshot(5)
	if len(st.Transcript) != 5 {
		t.Fatalf("expected capped transcript of 5, got %d", len(st.Transcript))
	}
	// The cap keeps the tail: last entry is the newest assistant line.
	if st.Transcript[4].Role != models.RoleAssistant {
		t.Fatalf("cap dropped the wrong end: %+v", st.Transcript)
	}

	if got := len(s.Snapshot(0).Transcript); got != 8 {
		t.Fatalf("uncapped snapshot should keep full history, got %d", got)
	}
}

func TestSetVibe(t *testing.T) {
	s := newTestStore()
	s.Apply(extract.Decision{Kind: extract.KindPropose, Vibe: "chill"})

	st, err := s.SetVibe("forest")
	if err != nil {
		t.Fatalf("SetVibe: %v", err)
	}
	if st.VibeName != "forest" || st.PendingVibe != "" || st.AwaitingConfirmation {
		t.Fatalf("force-set must clear pending: %+v", st)
	}

	if _, err := s.SetVibe("party"); !errors.Is(err, ErrUnknownVibe) {
		t.Fatalf("expected ErrUnknownVibe, got %v", err)
	}
	if got := s.Snapshot(0).VibeName; got != "forest" {
		t.Fatalf("failed set mutated state: %q", got)
	}
}

func TestSetMode(t *testing.T) {
	s := newTestStore()
	if err := s.SetMode(models.ModeQuick); err != nil {
		t.Fatalf("SetMode quick: %v", err)
	}
	if got := s.Snapshot(0).Mode; got != models.ModeQuick {
		t.Fatalf("mode not applied: %q", got)
	}
	if err := s.SetMode("turbo"); !errors.Is(err, ErrUnknownMode) {
		t.Fatalf("expected ErrUnknownMode, got %v", err)
	}
}

func TestReset(t *testing.T) {
	s := newTestStore()
	_ = s.SetMode(models.ModeQuick)
	_, _ = s.SetVibe("chaos")
	s.ApplyTurn("hello", "hi", extract.Decision{Kind: extract.KindPropose, Vibe: "chill"})

	s.Reset()

	st := s.Snapshot(0)
	if st.Mode != models.ModeConversation || st.VibeName != preset.DefaultVibe {
		t.Fatalf("reset defaults wrong: %+v", st)
	}
	if st.AwaitingConfirmation || len(st.Transcript) != 0 {
		t.Fatalf("reset left residue: %+v", st)
	}
}

func TestSnapshot_CopyIsolation(t *testing.T) {
	s := newTestStore()
	s.ApplyTurn("one", "two", extract.Decision{})

	st := s.Snapshot(0)
	st.Transcript[0].Text = "mutated"

	if got := s.Snapshot(0).Transcript[0].Text; got != "one" {
		t.Fatalf("snapshot aliases internal transcript: %q", got)
	}
}
