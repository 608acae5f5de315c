package service

import (
	"context"
	"fmt"

	"vibenest/internal/extract"
	"vibenest/internal/logger"
	"vibenest/internal/repository"
	"vibenest/internal/state"
)

// transcriptWindow caps the transcript reported to clients; the store keeps
// the full history (the model session carries its own memory anyway).
const transcriptWindow = 5

// Event types appended to the vibe event log.
const (
	EventPropose  = "PROPOSE"
	EventConfirm  = "CONFIRM"
	EventDecline  = "DECLINE"
	EventSetVibe  = "SET_VIBE"
	EventSetMode  = "SET_MODE"
	EventQuickSet = "QUICK_SET"
	EventReset    = "RESET"
)

// ConversationService orchestrates one turn of the confirmation flow:
// model call and decision extraction happen without the lock, then the whole
// turn (user entry, transition, assistant entry) commits atomically.
type ConversationService struct {
	store     *state.Store
	session   ChatSession
	stt       Transcriber
	tts       SpeechSynthesizer
	eventRepo repository.EventRepo
	extractor *extract.Extractor
	log       *logger.Logger
}

func NewConversationService(store *state.Store, session ChatSession, stt Transcriber, tts SpeechSynthesizer, eventRepo repository.EventRepo, log *logger.Logger) *ConversationService {
	return &ConversationService{
		store:     store,
		session:   session,
		stt:       stt,
		tts:       tts,
		eventRepo: eventRepo,
		extractor: extract.New(log),
		log:       log,
	}
}

// Converse runs one turn on typed or already-transcribed input.
// A model failure aborts before any state mutation, so the turn is safe to
// retry. A synthesis failure only drops the audio.
func (s *ConversationService) Converse(ctx context.Context, text string) (TurnResult, error) {
	reply, err := s.session.Send(ctx, text)
	if err != nil {
		return TurnResult{}, fmt.Errorf("conversation model: %w", err)
	}

	spoken, decision := s.extractor.Parse(reply)

	tr := s.store.ApplyTurn(text, spoken, decision)
	s.logTransition(tr)
	s.appendTransitionEvent(ctx, tr)

	var audio []byte
	if s.tts != nil {
		audio, err = s.tts.Synthesize(ctx, spoken)
		if err != nil {
			if s.log != nil {
				s.log.Infow("speech_synthesis_failed", "err", err)
			}
			audio = nil
		}
	}

	return TurnResult{
		UserInput: text,
		Reply:     spoken,
		Audio:     audio,
		State:     s.store.Snapshot(transcriptWindow),
	}, nil
}

// VoiceTurn transcribes the recording, then runs a normal turn on the text.
func (s *ConversationService) VoiceTurn(ctx context.Context, audio []byte, filename string) (TurnResult, error) {
	text, err := s.stt.Transcribe(ctx, audio, filename)
	if err != nil {
		return TurnResult{}, err
	}
	return s.Converse(ctx, text)
}

// logTransition records every applied decision with before/after mood.
func (s *ConversationService) logTransition(tr state.Transition) {
	if s.log == nil {
		return
	}
	s.log.Infow("vibe_transition",
		"decision", tr.Decision.Kind.String(),
		"vibe", tr.Decision.Vibe,
		"from", tr.VibeBefore,
		"to", tr.VibeAfter,
		"pending_before", tr.PendingBefore,
		"pending_after", tr.PendingAfter,
		"applied", tr.Changed,
	)
}

// appendTransitionEvent writes applied transitions to the event log.
// Best-effort: a log write failure never fails the turn.
func (s *ConversationService) appendTransitionEvent(ctx context.Context, tr state.Transition) {
	if !tr.Changed || s.eventRepo == nil {
		return
	}

	var typ, desc string
	switch tr.Decision.Kind {
	case extract.KindPropose:
		typ = EventPropose
		desc = "Proposed switching vibe to " + tr.PendingAfter
	case extract.KindConfirm:
		typ = EventConfirm
		desc = "Confirmed vibe change to " + tr.VibeAfter
	case extract.KindDecline:
		typ = EventDecline
		desc = "Declined vibe change to " + tr.PendingBefore
	default:
		return
	}

	err := s.eventRepo.Append(ctx, newEvent(typ, desc, map[string]any{
		"from":    tr.VibeBefore,
		"to":      tr.VibeAfter,
		"pending": tr.PendingAfter,
	}))
	if err != nil && s.log != nil {
		s.log.Errorw("event_append_failed", "type", typ, "err", err)
	}
}
