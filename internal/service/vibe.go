package service

import (
	"context"

	"vibenest/internal/logger"
	"vibenest/internal/models"
	"vibenest/internal/repository"
	"vibenest/internal/state"
)

// VibeService covers the direct state operations around the conversation
// flow: snapshots, explicit sets, the mode toggle and the full reset.
type VibeService struct {
	store     *state.Store
	session   ChatSession
	eventRepo repository.EventRepo
	log       *logger.Logger
}

func NewVibeService(store *state.Store, session ChatSession, eventRepo repository.EventRepo, log *logger.Logger) *VibeService {
	return &VibeService{
		store:     store,
		session:   session,
		eventRepo: eventRepo,
		log:       log,
	}
}

// GetState returns the reporting snapshot (transcript capped).
func (s *VibeService) GetState(ctx context.Context) models.VibeState {
	return s.store.Snapshot(transcriptWindow)
}

// SetVibe forces the current vibe, clearing any pending proposal.
func (s *VibeService) SetVibe(ctx context.Context, name string) (models.VibeState, error) {
	snap, err := s.store.SetVibe(name)
	if err != nil {
		return models.VibeState{}, err
	}
	if s.log != nil {
		s.log.Infow("vibe_forced", "vibe", name)
	}
	s.append(ctx, newEvent(EventSetVibe, "Vibe forced to "+name, nil))
	return snap, nil
}

// SetMode toggles quick/conversation handling.
func (s *VibeService) SetMode(ctx context.Context, mode string) error {
	if err := s.store.SetMode(mode); err != nil {
		return err
	}
	if s.log != nil {
		s.log.Infow("mode_changed", "mode", mode)
	}
	s.append(ctx, newEvent(EventSetMode, "Mode changed to "+mode, nil))
	return nil
}

// Reset restores defaults, clears the transcript and starts a fresh model
// session with no memory of prior turns.
func (s *VibeService) Reset(ctx context.Context) {
	s.store.Reset()
	if s.session != nil {
		s.session.Reset()
	}
	if s.log != nil {
		s.log.Infow("system_reset")
	}
	s.append(ctx, newEvent(EventReset, "System reset to defaults", nil))
}

func (s *VibeService) append(ctx context.Context, e models.VibeEvent) {
	if s.eventRepo == nil {
		return
	}
	if err := s.eventRepo.Append(ctx, e); err != nil && s.log != nil {
		s.log.Errorw("event_append_failed", "type", e.Type, "err", err)
	}
}
