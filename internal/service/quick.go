package service

import (
	"context"
	"errors"
	"fmt"

	"vibenest/internal/logger"
	"vibenest/internal/preset"
	"vibenest/internal/repository"
	"vibenest/internal/state"
)

// ErrUnsuitableRecording means the classifier found no usable emotional
// signal; the caller should prompt the user to record again.
var ErrUnsuitableRecording = errors.New("recording not suitable")

// QuickAnalysisService is the single-shot path: classify the recording and
// set the vibe directly, no confirmation dialogue.
type QuickAnalysisService struct {
	store      *state.Store
	classifier MoodClassifier
	eventRepo  repository.EventRepo
	log        *logger.Logger
}

func NewQuickAnalysisService(store *state.Store, classifier MoodClassifier, eventRepo repository.EventRepo, log *logger.Logger) *QuickAnalysisService {
	return &QuickAnalysisService{
		store:      store,
		classifier: classifier,
		eventRepo:  eventRepo,
		log:        log,
	}
}

// AnalyzeVoice classifies the recording and applies the mapped vibe.
// An invalid recording leaves the current vibe untouched. Labels outside the
// preset table fall back to the default vibe rather than erroring.
func (s *QuickAnalysisService) AnalyzeVoice(ctx context.Context, audio []byte, filename string) (QuickResult, error) {
	cls, err := s.classifier.Classify(ctx, audio, filename)
	if err != nil {
		return QuickResult{}, fmt.Errorf("mood classification: %w", err)
	}
	if !cls.Valid {
		return QuickResult{}, ErrUnsuitableRecording
	}

	vibe := preset.Resolve(cls.Label)
	snap, err := s.store.SetVibe(vibe)
	if err != nil {
		// Resolve only returns preset keys; this is a programming error.
		return QuickResult{}, err
	}

	if s.log != nil {
		s.log.Infow("quick_classification",
			"label", cls.Label,
			"confidence", cls.Confidence,
			"vibe", vibe,
		)
	}
	if s.eventRepo != nil {
		err := s.eventRepo.Append(ctx, newEvent(EventQuickSet, "Vibe set from voice analysis: "+vibe, map[string]any{
			"label":      cls.Label,
			"confidence": cls.Confidence,
		}))
		if err != nil && s.log != nil {
			s.log.Errorw("event_append_failed", "type", EventQuickSet, "err", err)
		}
	}

	return QuickResult{
		Label:      cls.Label,
		Confidence: cls.Confidence,
		Vibe:       vibe,
		State:      snap,
	}, nil
}
