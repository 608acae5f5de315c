package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"vibenest/internal/logger"
)

// ListenerService is the ambient-listening variant: a background loop that
// picks up recordings dropped into an inbox directory and feeds each one
// through the same conversation turn entry point as HTTP requests. It never
// touches the state directly, so the locking discipline is identical for
// both producers.
type ListenerService struct {
	conv     Conversation
	inboxDir string
	log      *logger.Logger
}

func NewListenerService(conv Conversation, inboxDir string, log *logger.Logger) *ListenerService {
	return &ListenerService{
		conv:     conv,
		inboxDir: inboxDir,
		log:      log,
	}
}

// Run sweeps the inbox at the given interval until ctx is canceled.
func (s *ListenerService) Run(ctx context.Context, interval time.Duration) {
	if s.inboxDir == "" {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.sweep(ctx)
		}
	}
}

// sweep consumes every recording currently in the inbox, oldest name first.
// Files are removed before processing so a failed turn is not replayed
// forever.
func (s *ListenerService) sweep(ctx context.Context) {
	entries, err := os.ReadDir(s.inboxDir)
	if err != nil {
		if s.log != nil {
			s.log.Debugw("listener_inbox_unreadable", "dir", s.inboxDir, "err", err)
		}
		return
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			return
		}
		if entry.IsDir() || !isAudioFile(entry.Name()) {
			continue
		}

		path := filepath.Join(s.inboxDir, entry.Name())
		audio, err := os.ReadFile(path)
		if err != nil {
			if s.log != nil {
				s.log.Infow("listener_read_failed", "file", path, "err", err)
			}
			continue
		}
		if err := os.Remove(path); err != nil {
			if s.log != nil {
				s.log.Infow("listener_remove_failed", "file", path, "err", err)
			}
			continue
		}

		res, err := s.conv.VoiceTurn(ctx, audio, entry.Name())
		if err != nil {
			if s.log != nil {
				s.log.Infow("listener_turn_failed", "file", entry.Name(), "err", err)
			}
			continue
		}
		if s.log != nil {
			s.log.Infow("listener_turn",
				"file", entry.Name(),
				"heard", res.UserInput,
				"vibe", res.State.VibeName,
				"awaiting_confirmation", res.State.AwaitingConfirmation,
			)
		}
	}
}

func isAudioFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".wav", ".mp3", ".ogg", ".m4a", ".webm", ".flac":
		return true
	}
	return false
}
