package service

import (
	"context"
	"time"

	"vibenest/internal/logger"
	"vibenest/internal/models"
	"vibenest/internal/repository"
	"vibenest/internal/speech"
	"vibenest/internal/state"
)

// ---- External collaborators (network-backed, called outside the state lock) ----

// ChatSession is the stateful language-model conversation: it remembers every
// prior turn until Reset.
type ChatSession interface {
	Send(ctx context.Context, text string) (string, error)
	Reset()
}

// Transcriber converts recorded audio to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

// MoodClassifier detects an emotion label in recorded speech.
type MoodClassifier interface {
	Classify(ctx context.Context, audio []byte, filename string) (speech.Classification, error)
}

// SpeechSynthesizer renders reply text as audio. Best-effort.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// ---- Service interfaces ----

// TurnResult is the outcome of one conversation turn.
type TurnResult struct {
	UserInput string
	Reply     string
	Audio     []byte // nil when synthesis was skipped or failed
	State     models.VibeState
}

// QuickResult is the outcome of the single-shot classification path.
type QuickResult struct {
	Label      string
	Confidence float64
	Vibe       string
	State      models.VibeState
}

// Conversation runs confirmation-flow turns (typed or voice input).
type Conversation interface {
	Converse(ctx context.Context, text string) (TurnResult, error)
	VoiceTurn(ctx context.Context, audio []byte, filename string) (TurnResult, error)
}

// QuickAnalysis is the non-conversational classify-and-set path.
type QuickAnalysis interface {
	AnalyzeVoice(ctx context.Context, audio []byte, filename string) (QuickResult, error)
}

// Vibe exposes direct state operations: snapshot, force-set, mode, reset.
type Vibe interface {
	GetState(ctx context.Context) models.VibeState
	SetVibe(ctx context.Context, name string) (models.VibeState, error)
	SetMode(ctx context.Context, mode string) error
	Reset(ctx context.Context)
}

// EventLog exposes the append-only transition log with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.VibeEvent, error)
}

// Listener runs the optional ambient loop feeding dropped recordings through
// the conversation engine. Stop via context cancellation for graceful shutdown.
type Listener interface {
	Run(ctx context.Context, interval time.Duration)
}

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Collaborators bundles the external services the engine depends on.
type Collaborators struct {
	Session     ChatSession
	Transcriber Transcriber
	Classifier  MoodClassifier
	Synthesizer SpeechSynthesizer
}

// Options carries the non-collaborator wiring knobs.
type Options struct {
	SigningKey string // JWT HMAC key
	InboxDir   string // ambient listener watch directory
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	Conversation
	QuickAnalysis
	Vibe
	EventLog
	Listener
	Authorization
}

// NewService wires the shared store, repositories and collaborators into the
// concrete services.
func NewService(repos *repository.Repository, store *state.Store, col Collaborators, opts Options, log *logger.Logger) *Service {
	conv := NewConversationService(store, col.Session, col.Transcriber, col.Synthesizer, repos.EventRepo, log)
	return &Service{
		Conversation:  conv,
		QuickAnalysis: NewQuickAnalysisService(store, col.Classifier, repos.EventRepo, log),
		Vibe:          NewVibeService(store, col.Session, repos.EventRepo, log),
		EventLog:      NewEventLogService(repos.EventRepo),
		Listener:      NewListenerService(conv, opts.InboxDir, log),
		Authorization: NewAuthService(repos.Auth, opts.SigningKey),
	}
}
