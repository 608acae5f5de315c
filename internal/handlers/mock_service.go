package handlers

import (
	"context"
	"net/http"
	"time"

	"vibenest/internal/models"
	"vibenest/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastGenUsername    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockVibe struct {
	state models.VibeState

	setVibeErr  error
	lastSetVibe string
	setModeErr  error
	lastSetMode string
	resetCalled int
}

func (m *mockVibe) GetState(ctx context.Context) models.VibeState {
	return m.state
}
func (m *mockVibe) SetVibe(ctx context.Context, name string) (models.VibeState, error) {
	m.lastSetVibe = name
	if m.setVibeErr != nil {
		return models.VibeState{}, m.setVibeErr
	}
	return m.state, nil
}
func (m *mockVibe) SetMode(ctx context.Context, mode string) error {
	m.lastSetMode = mode
	return m.setModeErr
}
func (m *mockVibe) Reset(ctx context.Context) {
	m.resetCalled++
}

type mockConversation struct {
	res service.TurnResult
	err error

	lastText     string
	lastFilename string
	lastAudio    []byte
}

func (m *mockConversation) Converse(ctx context.Context, text string) (service.TurnResult, error) {
	m.lastText = text
	return m.res, m.err
}
func (m *mockConversation) VoiceTurn(ctx context.Context, audio []byte, filename string) (service.TurnResult, error) {
	m.lastAudio = audio
	m.lastFilename = filename
	return m.res, m.err
}

type mockQuick struct {
	res service.QuickResult
	err error

	lastFilename string
}

func (m *mockQuick) AnalyzeVoice(ctx context.Context, audio []byte, filename string) (service.QuickResult, error) {
	m.lastFilename = filename
	return m.res, m.err
}

type mockEventLog struct {
	resp []models.VibeEvent
	err  error

	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.VibeEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service, cfg Config) *gin.Engine {
	h := NewHandler(s, nil, cfg)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
