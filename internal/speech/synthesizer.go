package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Synthesizer renders reply text into audio through an ElevenLabs-style
// text-to-speech endpoint. Synthesis is best-effort everywhere it is used;
// a failed call costs the caller the audio, never the turn.
type Synthesizer struct {
	apiURL     string // base URL; the voice ID is appended per request
	apiKey     string
	voiceID    string
	modelID    string
	httpClient *http.Client
}

func NewSynthesizer(apiURL, apiKey, voiceID, modelID string) *Synthesizer {
	return &Synthesizer{
		apiURL:  apiURL,
		apiKey:  apiKey,
		voiceID: voiceID,
		modelID: modelID,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// Synthesize returns the rendered audio bytes for text.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if text == "" {
		return nil, nil
	}

	payload, err := json.Marshal(map[string]any{
		"text":     text,
		"model_id": s.modelID,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL+"/"+s.voiceID, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("TTS API error (status %d): %s", resp.StatusCode, truncateBody(audio))
	}
	return audio, nil
}

func truncateBody(b []byte) string {
	const max = 200
	if len(b) > max {
		b = b[:max]
	}
	return string(b)
}
