// Package speech holds the HTTP clients for the audio collaborators:
// transcription, emotion classification and speech synthesis. All three are
// blocking network calls; callers must never hold the state lock around them.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// ErrUnclearAudio means the recording produced no usable speech.
var ErrUnclearAudio = errors.New("could not understand the audio")

// Transcriber converts recorded audio to text via a whisper-style
// transcription endpoint.
type Transcriber struct {
	apiURL     string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewTranscriber(apiURL, apiKey, model string) *Transcriber {
	return &Transcriber{
		apiURL: apiURL,
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// Transcribe sends the audio and returns the recognized text.
// Blank transcriptions are reported as ErrUnclearAudio.
func (t *Transcriber) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	body, contentType, err := audioForm(audio, filename, map[string]string{"model": t.model})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.apiURL, body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+t.apiKey)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcription API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	text := strings.TrimSpace(result.Text)
	if text == "" {
		return "", ErrUnclearAudio
	}
	return text, nil
}

// audioForm builds a multipart body with the audio under "file" plus extra
// plain fields.
func audioForm(audio []byte, filename string, fields map[string]string) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return nil, "", fmt.Errorf("write audio: %w", err)
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", k, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return body, w.FormDataContentType(), nil
}
