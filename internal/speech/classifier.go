package speech

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Classification is the emotion service verdict for one recording.
// Valid is false when the recording carries no discernible speech or emotion.
type Classification struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Valid      bool    `json:"valid"`
}

// Classifier talks to the speech-emotion model service.
type Classifier struct {
	apiURL     string
	httpClient *http.Client
}

func NewClassifier(apiURL string) *Classifier {
	return &Classifier{
		apiURL: apiURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// Classify sends the recording and returns the detected emotion label.
func (c *Classifier) Classify(ctx context.Context, audio []byte, filename string) (Classification, error) {
	body, contentType, err := audioForm(audio, filename, nil)
	if err != nil {
		return Classification{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, body)
	if err != nil {
		return Classification{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Classification{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Classification{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Classification{}, fmt.Errorf("emotion API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var result Classification
	if err := json.Unmarshal(respBody, &result); err != nil {
		return Classification{}, fmt.Errorf("unmarshal response: %w", err)
	}
	result.Label = strings.ToLower(strings.TrimSpace(result.Label))
	return result, nil
}
