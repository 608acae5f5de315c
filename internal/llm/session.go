// Package llm holds the stateful conversation session with the language
// model. One session per process; it remembers every prior turn until Reset.
package llm

import (
	"context"
	"fmt"
	"sync"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const systemPrompt = `You are VibeNest, a friendly smart-home assistant.
1. Talk with the user and deduce their mood from what they say.
2. When you believe the room vibe should change, ASK the user to confirm
   before changing anything. Never change the vibe without asking.
3. The only valid vibes are: focus, chill, chaos, forest, midnight.
ALWAYS end your response with a single line in this exact shape:
JSON: {"vibe": "<vibe or empty>", "confirm_request": <true|false>, "confirmed": <true|false|omit>}
- Set confirm_request=true together with a vibe when you are asking the user
  whether to switch.
- Set confirmed=true only after the user has clearly agreed to your latest
  proposal, confirmed=false when they refuse. Omit it otherwise.
Keep the part before the JSON line short and conversational; it is read aloud.`

// Session is a resettable multi-turn chat with the model. Send serializes
// turns: the history must grow in request order, so concurrent callers queue
// on the session mutex for the duration of the call.
type Session struct {
	mu      sync.Mutex
	client  openai.Client
	model   string
	history []openai.ChatCompletionMessageParamUnion
}

func NewSession(apiKey, model string) *Session {
	return &Session{
		client:  openai.NewClient(option.WithAPIKey(apiKey)),
		model:   model,
		history: []openai.ChatCompletionMessageParamUnion{openai.SystemMessage(systemPrompt)},
	}
}

// Send forwards one user utterance and returns the raw reply. On failure the
// history is left exactly as it was, so the turn is safe to retry.
func (s *Session) Send(ctx context.Context, text string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(s.history)+1)
	msgs = append(msgs, s.history...)
	msgs = append(msgs, openai.UserMessage(text))

	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: msgs,
		Model:    openai.ChatModel(s.model),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("empty message content")
	}

	s.history = append(msgs, openai.AssistantMessage(content))
	return content, nil
}

// Reset drops all conversation memory back to the system prompt.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = []openai.ChatCompletionMessageParamUnion{openai.SystemMessage(systemPrompt)}
}
