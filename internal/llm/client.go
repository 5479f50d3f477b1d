package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// chatMessage is one message in a chat-completion exchange.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// completion describes one request to the remote API.
type completion struct {
	system      string
	user        string
	temperature float64
	maxTokens   int
}

// client posts chat-completion requests.
type client struct {
	cfg  Config
	http *http.Client
}

func newClient(cfg Config, hc *http.Client) *client {
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	return &client{cfg: cfg, http: hc}
}

// complete sends c and returns the text of the first choice.
func (cl *client) complete(ctx context.Context, c completion) (string, error) {
	reqBody := chatRequest{
		Model: cl.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: c.system},
			{Role: "user", Content: c.user},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cl.cfg.BaseURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(cl.cfg.APIKey))

	resp, err := cl.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return "", ErrInvalidCredential
	case http.StatusTooManyRequests:
		return "", ErrRateLimited
	default:
		return "", &RemoteError{StatusCode: resp.StatusCode, Body: string(respBytes)}
	}

	var chat chatResponse
	if err := json.Unmarshal(respBytes, &chat); err != nil {
		return "", malformed("decoding completion envelope: %v", err)
	}
	if len(chat.Choices) == 0 {
		return "", malformed("completion has no choices")
	}
	return chat.Choices[0].Message.Content, nil
}
