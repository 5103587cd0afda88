package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	DefaultEndpoint   = "https://models.inference.ai.azure.com"
	DefaultAPIVersion = "2024-08-01-preview"
	DefaultModel      = "gpt-4o"
)

// ChatConfig configures a ChatClient. Token is resolved once at startup.
type ChatConfig struct {
	Endpoint    string
	APIVersion  string
	Model       string
	Token       string
	Temperature float64
	TopP        float64
}

// ChatClient calls an OpenAI-compatible chat completions endpoint (Azure AI
// model inference) with a fixed system prompt.
type ChatClient struct {
	url    string
	token  string
	model  string
	temp   float64
	topP   float64
	prompt *Prompt
	do     func(*http.Request) (*http.Response, error)
}

func NewChatClient(cfg ChatConfig, prompt *Prompt, hc *http.Client) (*ChatClient, error) {
	if cfg.Token == "" {
		return nil, errors.New("model api token is required")
	}
	if prompt == nil {
		return nil, errors.New("prompt is required")
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if hc == nil {
		hc = http.DefaultClient
	}

	u, err := url.Parse(strings.TrimRight(cfg.Endpoint, "/") + "/chat/completions")
	if err != nil {
		return nil, fmt.Errorf("model endpoint: %w", err)
	}
	q := u.Query()
	q.Set("api-version", cfg.APIVersion)
	u.RawQuery = q.Encode()

	return &ChatClient{
		url:    u.String(),
		token:  cfg.Token,
		model:  cfg.Model,
		temp:   cfg.Temperature,
		topP:   cfg.TopP,
		prompt: prompt,
		do:     hc.Do,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// PromptVersion identifies the system prompt in cache keys.
func (c *ChatClient) PromptVersion() string { return c.prompt.Name + "@" + c.prompt.Version }

func (c *ChatClient) Interpret(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: c.prompt.System},
			{Role: "user", Content: text},
		},
		Temperature: c.temp,
		TopP:        c.topP,
	})
	if err != nil {
		return "", fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new chat request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", &transportError{err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		slurp, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return "", &UpstreamError{Status: resp.StatusCode, Message: strings.TrimSpace(string(slurp))}
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode completion: %v", ErrUpstream, err)
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == nil || *out.Choices[0].Message.Content == "" {
		return "", ErrEmptyCompletion
	}
	return *out.Choices[0].Message.Content, nil
}
