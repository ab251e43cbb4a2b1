package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"podbot-be/pkg/llm"
)

const DefaultBaseURL = "http://localhost:11434"

// ErrEmptyReply is returned when Ollama answers 200 with no assistant content.
var ErrEmptyReply = errors.New("ollama returned an empty reply")

type OllamaProvider struct {
	baseURL string
	model   string
	opts    llm.Options
	client  *http.Client
}

var _ llm.LLMProvider = (*OllamaProvider)(nil)

func NewOllamaProvider(baseURL, modelName string, defaults llm.Options) *OllamaProvider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &OllamaProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   modelName,
		opts:    defaults,
		// Local models can take a while on the first call after a load.
		client: &http.Client{Timeout: 120 * time.Second},
	}
}

func (o *OllamaProvider) BaseURL() string {
	return o.baseURL
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []llm.Message `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  *modelOptions `json:"options,omitempty"`
}

type modelOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type chatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Error string `json:"error,omitempty"`
}

func (o *OllamaProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	resolved := llm.ApplyOptions(o.opts, opts...)
	if resolved.Model == "" {
		resolved.Model = o.model
	}

	body, err := json.Marshal(chatRequest{
		Model:    resolved.Model,
		Messages: history,
		Options: &modelOptions{
			Temperature: resolved.Temperature,
			NumPredict:  resolved.MaxTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("encode ollama request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build ollama request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call ollama: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read ollama response: %w", err)
	}

	var out chatResponse
	decodeErr := json.Unmarshal(raw, &out)

	if resp.StatusCode != http.StatusOK {
		detail := strings.TrimSpace(string(raw))
		if decodeErr == nil && out.Error != "" {
			detail = out.Error
		}
		return "", fmt.Errorf("ollama status %d: %s", resp.StatusCode, detail)
	}
	if decodeErr != nil {
		return "", fmt.Errorf("decode ollama response: %w", decodeErr)
	}
	if out.Message.Content == "" {
		return "", ErrEmptyReply
	}
	return out.Message.Content, nil
}
