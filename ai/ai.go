// Package ai wraps the external natural-language-to-SQL generation service.
// The adapter makes exactly one call per chat turn: latency and cost stay
// predictable, and a flaky upstream surfaces as a GenerationError instead of
// a silent retry storm.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultModel      = "llama3-70b-8192"
	completionBudget  = 600
	promptTemperature = 0.1
)

// GenerationError covers every failure of the external service: network,
// timeout, authentication, or an unparsable response.
type GenerationError struct {
	Reason string
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sql generation failed (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("sql generation failed (%s)", e.Reason)
}

func (e *GenerationError) Unwrap() error { return e.Err }

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

type Service struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     zerolog.Logger
}

func New(cfg Config, logger zerolog.Logger) (*Service, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("generation service API key is required")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("generation service base URL is required")
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Service{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With().Str("component", "ai").Logger(),
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// GenerateSQL asks the model for a single read-only statement answering the
// question against the given schema context, and extracts the statement from
// whatever surrounding prose or code fences the model added.
func (s *Service) GenerateSQL(ctx context.Context, question string, schemaContext string) (string, error) {
	reqBody := chatCompletionRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "user", Content: BuildSQLPrompt(question, schemaContext)},
		},
		Temperature: promptTemperature,
		MaxTokens:   completionBudget,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", &GenerationError{Reason: "marshal request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", &GenerationError{Reason: "build request", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", &GenerationError{Reason: "request", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &GenerationError{Reason: "read response", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr chatCompletionResponse
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != nil {
			return "", &GenerationError{
				Reason: fmt.Sprintf("status %d", resp.StatusCode),
				Err:    fmt.Errorf("%s: %s", apiErr.Error.Type, apiErr.Error.Message),
			}
		}
		return "", &GenerationError{
			Reason: fmt.Sprintf("status %d", resp.StatusCode),
			Err:    fmt.Errorf("%s", strings.TrimSpace(string(body))),
		}
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &GenerationError{Reason: "decode response", Err: err}
	}
	if len(parsed.Choices) == 0 {
		return "", &GenerationError{Reason: "empty response"}
	}

	sql := ExtractSQL(parsed.Choices[0].Message.Content)
	if sql == "" {
		s.logger.Warn().Str("content", parsed.Choices[0].Message.Content).Msg("no SQL found in model output")
		return "", &GenerationError{Reason: "no SQL statement in response"}
	}

	s.logger.Debug().Str("sql", sql).Msg("generated SQL")
	return sql, nil
}

// Ping checks that the generation service is reachable and the credentials
// are accepted. Used by the health endpoint.
func (s *Service) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/v1/models", nil)
	if err != nil {
		return fmt.Errorf("build ping request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("generation service unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("generation service returned status %d", resp.StatusCode)
	}
	return nil
}
