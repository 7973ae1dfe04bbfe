package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"uploader/internal/config"
	"uploader/internal/logger"
)

const completionsURL = "https://api.openai.com/v1/chat/completions"

// Assistant generates product titles and descriptions with the OpenAI chat
// completions API. It is entirely optional; without an API key every call
// reports unavailability and the pipeline carries on.
type Assistant struct {
	apiKey     string
	httpClient *http.Client
	logger     *logger.Logger
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

func New(cfg *config.Config, log *logger.Logger) *Assistant {
	return &Assistant{
		apiKey: cfg.OpenAIAPIKey,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		logger: log,
	}
}

func (a *Assistant) Available() bool {
	return a.apiKey != ""
}

// GenerateTitles returns up to count title suggestions for a product prompt.
func (a *Assistant) GenerateTitles(ctx context.Context, prompt string, count int) ([]string, error) {
	content, err := a.call(ctx,
		"You are a product title generator for e-commerce. Generate compelling product titles.",
		fmt.Sprintf("Generate %d product titles for: %s\nReturn one title per line, no numbering.", count, prompt),
		150,
	)
	if err != nil {
		return nil, err
	}

	var titles []string
	for _, line := range strings.Split(content, "\n") {
		// Strip "1. " style prefixes the model sometimes adds anyway.
		if idx := strings.Index(line, ". "); idx > 0 && idx < 4 {
			line = line[idx+2:]
		}
		if line = strings.TrimSpace(line); line != "" {
			titles = append(titles, line)
		}
	}
	if len(titles) > count {
		titles = titles[:count]
	}
	return titles, nil
}

// GenerateDescription writes an SEO-friendly description for a product.
func (a *Assistant) GenerateDescription(ctx context.Context, title string) (string, error) {
	content, err := a.call(ctx,
		"You are a product description writer for e-commerce. Write SEO-friendly product descriptions.",
		fmt.Sprintf("Write a detailed product description for: %s\nInclude features, benefits, and specifications in a professional tone.", title),
		300,
	)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

func (a *Assistant) call(ctx context.Context, system, user string, maxTokens int) (string, error) {
	if !a.Available() {
		return "", fmt.Errorf("OpenAI API key not configured")
	}

	request := chatRequest{
		Model:       "gpt-3.5-turbo",
		Temperature: 0.7,
		MaxTokens:   maxTokens,
		Messages: []message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, completionsURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("OpenAI API error: %s", string(body))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	return parsed.Choices[0].Message.Content, nil
}
