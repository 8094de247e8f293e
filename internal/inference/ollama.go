package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Ollama defaults
const (
	DefaultOllamaModel = "llama3.2"
	DefaultOllamaHost  = "http://localhost:11434"
)

// OllamaModel runs question answering and summarization against a
// local Ollama server via the generate endpoint.
type OllamaModel struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewOllamaModel creates an Ollama-backed model.
func NewOllamaModel(baseURL, model string) *OllamaModel {
	if baseURL == "" {
		baseURL = DefaultOllamaHost
	}
	if model == "" {
		model = DefaultOllamaModel
	}
	return &OllamaModel{
		baseURL:    baseURL,
		model:      model,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

func (m *OllamaModel) AnswerQuestion(ctx context.Context, question, passage string, maxAnswerLen int) (string, error) {
	if strings.TrimSpace(question) == "" || strings.TrimSpace(passage) == "" {
		return "", fmt.Errorf("%w: question and passage required", ErrEmptyInput)
	}
	if maxAnswerLen <= 0 {
		maxAnswerLen = DefaultMaxAnswerLen
	}

	prompt := fmt.Sprintf(
		"Answer the question using only the context below. Quote the relevant text directly and do not add information.\n\nContext:\n%s\n\nQuestion: %s\n\nAnswer:",
		passage, question)

	answer, err := m.generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrModel, err)
	}
	return truncate(answer, maxAnswerLen), nil
}

func (m *OllamaModel) SummarizeText(ctx context.Context, text string, maxLen, minLen int) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: no text to summarize", ErrEmptyInput)
	}

	prompt := fmt.Sprintf(
		"Summarize the following text in %d to %d words. Use only information from the text.\n\nText:\n%s\n\nSummary:",
		minLen, maxLen, text)

	summary, err := m.generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrModel, err)
	}
	if summary == "" {
		return "", fmt.Errorf("%w: empty summary returned", ErrModel)
	}
	return summary, nil
}

func (m *OllamaModel) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(map[string]interface{}{
		"model":  m.model,
		"prompt": prompt,
		"stream": false,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", m.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("api call: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("api error %d: %s", resp.StatusCode, string(b))
	}

	var apiResp struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return strings.TrimSpace(apiResp.Response), nil
}

func (m *OllamaModel) Close() error {
	m.httpClient.CloseIdleConnections()
	return nil
}
