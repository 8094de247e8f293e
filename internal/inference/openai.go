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

// OpenAI defaults
const (
	DefaultOpenAIModel = "gpt-4o-mini"
	openAIChatURL      = "https://api.openai.com/v1/chat/completions"
)

// OpenAIModel runs question answering and summarization against the
// OpenAI chat completions API.
type OpenAIModel struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewOpenAIModel creates an OpenAI-backed model.
func NewOpenAIModel(apiKey, model string) (*OpenAIModel, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY not set", ErrNoProviderEnabled)
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAIModel{
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}, nil
}

func (m *OpenAIModel) AnswerQuestion(ctx context.Context, question, passage string, maxAnswerLen int) (string, error) {
	if strings.TrimSpace(question) == "" || strings.TrimSpace(passage) == "" {
		return "", fmt.Errorf("%w: question and passage required", ErrEmptyInput)
	}
	if maxAnswerLen <= 0 {
		maxAnswerLen = DefaultMaxAnswerLen
	}

	answer, err := m.complete(ctx,
		"You answer questions using only the provided context. Quote the relevant text directly and do not add information.",
		fmt.Sprintf("Context:\n%s\n\nQuestion: %s", passage, question))
	if err != nil {
		return "", err
	}
	return truncate(answer, maxAnswerLen), nil
}

func (m *OpenAIModel) SummarizeText(ctx context.Context, text string, maxLen, minLen int) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: no text to summarize", ErrEmptyInput)
	}

	summary, err := m.complete(ctx,
		fmt.Sprintf("You summarize text in %d to %d words, using only information from the text.", minLen, maxLen),
		text)
	if err != nil {
		return "", err
	}
	if summary == "" {
		return "", fmt.Errorf("%w: empty summary returned", ErrModel)
	}
	return summary, nil
}

func (m *OpenAIModel) complete(ctx context.Context, system, user string) (string, error) {
	body, err := json.Marshal(map[string]interface{}{
		"model": m.model,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: marshal request: %v", ErrModel, err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", openAIChatURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: create request: %v", ErrModel, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: api call: %v", ErrModel, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: api error %d: %s", ErrModel, resp.StatusCode, string(b))
	}

	var apiResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrModel, err)
	}
	if len(apiResp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrModel)
	}
	return strings.TrimSpace(apiResp.Choices[0].Message.Content), nil
}

func (m *OpenAIModel) Close() error {
	m.httpClient.CloseIdleConnections()
	return nil
}
