package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const assistantSystemPrompt = `You are Gamyartha's finance assistant. Answer questions about the user's
transactions, budgets, goals and group balances using only the context provided.
Amounts are in the user's home currency. Be brief and concrete; if the context
does not contain the answer, say so instead of guessing.`

// AssistantService calls an OpenRouter-compatible chat completions API.
type AssistantService struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewAssistantService(apiKey, model string) *AssistantService {
	return &AssistantService{
		apiKey:     apiKey,
		model:      model,
		baseURL:    "https://openrouter.ai/api/v1",
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Chat sends the user's question with the assembled financial context and
// returns the assistant's reply.
func (s *AssistantService) Chat(ctx context.Context, financialContext, question string) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("assistant is not configured")
	}

	payload := chatRequest{
		Model: s.model,
		Messages: []ChatMessage{
			{Role: "system", Content: assistantSystemPrompt},
			{Role: "system", Content: "Context:\n" + financialContext},
			{Role: "user", Content: question},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("assistant request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var result chatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if result.Error != nil {
		return "", fmt.Errorf("assistant error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("assistant returned no choices")
	}

	return result.Choices[0].Message.Content, nil
}
