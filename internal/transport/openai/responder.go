package openai

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	domrec "github.com/robosmart/flowrec/internal/domain/recommend"
)

const (
	defaultChatModel       = openai.GPT4oMini
	defaultChatMaxTokens   = 500
	defaultChatTemperature = 0.7
)

// Responder generates a short conversational summary of the recommended
// workflows via the chat completions API.
type Responder struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	logger      *zap.Logger
}

// ResponderConfig holds the chat provider settings.
type ResponderConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
	Logger      *zap.Logger
}

// NewResponder creates a chat-based response generator.
func NewResponder(cfg *ResponderConfig) *Responder {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = defaultChatModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultChatMaxTokens
	}
	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = defaultChatTemperature
	}

	return &Responder{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		logger:      cfg.Logger,
	}
}

// Respond produces a short natural-language answer grounded in the candidate
// list. language is a two-letter code ("en", "ru"); anything else falls back
// to English.
func (r *Responder) Respond(
	ctx context.Context,
	query, language string,
	candidates []domrec.Candidate,
) (string, error) {
	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       r.model,
		MaxTokens:   r.maxTokens,
		Temperature: r.temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt(language),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userPrompt(query, candidates),
			},
		},
	})
	if err != nil {
		return "", parseAPIError(err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty chat response")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func systemPrompt(language string) string {
	if language == "ru" {
		return "Ты помощник по подбору сценариев автоматизации. " +
			"Кратко объясни, какие из найденных сценариев подходят под запрос пользователя и почему. " +
			"Опирайся только на переданный список, ничего не выдумывай."
	}
	return "You are an automation workflow assistant. " +
		"Briefly explain which of the retrieved workflows fit the user's request and why. " +
		"Ground your answer strictly in the provided list; do not invent workflows."
}

func userPrompt(query string, candidates []domrec.Candidate) string {
	var sb strings.Builder
	sb.WriteString("Request: ")
	sb.WriteString(query)
	sb.WriteString("\n\nRetrieved workflows:\n")
	for i := range candidates {
		c := &candidates[i]
		fmt.Fprintf(&sb, "%d. %s (category: %s, complexity: %s, tools: %s)\n   %s\n",
			i+1, c.Title(), c.Category(), c.Complexity(),
			strings.Join(c.Tools(), ", "), c.Summary())
	}
	return sb.String()
}
