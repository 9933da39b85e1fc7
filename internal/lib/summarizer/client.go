package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"rentnova/internal/config"
	"rentnova/internal/domain"

	"github.com/goccy/go-json"
	"github.com/sashabaranov/go-openai"
)

const systemPrompt = "You are a friendly rental assistant. Summarize why the listed properties fit the renter " +
	"in two or three sentences. Mention the strongest match by name. Answer strictly in JSON."

type client struct {
	api   *openai.Client
	model string
	log   *slog.Logger
}

// NewClient создаёт клиента для OpenAI-совместимого Chat Completion API.
func NewClient(cfg config.LLMConfig, log *slog.Logger) Summarizer {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &client{
		api:   openai.NewClientWithConfig(oc),
		model: cfg.Model,
		log:   log,
	}
}

type summaryResponse struct {
	Summary string `json:"summary"`
}

func (c *client) Summarize(ctx context.Context, entries []Entry, prefs domain.UserPreferences) (string, error) {
	const op = "summarizer.Client.Summarize"

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(entries, prefs)},
		},
		Temperature: 0.5,
		MaxTokens:   300,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: no choices in response", op)
	}

	summary := parseSummary(resp.Choices[0].Message.Content)
	if summary == "" {
		return "", fmt.Errorf("%s: %w", op, ErrEmptySummary)
	}

	return summary, nil
}

func (c *client) IsEnabled() bool {
	return true
}

func buildPrompt(entries []Entry, prefs domain.UserPreferences) string {
	var sb strings.Builder
	sb.WriteString("Renter preferences:\n")
	sb.WriteString(fmt.Sprintf("Budget: %d - %d\n", prefs.Budget.Min, prefs.Budget.Max))
	if len(prefs.Locations) > 0 {
		sb.WriteString(fmt.Sprintf("Locations: %s\n", strings.Join(prefs.Locations, ", ")))
	}
	if len(prefs.PropertyTypes) > 0 {
		sb.WriteString(fmt.Sprintf("Property types: %s\n", strings.Join(prefs.PropertyTypes, ", ")))
	}
	sb.WriteString(fmt.Sprintf("Bedrooms: %d\n", prefs.Bedrooms))
	if prefs.Lifestyle != "" {
		sb.WriteString(fmt.Sprintf("Lifestyle: %s\n", prefs.Lifestyle))
	}
	if prefs.WorkStyle != "" {
		sb.WriteString(fmt.Sprintf("Work style: %s\n", prefs.WorkStyle))
	}
	if prefs.FamilySize > 0 {
		sb.WriteString(fmt.Sprintf("Family size: %d\n", prefs.FamilySize))
	}
	if prefs.PetOwner {
		sb.WriteString("Has pets\n")
	}
	if len(prefs.AmenityPreferences) > 0 {
		sb.WriteString(fmt.Sprintf("Wanted amenities: %s\n", strings.Join(prefs.AmenityPreferences, ", ")))
	}

	sb.WriteString("\nTop matches:\n")
	for i, e := range entries {
		sb.WriteString(fmt.Sprintf("%d. %s in %s, %d%% match", i+1, e.Title, e.City, e.MatchPercentage))
		if len(e.Reasons) > 0 {
			sb.WriteString(fmt.Sprintf(" (%s)", strings.Join(e.Reasons, "; ")))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\nAnswer in JSON: {\"summary\": \"...\"}")
	return sb.String()
}

// parseSummary достаёт текст из JSON-ответа. Если модель ответила
// обычным текстом, возвращается он сам.
func parseSummary(content string) string {
	var r summaryResponse
	if err := json.Unmarshal([]byte(extractJSON(content)), &r); err == nil {
		return strings.TrimSpace(r.Summary)
	}
	return strings.TrimSpace(content)
}

// extractJSON извлекает JSON из текста ответа LLM.
func extractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")

	if start != -1 && end != -1 && end > start {
		return text[start : end+1]
	}
	return text
}
