package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type openAIChatClient interface {
	CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

// OpenAIScorer scores comment batches with a chat model. It satisfies
// Scorer; the aggregator falls back to the lexicon scorer when a batch
// fails, so LLM outages degrade quality rather than availability.
type OpenAIScorer struct {
	client openAIChatClient
	model  string
}

// NewOpenAIScorer returns nil when no API key is configured.
func NewOpenAIScorer(apiKey string, model string) *OpenAIScorer {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil
	}
	if strings.TrimSpace(model) == "" {
		model = "gpt-4o-mini"
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIScorer{
		client: &openAIClient{client: client},
		model:  model,
	}
}

func (s *OpenAIScorer) ScoreComments(ctx context.Context, comments []string) ([]float64, error) {
	if s == nil || s.client == nil {
		return nil, fmt.Errorf("openai scorer not configured")
	}
	if len(comments) == 0 {
		return nil, nil
	}

	var sb strings.Builder
	for i, comment := range comments {
		sb.WriteString(fmt.Sprintf("id=%d\n", i))
		sb.WriteString(fmt.Sprintf("text=%s\n\n", strings.TrimSpace(comment)))
	}

	systemPrompt := "You score crypto discussion sentiment. Return ONLY a JSON array. Each object requires: id (int), polarity (-1..1). No markdown."
	userPrompt := "Comments:\n" + sb.String()

	completion, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionNewParams{
		Model: s.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
	})
	if err != nil {
		return nil, err
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("empty scorer completion")
	}

	raw := trimCodeFence(completion.Choices[0].Message.Content)

	var parsed []struct {
		ID       int     `json:"id"`
		Polarity float64 `json:"polarity"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("parse scorer json: %w", err)
	}

	polarities := make([]float64, len(comments))
	seen := make([]bool, len(comments))
	for _, row := range parsed {
		if row.ID < 0 || row.ID >= len(comments) {
			continue
		}
		polarities[row.ID] = clamp(row.Polarity, -1, 1)
		seen[row.ID] = true
	}
	for i, ok := range seen {
		if !ok {
			return nil, fmt.Errorf("scorer response missing comment %d", i)
		}
	}
	return polarities, nil
}

func trimCodeFence(v string) string {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, "```") {
		v = strings.TrimPrefix(v, "```")
		v = strings.TrimSpace(v)
		if strings.HasPrefix(strings.ToLower(v), "json") {
			v = strings.TrimSpace(v[4:])
		}
		v = strings.TrimSuffix(v, "```")
		v = strings.TrimSpace(v)
	}
	return v
}

type openAIClient struct {
	client openai.Client
}

func (c *openAIClient) CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	return c.client.Chat.Completions.New(ctx, params)
}
