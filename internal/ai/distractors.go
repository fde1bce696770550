package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/example/vocabquiz/internal/config"
	"github.com/example/vocabquiz/internal/logger"
	"github.com/example/vocabquiz/pkg/models"
)

const systemPrompt = "You write multiple choice vocabulary quizzes for English learners. Reply only with JSON."

var distractorSchema = jsonschema.Definition{
	Type: jsonschema.Object,
	Properties: map[string]jsonschema.Definition{
		"distractors": {
			Type:        jsonschema.Array,
			Description: "Incorrect answer choices",
			Items:       &jsonschema.Definition{Type: jsonschema.String},
		},
	},
	Required:             []string{"distractors"},
	AdditionalProperties: false,
}

// DistractorGenerator asks an OpenAI compatible chat model for wrong answer choices
type DistractorGenerator struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	enabled bool
	log     *logger.Logger
}

// NewDistractorGenerator creates a generator. It is unavailable when no API key is configured.
func NewDistractorGenerator(cfg config.AIConfig, log *logger.Logger) *DistractorGenerator {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &DistractorGenerator{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		enabled: cfg.APIKey != "",
		log:     log.With("component", "distractors"),
	}
}

// Available reports whether an API key is configured
func (g *DistractorGenerator) Available() bool {
	return g.enabled
}

// Distractors returns up to count plausible wrong answers for item.
// Failures are logged and produce an empty result.
func (g *DistractorGenerator) Distractors(ctx context.Context, item models.VocabularyItem, count int) []string {
	if !g.enabled || count <= 0 {
		return []string{}
	}

	words, err := g.request(ctx, item, count)
	if err != nil {
		g.log.Warn("failed to generate distractors", "word", item.Word, "error", err)
		return []string{}
	}
	return filterDistractors(words, item.Word, count)
}

func (g *DistractorGenerator) request(ctx context.Context, item models.VocabularyItem, count int) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: 0.7,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(item, count)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "quiz_distractors",
				Strict: true,
				Schema: &distractorSchema,
			},
		},
	}

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from model")
	}

	var payload struct {
		Distractors []string `json:"distractors"`
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse model response: %w", err)
	}

	g.log.Debug("distractors generated",
		"word", item.Word,
		"count", len(payload.Distractors),
		"latency_ms", time.Since(start).Milliseconds())
	return payload.Distractors, nil
}

func buildPrompt(item models.VocabularyItem, count int) string {
	partOfSpeech := item.PartOfSpeech
	if partOfSpeech == "" {
		partOfSpeech = "word"
	}
	return fmt.Sprintf(
		"For a vocabulary quiz, the correct answer is %q which is a %q. "+
			"Generate %d incorrect choices (distractors) that are also of the part of speech %q. "+
			"They should be plausible but clearly incorrect. Do not include the correct answer.",
		item.Word, partOfSpeech, count, partOfSpeech,
	)
}

// filterDistractors keeps the first count entries, then drops blanks and the correct word
func filterDistractors(words []string, correct string, count int) []string {
	if len(words) > count {
		words = words[:count]
	}

	result := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" || strings.EqualFold(w, strings.TrimSpace(correct)) {
			continue
		}
		result = append(result, w)
	}
	return result
}
