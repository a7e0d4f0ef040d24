package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/pkoval/horizon/internal/model"
	"github.com/pkoval/horizon/internal/worker"
)

// OpenAIClassifier asks a chat model to place a candidate in the taxonomy.
// Calls go through a shared rate limiter; responses are requested as JSON
// and validated before use.
type OpenAIClassifier struct {
	client   *openai.Client
	model    string
	timeout  time.Duration
	limiter  *worker.Limiter
	taxonomy model.Taxonomy
}

// NewOpenAIClassifier creates an OpenAI-backed classifier.
func NewOpenAIClassifier(cfg model.ClassifierConfig, taxonomy model.Taxonomy, limiter *worker.Limiter) (*OpenAIClassifier, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = openai.GPT4oMini
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &OpenAIClassifier{
		client:   openai.NewClientWithConfig(clientConfig),
		model:    modelName,
		timeout:  timeout,
		limiter:  limiter,
		taxonomy: taxonomy,
	}, nil
}

// Name identifies the classifier and model for cache keying.
func (c *OpenAIClassifier) Name() string {
	return "openai/" + c.model
}

// Classify requests a JSON verdict from the model. Invalid STEEP values
// and unknown dimensions are dropped rather than passed through.
func (c *OpenAIClassifier) Classify(ctx context.Context, req Request) (Verdict, error) {
	if err := c.limiter.Wait(ctx, "openai"); err != nil {
		return Verdict{}, fmt.Errorf("rate limit wait: %w", err)
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	chatReq := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: c.systemPrompt(),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(req),
			},
		},
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := c.client.CreateChatCompletion(ctxWithTimeout, chatReq)
	if err != nil {
		return Verdict{}, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Verdict{}, fmt.Errorf("no response from OpenAI")
	}

	var verdict Verdict
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &verdict); err != nil {
		return Verdict{}, fmt.Errorf("parse classifier response: %w", err)
	}

	return c.sanitize(verdict), nil
}

func (c *OpenAIClassifier) systemPrompt() string {
	return "You classify environmental-scanning candidates into a fixed taxonomy. " +
		"Respond with a JSON object containing \"steep\", \"dimension\" and \"tags\". " +
		"STEEP must be one of: " + strings.Join(model.STEEPCategories, ", ") + ". " +
		"Dimension must come from the provided list or be omitted. " +
		"Tags are short lowercase keywords, at most eight."
}

func buildPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", req.Title)
	fmt.Fprintf(&b, "Summary: %s\n", req.Summary)
	if len(req.Tags) > 0 {
		fmt.Fprintf(&b, "Proposed tags: %s\n", strings.Join(req.Tags, ", "))
	}
	if req.STEEP != "" {
		fmt.Fprintf(&b, "Proposed STEEP: %s\n", req.STEEP)
	}
	if req.Dimension != "" {
		fmt.Fprintf(&b, "Proposed dimension: %s\n", req.Dimension)
	}
	return b.String()
}

// sanitize drops values the taxonomy cannot hold.
func (c *OpenAIClassifier) sanitize(verdict Verdict) Verdict {
	if !model.ValidSTEEP(verdict.STEEP) {
		verdict.STEEP = ""
	}
	if verdict.Dimension != "" && !c.taxonomy.HasDimension(verdict.Dimension) {
		verdict.Dimension = ""
	}

	var tags []string
	seen := make(map[string]bool)
	for _, tag := range verdict.Tags {
		normalized := strings.ToLower(strings.TrimSpace(tag))
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true
		tags = append(tags, normalized)
	}
	verdict.Tags = capTags(tags)

	return verdict
}
