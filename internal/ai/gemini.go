package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/mar-formanite/finwise/internal/logging"
	"github.com/mar-formanite/finwise/internal/models"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-1.0-pro"

// GeminiClient implements Client against the Google Gemini API. The genai
// client is created lazily on first use so constructing a GeminiClient never
// touches the network.
type GeminiClient struct {
	apiKey    string
	modelName string
	log       logging.Logger

	mu     sync.Mutex
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiClient creates a Gemini-backed suggestion client. An empty model
// name falls back to DefaultModel.
func NewGeminiClient(apiKey, modelName string, logger logging.Logger) *GeminiClient {
	if modelName == "" {
		modelName = DefaultModel
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &GeminiClient{apiKey: apiKey, modelName: modelName, log: logger}
}

func (c *GeminiClient) ensureClient(ctx context.Context) (*genai.GenerativeModel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.model != nil {
		return c.model, nil
	}
	if c.apiKey == "" {
		return nil, errors.New("gemini API key not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(c.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	c.client = client
	c.model = client.GenerativeModel(c.modelName)
	return c.model, nil
}

// Close releases the underlying genai client if one was created.
func (c *GeminiClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	c.model = nil
	return err
}

// Suggest asks Gemini for a category, constrained to the given names. A
// response naming a category outside the list is an error.
func (c *GeminiClient) Suggest(ctx context.Context, candidate models.Candidate, categories []string) (Suggestion, error) {
	if len(categories) == 0 {
		return Suggestion{}, errors.New("no categories to choose from")
	}

	model, err := c.ensureClient(ctx)
	if err != nil {
		return Suggestion{}, err
	}

	prompt := fmt.Sprintf(`Categorize the following personal expense:
Description: %s
Amount: %s
Channel: %s

Assign it to exactly one of the following categories:
%s

Respond in this format:
Category: [Selected Category Name]
Explanation: [Brief explanation of why you chose this category]`,
		candidate.Text, candidate.Amount, candidate.Source,
		strings.Join(categories, ", "))

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return Suggestion{}, fmt.Errorf("gemini API error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return Suggestion{}, errors.New("empty response from Gemini API")
	}

	text := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	suggestion, err := parseResponse(text, categories)
	if err != nil {
		return Suggestion{}, err
	}

	c.log.Debug("Gemini suggested category",
		logging.Field{Key: logging.FieldCategory, Value: suggestion.Category})
	return suggestion, nil
}

// parseResponse extracts the category and explanation from the structured
// response, falling back to scanning the whole text for a known name.
func parseResponse(text string, categories []string) (Suggestion, error) {
	var s Suggestion
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if after, ok := strings.CutPrefix(line, "Category:"); ok {
			s.Category = strings.TrimSpace(after)
		} else if after, ok := strings.CutPrefix(line, "Explanation:"); ok {
			s.Explanation = strings.TrimSpace(after)
		}
	}

	for _, name := range categories {
		if strings.EqualFold(s.Category, name) {
			s.Category = name
			return s, nil
		}
	}
	for _, name := range categories {
		if strings.Contains(strings.ToLower(text), strings.ToLower(name)) {
			s.Category = name
			return s, nil
		}
	}
	return Suggestion{}, fmt.Errorf("response names no known category: %q", s.Category)
}
