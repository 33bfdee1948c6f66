package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

// Recipe is the structured result of extracting a recipe from a page.
type Recipe struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Ingredients []string `json:"ingredients"`
}

// Extractor turns rendered HTML into a structured recipe via an external
// LLM provider. Pass-through boundary; failures propagate to the caller.
type Extractor interface {
	Extract(ctx context.Context, html string) (*Recipe, error)
}

const extractPrompt = `Extract the recipe from the following web page HTML.
Respond with a JSON object: {"name": string, "description": string, "ingredients": [string]}.
Ingredient names should be short purchasable item names, not quantities or instructions.`

type openAIExtractor struct {
	model  string
	apiKey string
	http   *http.Client
}

// NewExtractorFromEnv builds an extractor from OPENAI_API_KEY, or nil when
// extraction is not configured.
func NewExtractorFromEnv() Extractor {
	apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	if apiKey == "" {
		return nil
	}
	model := os.Getenv("OPENAI_EXTRACTION_MODEL")
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &openAIExtractor{model: model, apiKey: apiKey, http: &http.Client{Timeout: 90 * time.Second}}
}

func (e *openAIExtractor) Extract(ctx context.Context, html string) (*Recipe, error) {
	payload := map[string]any{
		"model": e.model,
		"messages": []map[string]string{
			{"role": "system", "content": extractPrompt},
			{"role": "user", "content": html},
		},
		"response_format": map[string]string{"type": "json_object"},
	}
	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.openai.com/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+e.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var b struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&b)
		if b.Error.Message != "" {
			return nil, fmt.Errorf("openai extraction error: %s", b.Error.Message)
		}
		return nil, fmt.Errorf("openai extraction http status: %s", resp.Status)
	}
	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if len(out.Choices) == 0 {
		return nil, fmt.Errorf("openai extraction returned no choices")
	}
	var recipe Recipe
	if err := json.Unmarshal([]byte(out.Choices[0].Message.Content), &recipe); err != nil {
		return nil, fmt.Errorf("failed to parse extracted recipe: %w", err)
	}
	if strings.TrimSpace(recipe.Name) == "" {
		return nil, fmt.Errorf("extracted recipe has no name")
	}
	return &recipe, nil
}
