package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"dociq/internal/config"
	"dociq/internal/domain"
	"dociq/internal/schema"
)

const geminiAPIBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// GeminiExtractor implements port.ModelExtractor using Google's Gemini API.
type GeminiExtractor struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
	prompts  *PromptStore
	registry *schema.Registry
}

// NewGemini creates a Gemini-based field extractor.
func NewGemini(cfg *config.LLMConfig, prompts *PromptStore, registry *schema.Registry) *GeminiExtractor {
	return newGemini(cfg, prompts, registry, "")
}

// NewGeminiWithEndpoint creates an extractor pointing at a custom API endpoint (for testing).
func NewGeminiWithEndpoint(cfg *config.LLMConfig, prompts *PromptStore, registry *schema.Registry, endpoint string) *GeminiExtractor {
	return newGemini(cfg, prompts, registry, endpoint)
}

func newGemini(cfg *config.LLMConfig, prompts *PromptStore, registry *schema.Registry, endpoint string) *GeminiExtractor {
	model := cfg.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	if endpoint == "" {
		endpoint = fmt.Sprintf("%s/%s:generateContent", geminiAPIBaseURL, model)
	}
	return &GeminiExtractor{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		prompts:  prompts,
		registry: registry,
	}
}

func (g *GeminiExtractor) Extract(ctx context.Context, text string, docType domain.DocumentType) (domain.FieldMap, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("%w: gemini api key is empty", domain.ErrMissingCredential)
	}

	prompt, err := g.prompts.Render(docType, text)
	if err != nil {
		return nil, err
	}

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"role": "user",
				"parts": []map[string]interface{}{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
			"maxOutputTokens":  8192,
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling gemini API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	return g.parseResponse(respBody, docType)
}

// geminiResponse models the Gemini API response.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

func (g *GeminiExtractor) parseResponse(body []byte, docType domain.DocumentType) (domain.FieldMap, error) {
	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: unmarshaling response: %v", domain.ErrInvalidResponse, err)
	}

	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no candidates", domain.ErrInvalidResponse)
	}
	if len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: no parts", domain.ErrInvalidResponse)
	}

	text := resp.Candidates[0].Content.Parts[0].Text
	return decodeFields(text, g.registry.CanonicalFields(docType))
}
