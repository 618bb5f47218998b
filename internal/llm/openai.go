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

const openaiAPIURL = "https://api.openai.com/v1/chat/completions"

// OpenAIExtractor implements port.ModelExtractor using the OpenAI Chat Completions API.
type OpenAIExtractor struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
	prompts  *PromptStore
	registry *schema.Registry
}

// NewOpenAI creates an OpenAI-based field extractor.
func NewOpenAI(cfg *config.LLMConfig, prompts *PromptStore, registry *schema.Registry) *OpenAIExtractor {
	return newOpenAI(cfg, prompts, registry, openaiAPIURL)
}

// NewOpenAIWithEndpoint creates an extractor pointing at a custom API endpoint (for testing).
func NewOpenAIWithEndpoint(cfg *config.LLMConfig, prompts *PromptStore, registry *schema.Registry, endpoint string) *OpenAIExtractor {
	return newOpenAI(cfg, prompts, registry, endpoint)
}

func newOpenAI(cfg *config.LLMConfig, prompts *PromptStore, registry *schema.Registry, endpoint string) *OpenAIExtractor {
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &OpenAIExtractor{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		prompts:  prompts,
		registry: registry,
	}
}

func (o *OpenAIExtractor) Extract(ctx context.Context, text string, docType domain.DocumentType) (domain.FieldMap, error) {
	if o.apiKey == "" {
		return nil, fmt.Errorf("%w: openai api key is empty", domain.ErrMissingCredential)
	}

	prompt, err := o.prompts.Render(docType, text)
	if err != nil {
		return nil, err
	}

	reqBody := map[string]interface{}{
		"model":                 o.model,
		"max_completion_tokens": 8192,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": prompt,
			},
		},
		"response_format": map[string]interface{}{
			"type": "json_object",
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling openai API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openai API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	return o.parseResponse(respBody, docType)
}

// openaiResponse models the Chat Completions API response.
type openaiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func (o *OpenAIExtractor) parseResponse(body []byte, docType domain.DocumentType) (domain.FieldMap, error) {
	var resp openaiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: unmarshaling response: %v", domain.ErrInvalidResponse, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices", domain.ErrInvalidResponse)
	}

	return decodeFields(resp.Choices[0].Message.Content, o.registry.CanonicalFields(docType))
}
