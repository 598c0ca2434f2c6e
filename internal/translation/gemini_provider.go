package translation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// contentGenerator is the part of the genai client the provider uses
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiProvider implements Port on top of the Gemini API
type GeminiProvider struct {
	models contentGenerator
	config *Config
}

// NewGeminiProvider creates a new Gemini translation provider
func NewGeminiProvider(config *Config) (Port, error) {
	if config.GeminiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	if config.GeminiModel == "" {
		config.GeminiModel = DefaultProviderConfig().GeminiModel
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  config.GeminiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{models: client.Models, config: config}, nil
}

// Detect asks the model for the ISO 639-1 code of text
func (p *GeminiProvider) Detect(ctx context.Context, text string) (string, error) {
	answer, err := p.generate(ctx, detectPrompt(text), 10)
	if err != nil {
		return "", err
	}

	code := strings.ToLower(strings.Trim(answer, " .\"'\n"))
	if code == "" || code == "unknown" {
		return "", &APIError{Kind: KindLanguageRecognition, Provider: p.Name(), Message: "language not recognised"}
	}
	return code, nil
}

// Translate asks the model to translate text
func (p *GeminiProvider) Translate(ctx context.Context, text, source, target string) (Result, error) {
	answer, err := p.generate(ctx, translatePrompt(text, source, target), 500)
	if err != nil {
		return Result{}, err
	}

	return Result{Source: source, Target: target, Text: answer}, nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return ProviderGemini
}

func (p *GeminiProvider) generate(ctx context.Context, prompt string, maxTokens int32) (string, error) {
	if p.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.Timeout)
		defer cancel()
	}

	temperature := float32(0.2)
	resp, err := p.models.GenerateContent(ctx, p.config.GeminiModel, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: maxTokens,
	})
	if err != nil {
		return "", p.classify(err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", &APIError{Kind: KindOther, Provider: p.Name(), Message: "empty response"}
	}
	return text, nil
}

func (p *GeminiProvider) classify(err error) error {
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
	case errors.As(err, &apiErrPtr):
		apiErr = *apiErrPtr
	default:
		return &APIError{Kind: KindOther, Provider: p.Name(), Message: err.Error(), Err: err}
	}

	kind := KindOther
	if (apiErr.Code == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED") && !dailyQuotaExhausted(apiErr) {
		kind = KindRateLimited
	}

	code := apiErr.Status
	if code == "" {
		code = fmt.Sprintf("HTTP %d", apiErr.Code)
	}

	return &APIError{Kind: kind, Provider: p.Name(), Code: code, Message: apiErr.Message, Err: err}
}

// dailyQuotaExhausted reports whether a RESOURCE_EXHAUSTED error names a
// per-day quota. Retrying those cannot succeed until the quota resets.
func dailyQuotaExhausted(apiErr genai.APIError) bool {
	for _, detail := range apiErr.Details {
		if t, _ := detail["@type"].(string); !strings.HasSuffix(t, "google.rpc.QuotaFailure") {
			continue
		}
		violations, _ := detail["violations"].([]any)
		for _, v := range violations {
			violation, _ := v.(map[string]any)
			if id, _ := violation["quotaId"].(string); strings.Contains(id, "PerDay") {
				return true
			}
		}
	}
	return false
}
