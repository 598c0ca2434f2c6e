package translation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// chatClient is the part of the OpenAI client the provider uses
type chatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIProvider implements Port on top of OpenAI chat completions
type OpenAIProvider struct {
	client chatClient
	config *Config
}

// NewOpenAIProvider creates a new OpenAI translation provider
func NewOpenAIProvider(config *Config) (Port, error) {
	if config.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if config.OpenAIModel == "" {
		config.OpenAIModel = DefaultProviderConfig().OpenAIModel
	}

	return &OpenAIProvider{
		client: openai.NewClient(config.OpenAIKey),
		config: config,
	}, nil
}

// Detect asks the model for the ISO 639-1 code of text
func (p *OpenAIProvider) Detect(ctx context.Context, text string) (string, error) {
	answer, err := p.complete(ctx, detectPrompt(text), 10)
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
func (p *OpenAIProvider) Translate(ctx context.Context, text, source, target string) (Result, error) {
	answer, err := p.complete(ctx, translatePrompt(text, source, target), 500)
	if err != nil {
		return Result{}, err
	}

	return Result{Source: source, Target: target, Text: answer}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return ProviderOpenAI
}

func (p *OpenAIProvider) complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if p.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.Timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model: p.config.OpenAIModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.2,
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", p.classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", &APIError{Kind: KindOther, Provider: p.Name(), Message: "no completion returned"}
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (p *OpenAIProvider) classify(err error) error {
	status := 0
	code := ""

	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
		if c, ok := apiErr.Code.(string); ok {
			code = c
		}
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	kind := KindOther
	if status == http.StatusTooManyRequests && code != "insufficient_quota" {
		kind = KindRateLimited
	}
	if code == "" && status != 0 {
		code = fmt.Sprintf("HTTP %d", status)
	}

	return &APIError{Kind: kind, Provider: p.Name(), Code: code, Message: err.Error(), Err: err}
}

func detectPrompt(text string) string {
	return fmt.Sprintf("Identify the language of the following text. Respond with only its two-letter ISO 639-1 code in lower case, or 'unknown' if you cannot tell.\n\n%s", text)
}

func translatePrompt(text, source, target string) string {
	return fmt.Sprintf("Translate the following text from language '%s' to language '%s'. Respond with only the translation, nothing else.\n\n%s", source, target, text)
}
