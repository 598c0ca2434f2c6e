package translation

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
	"google.golang.org/genai"
	tcerrors "github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common/errors"
	tmt "github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/tmt/v20180321"
)

type fakeTMT struct {
	lang       string
	translated string
	err        error
	lastReq    *tmt.TextTranslateRequest
}

func (f *fakeTMT) LanguageDetectWithContext(ctx context.Context, req *tmt.LanguageDetectRequest) (*tmt.LanguageDetectResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	resp := tmt.NewLanguageDetectResponse()
	resp.Response = &tmt.LanguageDetectResponseParams{Lang: &f.lang}
	return resp, nil
}

func (f *fakeTMT) TextTranslateWithContext(ctx context.Context, req *tmt.TextTranslateRequest) (*tmt.TextTranslateResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	resp := tmt.NewTextTranslateResponse()
	resp.Response = &tmt.TextTranslateResponseParams{
		Source:     req.Source,
		Target:     req.Target,
		TargetText: &f.translated,
	}
	return resp, nil
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name:    "tencent missing credentials",
			config:  &Config{Provider: ProviderTencent},
			wantErr: true,
		},
		{
			name:    "tencent missing region",
			config:  &Config{Provider: ProviderTencent, TencentSecretID: "id", TencentSecretKey: "key"},
			wantErr: true,
		},
		{
			name:   "tencent",
			config: &Config{Provider: ProviderTencent, TencentSecretID: "id", TencentSecretKey: "key", TencentRegion: "ap-guangzhou"},
		},
		{
			name:   "tencent with breaker",
			config: &Config{Provider: ProviderTencent, TencentSecretID: "id", TencentSecretKey: "key", TencentRegion: "ap-guangzhou", Breaker: true},
		},
		{
			name:    "openai missing key",
			config:  &Config{Provider: ProviderOpenAI},
			wantErr: true,
		},
		{
			name:   "openai",
			config: &Config{Provider: ProviderOpenAI, OpenAIKey: "test-key"},
		},
		{
			name:    "gemini missing key",
			config:  &Config{Provider: ProviderGemini},
			wantErr: true,
		},
		{
			name:    "unknown provider",
			config:  &Config{Provider: "babelfish"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			port, err := NewProvider(tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewProvider() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if port.Name() != tt.config.Provider {
				t.Errorf("Name() = %q, want %q", port.Name(), tt.config.Provider)
			}
			if _, isBreaker := port.(*BreakerPort); isBreaker != tt.config.Breaker {
				t.Errorf("breaker wrapping = %v, want %v", isBreaker, tt.config.Breaker)
			}
		})
	}
}

func TestTencentProvider(t *testing.T) {
	client := &fakeTMT{lang: "en", translated: "你好"}
	p := &TencentProvider{client: client, config: &Config{}}

	lang, err := p.Detect(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if lang != "en" {
		t.Errorf("Detect() = %q, want en", lang)
	}

	result, err := p.Translate(context.Background(), "hello", "en", "zh")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if result != (Result{Source: "en", Target: "zh", Text: "你好"}) {
		t.Errorf("Translate() = %+v", result)
	}
	if *client.lastReq.ProjectId != 0 || *client.lastReq.SourceText != "hello" {
		t.Errorf("unexpected request: project %d, text %q", *client.lastReq.ProjectId, *client.lastReq.SourceText)
	}
}

func TestTencentProvider_ErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"rate limited", tcerrors.NewTencentCloudSDKError(TencentCodeRateLimited, "too many", "req-1"), KindRateLimited},
		{"uin rate limited", tcerrors.NewTencentCloudSDKError("RequestLimitExceeded.UinLimitExceeded", "too many", "req-2"), KindRateLimited},
		{"recognition", tcerrors.NewTencentCloudSDKError(TencentCodeLanguageRecognition, "unknown", "req-3"), KindLanguageRecognition},
		{"auth failure", tcerrors.NewTencentCloudSDKError("AuthFailure.SignatureFailure", "bad", "req-4"), KindOther},
		{"transport", errors.New("connection reset"), KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &TencentProvider{client: &fakeTMT{err: tt.err}, config: &Config{}}

			_, err := p.Detect(context.Background(), "hello")

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("Detect() error = %v, want *APIError", err)
			}
			if apiErr.Kind != tt.want {
				t.Errorf("Kind = %v, want %v", apiErr.Kind, tt.want)
			}
			if apiErr.Provider != ProviderTencent {
				t.Errorf("Provider = %q", apiErr.Provider)
			}
		})
	}
}

type fakeChat struct {
	answer string
	err    error
	calls  int
}

func (f *fakeChat) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.calls++
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: f.answer}},
		},
	}, nil
}

func TestOpenAIProvider_Detect(t *testing.T) {
	tests := []struct {
		name     string
		answer   string
		want     string
		wantKind ErrorKind
		wantErr  bool
	}{
		{name: "code", answer: "en", want: "en"},
		{name: "code with punctuation", answer: " ZH.\n", want: "zh"},
		{name: "unknown", answer: "unknown", wantErr: true, wantKind: KindLanguageRecognition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &OpenAIProvider{client: &fakeChat{answer: tt.answer}, config: &Config{OpenAIModel: "gpt-4o-mini"}}

			got, err := p.Detect(context.Background(), "text")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Detect() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if tt.wantKind == KindLanguageRecognition && !IsLanguageRecognition(err) {
					t.Errorf("Detect() error = %v, want recognition failure", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("Detect() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOpenAIProvider_ErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"429", &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests, Message: "slow down"}, KindRateLimited},
		{"quota", &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests, Code: "insufficient_quota", Message: "no quota"}, KindOther},
		{"request 429", &openai.RequestError{HTTPStatusCode: http.StatusTooManyRequests, Err: errors.New("429")}, KindRateLimited},
		{"401", &openai.APIError{HTTPStatusCode: http.StatusUnauthorized, Message: "bad key"}, KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &OpenAIProvider{client: &fakeChat{err: tt.err}, config: &Config{}}

			_, err := p.Translate(context.Background(), "hello", "en", "zh")

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("Translate() error = %v, want *APIError", err)
			}
			if apiErr.Kind != tt.want {
				t.Errorf("Kind = %v, want %v", apiErr.Kind, tt.want)
			}
		})
	}
}

type fakeGenerator struct {
	answer string
	err    error
	calls  int
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: genai.NewContentFromText(f.answer, genai.RoleModel)},
		},
	}, nil
}

func quotaFailure(quotaID string) []map[string]any {
	return []map[string]any{
		{
			"@type": "type.googleapis.com/google.rpc.QuotaFailure",
			"violations": []any{
				map[string]any{"quotaMetric": "generativelanguage.googleapis.com/generate_content_free_tier_requests", "quotaId": quotaID},
			},
		},
	}
}

func TestGeminiProvider_Detect(t *testing.T) {
	tests := []struct {
		name     string
		answer   string
		want     string
		wantKind ErrorKind
		wantErr  bool
	}{
		{name: "code", answer: "zh", want: "zh"},
		{name: "quoted with period", answer: "\"EN\".\n", want: "en"},
		{name: "unknown", answer: "unknown", wantKind: KindLanguageRecognition, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &GeminiProvider{models: &fakeGenerator{answer: tt.answer}, config: &Config{GeminiModel: "gemini-2.0-flash"}}

			got, err := p.Detect(context.Background(), "text")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Detect() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var apiErr *APIError
				if !errors.As(err, &apiErr) || apiErr.Kind != tt.wantKind {
					t.Errorf("Detect() error = %v, want kind %v", err, tt.wantKind)
				}
				return
			}
			if got != tt.want {
				t.Errorf("Detect() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGeminiProvider_Translate(t *testing.T) {
	gen := &fakeGenerator{answer: " 你好 \n"}
	p := &GeminiProvider{models: gen, config: &Config{}}

	got, err := p.Translate(context.Background(), "hello", "en", "zh")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if want := (Result{Source: "en", Target: "zh", Text: "你好"}); got != want {
		t.Errorf("Translate() = %+v, want %+v", got, want)
	}

	gen.answer = "  "
	if _, err := p.Translate(context.Background(), "hello", "en", "zh"); err == nil {
		t.Error("expected error for an empty response")
	}
}

func TestGeminiProvider_ErrorKinds(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		want     ErrorKind
		wantCode string
	}{
		{"429 value", genai.APIError{Code: http.StatusTooManyRequests, Status: "RESOURCE_EXHAUSTED", Message: "slow down"}, KindRateLimited, "RESOURCE_EXHAUSTED"},
		{"429 pointer", &genai.APIError{Code: http.StatusTooManyRequests, Message: "slow down"}, KindRateLimited, "HTTP 429"},
		{"per-minute quota", genai.APIError{Code: http.StatusTooManyRequests, Status: "RESOURCE_EXHAUSTED", Details: quotaFailure("GenerateRequestsPerMinutePerProjectPerModel-FreeTier")}, KindRateLimited, "RESOURCE_EXHAUSTED"},
		{"daily quota", genai.APIError{Code: http.StatusTooManyRequests, Status: "RESOURCE_EXHAUSTED", Details: quotaFailure("GenerateRequestsPerDayPerProjectPerModel-FreeTier")}, KindOther, "RESOURCE_EXHAUSTED"},
		{"500", genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL", Message: "oops"}, KindOther, "INTERNAL"},
		{"transport", errors.New("connection reset"), KindOther, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &GeminiProvider{models: &fakeGenerator{err: tt.err}, config: &Config{}}

			_, err := p.Translate(context.Background(), "hello", "en", "zh")

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("Translate() error = %v, want *APIError", err)
			}
			if apiErr.Kind != tt.want {
				t.Errorf("Kind = %v, want %v", apiErr.Kind, tt.want)
			}
			if apiErr.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", apiErr.Code, tt.wantCode)
			}
			if apiErr.Provider != ProviderGemini {
				t.Errorf("Provider = %q, want %q", apiErr.Provider, ProviderGemini)
			}
		})
	}
}

func TestGeminiProvider_DailyQuotaStopsRetry(t *testing.T) {
	gen := &fakeGenerator{err: genai.APIError{Code: http.StatusTooManyRequests, Status: "RESOURCE_EXHAUSTED", Details: quotaFailure("GenerateRequestsPerDayPerProjectPerModel-FreeTier")}}
	p := &GeminiProvider{models: gen, config: &Config{}}

	_, err := Retry(context.Background(), Retrier{}, func(ctx context.Context) (Result, error) {
		return p.Translate(ctx, "hello", "en", "zh")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if gen.calls != 1 {
		t.Errorf("model called %d times, want 1", gen.calls)
	}
}

func TestBreakerPort_OpensOnConsecutiveFailures(t *testing.T) {
	port := &fakePort{translateErrs: []error{otherFailure(), otherFailure(), otherFailure()}}
	b := NewBreakerPort(port, BreakerSettings{MaxFailures: 2, OpenTimeout: time.Minute})

	for i := 0; i < 2; i++ {
		if _, err := b.Translate(context.Background(), "x", "en", "zh"); err == nil {
			t.Fatalf("call %d: expected failure", i)
		}
	}

	_, err := b.Translate(context.Background(), "x", "en", "zh")
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected open circuit, got %v", err)
	}
	if port.translateCalls != 2 {
		t.Errorf("provider called %d times, want 2", port.translateCalls)
	}
}

func TestBreakerPort_RateLimitDoesNotTrip(t *testing.T) {
	port := &fakePort{
		detected:   map[string]string{"x": "en"},
		detectErrs: []error{rateLimited(), rateLimited(), rateLimited(), recognitionFailed()},
	}
	b := NewBreakerPort(port, BreakerSettings{MaxFailures: 2, OpenTimeout: time.Minute})

	for i := 0; i < 4; i++ {
		_, _ = b.Detect(context.Background(), "x")
	}

	got, err := b.Detect(context.Background(), "x")
	if err != nil {
		t.Fatalf("Detect() error = %v, circuit should still be closed", err)
	}
	if got != "en" {
		t.Errorf("Detect() = %q, want en", got)
	}
	if b.Name() != "fake" {
		t.Errorf("Name() = %q", b.Name())
	}
}
