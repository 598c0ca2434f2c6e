package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common"
	tcerrors "github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common/errors"
	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common/profile"
	tmt "github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/tmt/v20180321"
)

// Tencent Cloud error codes the pipeline branches on
const (
	TencentCodeRateLimited         = "RequestLimitExceeded"
	TencentCodeLanguageRecognition = "FailedOperation.LanguageRecognitionErr"
)

// tmtClient is the part of the TMT SDK client the provider uses
type tmtClient interface {
	LanguageDetectWithContext(ctx context.Context, request *tmt.LanguageDetectRequest) (*tmt.LanguageDetectResponse, error)
	TextTranslateWithContext(ctx context.Context, request *tmt.TextTranslateRequest) (*tmt.TextTranslateResponse, error)
}

// TencentProvider implements Port for Tencent Cloud Machine Translation
type TencentProvider struct {
	client tmtClient
	config *Config
}

// NewTencentProvider creates a new Tencent Cloud TMT provider
func NewTencentProvider(config *Config) (Port, error) {
	if config.TencentSecretID == "" || config.TencentSecretKey == "" {
		return nil, fmt.Errorf("Tencent Cloud secret id and secret key are required")
	}
	if config.TencentRegion == "" {
		return nil, fmt.Errorf("Tencent Cloud region is required")
	}

	credential := common.NewCredential(config.TencentSecretID, config.TencentSecretKey)
	cpf := profile.NewClientProfile()
	if config.Timeout > 0 {
		cpf.HttpProfile.ReqTimeout = int(config.Timeout.Seconds())
	}

	client, err := tmt.NewClient(credential, config.TencentRegion, cpf)
	if err != nil {
		return nil, fmt.Errorf("failed to create Tencent Cloud client: %w", err)
	}

	return &TencentProvider{client: client, config: config}, nil
}

// Detect identifies the language of text
func (p *TencentProvider) Detect(ctx context.Context, text string) (string, error) {
	req := tmt.NewLanguageDetectRequest()
	req.Text = common.StringPtr(text)
	req.ProjectId = common.Int64Ptr(0)

	resp, err := p.client.LanguageDetectWithContext(ctx, req)
	if err != nil {
		return "", p.classify(err)
	}
	if resp.Response == nil || resp.Response.Lang == nil {
		return "", &APIError{Kind: KindOther, Provider: p.Name(), Message: "empty language detection response"}
	}

	return *resp.Response.Lang, nil
}

// Translate translates text from source to target
func (p *TencentProvider) Translate(ctx context.Context, text, source, target string) (Result, error) {
	req := tmt.NewTextTranslateRequest()
	req.SourceText = common.StringPtr(text)
	req.Source = common.StringPtr(source)
	req.Target = common.StringPtr(target)
	req.ProjectId = common.Int64Ptr(0)

	resp, err := p.client.TextTranslateWithContext(ctx, req)
	if err != nil {
		return Result{}, p.classify(err)
	}
	if resp.Response == nil || resp.Response.TargetText == nil {
		return Result{}, &APIError{Kind: KindOther, Provider: p.Name(), Message: "empty translation response"}
	}

	result := Result{
		Source: source,
		Target: target,
		Text:   *resp.Response.TargetText,
	}
	if resp.Response.Source != nil {
		result.Source = *resp.Response.Source
	}
	if resp.Response.Target != nil {
		result.Target = *resp.Response.Target
	}

	return result, nil
}

// Name returns the provider name
func (p *TencentProvider) Name() string {
	return ProviderTencent
}

// classify maps SDK errors onto the pipeline's error kinds
func (p *TencentProvider) classify(err error) error {
	var sdkErr *tcerrors.TencentCloudSDKError
	if !errors.As(err, &sdkErr) {
		return &APIError{Kind: KindOther, Provider: p.Name(), Message: err.Error(), Err: err}
	}

	kind := KindOther
	switch code := sdkErr.GetCode(); {
	case strings.HasPrefix(code, TencentCodeRateLimited):
		kind = KindRateLimited
	case code == TencentCodeLanguageRecognition:
		kind = KindLanguageRecognition
	}

	return &APIError{
		Kind:     kind,
		Provider: p.Name(),
		Code:     sdkErr.GetCode(),
		Message:  sdkErr.GetMessage(),
		Err:      err,
	}
}
