package translation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Translator translates single words: it resolves the languages and calls
// the provider, retrying rate-limit rejections.
type Translator struct {
	port     Port
	resolver *Resolver
	retrier  Retrier
}

// Options configures a Translator
type Options struct {
	Source      string // Source language override
	Target      string // Target language override
	MaxAttempts int    // Cap on calls per operation, 0 for unlimited
}

// NewTranslator creates a new translator instance
func NewTranslator(port Port, opts Options) *Translator {
	retrier := Retrier{
		MaxAttempts: opts.MaxAttempts,
		OnRetry: func(attempt int, err error) {
			slog.Debug("rate limited, retrying",
				slog.String("provider", port.Name()),
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()))
		},
	}

	return &Translator{
		port:     port,
		resolver: NewResolver(port, retrier, opts.Source, opts.Target),
		retrier:  retrier,
	}
}

// TranslateWord translates word into the resolved target language
func (t *Translator) TranslateWord(ctx context.Context, word string) (Result, error) {
	if strings.TrimSpace(word) == "" {
		return Result{}, fmt.Errorf("nothing to translate")
	}

	decision, err := t.resolver.Resolve(ctx, word)
	if err != nil {
		return Result{}, err
	}

	result, err := Retry(ctx, t.retrier, func(ctx context.Context) (Result, error) {
		return t.port.Translate(ctx, word, decision.Source, decision.Target)
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to translate '%s': %w", word, err)
	}
	if result.Source == "" {
		result.Source = decision.Source
	}
	if result.Target == "" {
		result.Target = decision.Target
	}

	slog.Debug("translated",
		slog.String("word", word),
		slog.String("source", result.Source),
		slog.String("target", result.Target))

	return result, nil
}
