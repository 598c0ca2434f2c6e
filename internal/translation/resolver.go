package translation

import (
	"context"
	"fmt"
)

// Decision is the pair of languages chosen for one word
type Decision struct {
	Source string
	Target string
}

// Resolver decides source and target language per word
type Resolver struct {
	port    Port
	retrier Retrier

	// Source and Target are user overrides; empty means resolve automatically
	Source string
	Target string
}

// NewResolver creates a resolver that detects languages through port
func NewResolver(port Port, retrier Retrier, source, target string) *Resolver {
	return &Resolver{
		port:    port,
		retrier: retrier,
		Source:  source,
		Target:  target,
	}
}

// Resolve returns the languages to translate text with
func (r *Resolver) Resolve(ctx context.Context, text string) (Decision, error) {
	source := r.Source
	if source == "" {
		detected, err := Retry(ctx, r.retrier, func(ctx context.Context) (string, error) {
			return r.port.Detect(ctx, text)
		})
		switch {
		case err == nil:
			source = detected
		case IsLanguageRecognition(err):
			source = FallbackSource
		default:
			return Decision{}, fmt.Errorf("failed to detect language of '%s': %w", text, err)
		}
	}

	target := r.Target
	if target == "" {
		target = TargetFor(source)
	}

	return Decision{Source: source, Target: target}, nil
}
