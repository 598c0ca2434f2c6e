package translation

import "context"

// Port is the remote translation service
type Port interface {
	// Detect returns the language code of text
	Detect(ctx context.Context, text string) (string, error)

	// Translate translates text from source to target
	Translate(ctx context.Context, text, source, target string) (Result, error)

	// Name returns the provider name
	Name() string
}

// Result is a successful translation
type Result struct {
	Source string
	Target string
	Text   string
}
