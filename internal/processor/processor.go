package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"codeberg.org/snonux/txcv/internal/batch"
	"codeberg.org/snonux/txcv/internal/credentials"
	"codeberg.org/snonux/txcv/internal/history"
	"codeberg.org/snonux/txcv/internal/ratelimit"
	"codeberg.org/snonux/txcv/internal/translation"
)

// Printer writes a translated word
type Printer interface {
	Print(word, translated string) error
}

// Recorder stores completed translations
type Recorder interface {
	Record(ctx context.Context, entry history.Entry) error
}

// Options configures a Processor
type Options struct {
	Source      string           // Source language override
	Target      string           // Target language override
	MaxAttempts int              // Cap on calls per remote operation, 0 for unlimited
	RateLimit   ratelimit.Config // Token bucket used for every batch
}

// Processor runs translations in batch, pipe and interactive mode
type Processor struct {
	port       translation.Port
	translator *translation.Translator
	printer    Printer
	recorder   Recorder
	rateLimit  ratelimit.Config
}

// NewProcessor creates a new processor. recorder may be nil to skip history.
func NewProcessor(port translation.Port, printer Printer, recorder Recorder, opts Options) *Processor {
	return &Processor{
		port: port,
		translator: translation.NewTranslator(port, translation.Options{
			Source:      opts.Source,
			Target:      opts.Target,
			MaxAttempts: opts.MaxAttempts,
		}),
		printer:   printer,
		recorder:  recorder,
		rateLimit: opts.RateLimit,
	}
}

// NewPort builds the configured translation provider. Tencent credentials
// come from store; when prompter is nil (pipe mode) they must already be
// stored.
func NewPort(ctx context.Context, config *translation.Config, store credentials.Store, prompter credentials.Prompter) (translation.Port, error) {
	if config.Provider == translation.ProviderTencent || config.Provider == "" {
		creds, err := credentials.Resolve(ctx, store, prompter)
		if errors.Is(err, credentials.ErrCredentialMissing) {
			return nil, fmt.Errorf("%w: run txcv in a terminal once to enter your Tencent Cloud credentials", err)
		}
		if err != nil {
			return nil, err
		}

		config.TencentSecretID = creds.SecretID
		config.TencentSecretKey = creds.SecretKey
		config.TencentRegion = creds.Region
	}

	return translation.NewProvider(config)
}

// ProcessBatch translates words concurrently and prints them in input order.
// Every call uses a fresh token bucket.
func (p *Processor) ProcessBatch(ctx context.Context, words []string) error {
	if len(words) == 0 {
		return nil
	}

	bucket := ratelimit.New(p.rateLimit)
	slog.Debug("starting batch",
		slog.Int("words", len(words)),
		slog.Int64("capacity", bucket.Capacity()))

	scheduler := batch.NewScheduler(bucket, p.translator.TranslateWord)
	return scheduler.Run(ctx, words, func(job batch.Job) error {
		return p.emit(ctx, job.Word, job.Result)
	})
}

// ProcessBatchFile translates the words listed in filename
func (p *Processor) ProcessBatchFile(ctx context.Context, filename string) error {
	words, err := batch.ReadBatchFile(filename)
	if err != nil {
		return err
	}
	return p.ProcessBatch(ctx, words)
}

// ProcessText translates r's whole content as one text
func (p *Processor) ProcessText(ctx context.Context, r io.Reader) error {
	text, err := batch.ReadText(r)
	if err != nil {
		return err
	}
	if text == "" {
		return fmt.Errorf("no input on stdin")
	}
	return p.ProcessWord(ctx, text)
}

// ProcessWord translates and prints a single word
func (p *Processor) ProcessWord(ctx context.Context, word string) error {
	result, err := p.translator.TranslateWord(ctx, word)
	if err != nil {
		return err
	}
	return p.emit(ctx, word, result)
}

// RunInteractive asks for words until the answer is empty or input ends
func (p *Processor) RunInteractive(ctx context.Context, prompter credentials.Prompter) error {
	for {
		word, err := prompter.Input(ctx, "word")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		word = strings.TrimSpace(word)
		if word == "" {
			return nil
		}

		if err := p.ProcessWord(ctx, word); err != nil {
			return err
		}
	}
}

func (p *Processor) emit(ctx context.Context, word string, result translation.Result) error {
	if err := p.printer.Print(word, result.Text); err != nil {
		return fmt.Errorf("failed to print '%s': %w", word, err)
	}

	if p.recorder == nil {
		return nil
	}

	entry := history.Entry{
		Word:        word,
		Translation: result.Text,
		Source:      result.Source,
		Target:      result.Target,
		Provider:    p.port.Name(),
	}
	if err := p.recorder.Record(ctx, entry); err != nil {
		slog.Warn("failed to record history", slog.String("word", word), slog.String("error", err.Error()))
	}

	return nil
}

// Lister returns recent history entries
type Lister interface {
	Recent(ctx context.Context, n int) ([]history.Entry, error)
}

// ShowHistory prints the n most recent translations, oldest first
func ShowHistory(ctx context.Context, lister Lister, n int, out io.Writer) error {
	entries, err := lister.Recent(ctx, n)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No translations recorded yet")
		return nil
	}

	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		fmt.Fprintf(out, "%s  %s -> %s  (%s->%s, %s)\n",
			e.CreatedAt.Format("2006-01-02 15:04"), e.Word, e.Translation, e.Source, e.Target, e.Provider)
	}
	return nil
}
