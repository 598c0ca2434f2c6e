package models

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Model families that cannot translate text
var nonChatMarkers = []string{
	"tts", "audio", "dall-e", "image", "embedding", "whisper",
	"moderation", "realtime", "transcribe", "search",
}

type modelClient interface {
	ListModels(ctx context.Context) (openai.ModelsList, error)
}

// Lister handles listing available OpenAI models
type Lister struct {
	apiKey string
	client modelClient
}

// NewLister creates a new model lister
func NewLister(apiKey string) *Lister {
	return &Lister{
		apiKey: apiKey,
		client: openai.NewClient(apiKey),
	}
}

// ChatModels returns the sorted IDs of models usable for translation
func (l *Lister) ChatModels(ctx context.Context) ([]string, error) {
	if l.apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure openai.key in .txcv.yaml")
	}

	models, err := l.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	var chatModels []string
	for _, model := range models.Models {
		if isChatModel(model.ID) {
			chatModels = append(chatModels, model.ID)
		}
	}
	sort.Strings(chatModels)

	return chatModels, nil
}

// ListAvailableModels prints the chat models, marking current
func (l *Lister) ListAvailableModels(ctx context.Context, out io.Writer, current string) error {
	chatModels, err := l.ChatModels(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Chat/Translation Models (for --provider openai):")
	if len(chatModels) == 0 {
		fmt.Fprintln(out, "  No chat models found")
		return nil
	}

	for _, model := range chatModels {
		if model == current {
			fmt.Fprintf(out, "* %s (configured)\n", model)
		} else {
			fmt.Fprintf(out, "  %s\n", model)
		}
	}

	return nil
}

func isChatModel(id string) bool {
	if !strings.Contains(id, "gpt") && !strings.Contains(id, "chat") && !strings.HasPrefix(id, "o") {
		return false
	}
	for _, marker := range nonChatMarkers {
		if strings.Contains(id, marker) {
			return false
		}
	}
	return true
}
