package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"codeberg.org/snonux/txcv/internal/translation"
)

// MockPort mocks a translation provider. It is safe for concurrent use.
type MockPort struct {
	Detected     map[string]string        // word -> language code
	Translations map[string]string        // word -> translated text
	Delays       map[string]time.Duration // word -> latency before answering
	Errors       map[string]error         // word -> error returned by Translate

	// RateLimits makes the first N Translate calls for a word fail with a
	// rate-limit rejection
	RateLimits map[string]int

	mu    sync.Mutex
	calls []string
	seen  map[string]int
}

// Detect mocks language detection
func (m *MockPort) Detect(ctx context.Context, text string) (string, error) {
	m.record(fmt.Sprintf("Detect: %s", text))

	if lang, ok := m.Detected[text]; ok {
		return lang, nil
	}
	return "", &translation.APIError{
		Kind:     translation.KindLanguageRecognition,
		Provider: m.Name(),
		Code:     translation.TencentCodeLanguageRecognition,
		Message:  "mock cannot recognise " + text,
	}
}

// Translate mocks translating text
func (m *MockPort) Translate(ctx context.Context, text, source, target string) (translation.Result, error) {
	attempt := m.record(fmt.Sprintf("Translate: %s (%s->%s)", text, source, target))

	if d, ok := m.Delays[text]; ok {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return translation.Result{}, ctx.Err()
		}
	}

	if attempt <= m.RateLimits[text] {
		return translation.Result{}, &translation.APIError{
			Kind:     translation.KindRateLimited,
			Provider: m.Name(),
			Code:     translation.TencentCodeRateLimited,
			Message:  "mock rate limit",
		}
	}

	if err, ok := m.Errors[text]; ok {
		return translation.Result{}, err
	}

	if translated, ok := m.Translations[text]; ok {
		return translation.Result{Source: source, Target: target, Text: translated}, nil
	}

	// Default mock translation
	return translation.Result{Source: source, Target: target, Text: fmt.Sprintf("mock translation of %s", text)}, nil
}

// Name returns the mock provider name
func (m *MockPort) Name() string {
	return "mock"
}

// Calls returns a copy of the recorded calls
func (m *MockPort) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]string, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// CallCount returns how often call was recorded
func (m *MockPort) CallCount(call string) int {
	count := 0
	for _, c := range m.Calls() {
		if c == call {
			count++
		}
	}
	return count
}

// record stores call and returns how often it has been seen, including this time
func (m *MockPort) record(call string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.seen == nil {
		m.seen = make(map[string]int)
	}
	m.calls = append(m.calls, call)
	m.seen[call]++
	return m.seen[call]
}

// MockPrompter mocks interactive input
type MockPrompter struct {
	Answers []string // returned in order by Input and Password
	Err     error    // returned once Answers are used up; nil means empty answers

	mu      sync.Mutex
	Prompts []string
}

// Input mocks reading a line
func (m *MockPrompter) Input(ctx context.Context, label string) (string, error) {
	return m.next("input: " + label)
}

// Password mocks reading masked input
func (m *MockPrompter) Password(ctx context.Context, label string) (string, error) {
	return m.next("password: " + label)
}

func (m *MockPrompter) next(prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Prompts = append(m.Prompts, prompt)
	if len(m.Answers) == 0 {
		return "", m.Err
	}
	answer := m.Answers[0]
	m.Answers = m.Answers[1:]
	return answer, nil
}
