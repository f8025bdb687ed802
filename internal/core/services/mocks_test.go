package services

import (
	"context"
	"sync"
	"time"

	"github.com/mikepeiman/elemental-craft/internal/core/domain"
	"github.com/mikepeiman/elemental-craft/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockLLM implements driven.LLMService for testing. Responses are served
// from the responses queue in order; once drained, the last entry repeats.
type mockLLM struct {
	mu         sync.Mutex
	model      string
	responses  []mockResponse
	delay      time.Duration
	calls      int
	lastPrompt string
	lastOpts   driven.GenerateOptions
}

type mockResponse struct {
	output string
	err    error
}

func newMockLLM(model, output string) *mockLLM {
	return &mockLLM{
		model:     model,
		responses: []mockResponse{{output: output}},
	}
}

func newMockLLMErr(model string, err error) *mockLLM {
	return &mockLLM{
		model:     model,
		responses: []mockResponse{{err: err}},
	}
}

func (m *mockLLM) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastPrompt = prompt
	m.lastOpts = opts

	idx := m.calls
	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	}
	m.calls++

	resp := m.responses[idx]
	return resp.output, resp.err
}

func (m *mockLLM) ModelName() string {
	return m.model
}

func (m *mockLLM) Ping(_ context.Context) error {
	return nil
}

func (m *mockLLM) Close() error {
	return nil
}

func (m *mockLLM) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	prompts map[string]string
	loadErr error
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.loadErr != nil {
		return "", m.loadErr
	}
	return m.prompts[name], nil
}

func (m *mockPromptStore) Reload() {}

// mockConfigStore implements driven.ConfigStore backed by a plain map.
type mockConfigStore struct {
	values map[string]any
	setErr error
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{values: make(map[string]any)}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *mockConfigStore) GetString(key string) string {
	if s, ok := m.values[key].(string); ok {
		return s
	}
	return ""
}

func (m *mockConfigStore) GetInt(key string) int {
	switch v := m.values[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func (m *mockConfigStore) GetFloat(key string) float64 {
	switch v := m.values[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

func (m *mockConfigStore) GetStringSlice(key string) []string {
	if s, ok := m.values[key].([]string); ok {
		return s
	}
	return nil
}

func (m *mockConfigStore) Set(key string, value any) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *mockConfigStore) Load() error {
	return nil
}

// failingStore wraps a KnowledgeStore and fails selected operations.
type failingStore struct {
	driven.KnowledgeStore
	commitErr error
	listErr   error
}

func (s *failingStore) CommitResolution(ctx context.Context, concept *domain.Concept, combination *domain.Combination) error {
	if s.commitErr != nil {
		return s.commitErr
	}
	return s.KnowledgeStore.CommitResolution(ctx, concept, combination)
}

func (s *failingStore) ListConcepts(ctx context.Context) ([]domain.Concept, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.KnowledgeStore.ListConcepts(ctx)
}

// mockValidator implements driven.ProviderValidator.
type mockValidator struct {
	err       error
	calls     int
	lastEntry domain.ProviderSettings
}

func (m *mockValidator) ValidateProvider(entry domain.ProviderSettings) error {
	m.calls++
	m.lastEntry = entry
	return m.err
}
