package cli

import (
	"context"

	"github.com/mikepeiman/elemental-craft/internal/core/domain"
	"github.com/mikepeiman/elemental-craft/internal/core/ports/driving"
)

// --- Mock implementations ---

type mockResolverService struct {
	concept *domain.Concept
	err     error
	calls   int
}

func (m *mockResolverService) Resolve(_ context.Context, _, _ string) (*domain.Concept, error) {
	m.calls++
	return m.concept, m.err
}

type mockElementService struct {
	concepts []domain.Concept
	listErr  error
	seedErr  error
	seeded   bool
}

func (m *mockElementService) List(_ context.Context) ([]domain.Concept, error) {
	return m.concepts, m.listErr
}

func (m *mockElementService) Seed(_ context.Context) error {
	m.seeded = true
	return m.seedErr
}

type mockBatchDriver struct {
	summary domain.BatchSummary
	err     error
	count   int
}

func (m *mockBatchDriver) Run(_ context.Context, count int) (domain.BatchSummary, error) {
	m.count = count
	return m.summary, m.err
}

func (m *mockBatchDriver) Stop() {}

type mockSettingsService struct {
	settings    *domain.AppSettings
	getErr      error
	saveErr     error
	validateErr error
	saved       *domain.AppSettings
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.settings == nil {
		return domain.DefaultAppSettings(), m.getErr
	}
	return m.settings, m.getErr
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.saved = settings
	return m.saveErr
}

func (m *mockSettingsService) ValidateProvider(_ domain.ProviderSettings) error {
	return m.validateErr
}

// setupTestServices wires mock services into the package-level state and
// returns a cleanup function restoring the previous wiring.
func setupTestServices() func() {
	return setupTestServicesWith(
		&mockResolverService{concept: &domain.Concept{
			ID:      "c-steam",
			Label:   "Steam",
			Parents: []string{"Fire", "Water"},
		}},
		&mockElementService{concepts: []domain.Concept{
			{ID: "c-fire", Label: "Fire"},
			{ID: "c-water", Label: "Water"},
			{ID: "c-steam", Label: "Steam", Parents: []string{"Fire", "Water"}},
		}},
		&mockBatchDriver{summary: domain.BatchSummary{Attempted: 2, Resolved: 1, CacheHits: 1}},
		&mockSettingsService{},
	)
}

func setupTestServicesWith(
	resolver driving.ResolverService,
	elements driving.ElementService,
	batch driving.BatchDriver,
	settings driving.SettingsService,
) func() {
	oldSettings := settingsService
	oldElements := elementService
	oldResolverFactory := resolverFactory
	oldBatchFactory := batchFactory

	Configure(&Config{
		Settings: settings,
		Elements: elements,
		NewResolver: func() (driving.ResolverService, func(), error) {
			return resolver, func() {}, nil
		},
		NewBatch: func(_ domain.BatchSettings) (driving.BatchDriver, func(), error) {
			return batch, func() {}, nil
		},
	})

	return func() {
		settingsService = oldSettings
		elementService = oldElements
		resolverFactory = oldResolverFactory
		batchFactory = oldBatchFactory
	}
}
