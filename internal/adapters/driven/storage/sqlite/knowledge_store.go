package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mikepeiman/elemental-craft/internal/core/domain"
	"github.com/mikepeiman/elemental-craft/internal/core/ports/driven"
)

// knowledgeStore implements driven.KnowledgeStore.
type knowledgeStore struct {
	store *Store
}

var _ driven.KnowledgeStore = (*knowledgeStore)(nil)

// GetConcept retrieves a concept by label, case-insensitively.
func (s *knowledgeStore) GetConcept(ctx context.Context, label string) (*domain.Concept, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, label, parents, rationale, alternates, created_at
		FROM concepts
		WHERE label = ? COLLATE NOCASE
	`, label)

	return scanConcept(row)
}

// GetCombination retrieves a combination entry by pair key.
func (s *knowledgeStore) GetCombination(ctx context.Context, key string) (*domain.Combination, error) {
	var combination domain.Combination
	err := s.store.db.QueryRowContext(ctx, `
		SELECT key, result_label, created_at
		FROM combinations
		WHERE key = ?
	`, key).Scan(&combination.Key, &combination.ResultLabel, &combination.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying combination: %w", err)
	}
	return &combination, nil
}

// CommitResolution atomically records a concept and its combination entry.
// The combination insert uses INSERT OR IGNORE; zero affected rows means
// another writer holds the key, reported as domain.ErrAlreadyExists. A
// concept whose label already exists is left untouched.
func (s *knowledgeStore) CommitResolution(ctx context.Context, concept *domain.Concept, combination *domain.Combination) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after commit is a no-op.

	res, err := tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO combinations (key, result_label, created_at)
		VALUES (?, ?, ?)
	`, combination.Key, combination.ResultLabel, combination.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting combination: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking combination insert: %w", err)
	}
	if affected == 0 {
		return domain.ErrAlreadyExists
	}

	parents, err := json.Marshal(concept.Parents)
	if err != nil {
		return fmt.Errorf("marshalling parents: %w", err)
	}
	alternates, err := json.Marshal(concept.Alternates)
	if err != nil {
		return fmt.Errorf("marshalling alternates: %w", err)
	}

	// The label index is case-insensitive, so a concept that already
	// exists under any casing is kept as-is.
	if _, err := tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO concepts (id, label, parents, rationale, alternates, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, concept.ID, concept.Label, string(parents), concept.Rationale, string(alternates), concept.CreatedAt); err != nil {
		return fmt.Errorf("inserting concept: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing resolution: %w", err)
	}
	return nil
}

// ListConcepts returns all concepts ordered by creation time.
func (s *knowledgeStore) ListConcepts(ctx context.Context) ([]domain.Concept, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, label, parents, rationale, alternates, created_at
		FROM concepts
		ORDER BY created_at, label
	`)
	if err != nil {
		return nil, fmt.Errorf("querying concepts: %w", err)
	}
	defer rows.Close()

	var concepts []domain.Concept
	for rows.Next() {
		concept, err := scanConcept(rows)
		if err != nil {
			return nil, err
		}
		concepts = append(concepts, *concept)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating concepts: %w", err)
	}
	return concepts, nil
}

// SeedConcepts inserts base elements with no parents. Labels already
// present are left untouched.
func (s *knowledgeStore) SeedConcepts(ctx context.Context, labels []string) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after commit is a no-op.

	now := time.Now().UTC()
	for _, label := range labels {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO concepts (id, label, parents, rationale, alternates, created_at)
			VALUES (?, ?, '[]', '', '[]', ?)
		`, uuid.New().String(), label, now); err != nil {
			return fmt.Errorf("seeding concept %q: %w", label, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing seeds: %w", err)
	}
	return nil
}

// Close closes the underlying store.
func (s *knowledgeStore) Close() error {
	return s.store.Close()
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanConcept.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanConcept reads one concept row, decoding the JSON-encoded slices.
func scanConcept(row rowScanner) (*domain.Concept, error) {
	var concept domain.Concept
	var parents, alternates string

	err := row.Scan(&concept.ID, &concept.Label, &parents, &concept.Rationale, &alternates, &concept.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning concept: %w", err)
	}

	if err := json.Unmarshal([]byte(parents), &concept.Parents); err != nil {
		return nil, fmt.Errorf("unmarshalling parents: %w", err)
	}
	if err := json.Unmarshal([]byte(alternates), &concept.Alternates); err != nil {
		return nil, fmt.Errorf("unmarshalling alternates: %w", err)
	}
	return &concept, nil
}
