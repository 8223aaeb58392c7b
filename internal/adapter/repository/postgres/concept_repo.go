package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nmorales/patrimonio-backend/internal/domain"
)

// conceptRepository implements domain.ConceptRepository
type conceptRepository struct {
	db *DB
}

// NewConceptRepository creates a new concept repository
func NewConceptRepository(db *DB) domain.ConceptRepository {
	return &conceptRepository{db: db}
}

// Create creates a new concept
func (r *conceptRepository) Create(ctx context.Context, c *domain.Concept) error {
	query := `
		INSERT INTO concepts (id, name, kind, nature)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query, c.ID, c.Name, c.Kind, c.Nature)
	if err != nil {
		return fmt.Errorf("failed to create concept: %w", err)
	}

	return nil
}

// GetByID retrieves a concept by its ID
func (r *conceptRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Concept, error) {
	query := `SELECT id, name, kind, nature FROM concepts WHERE id = $1`

	var c domain.Concept
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Kind, &c.Nature)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("concept %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get concept by ID: %w", err)
	}

	return &c, nil
}

// GetByNameAndKind retrieves a concept by its unique (name, kind) pair
func (r *conceptRepository) GetByNameAndKind(ctx context.Context, name string, kind domain.MovementKind) (*domain.Concept, error) {
	query := `SELECT id, name, kind, nature FROM concepts WHERE name = $1 AND kind = $2`

	var c domain.Concept
	err := r.db.QueryRowContext(ctx, query, name, kind).Scan(&c.ID, &c.Name, &c.Kind, &c.Nature)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("concept %q (%s): %w", name, kind, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get concept by name and kind: %w", err)
	}

	return &c, nil
}

// List retrieves all concepts
func (r *conceptRepository) List(ctx context.Context) ([]*domain.Concept, error) {
	query := `SELECT id, name, kind, nature FROM concepts ORDER BY kind, name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list concepts: %w", err)
	}
	defer rows.Close()

	var concepts []*domain.Concept
	for rows.Next() {
		var c domain.Concept
		if err := rows.Scan(&c.ID, &c.Name, &c.Kind, &c.Nature); err != nil {
			return nil, fmt.Errorf("failed to scan concept: %w", err)
		}
		concepts = append(concepts, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate concepts: %w", err)
	}

	return concepts, nil
}
