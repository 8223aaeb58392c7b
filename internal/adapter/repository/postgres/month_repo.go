package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nmorales/patrimonio-backend/internal/domain"
)

// monthRepository implements domain.MonthRepository
type monthRepository struct {
	db *DB
}

// NewMonthRepository creates a new month repository
func NewMonthRepository(db *DB) domain.MonthRepository {
	return &monthRepository{db: db}
}

// Create creates a new month record
func (r *monthRepository) Create(ctx context.Context, m *domain.Month) error {
	query := `
		INSERT INTO months (id, year, month, status, open_date, close_date)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	var closeDate interface{}
	if m.CloseDate != nil {
		closeDate = *m.CloseDate
	}

	_, err := r.db.ExecContext(ctx, query,
		m.ID,
		m.Year,
		int(m.Month),
		m.Status,
		m.OpenDate,
		closeDate,
	)
	if err != nil {
		return fmt.Errorf("failed to create month: %w", err)
	}

	return nil
}

// GetByID retrieves a month by its ID
func (r *monthRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Month, error) {
	query := `SELECT id, year, month, status, open_date, close_date FROM months WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id), fmt.Sprintf("month %s", id))
}

// GetByYearMonth retrieves the month record for a (year, month) pair
func (r *monthRepository) GetByYearMonth(ctx context.Context, year int, month time.Month) (*domain.Month, error) {
	query := `SELECT id, year, month, status, open_date, close_date FROM months WHERE year = $1 AND month = $2`
	return r.scanOne(r.db.QueryRowContext(ctx, query, year, int(month)), fmt.Sprintf("month %d-%02d", year, int(month)))
}

// Update persists lifecycle changes (closing)
func (r *monthRepository) Update(ctx context.Context, m *domain.Month) error {
	query := `
		UPDATE months
		SET status = $2, close_date = $3
		WHERE id = $1
	`

	var closeDate interface{}
	if m.CloseDate != nil {
		closeDate = *m.CloseDate
	}

	result, err := r.db.ExecContext(ctx, query, m.ID, m.Status, closeDate)
	if err != nil {
		return fmt.Errorf("failed to update month: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("month %s: %w", m.ID, domain.ErrNotFound)
	}

	return nil
}

func (r *monthRepository) scanOne(row *sql.Row, label string) (*domain.Month, error) {
	var m domain.Month
	var monthInt int
	var closeDate sql.NullTime

	err := row.Scan(&m.ID, &m.Year, &monthInt, &m.Status, &m.OpenDate, &closeDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", label, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to scan month: %w", err)
	}

	m.Month = time.Month(monthInt)
	if closeDate.Valid {
		m.CloseDate = &closeDate.Time
	}

	return &m, nil
}
