package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nmorales/patrimonio-backend/internal/domain"
)

// assetRepository implements domain.AssetRepository
type assetRepository struct {
	db *DB
}

// NewAssetRepository creates a new asset repository
func NewAssetRepository(db *DB) domain.AssetRepository {
	return &assetRepository{db: db}
}

// Create creates a new asset
func (r *assetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	query := `
		INSERT INTO assets (id, name, kind, fiscal_status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		asset.ID,
		asset.Name,
		asset.Kind,
		asset.FiscalStatus,
		asset.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create asset: %w", err)
	}

	return nil
}

// GetByID retrieves an asset by its ID
func (r *assetRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Asset, error) {
	query := `
		SELECT id, name, kind, fiscal_status, created_at
		FROM assets
		WHERE id = $1
	`

	var asset domain.Asset
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&asset.ID,
		&asset.Name,
		&asset.Kind,
		&asset.FiscalStatus,
		&asset.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("asset %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get asset by ID: %w", err)
	}

	return &asset, nil
}

// List retrieves all assets
func (r *assetRepository) List(ctx context.Context) ([]*domain.Asset, error) {
	query := `
		SELECT id, name, kind, fiscal_status, created_at
		FROM assets
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	defer rows.Close()

	var assets []*domain.Asset
	for rows.Next() {
		var asset domain.Asset
		if err := rows.Scan(
			&asset.ID,
			&asset.Name,
			&asset.Kind,
			&asset.FiscalStatus,
			&asset.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		assets = append(assets, &asset)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assets: %w", err)
	}

	return assets, nil
}

// Update persists changes to an asset's mutable fields
func (r *assetRepository) Update(ctx context.Context, asset *domain.Asset) error {
	query := `
		UPDATE assets
		SET name = $2, kind = $3, fiscal_status = $4
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		asset.ID,
		asset.Name,
		asset.Kind,
		asset.FiscalStatus,
	)
	if err != nil {
		return fmt.Errorf("failed to update asset: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("asset %s: %w", asset.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes an asset and cascades to its valuations, liability and
// liability payments inside one transaction
func (r *assetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	statements := []string{
		`DELETE FROM liability_payments WHERE liability_id IN (SELECT id FROM liabilities WHERE asset_id = $1)`,
		`DELETE FROM liabilities WHERE asset_id = $1`,
		`DELETE FROM valuations WHERE asset_id = $1`,
		`DELETE FROM assets WHERE id = $1`,
	}

	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("failed to delete asset cascade: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit asset delete: %w", err)
	}

	return nil
}

// AddValuation appends an immutable valuation record
func (r *assetRepository) AddValuation(ctx context.Context, v *domain.Valuation) error {
	query := `
		INSERT INTO valuations (id, asset_id, date, value_usd)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query,
		v.ID,
		v.AssetID,
		v.Date,
		v.ValueUSD.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to add valuation: %w", err)
	}

	return nil
}

// ListValuations retrieves an asset's valuations ordered ascending by date
func (r *assetRepository) ListValuations(ctx context.Context, assetID uuid.UUID) ([]*domain.Valuation, error) {
	query := `
		SELECT id, asset_id, date, value_usd
		FROM valuations
		WHERE asset_id = $1
		ORDER BY date ASC
	`

	rows, err := r.db.QueryContext(ctx, query, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list valuations: %w", err)
	}
	defer rows.Close()

	var valuations []*domain.Valuation
	for rows.Next() {
		valuation, err := scanValuation(rows)
		if err != nil {
			return nil, err
		}
		valuations = append(valuations, valuation)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate valuations: %w", err)
	}

	return valuations, nil
}

// GetLatestValuation retrieves the most recent valuation for an asset
func (r *assetRepository) GetLatestValuation(ctx context.Context, assetID uuid.UUID) (*domain.Valuation, error) {
	query := `
		SELECT id, asset_id, date, value_usd
		FROM valuations
		WHERE asset_id = $1
		ORDER BY date DESC
		LIMIT 1
	`

	valuation, err := scanValuation(r.db.QueryRowContext(ctx, query, assetID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no valuation for asset %s: %w", assetID, domain.ErrNotFound)
		}
		return nil, err
	}

	return valuation, nil
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanValuation(row rowScanner) (*domain.Valuation, error) {
	var valuation domain.Valuation
	var valueStr string

	if err := row.Scan(
		&valuation.ID,
		&valuation.AssetID,
		&valuation.Date,
		&valueStr,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan valuation: %w", err)
	}

	value, err := decimal.NewFromString(valueStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse value_usd: %w", err)
	}
	valuation.ValueUSD = value

	return &valuation, nil
}
