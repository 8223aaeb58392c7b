package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AssetKind represents the kind of a durable holding
type AssetKind string

const (
	AssetKindRealEstate AssetKind = "REAL_ESTATE"
	AssetKindVehicle    AssetKind = "VEHICLE"
	AssetKindOther      AssetKind = "OTHER"
)

// FiscalStatus represents whether a record is declared to the tax authority
type FiscalStatus string

const (
	FiscalDeclared   FiscalStatus = "DECLARED"
	FiscalUndeclared FiscalStatus = "UNDECLARED"
)

// Asset represents a durable holding with an independently tracked value.
// Its current value is always the latest Valuation; it is never stored on the
// asset itself.
type Asset struct {
	ID           uuid.UUID
	Name         string
	Kind         AssetKind
	FiscalStatus FiscalStatus
	CreatedAt    time.Time
}

// Valuation is a point-in-time value assertion for an Asset.
// Immutable once created; ordering by date determines "latest".
type Valuation struct {
	ID       uuid.UUID
	AssetID  uuid.UUID
	Date     time.Time
	ValueUSD decimal.Decimal
}

// Validate ensures the asset adheres to domain rules
func (a *Asset) Validate() error {
	if a.Name == "" {
		return errors.New("asset name cannot be empty")
	}

	switch a.Kind {
	case AssetKindRealEstate, AssetKindVehicle, AssetKindOther:
	default:
		return errors.New("asset kind must be REAL_ESTATE, VEHICLE or OTHER")
	}

	switch a.FiscalStatus {
	case FiscalDeclared, FiscalUndeclared:
	default:
		return errors.New("asset fiscal status must be DECLARED or UNDECLARED")
	}

	return nil
}

// Validate ensures the valuation adheres to domain rules
func (v *Valuation) Validate() error {
	if v.AssetID == uuid.Nil {
		return errors.New("valuation must reference an asset")
	}

	if v.Date.IsZero() {
		return errors.New("valuation date cannot be zero")
	}

	if v.ValueUSD.IsNegative() {
		return errors.New("valuation value cannot be negative")
	}

	return nil
}
