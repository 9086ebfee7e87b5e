// Package interfaces defines service contracts for Stonks
package interfaces

import (
	"context"

	"github.com/SynTaxOp/Stonks/internal/models"
)

// MFAPIClient fetches mutual fund data from the mfapi.in API.
type MFAPIClient interface {
	// ListFunds returns every known scheme (code + name).
	ListFunds(ctx context.Context) ([]models.Fund, error)

	// FundDetail returns scheme metadata and the full NAV history,
	// newest quote first.
	FundDetail(ctx context.Context, schemeCode int) (*models.FundDetail, error)

	// LatestNAV returns the most recent quote for a scheme.
	LatestNAV(ctx context.Context, schemeCode int) (float64, error)
}
