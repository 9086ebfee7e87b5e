package interfaces

import (
	"context"
	"time"

	"github.com/SynTaxOp/Stonks/internal/models"
)

// NAVService resolves fund prices. Missing quotes degrade to the latest known
// price rather than failing; the exact flag on NAVForDate distinguishes a real
// quote from that fallback.
type NAVService interface {
	LatestNAV(ctx context.Context, schemeCode int) (float64, error)
	PreviousNAV(ctx context.Context, schemeCode int) (float64, error)
	LatestNAVWithDate(ctx context.Context, schemeCode int) (float64, string, error)

	// NAVForDate resolves the quote for the given IST day epoch: the
	// oldest quote dated at-or-after the day, or the latest known quote
	// (exact=false) when the day is beyond the newest quote.
	NAVForDate(ctx context.Context, schemeCode int, epoch int64) (nav float64, exact bool, err error)

	NAVHistory(ctx context.Context, schemeCode int) ([]models.NAVRow, error)

	// BenchmarkNAVHistory returns the history for a configured benchmark
	// name, or nil when the name is empty.
	BenchmarkNAVHistory(ctx context.Context, benchmark string) ([]models.NAVRow, error)
	BenchmarkSchemeCode(benchmark string) (int, bool)
	Benchmarks() []string

	Nifty50History(ctx context.Context) ([]models.NAVRow, error)
	Nifty100History(ctx context.Context) ([]models.NAVRow, error)

	ListFunds(ctx context.Context) ([]models.Fund, error)
	SearchFunds(ctx context.Context, query string) ([]models.Fund, error)
}

// LedgerService maintains the FIFO lot ledger for user+fund pairs.
type LedgerService interface {
	// Add validates and records a transaction. A SELL consumes unredeemed
	// BUY lots oldest-first and carries the total booked profit.
	Add(ctx context.Context, req models.NewTransactionRequest) (*models.Transaction, error)

	// Delete removes a transaction, reversing its lot consumption when it
	// is a SELL. Redeemed BUYs and non-latest SELLs are rejected.
	Delete(ctx context.Context, id string) (*models.Transaction, error)

	Get(ctx context.Context, id string) (*models.Transaction, error)
	ByUser(ctx context.Context, userID string) ([]*models.Transaction, error)
	ByUserAndFund(ctx context.Context, userID string, fundID int) ([]*models.Transaction, error)
	ByUserAndFundAsc(ctx context.Context, userID string, fundID int) ([]*models.Transaction, error)

	// RedeemableTotals sums unredeemed BUY units and invested amount.
	RedeemableTotals(ctx context.Context, userID string, fundID int) (units float64, invested float64, err error)

	DeleteByUser(ctx context.Context, userID string) (int, error)
	DeleteByUserAndFund(ctx context.Context, userID string, fundID int) (int, error)

	// XIRR computes the money-weighted annualized return over the
	// transactions plus a final inflow of currentValue at now, as a
	// percentage. Best effort: non-convergence yields the last estimate.
	XIRR(transactions []*models.Transaction, currentValue float64, now time.Time) float64
}

// FundService manages holdings and their derived analytics.
type FundService interface {
	Create(ctx context.Context, holding *models.Holding) error
	Get(ctx context.Context, userID string, fundID int) (*models.Holding, error)
	ByUser(ctx context.Context, userID string) ([]*models.Holding, error)
	Update(ctx context.Context, userID string, fundID int, holding *models.Holding) error
	Delete(ctx context.Context, userID string, fundID int) error
	DeleteAllForUser(ctx context.Context, userID string) error

	// Refresh recomputes a holding's denormalized units and invested
	// amount from the ledger.
	Refresh(ctx context.Context, userID string, fundID int) error

	// AddTransaction ensures the holding exists, records the transaction
	// through the ledger, and refreshes the holding.
	AddTransaction(ctx context.Context, req models.NewTransactionRequest) (*models.Transaction, error)
	AddBulkTransactions(ctx context.Context, reqs []models.NewTransactionRequest) (created int, errs []error)
	DeleteTransaction(ctx context.Context, id string) error

	Summary(ctx context.Context, userID string, fundID int) (*models.FundSummary, error)
	SummaryExtra(ctx context.Context, userID string, fundID int) (*models.FundSummaryExtra, error)
	Units(ctx context.Context, userID string, fundID int) ([]models.UnitLot, error)
	Details(ctx context.Context, userID string, fundID int) (*models.FundDetails, error)

	// PerformanceSeries reconstructs the month-by-month value/profit
	// series from the first transaction through the current month.
	PerformanceSeries(ctx context.Context, userID string, fundID int) ([]models.MonthlyPoint, error)

	// RenderPerformanceChart renders the series as a PNG.
	RenderPerformanceChart(ctx context.Context, userID string, fundID int) ([]byte, error)

	// NAVChart returns the fund's quote history, newest first.
	NAVChart(ctx context.Context, fundID int) ([]models.NAVPoint, error)

	RegisterSIP(ctx context.Context, sip *models.SIP) error
}

// SIPService manages recurring investment registrations.
type SIPService interface {
	Add(ctx context.Context, sip *models.SIP) (string, error)
	ByUserAndFund(ctx context.Context, userID string, fundID int) ([]models.SIP, error)
	ByUser(ctx context.Context, userID string) ([]models.SIP, error)
	Delete(ctx context.Context, id string) error
	DeleteByUserAndFund(ctx context.Context, userID string, fundID int) error
	DeleteByUser(ctx context.Context, userID string) error
}

// DashboardService aggregates valuations across all of a user's funds.
type DashboardService interface {
	Dashboard(ctx context.Context, userID string) (*models.Dashboard, error)
	DashboardExtra(ctx context.Context, userID string) (*models.DashboardExtra, error)
	CombinedSeries(ctx context.Context, userID string) ([]models.MonthlyPoint, error)
}
