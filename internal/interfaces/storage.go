package interfaces

import (
	"context"

	"github.com/SynTaxOp/Stonks/internal/models"
)

// TransactionStorage persists ledger transactions.
type TransactionStorage interface {
	Get(ctx context.Context, id string) (*models.Transaction, error)
	Save(ctx context.Context, tx *models.Transaction) error
	Update(ctx context.Context, tx *models.Transaction) error
	Delete(ctx context.Context, id string) error

	// ByUser returns all of a user's transactions in no particular order.
	ByUser(ctx context.Context, userID string) ([]*models.Transaction, error)

	// ByUserAndFund returns one fund's ledger ordered by date ascending,
	// creation time breaking ties.
	ByUserAndFund(ctx context.Context, userID string, fundID int) ([]*models.Transaction, error)

	// ByUserAndFundDesc returns one fund's ledger ordered by date
	// descending, creation time breaking ties.
	ByUserAndFundDesc(ctx context.Context, userID string, fundID int) ([]*models.Transaction, error)

	DeleteByUser(ctx context.Context, userID string) (int, error)
	DeleteByUserAndFund(ctx context.Context, userID string, fundID int) (int, error)
}

// HoldingStorage persists user fund positions.
type HoldingStorage interface {
	Get(ctx context.Context, id string) (*models.Holding, error)
	GetByUserAndFund(ctx context.Context, userID string, fundID int) (*models.Holding, error)
	ByUser(ctx context.Context, userID string) ([]*models.Holding, error)
	Save(ctx context.Context, holding *models.Holding) error
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) (int, error)
}

// SIPStorage persists recurring investment registrations.
type SIPStorage interface {
	Get(ctx context.Context, id string) (*models.SIP, error)
	ByUserAndFund(ctx context.Context, userID string, fundID int) ([]models.SIP, error)
	ByUser(ctx context.Context, userID string) ([]models.SIP, error)
	Save(ctx context.Context, sip *models.SIP) error
	Delete(ctx context.Context, id string) error
	DeleteByUserAndFund(ctx context.Context, userID string, fundID int) (int, error)
	DeleteByUser(ctx context.Context, userID string) (int, error)
}

// StorageManager bundles the stores behind one lifecycle.
type StorageManager interface {
	Transactions() TransactionStorage
	Holdings() HoldingStorage
	SIPs() SIPStorage
	Close() error
}
