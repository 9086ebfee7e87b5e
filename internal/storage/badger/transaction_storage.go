package badger

import (
	"context"
	"fmt"
	"sort"

	"github.com/timshannon/badgerhold/v4"

	"github.com/SynTaxOp/Stonks/internal/common"
	"github.com/SynTaxOp/Stonks/internal/models"
)

type transactionStorage struct {
	store  *Store
	logger *common.Logger
}

// NewTransactionStorage creates a TransactionStorage backed by BadgerHold.
func NewTransactionStorage(store *Store, logger *common.Logger) *transactionStorage {
	return &transactionStorage{store: store, logger: logger}
}

func (s *transactionStorage) Get(_ context.Context, id string) (*models.Transaction, error) {
	var tx models.Transaction
	err := s.store.db.Get(id, &tx)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("transaction '%s' not found", id)
		}
		return nil, fmt.Errorf("failed to get transaction '%s': %w", id, err)
	}
	return &tx, nil
}

func (s *transactionStorage) Save(_ context.Context, tx *models.Transaction) error {
	if err := s.store.db.Upsert(tx.ID, tx); err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	s.logger.Debug().Str("id", tx.ID).Msg("Transaction saved")
	return nil
}

func (s *transactionStorage) Update(_ context.Context, tx *models.Transaction) error {
	if err := s.store.db.Update(tx.ID, tx); err != nil {
		if err == badgerhold.ErrNotFound {
			return fmt.Errorf("transaction '%s' not found", tx.ID)
		}
		return fmt.Errorf("failed to update transaction '%s': %w", tx.ID, err)
	}
	return nil
}

func (s *transactionStorage) Delete(_ context.Context, id string) error {
	err := s.store.db.Delete(id, models.Transaction{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete transaction '%s': %w", id, err)
	}
	return nil
}

func (s *transactionStorage) ByUser(_ context.Context, userID string) ([]*models.Transaction, error) {
	var txs []models.Transaction
	if err := s.store.db.Find(&txs, badgerhold.Where("UserID").Eq(userID).Index("UserID")); err != nil {
		return nil, fmt.Errorf("failed to query transactions for user '%s': %w", userID, err)
	}
	return toPointers(txs), nil
}

func (s *transactionStorage) byUserAndFund(userID string, fundID int) ([]*models.Transaction, error) {
	var txs []models.Transaction
	query := badgerhold.Where("UserID").Eq(userID).Index("UserID").And("FundID").Eq(fundID)
	if err := s.store.db.Find(&txs, query); err != nil {
		return nil, fmt.Errorf("failed to query transactions for user '%s' fund %d: %w", userID, fundID, err)
	}
	return toPointers(txs), nil
}

func (s *transactionStorage) ByUserAndFund(_ context.Context, userID string, fundID int) ([]*models.Transaction, error) {
	txs, err := s.byUserAndFund(userID, fundID)
	if err != nil {
		return nil, err
	}
	sortAscending(txs)
	return txs, nil
}

func (s *transactionStorage) ByUserAndFundDesc(_ context.Context, userID string, fundID int) ([]*models.Transaction, error) {
	txs, err := s.byUserAndFund(userID, fundID)
	if err != nil {
		return nil, err
	}
	sortDescending(txs)
	return txs, nil
}

func (s *transactionStorage) DeleteByUser(_ context.Context, userID string) (int, error) {
	var txs []models.Transaction
	query := badgerhold.Where("UserID").Eq(userID).Index("UserID")
	if err := s.store.db.Find(&txs, query); err != nil {
		return 0, fmt.Errorf("failed to query transactions for user '%s': %w", userID, err)
	}
	if err := s.store.db.DeleteMatching(models.Transaction{}, query); err != nil {
		return 0, fmt.Errorf("failed to delete transactions for user '%s': %w", userID, err)
	}
	return len(txs), nil
}

func (s *transactionStorage) DeleteByUserAndFund(_ context.Context, userID string, fundID int) (int, error) {
	var txs []models.Transaction
	query := badgerhold.Where("UserID").Eq(userID).Index("UserID").And("FundID").Eq(fundID)
	if err := s.store.db.Find(&txs, query); err != nil {
		return 0, fmt.Errorf("failed to query transactions for user '%s' fund %d: %w", userID, fundID, err)
	}
	if err := s.store.db.DeleteMatching(models.Transaction{}, query); err != nil {
		return 0, fmt.Errorf("failed to delete transactions for user '%s' fund %d: %w", userID, fundID, err)
	}
	return len(txs), nil
}

func toPointers(txs []models.Transaction) []*models.Transaction {
	out := make([]*models.Transaction, len(txs))
	for i := range txs {
		out[i] = &txs[i]
	}
	return out
}

// sortAscending orders by date then creation time, so a split lot carrying
// its original purchase date sorts right after its sibling.
func sortAscending(txs []*models.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		if txs[i].Date != txs[j].Date {
			return txs[i].Date < txs[j].Date
		}
		return txs[i].CreatedAt.Before(txs[j].CreatedAt)
	})
}

func sortDescending(txs []*models.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		if txs[i].Date != txs[j].Date {
			return txs[i].Date > txs[j].Date
		}
		return txs[i].CreatedAt.After(txs[j].CreatedAt)
	})
}
