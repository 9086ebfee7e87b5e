package badger

import (
	"context"
	"fmt"

	"github.com/timshannon/badgerhold/v4"

	"github.com/SynTaxOp/Stonks/internal/common"
	"github.com/SynTaxOp/Stonks/internal/models"
)

type holdingStorage struct {
	store  *Store
	logger *common.Logger
}

// NewHoldingStorage creates a HoldingStorage backed by BadgerHold.
func NewHoldingStorage(store *Store, logger *common.Logger) *holdingStorage {
	return &holdingStorage{store: store, logger: logger}
}

func (s *holdingStorage) Get(_ context.Context, id string) (*models.Holding, error) {
	var holding models.Holding
	err := s.store.db.Get(id, &holding)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("holding '%s' not found", id)
		}
		return nil, fmt.Errorf("failed to get holding '%s': %w", id, err)
	}
	return &holding, nil
}

func (s *holdingStorage) GetByUserAndFund(_ context.Context, userID string, fundID int) (*models.Holding, error) {
	var holdings []models.Holding
	query := badgerhold.Where("UserID").Eq(userID).Index("UserID").And("FundID").Eq(fundID)
	if err := s.store.db.Find(&holdings, query); err != nil {
		return nil, fmt.Errorf("failed to query holding for user '%s' fund %d: %w", userID, fundID, err)
	}
	if len(holdings) == 0 {
		return nil, fmt.Errorf("holding for user '%s' fund %d not found", userID, fundID)
	}
	return &holdings[0], nil
}

func (s *holdingStorage) Save(_ context.Context, holding *models.Holding) error {
	if err := s.store.db.Upsert(holding.ID, holding); err != nil {
		return fmt.Errorf("failed to save holding: %w", err)
	}
	s.logger.Debug().Str("id", holding.ID).Int("fund", holding.FundID).Msg("Holding saved")
	return nil
}

func (s *holdingStorage) ByUser(_ context.Context, userID string) ([]*models.Holding, error) {
	var holdings []models.Holding
	if err := s.store.db.Find(&holdings, badgerhold.Where("UserID").Eq(userID).Index("UserID")); err != nil {
		return nil, fmt.Errorf("failed to query holdings for user '%s': %w", userID, err)
	}
	out := make([]*models.Holding, len(holdings))
	for i := range holdings {
		out[i] = &holdings[i]
	}
	return out, nil
}

func (s *holdingStorage) Delete(_ context.Context, id string) error {
	err := s.store.db.Delete(id, models.Holding{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete holding '%s': %w", id, err)
	}
	return nil
}

func (s *holdingStorage) DeleteByUser(_ context.Context, userID string) (int, error) {
	var holdings []models.Holding
	query := badgerhold.Where("UserID").Eq(userID).Index("UserID")
	if err := s.store.db.Find(&holdings, query); err != nil {
		return 0, fmt.Errorf("failed to query holdings for user '%s': %w", userID, err)
	}
	if err := s.store.db.DeleteMatching(models.Holding{}, query); err != nil {
		return 0, fmt.Errorf("failed to delete holdings for user '%s': %w", userID, err)
	}
	return len(holdings), nil
}
