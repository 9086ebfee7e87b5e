package badger

import (
	"context"
	"fmt"

	"github.com/timshannon/badgerhold/v4"

	"github.com/SynTaxOp/Stonks/internal/common"
	"github.com/SynTaxOp/Stonks/internal/models"
)

type sipStorage struct {
	store  *Store
	logger *common.Logger
}

// NewSIPStorage creates a SIPStorage backed by BadgerHold.
func NewSIPStorage(store *Store, logger *common.Logger) *sipStorage {
	return &sipStorage{store: store, logger: logger}
}

func (s *sipStorage) Get(_ context.Context, id string) (*models.SIP, error) {
	var sip models.SIP
	err := s.store.db.Get(id, &sip)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("SIP '%s' not found", id)
		}
		return nil, fmt.Errorf("failed to get SIP '%s': %w", id, err)
	}
	return &sip, nil
}

func (s *sipStorage) Save(_ context.Context, sip *models.SIP) error {
	if err := s.store.db.Upsert(sip.ID, sip); err != nil {
		return fmt.Errorf("failed to save SIP: %w", err)
	}
	s.logger.Debug().Str("id", sip.ID).Int("fund", sip.FundID).Msg("SIP saved")
	return nil
}

func (s *sipStorage) ByUser(_ context.Context, userID string) ([]models.SIP, error) {
	var sips []models.SIP
	if err := s.store.db.Find(&sips, badgerhold.Where("UserID").Eq(userID).Index("UserID")); err != nil {
		return nil, fmt.Errorf("failed to query SIPs for user '%s': %w", userID, err)
	}
	return sips, nil
}

func (s *sipStorage) ByUserAndFund(_ context.Context, userID string, fundID int) ([]models.SIP, error) {
	var sips []models.SIP
	query := badgerhold.Where("UserID").Eq(userID).Index("UserID").And("FundID").Eq(fundID)
	if err := s.store.db.Find(&sips, query); err != nil {
		return nil, fmt.Errorf("failed to query SIPs for user '%s' fund %d: %w", userID, fundID, err)
	}
	return sips, nil
}

func (s *sipStorage) Delete(_ context.Context, id string) error {
	err := s.store.db.Delete(id, models.SIP{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete SIP '%s': %w", id, err)
	}
	return nil
}

func (s *sipStorage) DeleteByUser(_ context.Context, userID string) (int, error) {
	var sips []models.SIP
	query := badgerhold.Where("UserID").Eq(userID).Index("UserID")
	if err := s.store.db.Find(&sips, query); err != nil {
		return 0, fmt.Errorf("failed to query SIPs for user '%s': %w", userID, err)
	}
	if err := s.store.db.DeleteMatching(models.SIP{}, query); err != nil {
		return 0, fmt.Errorf("failed to delete SIPs for user '%s': %w", userID, err)
	}
	return len(sips), nil
}

func (s *sipStorage) DeleteByUserAndFund(_ context.Context, userID string, fundID int) (int, error) {
	var sips []models.SIP
	query := badgerhold.Where("UserID").Eq(userID).Index("UserID").And("FundID").Eq(fundID)
	if err := s.store.db.Find(&sips, query); err != nil {
		return 0, fmt.Errorf("failed to query SIPs for user '%s' fund %d: %w", userID, fundID, err)
	}
	if err := s.store.db.DeleteMatching(models.SIP{}, query); err != nil {
		return 0, fmt.Errorf("failed to delete SIPs for user '%s' fund %d: %w", userID, fundID, err)
	}
	return len(sips), nil
}
