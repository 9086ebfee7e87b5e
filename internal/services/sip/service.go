// Package sip manages recurring investment registrations.
package sip

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/SynTaxOp/Stonks/internal/common"
	"github.com/SynTaxOp/Stonks/internal/interfaces"
	"github.com/SynTaxOp/Stonks/internal/models"
)

// Service implements SIPService.
type Service struct {
	storage interfaces.SIPStorage
	logger  *common.Logger
}

// NewService creates a new SIP service
func NewService(storage interfaces.SIPStorage, logger *common.Logger) *Service {
	return &Service{storage: storage, logger: logger}
}

// Add registers a recurring investment and returns its ID.
func (s *Service) Add(ctx context.Context, sip *models.SIP) (string, error) {
	if sip.Amount <= 0 {
		return "", fmt.Errorf("SIP amount must be positive, got %.2f", sip.Amount)
	}
	if sip.DayOfMonth < 1 || sip.DayOfMonth > 31 {
		return "", fmt.Errorf("SIP day of month must be between 1 and 31, got %d", sip.DayOfMonth)
	}

	if sip.ID == "" {
		sip.ID = uuid.NewString()
	}
	if sip.CreatedAt.IsZero() {
		sip.CreatedAt = time.Now()
	}
	sip.Active = true
	if err := s.storage.Save(ctx, sip); err != nil {
		return "", err
	}

	s.logger.Info().
		Str("id", sip.ID).
		Str("user", sip.UserID).
		Int("fund", sip.FundID).
		Float64("amount", sip.Amount).
		Msg("SIP registered")
	return sip.ID, nil
}

// ByUserAndFund lists one fund's registrations.
func (s *Service) ByUserAndFund(ctx context.Context, userID string, fundID int) ([]models.SIP, error) {
	return s.storage.ByUserAndFund(ctx, userID, fundID)
}

// ByUser lists all of a user's registrations.
func (s *Service) ByUser(ctx context.Context, userID string) ([]models.SIP, error) {
	return s.storage.ByUser(ctx, userID)
}

// Delete removes one registration.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.storage.Delete(ctx, id)
}

// DeleteByUserAndFund removes one fund's registrations.
func (s *Service) DeleteByUserAndFund(ctx context.Context, userID string, fundID int) error {
	count, err := s.storage.DeleteByUserAndFund(ctx, userID, fundID)
	if err != nil {
		return err
	}
	s.logger.Debug().Str("user", userID).Int("fund", fundID).Int("count", count).Msg("SIPs deleted")
	return nil
}

// DeleteByUser removes all of a user's registrations.
func (s *Service) DeleteByUser(ctx context.Context, userID string) error {
	count, err := s.storage.DeleteByUser(ctx, userID)
	if err != nil {
		return err
	}
	s.logger.Debug().Str("user", userID).Int("count", count).Msg("SIPs deleted")
	return nil
}
