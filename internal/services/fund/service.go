// Package fund manages holdings and the analytics derived from their ledgers.
package fund

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/SynTaxOp/Stonks/internal/common"
	"github.com/SynTaxOp/Stonks/internal/interfaces"
	"github.com/SynTaxOp/Stonks/internal/models"
)

// Service implements FundService. Holdings carry denormalized units and
// invested amount; every ledger write is followed by a Refresh so reads stay
// cheap.
type Service struct {
	holdings interfaces.HoldingStorage
	ledger   interfaces.LedgerService
	nav      interfaces.NAVService
	sips     interfaces.SIPService
	logger   *common.Logger
	clock    func() time.Time
}

// NewService creates a new fund service
func NewService(holdings interfaces.HoldingStorage, ledger interfaces.LedgerService, nav interfaces.NAVService, sips interfaces.SIPService, logger *common.Logger) *Service {
	return &Service{
		holdings: holdings,
		ledger:   ledger,
		nav:      nav,
		sips:     sips,
		logger:   logger,
		clock:    time.Now,
	}
}

// SetClock overrides the time source (tests).
func (s *Service) SetClock(clock func() time.Time) { s.clock = clock }

// Create registers a new holding for a user.
func (s *Service) Create(ctx context.Context, holding *models.Holding) error {
	if holding.UserID == "" {
		return fmt.Errorf("holding user ID is required")
	}
	if holding.FundID <= 0 {
		return fmt.Errorf("holding fund ID is required")
	}
	if holding.Benchmark != "" {
		if _, ok := s.nav.BenchmarkSchemeCode(holding.Benchmark); !ok {
			return fmt.Errorf("unknown benchmark %q", holding.Benchmark)
		}
	}

	if existing, err := s.holdings.GetByUserAndFund(ctx, holding.UserID, holding.FundID); err == nil {
		return fmt.Errorf("holding for fund %d already exists with id %s", holding.FundID, existing.ID)
	}

	if holding.ID == "" {
		holding.ID = uuid.NewString()
	}
	now := s.clock()
	holding.CreatedAt = now
	holding.UpdatedAt = now

	if err := s.holdings.Save(ctx, holding); err != nil {
		return err
	}

	s.logger.Info().
		Str("id", holding.ID).
		Str("user", holding.UserID).
		Int("fund", holding.FundID).
		Str("name", holding.FundName).
		Msg("Holding created")
	return nil
}

// Get returns one holding.
func (s *Service) Get(ctx context.Context, userID string, fundID int) (*models.Holding, error) {
	return s.holdings.GetByUserAndFund(ctx, userID, fundID)
}

// ByUser returns all of a user's holdings.
func (s *Service) ByUser(ctx context.Context, userID string) ([]*models.Holding, error) {
	return s.holdings.ByUser(ctx, userID)
}

// Update replaces the mutable fields of a holding.
func (s *Service) Update(ctx context.Context, userID string, fundID int, update *models.Holding) error {
	holding, err := s.holdings.GetByUserAndFund(ctx, userID, fundID)
	if err != nil {
		return err
	}
	if update.Benchmark != "" {
		if _, ok := s.nav.BenchmarkSchemeCode(update.Benchmark); !ok {
			return fmt.Errorf("unknown benchmark %q", update.Benchmark)
		}
	}

	if update.FundName != "" {
		holding.FundName = update.FundName
	}
	holding.IsEmergency = update.IsEmergency
	holding.Tag = update.Tag
	holding.Benchmark = update.Benchmark
	holding.UpdatedAt = s.clock()

	return s.holdings.Save(ctx, holding)
}

// Delete removes a holding together with its ledger and registrations.
func (s *Service) Delete(ctx context.Context, userID string, fundID int) error {
	holding, err := s.holdings.GetByUserAndFund(ctx, userID, fundID)
	if err != nil {
		return err
	}

	if _, err := s.ledger.DeleteByUserAndFund(ctx, userID, fundID); err != nil {
		return fmt.Errorf("failed to delete transactions for fund %d: %w", fundID, err)
	}
	if err := s.sips.DeleteByUserAndFund(ctx, userID, fundID); err != nil {
		return fmt.Errorf("failed to delete SIPs for fund %d: %w", fundID, err)
	}
	if err := s.holdings.Delete(ctx, holding.ID); err != nil {
		return err
	}

	s.logger.Info().Str("user", userID).Int("fund", fundID).Msg("Holding deleted")
	return nil
}

// DeleteAllForUser removes every holding of a user, their ledgers and
// registrations included.
func (s *Service) DeleteAllForUser(ctx context.Context, userID string) error {
	if _, err := s.ledger.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete transactions for user %s: %w", userID, err)
	}
	if err := s.sips.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete SIPs for user %s: %w", userID, err)
	}
	count, err := s.holdings.DeleteByUser(ctx, userID)
	if err != nil {
		return err
	}

	s.logger.Info().Str("user", userID).Int("count", count).Msg("All holdings deleted")
	return nil
}

// Refresh recomputes a holding's denormalized units and invested amount from
// the unredeemed BUY lots.
func (s *Service) Refresh(ctx context.Context, userID string, fundID int) error {
	holding, err := s.holdings.GetByUserAndFund(ctx, userID, fundID)
	if err != nil {
		return err
	}

	units, invested, err := s.ledger.RedeemableTotals(ctx, userID, fundID)
	if err != nil {
		return err
	}

	holding.Units = units
	holding.InvestedAmount = invested
	holding.UpdatedAt = s.clock()
	return s.holdings.Save(ctx, holding)
}

// AddTransaction records a ledger event, creating the holding on first touch
// and refreshing its denormalized totals afterwards.
func (s *Service) AddTransaction(ctx context.Context, req models.NewTransactionRequest) (*models.Transaction, error) {
	if _, err := s.holdings.GetByUserAndFund(ctx, req.UserID, req.FundID); err != nil {
		holding := &models.Holding{
			ID:        uuid.NewString(),
			UserID:    req.UserID,
			FundID:    req.FundID,
			FundName:  req.FundName,
			CreatedAt: s.clock(),
			UpdatedAt: s.clock(),
		}
		if err := s.holdings.Save(ctx, holding); err != nil {
			return nil, fmt.Errorf("failed to create holding for fund %d: %w", req.FundID, err)
		}
		s.logger.Debug().Str("user", req.UserID).Int("fund", req.FundID).Msg("Holding created on first transaction")
	}

	tx, err := s.ledger.Add(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.Refresh(ctx, req.UserID, req.FundID); err != nil {
		return nil, fmt.Errorf("transaction recorded but holding refresh failed: %w", err)
	}
	return tx, nil
}

// AddBulkTransactions records many ledger events, continuing past individual
// failures. Returns the created count and the per-request errors.
func (s *Service) AddBulkTransactions(ctx context.Context, reqs []models.NewTransactionRequest) (int, []error) {
	var errs []error
	created := 0
	for i, req := range reqs {
		if _, err := s.AddTransaction(ctx, req); err != nil {
			errs = append(errs, fmt.Errorf("transaction %d: %w", i, err))
			continue
		}
		created++
	}
	return created, errs
}

// DeleteTransaction removes a ledger event and refreshes the holding.
func (s *Service) DeleteTransaction(ctx context.Context, id string) error {
	tx, err := s.ledger.Delete(ctx, id)
	if err != nil {
		return err
	}
	return s.Refresh(ctx, tx.UserID, tx.FundID)
}

// RegisterSIP records a recurring investment against a holding.
func (s *Service) RegisterSIP(ctx context.Context, sip *models.SIP) error {
	if _, err := s.holdings.GetByUserAndFund(ctx, sip.UserID, sip.FundID); err != nil {
		return fmt.Errorf("no holding for fund %d: %w", sip.FundID, err)
	}
	_, err := s.sips.Add(ctx, sip)
	return err
}
