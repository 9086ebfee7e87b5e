// Package ledger maintains the FIFO lot ledger for user+fund pairs.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SynTaxOp/Stonks/internal/common"
	"github.com/SynTaxOp/Stonks/internal/interfaces"
	"github.com/SynTaxOp/Stonks/internal/models"
)

// Validation errors surfaced to callers. The operation is rejected whole; no
// partial mutation occurs.
var (
	ErrUnknownKind    = errors.New("transaction type must be BUY or SELL")
	ErrNoQuantity     = errors.New("exactly one of amount or units must be set, got neither")
	ErrBothQuantities = errors.New("exactly one of amount or units must be set, got both")
	ErrExcessUnits    = errors.New("sell units exceed redeemable balance")
	ErrRedeemedLot    = errors.New("redeemed purchase cannot be deleted")
	ErrNotLatestSell  = errors.New("only the most recent sell can be deleted")
)

// unitsEpsilon absorbs float dust when lot units are summed in one order and
// consumed in another.
const unitsEpsilon = 1e-9

// Service implements LedgerService. Writes for the same user+fund are
// serialized with a keyed mutex; lot consumption mutates BUY records and two
// concurrent redemptions could otherwise double-consume a lot.
type Service struct {
	storage interfaces.TransactionStorage
	nav     interfaces.NAVService
	logger  *common.Logger
	clock   func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService creates a new ledger service
func NewService(storage interfaces.TransactionStorage, nav interfaces.NAVService, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		nav:     nav,
		logger:  logger,
		clock:   time.Now,
		locks:   make(map[string]*sync.Mutex),
	}
}

// SetClock overrides the time source (tests).
func (s *Service) SetClock(clock func() time.Time) { s.clock = clock }

func (s *Service) fundLock(userID string, fundID int) *sync.Mutex {
	key := fmt.Sprintf("%s/%d", userID, fundID)
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}

// Add validates and records a transaction. A SELL consumes unredeemed BUY
// lots oldest-first; the persisted SELL carries the total booked profit.
func (s *Service) Add(ctx context.Context, req models.NewTransactionRequest) (*models.Transaction, error) {
	if req.Kind != models.KindBuy && req.Kind != models.KindSell {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, req.Kind)
	}
	if req.Amount == nil && req.Units == nil {
		return nil, ErrNoQuantity
	}
	if req.Amount != nil && req.Units != nil {
		return nil, ErrBothQuantities
	}

	date, err := common.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}

	nav, exact, err := s.nav.NAVForDate(ctx, req.FundID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve NAV for fund %d on %s: %w", req.FundID, req.Date, err)
	}

	tx := &models.Transaction{
		ID:            uuid.NewString(),
		UserID:        req.UserID,
		FundID:        req.FundID,
		FundName:      req.FundName,
		Kind:          req.Kind,
		Date:          date,
		Price:         nav,
		PriceAdjusted: !exact,
		CreatedAt:     s.clock(),
	}

	if req.Amount != nil {
		tx.Amount = *req.Amount
		tx.Units = tx.Amount * models.BuyAmountToUnitsFactor / nav
	} else {
		tx.Units = *req.Units
		tx.Amount = tx.Units * nav * models.BuyUnitsToAmountFactor
	}

	lock := s.fundLock(req.UserID, req.FundID)
	lock.Lock()
	defer lock.Unlock()

	if tx.IsSell() {
		redeemable, _, err := s.redeemableTotalsLocked(ctx, req.UserID, req.FundID)
		if err != nil {
			return nil, err
		}
		if tx.Units > redeemable+unitsEpsilon {
			return nil, fmt.Errorf("%w: requested %.4f, redeemable %.4f", ErrExcessUnits, tx.Units, redeemable)
		}

		profit, err := s.redeem(ctx, tx)
		if err != nil {
			return nil, err
		}
		tx.IsRedeemed = true
		tx.BookedProfit = profit
	}

	if err := s.storage.Save(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	s.logger.Info().
		Str("id", tx.ID).
		Str("user", tx.UserID).
		Int("fund", tx.FundID).
		Str("kind", tx.Kind).
		Float64("units", tx.Units).
		Float64("amount", tx.Amount).
		Msg("Transaction recorded")
	return tx, nil
}

// Delete removes a transaction. A SELL is reversed against the lots it
// consumed; only the most recent SELL for its user+fund may be deleted, and a
// redeemed BUY may not be deleted at all.
func (s *Service) Delete(ctx context.Context, id string) (*models.Transaction, error) {
	tx, err := s.storage.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	lock := s.fundLock(tx.UserID, tx.FundID)
	lock.Lock()
	defer lock.Unlock()

	if tx.IsBuy() && tx.IsRedeemed {
		return nil, ErrRedeemedLot
	}
	if tx.IsSell() {
		latest, err := s.isLatestSell(ctx, tx)
		if err != nil {
			return nil, err
		}
		if !latest {
			return nil, ErrNotLatestSell
		}
		if err := s.reverse(ctx, tx); err != nil {
			return nil, err
		}
	}

	if err := s.storage.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to delete transaction %s: %w", id, err)
	}

	s.logger.Info().
		Str("id", tx.ID).
		Str("user", tx.UserID).
		Int("fund", tx.FundID).
		Str("kind", tx.Kind).
		Msg("Transaction deleted")
	return tx, nil
}

// isLatestSell reports whether tx is the most recent SELL for its user+fund.
func (s *Service) isLatestSell(ctx context.Context, tx *models.Transaction) (bool, error) {
	transactions, err := s.storage.ByUserAndFundDesc(ctx, tx.UserID, tx.FundID)
	if err != nil {
		return false, err
	}
	for _, past := range transactions {
		if past.IsSell() {
			return past.ID == tx.ID, nil
		}
	}
	return false, nil
}

// Get returns a single transaction.
func (s *Service) Get(ctx context.Context, id string) (*models.Transaction, error) {
	return s.storage.Get(ctx, id)
}

// ByUser returns all of a user's transactions.
func (s *Service) ByUser(ctx context.Context, userID string) ([]*models.Transaction, error) {
	return s.storage.ByUser(ctx, userID)
}

// ByUserAndFund returns one fund's ledger, newest first.
func (s *Service) ByUserAndFund(ctx context.Context, userID string, fundID int) ([]*models.Transaction, error) {
	return s.storage.ByUserAndFundDesc(ctx, userID, fundID)
}

// ByUserAndFundAsc returns one fund's ledger, oldest first.
func (s *Service) ByUserAndFundAsc(ctx context.Context, userID string, fundID int) ([]*models.Transaction, error) {
	return s.storage.ByUserAndFund(ctx, userID, fundID)
}

// RedeemableTotals sums unredeemed BUY units and invested amount.
func (s *Service) RedeemableTotals(ctx context.Context, userID string, fundID int) (float64, float64, error) {
	return s.redeemableTotalsLocked(ctx, userID, fundID)
}

func (s *Service) redeemableTotalsLocked(ctx context.Context, userID string, fundID int) (float64, float64, error) {
	transactions, err := s.storage.ByUserAndFund(ctx, userID, fundID)
	if err != nil {
		return 0, 0, err
	}

	var units, invested float64
	for _, tx := range transactions {
		if tx.IsBuy() && !tx.IsRedeemed {
			units += tx.Units
			invested += tx.Amount
		}
	}
	return units, invested, nil
}

// DeleteByUser removes every transaction of a user.
func (s *Service) DeleteByUser(ctx context.Context, userID string) (int, error) {
	return s.storage.DeleteByUser(ctx, userID)
}

// DeleteByUserAndFund removes one fund's ledger.
func (s *Service) DeleteByUserAndFund(ctx context.Context, userID string, fundID int) (int, error) {
	return s.storage.DeleteByUserAndFund(ctx, userID, fundID)
}
