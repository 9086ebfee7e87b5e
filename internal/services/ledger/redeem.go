package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/SynTaxOp/Stonks/internal/models"
)

// lotPlan is the computed effect of a redemption or reversal on the BUY lots:
// updates mutate existing records, splits are fresh lots to insert. The plan
// is applied only after the whole walk succeeds, so an invariant violation
// mid-walk leaves the ledger untouched.
type lotPlan struct {
	updates []*models.Transaction
	splits  []*models.Transaction
	profit  float64
}

func (s *Service) applyPlan(ctx context.Context, plan *lotPlan) error {
	for _, split := range plan.splits {
		if err := s.storage.Save(ctx, split); err != nil {
			return fmt.Errorf("failed to save split lot: %w", err)
		}
	}
	for _, update := range plan.updates {
		if err := s.storage.Update(ctx, update); err != nil {
			return fmt.Errorf("failed to update lot %s: %w", update.ID, err)
		}
	}
	return nil
}

// splitLot creates a fresh unredeemed BUY carrying `units` of lot at the
// lot's original price and date.
func (s *Service) splitLot(lot *models.Transaction, units float64) *models.Transaction {
	return &models.Transaction{
		ID:        uuid.NewString(),
		UserID:    lot.UserID,
		FundID:    lot.FundID,
		FundName:  lot.FundName,
		Kind:      models.KindBuy,
		Date:      lot.Date,
		Amount:    units * lot.Price,
		Units:     units,
		Price:     lot.Price,
		CreatedAt: s.clock(),
	}
}

// redeem consumes unredeemed BUY lots oldest-first to cover the sell,
// booking per-lot profit at the sell price. A lot only partially consumed is
// split: the untouched remainder becomes a fresh lot and the original mutates
// into the fully-redeemed consumed portion. Returns the total booked profit.
func (s *Service) redeem(ctx context.Context, sell *models.Transaction) (float64, error) {
	lots, err := s.storage.ByUserAndFund(ctx, sell.UserID, sell.FundID)
	if err != nil {
		return 0, err
	}

	plan := &lotPlan{}
	unitsLeft := sell.Units
	sellingPrice := sell.Price

	for _, lot := range lots {
		if unitsLeft <= unitsEpsilon {
			break
		}
		if !lot.IsBuy() || lot.IsRedeemed {
			continue
		}

		if unitsLeft >= lot.Units-unitsEpsilon {
			// Lot fully consumed.
			consumed := *lot
			consumed.IsRedeemed = true
			consumed.SellDate = sell.Date
			consumed.BookedProfit = lot.Units * (sellingPrice - lot.Price)
			plan.updates = append(plan.updates, &consumed)
			plan.profit += consumed.BookedProfit
			unitsLeft -= lot.Units
			continue
		}

		// Partial consumption: carve the untouched remainder off into a
		// fresh lot and shrink the original to the consumed portion.
		remainder := lot.Units - unitsLeft
		plan.splits = append(plan.splits, s.splitLot(lot, remainder))

		consumed := *lot
		consumed.Units = unitsLeft
		consumed.Amount = unitsLeft * lot.Price
		consumed.IsRedeemed = true
		consumed.SellDate = sell.Date
		consumed.BookedProfit = unitsLeft * (sellingPrice - lot.Price)
		plan.updates = append(plan.updates, &consumed)
		plan.profit += consumed.BookedProfit
		unitsLeft = 0
		break
	}

	if unitsLeft > unitsEpsilon {
		return 0, fmt.Errorf("lot matching exhausted available lots with %.6f units unmatched for user %s fund %d",
			unitsLeft, sell.UserID, sell.FundID)
	}

	if err := s.applyPlan(ctx, plan); err != nil {
		return 0, err
	}
	return plan.profit, nil
}

// reverse undoes a sell's lot consumption ahead of its deletion: redeemed BUY
// lots are unmarked newest-first until the sell's unit quantity is restored.
// FIFO consumption means the latest sell redeemed the newest redeemed lots,
// so the walk unwinds exactly that sell's lots; the split branch mirrors
// redemption for quantities that do not align on a lot boundary.
func (s *Service) reverse(ctx context.Context, sell *models.Transaction) error {
	lots, err := s.storage.ByUserAndFundDesc(ctx, sell.UserID, sell.FundID)
	if err != nil {
		return err
	}

	plan := &lotPlan{}
	unitsLeft := sell.Units

	for _, lot := range lots {
		if unitsLeft <= unitsEpsilon {
			break
		}
		if !lot.IsBuy() || !lot.IsRedeemed {
			continue
		}

		if unitsLeft >= lot.Units-unitsEpsilon {
			restored := *lot
			restored.IsRedeemed = false
			restored.SellDate = 0
			restored.BookedProfit = 0
			plan.updates = append(plan.updates, &restored)
			unitsLeft -= lot.Units
			continue
		}

		remainder := lot.Units - unitsLeft
		plan.splits = append(plan.splits, s.splitLot(lot, remainder))

		restored := *lot
		restored.Units = unitsLeft
		restored.Amount = unitsLeft * lot.Price
		restored.IsRedeemed = false
		restored.SellDate = 0
		restored.BookedProfit = 0
		plan.updates = append(plan.updates, &restored)
		unitsLeft = 0
		break
	}

	if unitsLeft > unitsEpsilon {
		return fmt.Errorf("reversal exhausted redeemed lots with %.6f units unmatched for user %s fund %d",
			unitsLeft, sell.UserID, sell.FundID)
	}

	return s.applyPlan(ctx, plan)
}
