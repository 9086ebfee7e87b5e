package fund

import (
	"context"
	"fmt"

	"github.com/SynTaxOp/Stonks/internal/common"
	"github.com/SynTaxOp/Stonks/internal/models"
)

// Summary values a holding at the latest NAV. TodayProfit compares against
// the previous quote, which degrades to zero when only one quote exists.
func (s *Service) Summary(ctx context.Context, userID string, fundID int) (*models.FundSummary, error) {
	holding, err := s.holdings.GetByUserAndFund(ctx, userID, fundID)
	if err != nil {
		return nil, err
	}

	currentNAV, err := s.nav.LatestNAV(ctx, fundID)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest NAV for fund %d: %w", fundID, err)
	}

	previousNAV, err := s.nav.PreviousNAV(ctx, fundID)
	if err != nil {
		previousNAV = currentNAV
	}

	currentValue := currentNAV * holding.Units
	profitLoss := currentValue - holding.InvestedAmount

	summary := &models.FundSummary{
		FundID:        fundID,
		Name:          holding.FundName,
		Tag:           holding.Tag,
		IsEmergency:   holding.IsEmergency,
		TotalInvested: holding.InvestedAmount,
		TotalValue:    currentValue,
		TotalUnits:    holding.Units,
		ProfitLoss:    profitLoss,
		TodayProfit:   currentValue - holding.Units*previousNAV,
	}
	if holding.InvestedAmount != 0 {
		summary.ProfitLossPercent = profitLoss / holding.InvestedAmount * 100
	}
	return summary, nil
}

// SummaryExtra computes the ledger-derived figures: XIRR over all flows plus
// the current unredeemed value, long-term gains on lots held a year or more,
// and realized profit totals split out for the current financial year.
func (s *Service) SummaryExtra(ctx context.Context, userID string, fundID int) (*models.FundSummaryExtra, error) {
	transactions, err := s.ledger.ByUserAndFundAsc(ctx, userID, fundID)
	if err != nil {
		return nil, err
	}

	currentNAV, err := s.nav.LatestNAV(ctx, fundID)
	if err != nil {
		s.logger.Warn().Int("fund", fundID).Err(err).Msg("Failed to get latest NAV, valuing at zero")
		currentNAV = 0
	}

	now := s.clock()

	var totalUnits, longTermUnits, longTermInvestment float64
	extra := &models.FundSummaryExtra{}
	for _, tx := range transactions {
		if !tx.IsBuy() {
			continue
		}
		if tx.IsRedeemed {
			extra.TotalRealizedProfit += tx.BookedProfit
			if common.InCurrentFinancialYear(common.FormatDate(tx.SellDate), now) {
				extra.CurrentYearRealizedProfit += tx.BookedProfit
			}
			continue
		}

		totalUnits += tx.Units
		if common.OneYearOrMoreOld(common.FormatDate(tx.Date), now) {
			longTermUnits += tx.Units
			longTermInvestment += tx.Amount
		}
	}

	currentValue := totalUnits * currentNAV
	if currentNAV > 0 {
		extra.LongTermGains = longTermUnits*currentNAV - longTermInvestment
	}
	extra.XIRR = s.ledger.XIRR(transactions, currentValue, now)
	return extra, nil
}

// Units renders the ledger as a per-lot breakdown: sold lots at their booked
// profit, held lots mark-to-market against the latest NAV.
func (s *Service) Units(ctx context.Context, userID string, fundID int) ([]models.UnitLot, error) {
	currentNAV, err := s.nav.LatestNAV(ctx, fundID)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest NAV for fund %d: %w", fundID, err)
	}

	transactions, err := s.ledger.ByUserAndFund(ctx, userID, fundID)
	if err != nil {
		return nil, err
	}

	lots := make([]models.UnitLot, 0, len(transactions))
	for _, tx := range transactions {
		lot := models.UnitLot{
			TransactionID: tx.ID,
			Kind:          tx.Kind,
			Date:          common.FormatDate(tx.Date),
			Units:         tx.Units,
			Amount:        tx.Amount,
		}

		switch {
		case tx.IsBuy() && tx.IsRedeemed:
			lot.IsSold = true
			lot.SellDate = common.FormatDate(tx.SellDate)
			lot.ProfitLoss = tx.BookedProfit
			if tx.Amount != 0 {
				lot.ProfitLossPercent = tx.BookedProfit / tx.Amount * 100
			}
		case tx.IsBuy():
			lot.ProfitLoss = (currentNAV - tx.Price) * tx.Units
			if tx.Price != 0 {
				lot.ProfitLossPercent = (currentNAV - tx.Price) / tx.Price * 100
			}
		default:
			lot.IsSold = true
			lot.ProfitLoss = tx.BookedProfit
			if cost := tx.Amount - tx.BookedProfit; cost != 0 {
				lot.ProfitLossPercent = tx.BookedProfit / cost * 100
			}
		}
		lots = append(lots, lot)
	}
	return lots, nil
}

// Details aggregates everything the fund page needs in one call.
func (s *Service) Details(ctx context.Context, userID string, fundID int) (*models.FundDetails, error) {
	holding, err := s.holdings.GetByUserAndFund(ctx, userID, fundID)
	if err != nil {
		return nil, err
	}

	latestNAV, latestNAVDate, err := s.nav.LatestNAVWithDate(ctx, fundID)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest NAV for fund %d: %w", fundID, err)
	}

	details := &models.FundDetails{
		Holding:       holding,
		LatestNAV:     latestNAV,
		LatestNAVDate: latestNAVDate,
	}

	if summary, err := s.Summary(ctx, userID, fundID); err == nil {
		details.Summary = summary
	} else {
		s.logger.Warn().Int("fund", fundID).Err(err).Msg("Fund summary unavailable")
	}
	if extra, err := s.SummaryExtra(ctx, userID, fundID); err == nil {
		details.ExtraSummary = extra
	} else {
		s.logger.Warn().Int("fund", fundID).Err(err).Msg("Fund extra summary unavailable")
	}

	units, err := s.Units(ctx, userID, fundID)
	if err != nil {
		return nil, err
	}
	details.Units = units

	sips, err := s.sips.ByUserAndFund(ctx, userID, fundID)
	if err != nil {
		return nil, err
	}
	details.SIPs = sips

	return details, nil
}
