package fund

import (
	"context"
	"fmt"

	"github.com/SynTaxOp/Stonks/internal/common"
	"github.com/SynTaxOp/Stonks/internal/models"
	"github.com/SynTaxOp/Stonks/internal/services/navdata"
)

// PerformanceSeries reconstructs the month-by-month state of a holding by
// replaying its ledger from the first transaction through the current month.
// Each point values the running units at the month-end NAV, alongside what the
// same cash flows would be worth in the holding's benchmark and the two fixed
// indices. Without a configured benchmark the fund shadows itself and alpha
// reads zero.
func (s *Service) PerformanceSeries(ctx context.Context, userID string, fundID int) ([]models.MonthlyPoint, error) {
	transactions, err := s.ledger.ByUserAndFundAsc(ctx, userID, fundID)
	if err != nil {
		return nil, err
	}
	if len(transactions) == 0 {
		return []models.MonthlyPoint{}, nil
	}

	holding, err := s.holdings.GetByUserAndFund(ctx, userID, fundID)
	if err != nil {
		return nil, err
	}

	navHistory, err := s.nav.NAVHistory(ctx, fundID)
	if err != nil {
		return nil, fmt.Errorf("failed to get NAV history for fund %d: %w", fundID, err)
	}
	benchmarkHistory, err := s.nav.BenchmarkNAVHistory(ctx, holding.Benchmark)
	if err != nil {
		return nil, err
	}
	nifty50History, err := s.nav.Nifty50History(ctx)
	if err != nil {
		return nil, err
	}
	nifty100History, err := s.nav.Nifty100History(ctx)
	if err != nil {
		return nil, err
	}

	var series []models.MonthlyPoint

	var totalUnits, totalBenchmarkUnits, totalNifty50Units, totalNifty100Units float64
	var totalInvested, totalInvestmentSold float64

	month := common.StartOfMonth(transactions[0].Date)
	lastMonth := common.StartOfMonth(s.clock().Unix())

	txIndex := 0
	for month <= lastMonth {
		for txIndex < len(transactions) && common.StartOfMonth(transactions[txIndex].Date) == month {
			tx := transactions[txIndex]
			txIndex++

			if tx.IsBuy() {
				totalUnits += tx.Units
				totalInvested += tx.Amount
				if benchmarkHistory != nil {
					if nav, _ := navdata.NAVFromHistory(benchmarkHistory, tx.Date); nav > 0 {
						totalBenchmarkUnits += tx.Amount / nav
					}
				}
				if nav, _ := navdata.NAVFromHistory(nifty50History, tx.Date); nav > 0 {
					totalNifty50Units += tx.Amount / nav
				}
				if nav, _ := navdata.NAVFromHistory(nifty100History, tx.Date); nav > 0 {
					totalNifty100Units += tx.Amount / nav
				}
				continue
			}

			totalUnits -= tx.Units
			totalInvested -= tx.Amount - tx.BookedProfit
			totalInvestmentSold += tx.Amount - tx.BookedProfit
			if benchmarkHistory != nil {
				if nav, _ := navdata.NAVFromHistory(benchmarkHistory, tx.Date); nav > 0 {
					totalBenchmarkUnits -= tx.Amount / nav
				}
			}
			if nav, _ := navdata.NAVFromHistory(nifty50History, tx.Date); nav > 0 {
				totalNifty50Units -= tx.Amount / nav
			}
			if nav, _ := navdata.NAVFromHistory(nifty100History, tx.Date); nav > 0 {
				totalNifty100Units -= tx.Amount / nav
			}
		}

		endOfMonth := common.EndOfMonth(month)
		nav, _ := navdata.NAVFromHistory(navHistory, endOfMonth)

		totalValue := nav * totalUnits
		totalProfit := totalValue - totalInvested

		point := models.MonthlyPoint{
			Month:         common.MonthLabel(month),
			TotalValue:    totalValue,
			TotalInvested: totalInvested,
			TotalProfit:   totalProfit,
		}

		if benchmarkHistory != nil {
			benchNAV, _ := navdata.NAVFromHistory(benchmarkHistory, endOfMonth)
			point.ValueBenchmark = totalBenchmarkUnits * benchNAV
		} else {
			point.ValueBenchmark = totalValue
		}
		if n50, _ := navdata.NAVFromHistory(nifty50History, endOfMonth); n50 > 0 {
			point.ValueNifty50 = totalNifty50Units * n50
		}
		if n100, _ := navdata.NAVFromHistory(nifty100History, endOfMonth); n100 > 0 {
			point.ValueNifty100 = totalNifty100Units * n100
		}

		if len(series) == 0 {
			point.ThisMonthProfit = totalProfit
			point.ThisMonthInvested = totalInvested
			if totalInvested != 0 {
				point.GrowthPercent = totalProfit / totalInvested * 100
			}
		} else {
			prev := series[len(series)-1]
			point.ThisMonthProfit = totalProfit - prev.TotalProfit
			point.ThisMonthInvested = totalInvested - prev.TotalInvested + totalInvestmentSold
			if prev.TotalInvested != 0 {
				point.GrowthPercent = point.ThisMonthProfit / prev.TotalInvested * 100
			}
		}
		if point.ValueBenchmark != 0 {
			point.AlphaPercent = (point.TotalValue - point.ValueBenchmark) / point.ValueBenchmark * 100
		}

		series = append(series, point)
		totalInvestmentSold = 0

		month = common.NextMonth(month)
	}

	return series, nil
}

// NAVChart returns a fund's full quote history, newest first.
func (s *Service) NAVChart(ctx context.Context, fundID int) ([]models.NAVPoint, error) {
	history, err := s.nav.NAVHistory(ctx, fundID)
	if err != nil {
		return nil, fmt.Errorf("failed to get NAV history for fund %d: %w", fundID, err)
	}

	points := make([]models.NAVPoint, 0, len(history))
	for _, row := range history {
		points = append(points, models.NAVPoint{Date: row.Date, NAV: row.NAV})
	}
	return points, nil
}
