// Package dashboard aggregates valuations across all of a user's funds.
package dashboard

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/SynTaxOp/Stonks/internal/common"
	"github.com/SynTaxOp/Stonks/internal/interfaces"
	"github.com/SynTaxOp/Stonks/internal/models"
)

// Service implements DashboardService. Per-fund figures are computed by the
// fund service; this layer fans out across funds and folds the results.
// Emergency funds are excluded from the totals and accumulated separately.
type Service struct {
	funds  interfaces.FundService
	ledger interfaces.LedgerService
	nav    interfaces.NAVService
	logger *common.Logger
	clock  func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// NewService creates a new dashboard service
func NewService(funds interfaces.FundService, ledger interfaces.LedgerService, nav interfaces.NAVService, logger *common.Logger) *Service {
	return &Service{
		funds:  funds,
		ledger: ledger,
		nav:    nav,
		logger: logger,
		clock:  time.Now,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetClock overrides the time source (tests).
func (s *Service) SetClock(clock func() time.Time) { s.clock = clock }

func (s *Service) pickMessage(profit float64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return dailyMessage(s.rng, profit)
}

// Dashboard values every holding in parallel and folds the summaries into
// portfolio totals.
func (s *Service) Dashboard(ctx context.Context, userID string) (*models.Dashboard, error) {
	holdings, err := s.funds.ByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	dashboard := &models.Dashboard{
		UserID:        userID,
		FundSummaries: []models.FundSummary{},
	}
	if len(holdings) == 0 {
		return dashboard, nil
	}

	summaries := make([]*models.FundSummary, len(holdings))
	var wg sync.WaitGroup
	for i, holding := range holdings {
		wg.Add(1)
		go func(i int, fundID int) {
			defer wg.Done()
			summary, err := s.funds.Summary(ctx, userID, fundID)
			if err != nil {
				s.logger.Warn().Str("user", userID).Int("fund", fundID).Err(err).Msg("Fund summary failed")
				return
			}
			summaries[i] = summary
		}(i, holding.FundID)
	}
	wg.Wait()

	for _, summary := range summaries {
		if summary == nil {
			continue
		}
		dashboard.FundSummaries = append(dashboard.FundSummaries, *summary)
		if summary.IsEmergency {
			dashboard.TotalEmergencyFundValue += summary.TotalValue
			continue
		}
		dashboard.TotalInvested += summary.TotalInvested
		dashboard.TotalValue += summary.TotalValue
		dashboard.TodayProfit += summary.TodayProfit
	}

	dashboard.ProfitLoss = dashboard.TotalValue - dashboard.TotalInvested
	if dashboard.TotalInvested > 0 {
		dashboard.ProfitLossPercent = dashboard.ProfitLoss / dashboard.TotalInvested * 100
	}
	dashboard.TodayMessage = s.pickMessage(dashboard.TodayProfit)

	s.logger.Info().
		Str("user", userID).
		Int("funds", len(dashboard.FundSummaries)).
		Float64("value", dashboard.TotalValue).
		Msg("Dashboard built")
	return dashboard, nil
}

// DashboardExtra folds the ledger-derived figures across non-emergency funds
// and computes a portfolio-level XIRR over the combined cash flows.
func (s *Service) DashboardExtra(ctx context.Context, userID string) (*models.DashboardExtra, error) {
	holdings, err := s.funds.ByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	extra := &models.DashboardExtra{}
	var allTransactions []*models.Transaction
	var currentValue float64

	for _, holding := range holdings {
		if holding.IsEmergency {
			continue
		}

		fundExtra, err := s.funds.SummaryExtra(ctx, userID, holding.FundID)
		if err != nil {
			s.logger.Warn().Str("user", userID).Int("fund", holding.FundID).Err(err).Msg("Fund extra summary failed")
			continue
		}
		extra.LongTermGains += fundExtra.LongTermGains
		extra.TotalRealizedProfit += fundExtra.TotalRealizedProfit
		extra.CurrentYearRealizedProfit += fundExtra.CurrentYearRealizedProfit

		transactions, err := s.ledger.ByUserAndFundAsc(ctx, userID, holding.FundID)
		if err != nil {
			return nil, err
		}
		allTransactions = append(allTransactions, transactions...)

		nav, err := s.nav.LatestNAV(ctx, holding.FundID)
		if err != nil {
			s.logger.Warn().Int("fund", holding.FundID).Err(err).Msg("Failed to get latest NAV, valuing at zero")
			continue
		}
		currentValue += holding.Units * nav
	}

	extra.XIRR = s.ledger.XIRR(allTransactions, currentValue, s.clock())
	return extra, nil
}

// CombinedSeries merges the monthly performance series of every non-emergency
// fund by month label, recomputing the growth and alpha ratios over the
// aggregated figures.
func (s *Service) CombinedSeries(ctx context.Context, userID string) ([]models.MonthlyPoint, error) {
	holdings, err := s.funds.ByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var tracked []*models.Holding
	for _, holding := range holdings {
		if !holding.IsEmergency {
			tracked = append(tracked, holding)
		}
	}
	if len(tracked) == 0 {
		return []models.MonthlyPoint{}, nil
	}

	allSeries := make([][]models.MonthlyPoint, len(tracked))
	var wg sync.WaitGroup
	for i, holding := range tracked {
		wg.Add(1)
		go func(i int, fundID int) {
			defer wg.Done()
			series, err := s.funds.PerformanceSeries(ctx, userID, fundID)
			if err != nil {
				s.logger.Warn().Str("user", userID).Int("fund", fundID).Err(err).Msg("Performance series failed")
				return
			}
			allSeries[i] = series
		}(i, holding.FundID)
	}
	wg.Wait()

	merged := make(map[string]*models.MonthlyPoint)
	for _, series := range allSeries {
		for _, point := range series {
			existing, ok := merged[point.Month]
			if !ok {
				copied := point
				merged[point.Month] = &copied
				continue
			}
			existing.TotalValue += point.TotalValue
			existing.TotalInvested += point.TotalInvested
			existing.TotalProfit += point.TotalProfit
			existing.ThisMonthProfit += point.ThisMonthProfit
			existing.ThisMonthInvested += point.ThisMonthInvested
			existing.ValueBenchmark += point.ValueBenchmark
			existing.ValueNifty50 += point.ValueNifty50
			existing.ValueNifty100 += point.ValueNifty100
			if existing.TotalInvested != 0 {
				existing.GrowthPercent = existing.TotalProfit / existing.TotalInvested * 100
			}
			if existing.ValueBenchmark != 0 {
				existing.AlphaPercent = (existing.TotalValue/existing.ValueBenchmark - 1) * 100
			}
		}
	}

	combined := make([]models.MonthlyPoint, 0, len(merged))
	for _, point := range merged {
		combined = append(combined, *point)
	}
	sort.Slice(combined, func(i, j int) bool {
		return monthSortKey(combined[i].Month).Before(monthSortKey(combined[j].Month))
	})
	return combined, nil
}

func monthSortKey(label string) time.Time {
	t, err := time.Parse("January 2006", label)
	if err != nil {
		return time.Time{}
	}
	return t
}
