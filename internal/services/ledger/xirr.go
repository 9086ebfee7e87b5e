package ledger

import (
	"math"
	"sort"
	"time"

	"github.com/SynTaxOp/Stonks/internal/common"
	"github.com/SynTaxOp/Stonks/internal/models"
)

// cashFlow is a single dated flow for XIRR. Negative = money out (buys),
// positive = money in (sells, current value).
type cashFlow struct {
	date   int64
	amount float64
}

// Solver constants. These are pinned: changing the tolerance, iteration cap,
// or the return-last-estimate behavior changes reported financial figures.
const (
	xirrEpsilon = 1e-7
	xirrMaxIter = 1000
	xirrGuess   = 0.10
)

// XIRR computes the money-weighted annualized return over the transactions
// plus a final inflow of currentValue at now, reported as a percentage. Each
// BUY contributes a negative flow and each SELL a positive flow at its date.
// Fewer than two flows yield 0. Newton-Raphson may not converge within the
// iteration cap; the last estimate is returned either way.
func (s *Service) XIRR(transactions []*models.Transaction, currentValue float64, now time.Time) float64 {
	var flows []cashFlow
	for _, tx := range transactions {
		switch {
		case tx.IsBuy():
			flows = append(flows, cashFlow{date: tx.Date, amount: -tx.Amount})
		case tx.IsSell():
			flows = append(flows, cashFlow{date: tx.Date, amount: tx.Amount})
		}
	}

	if currentValue > 0 {
		flows = append(flows, cashFlow{date: common.StartOfDay(now), amount: currentValue})
	}

	if len(flows) < 2 {
		return 0
	}

	sort.Slice(flows, func(i, j int) bool {
		return flows[i].date < flows[j].date
	})

	rate := solveXIRR(flows)
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0
	}
	return rate * 100
}

// solveXIRR finds the rate r with NPV(r) = 0 by Newton-Raphson, where
// NPV(r) = sum of amount_i / (1+r)^(days_i/365), days measured from the
// first flow. Returns the rate as a decimal.
func solveXIRR(flows []cashFlow) float64 {
	baseDate := flows[0].date
	years := make([]float64, len(flows))
	for i, f := range flows {
		years[i] = float64(common.DaysBetween(baseDate, f.date)) / 365.0
	}

	npv := func(rate float64) float64 {
		sum := 0.0
		for i, f := range flows {
			sum += f.amount / math.Pow(1+rate, years[i])
		}
		return sum
	}
	dnpv := func(rate float64) float64 {
		sum := 0.0
		for i, f := range flows {
			sum += -f.amount * years[i] / math.Pow(1+rate, years[i]+1)
		}
		return sum
	}

	rate := xirrGuess
	for iter := 0; iter < xirrMaxIter; iter++ {
		derivative := dnpv(rate)
		if math.Abs(derivative) < xirrEpsilon {
			break
		}

		newRate := rate - npv(rate)/derivative
		if math.Abs(newRate-rate) <= xirrEpsilon {
			return newRate
		}
		rate = newRate
	}

	return rate
}
