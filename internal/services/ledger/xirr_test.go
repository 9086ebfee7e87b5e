package ledger

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/SynTaxOp/Stonks/internal/common"
	"github.com/SynTaxOp/Stonks/internal/models"
)

func buyAt(t *testing.T, date string, amount float64) *models.Transaction {
	t.Helper()
	return &models.Transaction{
		Kind:   models.KindBuy,
		Date:   mustEpoch(t, date),
		Amount: amount,
	}
}

func sellAt(t *testing.T, date string, amount float64) *models.Transaction {
	t.Helper()
	return &models.Transaction{
		Kind:   models.KindSell,
		Date:   mustEpoch(t, date),
		Amount: amount,
	}
}

func istDate(t *testing.T, date string) time.Time {
	t.Helper()
	return time.Unix(mustEpoch(t, date), 0).In(common.ISTZone)
}

func TestXIRRSingleYearGain(t *testing.T) {
	svc := newTestService(t, nil)

	// 10000 in, worth 11000 exactly one year later: 10% annualized.
	transactions := []*models.Transaction{buyAt(t, "01-01-2023", 10000)}
	got := svc.XIRR(transactions, 11000, istDate(t, "01-01-2024"))
	assert.InDelta(t, 10.0, got, 0.01)
}

func TestXIRRWithInterimSell(t *testing.T) {
	svc := newTestService(t, nil)

	transactions := []*models.Transaction{
		buyAt(t, "01-01-2023", 10000),
		buyAt(t, "01-07-2023", 10000),
		sellAt(t, "01-10-2023", 5000),
	}
	got := svc.XIRR(transactions, 17000, istDate(t, "01-01-2024"))

	// NPV at the returned rate must be ~0.
	rate := got / 100
	base := mustEpoch(t, "01-01-2023")
	npv := 0.0
	flows := []struct {
		date   string
		amount float64
	}{
		{"01-01-2023", -10000},
		{"01-07-2023", -10000},
		{"01-10-2023", 5000},
		{"01-01-2024", 17000},
	}
	for _, f := range flows {
		years := float64(common.DaysBetween(base, mustEpoch(t, f.date))) / 365.0
		npv += f.amount / math.Pow(1+rate, years)
	}
	assert.InDelta(t, 0, npv, 1)
}

func TestXIRRLoss(t *testing.T) {
	svc := newTestService(t, nil)

	transactions := []*models.Transaction{buyAt(t, "01-01-2023", 10000)}
	got := svc.XIRR(transactions, 9000, istDate(t, "01-01-2024"))
	assert.InDelta(t, -10.0, got, 0.01)
}

func TestXIRRFewerThanTwoFlows(t *testing.T) {
	svc := newTestService(t, nil)

	assert.Zero(t, svc.XIRR(nil, 0, istDate(t, "01-01-2024")))
	assert.Zero(t, svc.XIRR([]*models.Transaction{buyAt(t, "01-01-2023", 10000)}, 0, istDate(t, "01-01-2024")))
}

func TestXIRRZeroCurrentValueUsesSellsOnly(t *testing.T) {
	svc := newTestService(t, nil)

	transactions := []*models.Transaction{
		buyAt(t, "01-01-2023", 10000),
		sellAt(t, "01-01-2024", 11000),
	}
	got := svc.XIRR(transactions, 0, istDate(t, "01-06-2024"))
	assert.InDelta(t, 10.0, got, 0.01)
}
