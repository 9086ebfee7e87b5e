package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SynTaxOp/Stonks/internal/common"
	"github.com/SynTaxOp/Stonks/internal/models"
	"github.com/SynTaxOp/Stonks/internal/storage/memory"
)

// fakeNAV serves quotes from a date-keyed map; dates without a quote fall
// back to the latest known price with exact=false.
type fakeNAV struct {
	quotes map[int64]float64
	latest float64
}

func (f *fakeNAV) NAVForDate(_ context.Context, _ int, epoch int64) (float64, bool, error) {
	if nav, ok := f.quotes[epoch]; ok {
		return nav, true, nil
	}
	return f.latest, false, nil
}

func (f *fakeNAV) LatestNAV(context.Context, int) (float64, error) { return f.latest, nil }

func (f *fakeNAV) PreviousNAV(context.Context, int) (float64, error) { return f.latest, nil }

func (f *fakeNAV) LatestNAVWithDate(context.Context, int) (float64, string, error) {
	return f.latest, "", nil
}

func (f *fakeNAV) NAVHistory(context.Context, int) ([]models.NAVRow, error) { return nil, nil }

func (f *fakeNAV) BenchmarkNAVHistory(context.Context, string) ([]models.NAVRow, error) {
	return nil, nil
}

func (f *fakeNAV) BenchmarkSchemeCode(string) (int, bool) { return 0, false }

func (f *fakeNAV) Benchmarks() []string { return nil }

func (f *fakeNAV) Nifty50History(context.Context) ([]models.NAVRow, error) { return nil, nil }

func (f *fakeNAV) Nifty100History(context.Context) ([]models.NAVRow, error) { return nil, nil }

func (f *fakeNAV) ListFunds(context.Context) ([]models.Fund, error) { return nil, nil }

func (f *fakeNAV) SearchFunds(context.Context, string) ([]models.Fund, error) { return nil, nil }

func mustEpoch(t *testing.T, date string) int64 {
	t.Helper()
	epoch, err := common.ParseDate(date)
	require.NoError(t, err)
	return epoch
}

// newTestService builds a ledger over in-memory storage with a ticking clock
// so creation order is deterministic.
func newTestService(t *testing.T, quotes map[int64]float64) *Service {
	t.Helper()
	nav := &fakeNAV{quotes: quotes, latest: 100}
	svc := NewService(memory.NewTransactionStorage(), nav, common.NewSilentLogger())

	tick := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	svc.SetClock(func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	})
	return svc
}

func unitsOf(v float64) *float64 { return &v }

func buyUnits(t *testing.T, svc *Service, date string, units float64) *models.Transaction {
	t.Helper()
	tx, err := svc.Add(context.Background(), models.NewTransactionRequest{
		UserID: "u1", FundID: 100, FundName: "Test Fund",
		Kind: models.KindBuy, Date: date, Units: unitsOf(units),
	})
	require.NoError(t, err)
	return tx
}

func sellUnits(t *testing.T, svc *Service, date string, units float64) *models.Transaction {
	t.Helper()
	tx, err := svc.Add(context.Background(), models.NewTransactionRequest{
		UserID: "u1", FundID: 100, FundName: "Test Fund",
		Kind: models.KindSell, Date: date, Units: unitsOf(units),
	})
	require.NoError(t, err)
	return tx
}

func TestAddBuyDerivesUnitsFromAmount(t *testing.T) {
	svc := newTestService(t, map[int64]float64{
		mustEpoch(t, "01-01-2023"): 100,
	})

	amount := 10000.0
	tx, err := svc.Add(context.Background(), models.NewTransactionRequest{
		UserID: "u1", FundID: 100, FundName: "Test Fund",
		Kind: models.KindBuy, Date: "01-01-2023", Amount: &amount,
	})
	require.NoError(t, err)

	assert.Equal(t, 10000.0, tx.Amount)
	assert.InDelta(t, 10000*models.BuyAmountToUnitsFactor/100, tx.Units, 1e-9)
	assert.Equal(t, 100.0, tx.Price)
	assert.False(t, tx.PriceAdjusted)
}

func TestAddBuyDerivesAmountFromUnits(t *testing.T) {
	svc := newTestService(t, map[int64]float64{
		mustEpoch(t, "01-01-2023"): 100,
	})

	tx := buyUnits(t, svc, "01-01-2023", 100)
	assert.Equal(t, 100.0, tx.Units)
	assert.InDelta(t, 100*100*models.BuyUnitsToAmountFactor, tx.Amount, 1e-9)
}

func TestAddBuyMissingQuoteAdjustsPrice(t *testing.T) {
	svc := newTestService(t, map[int64]float64{})

	tx := buyUnits(t, svc, "01-01-2023", 10)
	assert.True(t, tx.PriceAdjusted)
	assert.Equal(t, 100.0, tx.Price) // latest known
}

func TestAddValidation(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()
	units := 10.0
	amount := 1000.0

	_, err := svc.Add(ctx, models.NewTransactionRequest{
		UserID: "u1", FundID: 100, Kind: "TRANSFER", Date: "01-01-2023", Units: &units,
	})
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = svc.Add(ctx, models.NewTransactionRequest{
		UserID: "u1", FundID: 100, Kind: models.KindBuy, Date: "01-01-2023",
	})
	assert.ErrorIs(t, err, ErrNoQuantity)

	_, err = svc.Add(ctx, models.NewTransactionRequest{
		UserID: "u1", FundID: 100, Kind: models.KindBuy, Date: "01-01-2023",
		Units: &units, Amount: &amount,
	})
	assert.ErrorIs(t, err, ErrBothQuantities)

	_, err = svc.Add(ctx, models.NewTransactionRequest{
		UserID: "u1", FundID: 100, Kind: models.KindBuy, Date: "2023-01-01", Units: &units,
	})
	assert.Error(t, err)
}

func TestSellSplitsPartiallyConsumedLot(t *testing.T) {
	svc := newTestService(t, map[int64]float64{
		mustEpoch(t, "01-01-2023"): 100,
		mustEpoch(t, "01-01-2024"): 120,
	})
	ctx := context.Background()

	buyUnits(t, svc, "01-01-2023", 100)
	sell := sellUnits(t, svc, "01-01-2024", 50)

	assert.InDelta(t, 50*(120-100), sell.BookedProfit, 1e-9)
	assert.True(t, sell.IsRedeemed)

	lots, err := svc.ByUserAndFundAsc(ctx, "u1", 100)
	require.NoError(t, err)
	require.Len(t, lots, 3) // consumed lot, split remainder, sell

	var consumed, remainder *models.Transaction
	for _, lot := range lots {
		if !lot.IsBuy() {
			continue
		}
		if lot.IsRedeemed {
			consumed = lot
		} else {
			remainder = lot
		}
	}
	require.NotNil(t, consumed)
	require.NotNil(t, remainder)

	assert.InDelta(t, 50, consumed.Units, 1e-9)
	assert.InDelta(t, 50*100, consumed.Amount, 1e-9)
	assert.Equal(t, mustEpoch(t, "01-01-2024"), consumed.SellDate)
	assert.InDelta(t, 1000, consumed.BookedProfit, 1e-9)

	// Remainder keeps the original price and purchase date.
	assert.InDelta(t, 50, remainder.Units, 1e-9)
	assert.Equal(t, 100.0, remainder.Price)
	assert.Equal(t, mustEpoch(t, "01-01-2023"), remainder.Date)
	assert.InDelta(t, 50*100, remainder.Amount, 1e-9)
	assert.Zero(t, remainder.BookedProfit)
}

func TestSellConsumesOldestLotsFirst(t *testing.T) {
	svc := newTestService(t, map[int64]float64{
		mustEpoch(t, "01-01-2023"): 100,
		mustEpoch(t, "01-06-2023"): 110,
		mustEpoch(t, "01-01-2024"): 120,
	})
	ctx := context.Background()

	buyUnits(t, svc, "01-01-2023", 100)
	buyUnits(t, svc, "01-06-2023", 100)
	sell := sellUnits(t, svc, "01-01-2024", 150)

	// 100u from the first lot at 20 profit each, 50u from the second at 10.
	assert.InDelta(t, 100*20+50*10, sell.BookedProfit, 1e-9)

	units, invested, err := svc.RedeemableTotals(ctx, "u1", 100)
	require.NoError(t, err)
	assert.InDelta(t, 50, units, 1e-9)
	assert.InDelta(t, 50*110, invested, 1e-9)

	lots, err := svc.ByUserAndFundAsc(ctx, "u1", 100)
	require.NoError(t, err)
	for _, lot := range lots {
		if lot.IsBuy() && lot.Date == mustEpoch(t, "01-01-2023") {
			assert.True(t, lot.IsRedeemed, "oldest lot must be fully consumed")
		}
	}
}

func TestSellExceedingRedeemableRejected(t *testing.T) {
	svc := newTestService(t, map[int64]float64{
		mustEpoch(t, "01-01-2023"): 100,
		mustEpoch(t, "01-01-2024"): 120,
	})
	ctx := context.Background()

	buyUnits(t, svc, "01-01-2023", 100)

	units := 150.0
	_, err := svc.Add(ctx, models.NewTransactionRequest{
		UserID: "u1", FundID: 100, Kind: models.KindSell, Date: "01-01-2024", Units: &units,
	})
	assert.ErrorIs(t, err, ErrExcessUnits)

	// Ledger untouched.
	lots, err := svc.ByUserAndFundAsc(ctx, "u1", 100)
	require.NoError(t, err)
	require.Len(t, lots, 1)
	assert.False(t, lots[0].IsRedeemed)
}

func TestSellFullBalanceAllowed(t *testing.T) {
	svc := newTestService(t, map[int64]float64{
		mustEpoch(t, "01-01-2023"): 100,
		mustEpoch(t, "01-01-2024"): 120,
	})

	buyUnits(t, svc, "01-01-2023", 100)
	sell := sellUnits(t, svc, "01-01-2024", 100)
	assert.InDelta(t, 2000, sell.BookedProfit, 1e-9)

	units, _, err := svc.RedeemableTotals(context.Background(), "u1", 100)
	require.NoError(t, err)
	assert.InDelta(t, 0, units, 1e-9)
}

func TestDeleteSellReversesConsumption(t *testing.T) {
	svc := newTestService(t, map[int64]float64{
		mustEpoch(t, "01-01-2023"): 100,
		mustEpoch(t, "01-01-2024"): 120,
	})
	ctx := context.Background()

	buyUnits(t, svc, "01-01-2023", 100)
	sell := sellUnits(t, svc, "01-01-2024", 60)

	units, _, err := svc.RedeemableTotals(ctx, "u1", 100)
	require.NoError(t, err)
	assert.InDelta(t, 40, units, 1e-9)

	_, err = svc.Delete(ctx, sell.ID)
	require.NoError(t, err)

	units, invested, err := svc.RedeemableTotals(ctx, "u1", 100)
	require.NoError(t, err)
	assert.InDelta(t, 100, units, 1e-9)
	assert.InDelta(t, 100*100, invested, 1e-9)

	lots, err := svc.ByUserAndFundAsc(ctx, "u1", 100)
	require.NoError(t, err)
	for _, lot := range lots {
		assert.True(t, lot.IsBuy(), "sell must be gone")
		assert.False(t, lot.IsRedeemed)
		assert.Zero(t, lot.SellDate)
		assert.Zero(t, lot.BookedProfit)
	}
}

func TestDeleteNonLatestSellRejected(t *testing.T) {
	svc := newTestService(t, map[int64]float64{
		mustEpoch(t, "01-01-2023"): 100,
		mustEpoch(t, "01-06-2023"): 110,
		mustEpoch(t, "01-01-2024"): 120,
	})
	ctx := context.Background()

	buyUnits(t, svc, "01-01-2023", 100)
	first := sellUnits(t, svc, "01-06-2023", 20)
	second := sellUnits(t, svc, "01-01-2024", 20)

	_, err := svc.Delete(ctx, first.ID)
	assert.ErrorIs(t, err, ErrNotLatestSell)

	_, err = svc.Delete(ctx, second.ID)
	require.NoError(t, err)

	// Now the first sell is the latest and may go.
	_, err = svc.Delete(ctx, first.ID)
	require.NoError(t, err)
}

func TestDeleteRedeemedBuyRejected(t *testing.T) {
	svc := newTestService(t, map[int64]float64{
		mustEpoch(t, "01-01-2023"): 100,
		mustEpoch(t, "01-01-2024"): 120,
	})
	ctx := context.Background()

	buy := buyUnits(t, svc, "01-01-2023", 100)
	sellUnits(t, svc, "01-01-2024", 100)

	_, err := svc.Delete(ctx, buy.ID)
	assert.ErrorIs(t, err, ErrRedeemedLot)
}

func TestDeleteUnredeemedBuyAllowed(t *testing.T) {
	svc := newTestService(t, map[int64]float64{
		mustEpoch(t, "01-01-2023"): 100,
	})
	ctx := context.Background()

	buy := buyUnits(t, svc, "01-01-2023", 100)
	_, err := svc.Delete(ctx, buy.ID)
	require.NoError(t, err)

	lots, err := svc.ByUserAndFundAsc(ctx, "u1", 100)
	require.NoError(t, err)
	assert.Empty(t, lots)
}

func TestSellsAreIsolatedPerUser(t *testing.T) {
	svc := newTestService(t, map[int64]float64{
		mustEpoch(t, "01-01-2023"): 100,
		mustEpoch(t, "01-01-2024"): 120,
	})
	ctx := context.Background()

	buyUnits(t, svc, "01-01-2023", 100)

	// Another user has no lots to redeem against.
	units := 10.0
	_, err := svc.Add(ctx, models.NewTransactionRequest{
		UserID: "u2", FundID: 100, Kind: models.KindSell, Date: "01-01-2024", Units: &units,
	})
	assert.ErrorIs(t, err, ErrExcessUnits)
}
