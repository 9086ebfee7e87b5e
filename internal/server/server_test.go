package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SynTaxOp/Stonks/internal/app"
	"github.com/SynTaxOp/Stonks/internal/common"
	"github.com/SynTaxOp/Stonks/internal/models"
	"github.com/SynTaxOp/Stonks/internal/services/dashboard"
	"github.com/SynTaxOp/Stonks/internal/services/fund"
	"github.com/SynTaxOp/Stonks/internal/services/ledger"
	"github.com/SynTaxOp/Stonks/internal/services/navdata"
	"github.com/SynTaxOp/Stonks/internal/services/sip"
	"github.com/SynTaxOp/Stonks/internal/storage"
)

// fakeNAV serves one canned history for every scheme code.
type fakeNAV struct {
	history []models.NAVRow
}

func (f *fakeNAV) LatestNAV(context.Context, int) (float64, error) {
	return f.history[0].NAV, nil
}

func (f *fakeNAV) PreviousNAV(context.Context, int) (float64, error) {
	return f.history[1].NAV, nil
}

func (f *fakeNAV) LatestNAVWithDate(context.Context, int) (float64, string, error) {
	return f.history[0].NAV, f.history[0].Date, nil
}

func (f *fakeNAV) NAVForDate(_ context.Context, _ int, epoch int64) (float64, bool, error) {
	nav, exact := navdata.NAVFromHistory(f.history, epoch)
	return nav, exact, nil
}

func (f *fakeNAV) NAVHistory(context.Context, int) ([]models.NAVRow, error) {
	return f.history, nil
}

func (f *fakeNAV) BenchmarkNAVHistory(context.Context, string) ([]models.NAVRow, error) {
	return nil, nil
}

func (f *fakeNAV) BenchmarkSchemeCode(benchmark string) (int, bool) {
	if benchmark == "Nifty 100" {
		return 149868, true
	}
	return 0, false
}

func (f *fakeNAV) Benchmarks() []string { return []string{"Nifty 100"} }

func (f *fakeNAV) Nifty50History(context.Context) ([]models.NAVRow, error) { return nil, nil }

func (f *fakeNAV) Nifty100History(context.Context) ([]models.NAVRow, error) { return nil, nil }

func (f *fakeNAV) ListFunds(context.Context) ([]models.Fund, error) { return nil, nil }

func (f *fakeNAV) SearchFunds(_ context.Context, query string) ([]models.Fund, error) {
	return []models.Fund{{SchemeCode: 100, SchemeName: "Test Fund"}}, nil
}

var testNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, common.ISTZone)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	nav := &fakeNAV{history: []models.NAVRow{
		{Date: "15-03-2024", NAV: 130},
		{Date: "29-02-2024", NAV: 120},
		{Date: "15-02-2024", NAV: 115},
		{Date: "15-01-2024", NAV: 100},
	}}
	logger := common.NewSilentLogger()
	store := storage.NewMemoryManager()

	ledgerSvc := ledger.NewService(store.Transactions(), nav, logger)
	sipSvc := sip.NewService(store.SIPs(), logger)
	fundSvc := fund.NewService(store.Holdings(), ledgerSvc, nav, sipSvc, logger)
	dashboardSvc := dashboard.NewService(fundSvc, ledgerSvc, nav, logger)

	tick := testNow
	ledgerSvc.SetClock(func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	})
	fundSvc.SetClock(func() time.Time { return testNow })
	dashboardSvc.SetClock(func() time.Time { return testNow })

	a := &app.App{
		Config:           common.DefaultConfig(),
		Logger:           logger,
		Storage:          store,
		NAVService:       nav,
		LedgerService:    ledgerSvc,
		SIPService:       sipSvc,
		FundService:      fundSvc,
		DashboardService: dashboardSvc,
		StartupTime:      time.Now(),
	}
	return NewServer(a)
}

func doRequest(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func buyRequest(units float64) map[string]interface{} {
	return map[string]interface{}{
		"userId": "u1", "fundId": 100, "fundName": "Test Fund",
		"transactionType": "BUY", "date": "15-01-2024", "units": units,
	}
}

func sellRequest(units float64) map[string]interface{} {
	return map[string]interface{}{
		"userId": "u1", "fundId": 100, "fundName": "Test Fund",
		"transactionType": "SELL", "date": "15-02-2024", "units": units,
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = doRequest(t, srv, http.MethodPost, "/api/health", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestVersion(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/version", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Contains(t, body, "version")
	assert.Contains(t, body, "uptime")
}

func TestCreateTransaction(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/transactions", buyRequest(100))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var view models.TransactionView
	decodeBody(t, rec, &view)
	assert.NotEmpty(t, view.ID)
	assert.Equal(t, "BUY", view.Kind)
	assert.Equal(t, "15-01-2024", view.Date)
	assert.Equal(t, 100.0, view.Price)

	// The holding was created on first touch.
	rec = doRequest(t, srv, http.MethodGet, "/api/users/u1/funds", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var holdings []models.Holding
	decodeBody(t, rec, &holdings)
	require.Len(t, holdings, 1)
	assert.Equal(t, 100, holdings[0].FundID)
	assert.InDelta(t, 100, holdings[0].Units, 1e-9)
}

func TestCreateTransactionValidation(t *testing.T) {
	srv := newTestServer(t)

	// Missing user.
	rec := doRequest(t, srv, http.MethodPost, "/api/transactions", map[string]interface{}{
		"fundId": 100, "transactionType": "BUY", "date": "15-01-2024", "units": 100,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Neither units nor amount.
	rec = doRequest(t, srv, http.MethodPost, "/api/transactions", map[string]interface{}{
		"userId": "u1", "fundId": 100, "transactionType": "BUY", "date": "15-01-2024",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Selling more than is held.
	rec = doRequest(t, srv, http.MethodPost, "/api/transactions", sellRequest(100))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Malformed body.
	req := httptest.NewRequest(http.MethodPost, "/api/transactions", bytes.NewReader([]byte("{not json")))
	recorder := httptest.NewRecorder()
	srv.Handler().ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestTransactionBulk(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/transactions/bulk", []map[string]interface{}{
		buyRequest(100),
		{"userId": "u1", "fundId": 100, "transactionType": "BUY", "date": "15-01-2024"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Created int      `json:"created"`
		Failed  int      `json:"failed"`
		Errors  []string `json:"errors"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, 1, body.Created)
	assert.Equal(t, 1, body.Failed)
	require.Len(t, body.Errors, 1)
	assert.Contains(t, body.Errors[0], "transaction 1")
}

func TestDeleteRedeemedLotConflicts(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/transactions", buyRequest(100))
	require.Equal(t, http.StatusCreated, rec.Code)
	var buy models.TransactionView
	decodeBody(t, rec, &buy)

	rec = doRequest(t, srv, http.MethodPost, "/api/transactions", sellRequest(100))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var sell models.TransactionView
	decodeBody(t, rec, &sell)

	// The consumed lot is locked behind its sale.
	rec = doRequest(t, srv, http.MethodDelete, "/api/transactions/"+buy.ID, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Deleting the sale reverses the consumption and frees the lot.
	rec = doRequest(t, srv, http.MethodDelete, "/api/transactions/"+sell.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = doRequest(t, srv, http.MethodDelete, "/api/transactions/"+buy.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestFundTransactionsOrder(t *testing.T) {
	srv := newTestServer(t)

	doRequest(t, srv, http.MethodPost, "/api/transactions", buyRequest(100))
	rec := doRequest(t, srv, http.MethodPost, "/api/transactions", map[string]interface{}{
		"userId": "u1", "fundId": 100, "fundName": "Test Fund",
		"transactionType": "BUY", "date": "15-02-2024", "units": 50,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/api/users/u1/funds/100/transactions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var views []models.TransactionView
	decodeBody(t, rec, &views)
	require.Len(t, views, 2)
	assert.Equal(t, "15-02-2024", views[0].Date)

	rec = doRequest(t, srv, http.MethodGet, "/api/users/u1/funds/100/transactions?order=asc", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &views)
	assert.Equal(t, "15-01-2024", views[0].Date)
}

func TestFundSummaryEndpoint(t *testing.T) {
	srv := newTestServer(t)

	doRequest(t, srv, http.MethodPost, "/api/transactions", buyRequest(100))

	rec := doRequest(t, srv, http.MethodGet, "/api/users/u1/funds/100/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary models.FundSummary
	decodeBody(t, rec, &summary)
	assert.InDelta(t, 100, summary.TotalUnits, 1e-9)
	assert.InDelta(t, 13000, summary.TotalValue, 1e-6)
}

func TestFundSummaryMissingHolding(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/users/u1/funds/100/summary", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInvalidFundID(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/users/u1/funds/abc/summary", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardEndpoints(t *testing.T) {
	srv := newTestServer(t)

	doRequest(t, srv, http.MethodPost, "/api/transactions", buyRequest(100))

	rec := doRequest(t, srv, http.MethodGet, "/api/users/u1/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var dash models.Dashboard
	decodeBody(t, rec, &dash)
	assert.Equal(t, "u1", dash.UserID)
	assert.Len(t, dash.FundSummaries, 1)
	assert.NotEmpty(t, dash.TodayMessage)

	rec = doRequest(t, srv, http.MethodGet, "/api/users/u1/dashboard/extra", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/api/users/u1/dashboard/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var series []models.MonthlyPoint
	decodeBody(t, rec, &series)
	assert.Len(t, series, 3)
}

func TestSIPLifecycle(t *testing.T) {
	srv := newTestServer(t)

	doRequest(t, srv, http.MethodPost, "/api/transactions", buyRequest(100))

	rec := doRequest(t, srv, http.MethodPost, "/api/users/u1/funds/100/sips", map[string]interface{}{
		"amount": 5000, "dayOfMonth": 5,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created models.SIP
	decodeBody(t, rec, &created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "u1", created.UserID)
	assert.Equal(t, 100, created.FundID)

	rec = doRequest(t, srv, http.MethodGet, "/api/users/u1/funds/100/sips", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var sips []models.SIP
	decodeBody(t, rec, &sips)
	assert.Len(t, sips, 1)

	rec = doRequest(t, srv, http.MethodDelete, "/api/sips/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/api/users/u1/funds/100/sips", nil)
	decodeBody(t, rec, &sips)
	assert.Empty(t, sips)
}

func TestFundSearch(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/funds/search?q=test", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var funds []models.Fund
	decodeBody(t, rec, &funds)
	assert.Len(t, funds, 1)

	rec = doRequest(t, srv, http.MethodGet, "/api/funds/search", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLatestNAVEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/funds/100/nav/latest", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	decodeBody(t, rec, &body)
	assert.Equal(t, 130.0, body["nav"])
	assert.Equal(t, "15-03-2024", body["date"])
}

func TestBenchmarksEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/benchmarks", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var names []string
	decodeBody(t, rec, &names)
	assert.Contains(t, names, "Nifty 100")
}

func TestQuotesEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/quotes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var quotes []string
	decodeBody(t, rec, &quotes)
	assert.NotEmpty(t, quotes)
}

func TestPerformanceChartEndpoint(t *testing.T) {
	srv := newTestServer(t)

	doRequest(t, srv, http.MethodPost, "/api/transactions", buyRequest(100))

	rec := doRequest(t, srv, http.MethodGet, "/api/users/u1/funds/100/performance/chart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Body.Bytes())
}

func TestCorrelationIDHeader(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/health", nil)
	assert.NotEmpty(t, rec.Header().Get("X-Correlation-ID"))
}
