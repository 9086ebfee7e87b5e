// Package navdata resolves mutual fund and benchmark prices.
package navdata

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/SynTaxOp/Stonks/internal/common"
	"github.com/SynTaxOp/Stonks/internal/interfaces"
	"github.com/SynTaxOp/Stonks/internal/models"
)

// Scheme codes of the fixed broad-market comparison indices.
const (
	Nifty50SchemeCode  = 119063
	Nifty100SchemeCode = 149868
)

// benchmarkSchemes maps configurable benchmark names to index-fund scheme
// codes whose NAV series tracks the index.
var benchmarkSchemes = map[string]int{
	"Nifty 100":                    149868,
	"Nifty 500":                    152731,
	"Nifty 150 Midcap":             150673,
	"Nifty 250 Smallcap":           150677,
	"Nifty Dividend Opportunities": 128639,
	"NASDAQ 100":                   149219,
}

// Service implements NAVService on top of the mfapi client with a TTL cache
// over fund detail fetches. NAV histories are large and change once a day, so
// a short in-process cache keeps ledger replays from hammering the API.
type Service struct {
	client interfaces.MFAPIClient
	logger *common.Logger
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	details map[int]cachedDetail
	funds   []models.Fund
	fundsAt time.Time
}

type cachedDetail struct {
	detail  *models.FundDetail
	fetched time.Time
}

// NewService creates a NAV data service. A non-positive ttl disables caching.
func NewService(client interfaces.MFAPIClient, ttl time.Duration, logger *common.Logger) *Service {
	return &Service{
		client:  client,
		logger:  logger,
		ttl:     ttl,
		now:     time.Now,
		details: make(map[int]cachedDetail),
	}
}

func (s *Service) fundDetail(ctx context.Context, schemeCode int) (*models.FundDetail, error) {
	s.mu.Lock()
	if entry, ok := s.details[schemeCode]; ok && s.now().Sub(entry.fetched) < s.ttl {
		s.mu.Unlock()
		return entry.detail, nil
	}
	s.mu.Unlock()

	detail, err := s.client.FundDetail(ctx, schemeCode)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fund detail for scheme %d: %w", schemeCode, err)
	}

	s.mu.Lock()
	s.details[schemeCode] = cachedDetail{detail: detail, fetched: s.now()}
	s.mu.Unlock()
	return detail, nil
}

// LatestNAV returns the newest quote for a scheme, preferring the cheap
// /latest endpoint and falling back to the history head.
func (s *Service) LatestNAV(ctx context.Context, schemeCode int) (float64, error) {
	if nav, err := s.client.LatestNAV(ctx, schemeCode); err == nil && nav > 0 {
		return nav, nil
	}

	detail, err := s.fundDetail(ctx, schemeCode)
	if err != nil {
		return 0, err
	}
	if len(detail.Data) == 0 {
		return 0, fmt.Errorf("no NAV data for scheme %d", schemeCode)
	}
	return detail.Data[0].NAV, nil
}

// PreviousNAV returns the quote preceding the latest one.
func (s *Service) PreviousNAV(ctx context.Context, schemeCode int) (float64, error) {
	detail, err := s.fundDetail(ctx, schemeCode)
	if err != nil {
		return 0, err
	}
	if len(detail.Data) < 2 {
		return 0, fmt.Errorf("no previous NAV for scheme %d", schemeCode)
	}
	return detail.Data[1].NAV, nil
}

// LatestNAVWithDate returns the newest quote and its calendar day.
func (s *Service) LatestNAVWithDate(ctx context.Context, schemeCode int) (float64, string, error) {
	detail, err := s.fundDetail(ctx, schemeCode)
	if err != nil {
		return 0, "", err
	}
	if len(detail.Data) == 0 {
		return 0, "", fmt.Errorf("no NAV data for scheme %d", schemeCode)
	}
	return detail.Data[0].NAV, detail.Data[0].Date, nil
}

// NAVForDate resolves the quote for an IST day epoch: the oldest quote dated
// at-or-after the day. When the day lies beyond the newest quote the latest
// known NAV is returned with exact=false.
func (s *Service) NAVForDate(ctx context.Context, schemeCode int, epoch int64) (float64, bool, error) {
	detail, err := s.fundDetail(ctx, schemeCode)
	if err != nil {
		return 0, false, err
	}
	if len(detail.Data) == 0 {
		return 0, false, fmt.Errorf("no NAV data for scheme %d", schemeCode)
	}

	nav, exact := NAVFromHistory(detail.Data, epoch)
	return nav, exact, nil
}

// NAVFromHistory resolves a quote against a newest-first history without any
// fetching: binary search for the oldest quote dated at-or-after the target
// day, degrading to the latest quote (exact=false) when the day is beyond the
// newest one. An empty history yields (0, false).
func NAVFromHistory(rows []models.NAVRow, epoch int64) (float64, bool) {
	if len(rows) == 0 {
		return 0, false
	}

	// Rows are newest first, so older quotes live at higher indexes. Find
	// the largest index whose date is still at-or-after the target.
	left, right := 0, len(rows)-1
	found := -1
	for left <= right {
		mid := left + (right-left)/2
		midEpoch, err := common.ParseDate(rows[mid].Date)
		if err != nil {
			return rows[0].NAV, false
		}
		if midEpoch >= epoch {
			found = mid
			left = mid + 1
		} else {
			right = mid - 1
		}
	}

	if found < 0 {
		return rows[0].NAV, false
	}
	return rows[found].NAV, true
}

// NAVHistory returns a fund's full quote history, newest first.
func (s *Service) NAVHistory(ctx context.Context, schemeCode int) ([]models.NAVRow, error) {
	detail, err := s.fundDetail(ctx, schemeCode)
	if err != nil {
		return nil, err
	}
	return detail.Data, nil
}

// BenchmarkNAVHistory returns the history for a named benchmark, or nil when
// no benchmark is configured.
func (s *Service) BenchmarkNAVHistory(ctx context.Context, benchmark string) ([]models.NAVRow, error) {
	if benchmark == "" {
		return nil, nil
	}
	schemeCode, ok := benchmarkSchemes[benchmark]
	if !ok {
		return nil, fmt.Errorf("unknown benchmark %q", benchmark)
	}
	return s.NAVHistory(ctx, schemeCode)
}

// BenchmarkSchemeCode resolves a benchmark name to its scheme code.
func (s *Service) BenchmarkSchemeCode(benchmark string) (int, bool) {
	code, ok := benchmarkSchemes[benchmark]
	return code, ok
}

// Benchmarks lists the configurable benchmark names.
func (s *Service) Benchmarks() []string {
	names := make([]string, 0, len(benchmarkSchemes))
	for name := range benchmarkSchemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Nifty50History returns the Nifty 50 index series.
func (s *Service) Nifty50History(ctx context.Context) ([]models.NAVRow, error) {
	return s.NAVHistory(ctx, Nifty50SchemeCode)
}

// Nifty100History returns the Nifty 100 index series.
func (s *Service) Nifty100History(ctx context.Context) ([]models.NAVRow, error) {
	return s.NAVHistory(ctx, Nifty100SchemeCode)
}

// ListFunds returns the cached scheme list, refreshing it past the TTL.
func (s *Service) ListFunds(ctx context.Context) ([]models.Fund, error) {
	s.mu.Lock()
	if s.funds != nil && s.now().Sub(s.fundsAt) < s.ttl {
		funds := s.funds
		s.mu.Unlock()
		return funds, nil
	}
	s.mu.Unlock()

	funds, err := s.client.ListFunds(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fund list: %w", err)
	}

	s.mu.Lock()
	s.funds = funds
	s.fundsAt = s.now()
	s.mu.Unlock()
	return funds, nil
}

// SearchFunds returns schemes whose name contains the query,
// case-insensitively.
func (s *Service) SearchFunds(ctx context.Context, query string) ([]models.Fund, error) {
	funds, err := s.ListFunds(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil, nil
	}

	var matches []models.Fund
	for _, fund := range funds {
		if strings.Contains(strings.ToLower(fund.SchemeName), needle) {
			matches = append(matches, fund)
		}
	}
	return matches, nil
}
