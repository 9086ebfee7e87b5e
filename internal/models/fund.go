package models

import "time"

// Holding is a user's position in one mutual fund. Units and InvestedAmount
// are denormalized from the ledger and refreshed after every write.
type Holding struct {
	ID             string    `badgerhold:"key" json:"id"`
	UserID         string    `badgerhold:"index" json:"userId"`
	FundID         int       `json:"fundId"`
	FundName       string    `json:"fundName"`
	IsEmergency    bool      `json:"isEmergency"`
	Tag            string    `json:"tag,omitempty"`
	Benchmark      string    `json:"benchmark,omitempty"`
	Units          float64   `json:"units"`
	InvestedAmount float64   `json:"investmentAmount"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// FundSummary is the point-in-time valuation of a holding.
type FundSummary struct {
	FundID            int     `json:"fundId"`
	Name              string  `json:"name"`
	Tag               string  `json:"tag,omitempty"`
	IsEmergency       bool    `json:"isEmergency"`
	TotalInvested     float64 `json:"totalInvested"`
	TotalValue        float64 `json:"totalValue"`
	TotalUnits        float64 `json:"totalUnits"`
	ProfitLoss        float64 `json:"profitLoss"`
	ProfitLossPercent float64 `json:"profitLossPercent"`
	TodayProfit       float64 `json:"todayProfit"`
}

// FundSummaryExtra carries the slower, ledger-derived figures.
type FundSummaryExtra struct {
	XIRR                      float64 `json:"xirr"`
	LongTermGains             float64 `json:"longTermGains"`
	TotalRealizedProfit       float64 `json:"totalRealizedProfit"`
	CurrentYearRealizedProfit float64 `json:"currentYearTotalRealizedProfit"`
}

// UnitLot is one ledger row of the per-fund units breakdown, valued either at
// its booked profit (sold) or mark-to-market (held).
type UnitLot struct {
	TransactionID     string  `json:"transactionId"`
	Kind              string  `json:"transactionType"`
	Date              string  `json:"date"`
	Units             float64 `json:"units"`
	Amount            float64 `json:"amount"`
	IsSold            bool    `json:"isSold"`
	SellDate          string  `json:"sellDate,omitempty"`
	ProfitLoss        float64 `json:"profitLoss"`
	ProfitLossPercent float64 `json:"profitLossPercent"`
}

// FundDetails aggregates everything the fund page needs in one response.
type FundDetails struct {
	Holding       *Holding          `json:"holding"`
	LatestNAV     float64           `json:"latestNav"`
	LatestNAVDate string            `json:"latestNavDate"`
	Summary       *FundSummary      `json:"summary,omitempty"`
	ExtraSummary  *FundSummaryExtra `json:"extraSummary,omitempty"`
	Units         []UnitLot         `json:"units"`
	SIPs          []SIP             `json:"registeredSips"`
}

// MonthlyPoint is one month of the reconstructed performance series. Values
// are cumulative as of month end; the ThisMonth fields and the two ratios are
// deltas against the previous point.
type MonthlyPoint struct {
	Month             string  `json:"month"`
	TotalValue        float64 `json:"totalValue"`
	TotalInvested     float64 `json:"totalInvested"`
	TotalProfit       float64 `json:"totalProfit"`
	ValueBenchmark    float64 `json:"totalValueBenchmark"`
	ValueNifty50      float64 `json:"totalValueNifty50"`
	ValueNifty100     float64 `json:"totalValueNifty100"`
	ThisMonthProfit   float64 `json:"thisMonthProfit"`
	ThisMonthInvested float64 `json:"thisMonthInvested"`
	GrowthPercent     float64 `json:"growthPercent"`
	AlphaPercent      float64 `json:"alphaPercent"`
}

// NAVPoint is one historical quote in API responses, newest first.
type NAVPoint struct {
	Date string  `json:"date"`
	NAV  float64 `json:"nav"`
}

// Dashboard aggregates valuations across all of a user's funds. Emergency
// funds are excluded from the totals and accumulated separately.
type Dashboard struct {
	UserID                  string        `json:"userId"`
	FundSummaries           []FundSummary `json:"fundSummaries"`
	TotalInvested           float64       `json:"totalInvested"`
	TotalValue              float64       `json:"totalValue"`
	ProfitLoss              float64       `json:"profitLoss"`
	ProfitLossPercent       float64       `json:"profitLossPercent"`
	TotalEmergencyFundValue float64       `json:"totalEmergencyFundValue"`
	TodayProfit             float64       `json:"todayProfit"`
	TodayMessage            string        `json:"todayMessage"`
}

// DashboardExtra carries the ledger-derived cross-fund figures.
type DashboardExtra struct {
	XIRR                      float64 `json:"xirr"`
	LongTermGains             float64 `json:"longTermGains"`
	TotalRealizedProfit       float64 `json:"totalRealizedProfit"`
	CurrentYearRealizedProfit float64 `json:"currentYearTotalRealizedProfit"`
}
