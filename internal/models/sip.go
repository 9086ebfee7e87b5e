package models

import "time"

// SIP is a registered recurring investment in one fund.
type SIP struct {
	ID         string    `badgerhold:"key" json:"id"`
	UserID     string    `badgerhold:"index" json:"userId"`
	FundID     int       `json:"fundId"`
	FundName   string    `json:"fundName"`
	Amount     float64   `json:"amount"`
	DayOfMonth int       `json:"dayOfMonth"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"createdAt"`
}
