// Package models defines the domain records shared across services.
package models

import "time"

// Transaction kinds.
const (
	KindBuy  = "BUY"
	KindSell = "SELL"
)

// Unit derivation factors applied when creating a BUY from a single input.
// Amount-first buys lose stamp duty before units are allotted; units-first
// buys cost slightly more than the raw NAV multiple.
const (
	BuyAmountToUnitsFactor = 0.99995
	BuyUnitsToAmountFactor = 1.000186
)

// Transaction is a single ledger event for a user's fund. BUY rows double as
// lots: once a later sale consumes them they are marked redeemed, and a
// partial consumption splits the row (the original mutates into the consumed
// portion, a fresh row carries the untouched remainder).
type Transaction struct {
	ID       string `badgerhold:"key" json:"id"`
	UserID   string `badgerhold:"index" json:"userId"`
	FundID   int    `json:"fundId"`
	FundName string `json:"fundName"`
	Kind     string `json:"transactionType"`

	// Date is the epoch second of the transaction day's start in IST.
	Date   int64   `json:"date"`
	Amount float64 `json:"amount"`
	Units  float64 `json:"units"`
	Price  float64 `json:"price"`

	// Redemption state. On a BUY, set when a sale consumes the lot. On a
	// SELL, IsRedeemed is always true and BookedProfit is the total profit
	// booked across the lots it consumed.
	IsRedeemed   bool    `json:"isRedeemed"`
	SellDate     int64   `json:"sellDate"`
	BookedProfit float64 `json:"bookedProfit"`

	// PriceAdjusted records that no NAV quote existed for the transaction
	// date and the latest known NAV was used instead.
	PriceAdjusted bool `json:"priceAdjusted"`

	CreatedAt time.Time `json:"createdAt"`
}

// IsBuy reports whether the transaction is a purchase.
func (t *Transaction) IsBuy() bool { return t.Kind == KindBuy }

// IsSell reports whether the transaction is a redemption.
func (t *Transaction) IsSell() bool { return t.Kind == KindSell }

// NewTransactionRequest is the caller-facing shape for creating a ledger
// event. Exactly one of Amount or Units must be set; the other is derived
// from the NAV on Date.
type NewTransactionRequest struct {
	UserID   string   `json:"userId"`
	FundID   int      `json:"fundId"`
	FundName string   `json:"fundName"`
	Kind     string   `json:"transactionType"`
	Date     string   `json:"date"` // DD-MM-YYYY
	Amount   *float64 `json:"amount,omitempty"`
	Units    *float64 `json:"units,omitempty"`
}

// TransactionView is the API rendering of a transaction with calendar-day
// date strings.
type TransactionView struct {
	ID            string  `json:"id"`
	UserID        string  `json:"userId"`
	FundID        int     `json:"fundId"`
	FundName      string  `json:"fundName"`
	Kind          string  `json:"transactionType"`
	Date          string  `json:"date"`
	Amount        float64 `json:"amount"`
	Units         float64 `json:"units"`
	Price         float64 `json:"price"`
	IsRedeemed    bool    `json:"isRedeemed"`
	SellDate      string  `json:"sellDate,omitempty"`
	BookedProfit  float64 `json:"bookedProfit"`
	PriceAdjusted bool    `json:"priceAdjusted"`
}
