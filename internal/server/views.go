package server

import (
	"github.com/SynTaxOp/Stonks/internal/common"
	"github.com/SynTaxOp/Stonks/internal/models"
)

// toTransactionView renders a transaction with calendar-day date strings.
func toTransactionView(tx *models.Transaction) models.TransactionView {
	return models.TransactionView{
		ID:            tx.ID,
		UserID:        tx.UserID,
		FundID:        tx.FundID,
		FundName:      tx.FundName,
		Kind:          tx.Kind,
		Date:          common.FormatDate(tx.Date),
		Amount:        tx.Amount,
		Units:         tx.Units,
		Price:         tx.Price,
		IsRedeemed:    tx.IsRedeemed,
		SellDate:      common.FormatDate(tx.SellDate),
		BookedProfit:  tx.BookedProfit,
		PriceAdjusted: tx.PriceAdjusted,
	}
}

func toTransactionViews(txs []*models.Transaction) []models.TransactionView {
	views := make([]models.TransactionView, len(txs))
	for i, tx := range txs {
		views[i] = toTransactionView(tx)
	}
	return views
}
