// internal/auction/ledger.go
package auction

import "github.com/shopspring/decimal"

// Ledger arithmetic uses decimal so repeated fractional debits (bids move in
// 0.05 Cr steps) never drift the way float accumulation would.

// AvailableBalance computes a bidder's remaining budget: the allocation minus
// the final prices of every sale that bidder has won this run. It is derived
// on demand from the sale records, never cached.
func AvailableBalance(allocation float64, sold map[string]Sale, bidderID int64) float64 {
	balance := decimal.NewFromFloat(allocation)
	for _, sale := range sold {
		if sale.WinnerID == bidderID {
			balance = balance.Sub(decimal.NewFromFloat(sale.FinalPrice))
		}
	}
	f, _ := balance.Float64()
	return f
}

// HighBid returns the current high bid amount for an item's history, or 0
// when there are no bids yet.
func HighBid(bids []Bid) float64 {
	high := decimal.Zero
	for _, b := range bids {
		amount := decimal.NewFromFloat(b.Amount)
		if amount.GreaterThan(high) {
			high = amount
		}
	}
	f, _ := high.Float64()
	return f
}

// exceeds reports whether a strictly exceeds b, compared exactly.
func exceeds(a, b float64) bool {
	return decimal.NewFromFloat(a).GreaterThan(decimal.NewFromFloat(b))
}
