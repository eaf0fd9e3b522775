// internal/data/auction_repo.go
package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SaleRecord is the permanent transcript entry for a closed item.
type SaleRecord struct {
	Item       string
	Category   string
	BasePrice  float64
	WinnerID   int64
	FinalPrice float64
	Timestamp  time.Time
}

// BidAudit is a fire-and-forget bid trail entry, not required for the
// correctness of in-memory arbitration.
type BidAudit struct {
	BidderID  int64
	Item      string
	Amount    float64
	Timestamp time.Time
}

// RosterEntry is a purchased player on a bidder's team sheet.
type RosterEntry struct {
	Item      string  `json:"name"`
	Category  string  `json:"category"`
	Price     float64 `json:"price"`
	Position  *int    `json:"position,omitempty"`
	IsCaptain bool    `json:"is_captain"`
}

// AuctionRepo persists the auction transcript and team sheets. All access
// goes through the package-level connection helpers.
type AuctionRepo struct{}

func NewAuctionRepo() *AuctionRepo {
	return &AuctionRepo{}
}

// RecordSale durably writes a sale in one transaction: the sale log entry,
// the winner's roster row, and the winning-bid mark on the audit trail.
func (r *AuctionRepo) RecordSale(rec SaleRecord) error {
	conn, err := GetDB()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin sale transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sale_log (player_name, category, base_price, winner_id, final_price, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.Item, rec.Category, rec.BasePrice, rec.WinnerID, rec.FinalPrice, formatTime(rec.Timestamp))
	if err != nil {
		return fmt.Errorf("failed to insert sale log entry: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO rosters (bidder_id, player_name, player_category, purchase_price)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(bidder_id, player_name) DO UPDATE SET
			player_category = excluded.player_category,
			purchase_price = excluded.purchase_price`,
		rec.WinnerID, rec.Item, rec.Category, rec.FinalPrice)
	if err != nil {
		return fmt.Errorf("failed to insert roster entry: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE bids SET is_winning = 1
		WHERE bidder_id = ? AND player_name = ? AND amount = ?`,
		rec.WinnerID, rec.Item, rec.FinalPrice)
	if err != nil {
		return fmt.Errorf("failed to mark winning bid: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit sale: %w", err)
	}
	return nil
}

// RecordBidAudit appends an accepted bid to the audit trail.
func (r *AuctionRepo) RecordBidAudit(b BidAudit) error {
	_, err := ExecDB(`
		INSERT INTO bids (bidder_id, player_name, amount, timestamp)
		VALUES (?, ?, ?, ?)`,
		b.BidderID, b.Item, b.Amount, formatTime(b.Timestamp))
	if err != nil {
		return fmt.Errorf("failed to record bid audit: %w", err)
	}
	return nil
}

// TotalSpent sums the final prices of sales won by a bidder at or after
// since. The zero time covers the whole sale log.
func (r *AuctionRepo) TotalSpent(bidderID int64, since time.Time) (float64, error) {
	row := QueryRowDB(`
		SELECT COALESCE(SUM(final_price), 0) FROM sale_log
		WHERE winner_id = ? AND timestamp >= ?`, bidderID, formatTime(since))
	if row == nil {
		return 0, fmt.Errorf("database not initialized")
	}
	var total float64
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum spend for bidder %d: %w", bidderID, err)
	}
	return total, nil
}

// ClearRosters wipes every team sheet for a fresh run. The sale log and bid
// audit are never touched.
func (r *AuctionRepo) ClearRosters() error {
	if _, err := ExecDB(`DELETE FROM rosters`); err != nil {
		return fmt.Errorf("failed to clear rosters: %w", err)
	}
	return nil
}

// RosterFor returns a bidder's purchased players in position order.
func (r *AuctionRepo) RosterFor(bidderID int64) ([]RosterEntry, error) {
	rows, err := QueryDB(`
		SELECT player_name, player_category, purchase_price, position, is_captain
		FROM rosters WHERE bidder_id = ?
		ORDER BY position IS NULL, position, player_name`, bidderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query roster: %w", err)
	}
	defer rows.Close()

	var entries []RosterEntry
	for rows.Next() {
		var e RosterEntry
		var category sql.NullString
		var position sql.NullInt64
		if err := rows.Scan(&e.Item, &category, &e.Price, &position, &e.IsCaptain); err != nil {
			return nil, fmt.Errorf("failed to scan roster entry: %w", err)
		}
		e.Category = category.String
		if e.Category == "" {
			e.Category = "Unknown"
		}
		if position.Valid {
			pos := int(position.Int64)
			e.Position = &pos
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// PositionUpdate assigns a roster slot (and optionally the captaincy).
type PositionUpdate struct {
	Item     string `json:"name"`
	Position int    `json:"position"`
}

// UpdatePositions rewrites a bidder's playing order. Position 1 defaults to
// captain unless a captain is named explicitly.
func (r *AuctionRepo) UpdatePositions(bidderID int64, updates []PositionUpdate, captain string) error {
	conn, err := GetDB()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin roster update: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		UPDATE rosters SET position = NULL, is_captain = 0 WHERE bidder_id = ?`, bidderID)
	if err != nil {
		return fmt.Errorf("failed to clear roster positions: %w", err)
	}

	for _, u := range updates {
		isCaptain := u.Item == captain || (captain == "" && u.Position == 1)
		_, err = tx.ExecContext(ctx, `
			UPDATE rosters SET position = ?, is_captain = ?
			WHERE bidder_id = ? AND player_name = ?`,
			u.Position, isCaptain, bidderID, u.Item)
		if err != nil {
			return fmt.Errorf("failed to set position for %s: %w", u.Item, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit roster update: %w", err)
	}
	return nil
}

// AllSales returns the full sale log in chronological order.
func (r *AuctionRepo) AllSales() ([]SaleRecord, error) {
	rows, err := QueryDB(`
		SELECT player_name, category, base_price, winner_id, final_price, timestamp
		FROM sale_log ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sale log: %w", err)
	}
	defer rows.Close()

	var sales []SaleRecord
	for rows.Next() {
		var s SaleRecord
		var category sql.NullString
		var ts string
		if err := rows.Scan(&s.Item, &category, &s.BasePrice, &s.WinnerID, &s.FinalPrice, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan sale record: %w", err)
		}
		s.Category = category.String
		s.Timestamp = parseTime(ts)
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

// AllBids returns the audit trail in submission order.
func (r *AuctionRepo) AllBids() ([]BidAudit, error) {
	rows, err := QueryDB(`
		SELECT bidder_id, player_name, amount, timestamp FROM bids ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query bid audit: %w", err)
	}
	defer rows.Close()

	var bids []BidAudit
	for rows.Next() {
		var b BidAudit
		var ts string
		if err := rows.Scan(&b.BidderID, &b.Item, &b.Amount, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan bid audit: %w", err)
		}
		b.Timestamp = parseTime(ts)
		bids = append(bids, b)
	}
	return bids, rows.Err()
}
