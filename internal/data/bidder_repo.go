// internal/data/bidder_repo.go
package data

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Bidder is a pre-provisioned auction participant. The admin role is a
// column resolved at seeding time, not a username comparison at runtime.
type Bidder struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string `json:"-"`
	TeamName     string
	Purse        float64
	IsAdmin      bool
	CreatedAt    time.Time
}

// ErrBidderNotFound is returned when a lookup matches no bidder row.
var ErrBidderNotFound = errors.New("bidder not found")

// BidderRepo reads and provisions bidder accounts. All access goes through
// the package-level connection helpers.
type BidderRepo struct{}

func NewBidderRepo() *BidderRepo {
	return &BidderRepo{}
}

const bidderColumns = `id, username, email, password_hash, team_name, purse, is_admin, created_at`

func (r *BidderRepo) GetByUsername(username string) (*Bidder, error) {
	row := QueryRowDB(`SELECT `+bidderColumns+` FROM bidders WHERE username = ?`, username)
	return scanBidder(row)
}

func (r *BidderRepo) GetByID(id int64) (*Bidder, error) {
	row := QueryRowDB(`SELECT `+bidderColumns+` FROM bidders WHERE id = ?`, id)
	return scanBidder(row)
}

func (r *BidderRepo) All() ([]Bidder, error) {
	rows, err := QueryDB(`SELECT ` + bidderColumns + ` FROM bidders ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query bidders: %w", err)
	}
	defer rows.Close()

	var bidders []Bidder
	for rows.Next() {
		b, err := scanBidderRow(rows)
		if err != nil {
			return nil, err
		}
		bidders = append(bidders, *b)
	}
	return bidders, rows.Err()
}

// SeedBidder describes one provisioning entry. Password hashing happens in
// the security package; the repo only stores the hash.
type SeedBidder struct {
	Username     string
	Email        string
	PasswordHash string
	TeamName     string
	IsAdmin      bool
}

// Seed inserts or refreshes pre-registered bidders with the given allocation.
func (r *BidderRepo) Seed(entries []SeedBidder, purse float64) error {
	for _, e := range entries {
		email := e.Email
		if email == "" {
			email = e.Username + "@auction.local"
		}

		res, err := ExecDB(`
			UPDATE bidders SET password_hash = ?, team_name = ?, purse = ?, is_admin = ?
			WHERE username = ?`,
			e.PasswordHash, e.TeamName, purse, e.IsAdmin, e.Username)
		if err != nil {
			return fmt.Errorf("failed to update bidder %s: %w", e.Username, err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check update for %s: %w", e.Username, err)
		}
		if affected > 0 {
			continue
		}

		_, err = ExecDB(`
			INSERT INTO bidders (username, email, password_hash, team_name, purse, is_admin)
			VALUES (?, ?, ?, ?, ?, ?)`,
			e.Username, email, e.PasswordHash, e.TeamName, purse, e.IsAdmin)
		if err != nil {
			return fmt.Errorf("failed to insert bidder %s: %w", e.Username, err)
		}
	}
	return nil
}

func scanBidder(row *sql.Row) (*Bidder, error) {
	if row == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	var b Bidder
	var createdAt string
	err := row.Scan(&b.ID, &b.Username, &b.Email, &b.PasswordHash, &b.TeamName, &b.Purse, &b.IsAdmin, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBidderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan bidder: %w", err)
	}
	b.CreatedAt = parseTime(createdAt)
	return &b, nil
}

func scanBidderRow(rows *sql.Rows) (*Bidder, error) {
	var b Bidder
	var createdAt string
	if err := rows.Scan(&b.ID, &b.Username, &b.Email, &b.PasswordHash, &b.TeamName, &b.Purse, &b.IsAdmin, &createdAt); err != nil {
		return nil, fmt.Errorf("failed to scan bidder: %w", err)
	}
	b.CreatedAt = parseTime(createdAt)
	return &b, nil
}
