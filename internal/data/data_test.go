package data

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
)

// openTestDB points the package connection at a throwaway database file.
// Tests in this package share the global connection and must not run parallel.
func openTestDB(t *testing.T) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "auction_test.db")
	assert.Nil(t, InitDB(path))
	assert.Nil(t, EnsureSchema())
	t.Cleanup(func() { CloseDB() })
}

func seedTestBidders(t *testing.T, repo *BidderRepo) {
	t.Helper()
	err := repo.Seed([]SeedBidder{
		{Username: "admin", PasswordHash: "hash-a", TeamName: "Auctioneer", IsAdmin: true},
		{Username: "csk", PasswordHash: "hash-b", TeamName: "Chennai Super Kings"},
		{Username: "mi", PasswordHash: "hash-c", TeamName: "Mumbai Indians"},
	}, 100)
	assert.Nil(t, err)
}

func TestSeedAndLookup(t *testing.T) {
	openTestDB(t)
	repo := NewBidderRepo()
	seedTestBidders(t, repo)

	admin, err := repo.GetByUsername("admin")
	assert.Nil(t, err)
	check.True(t, admin.IsAdmin)
	check.Equal(t, 100.0, admin.Purse)
	check.Equal(t, "admin@auction.local", admin.Email)

	byID, err := repo.GetByID(admin.ID)
	assert.Nil(t, err)
	check.Equal(t, admin.Username, byID.Username)

	_, err = repo.GetByUsername("nobody")
	check.True(t, errors.Is(err, ErrBidderNotFound))

	all, err := repo.All()
	assert.Nil(t, err)
	check.Equal(t, 3, len(all))
}

func TestSeed_IsIdempotentUpsert(t *testing.T) {
	openTestDB(t)
	repo := NewBidderRepo()
	seedTestBidders(t, repo)

	// Re-seeding updates in place rather than duplicating rows.
	err := repo.Seed([]SeedBidder{
		{Username: "csk", PasswordHash: "rotated", TeamName: "Chennai Super Kings"},
	}, 120)
	assert.Nil(t, err)

	all, err := repo.All()
	assert.Nil(t, err)
	check.Equal(t, 3, len(all))

	csk, err := repo.GetByUsername("csk")
	assert.Nil(t, err)
	check.Equal(t, "rotated", csk.PasswordHash)
	check.Equal(t, 120.0, csk.Purse)
}

func TestRecordSale_Transaction(t *testing.T) {
	openTestDB(t)
	bidders := NewBidderRepo()
	seedTestBidders(t, bidders)
	repo := NewAuctionRepo()

	winner, err := bidders.GetByUsername("csk")
	assert.Nil(t, err)

	now := time.Now()
	assert.Nil(t, repo.RecordBidAudit(BidAudit{BidderID: winner.ID, Item: "Player A", Amount: 10, Timestamp: now}))
	assert.Nil(t, repo.RecordBidAudit(BidAudit{BidderID: winner.ID, Item: "Player A", Amount: 12.5, Timestamp: now}))

	err = repo.RecordSale(SaleRecord{
		Item:       "Player A",
		Category:   "Indian Bat",
		BasePrice:  3,
		WinnerID:   winner.ID,
		FinalPrice: 12.5,
		Timestamp:  now,
	})
	assert.Nil(t, err)

	spent, err := repo.TotalSpent(winner.ID, time.Time{})
	assert.Nil(t, err)
	check.Equal(t, 12.5, spent)

	roster, err := repo.RosterFor(winner.ID)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(roster))
	check.Equal(t, "Player A", roster[0].Item)
	check.Equal(t, "Indian Bat", roster[0].Category)
	check.Equal(t, 12.5, roster[0].Price)
	check.Nil(t, roster[0].Position)

	sales, err := repo.AllSales()
	assert.Nil(t, err)
	assert.Equal(t, 1, len(sales))
	check.Equal(t, "Player A", sales[0].Item)
	check.Equal(t, winner.ID, sales[0].WinnerID)

	bids, err := repo.AllBids()
	assert.Nil(t, err)
	check.Equal(t, 2, len(bids))
}

func TestRecordSale_RebuyUpdatesRosterRow(t *testing.T) {
	openTestDB(t)
	bidders := NewBidderRepo()
	seedTestBidders(t, bidders)
	repo := NewAuctionRepo()

	winner, err := bidders.GetByUsername("mi")
	assert.Nil(t, err)

	// The same player sold twice to one bidder (a reset mid-run) keeps a
	// single roster row at the latest price.
	for _, price := range []float64{8, 11} {
		err = repo.RecordSale(SaleRecord{
			Item: "Player B", Category: "Foreign Pace",
			BasePrice: 1, WinnerID: winner.ID, FinalPrice: price, Timestamp: time.Now(),
		})
		assert.Nil(t, err)
	}

	roster, err := repo.RosterFor(winner.ID)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(roster))
	check.Equal(t, 11.0, roster[0].Price)
}

func TestTotalSpent_FloorScopesToTheCurrentRun(t *testing.T) {
	openTestDB(t)
	bidders := NewBidderRepo()
	seedTestBidders(t, bidders)
	repo := NewAuctionRepo()

	winner, err := bidders.GetByUsername("csk")
	assert.Nil(t, err)

	epoch := time.Now()
	older := epoch.Add(-time.Hour)
	for i, sale := range []SaleRecord{
		{Item: "Player A", WinnerID: winner.ID, FinalPrice: 40, Timestamp: older},
		{Item: "Player B", WinnerID: winner.ID, FinalPrice: 15, Timestamp: epoch.Add(time.Second)},
	} {
		sale.Category = "Indian Bat"
		sale.BasePrice = float64(i + 1)
		assert.Nil(t, repo.RecordSale(sale))
	}

	// The zero floor spans every run; a run epoch hides earlier sales.
	all, err := repo.TotalSpent(winner.ID, time.Time{})
	assert.Nil(t, err)
	check.Equal(t, 55.0, all)

	current, err := repo.TotalSpent(winner.ID, epoch)
	assert.Nil(t, err)
	check.Equal(t, 15.0, current)
}

func TestClearRosters(t *testing.T) {
	openTestDB(t)
	bidders := NewBidderRepo()
	seedTestBidders(t, bidders)
	repo := NewAuctionRepo()

	winner, err := bidders.GetByUsername("mi")
	assert.Nil(t, err)
	assert.Nil(t, repo.RecordSale(SaleRecord{
		Item: "Player A", Category: "Indian Bat", BasePrice: 1,
		WinnerID: winner.ID, FinalPrice: 9, Timestamp: time.Now(),
	}))

	assert.Nil(t, repo.ClearRosters())

	roster, err := repo.RosterFor(winner.ID)
	assert.Nil(t, err)
	check.Equal(t, 0, len(roster))

	// The transcript is untouched.
	sales, err := repo.AllSales()
	assert.Nil(t, err)
	check.Equal(t, 1, len(sales))
}

func TestUpdatePositions(t *testing.T) {
	openTestDB(t)
	bidders := NewBidderRepo()
	seedTestBidders(t, bidders)
	repo := NewAuctionRepo()

	winner, err := bidders.GetByUsername("csk")
	assert.Nil(t, err)

	for _, name := range []string{"Player A", "Player B", "Player C"} {
		err = repo.RecordSale(SaleRecord{
			Item: name, Category: "Indian Bat", BasePrice: 1,
			WinnerID: winner.ID, FinalPrice: 5, Timestamp: time.Now(),
		})
		assert.Nil(t, err)
	}

	err = repo.UpdatePositions(winner.ID, []PositionUpdate{
		{Item: "Player C", Position: 1},
		{Item: "Player A", Position: 2},
	}, "")
	assert.Nil(t, err)

	roster, err := repo.RosterFor(winner.ID)
	assert.Nil(t, err)
	assert.Equal(t, 3, len(roster))

	// Positioned players first, unpositioned trailing.
	check.Equal(t, "Player C", roster[0].Item)
	check.True(t, roster[0].IsCaptain) // position 1 defaults to captain
	check.Equal(t, "Player A", roster[1].Item)
	check.False(t, roster[1].IsCaptain)
	check.Equal(t, "Player B", roster[2].Item)
	check.Nil(t, roster[2].Position)

	// An explicit captain overrides the position-1 default.
	err = repo.UpdatePositions(winner.ID, []PositionUpdate{
		{Item: "Player C", Position: 1},
		{Item: "Player A", Position: 2},
	}, "Player A")
	assert.Nil(t, err)

	roster, err = repo.RosterFor(winner.ID)
	assert.Nil(t, err)
	check.False(t, roster[0].IsCaptain)
	check.True(t, roster[1].IsCaptain)
}

func TestTimeRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	check.Equal(t, now, parseTime(formatTime(now)))

	// sqlite CURRENT_TIMESTAMP shape
	parsed := parseTime("2026-03-14 15:09:26")
	check.Equal(t, now, parsed)

	check.True(t, parseTime("garbage").IsZero())
}
