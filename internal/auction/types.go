// internal/auction/types.go
package auction

import (
	"time"

	"auctionbackend/internal/catalog"
)

// Status is the auction session lifecycle state.
type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
)

// Bid is one accepted bid in an item's live history. Histories are
// append-only and strictly increasing in amount by construction.
type Bid struct {
	BidderID  int64     `json:"bidder_id"`
	Username  string    `json:"username"`
	TeamName  string    `json:"team_name"`
	Purse     float64   `json:"-"` // captured at acceptance; lets Sell settle without an identity lookup
	Amount    float64   `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

// Sale is the in-memory record of a closed item for the current run.
type Sale struct {
	Item       string    `json:"item"`
	Category   string    `json:"category"`
	BasePrice  float64   `json:"base_price"`
	WinnerID   int64     `json:"winner_id"`
	Buyer      string    `json:"buyer"`
	TeamName   string    `json:"team_name"`
	FinalPrice float64   `json:"final_price"`
	Timestamp  time.Time `json:"timestamp"`
}

// Snapshot is a consistent copy of the full session state, served to late
// joiners and the REST state endpoint.
type Snapshot struct {
	Status       Status           `json:"status"`
	Category     string           `json:"current_category,omitempty"`
	PoolNumber   int              `json:"current_set,omitempty"`
	ActivePool   string           `json:"active_pool,omitempty"`
	CurrentIndex int              `json:"current_player_index"`
	CurrentItem  *catalog.Item    `json:"current_player,omitempty"`
	PoolSize     int              `json:"pool_size"`
	Bids         map[string][]Bid `json:"bids"`
	Sold         map[string]Sale  `json:"sold_players"`
	StartTime    *time.Time       `json:"start_time,omitempty"`
}

// Broadcast event types on the real-time channel.
const (
	EventStateSnapshot    = "state_snapshot"
	EventPoolStarted      = "pool_started"
	EventBidAccepted      = "bid_accepted"
	EventBidRejected      = "bid_rejected"
	EventItemSold         = "item_sold"
	EventItemAdvanced     = "item_advanced"
	EventUserDisconnected = "user_disconnected"
)

// PoolStartedEvent announces a new pool. State rides along so clients do not
// need a follow-up snapshot round trip.
type PoolStartedEvent struct {
	Category   string    `json:"category"`
	PoolNumber int       `json:"set"`
	Message    string    `json:"message"`
	State      *Snapshot `json:"state,omitempty"`
}

// BidAcceptedEvent is fanned out to every participant on an accepted bid.
type BidAcceptedEvent struct {
	Item       string    `json:"item"`
	BidderID   int64     `json:"bidder_id"`
	Username   string    `json:"username"`
	TeamName   string    `json:"team_name"`
	Amount     float64   `json:"amount"`
	NewHighBid float64   `json:"new_high_bid"`
	Timestamp  time.Time `json:"timestamp"`
}

// BidRejectedEvent is unicast to the submitting participant only.
type BidRejectedEvent struct {
	Code             string   `json:"code"`
	Message          string   `json:"message"`
	AvailableBalance *float64 `json:"available_balance,omitempty"`
}

// ItemSoldEvent announces a finalized sale, including the winner's
// recomputed available balance.
type ItemSoldEvent struct {
	Item                   string  `json:"item"`
	WinnerID               int64   `json:"winner_id"`
	Buyer                  string  `json:"buyer"`
	TeamName               string  `json:"team_name"`
	FinalPrice             float64 `json:"final_price"`
	WinnerRemainingBalance float64 `json:"winner_remaining_balance"`
}

// ItemAdvancedEvent announces the next item under the hammer, or pool
// exhaustion when the last item has been passed.
type ItemAdvancedEvent struct {
	Item          string    `json:"item"`
	PoolExhausted bool      `json:"pool_exhausted"`
	State         *Snapshot `json:"state,omitempty"`
}
