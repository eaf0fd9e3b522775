// internal/auction/engine.go
package auction

import (
	"fmt"
	"sync"
	"time"

	"auctionbackend/internal/catalog"
	"auctionbackend/internal/data"
	"auctionbackend/internal/logger"
	"auctionbackend/internal/security"
)

// Directory resolves bidder identities. Lookups hit the identity store on
// every call so a role decision is never cached across session state changes.
type Directory interface {
	Lookup(bidderID int64) (*security.Identity, error)
	IsAdmin(bidderID int64) (bool, error)
}

// Store is the durable persistence collaborator. RecordSale must succeed
// before a sale is considered final; RecordBidAudit is fire-and-forget.
// ClearRosters wipes the team-sheet projection when a new run begins; the
// sale log and bid audit stay as the permanent transcript.
type Store interface {
	RecordSale(rec data.SaleRecord) error
	RecordBidAudit(b data.BidAudit) error
	ClearRosters() error
}

// Broadcaster fans an event out to every connected participant, in the order
// the calls are made.
type Broadcaster interface {
	Broadcast(event string, payload interface{})
}

// Engine is the authoritative in-memory state machine for the single auction
// session. Every mutating operation takes e.mu for its whole
// validate-then-apply sequence, and broadcasts while still holding it, so all
// participants observe one ordered view of truth.
type Engine struct {
	partitioner *catalog.Partitioner
	source      *catalog.Source
	directory   Directory
	store       Store
	bc          Broadcaster

	mu         sync.Mutex
	status     Status
	category   string
	poolNumber int
	items      []catalog.Item
	index      int
	bids       map[string][]Bid
	sold       map[string]Sale
	startTime  time.Time
	runEpoch   time.Time
}

func NewEngine(p *catalog.Partitioner, src *catalog.Source, dir Directory, store Store, bc Broadcaster) *Engine {
	return &Engine{
		partitioner: p,
		source:      src,
		directory:   dir,
		store:       store,
		bc:          bc,
		status:      StatusWaiting,
		bids:        make(map[string][]Bid),
		sold:        make(map[string]Sale),
		runEpoch:    time.Now(),
	}
}

// requireAdmin re-verifies the admin role against the identity store. It is
// called before e.mu is taken: the lookup depends on no session state, and a
// slow identity store must never stall bidding or broadcasts.
func (e *Engine) requireAdmin(bidderID int64) error {
	isAdmin, err := e.directory.IsAdmin(bidderID)
	if err != nil {
		return authorizationError("unknown_bidder", "could not verify identity")
	}
	if !isAdmin {
		return authorizationError("not_authorized", "administrator role required")
	}
	return nil
}

// poolLabel names the active pool for conflict messages, e.g. "Indian Bat - Set 1".
func (e *Engine) poolLabel() string {
	return fmt.Sprintf("%s - Set %d", e.category, e.poolNumber)
}

// poolInProgress reports whether a pool is currently mid-progress.
// Callers must hold e.mu.
func (e *Engine) poolInProgress() bool {
	return len(e.items) > 0
}

// StartPool loads a pool and opens bidding on its first item. Admin only.
func (e *Engine) StartPool(adminID int64, category string, poolNumber int) error {
	if err := e.requireAdmin(adminID); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status == StatusCompleted {
		return conflictError("auction_completed", "the auction has been completed")
	}
	if e.poolInProgress() {
		return conflictError("pool_in_progress",
			"Pool %q is already in progress. Please complete or pause it first.", e.poolLabel())
	}

	items, err := e.partitioner.Pool(category, poolNumber)
	if err != nil {
		return validationError("unknown_pool", "no such pool: %v", err)
	}
	if len(items) == 0 {
		return conflictError("empty_pool", "pool %s - Set %d has no players", category, poolNumber)
	}

	e.category = category
	e.poolNumber = poolNumber
	e.items = items
	e.index = 0
	e.bids = map[string][]Bid{items[0].Name: {}}
	e.status = StatusActive
	if e.startTime.IsZero() {
		e.startTime = time.Now()
	}

	state := e.snapshotLocked()
	e.bc.Broadcast(EventPoolStarted, PoolStartedEvent{
		Category:   category,
		PoolNumber: poolNumber,
		Message:    fmt.Sprintf("Auction started: %s - Set %d", category, poolNumber),
		State:      state,
	})
	logger.LogInfo("Pool started: %s - Set %d (%d players)", category, poolNumber, len(items))
	return nil
}

// Pause suspends bid acceptance without clearing state. Admin only.
func (e *Engine) Pause(adminID int64) error {
	if err := e.requireAdmin(adminID); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status != StatusActive {
		return conflictError("not_active", "cannot pause while %s", e.status)
	}
	e.status = StatusPaused
	e.bc.Broadcast(EventStateSnapshot, e.snapshotLocked())
	return nil
}

// Resume reopens bidding after a pause. Admin only.
func (e *Engine) Resume(adminID int64) error {
	if err := e.requireAdmin(adminID); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status != StatusPaused {
		return conflictError("not_paused", "cannot resume while %s", e.status)
	}
	e.status = StatusActive
	e.bc.Broadcast(EventStateSnapshot, e.snapshotLocked())
	return nil
}

// Complete marks the session terminal. Admin only; never reached automatically.
func (e *Engine) Complete(adminID int64) error {
	if err := e.requireAdmin(adminID); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status == StatusCompleted {
		return conflictError("auction_completed", "the auction has already been completed")
	}
	e.status = StatusCompleted
	e.bc.Broadcast(EventStateSnapshot, e.snapshotLocked())
	logger.LogInfo("Auction marked completed")
	return nil
}

// Reset starts a fresh run: partitioner reshuffled, session back to waiting,
// team sheets cleared, spend counted from a new epoch. The sale log and bid
// audit of previous runs are kept in the store. Admin only.
func (e *Engine) Reset(adminID int64) error {
	if err := e.requireAdmin(adminID); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// Rosters must be gone before anyone can observe the new run, or the
	// team-sheet view would show last run's players against a full purse.
	if err := e.store.ClearRosters(); err != nil {
		logger.LogError("Reset aborted, roster clear failed: %v", err)
		return persistenceError("reset", err)
	}

	e.partitioner.Reset()
	e.status = StatusWaiting
	e.category = ""
	e.poolNumber = 0
	e.items = nil
	e.index = 0
	e.bids = make(map[string][]Bid)
	e.sold = make(map[string]Sale)
	e.startTime = time.Time{}
	e.runEpoch = time.Now()

	e.bc.Broadcast(EventStateSnapshot, e.snapshotLocked())
	logger.LogInfo("Auction reset for a new run")
	return nil
}

// RunEpoch reports when the current run began. Durable spend queries use it
// as a floor so they agree with the in-memory balances of this run.
func (e *Engine) RunEpoch() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.runEpoch
}

// SubmitBid validates and applies one bid. Checks run in order and the first
// failure wins: positive amount, known bidder, session open on this item,
// strictly above the current high bid, within the bidder's available balance.
func (e *Engine) SubmitBid(bidderID int64, item string, amount float64) error {
	if amount <= 0 {
		return validationError("invalid_amount", "bid amount must be positive")
	}

	// Identity resolution hits the store; keep it outside the critical
	// section so a slow lookup never stalls other bidders.
	bidder, err := e.directory.Lookup(bidderID)
	if err != nil {
		return authorizationError("unknown_bidder", "please log in to place bids")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status == StatusPaused {
		return conflictError("auction_paused", "the auction is paused")
	}
	if e.status != StatusActive || !e.poolInProgress() {
		return conflictError("not_active", "no item is open for bidding")
	}
	current := e.items[e.index]
	if item != current.Name {
		return conflictError("not_current_item", "%q is not the item under auction (current: %q)", item, current.Name)
	}
	if _, done := e.sold[item]; done {
		return conflictError("already_sold", "%q has already been sold", item)
	}

	high := HighBid(e.bids[item])
	if !exceeds(amount, high) {
		return conflictError("bid_too_low", "Bid must be higher than %v Cr", high)
	}

	balance := AvailableBalance(bidder.Purse, e.sold, bidderID)
	if exceeds(amount, balance) {
		return insufficientFundsError(balance)
	}

	bid := Bid{
		BidderID:  bidderID,
		Username:  bidder.Username,
		TeamName:  bidder.TeamName,
		Purse:     bidder.Purse,
		Amount:    amount,
		Timestamp: time.Now(),
	}
	e.bids[item] = append(e.bids[item], bid)

	// Audit trail is advisory; never blocks or fails the bid.
	go func() {
		audit := data.BidAudit{BidderID: bidderID, Item: item, Amount: amount, Timestamp: bid.Timestamp}
		if err := e.store.RecordBidAudit(audit); err != nil {
			logger.LogWarn("Failed to audit bid by %d on %s: %v", bidderID, item, err)
		}
	}()

	e.bc.Broadcast(EventBidAccepted, BidAcceptedEvent{
		Item:       item,
		BidderID:   bidderID,
		Username:   bidder.Username,
		TeamName:   bidder.TeamName,
		Amount:     amount,
		NewHighBid: amount,
		Timestamp:  bid.Timestamp,
	})
	return nil
}

// Sell closes an item to its highest bidder. The sale is durably persisted
// before any state changes or broadcast; a persistence failure leaves the
// item open. Admin only. An empty item name sells the current item.
func (e *Engine) Sell(adminID int64, item string) error {
	if err := e.requireAdmin(adminID); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if item == "" {
		if !e.poolInProgress() {
			return conflictError("no_active_pool", "no item is under auction")
		}
		item = e.items[e.index].Name
	}
	if _, done := e.sold[item]; done {
		return conflictError("already_sold", "%q has already been sold", item)
	}

	history := e.bids[item]
	if len(history) == 0 {
		return conflictError("no_bids", "No bids for this player")
	}

	// Highest amount wins; amounts are strictly increasing in acceptance
	// order, so ties cannot occur and the earliest max is the only max. The
	// winning bid carries the bidder's identity and purse as resolved at
	// acceptance, so no identity lookup happens under the lock.
	winning := history[0]
	for _, b := range history[1:] {
		if exceeds(b.Amount, winning.Amount) {
			winning = b
		}
	}

	// The bid was within budget when accepted, but a later sale of another
	// item may have debited the winner since. Never drive a balance negative.
	balance := AvailableBalance(winning.Purse, e.sold, winning.BidderID)
	if exceeds(winning.Amount, balance) {
		return insufficientFundsError(balance)
	}

	category := e.source.CategoryOf(item)
	now := time.Now()
	rec := data.SaleRecord{
		Item:       item,
		Category:   category,
		BasePrice:  catalog.BasePrice(item),
		WinnerID:   winning.BidderID,
		FinalPrice: winning.Amount,
		Timestamp:  now,
	}
	if err := e.store.RecordSale(rec); err != nil {
		logger.LogError("Sale of %s not finalized, persistence failed: %v", item, err)
		return persistenceError("sale", err)
	}

	e.sold[item] = Sale{
		Item:       item,
		Category:   category,
		BasePrice:  rec.BasePrice,
		WinnerID:   winning.BidderID,
		Buyer:      winning.Username,
		TeamName:   winning.TeamName,
		FinalPrice: winning.Amount,
		Timestamp:  now,
	}
	delete(e.bids, item)

	remaining := AvailableBalance(winning.Purse, e.sold, winning.BidderID)
	e.bc.Broadcast(EventItemSold, ItemSoldEvent{
		Item:                   item,
		WinnerID:               winning.BidderID,
		Buyer:                  winning.Username,
		TeamName:               winning.TeamName,
		FinalPrice:             winning.Amount,
		WinnerRemainingBalance: remaining,
	})
	logger.LogInfo("Sold %s to %s for %.2f Cr (remaining %.2f Cr)", item, winning.Username, winning.Amount, remaining)
	return nil
}

// AdvanceNext moves to the next item of the active pool with a fresh bid
// list. Advancing past the last item clears the active pool so a new pool
// may be started; the session itself stays active. Admin only.
func (e *Engine) AdvanceNext(adminID int64) error {
	if err := e.requireAdmin(adminID); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status != StatusActive {
		return conflictError("not_active", "cannot advance while %s", e.status)
	}
	if !e.poolInProgress() {
		return conflictError("no_active_pool", "no pool is in progress")
	}

	next := e.index + 1
	if next >= len(e.items) {
		label := e.poolLabel()
		e.category = ""
		e.poolNumber = 0
		e.items = nil
		e.index = 0
		e.bc.Broadcast(EventItemAdvanced, ItemAdvancedEvent{
			PoolExhausted: true,
			State:         e.snapshotLocked(),
		})
		logger.LogInfo("Pool %s exhausted", label)
		return nil
	}

	e.index = next
	name := e.items[next].Name
	e.bids[name] = []Bid{}
	e.bc.Broadcast(EventItemAdvanced, ItemAdvancedEvent{
		Item:  name,
		State: e.snapshotLocked(),
	})
	return nil
}

// Snapshot returns a consistent copy of the full session state.
func (e *Engine) Snapshot() *Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Attach hands fn a consistent snapshot while no mutation can interleave,
// letting a transport queue the snapshot and subscribe in one step: every
// event the new subscriber receives afterwards strictly follows the snapshot.
// fn must not call back into the engine.
func (e *Engine) Attach(fn func(*Snapshot)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.snapshotLocked())
}

// AvailableBalanceFor computes a bidder's live available balance.
func (e *Engine) AvailableBalanceFor(bidderID int64) (float64, error) {
	bidder, err := e.directory.Lookup(bidderID)
	if err != nil {
		return 0, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return AvailableBalance(bidder.Purse, e.sold, bidderID), nil
}

// snapshotLocked deep-copies the session state. Callers must hold e.mu.
func (e *Engine) snapshotLocked() *Snapshot {
	snap := &Snapshot{
		Status:       e.status,
		Category:     e.category,
		PoolNumber:   e.poolNumber,
		CurrentIndex: e.index,
		PoolSize:     len(e.items),
		Bids:         make(map[string][]Bid, len(e.bids)),
		Sold:         make(map[string]Sale, len(e.sold)),
	}
	if e.poolInProgress() {
		snap.ActivePool = fmt.Sprintf("%s_%d", e.category, e.poolNumber)
		item := e.items[e.index]
		snap.CurrentItem = &item
	}
	for name, history := range e.bids {
		copied := make([]Bid, len(history))
		copy(copied, history)
		snap.Bids[name] = copied
	}
	for name, sale := range e.sold {
		snap.Sold[name] = sale
	}
	if !e.startTime.IsZero() {
		t := e.startTime
		snap.StartTime = &t
	}
	return snap
}
