// internal/auction/handlers.go
package auction

import (
	"net/http"

	"auctionbackend/internal/catalog"
	"auctionbackend/internal/logger"
	"auctionbackend/internal/middleware"
	"auctionbackend/internal/security"
)

// InitHandler resets the session for a fresh run and returns the category
// overview (pool sizes before any shuffle is forced). Admin only.
func InitHandler(e *Engine, src *catalog.Source, p *catalog.Partitioner) func(http.ResponseWriter, *http.Request, *security.Identity) {
	return func(w http.ResponseWriter, r *http.Request, identity *security.Identity) {
		logger.LogHTTPRequest(r)

		if r.Method != http.MethodPost {
			middleware.WriteError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "POST required")
			return
		}

		if err := e.Reset(identity.ID); err != nil {
			WriteEngineError(w, r, err)
			return
		}

		categories := src.Categories()
		info := make(map[string]map[string]int, len(categories))
		for _, category := range categories {
			set1, set2, total := p.PoolSizes(category)
			info[category] = map[string]int{
				"set1_count": set1,
				"set2_count": set2,
				"total":      total,
			}
		}

		middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"success":       true,
			"categories":    categories,
			"category_info": info,
		})
	}
}

// StateHandler serves the current session snapshot to authenticated bidders.
func StateHandler(e *Engine) func(http.ResponseWriter, *http.Request, *security.Identity) {
	return func(w http.ResponseWriter, r *http.Request, identity *security.Identity) {
		logger.LogHTTPRequest(r)

		snap := e.Snapshot()
		balance, err := e.AvailableBalanceFor(identity.ID)
		if err != nil {
			middleware.WriteError(w, r, http.StatusInternalServerError, "internal_error", "balance lookup failed")
			return
		}

		middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"success":           true,
			"state":             snap,
			"available_balance": balance,
		})
	}
}

// WriteEngineError maps an engine error onto the REST error envelope.
func WriteEngineError(w http.ResponseWriter, r *http.Request, err error) {
	e, ok := AsEngineError(err)
	if !ok {
		logger.LogHTTPError(r, http.StatusInternalServerError, err)
		middleware.WriteError(w, r, http.StatusInternalServerError, "internal_error", "operation failed")
		return
	}

	status := http.StatusBadRequest
	switch e.Kind {
	case KindConflict:
		status = http.StatusConflict
	case KindAuthorization:
		status = http.StatusForbidden
	case KindInsufficientFunds:
		status = http.StatusPaymentRequired
	case KindPersistence:
		status = http.StatusBadGateway
	}
	middleware.WriteError(w, r, status, e.Code, e.Message)
}
