// internal/info/info.go
package info

import (
	"encoding/json"
	"net/http"

	"auctionbackend/internal/auction"
	"auctionbackend/internal/catalog"
	"auctionbackend/internal/data"
	"auctionbackend/internal/logger"
	"auctionbackend/internal/middleware"
	"auctionbackend/internal/security"
)

// rosterPlayer is one purchased player on the team sheet view.
type rosterPlayer struct {
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Price     float64 `json:"price"`
	Position  *int    `json:"position,omitempty"`
	IsForeign bool    `json:"is_foreign"`
	IsCaptain bool    `json:"is_captain"`
}

// MyTeamHandler serves the caller's purchased players, spend, and remaining
// purse from the durable roster.
func MyTeamHandler(repo *data.AuctionRepo, engine *auction.Engine) func(http.ResponseWriter, *http.Request, *security.Identity) {
	return func(w http.ResponseWriter, r *http.Request, identity *security.Identity) {
		logger.LogHTTPRequest(r)

		entries, err := repo.RosterFor(identity.ID)
		if err != nil {
			logger.LogHTTPError(r, http.StatusInternalServerError, err)
			middleware.WriteError(w, r, http.StatusInternalServerError, "internal_error", "roster lookup failed")
			return
		}

		players := make([]rosterPlayer, 0, len(entries))
		for _, e := range entries {
			players = append(players, rosterPlayer{
				Name:      e.Item,
				Category:  e.Category,
				Price:     e.Price,
				Position:  e.Position,
				IsForeign: catalog.IsForeignCategory(e.Category),
				// Position 1 defaults to captain when none is flagged.
				IsCaptain: e.IsCaptain || (!e.IsCaptain && e.Position != nil && *e.Position == 1),
			})
		}

		// Spend is floored to the current run so the purse agrees with the
		// engine's live balances.
		spent, err := repo.TotalSpent(identity.ID, engine.RunEpoch())
		if err != nil {
			logger.LogHTTPError(r, http.StatusInternalServerError, err)
			middleware.WriteError(w, r, http.StatusInternalServerError, "internal_error", "spend lookup failed")
			return
		}

		middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"players":         players,
			"purse_remaining": identity.Purse - spent,
			"total_spent":     spent,
		})
	}
}

// UpdateRosterHandler rewrites the caller's playing order and captaincy.
func UpdateRosterHandler(repo *data.AuctionRepo) func(http.ResponseWriter, *http.Request, *security.Identity) {
	return func(w http.ResponseWriter, r *http.Request, identity *security.Identity) {
		logger.LogHTTPRequest(r)

		if r.Method != http.MethodPost {
			middleware.WriteError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "POST required")
			return
		}

		var req struct {
			Players []data.PositionUpdate `json:"players"`
			Captain string                `json:"captain"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, r, http.StatusBadRequest, "bad_request", "invalid JSON body")
			return
		}

		if err := repo.UpdatePositions(identity.ID, req.Players, req.Captain); err != nil {
			logger.LogHTTPError(r, http.StatusInternalServerError, err)
			middleware.WriteError(w, r, http.StatusInternalServerError, "internal_error", "roster update failed")
			return
		}
		middleware.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}
