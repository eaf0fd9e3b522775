// internal/export/handlers.go
package export

import (
	"net/http"
	"path/filepath"

	"auctionbackend/internal/data"
	"auctionbackend/internal/logger"
	"auctionbackend/internal/middleware"
	"auctionbackend/internal/security"
)

// Handler writes the workbook export and reports the saved file.
// Admin-only; wire it through Sessions.RequireAdmin.
func Handler(dir string, bidders *data.BidderRepo, auctions *data.AuctionRepo) func(http.ResponseWriter, *http.Request, *security.Identity) {
	return func(w http.ResponseWriter, r *http.Request, identity *security.Identity) {
		logger.LogHTTPRequest(r)

		if r.Method != http.MethodPost {
			middleware.WriteError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "POST required")
			return
		}

		path, err := Workbook(dir, bidders, auctions)
		if err != nil {
			logger.LogHTTPError(r, http.StatusInternalServerError, err)
			middleware.WriteError(w, r, http.StatusInternalServerError, "export_failed", "Export failed")
			return
		}

		logger.LogInfo("Admin %s exported auction data", identity.Username)
		middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"file":    filepath.Base(path),
		})
	}
}
