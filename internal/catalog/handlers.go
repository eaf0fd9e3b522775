// internal/catalog/handlers.go
package catalog

import (
	"net/http"
	"strconv"
	"strings"

	"auctionbackend/internal/logger"
	"auctionbackend/internal/middleware"
)

// CategorySetHandler serves GET /api/category-set/{category}/{number}: the
// frozen, shuffled pool for a category with display prices attached.
func CategorySetHandler(p *Partitioner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger.LogHTTPRequest(r)

		rest := strings.TrimPrefix(r.URL.Path, "/api/category-set/")
		parts := strings.Split(rest, "/")
		if len(parts) != 2 {
			middleware.WriteError(w, r, http.StatusBadRequest, "bad_request", "expected /api/category-set/{category}/{number}")
			return
		}

		category := strings.TrimSpace(parts[0])
		number, err := strconv.Atoi(parts[1])
		if err != nil || (number != 1 && number != 2) {
			middleware.WriteError(w, r, http.StatusBadRequest, "bad_request", "pool number must be 1 or 2")
			return
		}

		items, err := p.Pool(category, number)
		if err != nil {
			middleware.WriteError(w, r, http.StatusNotFound, "unknown_category", err.Error())
			return
		}

		middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"success":  true,
			"category": category,
			"set":      number,
			"players":  items,
			"count":    len(items),
		})
	}
}
