// internal/enrich/handlers.go
package enrich

import (
	"fmt"
	"net/http"
	"strings"

	"auctionbackend/internal/catalog"
	"auctionbackend/internal/logger"
	"auctionbackend/internal/middleware"
)

// PlayerInfoHandler serves GET /api/player-info/{name}: category plus
// best-effort bio. Enrichment failures fall back to basic info rather than
// erroring; this endpoint never blocks a core operation.
func PlayerInfoHandler(s *Service, src *catalog.Source) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger.LogHTTPRequest(r)

		name := strings.TrimSpace(strings.TrimPrefix(r.URL.Path, "/api/player-info/"))
		if name == "" {
			middleware.WriteError(w, r, http.StatusBadRequest, "bad_request", "player name required")
			return
		}

		// Curated stats first; the network fetch only fills gaps.
		info, curated := CuratedDetails(name)
		if !curated {
			info = Info{
				Category: src.CategoryOf(name),
				Source:   "basic",
			}
		}

		fetched, err := s.FetchDescription(r.Context(), name)
		switch {
		case err == nil && curated:
			if info.Description == "" {
				info.Description = fetched.Description
			}
			if info.ImageURL == "" {
				info.ImageURL = fetched.ImageURL
			}
			info.Source = "curated_enhanced"
		case err == nil:
			info.Description = fetched.Description
			info.ImageURL = fetched.ImageURL
			info.Source = fetched.Source
		case !curated:
			logger.LogWarn("Enrichment unavailable for %q: %v", name, err)
			info.Description = fmt.Sprintf("%s is part of the auction pool. Detailed statistics coming soon!", name)
		}

		middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"name":    name,
			"info":    info,
		})
	}
}
