// internal/enrich/enrich.go
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"auctionbackend/internal/logger"
)

// Info is advisory display data for a player. Nothing in the auction core
// depends on it.
type Info struct {
	Category    string  `json:"category,omitempty"`
	Description string  `json:"description,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
	Source      string  `json:"source"`
	Matches     int     `json:"matches,omitempty"`
	Runs        int     `json:"runs,omitempty"`
	Wickets     int     `json:"wickets,omitempty"`
	StrikeRate  float64 `json:"strike_rate,omitempty"`
	Economy     float64 `json:"economy,omitempty"`
	Fifties     int     `json:"fifties,omitempty"`
	Hundreds    int     `json:"hundreds,omitempty"`
	Average     float64 `json:"average,omitempty"`
	Catches     int     `json:"catches,omitempty"`
	Stumpings   int     `json:"stumpings,omitempty"`
	BestBowling string  `json:"best_bowling,omitempty"`
}

const summaryEndpoint = "https://en.wikipedia.org/api/rest_v1/page/summary/"

// Service fetches best-effort player bios with a short timeout and caches
// results for the lifetime of the process. Failures degrade to basic info;
// they never fail a caller.
type Service struct {
	client  *http.Client
	baseURL string

	mu    sync.Mutex
	cache map[string]Info
}

func NewService(timeout time.Duration) *Service {
	return &Service{
		client:  &http.Client{Timeout: timeout},
		baseURL: summaryEndpoint,
		cache:   make(map[string]Info),
	}
}

// FetchDescription looks a player up, serving from cache when possible.
func (s *Service) FetchDescription(ctx context.Context, name string) (Info, error) {
	key := strings.ToLower(strings.TrimSpace(name))

	s.mu.Lock()
	if cached, ok := s.cache[key]; ok {
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	info, err := s.fetch(ctx, name)
	if err != nil {
		return Info{}, err
	}

	s.mu.Lock()
	s.cache[key] = info
	s.mu.Unlock()
	return info, nil
}

func (s *Service) fetch(ctx context.Context, name string) (Info, error) {
	title := url.PathEscape(strings.ReplaceAll(strings.TrimSpace(name), " ", "_"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+title, nil)
	if err != nil {
		return Info{}, fmt.Errorf("failed to build summary request: %w", err)
	}
	req.Header.Set("User-Agent", "auctionbackend/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return Info{}, fmt.Errorf("summary fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Info{}, fmt.Errorf("summary fetch returned %d", resp.StatusCode)
	}

	var body struct {
		Extract   string `json:"extract"`
		Thumbnail struct {
			Source string `json:"source"`
		} `json:"thumbnail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Info{}, fmt.Errorf("failed to decode summary: %w", err)
	}

	info := Info{Source: "wikipedia"}
	if body.Extract != "" {
		info.Description = truncate(body.Extract, 500) + " (Source: Wikipedia)"
	}
	info.ImageURL = body.Thumbnail.Source

	if info.Description == "" && info.ImageURL == "" {
		return Info{}, fmt.Errorf("no usable summary for %q", name)
	}

	logger.LogInfo("Enriched %q from Wikipedia", name)
	return info, nil
}

// truncate caps s at max bytes without splitting a UTF-8 sequence.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
