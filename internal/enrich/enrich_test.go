package enrich

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"

	"auctionbackend/internal/catalog"
)

func summaryServer(t *testing.T, hits *int64) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(hits, 1)
		switch {
		case strings.HasSuffix(r.URL.Path, "/MS_Dhoni"):
			json.NewEncoder(w).Encode(map[string]interface{}{
				"extract":   "Mahendra Singh Dhoni is an Indian cricketer.",
				"thumbnail": map[string]string{"source": "https://img.example/dhoni.jpg"},
			})
		case strings.HasSuffix(r.URL.Path, "/Wordy_Player"):
			// A multi-byte rune straddles the 500-byte truncation point.
			json.NewEncoder(w).Encode(map[string]string{
				"extract": strings.Repeat("x", 499) + "é" + strings.Repeat("y", 50),
			})
		case strings.HasSuffix(r.URL.Path, "/Slow_Player"):
			time.Sleep(200 * time.Millisecond)
			json.NewEncoder(w).Encode(map[string]string{"extract": "too late"})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestService(t *testing.T, hits *int64, timeout time.Duration) *Service {
	t.Helper()
	server := summaryServer(t, hits)
	s := NewService(timeout)
	s.baseURL = server.URL + "/"
	return s
}

func TestFetchDescription(t *testing.T) {
	var hits int64
	s := newTestService(t, &hits, time.Second)

	info, err := s.FetchDescription(context.Background(), "MS Dhoni")
	assert.Nil(t, err)
	check.Equal(t, "wikipedia", info.Source)
	check.True(t, strings.HasPrefix(info.Description, "Mahendra Singh Dhoni"))
	check.True(t, strings.HasSuffix(info.Description, "(Source: Wikipedia)"))
	check.Equal(t, "https://img.example/dhoni.jpg", info.ImageURL)
}

func TestFetchDescription_CachesByName(t *testing.T) {
	var hits int64
	s := newTestService(t, &hits, time.Second)

	_, err := s.FetchDescription(context.Background(), "MS Dhoni")
	assert.Nil(t, err)

	// Case and whitespace variants hit the cache, not the network.
	_, err = s.FetchDescription(context.Background(), "  ms dhoni ")
	assert.Nil(t, err)
	_, err = s.FetchDescription(context.Background(), "MS DHONI")
	assert.Nil(t, err)

	check.Equal(t, int64(1), atomic.LoadInt64(&hits))
}

func TestFetchDescription_TruncatesOnRuneBoundary(t *testing.T) {
	var hits int64
	s := newTestService(t, &hits, time.Second)

	info, err := s.FetchDescription(context.Background(), "Wordy Player")
	assert.Nil(t, err)
	check.True(t, utf8.ValidString(info.Description))
	check.True(t, strings.Contains(info.Description, "... (Source: Wikipedia)"))
	check.False(t, strings.Contains(info.Description, "y"))
}

func TestTruncate(t *testing.T) {
	check.Equal(t, "short", truncate("short", 500))
	check.Equal(t, "ab...", truncate("abcd", 2))
	// The é is two bytes; cutting inside it backs off to the rune start.
	check.Equal(t, "a...", truncate("aécd", 2))
	check.True(t, utf8.ValidString(truncate(strings.Repeat("é", 300), 500)))
}

func TestFetchDescription_Timeout(t *testing.T) {
	var hits int64
	s := newTestService(t, &hits, 50*time.Millisecond)

	_, err := s.FetchDescription(context.Background(), "Slow Player")
	check.Error(t, err)
}

func TestFetchDescription_NotFound(t *testing.T) {
	var hits int64
	s := newTestService(t, &hits, time.Second)

	_, err := s.FetchDescription(context.Background(), "Complete Unknown")
	check.Error(t, err)

	// Failures are not cached; a later attempt retries.
	_, _ = s.FetchDescription(context.Background(), "Complete Unknown")
	check.Equal(t, int64(2), atomic.LoadInt64(&hits))
}

func TestPlayerInfoHandler_FallsBackToBasic(t *testing.T) {
	var hits int64
	s := newTestService(t, &hits, time.Second)
	src := catalog.NewSource(map[string][]string{
		"Wicketkeepers": {"Complete Unknown"},
	})

	r := httptest.NewRequest("GET", "/api/player-info/Complete%20Unknown", nil)
	w := httptest.NewRecorder()
	PlayerInfoHandler(s, src)(w, r)

	check.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool   `json:"success"`
		Name    string `json:"name"`
		Info    Info   `json:"info"`
	}
	assert.Nil(t, json.Unmarshal(w.Body.Bytes(), &body))
	check.True(t, body.Success)
	check.Equal(t, "Complete Unknown", body.Name)
	check.Equal(t, "basic", body.Info.Source)
	check.Equal(t, "Wicketkeepers", body.Info.Category)
	check.True(t, strings.Contains(body.Info.Description, "part of the auction pool"))
}

func TestPlayerInfoHandler_CuratedStats(t *testing.T) {
	var hits int64
	s := newTestService(t, &hits, time.Second)
	src := catalog.NewSource(map[string][]string{
		"Wicketkeepers": {"MS Dhoni"},
	})

	r := httptest.NewRequest("GET", "/api/player-info/MS%20Dhoni", nil)
	w := httptest.NewRecorder()
	PlayerInfoHandler(s, src)(w, r)

	check.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Info Info `json:"info"`
	}
	assert.Nil(t, json.Unmarshal(w.Body.Bytes(), &body))
	check.Equal(t, "curated_enhanced", body.Info.Source)
	check.Equal(t, 250, body.Info.Matches)
	check.Equal(t, 42, body.Info.Stumpings)
	// The curated description wins over the fetched one.
	check.True(t, strings.Contains(body.Info.Description, "legendary captain"))
}

func TestCuratedDetails(t *testing.T) {
	info, ok := CuratedDetails("  VIRAT kohli ")
	assert.True(t, ok)
	check.Equal(t, "curated", info.Source)
	check.Equal(t, "Indian Bat", info.Category)
	check.Equal(t, 7263, info.Runs)

	_, ok = CuratedDetails("Some Uncapped Player")
	check.False(t, ok)
}

func TestPlayerInfoHandler_MissingName(t *testing.T) {
	var hits int64
	s := newTestService(t, &hits, time.Second)
	src := catalog.NewSource(nil)

	r := httptest.NewRequest("GET", "/api/player-info/", nil)
	w := httptest.NewRecorder()
	PlayerInfoHandler(s, src)(w, r)

	check.Equal(t, http.StatusBadRequest, w.Code)
}
