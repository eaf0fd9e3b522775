// internal/catalog/catalog.go
package catalog

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"auctionbackend/internal/logger"
)

// Categories is the fixed set of auction categories, in workbook column order.
var Categories = []string{
	"Indian Bat", "Foreign Bat", "Indian AR", "Foreign AR",
	"Indian Pace", "Foreign Pace", "Indian spin", "Foreign spin", "Wicketkeepers",
}

var foreignCategories = map[string]bool{
	"Foreign Bat":  true,
	"Foreign AR":   true,
	"Foreign Pace": true,
	"Foreign spin": true,
}

// IsForeignCategory reports whether a category holds overseas players.
func IsForeignCategory(category string) bool {
	return foreignCategories[category]
}

// Item is a single auctionable player. Base price and the critical flag are
// derived from the pricing rules, never stored.
type Item struct {
	Name       string  `json:"name"`
	Category   string  `json:"category,omitempty"`
	BasePrice  float64 `json:"base_price"`
	IsCritical bool    `json:"is_critical"`
}

// Source holds the raw player lists per category, loaded once at startup and
// immutable for the lifetime of the run.
type Source struct {
	players map[string][]string
}

// NewSource builds a Source from pre-cleaned category lists. Entries are
// trimmed and deduplicated; empty names are dropped.
func NewSource(byCategory map[string][]string) *Source {
	cleaned := make(map[string][]string, len(byCategory))
	for category, names := range byCategory {
		seen := make(map[string]bool, len(names))
		var list []string
		for _, name := range names {
			name = strings.TrimSpace(name)
			if name == "" || strings.EqualFold(name, "nan") {
				continue
			}
			if seen[name] {
				continue
			}
			seen[name] = true
			list = append(list, name)
		}
		if len(list) > 0 {
			cleaned[category] = list
		}
	}
	return &Source{players: cleaned}
}

// Load reads the catalog workbook. The first sheet carries one column per
// category with the category name in the header row.
func Load(path string) (*Source, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog workbook %s: %w", path, err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("catalog workbook %s has no sheets", path)
	}

	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("catalog sheet %s is empty", sheets[0])
	}

	// Map header cells to the known category set.
	columns := make(map[int]string)
	for idx, header := range rows[0] {
		header = strings.TrimSpace(header)
		for _, category := range Categories {
			if header == category {
				columns[idx] = category
				break
			}
		}
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("no recognized category columns in %s", path)
	}

	byCategory := make(map[string][]string)
	for _, row := range rows[1:] {
		for idx, category := range columns {
			if idx >= len(row) {
				continue
			}
			byCategory[category] = append(byCategory[category], row[idx])
		}
	}

	src := NewSource(byCategory)
	for _, category := range src.Categories() {
		logger.LogInfo("Catalog: loaded %d players for %s", len(src.players[category]), category)
	}
	return src, nil
}

// Categories returns the categories present in this source, in fixed order.
func (s *Source) Categories() []string {
	var out []string
	for _, category := range Categories {
		if len(s.players[category]) > 0 {
			out = append(out, category)
		}
	}
	return out
}

// Players returns a copy of the raw (unshuffled) player list for a category.
func (s *Source) Players(category string) []string {
	list, ok := s.players[category]
	if !ok {
		return nil
	}
	out := make([]string, len(list))
	copy(out, list)
	return out
}

// Count returns the number of players in a category.
func (s *Source) Count(category string) int {
	return len(s.players[category])
}

// CategoryOf finds the category a player belongs to, or "Unknown".
func (s *Source) CategoryOf(name string) string {
	for _, category := range Categories {
		for _, p := range s.players[category] {
			if p == name {
				return category
			}
		}
	}
	return "Unknown"
}
