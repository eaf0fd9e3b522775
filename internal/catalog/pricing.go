// internal/catalog/pricing.go
package catalog

import "strings"

// Base price tiers in crores. Critical players open at the elevated tier.
const (
	StandardBasePrice = 1.0
	CriticalBasePrice = 3.0
)

// Curated set of marquee players carrying the elevated base price.
var criticalPlayers = map[string]bool{
	"virat kohli":          true,
	"rohit sharma":         true,
	"shubman gill":         true,
	"suryakumar yadav":     true,
	"ruturaj gaikwad":      true,
	"yashasvi jaiswal":     true,
	"shreyas iyer":         true,
	"hardik pandya":        true,
	"ravindra jadeja":      true,
	"jasprit bumrah":       true,
	"mohammed shami":       true,
	"mohammed siraj":       true,
	"yuzvendra chahal":     true,
	"kuldeep yadav":        true,
	"ravichandran ashwin":  true,
	"ms dhoni":             true,
	"rishabh pant":         true,
	"kl rahul":             true,
	"david warner":         true,
	"quinton de kock":      true,
	"andre russell":        true,
	"glenn maxwell":        true,
	"ben stokes":           true,
	"mitchell starc":       true,
	"pat cummins":          true,
	"trent boult":          true,
	"rashid khan":          true,
	"sunil narine":         true,
	"jos buttler":          true,
	"heinrich klaasen":     true,
	"dinesh karthik":       true,
	"sanju samson":         true,
}

// IsCritical reports whether a player is in the curated marquee set.
// The membership test is case- and whitespace-insensitive.
func IsCritical(name string) bool {
	return criticalPlayers[strings.ToLower(strings.TrimSpace(name))]
}

// BasePrice returns the display base price tier for a player.
func BasePrice(name string) float64 {
	if IsCritical(name) {
		return CriticalBasePrice
	}
	return StandardBasePrice
}
