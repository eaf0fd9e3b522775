// internal/enrich/details.go
package enrich

import "strings"

// Curated career stats for marquee players, keyed by normalized name. Served
// before any network fetch; the fetch only fills gaps (description, image).
var curatedDetails = map[string]Info{
	"virat kohli": {
		Category: "Indian Bat", Matches: 237, Runs: 7263, StrikeRate: 130.02,
		Fifties: 50, Hundreds: 7, Average: 37.2,
		ImageURL:    "https://www.iplt20.com/assets/images/headshots/webp/164.webp",
		Description: "One of the greatest batsmen of all time, known for his aggressive yet consistent batting. Former captain of RCB.",
	},
	"rohit sharma": {
		Category: "Indian Bat", Matches: 243, Runs: 6211, StrikeRate: 130.49,
		Fifties: 42, Hundreds: 1, Average: 30.3,
		ImageURL:    "https://www.iplt20.com/assets/images/headshots/webp/107.webp",
		Description: "A prolific opener and captain, known for his effortless hitting and ability to score big hundreds. Led Mumbai Indians to multiple titles.",
	},
	"shubman gill": {
		Category: "Indian Bat", Matches: 91, Runs: 2790, StrikeRate: 134.07,
		Fifties: 19, Hundreds: 3, Average: 37.7,
		ImageURL:    "https://www.iplt20.com/assets/images/headshots/webp/3761.webp",
		Description: "An elegant right-handed opening batsman, known for his classical style and ability to score big runs. A key player for Gujarat Titans.",
	},
	"suryakumar yadav": {
		Category: "Indian Bat", Matches: 139, Runs: 3241, StrikeRate: 143.32,
		Fifties: 21, Hundreds: 1, Average: 29.0,
		ImageURL:    "https://www.iplt20.com/assets/images/headshots/webp/1069.webp",
		Description: "Known for his 360-degree batting and innovative shots. A dynamic middle-order batsman for Mumbai Indians.",
	},
	"hardik pandya": {
		Category: "Indian AR", Matches: 123, Runs: 2309, Wickets: 53,
		StrikeRate: 138.67, Economy: 9.08,
		ImageURL:    "https://www.iplt20.com/assets/images/headshots/webp/2740.webp",
		Description: "A dynamic all-rounder, known for his powerful hitting and crucial wickets. Captained Gujarat Titans.",
	},
	"ravindra jadeja": {
		Category: "Indian AR", Matches: 226, Runs: 2692, Wickets: 152,
		StrikeRate: 127.61, Economy: 7.56,
		ImageURL:    "https://www.iplt20.com/assets/images/headshots/webp/234.webp",
		Description: "A world-class all-rounder known for his left-arm spin, explosive batting, and exceptional fielding.",
	},
	"jasprit bumrah": {
		Category: "Indian Pace", Matches: 120, Wickets: 145, Economy: 7.39,
		BestBowling: "5/10", Average: 22.6,
		ImageURL:    "https://www.iplt20.com/assets/images/headshots/webp/2769.webp",
		Description: "One of the best fast bowlers in the world, known for his yorkers, bouncers, and exceptional death bowling.",
	},
	"mohammed siraj": {
		Category: "Indian Pace", Matches: 79, Wickets: 78, Economy: 8.68,
		BestBowling: "4/21", Average: 27.8,
		ImageURL:    "https://www.iplt20.com/assets/images/headshots/webp/3840.webp",
		Description: "A fiery fast bowler known for his pace, swing, and ability to pick up wickets in the powerplay. A key bowler for RCB.",
	},
	"yuzvendra chahal": {
		Category: "Indian spin", Matches: 145, Wickets: 187, Economy: 7.68,
		BestBowling: "5/40", Average: 22.3,
		ImageURL:    "https://www.iplt20.com/assets/images/headshots/webp/2375.webp",
		Description: "India's leading leg-spinner, known for his googlies and ability to pick up wickets in the middle overs.",
	},
	"ravichandran ashwin": {
		Category: "Indian spin", Matches: 197, Wickets: 171, Economy: 7.01,
		BestBowling: "4/34", Average: 28.7,
		ImageURL:    "https://www.iplt20.com/assets/images/headshots/webp/8.webp",
		Description: "A wily off-spinner with a wide array of variations, known for his tactical acumen and ability to pick up crucial wickets.",
	},
	"ms dhoni": {
		Category: "Wicketkeepers", Matches: 250, Runs: 5082, StrikeRate: 135.92,
		Fifties: 24, Catches: 142, Stumpings: 42,
		ImageURL:    "https://www.iplt20.com/assets/images/headshots/webp/59.webp",
		Description: "The legendary captain and wicketkeeper, known for his cool leadership and finishing abilities. Led CSK to multiple titles.",
	},
	"rishabh pant": {
		Category: "Wicketkeepers", Matches: 98, Runs: 2838, StrikeRate: 147.97,
		Fifties: 15, Hundreds: 1,
		ImageURL:    "https://www.iplt20.com/assets/images/headshots/webp/3160.webp",
		Description: "An explosive wicketkeeper-batsman known for his fearless batting and ability to change the game.",
	},
	"kl rahul": {
		Category: "Wicketkeepers", Matches: 118, Runs: 4163, StrikeRate: 134.42,
		Fifties: 32, Hundreds: 4, Average: 46.2,
		ImageURL:    "https://www.iplt20.com/assets/images/headshots/webp/2923.webp",
		Description: "A classy opening batsman and wicketkeeper, known for his consistency and ability to anchor innings.",
	},
	"david warner": {
		Category: "Foreign Bat", Matches: 176, Runs: 6397, StrikeRate: 139.92,
		Fifties: 60, Hundreds: 4, Average: 41.5,
		ImageURL:    "https://www.iplt20.com/assets/images/headshots/webp/170.webp",
		Description: "An explosive Australian opener, known for his aggressive batting and leadership. Former captain of Sunrisers Hyderabad.",
	},
	"quinton de kock": {
		Category: "Foreign Bat", Matches: 96, Runs: 2907, StrikeRate: 134.65,
		Fifties: 21, Hundreds: 2,
		ImageURL:    "https://www.iplt20.com/assets/images/headshots/webp/149.webp",
		Description: "A destructive wicketkeeper-batsman from South Africa, known for his explosive starts at the top of the order.",
	},
}

// CuratedDetails looks a player up in the curated stats set.
func CuratedDetails(name string) (Info, bool) {
	info, ok := curatedDetails[strings.ToLower(strings.TrimSpace(name))]
	if ok {
		info.Source = "curated"
	}
	return info, ok
}
