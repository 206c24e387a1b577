package domain

import (
	"slices"
	"strings"
	"time"
)

// Player is a roster entry. Players are identified by name only.
//
// A pinned player was added explicitly and stays on the roster until deleted
// or until the season is reset. An unpinned player exists only because fines
// were recorded for them and drops off once their last fine is deleted.
type Player struct {
	Naam   string
	Since  time.Time
	Pinned bool
}

// PlayerTotal is one leaderboard row.
type PlayerTotal struct {
	Speler string `json:"speler"`
	Totaal Amount `json:"totaal"`
}

// SortLeaderboard orders totals descending by amount, then by name.
func SortLeaderboard(totals []PlayerTotal) {
	slices.SortStableFunc(totals, func(a, b PlayerTotal) int {
		if c := b.Totaal.Cmp(a.Totaal); c != 0 {
			return c
		}
		return strings.Compare(a.Speler, b.Speler)
	})
}
