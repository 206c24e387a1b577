package domain

import "time"

// Fine is a single penalty recorded against a player.
type Fine struct {
	ID     int64     `json:"id"`
	Speler string    `json:"speler"`
	Datum  time.Time `json:"datum"`
	Bedrag Amount    `json:"bedrag"`
	Reden  string    `json:"reden"`
}

// NewFine holds the validated fields of a fine before the store stamps id and datum.
type NewFine struct {
	Speler string
	Bedrag Amount
	Reden  string
}

// LedgerStats summarizes the current state of the ledger.
type LedgerStats struct {
	Fines   int    `json:"fines"`
	Players int    `json:"players"`
	Reasons int    `json:"reasons"`
	Total   Amount `json:"total"`
}

// Season is the full ledger read in one go: fines newest first, player totals
// in roster order and reasons in insertion order.
type Season struct {
	Fines   []Fine
	Totals  []PlayerTotal
	Reasons []Reason
}
