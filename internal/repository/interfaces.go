package repository

import (
	"context"

	"github.com/boetepot/platform/internal/domain"
)

// Store is the authoritative holder of fines, players and reasons.
// All reads and writes of the ledger go through it.
type Store interface {
	// AddFine stamps the next id and the current time and stores the fine.
	AddFine(ctx context.Context, fine domain.NewFine) (domain.Fine, error)

	// DeleteFine removes a fine. Unknown ids are not an error.
	DeleteFine(ctx context.Context, id int64) error

	// AllFines returns every fine, newest first.
	AllFines(ctx context.Context) ([]domain.Fine, error)

	// RecentFines returns at most limit fines, newest first.
	RecentFines(ctx context.Context, limit int) ([]domain.Fine, error)

	// PlayerHistory returns the fines of one player (exact name match), newest first.
	PlayerHistory(ctx context.Context, speler string) ([]domain.Fine, error)

	// TotalFines sums the amount of every fine.
	TotalFines(ctx context.Context) (domain.Amount, error)

	// PlayerTotals sums fine amounts per player, in roster order.
	PlayerTotals(ctx context.Context) ([]domain.PlayerTotal, error)

	// UniquePlayers returns player names in first-seen order.
	UniquePlayers(ctx context.Context) ([]string, error)

	// AddPlayer puts a player on the roster. Empty and duplicate names are rejected.
	AddPlayer(ctx context.Context, name string) (string, error)

	// DeletePlayer removes a player and every fine recorded for them.
	DeletePlayer(ctx context.Context, name string) error

	// ResetFines starts a new season: all fines and players are dropped and
	// fine ids restart at 1. Reasons are kept.
	ResetFines(ctx context.Context) error

	// AllReasons returns reasons in insertion order.
	AllReasons(ctx context.Context) ([]domain.Reason, error)

	// AddReason stores a reason. Empty and duplicate names are rejected.
	AddReason(ctx context.Context, reason domain.NewReason) (domain.Reason, error)

	// DeleteReason removes a reason. Unknown ids are not an error.
	DeleteReason(ctx context.Context, id int64) error

	// Stats summarizes the ledger in a single consistent read.
	Stats(ctx context.Context) (domain.LedgerStats, error)

	// Season returns fines, player totals and reasons from a single consistent read.
	Season(ctx context.Context) (domain.Season, error)
}
