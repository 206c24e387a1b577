package service

import (
	"context"
	"log/slog"

	"github.com/boetepot/platform/internal/domain"
	"github.com/boetepot/platform/internal/repository"
)

// LedgerOptions tunes LedgerService.
type LedgerOptions struct {
	// RecentLimit caps the recent-activity feed.
	RecentLimit int
	// DefaultReasonAmount applies when a new reason omits its amount.
	DefaultReasonAmount domain.Amount
}

// LedgerService validates ledger requests and delegates them to the store.
type LedgerService struct {
	store  repository.Store
	opts   LedgerOptions
	logger *slog.Logger
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(store repository.Store, opts LedgerOptions, logger *slog.Logger) *LedgerService {
	if opts.RecentLimit <= 0 {
		opts.RecentLimit = 10
	}
	return &LedgerService{store: store, opts: opts, logger: logger}
}

// Total returns the sum of all fines.
func (s *LedgerService) Total(ctx context.Context) (domain.Amount, error) {
	total, err := s.store.TotalFines(ctx)
	if err != nil {
		return domain.Amount{}, s.internal(ctx, "Failed to get total fines", err)
	}
	return total, nil
}

// Recent returns the newest fines, capped at RecentLimit.
func (s *LedgerService) Recent(ctx context.Context) ([]domain.Fine, error) {
	fines, err := s.store.RecentFines(ctx, s.opts.RecentLimit)
	if err != nil {
		return nil, s.internal(ctx, "Failed to get recent fines", err)
	}
	return fines, nil
}

// PlayerTotals returns the per-player sums in roster order. Sorting is left to the caller.
func (s *LedgerService) PlayerTotals(ctx context.Context) ([]domain.PlayerTotal, error) {
	totals, err := s.store.PlayerTotals(ctx)
	if err != nil {
		return nil, s.internal(ctx, "Failed to get player totals", err)
	}
	return totals, nil
}

// PlayerHistory returns one player's fines, newest first.
func (s *LedgerService) PlayerHistory(ctx context.Context, speler string) ([]domain.Fine, error) {
	fines, err := s.store.PlayerHistory(ctx, speler)
	if err != nil {
		return nil, s.internal(ctx, "Failed to get player history", err)
	}
	return fines, nil
}

// AllFines returns every fine, newest first.
func (s *LedgerService) AllFines(ctx context.Context) ([]domain.Fine, error) {
	fines, err := s.store.AllFines(ctx)
	if err != nil {
		return nil, s.internal(ctx, "Failed to get all fines", err)
	}
	return fines, nil
}

// AddFine validates and records a fine.
func (s *LedgerService) AddFine(ctx context.Context, input domain.FineInput) (domain.Fine, error) {
	nf, err := input.Validate()
	if err != nil {
		return domain.Fine{}, err
	}

	fine, err := s.store.AddFine(ctx, nf)
	if err != nil {
		return domain.Fine{}, s.internal(ctx, "Failed to add fine", err)
	}

	s.logger.InfoContext(ctx, "fine added",
		"fine_id", fine.ID,
		"speler", fine.Speler,
		"bedrag", fine.Bedrag.String(),
		"reden", fine.Reden,
	)
	return fine, nil
}

// DeleteFine removes a fine; unknown ids succeed.
func (s *LedgerService) DeleteFine(ctx context.Context, id int64) error {
	if err := s.store.DeleteFine(ctx, id); err != nil {
		return s.internal(ctx, "Failed to delete fine", err)
	}
	s.logger.InfoContext(ctx, "fine deleted", "fine_id", id)
	return nil
}

// Players returns the roster in first-seen order.
func (s *LedgerService) Players(ctx context.Context) ([]string, error) {
	players, err := s.store.UniquePlayers(ctx)
	if err != nil {
		return nil, s.internal(ctx, "Failed to get player list", err)
	}
	return players, nil
}

// AddPlayer puts a new player on the roster.
func (s *LedgerService) AddPlayer(ctx context.Context, name string) (string, error) {
	name, err := domain.ValidatePlayerName(name)
	if err != nil {
		return "", err
	}

	added, err := s.store.AddPlayer(ctx, name)
	if err != nil {
		return "", s.internal(ctx, "Failed to add player", err)
	}

	s.logger.InfoContext(ctx, "player added", "speler", added)
	return added, nil
}

// DeletePlayer removes a player together with all of their fines.
func (s *LedgerService) DeletePlayer(ctx context.Context, name string) error {
	if err := s.store.DeletePlayer(ctx, name); err != nil {
		return s.internal(ctx, "Failed to delete player", err)
	}
	s.logger.InfoContext(ctx, "player deleted", "speler", name)
	return nil
}

// ResetSeason clears every fine and the roster. Reasons are kept.
func (s *LedgerService) ResetSeason(ctx context.Context) error {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return s.internal(ctx, "Failed to reset fines", err)
	}
	if err := s.store.ResetFines(ctx); err != nil {
		return s.internal(ctx, "Failed to reset fines", err)
	}

	s.logger.InfoContext(ctx, "season reset",
		"fines_cleared", stats.Fines,
		"players_cleared", stats.Players,
		"total_cleared", stats.Total.String(),
	)
	return nil
}

// Reasons returns all configured reasons.
func (s *LedgerService) Reasons(ctx context.Context) ([]domain.Reason, error) {
	reasons, err := s.store.AllReasons(ctx)
	if err != nil {
		return nil, s.internal(ctx, "Failed to get reasons", err)
	}
	return reasons, nil
}

// AddReason validates and stores a reason.
func (s *LedgerService) AddReason(ctx context.Context, input domain.ReasonInput) (domain.Reason, error) {
	nr, err := input.Validate(s.opts.DefaultReasonAmount)
	if err != nil {
		return domain.Reason{}, err
	}

	reason, err := s.store.AddReason(ctx, nr)
	if err != nil {
		return domain.Reason{}, s.internal(ctx, "Failed to add reason", err)
	}

	s.logger.InfoContext(ctx, "reason added",
		"reason_id", reason.ID,
		"naam", reason.Naam,
		"bedrag", reason.Bedrag.String(),
	)
	return reason, nil
}

// DeleteReason removes a reason; unknown ids succeed.
func (s *LedgerService) DeleteReason(ctx context.Context, id int64) error {
	if err := s.store.DeleteReason(ctx, id); err != nil {
		return s.internal(ctx, "Failed to delete reason", err)
	}
	s.logger.InfoContext(ctx, "reason deleted", "reason_id", id)
	return nil
}

// Stats summarizes the ledger.
func (s *LedgerService) Stats(ctx context.Context) (domain.LedgerStats, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return domain.LedgerStats{}, s.internal(ctx, "Failed to get stats", err)
	}
	return stats, nil
}

// internal passes domain errors through and hides everything else behind msg.
func (s *LedgerService) internal(ctx context.Context, msg string, err error) error {
	if appErr, ok := domain.AsAppError(err); ok {
		return appErr
	}
	s.logger.ErrorContext(ctx, msg, "error", err)
	return domain.ErrInternal(msg, err)
}
