package repository

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/boetepot/platform/internal/domain"
)

// MemoryStore is a process-local Store. A single RWMutex serializes writers,
// so the check-then-act operations (player add/delete, reason add) are atomic
// and readers never observe half of a cascade.
type MemoryStore struct {
	mu  sync.RWMutex
	now func() time.Time

	fines   []domain.Fine // insertion order
	players []domain.Player
	reasons []domain.Reason

	nextFineID   int64
	nextReasonID int64
}

var _ Store = (*MemoryStore)(nil)

// Option configures a MemoryStore.
type Option func(*MemoryStore)

// WithClock overrides the time source used to stamp fines.
func WithClock(now func() time.Time) Option {
	return func(s *MemoryStore) { s.now = now }
}

// NewMemoryStore returns an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		now:          time.Now,
		nextFineID:   1,
		nextReasonID: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) AddFine(_ context.Context, nf domain.NewFine) (domain.Fine, error) {
	if nf.Bedrag.IsNegative() {
		return domain.Fine{}, domain.ErrValidation("bedrag mag niet negatief zijn")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fine := domain.Fine{
		ID:     s.nextFineID,
		Speler: nf.Speler,
		Datum:  s.now(),
		Bedrag: nf.Bedrag,
		Reden:  nf.Reden,
	}
	s.nextFineID++
	s.fines = append(s.fines, fine)

	if s.playerIndex(fine.Speler) < 0 {
		s.players = append(s.players, domain.Player{Naam: fine.Speler, Since: fine.Datum})
	}
	return fine, nil
}

func (s *MemoryStore) DeleteFine(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.fines, func(f domain.Fine) bool { return f.ID == id })
	if i < 0 {
		return nil
	}
	speler := s.fines[i].Speler
	s.fines = slices.Delete(s.fines, i, i+1)

	// An unpinned player only exists through their fines.
	if p := s.playerIndex(speler); p >= 0 && !s.players[p].Pinned && !s.hasFines(speler) {
		s.players = slices.Delete(s.players, p, p+1)
	}
	return nil
}

func (s *MemoryStore) AllFines(_ context.Context) ([]domain.Fine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedFines(nil), nil
}

func (s *MemoryStore) RecentFines(_ context.Context, limit int) ([]domain.Fine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fines := s.sortedFines(nil)
	if limit < 0 {
		limit = 0
	}
	if len(fines) > limit {
		fines = fines[:limit]
	}
	return fines, nil
}

func (s *MemoryStore) PlayerHistory(_ context.Context, speler string) ([]domain.Fine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedFines(func(f domain.Fine) bool { return f.Speler == speler }), nil
}

func (s *MemoryStore) TotalFines(_ context.Context) (domain.Amount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total(), nil
}

func (s *MemoryStore) PlayerTotals(_ context.Context) ([]domain.PlayerTotal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.playerTotals(), nil
}

// playerTotals sums fines per roster entry. Callers hold at least a read lock.
func (s *MemoryStore) playerTotals() []domain.PlayerTotal {
	sums := make(map[string]domain.Amount, len(s.players))
	for _, f := range s.fines {
		sums[f.Speler] = sums[f.Speler].Add(f.Bedrag)
	}

	totals := make([]domain.PlayerTotal, 0, len(s.players))
	for _, p := range s.players {
		totals = append(totals, domain.PlayerTotal{Speler: p.Naam, Totaal: sums[p.Naam]})
	}
	return totals
}

func (s *MemoryStore) UniquePlayers(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.players))
	for _, p := range s.players {
		names = append(names, p.Naam)
	}
	return names, nil
}

func (s *MemoryStore) AddPlayer(_ context.Context, name string) (string, error) {
	name, err := domain.ValidatePlayerName(name)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.playerIndex(name) >= 0 {
		return "", domain.ErrDuplicate("Speler bestaat al")
	}
	s.players = append(s.players, domain.Player{Naam: name, Since: s.now(), Pinned: true})
	return name, nil
}

func (s *MemoryStore) DeletePlayer(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fines = slices.DeleteFunc(s.fines, func(f domain.Fine) bool { return f.Speler == name })
	if p := s.playerIndex(name); p >= 0 {
		s.players = slices.Delete(s.players, p, p+1)
	}
	return nil
}

func (s *MemoryStore) ResetFines(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fines = nil
	s.players = nil
	s.nextFineID = 1
	return nil
}

func (s *MemoryStore) AllReasons(_ context.Context) ([]domain.Reason, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.reasonsCopy(), nil
}

func (s *MemoryStore) AddReason(_ context.Context, nr domain.NewReason) (domain.Reason, error) {
	naam := strings.TrimSpace(nr.Naam)
	if naam == "" {
		return domain.Reason{}, domain.ErrValidation("Reden naam is verplicht")
	}
	if nr.Bedrag.IsNegative() {
		return domain.Reason{}, domain.ErrValidation("bedrag mag niet negatief zijn")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.ContainsFunc(s.reasons, func(r domain.Reason) bool { return r.Naam == naam }) {
		return domain.Reason{}, domain.ErrDuplicate("Reden bestaat al")
	}

	reason := domain.Reason{ID: s.nextReasonID, Naam: naam, Bedrag: nr.Bedrag}
	s.nextReasonID++
	s.reasons = append(s.reasons, reason)
	return reason, nil
}

func (s *MemoryStore) DeleteReason(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reasons = slices.DeleteFunc(s.reasons, func(r domain.Reason) bool { return r.ID == id })
	return nil
}

func (s *MemoryStore) Stats(_ context.Context) (domain.LedgerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.LedgerStats{
		Fines:   len(s.fines),
		Players: len(s.players),
		Reasons: len(s.reasons),
		Total:   s.total(),
	}, nil
}

func (s *MemoryStore) Season(_ context.Context) (domain.Season, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.Season{
		Fines:   s.sortedFines(nil),
		Totals:  s.playerTotals(),
		Reasons: s.reasonsCopy(),
	}, nil
}

func (s *MemoryStore) reasonsCopy() []domain.Reason {
	out := make([]domain.Reason, len(s.reasons))
	copy(out, s.reasons)
	return out
}

// sortedFines copies the fines matching keep (all when nil), newest first.
// Equal timestamps fall back to the higher id. Callers hold at least a read lock.
func (s *MemoryStore) sortedFines(keep func(domain.Fine) bool) []domain.Fine {
	out := make([]domain.Fine, 0, len(s.fines))
	for _, f := range s.fines {
		if keep == nil || keep(f) {
			out = append(out, f)
		}
	}
	slices.SortFunc(out, func(a, b domain.Fine) int {
		if c := b.Datum.Compare(a.Datum); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out
}

func (s *MemoryStore) total() domain.Amount {
	total := domain.Zero
	for _, f := range s.fines {
		total = total.Add(f.Bedrag)
	}
	return total
}

func (s *MemoryStore) playerIndex(name string) int {
	return slices.IndexFunc(s.players, func(p domain.Player) bool { return p.Naam == name })
}

func (s *MemoryStore) hasFines(name string) bool {
	return slices.ContainsFunc(s.fines, func(f domain.Fine) bool { return f.Speler == name })
}
