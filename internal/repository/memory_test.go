package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/boetepot/platform/internal/domain"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// steppingClock returns a clock that advances by step on every call.
func steppingClock(step time.Duration) func() time.Time {
	var mu sync.Mutex
	now := time.Date(2025, 3, 6, 19, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(step)
		return now
	}
}

func newStore() *MemoryStore {
	return NewMemoryStore(WithClock(steppingClock(time.Minute)))
}

func fine(speler, bedrag, reden string) domain.NewFine {
	return domain.NewFine{Speler: speler, Bedrag: domain.MustParseAmount(bedrag), Reden: reden}
}

func ids(fines []domain.Fine) []int64 {
	out := make([]int64, len(fines))
	for i, f := range fines {
		out[i] = f.ID
	}
	return out
}

func mustAdd(t *testing.T, s *MemoryStore, nf domain.NewFine) domain.Fine {
	t.Helper()
	f, err := s.AddFine(context.Background(), nf)
	require.NoError(t, err)
	return f
}

func assertAppErr(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := domain.AsAppError(err)
	require.True(t, ok, "expected AppError, got %T", err)
	assert.Equal(t, code, appErr.Code)
	assert.Equal(t, 400, appErr.Status)
}

// --- Scenarios ---

func TestMemoryStore_SeasonScenario(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	mustAdd(t, s, fine("Jan", "5.00", "Te laat"))
	total, err := s.TotalFines(ctx)
	require.NoError(t, err)
	assert.Equal(t, "5.00", total.String())

	mustAdd(t, s, fine("Piet", "7.50", "Telefoon"))
	total, err = s.TotalFines(ctx)
	require.NoError(t, err)
	assert.Equal(t, "12.50", total.String())

	require.NoError(t, s.ResetFines(ctx))
	total, err = s.TotalFines(ctx)
	require.NoError(t, err)
	assert.True(t, total.IsZero())

	all, err := s.AllFines(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.NotNil(t, all)
}

func TestMemoryStore_DuplicateReasonScenario(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	_, err := s.AddReason(ctx, domain.NewReason{Naam: "Laat", Bedrag: domain.MustParseAmount("5")})
	require.NoError(t, err)

	_, err = s.AddReason(ctx, domain.NewReason{Naam: "Laat", Bedrag: domain.MustParseAmount("3")})
	assertAppErr(t, err, "DUPLICATE_NAME")

	reasons, err := s.AllReasons(ctx)
	require.NoError(t, err)
	require.Len(t, reasons, 1)
	assert.Equal(t, "Laat", reasons[0].Naam)
	assert.Equal(t, "5.00", reasons[0].Bedrag.String())
}

// --- Fines ---

func TestMemoryStore_AddFine(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	f1 := mustAdd(t, s, fine("Jan", "5", "Te laat"))
	f2 := mustAdd(t, s, fine("Jan", "0", "Nieuwe speler toegevoegd"))

	assert.Equal(t, int64(1), f1.ID)
	assert.Equal(t, int64(2), f2.ID)
	assert.True(t, f2.Datum.After(f1.Datum))
	assert.True(t, f2.Bedrag.IsZero())

	_, err := s.AddFine(ctx, fine("Jan", "-1", "Te laat"))
	assertAppErr(t, err, "VALIDATION_ERROR")
}

func TestMemoryStore_Ordering(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	for i := 0; i < 12; i++ {
		mustAdd(t, s, fine("Jan", "1", "Te laat"))
	}

	all, err := s.AllFines(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff([]int64{12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1}, ids(all)); diff != "" {
		t.Errorf("AllFines order mismatch (-want +got):\n%s", diff)
	}

	recent, err := s.RecentFines(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 10)
	assert.Equal(t, ids(all)[:10], ids(recent))

	t.Run("limit larger than ledger", func(t *testing.T) {
		recent, err := s.RecentFines(ctx, 50)
		require.NoError(t, err)
		assert.Len(t, recent, 12)
	})

	t.Run("zero and negative limit", func(t *testing.T) {
		for _, limit := range []int{0, -3} {
			recent, err := s.RecentFines(ctx, limit)
			require.NoError(t, err)
			assert.Empty(t, recent)
		}
	})
}

func TestMemoryStore_OrderingTieBreaksOnID(t *testing.T) {
	ctx := context.Background()
	frozen := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(WithClock(func() time.Time { return frozen }))

	for i := 0; i < 3; i++ {
		mustAdd(t, s, fine("Jan", "1", "Te laat"))
	}

	all, err := s.AllFines(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff([]int64{3, 2, 1}, ids(all)); diff != "" {
		t.Errorf("tie-break order mismatch (-want +got):\n%s", diff)
	}
}

func TestMemoryStore_PlayerHistory(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	mustAdd(t, s, fine("Jan", "1", "a"))
	mustAdd(t, s, fine("Piet", "2", "b"))
	mustAdd(t, s, fine("Jan", "3", "c"))
	mustAdd(t, s, fine("jan", "4", "d"))

	history, err := s.PlayerHistory(ctx, "Jan")
	require.NoError(t, err)
	if diff := cmp.Diff([]int64{3, 1}, ids(history)); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}

	none, err := s.PlayerHistory(ctx, "Kees")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemoryStore_DeleteFine(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	f := mustAdd(t, s, fine("Jan", "5", "Te laat"))
	mustAdd(t, s, fine("Piet", "2", "Telefoon"))

	require.NoError(t, s.DeleteFine(ctx, f.ID))
	require.NoError(t, s.DeleteFine(ctx, f.ID), "second delete must be a no-op")
	require.NoError(t, s.DeleteFine(ctx, 999))

	all, err := s.AllFines(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, ids(all))

	// Ids are never reused within a season.
	next := mustAdd(t, s, fine("Jan", "1", "Te laat"))
	assert.Equal(t, int64(3), next.ID)
}

// --- Players ---

func TestMemoryStore_PlayersFollowFines(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	jan := mustAdd(t, s, fine("Jan", "5", "Te laat"))
	mustAdd(t, s, fine("Piet", "2", "Telefoon"))
	mustAdd(t, s, fine("Jan", "1", "Telefoon"))

	players, err := s.UniquePlayers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Jan", "Piet"}, players)

	require.NoError(t, s.DeleteFine(ctx, jan.ID))
	players, _ = s.UniquePlayers(ctx)
	assert.Equal(t, []string{"Jan", "Piet"}, players, "Jan still has a fine")

	require.NoError(t, s.DeleteFine(ctx, 3))
	players, _ = s.UniquePlayers(ctx)
	assert.Equal(t, []string{"Piet"}, players, "Jan has no fines left")
}

func TestMemoryStore_AddPlayer(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	for _, name := range []string{"", "  "} {
		_, err := s.AddPlayer(ctx, name)
		assertAppErr(t, err, "VALIDATION_ERROR")
	}

	name, err := s.AddPlayer(ctx, " X ")
	require.NoError(t, err)
	assert.Equal(t, "X", name)

	_, err = s.AddPlayer(ctx, "X")
	assertAppErr(t, err, "DUPLICATE_NAME")

	mustAdd(t, s, fine("Jan", "5", "Te laat"))
	_, err = s.AddPlayer(ctx, "Jan")
	assertAppErr(t, err, "DUPLICATE_NAME")

	players, _ := s.UniquePlayers(ctx)
	assert.Equal(t, []string{"X", "Jan"}, players)

	t.Run("added player does not touch the ledger", func(t *testing.T) {
		total, _ := s.TotalFines(ctx)
		assert.Equal(t, "5.00", total.String())
		all, _ := s.AllFines(ctx)
		assert.Len(t, all, 1)
	})

	t.Run("added player appears on the leaderboard with zero", func(t *testing.T) {
		totals, err := s.PlayerTotals(ctx)
		require.NoError(t, err)
		require.Len(t, totals, 2)
		assert.Equal(t, "X", totals[0].Speler)
		assert.True(t, totals[0].Totaal.IsZero())
	})

	t.Run("pinned player survives deleting their last fine", func(t *testing.T) {
		f := mustAdd(t, s, fine("X", "2", "Te laat"))
		require.NoError(t, s.DeleteFine(ctx, f.ID))
		players, _ := s.UniquePlayers(ctx)
		assert.Contains(t, players, "X")
	})
}

func TestMemoryStore_DeletePlayer(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	_, err := s.AddPlayer(ctx, "Jan")
	require.NoError(t, err)
	mustAdd(t, s, fine("Jan", "5", "Te laat"))
	mustAdd(t, s, fine("Piet", "2", "Telefoon"))
	mustAdd(t, s, fine("Jan", "1", "Telefoon"))

	require.NoError(t, s.DeletePlayer(ctx, "Jan"))

	players, _ := s.UniquePlayers(ctx)
	assert.Equal(t, []string{"Piet"}, players)

	history, _ := s.PlayerHistory(ctx, "Jan")
	assert.Empty(t, history)

	total, _ := s.TotalFines(ctx)
	assert.Equal(t, "2.00", total.String())

	require.NoError(t, s.DeletePlayer(ctx, "Niemand"), "unknown player is a no-op")
}

func TestMemoryStore_Reset(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	_, err := s.AddPlayer(ctx, "Kees")
	require.NoError(t, err)
	mustAdd(t, s, fine("Jan", "5", "Te laat"))
	mustAdd(t, s, fine("Piet", "2", "Telefoon"))
	r1, err := s.AddReason(ctx, domain.NewReason{Naam: "Laat", Bedrag: domain.MustParseAmount("5")})
	require.NoError(t, err)

	require.NoError(t, s.ResetFines(ctx))

	players, _ := s.UniquePlayers(ctx)
	assert.Empty(t, players)
	totals, _ := s.PlayerTotals(ctx)
	assert.Empty(t, totals)

	reasons, _ := s.AllReasons(ctx)
	require.Len(t, reasons, 1)

	f := mustAdd(t, s, fine("Jan", "1", "Te laat"))
	assert.Equal(t, int64(1), f.ID, "fine ids restart after reset")

	r2, err := s.AddReason(ctx, domain.NewReason{Naam: "Telefoon", Bedrag: domain.MustParseAmount("2")})
	require.NoError(t, err)
	assert.Equal(t, r1.ID+1, r2.ID, "reason ids are untouched by reset")
}

// --- Reasons ---

func TestMemoryStore_Reasons(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	_, err := s.AddReason(ctx, domain.NewReason{Naam: " ", Bedrag: domain.MustParseAmount("5")})
	assertAppErr(t, err, "VALIDATION_ERROR")

	_, err = s.AddReason(ctx, domain.NewReason{Naam: "Laat", Bedrag: domain.MustParseAmount("-5")})
	assertAppErr(t, err, "VALIDATION_ERROR")

	laat, err := s.AddReason(ctx, domain.NewReason{Naam: "Laat", Bedrag: domain.MustParseAmount("5")})
	require.NoError(t, err)
	_, err = s.AddReason(ctx, domain.NewReason{Naam: "laat", Bedrag: domain.MustParseAmount("5")})
	require.NoError(t, err, "names are compared case-sensitively")
	_, err = s.AddReason(ctx, domain.NewReason{Naam: "Telefoon", Bedrag: domain.MustParseAmount("2.5")})
	require.NoError(t, err)

	require.NoError(t, s.DeleteReason(ctx, laat.ID))
	require.NoError(t, s.DeleteReason(ctx, laat.ID))

	reasons, err := s.AllReasons(ctx)
	require.NoError(t, err)
	names := make([]string, len(reasons))
	for i, r := range reasons {
		names[i] = r.Naam
	}
	assert.Equal(t, []string{"laat", "Telefoon"}, names)

	again, err := s.AddReason(ctx, domain.NewReason{Naam: "Laat", Bedrag: domain.MustParseAmount("5")})
	require.NoError(t, err, "a deleted name can be reused")
	assert.Equal(t, int64(4), again.ID)
}

func TestMemoryStore_Stats(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	mustAdd(t, s, fine("Jan", "5", "Te laat"))
	mustAdd(t, s, fine("Piet", "2.5", "Telefoon"))
	_, err := s.AddReason(ctx, domain.NewReason{Naam: "Laat", Bedrag: domain.MustParseAmount("5")})
	require.NoError(t, err)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Fines)
	assert.Equal(t, 2, stats.Players)
	assert.Equal(t, 1, stats.Reasons)
	assert.Equal(t, "7.50", stats.Total.String())
}

func TestMemoryStore_Season(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	empty, err := s.Season(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty.Fines)
	assert.NotNil(t, empty.Reasons)

	mustAdd(t, s, fine("Jan", "5", "Te laat"))
	mustAdd(t, s, fine("Piet", "2.5", "Telefoon"))
	_, err = s.AddPlayer(ctx, "Kees")
	require.NoError(t, err)
	_, err = s.AddReason(ctx, domain.NewReason{Naam: "Laat", Bedrag: domain.MustParseAmount("5")})
	require.NoError(t, err)

	season, err := s.Season(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1}, ids(season.Fines))
	require.Len(t, season.Totals, 3)
	assert.Equal(t, "Kees", season.Totals[2].Speler)
	assert.True(t, season.Totals[2].Totaal.IsZero())
	require.Len(t, season.Reasons, 1)

	// the snapshot is a copy
	season.Reasons[0].Naam = "Anders"
	reasons, err := s.AllReasons(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Laat", reasons[0].Naam)
}

// --- Properties ---

func TestMemoryStore_RandomLedgerProperties(t *testing.T) {
	ctx := context.Background()
	faker := gofakeit.New(20250306)
	s := newStore()

	names := []string{faker.FirstName(), faker.FirstName(), faker.FirstName(), faker.FirstName()}
	want := domain.Zero

	for i := 0; i < 200; i++ {
		switch op := faker.Number(0, 9); {
		case op < 7:
			bedrag := domain.NewAmountFromCents(int64(faker.Number(0, 2500)))
			f, err := s.AddFine(ctx, domain.NewFine{Speler: faker.RandomString(names), Bedrag: bedrag, Reden: "Te laat"})
			require.NoError(t, err)
			want = want.Add(bedrag)
			assert.True(t, f.Bedrag.Equal(bedrag))
		case op < 9:
			all, err := s.AllFines(ctx)
			require.NoError(t, err)
			if len(all) == 0 {
				continue
			}
			victim := all[faker.Number(0, len(all)-1)]
			require.NoError(t, s.DeleteFine(ctx, victim.ID))
			want = want.Sub(victim.Bedrag)
		default:
			require.NoError(t, s.DeletePlayer(ctx, faker.RandomString(names)))
			want = domain.Zero
			all, _ := s.AllFines(ctx)
			for _, f := range all {
				want = want.Add(f.Bedrag)
			}
		}

		total, err := s.TotalFines(ctx)
		require.NoError(t, err)
		require.True(t, total.Equal(want), "step %d: total %s, want %s", i, total, want)

		totals, err := s.PlayerTotals(ctx)
		require.NoError(t, err)
		sum := domain.Zero
		for _, pt := range totals {
			sum = sum.Add(pt.Totaal)
		}
		require.True(t, sum.Equal(total), "step %d: player totals %s != total %s", i, sum, total)

		all, err := s.AllFines(ctx)
		require.NoError(t, err)
		for j := 1; j < len(all); j++ {
			require.False(t, all[j].Datum.After(all[j-1].Datum), "step %d: fines not newest first", i)
		}

		players, err := s.UniquePlayers(ctx)
		require.NoError(t, err)
		seen := make(map[string]bool)
		for _, f := range all {
			seen[f.Speler] = true
		}
		assert.Len(t, players, len(seen), "step %d: roster must match fine owners", i)
	}
}

// --- Concurrency ---

func TestMemoryStore_ConcurrentAddPlayerIsAtomic(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.AddPlayer(ctx, "Jan"); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	players, _ := s.UniquePlayers(ctx)
	assert.Equal(t, []string{"Jan"}, players)
}

func TestMemoryStore_ConcurrentReadsSeeWholeCascades(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	for i := 0; i < 50; i++ {
		mustAdd(t, s, fine("Jan", "1", "Te laat"))
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.DeletePlayer(ctx, "Jan")
	}()

	for i := 0; i < 100; i++ {
		stats, err := s.Stats(ctx)
		require.NoError(t, err)
		assert.Contains(t, []int{0, 50}, stats.Fines)
	}
	<-done
}

func TestMemoryStore_SeasonIsConsistentDuringReset(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	for i := 0; i < 20; i++ {
		mustAdd(t, s, fine("Jan", "1", "Te laat"))
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			_ = s.ResetFines(ctx)
			for j := 0; j < 20; j++ {
				_, _ = s.AddFine(ctx, fine("Piet", "2", "Telefoon"))
			}
		}
	}()

	for i := 0; i < 200; i++ {
		season, err := s.Season(ctx)
		require.NoError(t, err)

		fineSum := domain.Zero
		for _, f := range season.Fines {
			fineSum = fineSum.Add(f.Bedrag)
		}
		totalSum := domain.Zero
		for _, pt := range season.Totals {
			totalSum = totalSum.Add(pt.Totaal)
		}
		require.True(t, fineSum.Equal(totalSum), "fines %s, totals %s", fineSum, totalSum)
	}
	<-done
}
