package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/okian/marathon/internal/domain/model"
	"github.com/okian/marathon/internal/domain/seed"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

// runStoreContract exercises the behaviour every driver must share.
func runStoreContract(t *testing.T, open func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("EmptyReads", func(t *testing.T) {
		s := open(t)
		runners, err := s.Runners(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if runners == nil || len(runners) != 0 {
			t.Errorf("expected empty non-nil runners, got %#v", runners)
		}
		sponsors, err := s.Sponsors(ctx)
		if err != nil || sponsors == nil || len(sponsors) != 0 {
			t.Errorf("expected empty sponsors, got %#v (%v)", sponsors, err)
		}
		stalls, err := s.Stalls(ctx)
		if err != nil || stalls == nil || len(stalls) != 0 {
			t.Errorf("expected empty stalls, got %#v (%v)", stalls, err)
		}
	})

	t.Run("SeedAndCount", func(t *testing.T) {
		s := open(t)
		if err := s.Seed(ctx, seed.Runners(), seed.Sponsors(), seed.Stalls()); err != nil {
			t.Fatalf("seed: %v", err)
		}
		want := map[string]int{
			model.CollectionRunners:      12,
			model.CollectionSponsors:     4,
			model.CollectionRefreshments: 5,
		}
		for c, n := range want {
			got, err := s.Count(ctx, c)
			if err != nil {
				t.Fatalf("count %s: %v", c, err)
			}
			if got != n {
				t.Errorf("count %s: expected %d, got %d", c, n, got)
			}
		}

		runners, err := s.Runners(ctx)
		if err != nil {
			t.Fatalf("runners: %v", err)
		}
		if runners[0].BibNumber != "NU25MCA11" || runners[11].BibNumber != "NU25MCA27" {
			t.Errorf("expected insertion order, got %s..%s", runners[0].BibNumber, runners[11].BibNumber)
		}
		if got, _ := runners[0].Minutes(); got != 235 {
			t.Errorf("expected completion time 235, got %d", got)
		}
		if len(runners[0].CheckpointTimes) != 4 {
			t.Errorf("expected checkpoints to round-trip, got %v", runners[0].CheckpointTimes)
		}

		sponsors, _ := s.Sponsors(ctx)
		if sponsors[2].Name != "Puma" || len(sponsors[2].Categories) != 3 || sponsors[2].Amount != 450000 {
			t.Errorf("unexpected sponsor %#v", sponsors[2])
		}
		stalls, _ := s.Stalls(ctx)
		if stalls[4].StallName != "Final Refresh" || stalls[4].Visitors != 180 {
			t.Errorf("unexpected stall %#v", stalls[4])
		}
	})

	t.Run("UnknownCollection", func(t *testing.T) {
		s := open(t)
		if _, err := s.Count(ctx, "medals"); !errors.Is(err, ErrUnknownCollection) {
			t.Errorf("expected ErrUnknownCollection, got %v", err)
		}
	})

	t.Run("InsertAcceptsDuplicates", func(t *testing.T) {
		s := open(t)
		r := model.Runner{BibNumber: "X1", Name: "First", Category: model.Category5K}
		for i := 0; i < 2; i++ {
			if err := s.InsertRunner(ctx, r); err != nil {
				t.Fatalf("insert: %v", err)
			}
		}
		if n, _ := s.Count(ctx, model.CollectionRunners); n != 2 {
			t.Errorf("expected 2 runners, got %d", n)
		}
	})

	t.Run("UpdateFirstMatchOnly", func(t *testing.T) {
		s := open(t)
		_ = s.InsertRunner(ctx, model.Runner{BibNumber: "D1", Name: "Dup A", City: "Pune", Finished: false})
		_ = s.InsertRunner(ctx, model.Runner{BibNumber: "D1", Name: "Dup B", City: "Pune", Finished: false})

		ok, err := s.UpdateRunner(ctx, "D1", model.RunnerPatch{City: strPtr("Delhi"), Finished: boolPtr(true), CompletionTime: model.Minutes(99)})
		if err != nil || !ok {
			t.Fatalf("expected matched update, got %v (%v)", ok, err)
		}

		runners, _ := s.Runners(ctx)
		if runners[0].City != "Delhi" || !runners[0].Finished {
			t.Errorf("expected first record patched, got %#v", runners[0])
		}
		if m, _ := runners[0].Minutes(); m != 99 {
			t.Errorf("expected completion time 99, got %d", m)
		}
		if runners[0].Name != "Dup A" {
			t.Errorf("expected unpatched name kept, got %q", runners[0].Name)
		}
		if runners[1].City != "Pune" || runners[1].Finished {
			t.Errorf("expected second record untouched, got %#v", runners[1])
		}
	})

	t.Run("UpdateMissingIsNoop", func(t *testing.T) {
		s := open(t)
		_ = s.InsertRunner(ctx, model.Runner{BibNumber: "A1", City: "Pune"})
		ok, err := s.UpdateRunner(ctx, "ZZZ", model.RunnerPatch{City: strPtr("Delhi")})
		if err != nil || ok {
			t.Errorf("expected unmatched no-op, got %v (%v)", ok, err)
		}
		runners, _ := s.Runners(ctx)
		if runners[0].City != "Pune" {
			t.Errorf("expected store unchanged, got %#v", runners[0])
		}
	})

	t.Run("UpdateEmptyPatch", func(t *testing.T) {
		s := open(t)
		_ = s.InsertRunner(ctx, model.Runner{BibNumber: "A1", City: "Pune"})
		ok, err := s.UpdateRunner(ctx, "A1", model.RunnerPatch{})
		if err != nil || !ok {
			t.Errorf("expected matched no-op, got %v (%v)", ok, err)
		}
	})

	t.Run("DeleteFirstMatchOnly", func(t *testing.T) {
		s := open(t)
		for i := 0; i < 3; i++ {
			_ = s.InsertRunner(ctx, model.Runner{BibNumber: "D1", Name: fmt.Sprintf("n%d", i)})
		}
		ok, err := s.DeleteRunner(ctx, "D1")
		if err != nil || !ok {
			t.Fatalf("expected delete, got %v (%v)", ok, err)
		}
		runners, _ := s.Runners(ctx)
		if len(runners) != 2 || runners[0].Name != "n1" {
			t.Errorf("expected first record removed, got %#v", runners)
		}

		ok, err = s.DeleteRunner(ctx, "missing")
		if err != nil || ok {
			t.Errorf("expected unmatched no-op, got %v (%v)", ok, err)
		}
		if n, _ := s.Count(ctx, model.CollectionRunners); n != 2 {
			t.Errorf("expected 2 runners left, got %d", n)
		}
	})

	t.Run("ReadsDoNotAlias", func(t *testing.T) {
		s := open(t)
		_ = s.InsertRunner(ctx, model.Runner{BibNumber: "A1", CheckpointTimes: []int{1, 2}})
		runners, _ := s.Runners(ctx)
		runners[0].BibNumber = "changed"
		runners[0].CheckpointTimes[0] = 100

		again, _ := s.Runners(ctx)
		if again[0].BibNumber != "A1" || again[0].CheckpointTimes[0] != 1 {
			t.Errorf("expected stored runner unchanged, got %#v", again[0])
		}
	})
}
