// Package repository persists the runners, sponsors and refreshments
// collections. Three drivers share one Store contract: an in-memory store,
// an embedded SQLite document store and MongoDB.
package repository

import (
	"context"

	"github.com/okian/marathon/internal/domain/model"
)

// Store provides read/write access to the race collections.
//
// Reads return every document of a collection in insertion order. Runner
// mutations address the first record carrying the bib number; when none
// matches they succeed without changing anything and report false.
type Store interface {
	// Driver names the backend, used as a metrics label.
	Driver() string

	Runners(ctx context.Context) ([]model.Runner, error)
	Sponsors(ctx context.Context) ([]model.Sponsor, error)
	Stalls(ctx context.Context) ([]model.Stall, error)

	// Count returns the number of documents in the named collection.
	Count(ctx context.Context, collection string) (int, error)

	// InsertRunner appends r as given. Duplicate bib numbers are accepted.
	InsertRunner(ctx context.Context, r model.Runner) error
	// UpdateRunner merges p into the first runner with the bib number.
	UpdateRunner(ctx context.Context, bib string, p model.RunnerPatch) (bool, error)
	// DeleteRunner removes the first runner with the bib number.
	DeleteRunner(ctx context.Context, bib string) (bool, error)

	// Seed bulk-inserts the three collections.
	Seed(ctx context.Context, runners []model.Runner, sponsors []model.Sponsor, stalls []model.Stall) error

	Close() error
}
