package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/okian/marathon/internal/adapters/repository"
	service "github.com/okian/marathon/internal/app"
	"github.com/okian/marathon/internal/domain/catalog"
	"github.com/okian/marathon/internal/domain/model"
	"github.com/okian/marathon/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

var errBroken = errors.New("broken store")

// brokenStore fails every read and write.
type brokenStore struct {
	repository.Store
}

func (brokenStore) Runners(context.Context) ([]model.Runner, error)   { return nil, errBroken }
func (brokenStore) Sponsors(context.Context) ([]model.Sponsor, error) { return nil, errBroken }
func (brokenStore) Stalls(context.Context) ([]model.Stall, error)     { return nil, errBroken }
func (brokenStore) InsertRunner(context.Context, model.Runner) error  { return errBroken }
func (brokenStore) Driver() string                                    { return "broken" }
func (brokenStore) Count(context.Context, string) (int, error)        { return 0, errBroken }

func newStarted(ctx context.Context, opts ...service.Option) (*service.Service, *repository.MemoryStore) {
	store := repository.NewMemoryStore(ctx, repository.WithMetricsUpdateInterval(time.Hour))
	svc := service.New(append([]service.Option{service.WithStore(store), service.WithReportWorkers(4)}, opts...)...)
	So(svc.Start(ctx), ShouldBeNil)
	return svc, store
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
			So(svc.GetStats()["reportWorkers"], ShouldBeGreaterThan, 0)
		})

		Convey("And starting without a store should fail", func() {
			So(errors.Is(svc.Start(context.Background()), service.ErrNoStore), ShouldBeTrue)
		})
	})
}

func TestService_StartStop(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		svc, store := newStarted(ctx)
		defer store.Close()
		defer svc.Stop()

		Convey("Then it should be marked as started and seeded", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, true)
			So(stats["driver"], ShouldEqual, repository.DriverMemory)
			So(stats[model.CollectionRunners], ShouldEqual, 12)
			So(stats[model.CollectionSponsors], ShouldEqual, 4)
			So(stats[model.CollectionRefreshments], ShouldEqual, 5)
		})

		Convey("And starting twice should be a no-op", func() {
			So(svc.Start(ctx), ShouldBeNil)
			n, _ := store.Count(ctx, model.CollectionRunners)
			So(n, ShouldEqual, 12)
		})

		Convey("When stopping the service", func() {
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				So(svc.GetStats()["started"], ShouldEqual, false)
			})

			Convey("And reports should be refused", func() {
				_, err := svc.Report(ctx)
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			})
		})
	})
}

func TestService_Seed(t *testing.T) {
	Convey("Given a service with seeding disabled", t, func() {
		ctx := context.Background()
		svc, store := newStarted(ctx, service.WithSeedOnStart(false))
		defer store.Close()
		defer svc.Stop()

		Convey("Then the store should stay empty", func() {
			n, _ := store.Count(ctx, model.CollectionRunners)
			So(n, ShouldEqual, 0)
		})

		Convey("When seeding explicitly", func() {
			seeded, err := svc.Seed(ctx)
			So(err, ShouldBeNil)
			So(seeded, ShouldBeTrue)

			Convey("Then a second seed should be skipped", func() {
				seeded, err := svc.Seed(ctx)
				So(err, ShouldBeNil)
				So(seeded, ShouldBeFalse)
				n, _ := store.Count(ctx, model.CollectionRunners)
				So(n, ShouldEqual, 12)
			})
		})

		Convey("When a runner already exists", func() {
			So(svc.InsertRunner(ctx, model.Runner{BibNumber: "X"}), ShouldBeNil)
			seeded, err := svc.Seed(ctx)

			Convey("Then nothing should be seeded", func() {
				So(err, ShouldBeNil)
				So(seeded, ShouldBeFalse)
				n, _ := store.Count(ctx, model.CollectionSponsors)
				So(n, ShouldEqual, 0)
			})
		})
	})
}

func TestService_RunQuery(t *testing.T) {
	Convey("Given a seeded service", t, func() {
		ctx := context.Background()
		svc, store := newStarted(ctx)
		defer store.Close()
		defer svc.Stop()

		Convey("When running query 3", func() {
			res, err := svc.RunQuery(ctx, 3)

			Convey("Then only the unfinished runner should be returned", func() {
				So(err, ShouldBeNil)
				So(res.Count, ShouldEqual, 1)
				rows := res.Rows.([]model.Runner)
				So(rows[0].BibNumber, ShouldEqual, "NU25MCA16")
			})
		})

		Convey("When running the sponsor and stall queries", func() {
			q6, err := svc.RunQuery(ctx, 6)
			So(err, ShouldBeNil)
			q9, err := svc.RunQuery(ctx, 9)
			So(err, ShouldBeNil)

			Convey("Then they should read their own collections", func() {
				So(q6.Count, ShouldEqual, 3)
				So(q9.Count, ShouldEqual, 4)
			})
		})

		Convey("When selecting outside the catalog", func() {
			_, err := svc.RunQuery(ctx, 13)

			Convey("Then it should fail with ErrUnknownQuery", func() {
				So(errors.Is(err, catalog.ErrUnknownQuery), ShouldBeTrue)
			})
		})

		Convey("When a query follows a mutation", func() {
			finished := true
			_, err := svc.UpdateRunner(ctx, "NU25MCA16", model.RunnerPatch{Finished: &finished, CompletionTime: model.Minutes(120)})
			So(err, ShouldBeNil)
			res, err := svc.RunQuery(ctx, 3)

			Convey("Then it should observe the mutation", func() {
				So(err, ShouldBeNil)
				So(res.Count, ShouldEqual, 0)
			})
		})
	})
}

// storeFactories opens each persistent backend that runs without external
// services.
var storeFactories = []struct {
	name string
	open func(ctx context.Context, t *testing.T) (repository.Store, error)
}{
	{"memory", func(ctx context.Context, _ *testing.T) (repository.Store, error) {
		return repository.NewMemoryStore(ctx, repository.WithMetricsUpdateInterval(time.Hour)), nil
	}},
	{"sqlite", func(ctx context.Context, t *testing.T) (repository.Store, error) {
		path := filepath.Join(t.TempDir(), "svc.db")
		return repository.OpenSQLite(ctx, path, repository.WithMetricsUpdateInterval(time.Hour))
	}},
}

func indexOfBib(runners []model.Runner, bib string) int {
	for i, r := range runners {
		if r.BibNumber == bib {
			return i
		}
	}
	return -1
}

func TestService_Mutations(t *testing.T) {
	for _, sf := range storeFactories {
		Convey("Given a seeded service over the "+sf.name+" store", t, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			store, err := sf.open(ctx, t)
			So(err, ShouldBeNil)
			defer store.Close()

			svc := service.New(service.WithStore(store), service.WithReportWorkers(4))
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()

			Convey("When inserting a runner", func() {
				r := model.Runner{BibNumber: "NU25MCA99", Name: "New Runner", Category: model.Category5K, Finished: true, CompletionTime: model.Minutes(25)}
				So(svc.InsertRunner(ctx, r), ShouldBeNil)

				Convey("Then it should appear at the end of all runners", func() {
					all, err := svc.AllRunners(ctx)
					So(err, ShouldBeNil)
					So(len(all), ShouldEqual, 13)
					So(all[12].BibNumber, ShouldEqual, "NU25MCA99")
				})

				Convey("And it should become the fastest 5K runner", func() {
					res, _ := svc.RunQuery(ctx, 2)
					rows := res.Rows.([]catalog.FastestRunner)
					So(rows[0].BibNumber, ShouldEqual, "NU25MCA99")
				})
			})

			Convey("When updating an unknown bib", func() {
				city := "Goa"
				matched, err := svc.UpdateRunner(ctx, "NOPE", model.RunnerPatch{City: &city})

				Convey("Then it should succeed without a match", func() {
					So(err, ShouldBeNil)
					So(matched, ShouldBeFalse)
				})
			})

			Convey("When deleting a runner", func() {
				matched, err := svc.DeleteRunner(ctx, "NU25MCA11")
				So(err, ShouldBeNil)
				So(matched, ShouldBeTrue)

				Convey("Then the full marathon finishers should shrink", func() {
					res, _ := svc.RunQuery(ctx, 1)
					So(res.Count, ShouldEqual, 2)
				})

				Convey("And deleting again should be a silent no-op", func() {
					matched, err := svc.DeleteRunner(ctx, "NU25MCA11")
					So(err, ShouldBeNil)
					So(matched, ShouldBeFalse)
				})
			})

			Convey("When every query runs twice without a mutation in between", func() {
				Convey("Then both runs should give identical results", func() {
					for n := 1; n <= catalog.Size(); n++ {
						first, err := svc.RunQuery(ctx, n)
						So(err, ShouldBeNil)
						second, err := svc.RunQuery(ctx, n)
						So(err, ShouldBeNil)
						So(second, ShouldResemble, first)
					}

					first, err := svc.Report(ctx)
					So(err, ShouldBeNil)
					second, err := svc.Report(ctx)
					So(err, ShouldBeNil)
					So(second, ShouldResemble, first)
				})
			})

			Convey("When a fresh runner is inserted and then deleted", func() {
				before, err := svc.AllRunners(ctx)
				So(err, ShouldBeNil)
				countBefore, err := store.Count(ctx, model.CollectionRunners)
				So(err, ShouldBeNil)

				r := model.Runner{BibNumber: "NU25MCA77", Name: "Round Trip", Category: model.Category10K, City: "Pune", Finished: true, CompletionTime: model.Minutes(40)}
				So(svc.InsertRunner(ctx, r), ShouldBeNil)
				mid, _ := store.Count(ctx, model.CollectionRunners)
				So(mid, ShouldEqual, countBefore+1)

				matched, err := svc.DeleteRunner(ctx, r.BibNumber)
				So(err, ShouldBeNil)
				So(matched, ShouldBeTrue)

				Convey("Then the runner collection should be back where it started", func() {
					countAfter, err := store.Count(ctx, model.CollectionRunners)
					So(err, ShouldBeNil)
					So(countAfter, ShouldEqual, countBefore)

					after, err := svc.AllRunners(ctx)
					So(err, ShouldBeNil)
					So(after, ShouldResemble, before)
				})
			})

			Convey("When only the completion time of a runner is updated", func() {
				before, err := svc.AllRunners(ctx)
				So(err, ShouldBeNil)
				i := indexOfBib(before, "NU25MCA13")
				So(i, ShouldBeGreaterThanOrEqualTo, 0)

				matched, err := svc.UpdateRunner(ctx, "NU25MCA13", model.RunnerPatch{CompletionTime: model.Minutes(50)})
				So(err, ShouldBeNil)
				So(matched, ShouldBeTrue)

				Convey("Then all runners should show the new time and nothing else changed", func() {
					after, err := svc.AllRunners(ctx)
					So(err, ShouldBeNil)

					want := slices.Clone(before)
					want[i].CompletionTime = model.Minutes(50)
					So(after, ShouldResemble, want)
					So(*after[i].CompletionTime, ShouldEqual, 50)
				})
			})
		})
	}
}

func TestService_StoreFailures(t *testing.T) {
	Convey("Given a service over a failing store", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithStore(brokenStore{}), service.WithSeedOnStart(false))

		Convey("Then queries should surface the store error", func() {
			_, err := svc.RunQuery(ctx, 1)
			So(errors.Is(err, errBroken), ShouldBeTrue)
		})

		Convey("And inserts should surface the store error", func() {
			err := svc.InsertRunner(ctx, model.Runner{BibNumber: "X"})
			So(errors.Is(err, errBroken), ShouldBeTrue)
		})

		Convey("And seeding should surface the store error", func() {
			_, err := svc.Seed(ctx)
			So(errors.Is(err, errBroken), ShouldBeTrue)
		})

		Convey("And reports should fail as a whole", func() {
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()
			_, err := svc.Report(ctx)
			So(errors.Is(err, errBroken), ShouldBeTrue)
		})
	})
}
