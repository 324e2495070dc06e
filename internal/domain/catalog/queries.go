package catalog

import (
	"cmp"

	"github.com/okian/marathon/internal/domain/model"
	"github.com/okian/marathon/internal/domain/pipeline"
)

// Thresholds used by the canned queries.
const (
	TopHalfMarathonLimit    = 3
	PopularStallMinVisitors = 50
	LargeCategoryMinEntries = 200
)

func finished(r model.Runner) bool { return r.Finished }

func byCategory(r model.Runner) string { return r.Category }

func minutes(r model.Runner) (float64, bool) {
	m, ok := r.Minutes()
	return float64(m), ok
}

// byCompletionTime orders runners by ascending completion time. Runners
// without a recorded time sort first, matching document-store ordering of
// missing values before numbers.
func byCompletionTime(a, b model.Runner) int {
	at, aok := a.Minutes()
	bt, bok := b.Minutes()
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return -1
	case !bok:
		return 1
	}
	return cmp.Compare(at, bt)
}

// FullMarathonFinishers is query 1.
func FullMarathonFinishers(runners []model.Runner) []model.Runner {
	return pipeline.Filter(runners, func(r model.Runner) bool {
		return r.Category == model.CategoryFullMarathon && r.Finished
	})
}

// FastestPerCategory is query 2: the first finisher per category after a
// stable ascending sort on completion time. Ties go to collection order.
func FastestPerCategory(runners []model.Runner) []FastestRunner {
	sorted := pipeline.SortStable(pipeline.Filter(runners, finished), byCompletionTime)
	groups := pipeline.GroupBy(sorted, byCategory)
	return pipeline.Map(groups, func(g pipeline.Group[string, model.Runner]) FastestRunner {
		first := g.Items[0]
		return FastestRunner{
			Category:       g.Key,
			Name:           first.Name,
			BibNumber:      first.BibNumber,
			CompletionTime: first.CompletionTime,
		}
	})
}

// Unfinished is query 3.
func Unfinished(runners []model.Runner) []model.Runner {
	return pipeline.Filter(runners, func(r model.Runner) bool { return !r.Finished })
}

// AverageTimePerCategory is query 4. Categories without finishers are absent.
func AverageTimePerCategory(runners []model.Runner) []CategoryAverage {
	groups := pipeline.GroupBy(pipeline.Filter(runners, finished), byCategory)
	return pipeline.Map(groups, func(g pipeline.Group[string, model.Runner]) CategoryAverage {
		row := CategoryAverage{Category: g.Key, TotalFinishers: len(g.Items)}
		if mean, ok := pipeline.Mean(g.Items, minutes); ok {
			row.AverageTimeMinutes = &mean
		}
		return row
	})
}

// MedalAndCertificate is query 5.
func MedalAndCertificate(runners []model.Runner) []model.Runner {
	return pipeline.Filter(runners, func(r model.Runner) bool { return r.Medal && r.Certificate })
}

// MultiCategorySponsors is query 6.
func MultiCategorySponsors(sponsors []model.Sponsor) []model.Sponsor {
	return pipeline.Filter(sponsors, func(s model.Sponsor) bool { return len(s.Categories) > 1 })
}

// MultiCategoryRunners is query 7. Records are grouped by name, so two
// different people sharing a name are reported as one.
func MultiCategoryRunners(runners []model.Runner) []MultiCategoryRunner {
	groups := pipeline.GroupBy(runners, func(r model.Runner) string { return r.Name })
	groups = pipeline.Filter(groups, func(g pipeline.Group[string, model.Runner]) bool { return len(g.Items) > 1 })
	return pipeline.Map(groups, func(g pipeline.Group[string, model.Runner]) MultiCategoryRunner {
		return MultiCategoryRunner{
			Name:       g.Key,
			Categories: pipeline.Distinct(g.Items, byCategory),
			BibNumbers: pipeline.Distinct(g.Items, func(r model.Runner) string { return r.BibNumber }),
			Count:      len(g.Items),
		}
	})
}

// TopHalfMarathon is query 8.
func TopHalfMarathon(runners []model.Runner) []model.Runner {
	hm := pipeline.Filter(runners, func(r model.Runner) bool {
		return r.Category == model.CategoryHalfMarathon && r.Finished
	})
	return pipeline.Limit(pipeline.SortStable(hm, byCompletionTime), TopHalfMarathonLimit)
}

// PopularStalls is query 9.
func PopularStalls(stalls []model.Stall) []model.Stall {
	return pipeline.Filter(stalls, func(s model.Stall) bool { return s.Visitors > PopularStallMinVisitors })
}

// LargeCategories is query 10. Every record counts, finished or not.
func LargeCategories(runners []model.Runner) []CategoryCount {
	counts := pipeline.Map(pipeline.GroupBy(runners, byCategory), func(g pipeline.Group[string, model.Runner]) CategoryCount {
		return CategoryCount{Category: g.Key, TotalParticipants: len(g.Items)}
	})
	return pipeline.Filter(counts, func(c CategoryCount) bool { return c.TotalParticipants > LargeCategoryMinEntries })
}

// FasterThanCategoryAverage is query 11: finishers strictly below the mean
// completion time of their category.
func FasterThanCategoryAverage(runners []model.Runner) []AboveAverageRunner {
	groups := pipeline.GroupBy(pipeline.Filter(runners, finished), byCategory)
	return pipeline.Unwind(groups, func(g pipeline.Group[string, model.Runner]) []AboveAverageRunner {
		mean, ok := pipeline.Mean(g.Items, minutes)
		if !ok {
			return nil
		}
		rows := make([]AboveAverageRunner, 0, len(g.Items))
		for _, r := range g.Items {
			t, has := r.Minutes()
			if !has || float64(t) >= mean {
				continue
			}
			rows = append(rows, AboveAverageRunner{
				Category:        g.Key,
				Name:            r.Name,
				BibNumber:       r.BibNumber,
				CompletionTime:  t,
				CategoryAverage: mean,
			})
		}
		return rows
	})
}

// CitiesByParticipants is query 12, ordered by descending count. Ties keep
// the order in which cities first appear in the collection.
func CitiesByParticipants(runners []model.Runner) []CityCount {
	counts := pipeline.Map(pipeline.GroupBy(runners, func(r model.Runner) string { return r.City }), func(g pipeline.Group[string, model.Runner]) CityCount {
		return CityCount{City: g.Key, TotalParticipants: len(g.Items)}
	})
	return pipeline.SortStable(counts, func(a, b CityCount) int {
		return cmp.Compare(b.TotalParticipants, a.TotalParticipants)
	})
}
