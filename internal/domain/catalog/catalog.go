// Package catalog holds the fixed set of numbered reporting queries.
//
// Every query is a pure function of a Dataset snapshot built from the
// pipeline stages. The catalog maps a selector 1..12 to its query and
// reports which collections the query reads so callers load only those.
package catalog

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/okian/marathon/internal/domain/model"
)

// Dataset is the snapshot of collections a query runs against. Collections
// the query does not read may be left empty.
type Dataset struct {
	Runners  []model.Runner
	Sponsors []model.Sponsor
	Stalls   []model.Stall
}

// Result is the outcome of one query. Rows is always a non-nil slice.
type Result struct {
	Query int    `json:"query"`
	Title string `json:"title"`
	Rows  any    `json:"results"`
	Count int    `json:"count"`
}

// Query is one catalog entry.
type Query struct {
	Number      int      `json:"number"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Reads       []string `json:"reads"`

	run func(Dataset) (any, int)
}

// Run evaluates the query against d.
func (q Query) Run(d Dataset) Result {
	rows, n := q.run(d)
	return Result{Query: q.Number, Title: q.Title, Rows: rows, Count: n}
}

func rows[T any](out []T) (any, int) { return out, len(out) }

var runnersOnly = []string{model.CollectionRunners}

var queries = []Query{
	{
		Number: 1, Title: "Q1: Full Marathon Completers",
		Description: "List all runners who completed the Full Marathon",
		Reads:       runnersOnly,
		run:         func(d Dataset) (any, int) { return rows(FullMarathonFinishers(d.Runners)) },
	},
	{
		Number: 2, Title: "Q2: Fastest Runner in Each Category",
		Description: "Find the fastest runner in each category",
		Reads:       runnersOnly,
		run:         func(d Dataset) (any, int) { return rows(FastestPerCategory(d.Runners)) },
	},
	{
		Number: 3, Title: "Q3: Runners Who Did Not Finish",
		Description: "Get the list of runners who did not finish",
		Reads:       runnersOnly,
		run:         func(d Dataset) (any, int) { return rows(Unfinished(d.Runners)) },
	},
	{
		Number: 4, Title: "Q4: Average Completion Time Per Category",
		Description: "Calculate the average completion time per category",
		Reads:       runnersOnly,
		run:         func(d Dataset) (any, int) { return rows(AverageTimePerCategory(d.Runners)) },
	},
	{
		Number: 5, Title: "Q5: Runners With Both Medals and Certificates",
		Description: "Identify runners who received both medals and certificates",
		Reads:       runnersOnly,
		run:         func(d Dataset) (any, int) { return rows(MedalAndCertificate(d.Runners)) },
	},
	{
		Number: 6, Title: "Q6: Sponsors Supporting Multiple Categories",
		Description: "List all sponsors supporting multiple categories",
		Reads:       []string{model.CollectionSponsors},
		run:         func(d Dataset) (any, int) { return rows(MultiCategorySponsors(d.Sponsors)) },
	},
	{
		Number: 7, Title: "Q7: Runners in Multiple Categories",
		Description: "Retrieve runners who participated in multiple categories",
		Reads:       runnersOnly,
		run:         func(d Dataset) (any, int) { return rows(MultiCategoryRunners(d.Runners)) },
	},
	{
		Number: 8, Title: "Q8: Top 3 Half Marathon Finishers",
		Description: "Find the top 3 finishers in the Half Marathon",
		Reads:       runnersOnly,
		run:         func(d Dataset) (any, int) { return rows(TopHalfMarathon(d.Runners)) },
	},
	{
		Number: 9, Title: "Q9: Popular Refreshment Stalls (50+ Visitors)",
		Description: "List refreshment stalls visited by more than 50 runners",
		Reads:       []string{model.CollectionRefreshments},
		run:         func(d Dataset) (any, int) { return rows(PopularStalls(d.Stalls)) },
	},
	{
		Number: 10, Title: "Q10: Categories with More Than 200 Runners",
		Description: "Identify categories with more than 200 runners",
		Reads:       runnersOnly,
		run:         func(d Dataset) (any, int) { return rows(LargeCategories(d.Runners)) },
	},
	{
		Number: 11, Title: "Q11: Runners Better Than Category Average",
		Description: "Get runners who finished faster than their category average",
		Reads:       runnersOnly,
		run:         func(d Dataset) (any, int) { return rows(FasterThanCategoryAverage(d.Runners)) },
	},
	{
		Number: 12, Title: "Q12: Cities With Most Marathon Participants",
		Description: "Retrieve cities with the most marathon participants",
		Reads:       runnersOnly,
		run:         func(d Dataset) (any, int) { return rows(CitiesByParticipants(d.Runners)) },
	},
}

// Size is the number of queries in the catalog.
func Size() int { return len(queries) }

// All returns the catalog in selector order.
func All() []Query {
	out := make([]Query, len(queries))
	copy(out, queries)
	return out
}

// Lookup returns query n. Selectors outside 1..Size() fail with ErrUnknownQuery.
func Lookup(n int) (Query, error) {
	if n < 1 || n > len(queries) {
		return Query{}, fmt.Errorf("%w: %d", ErrUnknownQuery, n)
	}
	return queries[n-1], nil
}

// selectorForm is the only accepted spelling: no sign, padding or leading zeros.
var selectorForm = regexp.MustCompile(`^[1-9][0-9]?$`)

// Parse resolves a textual selector such as "7". Anything but the plain
// decimal form of a number in range fails with ErrUnknownQuery, so "07",
// "+7" and " 7" are rejected.
func Parse(selector string) (Query, error) {
	if !selectorForm.MatchString(selector) {
		return Query{}, fmt.Errorf("%w: %q", ErrUnknownQuery, selector)
	}
	n, err := strconv.Atoi(selector)
	if err != nil {
		return Query{}, fmt.Errorf("%w: %q", ErrUnknownQuery, selector)
	}
	return Lookup(n)
}

// Run evaluates query n against d.
func Run(n int, d Dataset) (Result, error) {
	q, err := Lookup(n)
	if err != nil {
		return Result{}, err
	}
	return q.Run(d), nil
}
