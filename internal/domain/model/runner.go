// Package model contains domain models passed between layers.
//
// Field tags mirror the document keys stored in every backend, so the same
// struct round-trips through JSON (HTTP, SQLite documents) and BSON (MongoDB).
package model

// Collection names shared by all store drivers.
const (
	CollectionRunners      = "runners"
	CollectionSponsors     = "sponsors"
	CollectionRefreshments = "refreshments"
)

// Race categories used by the sample data and the query catalog. Category is
// a free-form string: unrecognized values are stored as given and never match.
const (
	CategoryFullMarathon = "Full Marathon"
	CategoryHalfMarathon = "Half Marathon"
	Category10K          = "10K"
	Category5K           = "5K"
)

// Runner is one participation record: one bib in one category. The same
// person may hold several records under different categories.
type Runner struct {
	BibNumber string `json:"bib_number" bson:"bib_number"`
	Name      string `json:"name" bson:"name"`
	Category  string `json:"category" bson:"category"`
	City      string `json:"city" bson:"city"`
	StartTime string `json:"start_time" bson:"start_time"`

	// CompletionTime is in minutes and only meaningful when Finished is true.
	CompletionTime  *int  `json:"completion_time,omitempty" bson:"completion_time,omitempty"`
	Finished        bool  `json:"finished" bson:"finished"`
	Medal           bool  `json:"medal" bson:"medal"`
	Certificate     bool  `json:"certificate" bson:"certificate"`
	CheckpointTimes []int `json:"checkpoint_times,omitempty" bson:"checkpoint_times,omitempty"`
}

// Minutes returns the completion time and whether one is recorded.
func (r Runner) Minutes() (int, bool) {
	if r.CompletionTime == nil {
		return 0, false
	}
	return *r.CompletionTime, true
}

// Clone returns a deep copy so callers cannot alias store state.
func (r Runner) Clone() Runner {
	out := r
	if r.CompletionTime != nil {
		v := *r.CompletionTime
		out.CompletionTime = &v
	}
	if r.CheckpointTimes != nil {
		out.CheckpointTimes = append([]int(nil), r.CheckpointTimes...)
	}
	return out
}

// Minutes is a helper for building runners with a completion time.
func Minutes(n int) *int { return &n }

// Sponsor backs one or more race categories.
type Sponsor struct {
	Name       string   `json:"name" bson:"name"`
	Categories []string `json:"categories" bson:"categories"`
	Amount     float64  `json:"amount" bson:"amount"`
}

// Stall is a refreshment stall along the course.
type Stall struct {
	StallName string `json:"stall_name" bson:"stall_name"`
	Location  string `json:"location" bson:"location"`
	Visitors  int    `json:"visitors" bson:"visitors"`
}
