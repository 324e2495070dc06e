package catalog

// FastestRunner is one row of query 2.
type FastestRunner struct {
	Category       string `json:"category"`
	Name           string `json:"fastest_runner"`
	BibNumber      string `json:"bib_number"`
	CompletionTime *int   `json:"completion_time"`
}

// CategoryAverage is one row of query 4. AverageTimeMinutes is nil when no
// finisher in the category has a recorded time.
type CategoryAverage struct {
	Category           string   `json:"category"`
	AverageTimeMinutes *float64 `json:"average_time_minutes"`
	TotalFinishers     int      `json:"total_finishers"`
}

// MultiCategoryRunner is one row of query 7.
type MultiCategoryRunner struct {
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
	BibNumbers []string `json:"bib_numbers"`
	Count      int      `json:"count"`
}

// CategoryCount is one row of query 10.
type CategoryCount struct {
	Category          string `json:"category"`
	TotalParticipants int    `json:"total_participants"`
}

// AboveAverageRunner is one row of query 11.
type AboveAverageRunner struct {
	Category        string  `json:"category"`
	Name            string  `json:"name"`
	BibNumber       string  `json:"bib_number"`
	CompletionTime  int     `json:"completion_time"`
	CategoryAverage float64 `json:"category_average"`
}

// CityCount is one row of query 12.
type CityCount struct {
	City              string `json:"city"`
	TotalParticipants int    `json:"total_participants"`
}
