// Package seed holds the sample race used to populate an empty store.
package seed

import "github.com/okian/marathon/internal/domain/model"

func runner(bib, name, category, city, start string, minutes int, finished, medal, cert bool, checkpoints ...int) model.Runner {
	return model.Runner{
		BibNumber:       bib,
		Name:            name,
		Category:        category,
		City:            city,
		StartTime:       start,
		CompletionTime:  model.Minutes(minutes),
		Finished:        finished,
		Medal:           medal,
		Certificate:     cert,
		CheckpointTimes: checkpoints,
	}
}

// Runners returns a fresh copy of the sample runners.
func Runners() []model.Runner {
	return []model.Runner{
		runner("NU25MCA11", "Amit Kumar", model.CategoryFullMarathon, "Mumbai", "06:00", 235, true, true, true, 60, 120, 180, 235),
		runner("NU25MCA12", "Priya Singh", model.CategoryHalfMarathon, "Delhi", "07:00", 110, true, true, true, 30, 60, 90, 110),
		runner("NU25MCA13", "Rahul Sharma", model.Category10K, "Bangalore", "08:00", 45, true, true, false, 15, 30, 45),
		runner("NU25MCA14", "Sneha Patel", model.Category5K, "Pune", "08:30", 28, true, true, false, 10, 20, 28),
		runner("NU25MCA15", "Vikram Reddy", model.CategoryFullMarathon, "Hyderabad", "06:00", 250, true, true, true, 65, 130, 195, 250),
		runner("NU25MCA16", "Anjali Gupta", model.CategoryHalfMarathon, "Mumbai", "07:00", 0, false, false, false, 35, 70),
		runner("NU25MCA17", "Suresh Nair", model.Category10K, "Chennai", "08:00", 42, true, true, false, 14, 28, 42),
		runner("NU25MCA18", "Deepa Joshi", model.CategoryFullMarathon, "Delhi", "06:00", 240, true, true, true, 62, 125, 188, 240),
		runner("NU25MCA19", "Karthik Iyer", model.CategoryHalfMarathon, "Bangalore", "07:00", 105, true, true, true, 28, 58, 88, 105),
		runner("NU25MCA20", "Meera Das", model.Category5K, "Kolkata", "08:30", 30, true, true, false, 11, 21, 30),
		// Same people entered in a second category.
		runner("NU25MCA26", "Amit Kumar", model.CategoryHalfMarathon, "Mumbai", "07:00", 108, true, true, true, 29, 59, 89, 108),
		runner("NU25MCA27", "Priya Singh", model.Category10K, "Delhi", "08:00", 44, true, true, false, 15, 30, 44),
	}
}

// Sponsors returns a fresh copy of the sample sponsors.
func Sponsors() []model.Sponsor {
	return []model.Sponsor{
		{Name: "Nike", Categories: []string{model.CategoryFullMarathon, model.CategoryHalfMarathon}, Amount: 500000},
		{Name: "Adidas", Categories: []string{model.Category10K, model.Category5K}, Amount: 300000},
		{Name: "Puma", Categories: []string{model.CategoryFullMarathon, model.CategoryHalfMarathon, model.Category10K}, Amount: 450000},
		{Name: "Reebok", Categories: []string{model.Category5K}, Amount: 150000},
	}
}

// Stalls returns a fresh copy of the sample refreshment stalls.
func Stalls() []model.Stall {
	return []model.Stall{
		{StallName: "Water Station A", Location: "Km 5", Visitors: 75},
		{StallName: "Energy Drink Hub", Location: "Km 10", Visitors: 120},
		{StallName: "Fruit Corner", Location: "Km 15", Visitors: 45},
		{StallName: "Electrolyte Zone", Location: "Km 20", Visitors: 90},
		{StallName: "Final Refresh", Location: "Finish Line", Visitors: 180},
	}
}
