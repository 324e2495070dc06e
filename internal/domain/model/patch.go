package model

// RunnerPatch is a field-level update for a runner. Nil fields are left
// untouched; the bib number is the selector and cannot be patched.
type RunnerPatch struct {
	Name            *string `json:"name,omitempty"`
	Category        *string `json:"category,omitempty"`
	City            *string `json:"city,omitempty"`
	StartTime       *string `json:"start_time,omitempty"`
	CompletionTime  *int    `json:"completion_time,omitempty"`
	Finished        *bool   `json:"finished,omitempty"`
	Medal           *bool   `json:"medal,omitempty"`
	Certificate     *bool   `json:"certificate,omitempty"`
	CheckpointTimes *[]int  `json:"checkpoint_times,omitempty"`
}

// IsEmpty reports whether the patch sets no field.
func (p RunnerPatch) IsEmpty() bool {
	return len(p.Fields()) == 0
}

// Apply merges the set fields into r.
func (p RunnerPatch) Apply(r *Runner) {
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Category != nil {
		r.Category = *p.Category
	}
	if p.City != nil {
		r.City = *p.City
	}
	if p.StartTime != nil {
		r.StartTime = *p.StartTime
	}
	if p.CompletionTime != nil {
		r.CompletionTime = Minutes(*p.CompletionTime)
	}
	if p.Finished != nil {
		r.Finished = *p.Finished
	}
	if p.Medal != nil {
		r.Medal = *p.Medal
	}
	if p.Certificate != nil {
		r.Certificate = *p.Certificate
	}
	if p.CheckpointTimes != nil {
		r.CheckpointTimes = append([]int(nil), (*p.CheckpointTimes)...)
	}
}

// Fields returns the set fields keyed by document field name, in the shape
// a document store expects for a `$set` update.
func (p RunnerPatch) Fields() map[string]any {
	out := make(map[string]any)
	if p.Name != nil {
		out["name"] = *p.Name
	}
	if p.Category != nil {
		out["category"] = *p.Category
	}
	if p.City != nil {
		out["city"] = *p.City
	}
	if p.StartTime != nil {
		out["start_time"] = *p.StartTime
	}
	if p.CompletionTime != nil {
		out["completion_time"] = *p.CompletionTime
	}
	if p.Finished != nil {
		out["finished"] = *p.Finished
	}
	if p.Medal != nil {
		out["medal"] = *p.Medal
	}
	if p.Certificate != nil {
		out["certificate"] = *p.Certificate
	}
	if p.CheckpointTimes != nil {
		out["checkpoint_times"] = append([]int(nil), (*p.CheckpointTimes)...)
	}
	return out
}
