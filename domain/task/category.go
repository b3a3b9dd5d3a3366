package task

import "time"

// Category is a derived count aggregate over tasks. It is a read-side
// projection computed in memory and never persisted.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
	Total int    `json:"total,omitempty"`
}

// Categorize classifies tasks into the three board categories:
// expired (deadline passed and not done), active (not done) and
// completed (done, carrying the overall total).
func Categorize(tasks []Task, now time.Time) []Category {
	var expired, active, completed int
	for i := range tasks {
		t := &tasks[i]
		if t.Expired(now) {
			expired++
		}
		if t.Status != StatusDone {
			active++
		} else {
			completed++
		}
	}

	return []Category{
		{ID: "expired", Name: "Expired Tasks", Count: expired},
		{ID: "active", Name: "All Active Tasks", Count: active},
		{ID: "completed", Name: "Completed Tasks", Count: completed, Total: len(tasks)},
	}
}
