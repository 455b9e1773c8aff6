package aggregator

import "github.com/bigsources/jobdesk/model/task"

// DefaultPageSize is used when a caller passes a non-positive size.
const DefaultPageSize = 10

// Page is one slice of an in-memory group list. Every list endpoint
// returns the full result set, so paging never goes back to the backend.
type Page struct {
	Groups []*task.JobGroup `json:"groups"`
	Number int              `json:"page"`
	Size   int              `json:"size"`
	Pages  int              `json:"pages"`
	Total  int              `json:"total"`
}

// Paginate returns the requested 1-based page. Out-of-range page numbers
// are clamped to the first or last page.
func Paginate(groups []*task.JobGroup, number, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := len(groups)
	pages := (total + size - 1) / size
	if pages == 0 {
		return Page{Groups: []*task.JobGroup{}, Number: 1, Size: size, Pages: 0, Total: 0}
	}
	if number < 1 {
		number = 1
	}
	if number > pages {
		number = pages
	}
	start := (number - 1) * size
	end := start + size
	if end > total {
		end = total
	}
	return Page{Groups: groups[start:end], Number: number, Size: size, Pages: pages, Total: total}
}

// HasNext returns true when a later page exists.
func (p Page) HasNext() bool { return p.Number < p.Pages }

// HasPrev returns true when an earlier page exists.
func (p Page) HasPrev() bool { return p.Number > 1 }

// Summary counts groups and tasks for list headers.
type Summary struct {
	Groups    int `json:"groups"`
	Tasks     int `json:"tasks"`
	Pending   int `json:"pending"`
	Fulfilled int `json:"fulfilled"`
	Premium   int `json:"premium"`
	Orphans   int `json:"orphans"`
}

// Summarize computes a Summary over groups.
func Summarize(groups []*task.JobGroup) Summary {
	result := Summary{Groups: len(groups)}
	for _, group := range groups {
		if group.IsPremium {
			result.Premium++
		}
		if group.Orphan() {
			result.Orphans++
		}
		for _, t := range group.Tasks {
			result.Tasks++
			switch t.Status {
			case task.StatusPending:
				result.Pending++
			case task.StatusFulfilled:
				result.Fulfilled++
			}
		}
	}
	return result
}
