package task

import (
	"encoding/json"
	"strings"
)

// Category identifies the kind of admin action a task asks for.
type Category string

const (
	CategoryNewJob            Category = "postnewjob"
	CategoryEditJob           Category = "editjob"
	CategoryClosedJob         Category = "closedjob"
	CategoryNewApplication    Category = "newapplication"
	CategoryApplicationStatus Category = "change status of application"
)

var categories = []Category{
	CategoryNewJob,
	CategoryEditJob,
	CategoryClosedJob,
	CategoryNewApplication,
	CategoryApplicationStatus,
}

// Categories returns every known category in display order.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// ParseCategory normalises case and surrounding whitespace. The second
// return value is false for categories outside the known set.
func ParseCategory(value string) (Category, bool) {
	candidate := Category(strings.ToLower(strings.TrimSpace(value)))
	return candidate, candidate.Known()
}

// Known returns true when c is one of the enumerated categories.
func (c Category) Known() bool {
	for _, candidate := range categories {
		if c == candidate {
			return true
		}
	}
	return false
}

// IsJob returns true for categories handled by the job-edit sub-flow.
func (c Category) IsJob() bool {
	switch c {
	case CategoryNewJob, CategoryEditJob, CategoryClosedJob:
		return true
	}
	return false
}

// IsApplication returns true for categories handled by the read-only
// application view.
func (c Category) IsApplication() bool {
	switch c {
	case CategoryNewApplication, CategoryApplicationStatus:
		return true
	}
	return false
}

func (c Category) String() string { return string(c) }

// UnmarshalJSON normalises the feed value; unknown categories are kept.
func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*c, _ = ParseCategory(s)
	return nil
}
