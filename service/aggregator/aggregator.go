package aggregator

import (
	"sort"
	"strings"

	"github.com/bigsources/jobdesk/model/task"
)

// StatusAll disables the status filter.
const StatusAll task.Status = "all"

// Criteria narrows a list of job groups.
type Criteria struct {
	Search string      `json:"search,omitempty" yaml:"search,omitempty"`
	Status task.Status `json:"status,omitempty" yaml:"status,omitempty"`
}

// Group builds one JobGroup per distinct group key. The first task seen
// for a key seeds the group's display fields; every task, including the
// seed, is appended in input order. Groups are ordered by posted date,
// most recent first; missing dates sort as the epoch and ties keep input
// order.
func Group(tasks []*task.Task) []*task.JobGroup {
	groups := make([]*task.JobGroup, 0)
	index := make(map[string]*task.JobGroup)
	for _, t := range tasks {
		if t == nil {
			continue
		}
		key := t.GroupKey()
		group, ok := index[key]
		if !ok {
			group = task.NewJobGroup(t)
			index[key] = group
			groups = append(groups, group)
		}
		group.Append(t)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].PostedDate.Unix() > groups[j].PostedDate.Unix()
	})
	return groups
}

// Filter applies the search term and then the status filter. The result
// is a new slice; groups themselves are shared.
func Filter(groups []*task.JobGroup, criteria Criteria) []*task.JobGroup {
	search := strings.ToLower(strings.TrimSpace(criteria.Search))
	status := task.NormalizeStatus(string(criteria.Status))
	result := make([]*task.JobGroup, 0, len(groups))
	for _, group := range groups {
		if search != "" && !matches(group, search) {
			continue
		}
		if status != "" && status != StatusAll && !group.HasStatus(status) {
			continue
		}
		result = append(result, group)
	}
	return result
}

// Aggregate groups tasks and filters the groups.
func Aggregate(tasks []*task.Task, criteria Criteria) []*task.JobGroup {
	return Filter(Group(tasks), criteria)
}

func matches(group *task.JobGroup, term string) bool {
	for _, candidate := range []string{group.Title, group.CompanyName, string(group.JobID)} {
		if strings.Contains(strings.ToLower(candidate), term) {
			return true
		}
	}
	return false
}
