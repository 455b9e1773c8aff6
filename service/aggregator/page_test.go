package aggregator_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bigsources/jobdesk/model/task"
	"github.com/bigsources/jobdesk/service/aggregator"
)

func TestPaginate(t *testing.T) {
	groups := make([]*task.JobGroup, 0, 25)
	for i := 0; i < 25; i++ {
		groups = append(groups, &task.JobGroup{Key: fmt.Sprintf("J%d", i)})
	}

	type testCase struct {
		name          string
		groups        []*task.JobGroup
		number        int
		size          int
		expectedFirst string
		expectedLen   int
		expectedPage  int
		expectedPages int
	}

	tests := []testCase{
		{name: "first page", groups: groups, number: 1, size: 10, expectedFirst: "J0", expectedLen: 10, expectedPage: 1, expectedPages: 3},
		{name: "last partial page", groups: groups, number: 3, size: 10, expectedFirst: "J20", expectedLen: 5, expectedPage: 3, expectedPages: 3},
		{name: "clamped above", groups: groups, number: 9, size: 10, expectedFirst: "J20", expectedLen: 5, expectedPage: 3, expectedPages: 3},
		{name: "clamped below", groups: groups, number: 0, size: 10, expectedFirst: "J0", expectedLen: 10, expectedPage: 1, expectedPages: 3},
		{name: "default size", groups: groups, number: 2, size: 0, expectedFirst: "J10", expectedLen: 10, expectedPage: 2, expectedPages: 3},
		{name: "empty", groups: nil, number: 1, size: 10, expectedLen: 0, expectedPage: 1, expectedPages: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			page := aggregator.Paginate(tc.groups, tc.number, tc.size)
			assert.Len(t, page.Groups, tc.expectedLen)
			assert.Equal(t, tc.expectedPage, page.Number)
			assert.Equal(t, tc.expectedPages, page.Pages)
			assert.Equal(t, len(tc.groups), page.Total)
			if tc.expectedLen > 0 {
				assert.Equal(t, tc.expectedFirst, page.Groups[0].Key)
			}
		})
	}
}

func TestPage_Navigation(t *testing.T) {
	groups := make([]*task.JobGroup, 15)
	for i := range groups {
		groups[i] = &task.JobGroup{Key: fmt.Sprintf("J%d", i)}
	}
	first := aggregator.Paginate(groups, 1, 10)
	assert.True(t, first.HasNext())
	assert.False(t, first.HasPrev())

	last := aggregator.Paginate(groups, 2, 10)
	assert.False(t, last.HasNext())
	assert.True(t, last.HasPrev())
}

func TestSummarize(t *testing.T) {
	groups := aggregator.Group([]*task.Task{
		{ID: "1", JobID: "J1", Status: task.StatusPending, IsPremium: true},
		{ID: "2", JobID: "J1", Status: task.StatusFulfilled},
		{ID: "3", JobID: "J2", Status: task.StatusPending},
		{ID: "4", Status: "archived"},
	})

	assert.Equal(t, aggregator.Summary{Groups: 3, Tasks: 4, Pending: 2, Fulfilled: 1, Premium: 1, Orphans: 1}, aggregator.Summarize(groups))
}
