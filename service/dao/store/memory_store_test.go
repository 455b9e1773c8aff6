package store_test

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigsources/jobdesk/service/dao"
	"github.com/bigsources/jobdesk/service/dao/store"
)

type record struct {
	ID   string
	Name string
}

func recordKey(r *record) string { return r.ID }

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore[string, record](recordKey)

	require.NoError(t, s.Save(ctx, &record{ID: "r1", Name: "first"}))
	require.NoError(t, s.Save(ctx, &record{ID: "r2", Name: "second"}))
	require.NoError(t, s.Save(ctx, &record{ID: "r1", Name: "updated"}))

	loaded, err := s.Load(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "updated", loaded.Name)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []*record{{ID: "r1", Name: "updated"}, {ID: "r2", Name: "second"}}, list)

	require.NoError(t, s.Delete(ctx, "r1"))
	_, err = s.Load(ctx, "r1")
	assert.True(t, errors.Is(err, dao.ErrNotFound))
	assert.Equal(t, 1, s.Len())

	assert.True(t, errors.Is(s.Save(ctx, nil), dao.ErrNilEntity))
	assert.True(t, errors.Is(s.Save(ctx, &record{}), dao.ErrInvalidID))
}

func TestBoundedMemoryStore(t *testing.T) {
	type testCase struct {
		name         string
		capacity     int
		saves        []string
		expectedKeys []string
	}

	tests := []testCase{
		{name: "unbounded", capacity: 0, saves: []string{"a", "b", "c"}, expectedKeys: []string{"a", "b", "c"}},
		{name: "evicts oldest", capacity: 2, saves: []string{"a", "b", "c"}, expectedKeys: []string{"b", "c"}},
		{name: "overwrite does not evict", capacity: 2, saves: []string{"a", "b", "a"}, expectedKeys: []string{"a", "b"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			s := store.NewBoundedMemoryStore[string, record](tc.capacity, recordKey)
			for _, key := range tc.saves {
				require.NoError(t, s.Save(ctx, &record{ID: key}))
			}
			list, err := s.List(ctx)
			require.NoError(t, err)
			actual := make([]string, 0, len(list))
			for _, r := range list {
				actual = append(actual, r.ID)
			}
			assert.Equal(t, tc.expectedKeys, actual)
		})
	}
}
