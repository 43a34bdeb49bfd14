package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewSnapshot_Validates(t *testing.T) {
	_, err := NewSnapshot(0, `{}`, time.Now())
	require.ErrorIs(t, err, ErrInvalidProjectID)

	_, err = NewSnapshot(1, "", time.Now())
	require.ErrorIs(t, err, ErrEmptyShapesData)

	s, err := NewSnapshot(7, `not even json`, time.Now())
	require.NoError(t, err)
	require.True(t, s.BelongsTo(7))
	require.False(t, s.BelongsTo(8))
}

func TestSortNewestFirst(t *testing.T) {
	at := time.Now()
	snapshots := []*Snapshot{
		{ID: 1, CreatedAt: at},
		{ID: 2, CreatedAt: at},
		{ID: 3, CreatedAt: at.Add(time.Second)},
	}
	SortNewestFirst(snapshots)
	require.Equal(t, []int64{3, 2, 1}, []int64{snapshots[0].ID, snapshots[1].ID, snapshots[2].ID})
}
