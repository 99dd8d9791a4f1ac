package idgen

import (
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGenerator(t *testing.T) {
	tests := []struct {
		name      string
		machineID int64
		wantErr   bool
	}{
		{name: "min", machineID: 0},
		{name: "mid", machineID: 512},
		{name: "max", machineID: 1023},
		{name: "negative", machineID: -1, wantErr: true},
		{name: "too large", machineID: 1024, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen, err := NewGenerator(tt.machineID)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidMachineID)
				assert.Nil(t, gen)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.machineID, gen.MachineID())
		})
	}
}

func TestGenerator_NextID_Layout(t *testing.T) {
	gen, err := NewGenerator(5, WithClock(func() int64 { return Epoch + 100 }))
	require.NoError(t, err)

	first, err := gen.NextID()
	require.NoError(t, err)
	assert.Equal(t, int64(100<<22|5<<12), first)

	second, err := gen.NextID()
	require.NoError(t, err)
	assert.Equal(t, first+1, second)

	info := Parse(second)
	assert.Equal(t, int64(5), info.MachineID)
	assert.Equal(t, int64(1), info.Sequence)
	assert.Equal(t, time.UnixMilli(Epoch+100).UTC(), info.Time)
}

func TestGenerator_NextID_SequentialSortedWithoutDuplicates(t *testing.T) {
	gen, err := NewGenerator(5)
	require.NoError(t, err)

	const count = 10000
	ids := make([]int64, 0, count)
	seen := make(map[int64]struct{}, count)

	for i := 0; i < count; i++ {
		id, err := gen.NextID()
		require.NoError(t, err)
		ids = append(ids, id)
		seen[id] = struct{}{}
	}

	assert.Len(t, seen, count)
	assert.True(t, sort.SliceIsSorted(ids, func(i, j int) bool { return ids[i] < ids[j] }))
	for i := 1; i < len(ids); i++ {
		require.Greater(t, ids[i], ids[i-1])
	}
	for _, id := range ids {
		require.Equal(t, int64(5), Parse(id).MachineID)
	}
}

func TestGenerator_NextID_Concurrent(t *testing.T) {
	gen, err := NewGenerator(7)
	require.NoError(t, err)

	const (
		workers   = 8
		perWorker = 2000
	)

	results := make([][]int64, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			local := make([]int64, 0, perWorker)
			for i := 0; i < perWorker; i++ {
				id, err := gen.NextID()
				if err != nil {
					t.Errorf("NextID() error: %v", err)
					return
				}
				local = append(local, id)
			}
			results[w] = local
		}(w)
	}
	wg.Wait()

	seen := make(map[int64]struct{}, workers*perWorker)
	for _, local := range results {
		for i, id := range local {
			if i > 0 {
				// a later call from one goroutine completes after the earlier one
				require.Greater(t, id, local[i-1])
			}
			_, dup := seen[id]
			require.False(t, dup, "duplicate id %d", id)
			seen[id] = struct{}{}
		}
	}
	assert.Len(t, seen, workers*perWorker)
}

func TestGenerator_NextID_ClockRollback(t *testing.T) {
	var now atomic.Int64
	now.Store(Epoch + 10_000)

	gen, err := NewGenerator(5, WithClock(func() int64 { return now.Load() }))
	require.NoError(t, err)

	first, err := gen.NextID()
	require.NoError(t, err)

	now.Store(Epoch + 9_999)
	id, err := gen.NextID()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrClockMovedBackwards)
	assert.Zero(t, id)

	// once the clock catches up the generator keeps going from where it was
	now.Store(Epoch + 10_000)
	next, err := gen.NextID()
	require.NoError(t, err)
	assert.Greater(t, next, first)
}

func TestGenerator_NextID_SequenceOverflowWaitsForNextMillisecond(t *testing.T) {
	base := Epoch + 50_000
	var calls atomic.Int64
	clock := func() int64 {
		if calls.Add(1) < 5000 {
			return base
		}
		return base + 1
	}

	gen, err := NewGenerator(1, WithClock(clock))
	require.NoError(t, err)

	var last int64
	for i := 0; i <= maxSequence; i++ {
		id, err := gen.NextID()
		require.NoError(t, err)
		require.Greater(t, id, last)
		last = id
	}
	assert.Equal(t, int64(maxSequence), Parse(last).Sequence)

	overflow, err := gen.NextID()
	require.NoError(t, err)
	assert.Greater(t, overflow, last)

	info := Parse(overflow)
	assert.Equal(t, int64(0), info.Sequence)
	assert.Equal(t, time.UnixMilli(base+1).UTC(), info.Time)
}

func TestGenerator_IndependentInstances(t *testing.T) {
	clock := func() int64 { return Epoch + 1 }

	a, err := NewGenerator(1, WithClock(clock))
	require.NoError(t, err)
	b, err := NewGenerator(2, WithClock(clock))
	require.NoError(t, err)

	idA, err := a.NextID()
	require.NoError(t, err)
	idB, err := b.NextID()
	require.NoError(t, err)

	assert.NotEqual(t, idA, idB)
	assert.Equal(t, int64(0), Parse(idA).Sequence)
	assert.Equal(t, int64(0), Parse(idB).Sequence)
}
