package buffer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrainEmptiesBuffer(t *testing.T) {
	b := New[int]()
	b.Record(1)
	b.Record(2)
	b.Record(3)

	require.Equal(t, []int{1, 2, 3}, b.Drain())

	// A second drain with no new events yields nothing.
	assert.Empty(t, b.Drain())
	assert.Equal(t, 0, b.Len())
}

func TestSnapshotDoesNotReset(t *testing.T) {
	b := New[string]()
	b.Record("a")
	b.Record("b")

	snap := b.Snapshot()
	require.Equal(t, []string{"a", "b"}, snap)
	assert.Equal(t, 2, b.Len())

	// Mutating the snapshot must not affect the buffer.
	snap[0] = "z"
	assert.Equal(t, []string{"a", "b"}, b.Drain())
}

func TestCloseRejectsLateRecords(t *testing.T) {
	b := New[int]()
	require.True(t, b.Record(1))
	require.True(t, b.Record(2))

	// Close returns everything accepted so far, exactly like a drain.
	require.Equal(t, []int{1, 2}, b.Close())

	// Anything recorded afterwards is rejected, never silently buffered.
	assert.False(t, b.Record(3))
	assert.Equal(t, 0, b.Len())
	assert.Empty(t, b.Drain())
}

func TestCloseUnderContentionStrandsNoEvent(t *testing.T) {
	const producers = 8
	const perProducer = 500

	b := New[int]()
	var wg sync.WaitGroup
	accepted := make([]map[int]bool, producers)
	for p := 0; p < producers; p++ {
		accepted[p] = make(map[int]bool, perProducer)
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				v := p*perProducer + i
				if b.Record(v) {
					accepted[p][v] = true
				}
			}
		}(p)
	}

	closed := b.Close()
	wg.Wait()

	// Every accepted event is in the closed batch and nothing else is; a
	// producer that lost the race got a rejection, not a stranded event.
	seen := make(map[int]bool, len(closed))
	for _, v := range closed {
		seen[v] = true
	}
	for p := range accepted {
		for v := range accepted[p] {
			require.True(t, seen[v], "accepted event %d missing from final batch", v)
		}
	}
	total := 0
	for p := range accepted {
		total += len(accepted[p])
	}
	require.Len(t, closed, total)
	assert.Equal(t, 0, b.Len())
}

func TestConcurrentProducersLoseNothing(t *testing.T) {
	const producers = 8
	const perProducer = 1000

	b := New[int]()
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				b.Record(base + i)
			}
		}(p * perProducer)
	}

	// Drain concurrently with the producers; whatever the drains return plus
	// the final drain must account for every event exactly once.
	seen := make(map[int]bool)
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	var batches [][]int
	for {
		select {
		case <-done:
			batches = append(batches, b.Drain())
			total := 0
			for _, batch := range batches {
				for _, v := range batch {
					require.False(t, seen[v], "event %d drained twice", v)
					seen[v] = true
					total++
				}
			}
			require.Equal(t, producers*perProducer, total)
			return
		default:
			batches = append(batches, b.Drain())
		}
	}
}
