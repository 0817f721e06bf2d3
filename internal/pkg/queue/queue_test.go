package queue

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPopNewestIsLIFO(t *testing.T) {
	// The newest command is deliberately sent first so the latest intent
	// wins under backlog. The flip side, pinned here, is that an older
	// queued command waits behind every newer one and can starve.
	q := New()
	q.Push([]byte("a"))
	q.Push([]byte("b"))
	q.Push([]byte("c"))

	for _, want := range []string{"c", "b", "a"} {
		got, ok := q.PopNewest()
		require.True(t, ok)
		require.Equal(t, want, string(got))
	}
	_, ok := q.PopNewest()
	require.False(t, ok)
}

func TestLenAfterPushesAndPops(t *testing.T) {
	q := New()
	const n, k = 17, 9
	for i := 0; i < n; i++ {
		q.Push([]byte{byte(i)})
	}
	for i := 0; i < k; i++ {
		_, ok := q.PopNewest()
		require.True(t, ok)
	}
	require.Equal(t, n-k, q.Len())
}

func TestReset(t *testing.T) {
	q := New()
	q.Push([]byte("stale"))
	q.Reset()
	require.Equal(t, 0, q.Len())
	_, ok := q.PopNewest()
	require.False(t, ok)
}

func TestConcurrentPushAndDrainLosesNothing(t *testing.T) {
	q := New()
	const writers = 4
	const perWriter = 250

	var wg sync.WaitGroup
	wg.Add(writers)
	for w := 0; w < writers; w++ {
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				q.Push([]byte(fmt.Sprintf("%d-%d", w, i)))
			}
		}(w)
	}

	popped := make(map[string]int)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for total := 0; total < writers*perWriter; {
			msg, ok := q.PopNewest()
			if !ok {
				continue
			}
			popped[string(msg)]++
			total++
		}
	}()

	wg.Wait()
	<-done
	require.Len(t, popped, writers*perWriter)
	for key, n := range popped {
		require.Equal(t, 1, n, "entry %s popped %d times", key, n)
	}
	require.Equal(t, 0, q.Len())
}
