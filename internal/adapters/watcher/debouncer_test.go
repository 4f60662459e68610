package watcher_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/owlcache/internal/adapters/watcher"
)

func TestDebouncer_Add_SinglePath(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var receivedPaths []string

		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			callCount++
			receivedPaths = paths
		})

		d.Add("/project/src/main.rs")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		require.Equal(t, 1, callCount)
		require.Len(t, receivedPaths, 1)
		assert.Equal(t, "/project/src/main.rs", receivedPaths[0])
	})
}

func TestDebouncer_Add_CoalescesAndDeduplicates(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var receivedPaths []string

		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			callCount++
			receivedPaths = paths
		})

		// An editor save burst: several files, one written twice.
		d.Add("/project/src/lib.rs")
		d.Add("/project/src/parser.rs")
		d.Add("/project/src/lib.rs")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		require.Equal(t, 1, callCount)
		require.Len(t, receivedPaths, 2)
		assert.Contains(t, receivedPaths, "/project/src/lib.rs")
		assert.Contains(t, receivedPaths, "/project/src/parser.rs")
	})
}

func TestDebouncer_Add_TimerReset(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var mu sync.Mutex

		d := watcher.NewDebouncer(100*time.Millisecond, func([]string) {
			mu.Lock()
			callCount++
			mu.Unlock()
		})

		d.Add("/project/src/a.rs")
		time.Sleep(50 * time.Millisecond)

		// The second add restarts the window, so nothing fires at 100ms.
		d.Add("/project/src/b.rs")
		time.Sleep(50 * time.Millisecond)

		synctest.Wait()
		mu.Lock()
		count := callCount
		mu.Unlock()
		assert.Equal(t, 0, count)

		time.Sleep(60 * time.Millisecond)
		synctest.Wait()

		mu.Lock()
		count = callCount
		mu.Unlock()
		require.Equal(t, 1, count)
	})
}

func TestDebouncer_Flush_Immediate(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var receivedPaths []string

		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			callCount++
			receivedPaths = paths
		})

		d.Add("/project/src/a.rs")
		d.Add("/project/src/b.rs")

		d.Flush()

		require.Equal(t, 1, callCount)
		require.Len(t, receivedPaths, 2)
	})
}

func TestDebouncer_Flush_Empty(t *testing.T) {
	var callCount int

	d := watcher.NewDebouncer(100*time.Millisecond, func([]string) {
		callCount++
	})

	d.Flush()

	assert.Equal(t, 0, callCount)
}

func TestDebouncer_Flush_AfterFire(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int

		d := watcher.NewDebouncer(50*time.Millisecond, func([]string) {
			callCount++
		})

		d.Add("/project/src/a.rs")

		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		require.Equal(t, 1, callCount)

		// The batch already went out; a flush must not repeat it.
		d.Flush()

		assert.Equal(t, 1, callCount)
	})
}

func TestDebouncer_Flush_WaitsForCallbackInFlight(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var mu sync.Mutex
		var completed int

		d := watcher.NewDebouncer(50*time.Millisecond, func([]string) {
			// A slow batch, still running when Flush is called.
			time.Sleep(200 * time.Millisecond)
			mu.Lock()
			completed++
			mu.Unlock()
		})

		d.Add("/project/src/a.rs")

		// The window expires at 50ms; at 100ms the callback is mid-flight.
		time.Sleep(100 * time.Millisecond)

		d.Flush()

		mu.Lock()
		defer mu.Unlock()
		require.Equal(t, 1, completed)
	})
}

func TestDebouncer_Add_AfterFlush(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var receivedPaths []string

		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			callCount++
			receivedPaths = paths
		})

		d.Add("/project/src/a.rs")
		d.Flush()

		require.Equal(t, 1, callCount)

		d.Add("/project/src/b.rs")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		require.Equal(t, 2, callCount)
		require.Len(t, receivedPaths, 1)
		assert.Equal(t, "/project/src/b.rs", receivedPaths[0])
	})
}

func TestDebouncer_NilCallback(t *testing.T) {
	synctest.Test(t, func(_ *testing.T) {
		d := watcher.NewDebouncer(50*time.Millisecond, nil)

		d.Add("/project/src/a.rs")

		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		d.Flush()
	})
}
