package dynamo

import "sync"

// DefaultWorkers is the fan-out used by ParallelFor.
const DefaultWorkers = 4

// ParallelFor splits [0, n) into at most DefaultWorkers contiguous chunks of
// at least minChunk items and runs fn on each concurrently.
func ParallelFor(n, minChunk int, fn func(start, end int)) {
	ParallelForN(n, minChunk, DefaultWorkers, fn)
}

// ParallelForN is ParallelFor with an explicit worker count. Chunks never
// overlap, so fn may write disjoint ranges of a shared slice without locking.
// Small inputs run inline on the caller's goroutine.
func ParallelForN(n, minChunk, workers int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	minChunk = max(minChunk, 1)
	workers = min(workers, n/minChunk)
	if workers <= 1 {
		fn(0, n)
		return
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn(start, min(start+chunk, n))
		}()
	}
	wg.Wait()
}
