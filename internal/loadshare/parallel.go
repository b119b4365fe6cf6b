package loadshare

import (
	"runtime"
	"sync"
)

// minSweepChunk is the smallest slice of a sweep worth its own goroutine.
const minSweepChunk = 256

// parallelFor runs fn over [0, n) in contiguous chunks, one per worker.
func parallelFor(n, minChunk int, fn func(start, end int)) {
	workers := runtime.GOMAXPROCS(0)
	if n <= minChunk || workers <= 1 {
		fn(0, n)
		return
	}
	workers = min(workers, n/minChunk)

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
