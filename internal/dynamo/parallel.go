package dynamo

import (
	"runtime"
	"sync"
)

// Workers resolves a requested worker count; zero or less means one per CPU.
func Workers(requested int) int {
	if requested <= 0 {
		return runtime.NumCPU()
	}
	return requested
}

// ParallelFor splits [0, n) into contiguous chunks and calls fn once per
// chunk with the chunk's worker index. It returns after every chunk is done.
// Chunks never get smaller than minChunk, so small n runs inline.
func ParallelFor(n, numWorkers, minChunk int, fn func(worker, start, end int)) int {
	if minChunk < 1 {
		minChunk = 1
	}
	if n <= minChunk || numWorkers <= 1 {
		fn(0, 0, n)
		return 1
	}

	workers := numWorkers
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	used := 0
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		if start >= n {
			break
		}
		end := start + chunkSize
		if end > n {
			end = n
		}

		wg.Add(1)
		used++
		go func(idx, s, e int) {
			defer wg.Done()
			fn(idx, s, e)
		}(w, start, end)
	}

	wg.Wait()
	return used
}
