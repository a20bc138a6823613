package refractory

import "sync"

// minChunk is the smallest number of points handed to one worker.
const minChunk = 4

// parallelFor splits [0, n) into contiguous chunks run on up to workers
// goroutines. Each chunk stops at its first error; the error returned
// is the one at the lowest failing index.
func parallelFor(n, workers int, fn func(start, end int) error) error {
	if n <= minChunk || workers <= 1 {
		return fn(0, n)
	}
	workers = min(workers, n/minChunk)
	chunkSize := (n + workers - 1) / workers

	errs := make([]error, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			break
		}
		wg.Add(1)
		go func(w, start, end int) {
			defer wg.Done()
			errs[w] = fn(start, end)
		}(w, start, end)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
