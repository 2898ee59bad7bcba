// Package parallel splits row ranges across goroutines.
package parallel

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DefaultThreshold is the row count at or below which work runs on the
// calling goroutine.
const DefaultThreshold = 1000

// Parallelize splits [0, items) into one contiguous chunk per GOMAXPROCS
// slot and calls fn(start, end) for each chunk concurrently. fn must only
// write to state owned by its own range.
func Parallelize(items int, fn func(start, end int)) {
	if items <= 0 {
		return
	}
	workers := min(runtime.GOMAXPROCS(0), items)
	chunk := (items + workers - 1) / workers

	var g errgroup.Group
	for start := 0; start < items; start += chunk {
		end := min(start+chunk, items)
		g.Go(func() error {
			fn(start, end)
			return nil
		})
	}
	_ = g.Wait()
}

// ParallelizeWithThreshold calls fn(0, items) directly when items does not
// exceed threshold, and Parallelize otherwise.
func ParallelizeWithThreshold(items, threshold int, fn func(start, end int)) {
	switch {
	case items <= 0:
	case items <= threshold:
		fn(0, items)
	default:
		Parallelize(items, fn)
	}
}
