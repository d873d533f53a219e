package index

import (
	"context"
	"sync"
)

const defaultConcurrency = 15

// AvailabilityChecker reports whether a project name is unclaimed.
// Satisfied by both *Index and *Breaker.
type AvailabilityChecker interface {
	Available(ctx context.Context, name string) (bool, error)
}

// BulkAvailable checks name availability for multiple projects in parallel.
// Individual lookup errors are silently ignored - those names are omitted
// from the result. Returns a map of name to availability.
func BulkAvailable(ctx context.Context, checker AvailabilityChecker, names []string) map[string]bool {
	return BulkAvailableWithConcurrency(ctx, checker, names, defaultConcurrency)
}

// BulkAvailableWithConcurrency checks availability with a custom
// concurrency limit.
func BulkAvailableWithConcurrency(ctx context.Context, checker AvailabilityChecker, names []string, concurrency int) map[string]bool {
	results := make(map[string]bool)
	var mu sync.Mutex
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for _, name := range names {
		wg.Add(1)
		go func(n string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			available, err := checker.Available(ctx, n)
			if err == nil {
				mu.Lock()
				results[n] = available
				mu.Unlock()
			}
		}(name)
	}

	wg.Wait()
	return results
}
