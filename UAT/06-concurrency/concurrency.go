// Package concurrency is the acceptance scenario for mocks called from
// several goroutines.
package concurrency

import (
	"sync"
	"time"
)

//go:generate go run ../../moxygen SlowService

// SlowService represents a dependency that might be called concurrently.
type SlowService interface {
	DoA(id int) string
	DoB(id int) string
}

// RunConcurrent calls DoA and DoB in separate goroutines. DoB is delayed so
// it reaches the service after DoA.
func RunConcurrent(svc SlowService, id int) []string {
	const (
		numTasks = 2
		delay    = 50
	)

	var wg sync.WaitGroup

	results := make([]string, numTasks)

	wg.Add(numTasks)

	go func() {
		defer wg.Done()
		time.Sleep(delay * time.Millisecond)

		results[1] = svc.DoB(id)
	}()

	go func() {
		defer wg.Done()

		results[0] = svc.DoA(id)
	}()

	wg.Wait()

	return results
}

// Fanout calls DoA for every id from its own goroutine.
func Fanout(svc SlowService, ids []int) {
	var wg sync.WaitGroup

	for _, id := range ids {
		wg.Add(1)

		go func() {
			defer wg.Done()

			svc.DoA(id)
		}()
	}

	wg.Wait()
}
