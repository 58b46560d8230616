package worker

import (
	"context"
	"sync"
)

// Worker runs until its context is cancelled.
type Worker interface {
	Start(ctx context.Context) error
}

// Manager starts and supervises a set of workers.
type Manager struct {
	workers []Worker
}

func NewManager(ws ...Worker) *Manager {
	return &Manager{workers: ws}
}

// Start blocks until ctx is cancelled or any worker fails; a failure stops
// the remaining workers and is returned.
func (m *Manager) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errs := make(chan error, len(m.workers))
	for _, w := range m.workers {
		wg.Add(1)
		go func(w Worker) {
			defer wg.Done()
			if err := w.Start(ctx); err != nil {
				errs <- err
				cancel()
			}
		}(w)
	}
	// Wait for context cancellation then wait for workers to exit.
	<-ctx.Done()
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
