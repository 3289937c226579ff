package parallel

import (
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool runs named jobs on a fixed number of workers and counts how many of
// them failed. A pool with a single worker runs every job inline.
type Pool struct {
	wg        sync.WaitGroup
	work      chan func()
	close     func()
	processed atomic.Uint64
	failed    atomic.Uint64
}

func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{
		close: func() {},
	}

	if numWorkers > 1 {
		pool.work = make(chan func(), numWorkers)

		for range numWorkers {
			pool.wg.Go(func() {
				for f := range pool.work {
					f()
				}
			})
		}

		pool.close = sync.OnceFunc(func() { close(pool.work) })
	}

	return pool
}

// Go schedules f. Errors are logged under name and counted as failures.
func (p *Pool) Go(name string, f func() error) {
	job := func() {
		if err := f(); err != nil {
			p.failed.Add(1)
			slog.Error("could not process", "item", name, "error", err)
			return
		}
		p.processed.Add(1)
	}

	if p.work == nil {
		job()
		return
	}
	p.work <- job
}

// Wait stops accepting jobs, waits for the scheduled ones and returns the
// number of jobs that succeeded and failed.
func (p *Pool) Wait() (processed, failed uint64) {
	p.close()
	p.wg.Wait()
	return p.processed.Load(), p.failed.Load()
}
