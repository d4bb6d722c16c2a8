// Package parallel runs independent batch jobs, one file per job, on a fixed
// number of goroutines.
package parallel

import (
	"runtime"
	"sync"
)

type (
	// WorkerFunc schedules job; it may block while every worker is busy.
	WorkerFunc func(job func())
	// WaitFunc blocks until every scheduled job has returned. With done set
	// the pool is shut down afterwards and must not be given more work.
	WaitFunc func(done bool)
)

type Pool struct {
	Workers int
	Do      WorkerFunc
	Wait    WaitFunc

	jobs    chan func()
	pending sync.WaitGroup
	running sync.WaitGroup
	stop    func()
}

// Start launches numWorkers goroutines, or GOMAXPROCS when numWorkers < 1.
// A single worker runs every job inline on the caller's goroutine.
func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{Workers: numWorkers}
	if numWorkers == 1 {
		p.Do = func(job func()) { job() }
		p.Wait = func(bool) {}
		return p
	}

	p.jobs = make(chan func(), numWorkers)
	for range numWorkers {
		p.running.Go(func() {
			for job := range p.jobs {
				job()
				p.pending.Done()
			}
		})
	}
	p.stop = sync.OnceFunc(func() {
		close(p.jobs)
		p.running.Wait()
	})

	p.Do = func(job func()) {
		p.pending.Add(1)
		p.jobs <- job
	}
	p.Wait = func(done bool) {
		p.pending.Wait()
		if done {
			p.stop()
		}
	}
	return p
}
