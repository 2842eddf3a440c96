// Package parallel runs layout jobs on a fixed set of worker goroutines.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a fixed-size worker pool. Each worker owns a queue and steals
// from its siblings when idle, so one slow layout does not stall the
// batch behind it.
//
// Pool is safe for concurrent use.
type Pool struct {
	queues []chan func()
	done   chan struct{}
	wg     sync.WaitGroup
	next   atomic.Uint32

	// mu is held shared by senders and exclusively by Close, so no job is
	// queued after the workers drained.
	mu     sync.RWMutex
	closed bool
}

// NewPool starts a pool with n workers. n <= 0 selects GOMAXPROCS.
func NewPool(n int) *Pool {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	depth := max(n*4, 8)

	p := &Pool{
		queues: make([]chan func(), n),
		done:   make(chan struct{}),
	}
	for i := range p.queues {
		p.queues[i] = make(chan func(), depth)
	}
	p.wg.Add(n)
	for i := range n {
		go p.loop(i)
	}
	return p
}

func (p *Pool) loop(id int) {
	defer p.wg.Done()
	own := p.queues[id]
	for {
		select {
		case job := <-own:
			job()
			continue
		default:
		}
		if job := p.steal(id); job != nil {
			job()
			continue
		}
		select {
		case job := <-own:
			job()
		case <-p.done:
			for {
				select {
				case job := <-own:
					job()
				default:
					return
				}
			}
		}
	}
}

func (p *Pool) steal(id int) func() {
	for i := 1; i < len(p.queues); i++ {
		select {
		case job := <-p.queues[(id+i)%len(p.queues)]:
			return job
		default:
		}
	}
	return nil
}

// Run executes jobs across the workers and returns when all finished.
// After Close, Run executes the jobs on the calling goroutine.
func (p *Pool) Run(jobs []func()) {
	if len(jobs) == 0 {
		return
	}
	if p.isClosed() {
		for _, job := range jobs {
			job()
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(jobs))
	for _, job := range jobs {
		p.Go(func() {
			defer wg.Done()
			job()
		})
	}
	wg.Wait()
}

// Go queues fn without waiting. Queues are filled round-robin; Go blocks
// while the chosen queue is full. After Close, fn runs on the caller.
func (p *Pool) Go(fn func()) {
	if fn == nil {
		return
	}
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		fn()
		return
	}
	p.queues[int(p.next.Add(1))%len(p.queues)] <- fn
	p.mu.RUnlock()
}

func (p *Pool) isClosed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.closed
}

// Workers returns the number of workers.
func (p *Pool) Workers() int { return len(p.queues) }

// Close waits for queued jobs to finish and stops the workers. It is safe
// to call more than once.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.done)
	p.mu.Unlock()
	p.wg.Wait()
}
