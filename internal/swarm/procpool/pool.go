// Package procpool runs the swarm's terminal cat/rm commands: a single
// consumer drains a FIFO of command argv slices and launches each as a
// child process, bounded by a counting semaphore. The reference
// implementation this is grounded on (scpTsunamiB.py's CommandQueue) used a
// non-blocking-acquire / periodic-reap loop specifically to avoid spending
// one OS thread per child; in Go, goroutines are cheap enough that a small
// per-child reaper goroutine (wait, then release the permit) gives the same
// bounded-parallelism contract without the poll loop.
package procpool

import (
	"os/exec"

	sync2 "github.com/swarmcp/swarmcp/sync"
)

// Pool bounds concurrent cat/rm child processes to a configured limit.
type Pool struct {
	limiter    *sync2.Limiter
	queue      chan job
	finishChan chan struct{}
	tg         sync2.ThreadGroup
}

// New creates a Pool that allows at most maxProcs children to run at once,
// and starts its consumer goroutine.
func New(maxProcs int) *Pool {
	p := &Pool{
		limiter:    sync2.NewLimiter(maxProcs),
		queue:      make(chan job, 4096),
		finishChan: make(chan struct{}),
	}
	p.tg.Add()
	go p.consume()
	return p
}

// job pairs a command argv with an optional completion callback, used by
// the finalizer to know when every previously-enqueued cat has exited
// before starting the rm sweep, and to collect which of them failed.
type job struct {
	argv []string
	done func(error)
}

// Put enqueues a command (argv[0] plus its arguments) to be launched once a
// slot is free. It is safe to call concurrently, but must not be called
// after Finish.
func (p *Pool) Put(argv []string) {
	p.PutFunc(argv, nil)
}

// PutFunc is like Put, but calls done (if non-nil) once that specific
// child has exited, with its exit error (nil on success).
func (p *Pool) PutFunc(argv []string, done func(error)) {
	p.queue <- job{argv: argv, done: done}
}

func (p *Pool) consume() {
	defer p.tg.Done()
	for {
		select {
		case j := <-p.queue:
			p.launch(j)
		case <-p.finishChan:
			p.drain()
			return
		}
	}
}

// drain launches every command already sitting in the queue without
// waiting for more to arrive.
func (p *Pool) drain() {
	for {
		select {
		case j := <-p.queue:
			p.launch(j)
		default:
			return
		}
	}
}

func (p *Pool) launch(j job) {
	p.limiter.Request(1, nil)
	if err := p.tg.Add(); err != nil {
		p.limiter.Release(1)
		return
	}
	cmd := exec.Command(j.argv[0], j.argv[1:]...)
	if err := cmd.Start(); err != nil {
		p.limiter.Release(1)
		p.tg.Done()
		if j.done != nil {
			j.done(err)
		}
		return
	}
	go func() {
		defer p.tg.Done()
		defer p.limiter.Release(1)
		err := cmd.Wait()
		if j.done != nil {
			j.done(err)
		}
	}()
}

// Finish signals the consumer to launch whatever remains in the queue and
// stop accepting new work, then blocks until every already-launched child
// has exited.
func (p *Pool) Finish() {
	close(p.finishChan)
	p.tg.Flush()
}
