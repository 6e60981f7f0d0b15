// Package sync extends the standard library's sync package with primitives
// that come up repeatedly when coordinating long-running swarm goroutines:
// a stoppable ThreadGroup for graceful shutdown, non-blocking TryMutex and
// TryRWMutex variants, and a weighted Limiter for bounding concurrency.
package sync

import (
	"errors"
	"sync"
)

// ErrStopped is returned by ThreadGroup.Add and ThreadGroup.Stop once the
// group has already been stopped.
var ErrStopped = errors.New("ThreadGroup already stopped")

// ThreadGroup is a one-shot wait group with a stop signal. Goroutines that
// perform long-running work call Add before starting and Done when
// finished; anyone holding a reference to the group can call Stop to signal
// every goroutine to wind down (via StopChan) and then block until they have
// all called Done. Functions registered with OnStop run as soon as Stop is
// called, before Stop waits on outstanding goroutines; functions registered
// with AfterStop run once every goroutine has finished. Both run in the
// reverse of their registration order, and run immediately, inline, if the
// group is already stopped by the time they are registered.
type ThreadGroup struct {
	once sync.Once

	mu           sync.Mutex
	stopChan     chan struct{}
	onStopFns    []func()
	afterStopFns []func()
	wg           sync.WaitGroup
}

func (tg *ThreadGroup) init() {
	tg.once.Do(func() {
		tg.stopChan = make(chan struct{})
	})
}

// stopped reports whether the group's stop channel has been closed. Callers
// must hold tg.mu.
func (tg *ThreadGroup) stopped() bool {
	select {
	case <-tg.stopChan:
		return true
	default:
		return false
	}
}

// isStopped reports whether Stop has been called.
func (tg *ThreadGroup) isStopped() bool {
	tg.init()
	tg.mu.Lock()
	defer tg.mu.Unlock()
	return tg.stopped()
}

// StopChan returns a channel that is closed once Stop is called. Goroutines
// tracked by the group should select on it alongside their own work.
func (tg *ThreadGroup) StopChan() <-chan struct{} {
	tg.init()
	return tg.stopChan
}

// Add increments the group's counter. It returns ErrStopped, without
// incrementing the counter, if the group has already been stopped.
func (tg *ThreadGroup) Add() error {
	tg.init()
	tg.mu.Lock()
	defer tg.mu.Unlock()
	if tg.stopped() {
		return ErrStopped
	}
	tg.wg.Add(1)
	return nil
}

// Done decrements the group's counter. It must be called once for every
// successful call to Add.
func (tg *ThreadGroup) Done() {
	tg.wg.Done()
}

// OnStop queues fn to run when Stop is called, before Stop waits for
// outstanding Add/Done pairs to drain. If the group is already stopped, fn
// runs immediately.
func (tg *ThreadGroup) OnStop(fn func()) {
	tg.init()
	tg.mu.Lock()
	if tg.stopped() {
		tg.mu.Unlock()
		fn()
		return
	}
	tg.onStopFns = append(tg.onStopFns, fn)
	tg.mu.Unlock()
}

// AfterStop queues fn to run after Stop has waited for every outstanding
// Add/Done pair to drain. If the group is already stopped, fn runs
// immediately.
func (tg *ThreadGroup) AfterStop(fn func()) {
	tg.init()
	tg.mu.Lock()
	if tg.stopped() {
		tg.mu.Unlock()
		fn()
		return
	}
	tg.afterStopFns = append(tg.afterStopFns, fn)
	tg.mu.Unlock()
}

// Stop closes the group's stop channel, runs every queued OnStop function
// (most recently registered first), waits for all outstanding Add/Done
// pairs to drain, and then runs every queued AfterStop function (again most
// recently registered first). It returns ErrStopped if called more than
// once.
func (tg *ThreadGroup) Stop() error {
	tg.init()
	tg.mu.Lock()
	if tg.stopped() {
		tg.mu.Unlock()
		return ErrStopped
	}
	close(tg.stopChan)
	onStopFns := tg.onStopFns
	tg.mu.Unlock()

	for i := len(onStopFns) - 1; i >= 0; i-- {
		onStopFns[i]()
	}

	tg.wg.Wait()

	tg.mu.Lock()
	afterStopFns := tg.afterStopFns
	tg.mu.Unlock()
	for i := len(afterStopFns) - 1; i >= 0; i-- {
		afterStopFns[i]()
	}
	return nil
}

// Flush blocks until every outstanding Add/Done pair has drained, without
// closing the stop channel or running any queued stop functions. It is
// useful for waiting on a burst of in-flight work without tearing down
// long-lived resources.
func (tg *ThreadGroup) Flush() error {
	tg.wg.Wait()
	return nil
}
