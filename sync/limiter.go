package sync

import "sync"

// Limiter is a weighted counting semaphore: it bounds the number of units
// in flight at once ('current') to a configurable 'limit'. Unlike a plain
// semaphore, a single Request is allowed to exceed the limit by itself as
// long as nothing else is currently outstanding, which keeps a lone
// oversized job from deadlocking against a limit smaller than itself.
type Limiter struct {
	mu       sync.Mutex
	limit    int
	current  int
	waitChan chan struct{}
}

// NewLimiter returns a Limiter that admits at most 'limit' units at once.
func NewLimiter(limit int) *Limiter {
	return &Limiter{
		limit:    limit,
		waitChan: make(chan struct{}),
	}
}

// wake releases every goroutine currently blocked in Request. Callers must
// hold l.mu.
func (l *Limiter) wake() {
	close(l.waitChan)
	l.waitChan = make(chan struct{})
}

// Request blocks until 'units' can be admitted without pushing 'current'
// over the limit, or until 'current' is zero (so a request can always make
// progress once the limiter is fully idle, even if it is larger than the
// limit). If cancel fires before the request can be admitted, Request
// returns true and the request is not counted. Otherwise it admits the
// units, increments 'current', and returns false.
func (l *Limiter) Request(units int, cancel <-chan struct{}) (cancelled bool) {
	for {
		l.mu.Lock()
		if l.current == 0 || l.current+units <= l.limit {
			l.current += units
			l.mu.Unlock()
			return false
		}
		wc := l.waitChan
		l.mu.Unlock()

		select {
		case <-wc:
			// Limiter state changed (a Release or SetLimit); re-check.
		case <-cancel:
			return true
		}
	}
}

// Release returns 'units' previously admitted by Request, waking any
// goroutines blocked in Request so they can re-check whether they now fit.
func (l *Limiter) Release(units int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.current -= units
	l.wake()
}

// SetLimit changes the limiter's capacity, waking any goroutines blocked in
// Request so they can re-check against the new limit.
func (l *Limiter) SetLimit(limit int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.limit = limit
	l.wake()
}
