package sync

import (
	"sync"
	"time"
)

// TryMutex behaves like a sync.Mutex, but additionally supports
// non-blocking and timed lock attempts.
type TryMutex struct {
	once sync.Once
	c    chan struct{}
}

func (tm *TryMutex) init() {
	tm.once.Do(func() {
		tm.c = make(chan struct{}, 1)
		tm.c <- struct{}{}
	})
}

// Lock blocks until the mutex is acquired.
func (tm *TryMutex) Lock() {
	tm.init()
	<-tm.c
}

// Unlock releases the mutex. It panics if the mutex is not locked.
func (tm *TryMutex) Unlock() {
	tm.init()
	select {
	case tm.c <- struct{}{}:
	default:
		panic("unlock of unlocked TryMutex")
	}
}

// TryLock attempts to acquire the mutex without blocking, returning true on
// success.
func (tm *TryMutex) TryLock() bool {
	tm.init()
	select {
	case <-tm.c:
		return true
	default:
		return false
	}
}

// TryLockTimed attempts to acquire the mutex, giving up and returning false
// if it cannot be acquired within the given duration.
func (tm *TryMutex) TryLockTimed(d time.Duration) bool {
	tm.init()
	select {
	case <-tm.c:
		return true
	case <-time.After(d):
		return false
	}
}
