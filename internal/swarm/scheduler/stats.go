package scheduler

import (
	"sync"
	"time"

	"github.com/swarmcp/swarmcp/persist"
)

// statsLog implements the -s stats log format: a start banner, one line per
// host completion giving elapsed seconds and the cumulative completed-host
// count, and an end banner with the total elapsed time.
type statsLog struct {
	log *persist.Logger

	mu        sync.Mutex
	startTime time.Time
	completed int
}

func newStatsLog(log *persist.Logger) *statsLog {
	return &statsLog{log: log}
}

func (s *statsLog) start() {
	s.startTime = time.Now()
	if s.log != nil {
		s.log.Printf("start %s\n", s.startTime.Format(time.ANSIC))
	}
}

func (s *statsLog) recordCompletion() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completed++
	if s.log != nil {
		s.log.Printf("%2.2f, %d\n", time.Since(s.startTime).Seconds(), s.completed)
	}
}

func (s *statsLog) end() {
	if s.log != nil {
		s.log.Printf("end %s (total = %2.2f)\n", time.Now().Format(time.ANSIC), time.Since(s.startTime).Seconds())
	}
}
