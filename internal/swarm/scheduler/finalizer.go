package scheduler

import "github.com/swarmcp/swarmcp/internal/swarm"

// Finalize waits for every in-flight transfer worker, then waits for every
// previously-enqueued cat job (a cat must not race an rm of the same
// chunks), then enqueues one rm sweep per host unless -p was given, then
// drains the process pool. rm is attempted even against a host already
// marked dead: cleanup is best-effort, and a failing rm is just another
// RmFailure recorded by recordFailure, not a reason to skip the host.
func (s *Scheduler) Finalize() {
	s.workers.Flush()
	s.catJobs.Flush()

	if !s.db.KeepChunks() {
		for _, h := range s.db.Hosts() {
			address := h.Address()
			argv := append([]string{"ssh"}, swarm.RmArgs(h, s.prefix)...)
			s.pool.PutFunc(argv, func(err error) {
				if err != nil {
					s.recordFailure(address, "rm", err)
				}
			})
		}
	}

	s.pool.Finish()
	if s.stats != nil {
		s.stats.end()
	}
}
