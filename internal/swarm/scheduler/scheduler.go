// Package scheduler drives the swarm database and the terminal cat/rm
// lifecycle: the scheduler loop and the finalizer.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/NebulousLabs/errors"

	"github.com/swarmcp/swarmcp/internal/swarm"
	"github.com/swarmcp/swarmcp/internal/swarm/procpool"
	"github.com/swarmcp/swarmcp/internal/swarm/transfer"
	"github.com/swarmcp/swarmcp/persist"
	sync2 "github.com/swarmcp/swarmcp/sync"
)

// Scheduler repeatedly asks the database for an eligible (seed, target,
// chunk) triple and launches a transfer worker for each one found, subject
// to a global concurrency permit.
type Scheduler struct {
	db     *swarm.Database
	pool   *procpool.Pool
	permit *sync2.Limiter

	prefix   string
	destPath string

	log     *persist.Logger
	verbose bool

	stats *statsLog

	// workers tracks every dispatched transfer worker, so the finalizer can
	// wait for all in-flight workers to exit naturally.
	workers sync2.ThreadGroup
	// catJobs tracks every cat command enqueued so far, so the finalizer can
	// wait for them before starting the rm sweep.
	catJobs sync2.ThreadGroup

	failMu   sync.Mutex
	failures []error
}

// Config bundles the knobs the CLI layer collects from flags.
type Config struct {
	Prefix                 string
	DestPath               string
	MaxConcurrentTransfers int
	MaxProcs               int
	Verbose                bool
	Stats                  bool
}

// New builds a Scheduler over db, with its own process pool for cat/rm.
func New(db *swarm.Database, cfg Config, log *persist.Logger) *Scheduler {
	s := &Scheduler{
		db:       db,
		pool:     procpool.New(cfg.MaxProcs),
		permit:   sync2.NewLimiter(cfg.MaxConcurrentTransfers),
		prefix:   cfg.Prefix,
		destPath: cfg.DestPath,
		log:      log,
		verbose:  cfg.Verbose,
	}
	if cfg.Stats {
		s.stats = newStatsLog(log)
	}
	return s
}

// Run drives the scheduler loop to completion: while the database is not
// done, it asks for a match, and either dispatches a transfer worker or
// sleeps briefly. interrupt, when stopped (e.g. by an operator SIGINT
// handler), causes Run to stop initiating new transfers and return once
// in-flight workers have been dispatched; it does not wait for them (the
// finalizer does that). splitterDone receives the splitter driver's outcome
// exactly once; a non-nil value means the driver never reached clean EOF,
// so splitComplete can never become true and the match loop would
// otherwise spin forever. Run returns that error so the caller can treat it
// as fatal instead of hanging.
func (s *Scheduler) Run(ctx context.Context, interrupt *sync2.ThreadGroup, splitterDone <-chan error) error {
	if s.stats != nil {
		s.stats.start()
	}
	for !s.db.Done() {
		select {
		case <-interrupt.StopChan():
			return nil
		case err, ok := <-splitterDone:
			if ok && err != nil {
				return err
			}
			splitterDone = nil
		default:
		}

		seed, target, chunk, ok := s.db.Match()
		if !ok {
			time.Sleep(swarm.SchedulerIdleSleep)
			continue
		}

		if cancelled := s.permit.Request(1, interrupt.StopChan()); cancelled {
			// Interrupted while waiting for a transfer slot: undo the debit
			// Match already made so the triple isn't silently lost.
			seed.ReleaseSlot()
			target.RecordTransferFailure(chunk)
			target.ReleaseSlot()
			return nil
		}

		if err := s.workers.Add(); err != nil {
			s.permit.Release(1)
			return nil
		}
		go s.dispatch(ctx, seed, target, chunk)
	}
	return nil
}

func (s *Scheduler) dispatch(ctx context.Context, seed, target *swarm.Host, chunk swarm.Chunk) {
	defer s.workers.Done()
	defer s.permit.Release(1)

	w := transfer.New(s.db, s.enqueueCat)
	w.Run(ctx, seed, target, chunk)

	if s.verbose && s.log != nil {
		s.log.Printf("transfer %s -> %s : %s\n", seed.Address(), target.Address(), chunk.Name)
	}
}

// enqueueCat is the transfer worker's onCat callback: it puts a cat command
// on the process pool and tracks it in catJobs.
func (s *Scheduler) enqueueCat(target *swarm.Host) {
	if err := s.catJobs.Add(); err != nil {
		return
	}
	if s.stats != nil {
		s.stats.recordCompletion()
	}
	argv := append([]string{"ssh"}, swarm.CatArgs(target, s.prefix, s.destPath)...)
	s.pool.PutFunc(argv, func(err error) {
		if err != nil {
			s.recordFailure(target.Address(), "cat", err)
		} else {
			target.MarkCatted()
		}
		s.catJobs.Done()
	})
}

// recordFailure appends a CatFailure/RmFailure to the scheduler's running
// list, so Finalize can report every failed cleanup command at once instead
// of only the first one encountered.
func (s *Scheduler) recordFailure(address, op string, err error) {
	wrapped := errors.Extend(errors.New(op+" failed on "+address), err)
	s.failMu.Lock()
	s.failures = append(s.failures, wrapped)
	s.failMu.Unlock()
	if s.log != nil {
		s.log.Println(wrapped)
	}
}

// Err composes every cat/rm failure recorded so far into one error, or
// returns nil if none occurred. Failures here are never fatal to the run:
// the swarm has already delivered the file by the time Finalize runs
// cleanup, so Err is for operator visibility, not for deciding an exit
// code.
func (s *Scheduler) Err() error {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	if len(s.failures) == 0 {
		return nil
	}
	return errors.Compose(s.failures...)
}
