// Package transfer runs the scp/rcp/rsync child process that moves one
// chunk from a seed host to a target host.
package transfer

import (
	"context"
	"os/exec"

	"github.com/swarmcp/swarmcp/build"
	"github.com/swarmcp/swarmcp/internal/swarm"
)

// Worker executes one transfer and updates both hosts and the database
// with its outcome. A triple's slots are assumed already debited by
// Database.Match; Worker always releases them before returning.
type Worker struct {
	db    *swarm.Database
	onCat func(target *swarm.Host)
}

// New returns a Worker bound to db. onCat is invoked (enqueueing a cat job)
// the moment a target transitions to ALL_CHUNKS_RECEIVED; it may be nil.
func New(db *swarm.Database, onCat func(target *swarm.Host)) *Worker {
	return &Worker{db: db, onCat: onCat}
}

// Run performs the transfer of chunk c from seed to target. ctx bounds the
// liveness probes issued on failure; the transfer itself carries no
// explicit timeout.
func (w *Worker) Run(ctx context.Context, seed, target *swarm.Host, c swarm.Chunk) {
	defer seed.ReleaseSlot()
	defer target.ReleaseSlot()

	args := swarm.TransferArgs(w.db.Transport(), seed, target, c)
	cmd := exec.Command("ssh", args...)
	err := cmd.Run()

	if err == nil {
		w.onSuccess(target, c)
		return
	}
	w.onFailure(ctx, seed, target, c)
}

func (w *Worker) onSuccess(target *swarm.Host, c swarm.Chunk) {
	justCompleted := target.RecordTransferSuccess(c, w.db.ChunkCount(), w.db.SplitComplete())
	if !justCompleted {
		return
	}
	w.db.HostDone()
	if w.onCat != nil {
		w.onCat(target)
	}
}

// onFailure re-queues the chunk and probes both ends of the failed
// transfer. Only a failed probe, or hitting the consecutive-failure
// threshold, removes a host from future matches; a lone transfer failure is
// recovered locally.
func (w *Worker) onFailure(ctx context.Context, seed, target *swarm.Host, c swarm.Chunk) {
	failCount := target.RecordTransferFailure(c)
	if failCount >= target.MaxFailCount() {
		build.Severe(target.Address(), "exceeded", target.MaxFailCount(), "consecutive transfer failures, marking dead")
		target.MarkDead(w.db)
	}
	if alive, attempted := target.Probe(ctx); attempted && !alive {
		build.Severe(target.Address(), "failed liveness probe, marking dead")
		target.MarkDead(w.db)
	}
	if alive, attempted := seed.Probe(ctx); attempted && !alive {
		build.Severe(seed.Address(), "failed liveness probe, marking dead")
		seed.MarkDead(w.db)
	}
}
