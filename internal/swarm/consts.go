package swarm

import (
	"time"

	"github.com/swarmcp/swarmcp/build"
)

// Default tunables, overridable by the CLI layer. These mirror the
// defaults the reference scheduler was tuned against.
const (
	// DefaultMaxSlotsPerHost bounds per-host concurrent transfers (inbound
	// and outbound, counted together).
	DefaultMaxSlotsPerHost = 6

	// DefaultChunkSize is passed straight through to split's -b flag.
	DefaultChunkSize = "40m"

	// DefaultMaxFailCount is the number of consecutive transfer failures at
	// which a host is marked dead.
	DefaultMaxFailCount = 3

	// DefaultMaxConcurrentTransfers bounds total parallelism across the
	// whole cluster.
	DefaultMaxConcurrentTransfers = 250

	// DefaultMaxProcs bounds total concurrent cat/rm child processes.
	DefaultMaxProcs = 500
)

var (
	// SchedulerIdleSleep is how long the scheduler loop sleeps after a
	// match attempt finds nothing to do. Shortened in dev/testing builds so
	// package tests that drive the loop directly don't pay production idle
	// time.
	SchedulerIdleSleep = build.Select(build.Var{
		Standard: 200 * time.Millisecond,
		Dev:      50 * time.Millisecond,
		Testing:  5 * time.Millisecond,
	}).(time.Duration)

	// DefaultProbeTimeout bounds a single liveness probe so a hung ssh
	// connect attempt cannot stall a transfer worker indefinitely.
	DefaultProbeTimeout = build.Select(build.Var{
		Standard: 10 * time.Second,
		Dev:      2 * time.Second,
		Testing:  200 * time.Millisecond,
	}).(time.Duration)
)

// ChunkPrefix builds the conventional on-disk chunk prefix for basename,
// e.g. "/tmp/<basename>.chunk_".
func ChunkPrefix(basename string) string {
	return "/tmp/" + basename + ".chunk_"
}
