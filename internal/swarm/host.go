package swarm

import (
	"context"
	"os/exec"
	"sync"

	sync2 "github.com/swarmcp/swarmcp/sync"
)

// hostState tracks a host's position in the per-host completion state
// machine: NEEDS_CHUNKS -> ALL_CHUNKS_RECEIVED -> CATTED -> CLEANED, with a
// parallel DEAD state reachable from any of the above.
type hostState int

const (
	stateNeedsChunks hostState = iota
	stateAllChunksReceived
	stateCatted
	stateCleaned
	stateDead
)

// Host is a single member of the swarm: the origin, or a transfer target.
// owned/needed/slots/alive/failCount are all guarded by mu; the random
// insertion performed by Database.RegisterNewChunk and the scan performed
// by Database.Match also touch these fields directly, always acquiring mu
// first (the database lock is always held first, per the package's
// lock-ordering rule).
type Host struct {
	mu sync.Mutex

	address string
	user    string

	isOrigin bool
	owned    []Chunk
	needed   []Chunk

	slots    int
	maxSlots int

	alive        bool
	failCount    int
	maxFailCount int

	chunkIndex int
	state      hostState

	// probing single-flights liveness probes: a second failing transfer
	// against the same already-probing host does not queue a redundant
	// ssh connect behind the first.
	probing sync2.TryMutex
}

// NewHost constructs a live host record with a full set of slots and no
// chunks.
func NewHost(address, user string, maxSlots, maxFailCount int, isOrigin bool) *Host {
	return &Host{
		address:      address,
		user:         user,
		isOrigin:     isOrigin,
		slots:        maxSlots,
		maxSlots:     maxSlots,
		maxFailCount: maxFailCount,
		alive:        true,
	}
}

// Address returns the host's reachable hostname or IP.
func (h *Host) Address() string {
	return h.address
}

// IsOrigin reports whether h is the origin host.
func (h *Host) IsOrigin() bool {
	return h.isOrigin
}

// Alive reports whether h is currently believed reachable.
func (h *Host) Alive() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.alive
}

// FailCount returns the number of consecutive transfer failures recorded
// against h.
func (h *Host) FailCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.failCount
}

// MaxFailCount returns the configured consecutive-failure threshold.
func (h *Host) MaxFailCount() int {
	return h.maxFailCount
}

// Owned returns a copy of the chunks h currently holds.
func (h *Host) Owned() []Chunk {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Chunk, len(h.owned))
	copy(out, h.owned)
	return out
}

// Needed returns a copy of the chunks h still requires, in scheduling
// order.
func (h *Host) Needed() []Chunk {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Chunk, len(h.needed))
	copy(out, h.needed)
	return out
}

// AcquireSlot decrements h's free slot count if one is available.
func (h *Host) AcquireSlot() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.slots <= 0 {
		return false
	}
	h.slots--
	return true
}

// ReleaseSlot increments h's free slot count, clamped to maxSlots.
func (h *Host) ReleaseSlot() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.slots < h.maxSlots {
		h.slots++
	}
}

// RecordTransferSuccess appends c to h's owned set and resets its failure
// count. It returns true exactly once, the moment h transitions into
// ALL_CHUNKS_RECEIVED (split finished and every chunk owned); callers use
// this to fire exactly one cat enqueue per host.
func (h *Host) RecordTransferSuccess(c Chunk, chunkCount int, splitComplete bool) (justCompleted bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.owned = append(h.owned, c)
	h.failCount = 0
	if h.state == stateNeedsChunks && splitComplete && len(h.owned) == chunkCount {
		h.state = stateAllChunksReceived
		return true
	}
	return false
}

// RecordTransferFailure re-queues c at the tail of h's needed list and
// increments its consecutive-failure count, returning the new count.
func (h *Host) RecordTransferFailure(c Chunk) (failCount int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.needed = append(h.needed, c)
	h.failCount++
	return h.failCount
}

// MarkCatted transitions h from ALL_CHUNKS_RECEIVED to CATTED. It is a
// no-op if h is not in that state (e.g. already dead).
func (h *Host) MarkCatted() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state == stateAllChunksReceived {
		h.state = stateCatted
	}
}

// MarkCleaned transitions h from CATTED to CLEANED.
func (h *Host) MarkCleaned() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state == stateCatted {
		h.state = stateCleaned
	}
}

// MarkDead transitions h to the terminal DEAD state from any prior state,
// zeroing its slots so it is never again selected by Match, and notifies db
// exactly once even if MarkDead is called multiple times concurrently.
func (h *Host) MarkDead(db *Database) {
	h.mu.Lock()
	alreadyDead := h.state == stateDead
	h.state = stateDead
	h.alive = false
	h.slots = 0
	h.mu.Unlock()

	if !alreadyDead {
		db.incDeadHosts()
	}
}

// Probe performs a synchronous ssh liveness check against h, bounded by
// DefaultProbeTimeout so a single hung connect attempt cannot stall a
// transfer worker forever. attempted is false if another probe against h
// was already in flight; the caller should treat that as "don't know yet"
// rather than as a failure.
func (h *Host) Probe(ctx context.Context) (alive, attempted bool) {
	if !h.probing.TryLock() {
		return false, false
	}
	defer h.probing.Unlock()

	cctx, cancel := context.WithTimeout(ctx, DefaultProbeTimeout)
	defer cancel()

	args := ProbeArgs(h)
	cmd := exec.CommandContext(cctx, "ssh", args...)
	ok := cmd.Run() == nil

	h.mu.Lock()
	h.alive = ok
	h.mu.Unlock()
	return ok, true
}
