package swarm

import (
	"sync"

	"github.com/NebulousLabs/fastrand"

	"github.com/swarmcp/swarmcp/build"
)

// Database is the aggregate swarm state: the host array, with the origin
// at a distinguished position, plus the counters the scheduler needs to
// know when the run is complete. All cross-host operations (Match,
// RegisterNewChunk, HostDone, incDeadHosts, split-complete) hold mu for
// their duration; per-host fields are additionally guarded by each host's
// own mutex. Lock ordering is always database-then-host.
type Database struct {
	mu sync.Mutex

	hosts  []*Host
	origin *Host

	chunkCount    int
	splitComplete bool

	hostsWithFile int
	deadHosts     int
	rrCursor      int

	transport  TransportKind
	keepChunks bool
}

// NewDatabase builds a swarm database for one origin and a set of targets.
// hostsWithFile starts at 1, since the origin already has the complete
// file.
func NewDatabase(origin *Host, targets []*Host, transport TransportKind, keepChunks bool) *Database {
	hosts := make([]*Host, 0, len(targets)+1)
	hosts = append(hosts, origin)
	hosts = append(hosts, targets...)
	return &Database{
		hosts:         hosts,
		origin:        origin,
		hostsWithFile: 1,
		transport:     transport,
		keepChunks:    keepChunks,
	}
}

// Hosts returns every host in the swarm, origin included, in a stable
// order.
func (db *Database) Hosts() []*Host {
	db.mu.Lock()
	defer db.mu.Unlock()
	out := make([]*Host, len(db.hosts))
	copy(out, db.hosts)
	return out
}

// Origin returns the origin host.
func (db *Database) Origin() *Host {
	return db.origin
}

// Transport returns the transport selected for this run.
func (db *Database) Transport() TransportKind {
	return db.transport
}

// KeepChunks reports whether the finalizer should skip the end-of-run rm
// sweep (the -p flag).
func (db *Database) KeepChunks() bool {
	return db.keepChunks
}

// ChunkCount returns the number of chunks produced so far.
func (db *Database) ChunkCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.chunkCount
}

// SplitComplete reports whether the splitter has finished producing
// chunks.
func (db *Database) SplitComplete() bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.splitComplete
}

// SetSplitComplete marks the splitter as finished. Called by the splitter
// driver once, on end-of-output.
func (db *Database) SetSplitComplete() {
	db.mu.Lock()
	db.splitComplete = true
	db.mu.Unlock()
}

// HostDone increments the count of hosts that now hold every chunk.
func (db *Database) HostDone() {
	db.mu.Lock()
	db.hostsWithFile++
	db.mu.Unlock()
}

// incDeadHosts increments the dead-host counter. Called by Host.MarkDead,
// never directly.
func (db *Database) incDeadHosts() {
	db.mu.Lock()
	db.deadHosts++
	db.mu.Unlock()
}

// Done reports whether the run can terminate: every host is either
// complete or dead.
func (db *Database) Done() bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.hostsWithFile+db.deadHosts >= len(db.hosts)
}

func containsChunk(chunks []Chunk, c Chunk) bool {
	for _, existing := range chunks {
		if existing.Equal(c) {
			return true
		}
	}
	return false
}

func removeChunk(chunks *[]Chunk, c Chunk) {
	s := *chunks
	for i, existing := range s {
		if existing.Equal(c) {
			*chunks = append(s[:i], s[i+1:]...)
			return
		}
	}
}

// Match selects one eligible (seed, target, chunk) triple, debits a slot
// from each host, and removes the chunk from the target's needed list. The
// scheduler is responsible for re-inserting the chunk (via
// Host.RecordTransferFailure) if the transfer it launches fails. Match
// returns ok=false if no triple is currently available.
//
// Target selection rotates rrCursor to spread load across targets under
// contention; seed selection starts from a random offset so that freshly
// produced chunks do not funnel only through the origin.
func (db *Database) Match() (seed, target *Host, chunk Chunk, ok bool) {
	db.mu.Lock()
	defer db.mu.Unlock()

	n := len(db.hosts)
	if n == 0 {
		return nil, nil, Chunk{}, false
	}

	var t *Host
	for i := 0; i < n; i++ {
		db.rrCursor = (db.rrCursor + 1) % n
		cand := db.hosts[db.rrCursor]
		if cand == db.origin {
			continue
		}
		cand.mu.Lock()
		eligible := cand.state != stateDead && cand.alive && cand.slots > 0 && len(cand.needed) > 0
		cand.mu.Unlock()
		if eligible {
			t = cand
			break
		}
	}
	if t == nil {
		return nil, nil, Chunk{}, false
	}

	t.mu.Lock()
	neededCopy := make([]Chunk, len(t.needed))
	copy(neededCopy, t.needed)
	t.mu.Unlock()

	for _, c := range neededCopy {
		start := fastrand.Intn(n)
		for i := 0; i < n; i++ {
			idx := (start + i) % n
			s := db.hosts[idx]
			if s == t {
				continue
			}
			s.mu.Lock()
			owns := s.state != stateDead && s.alive && s.slots > 0 && containsChunk(s.owned, c)
			if owns {
				s.slots--
			}
			s.mu.Unlock()
			if !owns {
				continue
			}

			t.mu.Lock()
			t.slots--
			removeChunk(&t.needed, c)
			t.mu.Unlock()

			return s, t, c, true
		}
	}
	return nil, nil, Chunk{}, false
}

// RegisterNewChunk appends c to the origin's owned set and inserts it into
// every other host's needed list at a uniformly random position, then
// advances that host's chunkIndex. Random insertion diversifies demand
// order across hosts so different targets pull different chunks from the
// origin in parallel. Called once per chunk by the splitter driver.
func (db *Database) RegisterNewChunk(c Chunk) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.splitComplete {
		build.Critical("RegisterNewChunk called after SetSplitComplete for chunk", c.Name)
	}

	db.origin.mu.Lock()
	db.origin.owned = append(db.origin.owned, c)
	ownedLen := len(db.origin.owned)
	db.origin.mu.Unlock()

	db.chunkCount++

	// origin.owned is only ever appended to inside RegisterNewChunk, which
	// db.mu serializes, so reading it here without origin.mu is safe.
	for _, h := range db.hosts {
		if h == db.origin {
			continue
		}
		h.mu.Lock()
		newChunks := db.origin.owned[h.chunkIndex:ownedLen]
		for _, nc := range newChunks {
			pos := 0
			if len(h.needed) > 0 {
				pos = fastrand.Intn(len(h.needed) + 1)
			}
			h.needed = append(h.needed, Chunk{})
			copy(h.needed[pos+1:], h.needed[pos:])
			h.needed[pos] = nc
		}
		h.chunkIndex = ownedLen
		h.mu.Unlock()
	}
}
