package swarm

import "errors"

// ErrSplitterFailed is surfaced by the splitter driver when the split child
// process exits before emitting end-of-output cleanly. splitComplete is
// never set in that case, so the scheduler would otherwise loop until the
// operator interrupts it.
var ErrSplitterFailed = errors.New("swarm: splitter exited before completing")
