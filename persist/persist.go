// Package persist collects the small set of disk primitives swarmcp needs:
// atomic file writes, checksummed JSON save/load, and a banner-bracketed
// file logger. None of it is swarm-specific; it is ambient persistence
// plumbing any module that touches disk can use.
package persist

import (
	"fmt"

	"github.com/NebulousLabs/fastrand"
)

// persistDir namespaces this package's own tests under the shared testing
// directory; it has no effect on production behavior.
const persistDir = "persist"

// RandomSuffix returns a random, filename-safe hex string. It is used to
// disambiguate temporary filenames so that concurrent writers never
// collide.
func RandomSuffix() string {
	return fmt.Sprintf("%x", fastrand.Bytes(8))
}
