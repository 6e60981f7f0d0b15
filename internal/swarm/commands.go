package swarm

import "fmt"

// TransportKind selects which remote-copy binary the transfer worker
// invokes to move a chunk from a seed to a target.
type TransportKind int

// The three supported copy transports; exactly one is selected per run.
const (
	TransportSCP TransportKind = iota
	TransportRCP
	TransportRSYNC
)

func (t TransportKind) String() string {
	switch t {
	case TransportSCP:
		return "scp"
	case TransportRCP:
		return "rcp"
	case TransportRSYNC:
		return "rsync"
	default:
		return "unknown"
	}
}

// remoteAddress renders the ssh destination for h, including the
// configured username if one was supplied via -u.
func remoteAddress(h *Host) string {
	if h.user == "" {
		return h.address
	}
	return h.user + "@" + h.address
}

// TransferArgs builds the argv for the ssh-wrapped copy command that moves
// chunk c from seed to target over the given transport. The canonical form
// is "ssh <seed> <copy-cmd> <chunk> <target>:<chunk>".
func TransferArgs(transport TransportKind, seed, target *Host, c Chunk) []string {
	dest := fmt.Sprintf("%s:%s", remoteAddress(target), c.Name)
	var copyCmd []string
	switch transport {
	case TransportSCP:
		copyCmd = []string{"scp", "-c", "blowfish", "-o", "StrictHostKeyChecking=no", c.Name, dest}
	case TransportRCP:
		copyCmd = []string{"rcp", c.Name, dest}
	case TransportRSYNC:
		copyCmd = []string{"rsync", "-c", c.Name, dest}
	default:
		copyCmd = []string{"scp", "-c", "blowfish", "-o", "StrictHostKeyChecking=no", c.Name, dest}
	}
	args := []string{"-o", "StrictHostKeyChecking=no", remoteAddress(seed)}
	return append(args, copyCmd...)
}

// CatArgs builds the argv for the ssh-wrapped concatenation command that
// assembles every chunk under prefix into destPath on host h.
func CatArgs(h *Host, prefix, destPath string) []string {
	remoteCmd := fmt.Sprintf("cat %s* > %s", prefix, destPath)
	return []string{"-o", "StrictHostKeyChecking=no", remoteAddress(h), remoteCmd}
}

// RmArgs builds the argv for the ssh-wrapped cleanup command that removes
// every chunk under prefix from host h.
func RmArgs(h *Host, prefix string) []string {
	remoteCmd := fmt.Sprintf("rm -f %s*", prefix)
	return []string{"-o", "StrictHostKeyChecking=no", remoteAddress(h), remoteCmd}
}

// ProbeArgs builds the argv for the ssh liveness probe: exit 0 iff h is
// reachable.
func ProbeArgs(h *Host) []string {
	return []string{"-o", "StrictHostKeyChecking=no", remoteAddress(h), "exit"}
}

// SplitArgs builds the argv for invoking the local splitter child process.
func SplitArgs(chunksize, sourcePath, prefix string) []string {
	return []string{"--verbose", "-b", chunksize, sourcePath, prefix}
}
