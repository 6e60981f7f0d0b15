// Package splitter wraps the local split(1) child process that produces
// the chunks the swarm distributes.
package splitter

import (
	"bufio"
	"fmt"
	"os/exec"
	"strings"

	"github.com/swarmcp/swarmcp/internal/swarm"
)

// Driver starts `split --verbose -b <chunksize> <sourcePath> <prefix>` and
// reads its stdout one line at a time.
type Driver struct {
	chunksize  string
	sourcePath string
	prefix     string
}

// New returns a Driver configured to split sourcePath into chunksize pieces
// named under prefix.
func New(chunksize, sourcePath, prefix string) *Driver {
	return &Driver{chunksize: chunksize, sourcePath: sourcePath, prefix: prefix}
}

// Run starts the split child and calls onChunk once per produced chunk, in
// production order, as soon as its birth line is read. It returns once the
// child's stdout reaches EOF. A non-zero exit is reported as
// swarm.ErrSplitterFailed; callers must not mark the split complete in that
// case, since an error return here means Run did not reach clean EOF.
func (d *Driver) Run(onChunk func(swarm.Chunk)) error {
	cmd := exec.Command("split", swarm.SplitArgs(d.chunksize, d.sourcePath, d.prefix)...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return err
	}

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		name, ok := parseChunkName(scanner.Text())
		if !ok {
			continue
		}
		onChunk(swarm.Chunk{Name: name})
	}
	if err := scanner.Err(); err != nil {
		cmd.Wait()
		return fmt.Errorf("%w: %v", swarm.ErrSplitterFailed, err)
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("%w: %v", swarm.ErrSplitterFailed, err)
	}
	return nil
}

// parseChunkName extracts the chunk filename from one line of split's
// --verbose output: the third whitespace-delimited token, with surrounding
// backticks or single quotes stripped.
func parseChunkName(line string) (name string, ok bool) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return "", false
	}
	return strings.Trim(fields[2], "`'"), true
}
