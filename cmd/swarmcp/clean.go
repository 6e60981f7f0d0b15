package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/swarmcp/swarmcp/internal/swarm"
	"github.com/swarmcp/swarmcp/internal/swarm/procpool"
	"github.com/swarmcp/swarmcp/persist"
)

// cleanRecordMetadata identifies the on-disk format of the informational
// record cleancmd leaves behind. Nothing in swarmcp ever reads this record
// back; it exists purely so an operator can see, after the fact, which
// prefix and hosts the last clean run targeted.
var cleanRecordMetadata = persist.Metadata{
	Header:  "swarmcp clean record",
	Version: "1.0",
}

type cleanRecord struct {
	Prefix string
	Hosts  []string
}

// cleancmd implements the "clean" subcommand: remove chunks left over from
// a prior transfer of file, without re-sending anything.
func cleancmd(file, _ string) {
	targets, err := resolveTargets()
	if err != nil {
		die("ERROR:", err)
	}
	if len(targets) == 0 {
		die("ERROR: at least one target host is required (-f, -l, or -r)")
	}

	hostname, err := os.Hostname()
	if err != nil {
		die("ERROR:", err)
	}
	hosts := append([]string{hostname}, targets...)

	prefix := swarm.ChunkPrefix(filepath.Base(file))
	fmt.Println("removing chunks ...")

	pool := procpool.New(swarm.DefaultMaxProcs)
	for _, address := range hosts {
		h := swarm.NewHost(address, username, 0, 0, address == hostname)
		argv := append([]string{"ssh"}, swarm.RmArgs(h, prefix)...)
		pool.Put(argv)
	}
	pool.Finish()

	record := cleanRecord{Prefix: prefix, Hosts: hosts}
	recordPath := filepath.Join(os.TempDir(), filepath.Base(prefix)+"clean.json")
	if err := persist.SaveJSON(cleanRecordMetadata, record, recordPath); err != nil {
		fmt.Fprintln(os.Stderr, "warning: failed to write clean record:", err)
	}

	fmt.Println("done")
}
