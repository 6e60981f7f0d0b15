package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/swarmcp/swarmcp/internal/swarm"
	"github.com/swarmcp/swarmcp/internal/swarm/scheduler"
	"github.com/swarmcp/swarmcp/internal/swarm/splitter"
	"github.com/swarmcp/swarmcp/persist"
	sync2 "github.com/swarmcp/swarmcp/sync"
)

// transfercmd is the Run body for the root command: split file locally,
// distribute it chunk by chunk across the target swarm, and assemble it at
// dest on every target.
func transfercmd(file, dest string) {
	sourcePath, err := filepath.Abs(file)
	if err != nil {
		die("ERROR:", err)
	}
	if _, err := os.Stat(sourcePath); err != nil {
		die("ERROR:", sourcePath, "not found")
	}

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

	origin := swarm.NewHost(hostname, username, maxSlots, swarm.DefaultMaxFailCount, true)
	targetHosts := make([]*swarm.Host, len(targets))
	for i, t := range targets {
		targetHosts[i] = swarm.NewHost(t, username, maxSlots, swarm.DefaultMaxFailCount, false)
	}
	db := swarm.NewDatabase(origin, targetHosts, transport(), keepChunks)

	var log *persist.Logger
	if statsLog || verbose {
		log, err = persist.NewLogger(logfile)
		if err != nil {
			die("ERROR:", err)
		}
		defer log.Close()
	}

	prefix := swarm.ChunkPrefix(filepath.Base(sourcePath))
	cfg := scheduler.Config{
		Prefix:                 prefix,
		DestPath:               dest,
		MaxConcurrentTransfers: swarm.DefaultMaxConcurrentTransfers,
		MaxProcs:               swarm.DefaultMaxProcs,
		Verbose:                verbose,
		Stats:                  statsLog,
	}
	sched := scheduler.New(db, cfg, log)

	var interrupt sync2.ThreadGroup
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	defer signal.Stop(sigChan)
	go func() {
		if _, ok := <-sigChan; ok {
			fmt.Println("\rcaught interrupt, waiting for in-flight transfers to finish...")
			interrupt.Stop()
		}
	}()

	fmt.Printf("transferring %s to %d hosts ...\n", file, len(targets))

	driverDone := make(chan error, 1)
	go func() {
		d := splitter.New(chunksize, sourcePath, prefix)
		err := d.Run(db.RegisterNewChunk)
		if err == nil {
			db.SetSplitComplete()
		}
		driverDone <- err
	}()

	splitterErr := sched.Run(context.Background(), &interrupt, driverDone)
	sched.Finalize()

	if splitterErr != nil {
		die("ERROR:", splitterErr)
	}
	// Cleanup failures are reported but never fatal: the file has already
	// reached every surviving host by the time Finalize runs the rm/cat
	// sweep.
	if err := sched.Err(); err != nil {
		fmt.Fprintln(os.Stderr, "warning:", err)
	}

	fmt.Println("done")
}
