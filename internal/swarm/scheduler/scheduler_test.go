package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/swarmcp/swarmcp/internal/swarm"
	sync2 "github.com/swarmcp/swarmcp/sync"
)

func TestSchedulerRunReturnsWhenDatabaseAlreadyDone(t *testing.T) {
	origin := swarm.NewHost("origin", "", 4, 3, true)
	db := swarm.NewDatabase(origin, nil, swarm.TransportSCP, false)
	if !db.Done() {
		t.Fatal("a database with no targets should be done immediately")
	}

	s := New(db, Config{Prefix: "/tmp/x.chunk_", MaxConcurrentTransfers: 1, MaxProcs: 1}, nil)

	var interrupt sync2.ThreadGroup
	done := make(chan struct{})
	go func() {
		s.Run(context.Background(), &interrupt, nil)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return for an already-done database")
	}

	s.Finalize()
}

func TestSchedulerRunStopsOnInterrupt(t *testing.T) {
	origin := swarm.NewHost("origin", "", 4, 3, true)
	target := swarm.NewHost("target", "", 4, 3, false)
	db := swarm.NewDatabase(origin, []*swarm.Host{target}, swarm.TransportSCP, false)
	// No chunks are ever registered, so Match never succeeds and the loop
	// would otherwise spin forever waiting on the splitter.

	s := New(db, Config{Prefix: "/tmp/x.chunk_", MaxConcurrentTransfers: 1, MaxProcs: 1}, nil)

	var interrupt sync2.ThreadGroup
	done := make(chan struct{})
	go func() {
		s.Run(context.Background(), &interrupt, nil)
		close(done)
	}()

	interrupt.Stop()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after the interrupt group was stopped")
	}

	s.Finalize()
}

func TestSchedulerRunReturnsErrorOnSplitterFailure(t *testing.T) {
	origin := swarm.NewHost("origin", "", 4, 3, true)
	target := swarm.NewHost("target", "", 4, 3, false)
	db := swarm.NewDatabase(origin, []*swarm.Host{target}, swarm.TransportSCP, false)
	// No chunks are ever registered and splitComplete never becomes true, so
	// Match never succeeds; only the splitterDone failure should end Run.

	s := New(db, Config{Prefix: "/tmp/x.chunk_", MaxConcurrentTransfers: 1, MaxProcs: 1}, nil)

	var interrupt sync2.ThreadGroup
	splitterDone := make(chan error, 1)
	wantErr := errors.New("split: permission denied")
	splitterDone <- wantErr

	runErr := make(chan error, 1)
	go func() {
		runErr <- s.Run(context.Background(), &interrupt, splitterDone)
	}()

	select {
	case err := <-runErr:
		if err != wantErr {
			t.Fatalf("Run returned %v, want %v", err, wantErr)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return once the splitter reported failure")
	}

	s.Finalize()
}
