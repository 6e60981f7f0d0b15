package main

import (
	"fmt"
	"os"

	"github.com/NebulousLabs/errors"
	"github.com/spf13/cobra"

	"github.com/swarmcp/swarmcp/build"
	"github.com/swarmcp/swarmcp/internal/swarm"
)

// Exit codes. inspired by sysexits.h
const (
	exitCodeGeneral = 1  // not in sysexits.h, but is standard practice
	exitCodeUsage   = 64 // EX_USAGE in sysexits.h
)

var (
	// Flags shared by the transfer and clean commands.
	hostfileArg string
	hostlistArg string
	hostrngArg  string
	chunksize   string
	username    string
	logfile     string
	statsLog    bool
	verbose     bool
	maxSlots    int
	keepChunks  bool
	useRsync    bool
	useSCP      bool
	useRCP      bool

	rootCmd *cobra.Command
)

// die prints its arguments to stderr, then exits with the default error
// code.
func die(args ...interface{}) {
	fmt.Fprintln(os.Stderr, args...)
	os.Exit(exitCodeGeneral)
}

func main() {
	long := "swarmcp v" + build.Version + " distributes a file to a swarm of hosts by chunked peer-to-peer transfer."
	if build.GitRevision != "" {
		long += " (" + build.GitRevision + ")"
	}

	root := &cobra.Command{
		Use:   "swarmcp <file> <filedest>",
		Short: "swarmcp v" + build.Version,
		Long:  long,
		Args:  cobra.ExactArgs(2),
		Run:   wrap(transfercmd),
	}
	rootCmd = root

	cleanCmd := &cobra.Command{
		Use:   "clean <file>",
		Short: "remove chunks left over from a prior transfer of <file>",
		Args:  cobra.ExactArgs(1),
		Run:   wrap(cleancmd),
	}
	root.AddCommand(cleanCmd)

	root.PersistentFlags().StringVarP(&hostfileArg, "hostfile", "f", "", "'\\n' separated file of target hosts")
	root.PersistentFlags().StringVarP(&hostlistArg, "hostlist", "l", "", "space-separated list of target hosts, e.g. '-l \"host1 host2\"'")
	root.PersistentFlags().StringVarP(&hostrngArg, "hostrange", "r", "", "basehost[a-b,c-d,...] numeric host range, e.g. host[1-2,4-5]")
	root.PersistentFlags().StringVarP(&chunksize, "chunksize", "b", swarm.DefaultChunkSize, "chunk size, passed straight through to split(1)'s -b")
	root.PersistentFlags().StringVarP(&username, "user", "u", "", "remote username to use for every host")
	root.PersistentFlags().StringVar(&logfile, "logfile", "swarmcp.log", "path to the stats/verbose log file")
	root.PersistentFlags().BoolVarP(&statsLog, "stats", "s", false, "log transfer statistics to --logfile")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every completed transfer to --logfile")
	root.PersistentFlags().IntVarP(&maxSlots, "slots", "t", swarm.DefaultMaxSlotsPerHost, "maximum concurrent transfers per host")
	root.PersistentFlags().BoolVarP(&keepChunks, "persist", "p", false, "allow chunks to persist on targets; skip the end-of-run cleanup sweep")
	root.PersistentFlags().BoolVar(&useRsync, "rsync", false, "transfer chunks with rsync instead of scp")
	root.PersistentFlags().BoolVar(&useSCP, "scp", false, "transfer chunks with scp (default)")
	root.PersistentFlags().BoolVar(&useRCP, "rcp", false, "transfer chunks with rcp instead of scp")

	if err := root.Execute(); err != nil {
		os.Exit(exitCodeGeneral)
	}
}

// wrap adapts a (file, dest string) handler to cobra's Run signature; cobra's
// Args validator has already guaranteed the argument count by the time it
// runs.
func wrap(fn func(file, dest string)) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		if len(args) == 1 {
			fn(args[0], "")
			return
		}
		fn(args[0], args[1])
	}
}

// transport picks the transfer transport selected by the --scp/--rcp/--rsync
// flags. --scp is the implicit default; at most one of the others should be
// set, and the first one checked wins if more than one is given.
func transport() swarm.TransportKind {
	switch {
	case useRsync:
		return swarm.TransportRSYNC
	case useRCP:
		return swarm.TransportRCP
	default:
		return swarm.TransportSCP
	}
}

// resolveTargets combines every host source given on the command line
// (-f, -l, -r) into one deduplicated target list. Every source is
// attempted even if an earlier one fails, so a bad -f and a bad -r are
// reported together rather than one at a time across repeated runs.
func resolveTargets() ([]string, error) {
	var hosts []string
	var errs []error

	if hostfileArg != "" {
		fileHosts, err := readHostfile(hostfileArg)
		if err != nil {
			errs = append(errs, err)
		}
		hosts = append(hosts, fileHosts...)
	}
	if hostrngArg != "" {
		rngHosts, err := expandHostRange(hostrngArg)
		if err != nil {
			errs = append(errs, err)
		}
		hosts = append(hosts, rngHosts...)
	}
	if hostlistArg != "" {
		hosts = append(hosts, splitHostlist(hostlistArg)...)
	}

	if len(errs) > 0 {
		return nil, errors.Compose(errs...)
	}
	return dedupeHosts(hosts), nil
}
