package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/NebulousLabs/errors"
)

// readHostfile reads newline-separated hostnames from path, trimming
// whitespace and skipping blank lines.
func readHostfile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.AddContext(err, "failed to open hosts file")
	}
	defer f.Close()

	var hosts []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		host := strings.TrimSpace(scanner.Text())
		if host == "" {
			continue
		}
		hosts = append(hosts, host)
	}
	return hosts, scanner.Err()
}

// splitHostlist splits a whitespace-separated -l argument into individual
// hostnames.
func splitHostlist(arg string) []string {
	return strings.Fields(arg)
}

// expandHostRange expands a -r argument of the form
// "basehost[first-last,first-last,...]" into the hostnames named by every
// range, e.g. "host[1-2,4-5]" -> host1, host2, host4, host5. A range whose
// first field has leading zeros (e.g. "01-03") pads every generated suffix
// to that width.
func expandHostRange(arg string) ([]string, error) {
	arg = strings.ReplaceAll(arg, " ", "")
	open := strings.Index(arg, "[")
	if open < 0 || !strings.HasSuffix(arg, "]") {
		return nil, errors.New("invalid argument for -r: " + arg)
	}
	basehost := arg[:open]
	body := arg[open+1 : len(arg)-1]

	var hosts []string
	for _, rng := range strings.Split(body, ",") {
		parts := strings.SplitN(rng, "-", 2)
		if len(parts) != 2 {
			return nil, errors.New("invalid range in -r argument: " + rng)
		}
		first, last := parts[0], parts[1]
		firstNum, err := strconv.Atoi(first)
		if err != nil {
			return nil, errors.AddContext(err, "invalid range start: "+first)
		}
		lastNum, err := strconv.Atoi(last)
		if err != nil {
			return nil, errors.AddContext(err, "invalid range end: "+last)
		}
		for n := firstNum; n <= lastNum; n++ {
			leadingZeros := len(first) - len(strconv.Itoa(n))
			if leadingZeros < 0 {
				leadingZeros = 0
			}
			hosts = append(hosts, fmt.Sprintf("%s%s%d", basehost, strings.Repeat("0", leadingZeros), n))
		}
	}
	return hosts, nil
}

// dedupeHosts removes duplicate hostnames, preserving first-seen order so
// the resulting host list is deterministic across runs.
func dedupeHosts(hosts []string) []string {
	seen := make(map[string]bool, len(hosts))
	out := make([]string, 0, len(hosts))
	for _, h := range hosts {
		if seen[h] {
			continue
		}
		seen[h] = true
		out = append(out, h)
	}
	return out
}
