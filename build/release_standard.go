// +build !testing,!dev

package build

// Release is set to "standard" for a normal build of swarmcp. Panics are
// never triggered by Critical/Severe in this configuration; they only
// print.
const Release = "standard"

// DEBUG is disabled in a standard build.
const DEBUG = false
