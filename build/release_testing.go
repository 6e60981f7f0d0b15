// +build testing

package build

// Release is set to "testing" when swarmcp is built with the testing tag.
// Critical/Severe skip the stack dump in this configuration so test output
// stays readable.
const Release = "testing"

// DEBUG is enabled in a testing build, same as dev.
const DEBUG = true
