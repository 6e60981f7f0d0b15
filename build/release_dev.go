// +build dev

package build

// Release is set to "dev" when swarmcp is built with the dev tag.
const Release = "dev"

// DEBUG is enabled in a dev build: Critical/Severe panic instead of only
// printing, so invariant violations surface immediately during development.
const DEBUG = true
