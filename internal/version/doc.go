// Package version exposes build metadata (semantic version, commit hash
// and build timestamp) injected via ldflags, plus a helper that attaches
// a `version` subcommand to the CLI.
package version
