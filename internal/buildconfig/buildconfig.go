// Package buildconfig carries version information injected at link time:
//
//	go build -ldflags "-X github.com/Harshitk-cp/lide/internal/buildconfig.version=v0.3.0 \
//	  -X github.com/Harshitk-cp/lide/internal/buildconfig.commit=$(git rev-parse --short HEAD)"
package buildconfig

import "runtime"

// Build-time variables injected via ldflags
var (
	version = "dev"
	commit  = "unknown"
)

// Version returns the build version
func Version() string {
	return version
}

// Commit returns the git commit hash
func Commit() string {
	return commit
}

// VersionInfo returns full version information
func VersionInfo() map[string]string {
	return map[string]string{
		"version":    version,
		"commit":     commit,
		"go_version": runtime.Version(),
	}
}

// String renders the version for CLI output.
func String() string {
	return version + " (" + commit + ", " + runtime.Version() + ")"
}
