// Package version exposes build metadata injected via -ldflags.
package version

var (
	// Version is the release version.
	Version = "0.1.0"

	// BuildTime is when the binary was built, UTC.
	BuildTime = "unknown"

	// GitCommit is the git commit the binary was built from.
	GitCommit = "unknown"
)
