// Package version carries build metadata injected with -ldflags.
package version

import "fmt"

var (
	// Version is the release version.
	Version = "dev"
	// GitSHA is the commit the binary was built from.
	GitSHA = "unknown"
	// BuildTime is the build timestamp.
	BuildTime = "unknown"
)

// String formats the build metadata for startup logs and -version output.
func String() string {
	return fmt.Sprintf("headcloud %s (%s, built %s)", Version, GitSHA, BuildTime)
}
