package version

import "fmt"

var (
	// Version is the current application version
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// String returns the one-line version banner printed by `polytile version`.
func String() string {
	return fmt.Sprintf("polytile %s (%s, built %s)", Version, GitSHA, BuildTime)
}
