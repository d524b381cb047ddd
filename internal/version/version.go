package version

import "fmt"

// These variables are set at build time via ldflags, e.g.
//
//	-X github.com/example/wds/internal/version.Version=v1.2.0
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// String returns the version line shown by --version and doctor.
func String() string {
	return fmt.Sprintf("wds %s (commit: %s, built: %s)", Version, shortCommit(), BuildTime)
}

func shortCommit() string {
	if len(Commit) > 7 {
		return Commit[:7]
	}
	return Commit
}
