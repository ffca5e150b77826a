package buildconfig

import "fmt"

// Set at build time:
//
//	-ldflags "-X github.com/Harshitk-cp/claimcheck/internal/buildconfig.version=v1.2.0
//	          -X github.com/Harshitk-cp/claimcheck/internal/buildconfig.commit=abc1234"
var (
	version = "dev"
	commit  = "unknown"
)

func Version() string {
	return version
}

func Commit() string {
	return commit
}

// String returns "claimcheck <version> (commit <short>)".
func String() string {
	return fmt.Sprintf("claimcheck %s (commit %s)", version, shortCommit())
}

// VersionInfo returns version information for JSON output.
func VersionInfo() map[string]string {
	return map[string]string{
		"version": version,
		"commit":  commit,
	}
}

func shortCommit() string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}
