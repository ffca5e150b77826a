package buildconfig

import "testing"

func TestString(t *testing.T) {
	oldVersion, oldCommit := version, commit
	defer func() { version, commit = oldVersion, oldCommit }()

	version, commit = "v0.3.0", "0123456789abcdef"
	if got, want := String(), "claimcheck v0.3.0 (commit 0123456)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	commit = "abc"
	if got, want := String(), "claimcheck v0.3.0 (commit abc)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	info := VersionInfo()
	if info["version"] != "v0.3.0" || info["commit"] != "abc" {
		t.Errorf("VersionInfo() = %v", info)
	}
}
