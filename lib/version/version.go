// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/bureau-foundation/bundleviz/lib/digest"
)

// These variables are set via -ldflags at build time.
var (
	// GitCommit is the short git SHA of the build.
	GitCommit = "unknown"

	// GitDirty indicates whether there were uncommitted changes.
	GitDirty = "false"

	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"

	// Version is the semantic version. This is set manually for releases.
	Version = "0.1.0-dev"
)

// buildSettings fills in whatever -ldflags left unset from the VCS
// stamp the go command embeds.
func buildSettings() (commit, dirty, buildTime string) {
	commit, dirty, buildTime = GitCommit, GitDirty, BuildTime

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return commit, dirty, buildTime
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if commit == "unknown" && setting.Value != "" {
				commit = setting.Value
				if len(commit) > 12 {
					commit = commit[:12]
				}
			}
		case "vcs.modified":
			if dirty == "false" && setting.Value == "true" {
				dirty = "true"
			}
		case "vcs.time":
			if buildTime == "unknown" && setting.Value != "" {
				buildTime = setting.Value
			}
		}
	}
	return commit, dirty, buildTime
}

// Info returns a formatted version string suitable for --version output.
func Info() string {
	commit, dirty, buildTime := buildSettings()
	suffix := ""
	if dirty == "true" {
		suffix = "-dirty"
	}
	return fmt.Sprintf("%s (%s%s, %s)", Version, commit, suffix, buildTime)
}

// Full returns detailed version information including Go version and
// the BLAKE3 digest of the running binary.
func Full() string {
	full := fmt.Sprintf("%s\n  Go: %s\n  Platform: %s/%s",
		Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
	if selfDigest, err := SelfDigest(); err == nil {
		full += "\n  Binary: " + selfDigest.String()
	}
	return full
}

// Short returns just the version number.
func Short() string {
	return Version
}

// Commit returns the git commit SHA.
func Commit() string {
	commit, _, _ := buildSettings()
	return commit
}

// SelfDigest returns the BLAKE3 digest of the currently running
// executable.
func SelfDigest() (digest.Digest, error) {
	path, err := os.Executable()
	if err != nil {
		return digest.Digest{}, fmt.Errorf("locating executable: %w", err)
	}
	return digest.File(path)
}
