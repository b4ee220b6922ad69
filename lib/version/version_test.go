// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"os"
	"runtime"
	"strings"
	"testing"

	"github.com/bureau-foundation/bundleviz/lib/digest"
)

func TestInfoIncludesVersion(t *testing.T) {
	info := Info()
	if !strings.HasPrefix(info, Version+" (") {
		t.Errorf("Info() = %q, want prefix %q", info, Version+" (")
	}
	if Short() != Version {
		t.Errorf("Short() = %q, want %q", Short(), Version)
	}
}

func TestInfoHonorsInjectedValues(t *testing.T) {
	savedCommit, savedDirty, savedTime := GitCommit, GitDirty, BuildTime
	t.Cleanup(func() {
		GitCommit, GitDirty, BuildTime = savedCommit, savedDirty, savedTime
	})

	GitCommit = "abc1234"
	GitDirty = "true"
	BuildTime = "2026-01-02T03:04:05Z"

	want := Version + " (abc1234-dirty, 2026-01-02T03:04:05Z)"
	if got := Info(); got != want {
		t.Errorf("Info() = %q, want %q", got, want)
	}
	if got := Commit(); got != "abc1234" {
		t.Errorf("Commit() = %q, want abc1234", got)
	}
}

func TestFull(t *testing.T) {
	full := Full()
	for _, want := range []string{Info(), runtime.Version(), runtime.GOOS + "/" + runtime.GOARCH} {
		if !strings.Contains(full, want) {
			t.Errorf("Full() = %q, missing %q", full, want)
		}
	}
}

func TestSelfDigest(t *testing.T) {
	got, err := SelfDigest()
	if err != nil {
		t.Fatalf("SelfDigest: %v", err)
	}
	executable, err := os.Executable()
	if err != nil {
		t.Fatalf("os.Executable: %v", err)
	}
	want, err := digest.File(executable)
	if err != nil {
		t.Fatalf("digest.File: %v", err)
	}
	if got != want {
		t.Errorf("SelfDigest() = %s, want %s", got, want)
	}
}
