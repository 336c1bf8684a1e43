// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package version provides build-time version information.
package version

import "fmt"

// Info contains build-time version information injected via ldflags.
type Info struct {
	Version   string `json:"version"`    // Semantic version from git tags (e.g., "v1.2.3")
	GitCommit string `json:"git_commit"` // Short git commit hash (e.g., "abc1234")
	BuildTime string `json:"build_time"` // Build timestamp in RFC3339 format
}

// New fills empty fields with development placeholders.
func New(ver, commit, built string) Info {
	if ver == "" {
		ver = "dev"
	}
	if commit == "" {
		commit = "unknown"
	}
	if built == "" {
		built = "unknown"
	}
	return Info{Version: ver, GitCommit: commit, BuildTime: built}
}

// IsDev reports whether the binary was built without a release version.
func (i Info) IsDev() bool {
	return i.Version == "" || i.Version == "dev"
}

// String renders the banner printed by -version.
func (i Info) String() string {
	return fmt.Sprintf("florist %s (commit %s, built %s)", i.Version, i.GitCommit, i.BuildTime)
}
