// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Build metadata, overridden with -ldflags "-X pdf-extract/internal/version.Version=..."
var (
	Version   = "0.0.0-development"
	GitCommit = "unknown"
	BuildDate = "unknown"

	GoVersion = runtime.Version()
	Platform  = fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
)

// BuildInfo is the resolved build metadata
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

// Get resolves build metadata, falling back to the VCS stamp the Go
// toolchain embeds when ldflags did not set a commit.
func Get() BuildInfo {
	info := BuildInfo{
		Version:   Version,
		Commit:    GitCommit,
		BuildDate: BuildDate,
		GoVersion: GoVersion,
		Platform:  Platform,
	}

	if info.Commit == "unknown" {
		if bi, ok := debug.ReadBuildInfo(); ok {
			for _, s := range bi.Settings {
				switch s.Key {
				case "vcs.revision":
					info.Commit = s.Value
				case "vcs.time":
					if info.BuildDate == "unknown" {
						info.BuildDate = s.Value
					}
				}
			}
		}
	}
	return info
}

// Info returns formatted version information
func Info() string {
	b := Get()
	return fmt.Sprintf("pdf-extract %s (commit: %s, built: %s, go: %s, platform: %s)",
		b.Version, b.Commit, b.BuildDate, b.GoVersion, b.Platform)
}

// Short returns just the version number
func Short() string {
	return Version
}

// Full returns detailed version information
func Full() map[string]string {
	b := Get()
	return map[string]string{
		"version":   b.Version,
		"commit":    b.Commit,
		"buildDate": b.BuildDate,
		"goVersion": b.GoVersion,
		"platform":  b.Platform,
	}
}
