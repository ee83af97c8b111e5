// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// AppName names the per-user configuration directory
const AppName = "pdf-extract"

// ConfigDirEnv overrides the configuration directory on every platform
const ConfigDirEnv = "PDF_EXTRACT_CONFIG_DIR"

// GetConfigDir returns the pdf-extract configuration directory.
// APPDATA on Windows, XDG_CONFIG_HOME (or ~/.config) on Unix.
func GetConfigDir() string {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir
	}

	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, AppName)
}

// GetConfigFile returns the path to the main config file
func GetConfigFile() string {
	dir := GetConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// ConfigFileCandidates lists the per-user config locations in lookup order
func ConfigFileCandidates() []string {
	var candidates []string

	if dir := GetConfigDir(); dir != "" {
		candidates = append(candidates,
			filepath.Join(dir, "config.yaml"),
			filepath.Join(dir, "config.yml"),
		)
	}

	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates,
			filepath.Join(home, ".pdf-extract.yaml"),
			filepath.Join(home, ".pdf-extract.yml"),
		)
	}

	return candidates
}

// NormalizePath expands a leading ~ and cleans the path
func NormalizePath(path string) string {
	if path == "" {
		return ""
	}

	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[1:])
		}
	}

	return filepath.Clean(path)
}

// ResolvePath resolves a path to its absolute form
func ResolvePath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	return filepath.Abs(NormalizePath(path))
}
