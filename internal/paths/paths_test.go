// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfigDir_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(ConfigDirEnv, dir)

	assert.Equal(t, dir, GetConfigDir())
	assert.Equal(t, filepath.Join(dir, "config.yaml"), GetConfigFile())

	candidates := ConfigFileCandidates()
	require.GreaterOrEqual(t, len(candidates), 2)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), candidates[0])
	assert.Equal(t, filepath.Join(dir, "config.yml"), candidates[1])
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "", NormalizePath(""))
	assert.Equal(t, filepath.Join("assets", "menu.pdf"), NormalizePath("assets/./menu.pdf"))

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "docs", "a.pdf"), NormalizePath("~/docs/a.pdf"))
}

func TestResolvePath(t *testing.T) {
	got, err := ResolvePath("menu.pdf")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))

	got, err = ResolvePath("")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}
