// Pincab Core
// Copyright (c) 2026 The Pincab Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Pincab Core.
//
// Pincab Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Pincab Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Pincab Core.  If not, see <http://www.gnu.org/licenses/>.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigWritesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, CfgFile),
		"a missing config file is created from defaults")
	assert.Empty(t, cfg.TablesDir())
	assert.False(t, cfg.RemoveMissing())
	assert.False(t, cfg.DebugLogging())
}

func TestConfigLoadOverlaysFileOnDefaults(t *testing.T) {
	dir := t.TempDir()
	content := `
config_schema = 1
debug_logging = true

[tables]
dir = "/pincab/tables"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, CfgFile), []byte(content), 0o600))

	cfg, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)

	assert.Equal(t, "/pincab/tables", cfg.TablesDir())
	assert.True(t, cfg.DebugLogging())
	assert.False(t, cfg.RemoveMissing(),
		"fields absent from the file keep their defaults")
}

func TestConfigSchemaMismatch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, CfgFile),
		[]byte("config_schema = 99\n"), 0o600))

	_, err := NewConfig(dir, BaseDefaults)
	assert.Error(t, err)
}

func TestConfigSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)

	cfg.SetTablesDir("/pincab/tables")
	cfg.SetMediaDir("/pincab/media")
	cfg.SetRemoveMissing(true)
	require.NoError(t, cfg.Save())

	reloaded, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)
	assert.Equal(t, "/pincab/tables", reloaded.TablesDir())
	assert.Equal(t, "/pincab/media", reloaded.MediaDir())
	assert.True(t, reloaded.RemoveMissing())
}

func TestConfigEnvOverridesPath(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, "custom", "my.toml")
	t.Setenv(CfgEnv, envPath)

	cfg, err := NewConfig(filepath.Join(dir, "unused"), BaseDefaults)
	require.NoError(t, err)

	assert.Equal(t, envPath, cfg.Path())
	assert.FileExists(t, envPath)
}

func TestMatchWeightsDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)

	w := cfg.MatchWeights()
	assert.Equal(t, DefaultMatchWeights(), w)
	assert.Equal(t, 10, w.NameExact)
	assert.Equal(t, 5, w.MinScore)
}

func TestMatchWeightsOverrides(t *testing.T) {
	dir := t.TempDir()
	content := `
config_schema = 1

[matching]
name_exact = 20
min_score = 8
fuzzy_strong = 0.95
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, CfgFile), []byte(content), 0o600))

	cfg, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)

	w := cfg.MatchWeights()
	assert.Equal(t, 20, w.NameExact)
	assert.Equal(t, 8, w.MinScore)
	assert.InDelta(t, 0.95, w.FuzzyStrong, 0.0001)
	assert.Equal(t, 7, w.NameContains,
		"weights not mentioned in the file keep their defaults")
}
