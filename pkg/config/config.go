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
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/PinCabProject/pincab-core/pkg/helpers/syncutil"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
)

const (
	SchemaVersion = 1
	CfgEnv        = "PINCAB_CFG"
	CfgFile       = "config.toml"
	CatalogDBFile = "catalog.db"
	LogFile       = "pincab.log"
)

type Values struct {
	Tables       Tables   `toml:"tables,omitempty"`
	Media        Media    `toml:"media,omitempty"`
	Matching     Matching `toml:"matching,omitempty"`
	ConfigSchema int      `toml:"config_schema"`
	DebugLogging bool     `toml:"debug_logging"`
}

type Tables struct {
	// Dir is the root directory scanned recursively for table files.
	Dir string `toml:"dir,omitempty"`
	// RemoveMissing hard-deletes catalog rows whose files are gone instead
	// of disabling them.
	RemoveMissing bool `toml:"remove_missing"`
}

type Media struct {
	// Dir is the media root holding the per-category subdirectories
	// (images/table, videos/backglass, audio/launch, ...).
	Dir string `toml:"dir,omitempty"`
}

var BaseDefaults = Values{
	ConfigSchema: SchemaVersion,
}

type Instance struct {
	cfgPath  string
	vals     Values
	defaults Values
	mu       syncutil.RWMutex
}

//nolint:gocritic // config struct copied for immutability
func NewConfig(configDir string, defaults Values) (*Instance, error) {
	cfgPath := os.Getenv(CfgEnv)
	log.Debug().Msgf("env config path: %s", cfgPath)

	if cfgPath == "" {
		cfgPath = filepath.Join(configDir, CfgFile)
	}

	cfg := Instance{
		mu:       syncutil.RWMutex{},
		cfgPath:  cfgPath,
		vals:     defaults,
		defaults: defaults,
	}

	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		log.Info().Msg("saving new default config to disk")

		err := os.MkdirAll(filepath.Dir(cfgPath), 0o750)
		if err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}

		err = cfg.Save()
		if err != nil {
			return nil, err
		}
	}

	err := cfg.Load()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Instance) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	if _, err := os.Stat(c.cfgPath); err != nil {
		return fmt.Errorf("failed to stat config file: %w", err)
	}

	data, err := os.ReadFile(c.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then unmarshal file values on top.
	// This ensures fields not present in the file retain their default values.
	newVals := c.defaults
	err = toml.Unmarshal(data, &newVals)
	if err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if newVals.ConfigSchema != SchemaVersion {
		log.Error().Msgf(
			"schema version mismatch: got %d, expecting %d",
			newVals.ConfigSchema,
			SchemaVersion,
		)
		return errors.New("schema version mismatch")
	}

	c.vals = newVals

	return nil
}

func (c *Instance) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	data, err := toml.Marshal(c.vals)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(c.cfgPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Instance) Path() string {
	return c.cfgPath
}

// TablesDir returns the configured table file root directory.
func (c *Instance) TablesDir() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Tables.Dir
}

// SetTablesDir sets the table file root directory.
func (c *Instance) SetTablesDir(dir string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Tables.Dir = dir
}

// MediaDir returns the configured media root directory.
func (c *Instance) MediaDir() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Media.Dir
}

// SetMediaDir sets the media root directory.
func (c *Instance) SetMediaDir(dir string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Media.Dir = dir
}

// RemoveMissing returns whether rows for missing files are hard-removed
// rather than disabled. Disable-only is the default.
func (c *Instance) RemoveMissing() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Tables.RemoveMissing
}

// SetRemoveMissing sets the missing-file policy.
func (c *Instance) SetRemoveMissing(remove bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Tables.RemoveMissing = remove
}

// DebugLogging returns whether debug logging is enabled.
func (c *Instance) DebugLogging() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.DebugLogging
}
