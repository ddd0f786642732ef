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

// Matching holds optional overrides for the orphan-matching score weights.
// The defaults are an empirical calibration, not a derived contract, which
// is why every weight is tunable from the config file.
type Matching struct {
	NameExact       *int     `toml:"name_exact,omitempty"`
	NameContains    *int     `toml:"name_contains,omitempty"`
	NameContained   *int     `toml:"name_contained,omitempty"`
	NameFuzzyStrong *int     `toml:"name_fuzzy_strong,omitempty"`
	NameFuzzyWeak   *int     `toml:"name_fuzzy_weak,omitempty"`
	Manufacturer    *int     `toml:"manufacturer,omitempty"`
	Year            *int     `toml:"year,omitempty"`
	Author          *int     `toml:"author,omitempty"`
	ROM             *int     `toml:"rom,omitempty"`
	SizeExact       *int     `toml:"size_exact,omitempty"`
	SizeClose       *int     `toml:"size_close,omitempty"`
	SizeCloseBytes  *int64   `toml:"size_close_bytes,omitempty"`
	FuzzyStrong     *float64 `toml:"fuzzy_strong,omitempty"`
	FuzzyWeak       *float64 `toml:"fuzzy_weak,omitempty"`
	MinScore        *int     `toml:"min_score,omitempty"`
}

// MatchWeights is the fully resolved orphan scorer calibration.
type MatchWeights struct {
	NameExact       int
	NameContains    int
	NameContained   int
	NameFuzzyStrong int
	NameFuzzyWeak   int
	Manufacturer    int
	Year            int
	Author          int
	ROM             int
	SizeExact       int
	SizeClose       int
	SizeCloseBytes  int64
	FuzzyStrong     float64
	FuzzyWeak       float64
	MinScore        int
}

// DefaultMatchWeights returns the stock orphan scorer calibration.
func DefaultMatchWeights() MatchWeights {
	return MatchWeights{
		NameExact:       10,
		NameContains:    7,
		NameContained:   5,
		NameFuzzyStrong: 4,
		NameFuzzyWeak:   2,
		Manufacturer:    3,
		Year:            2,
		Author:          2,
		ROM:             2,
		SizeExact:       2,
		SizeClose:       1,
		SizeCloseBytes:  1024 * 1024,
		FuzzyStrong:     0.9,
		FuzzyWeak:       0.5,
		MinScore:        5,
	}
}

// MatchWeights returns the orphan scorer calibration with any config file
// overrides applied on top of the defaults.
func (c *Instance) MatchWeights() MatchWeights {
	c.mu.RLock()
	defer c.mu.RUnlock()

	w := DefaultMatchWeights()
	m := c.vals.Matching

	overrideInt := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}

	overrideInt(&w.NameExact, m.NameExact)
	overrideInt(&w.NameContains, m.NameContains)
	overrideInt(&w.NameContained, m.NameContained)
	overrideInt(&w.NameFuzzyStrong, m.NameFuzzyStrong)
	overrideInt(&w.NameFuzzyWeak, m.NameFuzzyWeak)
	overrideInt(&w.Manufacturer, m.Manufacturer)
	overrideInt(&w.Year, m.Year)
	overrideInt(&w.Author, m.Author)
	overrideInt(&w.ROM, m.ROM)
	overrideInt(&w.SizeExact, m.SizeExact)
	overrideInt(&w.SizeClose, m.SizeClose)
	overrideInt(&w.MinScore, m.MinScore)
	if m.SizeCloseBytes != nil {
		w.SizeCloseBytes = *m.SizeCloseBytes
	}
	if m.FuzzyStrong != nil {
		w.FuzzyStrong = *m.FuzzyStrong
	}
	if m.FuzzyWeak != nil {
		w.FuzzyWeak = *m.FuzzyWeak
	}

	return w
}
