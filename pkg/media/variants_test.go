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

package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
		reason   string
	}{
		{
			name:     "PlainName",
			input:    "Fireball",
			expected: "Fireball",
			reason:   "safe names should pass through unchanged",
		},
		{
			name:     "StripsPunctuation",
			input:    "Who's Tommy?!",
			expected: "Whos Tommy",
			reason:   "apostrophes and punctuation are dropped, not replaced",
		},
		{
			name:     "KeepsParensAndHyphens",
			input:    "Junk-Yard (Williams)",
			expected: "Junk-Yard (Williams)",
			reason:   "hyphens and parentheses are part of media naming conventions",
		},
		{
			name:     "KeepsAccentedLetters",
			input:    "Böhm Pinball, Café Edition!",
			expected: "Böhm Pinball Café Edition",
			reason:   "non-ASCII letters are legitimate filename characters",
		},
		{
			name:     "CollapsesWhitespace",
			input:    "Twilight   Zone ",
			expected: "Twilight Zone",
			reason:   "whitespace runs collapse to a single space and edges are trimmed",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, CleanName(tt.input), tt.reason)
		})
	}
}

func TestVariantsOrdering(t *testing.T) {
	t.Parallel()

	variants := Variants("Fireball", "Bally", 1972)

	require.NotEmpty(t, variants)
	assert.Equal(t, "Fireball", variants[0],
		"the bare cleaned name must come first so exact-name media wins")
	assert.Contains(t, variants, "Fireball (Bally 1972)")
	assert.Contains(t, variants, "Fireball (Bally)")
	assert.Contains(t, variants, "Fireball (1972)")
	assert.Contains(t, variants, "Fireball_(Bally_1972)",
		"underscore-separated spellings must be generated for every base variant")
	assert.Contains(t, variants, "Fireball.(Bally.1972)")
	assert.Contains(t, variants, "Fireball-(Bally-1972)")
}

func TestVariantsDeterministic(t *testing.T) {
	t.Parallel()

	first := Variants("Medieval Madness", "Williams", 1997)
	second := Variants("Medieval Madness", "Williams", 1997)
	assert.Equal(t, first, second,
		"identical inputs must yield the identical ordered list")
}

func TestVariantsNoDuplicates(t *testing.T) {
	t.Parallel()

	// Single-word names make the separator copies collide with the base.
	variants := Variants("Xenon", "Bally", 1980)

	seen := make(map[string]struct{}, len(variants))
	for _, v := range variants {
		_, dup := seen[v]
		assert.False(t, dup, "duplicate variant %q", v)
		seen[v] = struct{}{}
	}
}

func TestVariantsPartialMetadata(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		tableName    string
		manufacturer string
		year         int
		contains     []string
		excludes     []string
	}{
		{
			name:      "NoManufacturerNoYear",
			tableName: "Fireball",
			contains:  []string{"Fireball"},
			excludes:  []string{"Fireball ()"},
		},
		{
			name:      "YearOnly",
			tableName: "Fireball",
			year:      1972,
			contains:  []string{"Fireball", "Fireball (1972)"},
			excludes:  []string{"Fireball ( 1972)"},
		},
		{
			name:         "ManufacturerOnly",
			tableName:    "Fireball",
			manufacturer: "Bally",
			contains:     []string{"Fireball", "Fireball (Bally)"},
			excludes:     []string{"Fireball (Bally 0)"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			variants := Variants(tt.tableName, tt.manufacturer, tt.year)
			for _, want := range tt.contains {
				assert.Contains(t, variants, want)
			}
			for _, bad := range tt.excludes {
				assert.NotContains(t, variants, bad,
					"absent metadata must not produce malformed variants")
			}
		})
	}
}
