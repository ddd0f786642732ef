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
	"regexp"
	"strconv"
	"strings"
)

var (
	unsafeCharsRe = regexp.MustCompile(`[^\p{L}\p{N}_\s\-()]+`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
)

// CleanName strips characters media-pack authors avoid in filenames and
// collapses whitespace runs to a single space.
func CleanName(name string) string {
	cleaned := unsafeCharsRe.ReplaceAllString(name, "")
	cleaned = whitespaceRe.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// Variants generates the plausible filename spellings media-pack authors use
// for a table, most specific naming first. The result is deterministic for
// identical inputs and free of duplicates.
//
// For each base spelling a copy with interior spaces replaced by underscore,
// dot, and hyphen is added, since packs disagree on word separators.
func Variants(name, manufacturer string, year int) []string {
	var variants []string

	cleanName := CleanName(name)
	variants = append(variants, cleanName)

	cleanManuf := CleanName(manufacturer)

	if manufacturer != "" && year > 0 {
		variants = append(variants, cleanName+" ("+manufacturer+" "+strconv.Itoa(year)+")")
		variants = append(variants, cleanName+" ("+cleanManuf+" "+strconv.Itoa(year)+")")
	}

	if manufacturer != "" {
		variants = append(variants, cleanName+" ("+manufacturer+")")
		variants = append(variants, cleanName+" ("+cleanManuf+")")
	}

	if year > 0 {
		variants = append(variants, cleanName+" ("+strconv.Itoa(year)+")")
	}

	base := variants
	for _, v := range base {
		for _, sep := range []string{"_", ".", "-"} {
			variants = append(variants, strings.ReplaceAll(v, " ", sep))
		}
	}

	seen := make(map[string]struct{}, len(variants))
	unique := make([]string, 0, len(variants))
	for _, v := range variants {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		unique = append(unique, v)
	}

	return unique
}
