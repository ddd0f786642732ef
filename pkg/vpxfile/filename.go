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

package vpxfile

import (
	"regexp"
	"strconv"
	"strings"
)

// Filename grammars used by table authors, most specific first. The first
// grammar that matches wins.
var (
	// "Name (Manufacturer Year)"
	nameManufYearRe = regexp.MustCompile(`^(.+?)\s*\(([^)]+)\s+(\d{4})\).*$`)
	// "Name (Manufacturer)"
	nameManufRe = regexp.MustCompile(`^(.+?)\s*\(([^)]+)\).*$`)
	// "Manufacturer - Name (Year)"
	manufNameYearRe = regexp.MustCompile(`^([^-]+)\s*-\s*(.+?)\s*\((\d{4})\).*$`)

	yearOnlyRe  = regexp.MustCompile(`^\d{4}$`)
	yearTokenRe = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)
)

// knownManufacturers are substring-matched against filenames when the
// container yields no manufacturer.
var knownManufacturers = []string{
	"Williams", "Bally", "Stern", "Gottlieb", "Data East",
	"Sega", "Midway", "Capcom", "Taito", "Zaccaria",
	"Alvin G", "Premier", "Hankin", "Chicago Coin",
	"Game Plan", "Playmatic", "Recel", "Spinball",
}

// parseFilename applies the filename grammars to the file stem, filling only
// fields the container scan left empty. It always runs, even after a
// successful container parse.
func parseFilename(meta *Metadata) {
	filename := stem(meta.Path)

	if m := nameManufYearRe.FindStringSubmatch(filename); m != nil {
		setName(meta, m[1])
		setManufacturer(meta, m[2])
		setYear(meta, m[3])
		return
	}

	// A bare year in the parentheses is not a manufacturer; hold that match
	// back so the dash grammar gets a chance at the same stem first.
	var nameYear []string
	if m := nameManufRe.FindStringSubmatch(filename); m != nil {
		if !yearOnlyRe.MatchString(strings.TrimSpace(m[2])) {
			setName(meta, m[1])
			setManufacturer(meta, m[2])
			return
		}
		nameYear = m
	}

	if m := manufNameYearRe.FindStringSubmatch(filename); m != nil {
		setManufacturer(meta, m[1])
		setName(meta, m[2])
		setYear(meta, m[3])
		return
	}

	// "Name (Year)"
	if nameYear != nil {
		setName(meta, nameYear[1])
		setYear(meta, strings.TrimSpace(nameYear[2]))
		return
	}

	// No grammar matched; the whole stem is the name.
	if meta.Name == "" {
		meta.Name = filename
	}
}

// enhanceFromFilename runs the post-processing pass: year token search,
// manufacturer list match, classification, and description synthesis.
func enhanceFromFilename(meta *Metadata) {
	filename := stem(meta.Path)

	if meta.Year == 0 {
		if m := yearTokenRe.FindStringSubmatch(filename); m != nil {
			year, err := strconv.Atoi(m[1])
			if err == nil {
				meta.Year = year
			}
		}
	}

	if meta.Manufacturer == "" {
		lower := strings.ToLower(filename)
		for _, manufacturer := range knownManufacturers {
			if strings.Contains(lower, strings.ToLower(manufacturer)) {
				meta.Manufacturer = manufacturer
				break
			}
		}
	}

	meta.Classification = Classify(meta.Year)

	if meta.Description == "" {
		var parts []string
		if meta.Manufacturer != "" {
			parts = append(parts, meta.Manufacturer)
		}
		if meta.Year > 0 {
			parts = append(parts, strconv.Itoa(meta.Year))
		}
		parts = append(parts, meta.Classification)
		meta.Description = "Pinball table by " + strings.Join(parts, " ")
	}
}

func setName(meta *Metadata, v string) {
	v = strings.TrimSpace(v)
	// The stem itself is only a placeholder name; a grammar match is always
	// more specific.
	if v != "" && (meta.Name == "" || meta.Name == stem(meta.Path)) {
		meta.Name = v
	}
}

func setManufacturer(meta *Metadata, v string) {
	v = strings.TrimSpace(v)
	if v != "" && meta.Manufacturer == "" {
		meta.Manufacturer = v
	}
}

func setYear(meta *Metadata, v string) {
	if meta.Year != 0 {
		return
	}
	year, err := strconv.Atoi(v)
	if err == nil && year >= 1900 && year <= 2099 {
		meta.Year = year
	}
}
