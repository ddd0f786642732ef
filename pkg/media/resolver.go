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
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// Resolver finds the media file belonging to a table in a category
// directory. It operates on an afero filesystem so tests can run against an
// in-memory tree.
type Resolver struct {
	fs   afero.Fs
	root string
}

// NewResolver returns a resolver rooted at the media directory.
func NewResolver(fsys afero.Fs, root string) *Resolver {
	return &Resolver{fs: fsys, root: root}
}

// NewOsResolver returns a resolver over the real filesystem.
func NewOsResolver(root string) *Resolver {
	return NewResolver(afero.NewOsFs(), root)
}

// Root returns the media root directory.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve searches categoryDir (relative to the media root) for a file
// matching one of the name variants with an allowed extension. Tiers are
// tried in order and the first hit wins:
//
//  1. exact: categoryDir/variant.ext exists as written
//  2. case-insensitive: lowercased filename index lookup
//  3. partial: a variant is a substring of a file's stem, both lowercased
//
// A missing category directory is not an error; it resolves to no match.
func (r *Resolver) Resolve(categoryDir string, variants, extensions []string) (string, bool) {
	dir := filepath.Join(r.root, categoryDir)

	entries, err := afero.ReadDir(r.fs, dir)
	if err != nil {
		return "", false
	}

	files := make([]fs.FileInfo, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, entry)
		}
	}

	// Exact matches first.
	for _, variant := range variants {
		for _, ext := range extensions {
			path := filepath.Join(dir, variant+ext)
			if ok, statErr := afero.Exists(r.fs, path); statErr == nil && ok {
				log.Debug().Str("path", path).Msg("found exact media match")
				return path, true
			}
		}
	}

	// Case-insensitive: index the directory once. On duplicate lowercased
	// names the first file in directory order wins.
	lower := make(map[string]string, len(files))
	for _, f := range files {
		key := strings.ToLower(f.Name())
		if _, ok := lower[key]; !ok {
			lower[key] = f.Name()
		}
	}
	for _, variant := range variants {
		for _, ext := range extensions {
			if name, ok := lower[strings.ToLower(variant+ext)]; ok {
				path := filepath.Join(dir, name)
				log.Debug().Str("path", path).Msg("found case-insensitive media match")
				return path, true
			}
		}
	}

	// Partial: variant contained in the file stem.
	for _, f := range files {
		ext := strings.ToLower(filepath.Ext(f.Name()))
		if !containsFold(extensions, ext) {
			continue
		}
		stem := strings.ToLower(strings.TrimSuffix(f.Name(), filepath.Ext(f.Name())))
		for _, variant := range variants {
			if strings.Contains(stem, strings.ToLower(variant)) {
				path := filepath.Join(dir, f.Name())
				log.Debug().Str("path", path).Msg("found partial media match")
				return path, true
			}
		}
	}

	return "", false
}

// FindForTable resolves every valid media slot for a table, returning only
// the slots where a file was found.
func (r *Resolver) FindForTable(name, manufacturer string, year int) map[Slot]string {
	variants := Variants(name, manufacturer, year)
	found := make(map[Slot]string)

	for _, cat := range Categories() {
		if path, ok := r.Resolve(cat.Dir, variants, cat.Extensions); ok {
			found[cat.Slot] = path
		}
	}

	return found
}

// Statistics counts resolvable media files per category directory.
func (r *Resolver) Statistics() map[string]int {
	stats := make(map[string]int)

	for _, cat := range Categories() {
		dir := filepath.Join(r.root, cat.Dir)
		entries, err := afero.ReadDir(r.fs, dir)
		if err != nil {
			continue
		}

		count := 0
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if containsFold(cat.Extensions, strings.ToLower(filepath.Ext(entry.Name()))) {
				count++
			}
		}
		stats[cat.Dir] = count
	}

	return stats
}

func containsFold(extensions []string, ext string) bool {
	for _, e := range extensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}
