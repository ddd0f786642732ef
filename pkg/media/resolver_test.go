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
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T, files ...string) *Resolver {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for _, f := range files {
		require.NoError(t, afero.WriteFile(fsys, filepath.Join("/media", f), []byte("x"), 0o644))
	}
	return NewResolver(fsys, "/media")
}

func TestResolveExactMatch(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t,
		"images/table/Fireball (Bally 1972).png",
		"images/table/Fireball.png",
	)

	path, ok := r.Resolve("images/table",
		Variants("Fireball", "Bally", 1972), imageExts)
	require.True(t, ok)
	assert.Equal(t, filepath.Join("/media", "images/table", "Fireball.png"), path,
		"the bare name variant comes first, so its exact match wins")
}

func TestResolveCaseInsensitive(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t, "images/table/fireball.png")

	path, ok := r.Resolve("images/table",
		Variants("Fireball", "Bally", 1972), imageExts)
	require.True(t, ok)
	assert.Equal(t, filepath.Join("/media", "images/table", "fireball.png"), path,
		"a lowercased file must still match a mixed-case table name")
}

func TestResolvePartialMatch(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t, "images/table/Fireball (Bally 1972) v2 HD.png")

	path, ok := r.Resolve("images/table",
		Variants("Fireball", "Bally", 1972), imageExts)
	require.True(t, ok)
	assert.Equal(t,
		filepath.Join("/media", "images/table", "Fireball (Bally 1972) v2 HD.png"),
		path,
		"variant contained in the file stem should match as a last resort")
}

func TestResolveTierPrecedence(t *testing.T) {
	t.Parallel()

	// All three tiers have a candidate; exact must win.
	r := newTestResolver(t,
		"images/table/Fireball.png",
		"images/table/FIREBALL.jpg",
		"images/table/Fireball remix.png",
	)

	path, ok := r.Resolve("images/table",
		Variants("Fireball", "", 0), imageExts)
	require.True(t, ok)
	assert.Equal(t, filepath.Join("/media", "images/table", "Fireball.png"), path)
}

func TestResolveMissingDirectory(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t, "images/table/Fireball.png")

	path, ok := r.Resolve("videos/table",
		Variants("Fireball", "", 0), videoExts)
	assert.False(t, ok, "a missing category directory is no match, not an error")
	assert.Empty(t, path)
}

func TestResolveExtensionFilter(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t, "images/table/Fireball.txt")

	_, ok := r.Resolve("images/table",
		Variants("Fireball", "", 0), imageExts)
	assert.False(t, ok, "files with unlisted extensions must never resolve")
}

func TestResolveDirectB2S(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t, "images/backglass/Fireball.directb2s")

	path, ok := r.Resolve("images/backglass",
		Variants("Fireball", "", 0), backglassImageExts)
	require.True(t, ok)
	assert.Equal(t,
		filepath.Join("/media", "images/backglass", "Fireball.directb2s"), path,
		"backglass slots accept DirectB2S files alongside images")
}

func TestFindForTable(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t,
		"images/table/Fireball (Bally 1972).png",
		"videos/table/fireball.mp4",
		"images/backglass/Fireball.directb2s",
		"images/wheel/Fireball_(Bally_1972).png",
		"audio/launch/Fireball.mp3",
		"images/dmd/Unrelated Table.png",
	)

	found := r.FindForTable("Fireball", "Bally", 1972)

	assert.Len(t, found, 5)
	assert.Contains(t, found, Slot{SurfaceTable, KindImage})
	assert.Contains(t, found, Slot{SurfaceTable, KindVideo})
	assert.Contains(t, found, Slot{SurfaceBackglass, KindImage})
	assert.Contains(t, found, Slot{SurfaceWheel, KindImage})
	assert.Contains(t, found, Slot{SurfaceLaunchAudio, KindAudio})
	assert.NotContains(t, found, Slot{SurfaceDMD, KindImage},
		"slots with no matching file must be absent, not empty")
}

func TestStatistics(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t,
		"images/table/A.png",
		"images/table/B.jpg",
		"images/table/notes.txt",
		"videos/backglass/A.mp4",
	)

	stats := r.Statistics()
	assert.Equal(t, 2, stats["images/table"],
		"only files with category extensions are counted")
	assert.Equal(t, 1, stats["videos/backglass"])
	_, ok := stats["images/dmd"]
	assert.False(t, ok, "categories without a directory are omitted")
}
