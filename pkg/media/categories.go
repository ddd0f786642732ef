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

// Surface is a display/output channel on the cabinet a media asset targets.
type Surface string

const (
	SurfaceTable        Surface = "table"
	SurfaceBackglass    Surface = "backglass"
	SurfaceDMD          Surface = "dmd"
	SurfaceTopper       Surface = "topper"
	SurfaceWheel        Surface = "wheel"
	SurfaceLaunchAudio  Surface = "launch_audio"
	SurfaceAmbientAudio Surface = "ambient_audio"
)

// Kind is the media file type filling a surface.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
	KindAudio Kind = "audio"
)

// Slot identifies one media reference on a catalog entry. Only the
// combinations listed in Categories are valid.
type Slot struct {
	Surface Surface
	Kind    Kind
}

func (s Slot) String() string {
	return string(s.Surface) + "/" + string(s.Kind)
}

// Category binds a slot to the directory it is resolved from (relative to
// the media root) and the file extensions accepted there.
type Category struct {
	Slot       Slot
	Dir        string
	Extensions []string
}

var (
	imageExts = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tiff"}
	videoExts = []string{".mp4", ".avi", ".mov", ".wmv", ".mkv", ".webm", ".flv", ".f4v"}
	audioExts = []string{".mp3", ".wav", ".ogg", ".m4a", ".flac"}

	// Backglass images additionally accept DirectB2S backglass description
	// files alongside raster images.
	backglassImageExts = append(append([]string{}, imageExts...), ".directb2s")
)

// Categories returns every valid (surface, kind) slot with its category
// directory and allowed extensions. The layout mirrors how media packs are
// organized on disk.
func Categories() []Category {
	return []Category{
		{Slot{SurfaceTable, KindImage}, "images/table", imageExts},
		{Slot{SurfaceTable, KindVideo}, "videos/table", videoExts},
		{Slot{SurfaceBackglass, KindImage}, "images/backglass", backglassImageExts},
		{Slot{SurfaceBackglass, KindVideo}, "videos/backglass", videoExts},
		{Slot{SurfaceDMD, KindImage}, "images/dmd", imageExts},
		{Slot{SurfaceDMD, KindVideo}, "videos/dmd", videoExts},
		{Slot{SurfaceTopper, KindImage}, "images/topper", imageExts},
		{Slot{SurfaceTopper, KindVideo}, "videos/topper", videoExts},
		{Slot{SurfaceWheel, KindImage}, "images/wheel", imageExts},
		{Slot{SurfaceLaunchAudio, KindAudio}, "audio/launch", audioExts},
		{Slot{SurfaceAmbientAudio, KindAudio}, "audio/table", audioExts},
	}
}

// Slots returns every valid slot in Categories order.
func Slots() []Slot {
	cats := Categories()
	slots := make([]Slot, 0, len(cats))
	for _, c := range cats {
		slots = append(slots, c.Slot)
	}
	return slots
}
