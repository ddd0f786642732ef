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

// Package vpxfile extracts best-effort metadata from Visual Pinball X table
// files. VPX is an OLE compound document with no published property schema,
// so extraction is heuristic: known streams are scanned for key/value-like
// text, and the filename fills whatever the container did not yield.
package vpxfile

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/richardlehane/mscfb"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding/charmap"
)

// Classification tags derived from release year. Tables built before 1977
// predate solid-state electronics.
const (
	ClassElectromechanical = "electromechanical"
	ClassSolidState        = "solid-state"

	classificationYearCutoff = 1977
)

// Reading caps for container streams. Real GameData streams run to tens of
// megabytes of geometry; the textual properties sit well within this.
const maxStreamRead = 16 * 1024 * 1024

var oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// Metadata is the best-effort result of extracting one table file.
type Metadata struct {
	Modified       time.Time
	Path           string
	Name           string
	Manufacturer   string
	Author         string
	Description    string
	TableVersion   string
	FileVersion    string
	ROM            string
	Classification string
	Size           int64
	Year           int
	Players        int
	// Working is false when extraction fell back to filename-only metadata.
	Working bool
}

// Classify derives the classification tag from a release year. Unknown years
// default to solid-state.
func Classify(year int) string {
	if year > 0 && year < classificationYearCutoff {
		return ClassElectromechanical
	}
	return ClassSolidState
}

// Extract parses a table file and returns best-effort metadata. It never
// fails: on any internal error the result carries Working=false and a
// human-readable note in the description, with whatever fields the completed
// stages produced.
func Extract(path string) Metadata {
	meta := Metadata{
		Path:           path,
		Name:           stem(path),
		Players:        1,
		Classification: ClassSolidState,
	}

	info, err := os.Stat(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("table file unreadable")
		meta.Description = "failed to read file: " + err.Error()
		parseFilename(&meta)
		enhanceFromFilename(&meta)
		return meta
	}
	meta.Size = info.Size()
	meta.Modified = info.ModTime()

	if info.Size() == 0 {
		log.Warn().Str("path", path).Msg("table file is empty")
		meta.Description = "failed to parse: empty file"
		parseFilename(&meta)
		enhanceFromFilename(&meta)
		return meta
	}

	f, err := os.Open(path) //nolint:gosec // path comes from the scanned table dir
	if err != nil {
		meta.Description = "failed to open file: " + err.Error()
		parseFilename(&meta)
		enhanceFromFilename(&meta)
		return meta
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Str("path", path).Msg("failed to close table file")
		}
	}()

	if isCompoundFile(f) {
		if parseErr := parseContainer(f, &meta); parseErr != nil {
			// Partial metadata from completed stages is kept; the rest
			// falls through to the filename heuristics below.
			log.Warn().Err(parseErr).Str("path", path).Msg("container parse failed")
			if meta.Description == "" {
				meta.Description = "failed to parse container: " + parseErr.Error()
			}
		} else {
			meta.Working = true
		}
	} else {
		log.Debug().Str("path", path).Msg("not a compound document, using filename metadata")
	}

	parseFilename(&meta)
	enhanceFromFilename(&meta)

	return meta
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func isCompoundFile(r io.ReaderAt) bool {
	header := make([]byte, len(oleMagic))
	if _, err := r.ReadAt(header, 0); err != nil {
		return false
	}
	return bytes.Equal(header, oleMagic)
}

// Property patterns scanned over permissively decoded stream bytes. First
// match per key wins within a stream.
var (
	propAuthorRe       = regexp.MustCompile(`(?i)author["\s]*[=:]["\s]*([^";` + "\n\r" + `]+)`)
	propDescriptionRe  = regexp.MustCompile(`(?i)description["\s]*[=:]["\s]*([^";` + "\n\r" + `]+)`)
	propManufacturerRe = regexp.MustCompile(`(?i)manufacturer["\s]*[=:]["\s]*([^";` + "\n\r" + `]+)`)
	propVersionRe      = regexp.MustCompile(`(?i)(?:table_?)?version["\s]*[=:]["\s]*([^";` + "\n\r" + `]+)`)
	propROMRe          = regexp.MustCompile(`(?i)rom["\s]*[=:]["\s]*([^";` + "\n\r" + `]+)`)

	fileVersionRe = regexp.MustCompile(`(\d+\.\d+[.\d]*)`)

	// Assignment patterns in embedded table scripts. Script authors keep
	// these current more often than the stored properties.
	scriptROMRe         = regexp.MustCompile(`(?i)(?:cGameName\s*=\s*["']([^"']+)|GameName\s*=\s*["']([^"']+)|ROM\s*=\s*["']([^"']+))`)
	scriptAuthorRe      = regexp.MustCompile(`(?i)author\s*=\s*["']([^"']+)`)
	scriptVersionRe     = regexp.MustCompile(`(?i)(?:table_?)?version\s*=\s*["']([^"']+)`)
	scriptDescriptionRe = regexp.MustCompile(`(?i)description\s*=\s*["']([^"']+)`)
)

func parseContainer(ra io.ReaderAt, meta *Metadata) error {
	doc, err := mscfb.New(ra)
	if err != nil {
		return err //nolint:wrapcheck // caller folds this into the description note
	}

	// Script-sourced values are applied after the stream walk so they take
	// precedence regardless of stream order.
	var script scriptValues

	for entry, nextErr := doc.Next(); nextErr == nil; entry, nextErr = doc.Next() {
		name := strings.ToLower(entry.Name)

		switch {
		case name == "gamedata":
			data, readErr := readStream(entry)
			if readErr != nil {
				log.Debug().Err(readErr).Msg("could not read GameData stream")
				continue
			}
			scanGameData(data, meta)
		case name == "version":
			data, readErr := readStream(entry)
			if readErr != nil {
				log.Debug().Err(readErr).Msg("could not read Version stream")
				continue
			}
			scanFileVersion(data, meta)
		case strings.Contains(name, "script") || strings.Contains(name, "vbs"):
			data, readErr := readStream(entry)
			if readErr != nil {
				log.Debug().Err(readErr).Str("stream", entry.Name).Msg("could not read script stream")
				continue
			}
			script.scan(decodeText(data))
		}
	}

	script.apply(meta)

	return nil
}

func readStream(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxStreamRead))
	if err != nil {
		return nil, err //nolint:wrapcheck // stream failures degrade to filename metadata
	}
	return data, nil
}

// scanGameData probes the raw property stream for key=value-like text.
func scanGameData(data []byte, meta *Metadata) {
	text := strings.ToValidUTF8(string(data), "")

	assign := func(dst *string, re *regexp.Regexp) {
		if *dst != "" {
			return
		}
		if m := re.FindStringSubmatch(text); m != nil {
			if v := cleanValue(m[1]); v != "" {
				*dst = v
			}
		}
	}

	assign(&meta.Author, propAuthorRe)
	assign(&meta.Description, propDescriptionRe)
	assign(&meta.Manufacturer, propManufacturerRe)
	assign(&meta.TableVersion, propVersionRe)
	assign(&meta.ROM, propROMRe)
}

func scanFileVersion(data []byte, meta *Metadata) {
	if meta.FileVersion != "" {
		return
	}
	text := strings.ToValidUTF8(string(data), " ")
	if m := fileVersionRe.FindStringSubmatch(text); m != nil {
		meta.FileVersion = m[1]
	}
}

type scriptValues struct {
	rom         string
	author      string
	version     string
	description string
}

func (s *scriptValues) scan(text string) {
	if s.rom == "" {
		if m := scriptROMRe.FindStringSubmatch(text); m != nil {
			for _, group := range m[1:] {
				if v := strings.TrimSpace(group); v != "" {
					s.rom = v
					break
				}
			}
		}
	}
	if s.author == "" {
		if m := scriptAuthorRe.FindStringSubmatch(text); m != nil {
			s.author = strings.TrimSpace(m[1])
		}
	}
	if s.version == "" {
		if m := scriptVersionRe.FindStringSubmatch(text); m != nil {
			s.version = strings.TrimSpace(m[1])
		}
	}
	if s.description == "" {
		if m := scriptDescriptionRe.FindStringSubmatch(text); m != nil {
			s.description = strings.TrimSpace(m[1])
		}
	}
}

// apply overwrites property-stream values with script values where found.
func (s *scriptValues) apply(meta *Metadata) {
	if s.rom != "" {
		meta.ROM = s.rom
	}
	if s.author != "" {
		meta.Author = s.author
	}
	if s.version != "" {
		meta.TableVersion = s.version
	}
	if s.description != "" {
		meta.Description = s.description
	}
}

// decodeText decodes stream bytes as UTF-8, falling back to a single-byte
// decode when the data yields too many invalid sequences.
func decodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}

	invalid := 0
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			invalid++
		}
		i += size
	}

	// More than ~5% bad sequences means this was never UTF-8.
	if invalid*20 > len(data) {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err == nil {
			return string(decoded)
		}
	}

	return strings.ToValidUTF8(string(data), "")
}

func cleanValue(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || v == `""` || v == "''" {
		return ""
	}
	return v
}
