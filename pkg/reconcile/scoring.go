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

package reconcile

import (
	"strings"

	"github.com/PinCabProject/pincab-core/pkg/config"
	"github.com/PinCabProject/pincab-core/pkg/database"
	"github.com/PinCabProject/pincab-core/pkg/vpxfile"
	"github.com/hbollon/go-edlib"
)

// Scorer rates how likely a scanned file is the moved/renamed backing file
// of an orphaned catalog row. Weights come from configuration so the
// calibration can be tuned without code changes.
type Scorer struct {
	Weights config.MatchWeights
}

// Score computes the weighted similarity between an orphaned row and a
// candidate file's extracted metadata. Name similarity dominates; exact
// matches on the remaining fields add fixed bonuses.
func (s *Scorer) Score(orphan *database.CatalogEntry, candidate *vpxfile.Metadata) int {
	w := s.Weights
	score := 0

	orphanName := strings.ToLower(strings.TrimSpace(orphan.Name))
	candName := strings.ToLower(strings.TrimSpace(candidate.Name))

	switch {
	case orphanName == "" || candName == "":
		// no name signal
	case orphanName == candName:
		score += w.NameExact
	case strings.Contains(candName, orphanName):
		score += w.NameContains
	case strings.Contains(orphanName, candName):
		score += w.NameContained
	default:
		similarity := float64(edlib.JaroWinklerSimilarity(orphanName, candName))
		switch {
		case similarity >= w.FuzzyStrong:
			score += w.NameFuzzyStrong
		case similarity >= w.FuzzyWeak:
			score += w.NameFuzzyWeak
		}
	}

	if orphan.Manufacturer != "" && strings.EqualFold(orphan.Manufacturer, candidate.Manufacturer) {
		score += w.Manufacturer
	}
	if orphan.Year != 0 && orphan.Year == candidate.Year {
		score += w.Year
	}
	if orphan.Author != "" && strings.EqualFold(orphan.Author, candidate.Author) {
		score += w.Author
	}
	if orphan.ROM != "" && strings.EqualFold(orphan.ROM, candidate.ROM) {
		score += w.ROM
	}

	if orphan.Size > 0 && candidate.Size > 0 {
		delta := orphan.Size - candidate.Size
		if delta < 0 {
			delta = -delta
		}
		switch {
		case delta == 0:
			score += w.SizeExact
		case delta <= w.SizeCloseBytes:
			score += w.SizeClose
		}
	}

	return score
}
