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

import "fmt"

// RenamedPair records one orphaned row reattached to a moved file.
type RenamedPair struct {
	Name    string
	OldPath string
	NewPath string
}

// ValidationReport summarizes the final on-disk check of every catalog row.
type ValidationReport struct {
	Valid        int
	Missing      int
	Inaccessible int
}

// Report is the structured summary of one reconciliation pass, consumed by
// whatever presentation layer invoked the scan.
type Report struct {
	Renamed      []RenamedPair
	Validation   ValidationReport
	Scanned      int
	New          int
	Updated      int
	MediaUpdated int
	Errors       int
	Missing      int
	Disabled     int
	Removed      int
}

func (r *Report) String() string {
	return fmt.Sprintf(
		"scanned=%d new=%d updated=%d media=%d renamed=%d missing=%d disabled=%d removed=%d errors=%d (files: %d valid, %d missing, %d inaccessible)",
		r.Scanned, r.New, r.Updated, r.MediaUpdated, len(r.Renamed),
		r.Missing, r.Disabled, r.Removed, r.Errors,
		r.Validation.Valid, r.Validation.Missing, r.Validation.Inaccessible,
	)
}
