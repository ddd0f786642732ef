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

// Package reconcile keeps the table catalog consistent with the filesystem:
// it imports newly discovered table files, reattaches rows whose files were
// renamed or moved, handles files that are gone, and refreshes every row's
// media references.
package reconcile

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/PinCabProject/pincab-core/pkg/config"
	"github.com/PinCabProject/pincab-core/pkg/database"
	"github.com/PinCabProject/pincab-core/pkg/helpers"
	"github.com/PinCabProject/pincab-core/pkg/media"
	"github.com/PinCabProject/pincab-core/pkg/vpxfile"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// TableExt is the table file extension searched for during scans.
const TableExt = ".vpx"

// Options configures a reconciliation pass.
type Options struct {
	// TablesDir is the root directory scanned recursively for table files.
	TablesDir string
	// Weights is the orphan scorer calibration. Zero value means defaults.
	Weights config.MatchWeights
	// Workers bounds parallel metadata extraction. Zero means NumCPU.
	Workers int
	// HardRemoveMissing deletes rows for missing files instead of
	// disabling them.
	HardRemoveMissing bool
}

// Reconciler orchestrates one catalog reconciliation pass. All catalog
// mutations happen sequentially on the calling goroutine; only read-only
// metadata extraction fans out to workers.
type Reconciler struct {
	store    database.CatalogStoreI
	resolver *media.Resolver
	extract  func(path string) vpxfile.Metadata
	opts     Options
}

// New returns a reconciler over the given store and media resolver.
func New(store database.CatalogStoreI, resolver *media.Resolver, opts Options) *Reconciler {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Weights == (config.MatchWeights{}) {
		opts.Weights = config.DefaultMatchWeights()
	}
	return &Reconciler{
		store:    store,
		resolver: resolver,
		extract:  vpxfile.Extract,
		opts:     opts,
	}
}

// SetExtractor replaces the metadata extractor. Tests use this to feed
// synthetic metadata without real table files.
func (r *Reconciler) SetExtractor(extract func(path string) vpxfile.Metadata) {
	r.extract = extract
}

// Run executes a full reconciliation pass: scan, import, orphan resolution,
// missing handling, media resolution, validation. Per-file failures degrade
// that one row and are aggregated in the report; only store/scan-level
// failures abort the run.
func (r *Reconciler) Run(ctx context.Context) (*Report, error) {
	report := &Report{}

	// Scanning
	paths, err := helpers.ScanFiles(r.opts.TablesDir, TableExt)
	if err != nil {
		return nil, fmt.Errorf("table scan failed: %w", err)
	}
	report.Scanned = len(paths)
	log.Info().Int("count", len(paths)).Str("dir", r.opts.TablesDir).Msg("scanned table files")

	entries, err := r.store.ListAll(true)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	metas, err := r.extractAll(ctx, paths)
	if err != nil {
		return report, err
	}

	byPath := make(map[string]*database.CatalogEntry, len(entries))
	for i := range entries {
		byPath[entries[i].Path] = &entries[i]
	}
	scanned := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		scanned[p] = struct{}{}
	}

	// Importing: refresh rows whose files are still in place.
	var unclaimed []string
	for _, path := range paths {
		entry, ok := byPath[path]
		if !ok {
			unclaimed = append(unclaimed, path)
			continue
		}
		meta := metas[path]
		if !meta.Working {
			report.Errors++
		}
		if mergeMetadata(entry, meta) {
			if upsertErr := r.store.Upsert(entry); upsertErr != nil {
				log.Error().Err(upsertErr).Str("path", path).Msg("failed to update catalog entry")
				report.Errors++
				continue
			}
			report.Updated++
		}
	}

	// Orphan resolution: rows whose path vanished from the scan vs files
	// the catalog does not know yet.
	var orphans []*database.CatalogEntry
	for i := range entries {
		if _, ok := scanned[entries[i].Path]; !ok {
			orphans = append(orphans, &entries[i])
		}
	}
	r.resolveOrphans(report, orphans, unclaimed, metas)

	// Import whatever is still unclaimed as new entries.
	claimed := make(map[string]struct{}, len(report.Renamed))
	for _, pair := range report.Renamed {
		claimed[pair.NewPath] = struct{}{}
	}
	for _, path := range unclaimed {
		if _, ok := claimed[path]; ok {
			continue
		}
		meta := metas[path]
		entry := entryFromMetadata(meta)
		if !meta.Working {
			report.Errors++
		}
		if upsertErr := r.store.Upsert(entry); upsertErr != nil {
			log.Error().Err(upsertErr).Str("path", path).Msg("failed to insert catalog entry")
			report.Errors++
			continue
		}
		report.New++
		log.Debug().Str("path", path).Str("name", entry.Name).Msg("imported new table")
	}

	// MediaResolving
	r.resolveMedia(report)

	// Validating
	report.Validation = r.ValidateFiles()

	log.Info().Str("summary", report.String()).Msg("reconciliation pass complete")
	return report, nil
}

// extractAll runs metadata extraction for every path on a bounded worker
// pool. Extraction is read-only and file-scoped, so order does not matter;
// results are keyed by path for the sequential commit phase.
func (r *Reconciler) extractAll(ctx context.Context, paths []string) (map[string]*vpxfile.Metadata, error) {
	metas := make([]vpxfile.Metadata, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err() //nolint:wrapcheck // context error passed through
			default:
			}
			metas[i] = r.extract(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("extraction cancelled: %w", err)
	}

	byPath := make(map[string]*vpxfile.Metadata, len(paths))
	for i := range metas {
		byPath[paths[i]] = &metas[i]
	}
	return byPath, nil
}

// resolveOrphans repeatedly commits the globally best-scoring (orphan,
// candidate) pair above the threshold as a rename. Ties keep the first
// orphan in catalog iteration order. Orphans left over are disabled or
// removed per policy.
func (r *Reconciler) resolveOrphans(
	report *Report,
	orphans []*database.CatalogEntry,
	unclaimed []string,
	metas map[string]*vpxfile.Metadata,
) {
	scorer := Scorer{Weights: r.opts.Weights}
	minScore := r.opts.Weights.MinScore

	resolved := make(map[int]struct{})
	claimed := make(map[string]struct{})

	for {
		bestScore := -1
		bestOrphan := -1
		bestPath := ""

		for oi, orphan := range orphans {
			if _, done := resolved[oi]; done {
				continue
			}
			for _, path := range unclaimed {
				if _, taken := claimed[path]; taken {
					continue
				}
				score := scorer.Score(orphan, metas[path])
				if score > bestScore {
					bestScore = score
					bestOrphan = oi
					bestPath = path
				}
			}
		}

		if bestOrphan < 0 || bestScore < minScore {
			break
		}

		orphan := orphans[bestOrphan]
		oldPath := orphan.Path
		resolved[bestOrphan] = struct{}{}
		claimed[bestPath] = struct{}{}

		if err := r.store.UpdatePath(oldPath, bestPath); err != nil {
			log.Error().Err(err).
				Str("old", oldPath).Str("new", bestPath).
				Msg("failed to commit rename")
			report.Errors++
			continue
		}

		orphan.Path = bestPath
		if mergeMetadata(orphan, metas[bestPath]) {
			if err := r.store.Upsert(orphan); err != nil {
				log.Error().Err(err).Str("path", bestPath).Msg("failed to refresh renamed entry")
				report.Errors++
			}
		}

		report.Renamed = append(report.Renamed, RenamedPair{
			Name:    orphan.Name,
			OldPath: oldPath,
			NewPath: bestPath,
		})
		log.Info().
			Str("name", orphan.Name).
			Str("old", oldPath).
			Str("new", bestPath).
			Int("score", bestScore).
			Msg("reattached renamed table")
	}

	// Whatever was never reattached is reported missing and handled per
	// policy. Disable-only is the default; partial progress is never
	// rolled back.
	for oi, orphan := range orphans {
		if _, done := resolved[oi]; done {
			continue
		}
		report.Missing++
		log.Warn().Str("path", orphan.Path).Str("name", orphan.Name).Msg("table file missing")

		if r.opts.HardRemoveMissing {
			if err := r.store.Remove(orphan.Path); err != nil {
				log.Error().Err(err).Str("path", orphan.Path).Msg("failed to remove missing entry")
				report.Errors++
				continue
			}
			report.Removed++
		} else if orphan.Enabled {
			if err := r.store.SetEnabled(orphan.Path, false); err != nil {
				log.Error().Err(err).Str("path", orphan.Path).Msg("failed to disable missing entry")
				report.Errors++
				continue
			}
			report.Disabled++
		}
	}
}

// resolveMedia refreshes media references for every enabled row. References
// are only ever upgraded to a newly found path, never cleared because a
// pass found nothing; stale references are caught by validation.
func (r *Reconciler) resolveMedia(report *Report) {
	if r.resolver == nil {
		return
	}

	entries, err := r.store.ListAll(false)
	if err != nil {
		log.Error().Err(err).Msg("failed to list catalog for media resolution")
		report.Errors++
		return
	}

	for i := range entries {
		entry := &entries[i]
		found := r.resolver.FindForTable(entry.Name, entry.Manufacturer, entry.Year)

		changed := false
		for slot, path := range found {
			if path != "" && entry.MediaRef(slot) != path {
				entry.SetMediaRef(slot, path)
				changed = true
			}
		}

		if !changed {
			continue
		}
		if err := r.store.Upsert(entry); err != nil {
			log.Error().Err(err).Str("path", entry.Path).Msg("failed to update media references")
			report.Errors++
			continue
		}
		report.MediaUpdated++
	}
}

// ValidateFiles confirms every catalog row's backing file still exists on
// disk, defending against filesystem changes mid-run.
func (r *Reconciler) ValidateFiles() ValidationReport {
	var v ValidationReport

	entries, err := r.store.ListAll(true)
	if err != nil {
		log.Error().Err(err).Msg("failed to list catalog for validation")
		return v
	}

	for i := range entries {
		info, statErr := os.Stat(entries[i].Path)
		switch {
		case statErr != nil && os.IsNotExist(statErr):
			v.Missing++
		case statErr != nil || !info.Mode().IsRegular():
			v.Inaccessible++
		default:
			v.Valid++
		}
	}

	return v
}

// RemoveMissing disables or removes every row whose backing file is gone,
// without attempting orphan reattachment. It is the standalone form of the
// missing handling a full pass performs.
func (r *Reconciler) RemoveMissing() (*Report, error) {
	report := &Report{}

	entries, err := r.store.ListAll(true)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	for i := range entries {
		entry := &entries[i]
		if _, statErr := os.Stat(entry.Path); statErr == nil {
			continue
		}
		report.Missing++

		if r.opts.HardRemoveMissing {
			if removeErr := r.store.Remove(entry.Path); removeErr != nil {
				log.Error().Err(removeErr).Str("path", entry.Path).Msg("failed to remove missing entry")
				report.Errors++
				continue
			}
			report.Removed++
		} else if entry.Enabled {
			if disableErr := r.store.SetEnabled(entry.Path, false); disableErr != nil {
				log.Error().Err(disableErr).Str("path", entry.Path).Msg("failed to disable missing entry")
				report.Errors++
				continue
			}
			report.Disabled++
		}
	}

	return report, nil
}

// RescanEntry re-extracts metadata for a single catalog row in place.
func (r *Reconciler) RescanEntry(path string) (*database.CatalogEntry, error) {
	entry, err := r.store.FindByPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog entry: %w", err)
	}

	meta := r.extract(path)
	if mergeMetadata(entry, &meta) {
		if upsertErr := r.store.Upsert(entry); upsertErr != nil {
			return nil, fmt.Errorf("failed to update catalog entry: %w", upsertErr)
		}
	}

	return entry, nil
}

// RescanAll re-extracts metadata for every existing row in place, without a
// directory scan. Rows whose files are gone are counted missing and left
// untouched.
func (r *Reconciler) RescanAll(ctx context.Context) (*Report, error) {
	report := &Report{}

	entries, err := r.store.ListAll(true)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	paths := make([]string, 0, len(entries))
	for i := range entries {
		if _, statErr := os.Stat(entries[i].Path); statErr != nil {
			report.Missing++
			continue
		}
		paths = append(paths, entries[i].Path)
	}
	report.Scanned = len(paths)

	metas, err := r.extractAll(ctx, paths)
	if err != nil {
		return report, err
	}

	for i := range entries {
		entry := &entries[i]
		meta, ok := metas[entry.Path]
		if !ok {
			continue
		}
		if !meta.Working {
			report.Errors++
		}
		if mergeMetadata(entry, meta) {
			if upsertErr := r.store.Upsert(entry); upsertErr != nil {
				log.Error().Err(upsertErr).Str("path", entry.Path).Msg("failed to update catalog entry")
				report.Errors++
				continue
			}
			report.Updated++
		}
	}

	return report, nil
}

// entryFromMetadata builds a fresh catalog row from extracted metadata.
func entryFromMetadata(meta *vpxfile.Metadata) *database.CatalogEntry {
	return &database.CatalogEntry{
		Path:           meta.Path,
		Name:           meta.Name,
		Manufacturer:   meta.Manufacturer,
		Author:         meta.Author,
		Description:    meta.Description,
		TableVersion:   meta.TableVersion,
		FileVersion:    meta.FileVersion,
		ROM:            meta.ROM,
		Classification: meta.Classification,
		Size:           meta.Size,
		Modified:       meta.Modified,
		Year:           meta.Year,
		Players:        meta.Players,
		Working:        meta.Working,
		Enabled:        true,
	}
}

// mergeMetadata refreshes an entry from newly extracted metadata. File
// size/mtime always track the file; descriptive fields are only replaced by
// a non-empty, different value so a degraded rescan never wipes good data.
func mergeMetadata(entry *database.CatalogEntry, meta *vpxfile.Metadata) bool {
	changed := false

	if entry.Size != meta.Size {
		entry.Size = meta.Size
		changed = true
	}
	if entry.Modified.Unix() != meta.Modified.Unix() {
		entry.Modified = meta.Modified
		changed = true
	}

	refresh := func(dst *string, v string) {
		if v != "" && v != *dst {
			*dst = v
			changed = true
		}
	}
	refresh(&entry.Name, meta.Name)
	refresh(&entry.Manufacturer, meta.Manufacturer)
	refresh(&entry.Author, meta.Author)
	refresh(&entry.Description, meta.Description)
	refresh(&entry.TableVersion, meta.TableVersion)
	refresh(&entry.FileVersion, meta.FileVersion)
	refresh(&entry.ROM, meta.ROM)

	if meta.Year != 0 && meta.Year != entry.Year {
		entry.Year = meta.Year
		changed = true
	}
	// Classification is derived from the year, so it follows the merged year
	// rather than whatever a degraded extraction guessed.
	if derived := vpxfile.Classify(entry.Year); entry.Classification != derived {
		entry.Classification = derived
		changed = true
	}
	if meta.Players != 0 && meta.Players != entry.Players {
		entry.Players = meta.Players
		changed = true
	}
	if entry.Working != meta.Working {
		entry.Working = meta.Working
		changed = true
	}

	return changed
}
