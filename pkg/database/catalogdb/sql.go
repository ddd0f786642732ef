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

package catalogdb

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/PinCabProject/pincab-core/pkg/database"
	"github.com/PinCabProject/pincab-core/pkg/media"
	"github.com/rs/zerolog/log"
)

// Queries go here to keep the interface clean

//go:embed migrations/*.sql
var migrationFiles embed.FS

// mediaColumns maps media slots to their catalog columns, in the same order
// as the column list in entryColumns.
var mediaColumns = []struct {
	Slot media.Slot
	Col  string
}{
	{media.Slot{Surface: media.SurfaceTable, Kind: media.KindImage}, "TableImage"},
	{media.Slot{Surface: media.SurfaceTable, Kind: media.KindVideo}, "TableVideo"},
	{media.Slot{Surface: media.SurfaceBackglass, Kind: media.KindImage}, "BackglassImage"},
	{media.Slot{Surface: media.SurfaceBackglass, Kind: media.KindVideo}, "BackglassVideo"},
	{media.Slot{Surface: media.SurfaceDMD, Kind: media.KindImage}, "DMDImage"},
	{media.Slot{Surface: media.SurfaceDMD, Kind: media.KindVideo}, "DMDVideo"},
	{media.Slot{Surface: media.SurfaceTopper, Kind: media.KindImage}, "TopperImage"},
	{media.Slot{Surface: media.SurfaceTopper, Kind: media.KindVideo}, "TopperVideo"},
	{media.Slot{Surface: media.SurfaceWheel, Kind: media.KindImage}, "WheelImage"},
	{media.Slot{Surface: media.SurfaceLaunchAudio, Kind: media.KindAudio}, "LaunchAudio"},
	{media.Slot{Surface: media.SurfaceAmbientAudio, Kind: media.KindAudio}, "AmbientAudio"},
}

const entryColumns = `
	DBID, Path, Name, Manufacturer, Year, Author, Description,
	TableVersion, FileVersion, ROM, Players, Classification,
	FileSize, FileModified, Working, Enabled,
	TableImage, TableVideo, BackglassImage, BackglassVideo,
	DMDImage, DMDVideo, TopperImage, TopperVideo,
	WheelImage, LaunchAudio, AmbientAudio`

func sqlMigrateUp(db *sql.DB) error {
	if err := database.MigrateUp(db, migrationFiles, "migrations"); err != nil {
		return fmt.Errorf("failed to run catalog database migrations: %w", err)
	}
	return nil
}

//goland:noinspection SqlWithoutWhere
func sqlTruncate(ctx context.Context, db *sql.DB) error {
	sqlStmt := `
	delete from Catalog;
	vacuum;
	`
	_, err := db.ExecContext(ctx, sqlStmt)
	if err != nil {
		return fmt.Errorf("failed to truncate database: %w", err)
	}
	return nil
}

func sqlVacuum(ctx context.Context, db *sql.DB) error {
	sqlStmt := `
	vacuum;
	`
	_, err := db.ExecContext(ctx, sqlStmt)
	if err != nil {
		return fmt.Errorf("failed to vacuum database: %w", err)
	}
	return nil
}

func scanEntry(row interface{ Scan(...any) error }) (database.CatalogEntry, error) {
	var entry database.CatalogEntry
	var modified int64
	mediaRefs := make([]string, len(mediaColumns))
	dest := []any{
		&entry.DBID, &entry.Path, &entry.Name, &entry.Manufacturer,
		&entry.Year, &entry.Author, &entry.Description,
		&entry.TableVersion, &entry.FileVersion, &entry.ROM,
		&entry.Players, &entry.Classification,
		&entry.Size, &modified, &entry.Working, &entry.Enabled,
	}
	for i := range mediaRefs {
		dest = append(dest, &mediaRefs[i])
	}

	if err := row.Scan(dest...); err != nil {
		return entry, err //nolint:wrapcheck // callers wrap with query context
	}

	entry.Modified = time.Unix(modified, 0)
	for i, mc := range mediaColumns {
		if mediaRefs[i] != "" {
			entry.SetMediaRef(mc.Slot, mediaRefs[i])
		}
	}

	return entry, nil
}

func sqlFindByPath(ctx context.Context, db *sql.DB, path string) (*database.CatalogEntry, error) {
	row := db.QueryRowContext(ctx, `
		select `+entryColumns+`
		from Catalog
		where Path = ?;
	`, path)

	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to query catalog entry: %w", err)
	}

	return &entry, nil
}

func sqlListAll(ctx context.Context, db *sql.DB, includeDisabled bool) ([]database.CatalogEntry, error) {
	query := `
		select ` + entryColumns + `
		from Catalog
	`
	if !includeDisabled {
		query += ` where Enabled = 1`
	}
	query += ` order by DBID;`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql rows")
		}
	}()

	var list []database.CatalogEntry
	for rows.Next() {
		entry, scanErr := scanEntry(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan catalog entry: %w", scanErr)
		}
		list = append(list, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading catalog rows: %w", err)
	}

	return list, nil
}

func sqlUpsert(ctx context.Context, db *sql.DB, entry *database.CatalogEntry) error {
	mediaVals := make([]any, len(mediaColumns))
	for i, mc := range mediaColumns {
		mediaVals[i] = entry.MediaRef(mc.Slot)
	}

	args := []any{
		entry.Path, entry.Name, entry.Manufacturer, entry.Year,
		entry.Author, entry.Description, entry.TableVersion,
		entry.FileVersion, entry.ROM, entry.Players, entry.Classification,
		entry.Size, entry.Modified.Unix(), entry.Working, entry.Enabled,
	}
	args = append(args, mediaVals...)

	stmt, err := db.PrepareContext(ctx, `
		insert into Catalog(
			Path, Name, Manufacturer, Year, Author, Description,
			TableVersion, FileVersion, ROM, Players, Classification,
			FileSize, FileModified, Working, Enabled,
			TableImage, TableVideo, BackglassImage, BackglassVideo,
			DMDImage, DMDVideo, TopperImage, TopperVideo,
			WheelImage, LaunchAudio, AmbientAudio, UpdatedAt
		) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, strftime('%s','now'))
		on conflict (Path) do update set
			Name = excluded.Name,
			Manufacturer = excluded.Manufacturer,
			Year = excluded.Year,
			Author = excluded.Author,
			Description = excluded.Description,
			TableVersion = excluded.TableVersion,
			FileVersion = excluded.FileVersion,
			ROM = excluded.ROM,
			Players = excluded.Players,
			Classification = excluded.Classification,
			FileSize = excluded.FileSize,
			FileModified = excluded.FileModified,
			Working = excluded.Working,
			Enabled = excluded.Enabled,
			TableImage = excluded.TableImage,
			TableVideo = excluded.TableVideo,
			BackglassImage = excluded.BackglassImage,
			BackglassVideo = excluded.BackglassVideo,
			DMDImage = excluded.DMDImage,
			DMDVideo = excluded.DMDVideo,
			TopperImage = excluded.TopperImage,
			TopperVideo = excluded.TopperVideo,
			WheelImage = excluded.WheelImage,
			LaunchAudio = excluded.LaunchAudio,
			AmbientAudio = excluded.AmbientAudio,
			UpdatedAt = strftime('%s','now');
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare catalog upsert statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	if _, err := stmt.ExecContext(ctx, args...); err != nil {
		return fmt.Errorf("failed to execute catalog upsert: %w", err)
	}
	return nil
}

func sqlUpdatePath(ctx context.Context, db *sql.DB, oldPath, newPath string) error {
	result, err := db.ExecContext(ctx, `
		update Catalog
		set Path = ?, UpdatedAt = strftime('%s','now')
		where Path = ?;
	`, newPath, oldPath)
	if err != nil {
		return fmt.Errorf("failed to update catalog entry path: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return database.ErrNotFound
	}
	return nil
}

func sqlSetEnabled(ctx context.Context, db *sql.DB, path string, enabled bool) error {
	result, err := db.ExecContext(ctx, `
		update Catalog
		set Enabled = ?, UpdatedAt = strftime('%s','now')
		where Path = ?;
	`, enabled, path)
	if err != nil {
		return fmt.Errorf("failed to update catalog entry enabled flag: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return database.ErrNotFound
	}
	return nil
}

func sqlRemove(ctx context.Context, db *sql.DB, path string) error {
	result, err := db.ExecContext(ctx, `
		delete from Catalog
		where Path = ?;
	`, path)
	if err != nil {
		return fmt.Errorf("failed to delete catalog entry: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return database.ErrNotFound
	}
	return nil
}

func sqlManufacturers(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, `
		select distinct Manufacturer
		from Catalog
		where Manufacturer != '' and Enabled = 1
		order by Manufacturer;
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query manufacturers: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql rows")
		}
	}()

	var list []string
	for rows.Next() {
		var m string
		if scanErr := rows.Scan(&m); scanErr != nil {
			return nil, fmt.Errorf("failed to scan manufacturer: %w", scanErr)
		}
		list = append(list, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading manufacturer rows: %w", err)
	}

	return list, nil
}
