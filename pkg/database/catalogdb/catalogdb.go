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

// Package catalogdb is the sqlite implementation of the catalog store.
package catalogdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/PinCabProject/pincab-core/pkg/config"
	"github.com/PinCabProject/pincab-core/pkg/database"
	_ "github.com/mattn/go-sqlite3"
)

var ErrNullSQL = errors.New("CatalogDB is not connected")

const sqliteConnParams = "?_journal_mode=WAL&_synchronous=FULL&_busy_timeout=5000"

// CatalogDB implements database.CatalogStoreI over sqlite.
type CatalogDB struct {
	sql     *sql.DB
	ctx     context.Context
	dataDir string
}

// OpenCatalogDB opens (and if needed creates) the catalog database under
// dataDir.
func OpenCatalogDB(ctx context.Context, dataDir string) (*CatalogDB, error) {
	db := &CatalogDB{sql: nil, ctx: ctx, dataDir: dataDir}
	err := db.Open()
	return db, err
}

func (db *CatalogDB) Open() error {
	exists := true
	dbPath := db.GetDBPath()
	_, err := os.Stat(dbPath)
	if err != nil {
		exists = false
		mkdirErr := os.MkdirAll(filepath.Dir(dbPath), 0o750)
		if mkdirErr != nil {
			return fmt.Errorf("failed to create directory for database: %w", mkdirErr)
		}
	}
	sqlInstance, err := sql.Open("sqlite3", dbPath+sqliteConnParams)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db.sql = sqlInstance
	if !exists {
		return db.Allocate()
	}
	return nil
}

func (db *CatalogDB) GetDBPath() string {
	return filepath.Join(db.dataDir, config.CatalogDBFile)
}

func (db *CatalogDB) UnsafeGetSQLDb() *sql.DB {
	return db.sql
}

func (db *CatalogDB) Truncate() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlTruncate(db.ctx, db.sql)
}

func (db *CatalogDB) Allocate() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlMigrateUp(db.sql)
}

func (db *CatalogDB) MigrateUp() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlMigrateUp(db.sql)
}

func (db *CatalogDB) Vacuum() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlVacuum(db.ctx, db.sql)
}

func (db *CatalogDB) Close() error {
	if db.sql == nil {
		return nil
	}
	err := db.sql.Close()
	if err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// SetSQLForTesting allows injection of a sql.DB instance for tests running
// against an in-memory database.
func (db *CatalogDB) SetSQLForTesting(ctx context.Context, sqlDB *sql.DB) error {
	db.sql = sqlDB
	db.ctx = ctx
	return db.Allocate()
}

func (db *CatalogDB) FindByPath(path string) (*database.CatalogEntry, error) {
	return sqlFindByPath(db.ctx, db.sql, path)
}

func (db *CatalogDB) ListAll(includeDisabled bool) ([]database.CatalogEntry, error) {
	return sqlListAll(db.ctx, db.sql, includeDisabled)
}

func (db *CatalogDB) Upsert(entry *database.CatalogEntry) error {
	return sqlUpsert(db.ctx, db.sql, entry)
}

func (db *CatalogDB) UpdatePath(oldPath, newPath string) error {
	return sqlUpdatePath(db.ctx, db.sql, oldPath, newPath)
}

func (db *CatalogDB) SetEnabled(path string, enabled bool) error {
	return sqlSetEnabled(db.ctx, db.sql, path, enabled)
}

func (db *CatalogDB) Remove(path string) error {
	return sqlRemove(db.ctx, db.sql, path)
}

func (db *CatalogDB) Manufacturers() ([]string, error) {
	return sqlManufacturers(db.ctx, db.sql)
}
