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

package database

import (
	"database/sql"
	"errors"
	"time"

	"github.com/PinCabProject/pincab-core/pkg/media"
)

// ErrNotFound is returned when no catalog row matches a lookup.
var ErrNotFound = errors.New("catalog entry not found")

// CatalogEntry is one row of the table catalog, keyed by the absolute path
// of the backing table file.
type CatalogEntry struct {
	Modified       time.Time
	Media          map[media.Slot]string
	Path           string
	Name           string
	Manufacturer   string
	Author         string
	Description    string
	TableVersion   string
	FileVersion    string
	ROM            string
	Classification string
	DBID           int64
	Size           int64
	Year           int
	Players        int
	Working        bool
	Enabled        bool
}

// MediaRef returns the stored media path for a slot, or empty.
func (e *CatalogEntry) MediaRef(slot media.Slot) string {
	if e.Media == nil {
		return ""
	}
	return e.Media[slot]
}

// SetMediaRef records a media path for a slot.
func (e *CatalogEntry) SetMediaRef(slot media.Slot, path string) {
	if e.Media == nil {
		e.Media = make(map[media.Slot]string)
	}
	e.Media[slot] = path
}

// CatalogStoreI is the persistent catalog store consumed by the reconciler.
// Implementations must guarantee path uniqueness and per-call durability.
type CatalogStoreI interface {
	FindByPath(path string) (*CatalogEntry, error)
	ListAll(includeDisabled bool) ([]CatalogEntry, error)
	Upsert(entry *CatalogEntry) error
	UpdatePath(oldPath, newPath string) error
	SetEnabled(path string, enabled bool) error
	Remove(path string) error
	Manufacturers() ([]string, error)
}

// GenericDBI is the shared lifecycle surface of the sqlite-backed stores.
type GenericDBI interface {
	Open() error
	UnsafeGetSQLDb() *sql.DB
	Truncate() error
	Allocate() error
	MigrateUp() error
	Vacuum() error
	Close() error
	GetDBPath() string
}
