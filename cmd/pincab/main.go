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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/PinCabProject/pincab-core/pkg/config"
	"github.com/PinCabProject/pincab-core/pkg/database/catalogdb"
	"github.com/PinCabProject/pincab-core/pkg/helpers"
	"github.com/PinCabProject/pincab-core/pkg/media"
	"github.com/PinCabProject/pincab-core/pkg/reconcile"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, "pincab")
}

func run() error {
	doScan := flag.Bool("scan", false, "scan the tables directory and reconcile the catalog")
	doValidate := flag.Bool("validate", false, "check that every catalog entry's file exists")
	doRemoveMissing := flag.Bool("remove-missing", false, "disable catalog entries whose files are gone")
	hardRemove := flag.Bool("hard-remove", false, "delete rows for missing files instead of disabling them")
	tablesDir := flag.String("tables-dir", "", "override the configured tables directory")
	mediaDir := flag.String("media-dir", "", "override the configured media directory")
	dataDir := flag.String("config", defaultDataDir(), "config and database directory")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	err := helpers.InitLogging(*dataDir, []io.Writer{zerolog.ConsoleWriter{Out: os.Stderr}})
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	cfg, err := config.NewConfig(*dataDir, config.BaseDefaults)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if *debug || cfg.DebugLogging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if *tablesDir != "" {
		cfg.SetTablesDir(*tablesDir)
	}
	if *mediaDir != "" {
		cfg.SetMediaDir(*mediaDir)
	}
	if *hardRemove {
		cfg.SetRemoveMissing(true)
	}

	if !*doScan && !*doValidate && !*doRemoveMissing {
		flag.Usage()
		return errors.New("no action given")
	}
	if cfg.TablesDir() == "" {
		return errors.New("no tables directory configured, set tables.dir or pass -tables-dir")
	}

	ctx := context.Background()
	db, err := catalogdb.OpenCatalogDB(ctx, *dataDir)
	if err != nil {
		return fmt.Errorf("failed to open catalog database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("error closing catalog database")
		}
	}()

	var resolver *media.Resolver
	if cfg.MediaDir() != "" {
		resolver = media.NewOsResolver(cfg.MediaDir())
	}

	rec := reconcile.New(db, resolver, reconcile.Options{
		TablesDir:         cfg.TablesDir(),
		Weights:           cfg.MatchWeights(),
		HardRemoveMissing: cfg.RemoveMissing(),
	})

	switch {
	case *doScan:
		report, runErr := rec.Run(ctx)
		if runErr != nil {
			return fmt.Errorf("reconciliation failed: %w", runErr)
		}
		fmt.Println(report.String())
		for _, pair := range report.Renamed {
			fmt.Printf("renamed: %s: %s -> %s\n", pair.Name, pair.OldPath, pair.NewPath)
		}
		if resolver != nil {
			log.Info().Interface("counts", resolver.Statistics()).Msg("media library statistics")
		}
	case *doRemoveMissing:
		report, rmErr := rec.RemoveMissing()
		if rmErr != nil {
			return fmt.Errorf("remove-missing failed: %w", rmErr)
		}
		fmt.Printf("missing=%d disabled=%d removed=%d errors=%d\n",
			report.Missing, report.Disabled, report.Removed, report.Errors)
	case *doValidate:
		v := rec.ValidateFiles()
		fmt.Printf("valid=%d missing=%d inaccessible=%d\n",
			v.Valid, v.Missing, v.Inaccessible)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
