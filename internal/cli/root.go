// Package cli implements the command-line interface for facevalue.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/facevalue/internal/logging"
	"github.com/SeamusWaldron/facevalue/internal/recorder"
	"github.com/SeamusWaldron/facevalue/internal/storage"
)

const version = "0.1.0"

var (
	// Global flags
	dbPath  string
	verbose bool
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "facevalue",
	Short: "Face value field multiplexing toolkit",
	Long: `facevalue - Tools for designing and debugging face value field layouts.

Decode face value bytes, replay scripted face inputs through the change
detector, watch cycles step by step, and flood values across a simulated
line of devices. Runs can be recorded to SQLite for later inspection.`,
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.ConfigureRuntime()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database file path (default: ~/.facevalue/facevalue.db)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every detected change")
}

// handlerLogger returns the logger passed to face value handlers. Change
// tracing is at debug level, so it only shows with --verbose.
func handlerLogger() zerolog.Logger {
	l := logging.Logger()
	if verbose {
		return l.Level(zerolog.DebugLevel)
	}
	return l
}

// openDB opens and migrates the database from the flag, the state file, or
// the default path, in that order. A --db path is remembered in the state
// file so later commands find the same database without the flag.
func openDB(stateFile *recorder.StateFile) (*storage.DB, error) {
	path := dbPath
	if path != "" && stateFile != nil {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, err
		}
		path = abs
		if stateFile.DBPath() != path {
			if err := stateFile.SetDBPath(path); err != nil {
				return nil, fmt.Errorf("failed to save database path: %w", err)
			}
		}
	}
	if path == "" && stateFile != nil {
		path = stateFile.DBPath()
	}
	if path == "" {
		p, err := storage.DefaultDBPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	db, err := storage.Open(path)
	if err != nil {
		return nil, err
	}
	if err := db.MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}
