package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joshuapare/thumbkit/pkg/thumbcache"
)

// loadDatabases parses path, which is a cache database or a directory of
// them. Files in a directory that fail to parse are reported and skipped.
func loadDatabases(ctx context.Context, eng *thumbcache.Engine, path string) ([]*thumbcache.Database, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("database not found: %s", path)
	}

	if !fi.IsDir() {
		printVerbose("Parsing database: %s\n", path)
		db, err := eng.ParseDatabase(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return []*thumbcache.Database{db}, nil
	}

	printVerbose("Parsing databases in: %s\n", path)
	dbs, err := eng.ParseDirectory(ctx, path)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		printError("some databases were skipped:\n%v\n", err)
	}
	if len(dbs) == 0 {
		return nil, fmt.Errorf("no cache databases found in %s", path)
	}
	return dbs, nil
}
