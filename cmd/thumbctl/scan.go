package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/thumbkit/pkg/thumbcache"
)

var (
	scanExt        string
	scanFolders    bool
	scanVolumeGUID string
	scanOS         []string
	scanIndex      string
)

func init() {
	cmd := newScanCmd()
	cmd.Flags().StringVar(&scanExt, "ext", "", `Pipe-delimited extensions to hash, e.g. "jpg|png" ("*" for all)`)
	cmd.Flags().BoolVar(&scanFolders, "folders", false, "Hash directories too")
	cmd.Flags().StringVar(&scanVolumeGUID, "volume-guid", "", "Volume GUID to hash with instead of the one detected")
	cmd.Flags().StringSliceVar(&scanOS, "os", nil, "Windows versions to hash for (vista, win7, win8, win8v2, win8v3, win8.1, win10)")
	cmd.Flags().StringVar(&scanIndex, "index", "", "Hash the files listed in this index database instead of walking a directory")
	rootCmd.AddCommand(cmd)
}

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <database|dir> [root]",
		Short: "Name entries by hashing files on disk",
		Long: `The scan command recomputes the cache hash of files on this machine and
renames every entry whose hash matches with the file's path. Files come
from a directory walk under root, or from the item paths of an index
database with --index.

The hash depends on the volume GUID, the file ID, the last write time and
the extension. Use --volume-guid when hashing a copied or mounted volume.

Example:
  thumbctl scan Explorer C:\Users\alice\Pictures
  thumbctl scan thumbcache_256.db /mnt/c/Users --volume-guid {3f0c...}
  thumbctl scan Explorer --index Windows.edb --os win10`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args)
		},
	}
	return cmd
}

// scanOptions merges the config file scan settings with the flags.
func scanOptions(cmd *cobra.Command) (thumbcache.ScanOptions, error) {
	c := *cfg
	if f := cmd.Flags().Lookup("ext"); f != nil && f.Changed {
		c.Scan.Extensions = f.Value.String()
	}
	if c.Scan.Extensions == "*" {
		c.Scan.Extensions = ""
	}
	if scanFolders {
		c.Scan.IncludeFolders = true
	}
	if scanVolumeGUID != "" {
		c.Scan.VolumeGUID = scanVolumeGUID
	}
	if len(scanOS) > 0 {
		c.Scan.OSVersions = scanOS
	}
	versions, err := c.Versions()
	if err != nil {
		return thumbcache.ScanOptions{}, err
	}
	return thumbcache.ScanOptions{
		Extensions:     c.Scan.Extensions,
		IncludeFolders: c.Scan.IncludeFolders,
		VolumeGUID:     c.Scan.VolumeGUID,
		Versions:       versions,
	}, nil
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if len(args) < 2 && scanIndex == "" {
		return errors.New("a root directory or --index is required")
	}

	opts, err := scanOptions(cmd)
	if err != nil {
		return err
	}

	eng := newEngine()
	defer eng.Close()
	if _, err := loadDatabases(ctx, eng, args[0]); err != nil {
		return err
	}

	var matches []thumbcache.Match
	opts.OnMatch = func(m thumbcache.Match) {
		matches = append(matches, m)
		printVerbose("%016x  %s (%d entries)\n", m.Hash, m.Path, m.Renamed)
	}

	var stats thumbcache.ScanStats
	if scanIndex != "" {
		printVerbose("Opening index: %s\n", scanIndex)
		if err := eng.OpenIndex(ctx, scanIndex); err != nil {
			return fmt.Errorf("failed to open index: %w", err)
		}
		stats, err = eng.ScanIndexPaths(ctx, opts)
	} else {
		printVerbose("Scanning: %s\n", args[1])
		stats, err = eng.ScanFilesystem(ctx, args[1], opts)
	}
	// Renames made before a cancel or walk error still stand.
	if err != nil {
		printError("scan stopped: %v\n", err)
	}

	if jsonOut {
		type matchJSON struct {
			Path    string `json:"path"`
			Hash    string `json:"hash"`
			Version string `json:"version"`
			Entries int    `json:"entries"`
		}
		out := struct {
			Stats   thumbcache.ScanStats `json:"stats"`
			Matches []matchJSON          `json:"matches"`
		}{Stats: stats, Matches: make([]matchJSON, 0, len(matches))}
		for _, m := range matches {
			out.Matches = append(out.Matches, matchJSON{
				Path:    m.Path,
				Hash:    hashString(m.Hash),
				Version: m.Version.String(),
				Entries: m.Renamed,
			})
		}
		if jerr := printJSON(out); jerr != nil {
			return jerr
		}
		return err
	}

	printScanStats(stats)
	if len(matches) > 0 && !verbose {
		var b strings.Builder
		for _, m := range matches {
			fmt.Fprintf(&b, "  %016x  %s\n", m.Hash, m.Path)
		}
		printInfo("\nMatches:\n%s", b.String())
	}
	return err
}

func printScanStats(s thumbcache.ScanStats) {
	printInfo("\nScan Results:\n")
	printInfo("  Visited: %s\n", count(s.Visited))
	printInfo("  Hashed: %s\n", count(s.Hashed))
	printInfo("  Skipped: %s\n", count(s.Skipped))
	printInfo("  Failed: %s\n", count(s.Failed))
	printInfo("  Matched files: %s\n", count(s.Matched))
	printInfo("  Entries renamed: %s\n", count(s.Renamed))
}
