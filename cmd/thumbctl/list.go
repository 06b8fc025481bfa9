package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/joshuapare/thumbkit/pkg/thumbcache"
	"github.com/joshuapare/thumbkit/pkg/types"
)

var (
	listIndex string
	listMap   bool
	listProps bool
	listLimit int
)

func init() {
	cmd := newListCmd()
	cmd.Flags().StringVar(&listIndex, "index", "", "Windows Search index (Windows.edb or Windows.db) to cross-reference")
	cmd.Flags().BoolVar(&listMap, "map", false, "Rename entries after the paths recorded in the index")
	cmd.Flags().BoolVar(&listProps, "props", false, "Show every index property of each entry")
	cmd.Flags().IntVar(&listLimit, "limit", 0, "Show at most this many entries (0 for all)")
	rootCmd.AddCommand(cmd)
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <database|dir>",
		Short: "List recovered cache entries",
		Long: `The list command prints every entry recovered from the databases:
its hash, data size, image type, dimensions and file name.

With --index the entries are looked up in a Windows Search index database
and the matching properties are attached. --map also renames entries to
the file paths the index records.

Example:
  thumbctl list thumbcache_256.db
  thumbctl list Explorer --index Windows.edb --map
  thumbctl list thumbcache_96.db --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, args)
		},
	}
	return cmd
}

type entryJSON struct {
	Hash           string               `json:"hash"`
	Filename       string               `json:"filename"`
	Size           uint32               `json:"size"`
	Image          string               `json:"image"`
	Width          uint32               `json:"width,omitempty"`
	Height         uint32               `json:"height,omitempty"`
	Database       string               `json:"database"`
	Version        string               `json:"version"`
	HeaderOffset   int64                `json:"header_offset"`
	DataOffset     int64                `json:"data_offset"`
	HeaderChecksum string               `json:"header_checksum"`
	DataChecksum   string               `json:"data_checksum"`
	Properties     []types.ExtendedInfo `json:"properties,omitempty"`
}

func toEntryJSON(ent *types.Entry) entryJSON {
	return entryJSON{
		Hash:           hashString(ent.Hash),
		Filename:       ent.Filename,
		Size:           ent.Size,
		Image:          ent.Image.String(),
		Width:          ent.Width,
		Height:         ent.Height,
		Database:       ent.DatabasePath(),
		Version:        ent.Version().String(),
		HeaderOffset:   ent.HeaderOffset,
		DataOffset:     ent.DataOffset,
		HeaderChecksum: hashString(ent.HeaderChecksum),
		DataChecksum:   hashString(ent.DataChecksum),
		Properties:     ent.Extended,
	}
}

func hashString(v uint64) string { return fmt.Sprintf("%016x", v) }

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	eng := newEngine()
	defer eng.Close()

	if _, err := loadDatabases(ctx, eng, args[0]); err != nil {
		return err
	}

	if listIndex != "" {
		if err := attachIndex(cmd, eng, listIndex, listMap); err != nil {
			return err
		}
	} else if listMap {
		return fmt.Errorf("--map requires --index")
	}

	entries := eng.Entries()
	if listLimit > 0 && len(entries) > listLimit {
		entries = entries[:listLimit]
	}

	if jsonOut {
		out := make([]entryJSON, 0, len(entries))
		for _, ent := range entries {
			out = append(out, toEntryJSON(ent))
		}
		return printJSON(out)
	}

	if quiet {
		return nil
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "HASH\tSIZE\tTYPE\tDIMENSIONS\tDATABASE\tNAME")
	for _, ent := range entries {
		dims := "-"
		if ent.Width != 0 || ent.Height != 0 {
			dims = fmt.Sprintf("%dx%d", ent.Width, ent.Height)
		}
		fmt.Fprintf(tw, "%016x\t%s\t%s\t%s\t%s\t%s\n",
			ent.Hash, count(int(ent.Size)), ent.Image, dims,
			filepath.Base(ent.DatabasePath()), ent.Filename)
		if listProps {
			for _, p := range ent.Extended {
				fmt.Fprintf(tw, "\t\t\t\t%s\t%s\n", p.Name, p.Value)
			}
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	printInfo("\n%s entries\n", count(len(entries)))
	return nil
}

// attachIndex opens path and attaches its properties to every entry. With
// rename set, entries also take the file paths the index records.
func attachIndex(cmd *cobra.Command, eng *thumbcache.Engine, path string, rename bool) error {
	ctx := cmd.Context()
	printVerbose("Opening index: %s\n", path)
	if err := eng.OpenIndex(ctx, path); err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	n, err := eng.CrossReferenceAll(ctx)
	if err != nil {
		return fmt.Errorf("cross reference failed: %w", err)
	}
	printVerbose("Index properties attached to %s entries\n", count(n))
	if rename {
		n, err := eng.MapFromIndex(ctx)
		if err != nil {
			return fmt.Errorf("mapping index paths failed: %w", err)
		}
		printVerbose("Renamed %s entries from index paths\n", count(n))
	}
	return nil
}
