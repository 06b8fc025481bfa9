package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/thumbkit/pkg/types"
)

func init() {
	rootCmd.AddCommand(newLookupCmd())
}

func newLookupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup <index> <hash>...",
		Short: "Look up cache hashes in a Windows Search index",
		Long: `The lookup command opens a Windows Search index database (Windows.edb
on Windows 7 through 10, Windows.db on Windows 11) and prints the
properties of the items whose thumbnail cache ID matches each hash.

Hashes are hexadecimal, with or without a 0x prefix.

Example:
  thumbctl lookup Windows.edb 3a5f00c1e2d4b679
  thumbctl lookup Windows.db 0x3a5f00c1e2d4b679 --json`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, args)
		},
	}
	return cmd
}

func parseHash(s string) (uint64, error) {
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid hash %q", s)
	}
	return v, nil
}

func runLookup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	hashes := make([]uint64, 0, len(args)-1)
	for _, a := range args[1:] {
		h, err := parseHash(a)
		if err != nil {
			return err
		}
		hashes = append(hashes, h)
	}

	eng := newEngine()
	defer eng.Close()

	printVerbose("Opening index: %s\n", args[0])
	if err := eng.OpenIndex(ctx, args[0]); err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}

	results := make(map[string][]types.ExtendedInfo, len(hashes))
	for _, h := range hashes {
		info, err := eng.CrossReference(ctx, h)
		if err != nil {
			return fmt.Errorf("lookup %016x: %w", h, err)
		}
		results[hashString(h)] = info
	}

	if jsonOut {
		return printJSON(results)
	}
	for _, h := range hashes {
		key := hashString(h)
		info := results[key]
		if len(info) == 0 {
			printInfo("%s: not in index\n", key)
			continue
		}
		printInfo("%s:\n", key)
		for _, p := range info {
			printInfo("  %s: %s\n", p.Name, p.Value)
		}
	}
	return nil
}
