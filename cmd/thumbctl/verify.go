package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/thumbkit/pkg/types"
)

var verifyShowAll bool

func init() {
	cmd := newVerifyCmd()
	cmd.Flags().BoolVar(&verifyShowAll, "all", false, "List every entry, not only mismatches")
	rootCmd.AddCommand(cmd)
}

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <database|dir>",
		Short: "Recompute and compare entry checksums",
		Long: `The verify command recomputes the header and data checksum of every
entry and lists the entries whose stored checksums do not match.

Example:
  thumbctl verify thumbcache_256.db
  thumbctl verify Explorer --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, args)
		},
	}
	return cmd
}

type verifyJSON struct {
	Checked    int         `json:"checked"`
	HeaderBad  int         `json:"header_bad"`
	DataBad    int         `json:"data_bad"`
	Unreadable int         `json:"unreadable"`
	Mismatches []entryJSON `json:"mismatches"`
}

func runVerify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	eng := newEngine()
	defer eng.Close()

	if _, err := loadDatabases(ctx, eng, args[0]); err != nil {
		return err
	}

	res, err := eng.VerifyAll(ctx)
	if err != nil {
		return fmt.Errorf("verify failed: %w", err)
	}

	var bad []*types.Entry
	for _, ent := range eng.Entries() {
		if verifyShowAll || !ent.HeaderValid() || !ent.DataValid() {
			bad = append(bad, ent)
		}
	}

	if jsonOut {
		out := verifyJSON{
			Checked:    res.Checked,
			HeaderBad:  res.HeaderBad,
			DataBad:    res.DataBad,
			Unreadable: res.Unreadable,
			Mismatches: make([]entryJSON, 0, len(bad)),
		}
		for _, ent := range bad {
			out.Mismatches = append(out.Mismatches, toEntryJSON(ent))
		}
		return printJSON(out)
	}

	for _, ent := range bad {
		printInfo("%016x  header:%s  data:%s  %s\n",
			ent.Hash, checkMark(ent.HeaderValid()), checkMark(ent.DataValid()), ent.Filename)
	}
	printInfo("\nChecked %s entries: %s header mismatches, %s data mismatches",
		count(res.Checked), count(res.HeaderBad), count(res.DataBad))
	if res.Unreadable > 0 {
		printInfo(", %s unreadable", count(res.Unreadable))
	}
	printInfo("\n")
	if res.HeaderBad == 0 && res.DataBad == 0 && res.Unreadable == 0 {
		printInfo("✓ All checksums match\n")
	}
	return nil
}

func checkMark(ok bool) string {
	if ok {
		return "ok"
	}
	return "BAD"
}
