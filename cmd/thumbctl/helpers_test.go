package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/joshuapare/thumbkit/internal/config"
	"github.com/joshuapare/thumbkit/internal/format"
	"github.com/joshuapare/thumbkit/internal/testutil"
)

// writeTestDatabase writes a Windows 7 thumbcache_256.db into dir.
func writeTestDatabase(t *testing.T, dir string, records ...testutil.Record) string {
	t.Helper()
	b := testutil.New(format.VersionWin7)
	b.CacheType = 2
	for _, r := range records {
		b.Add(r)
	}
	return b.WriteFile(t, dir, "thumbcache_256.db")
}

// testCmd returns a command carrying a background context, as Execute
// would provide.
func testCmd() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Flags().String("ext", "", "")
	cmd.SetContext(context.Background())
	return cmd
}

// resetFlags restores every global flag to its default.
func resetFlags() {
	verbose, quiet, jsonOut, configPath = false, false, false, ""
	cfg = config.Default()
	infoReport = false
	listIndex, listMap, listProps, listLimit = "", false, false, 0
	extractOut, extractIndex = "thumbnails", ""
	verifyShowAll = false
	scanExt, scanFolders, scanVolumeGUID, scanOS, scanIndex = "", false, "", nil, ""
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	// Drain concurrently so large outputs cannot fill the pipe.
	done := make(chan struct{})
	var buf bytes.Buffer
	go func() {
		defer close(done)
		_, _ = buf.ReadFrom(r)
	}()

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout
	<-done
	r.Close()

	return buf.String(), fnErr
}

// assertJSON checks that output is valid JSON
func assertJSON(t *testing.T, output string) {
	t.Helper()
	var result any
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Errorf("invalid JSON output: %v\nOutput: %s", err, output)
	}
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}

// assertNotContains checks that output doesn't contain unwanted strings
func assertNotContains(t *testing.T, output string, unwanted []string) {
	t.Helper()
	for _, dont := range unwanted {
		if strings.Contains(output, dont) {
			t.Errorf("output contains unwanted string %q\nGot: %s", dont, output)
		}
	}
}
