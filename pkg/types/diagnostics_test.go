package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnosticReportAddAndFinalize(t *testing.T) {
	r := NewDiagnosticReport()
	r.Add(Diagnostic{Severity: SevWarning, Category: DiagStructure, Offset: 0x200, Structure: "ENTRY", Issue: "bad magic"})
	r.Add(Diagnostic{Severity: SevInfo, Category: DiagStructure, Offset: 0x18, Structure: "ENTRY", Issue: "placeholder"})
	r.Add(Diagnostic{Severity: SevError, Category: DiagData, Offset: 0x80, Structure: "DATA", Issue: "past EOF"})
	r.Finalize()

	assert.Equal(t, 1, r.Summary.Warnings)
	assert.Equal(t, 1, r.Summary.Info)
	assert.Equal(t, 1, r.Summary.Errors)
	assert.True(t, r.HasErrors())
	require.Len(t, r.ByOffset, 3)
	assert.Equal(t, uint64(0x18), r.ByOffset[0].Offset)
	assert.Equal(t, uint64(0x200), r.ByOffset[2].Offset)
	assert.Contains(t, r.FormatTextCompact(), "0x00000080 [ERROR/DATA/DATA] past EOF")
}

func TestDiagnosticReportMerge(t *testing.T) {
	a := NewDiagnosticReport()
	a.Summary.Entries = 2
	b := NewDiagnosticReport()
	b.Summary.Entries = 3
	b.Summary.Resyncs = 1
	b.Add(Diagnostic{Severity: SevInfo, Issue: "resync"})

	a.Merge(b)
	a.Merge(nil)
	assert.Equal(t, 5, a.Summary.Entries)
	assert.Equal(t, 1, a.Summary.Resyncs)
	assert.Equal(t, 1, a.Summary.Info)
}

func TestFormatJSONUsesNames(t *testing.T) {
	r := NewDiagnosticReport()
	r.Add(Diagnostic{Severity: SevCritical, Category: DiagIntegrity, Issue: "x"})
	out, err := r.FormatJSON()
	require.NoError(t, err)
	assert.Contains(t, out, `"severity": "CRITICAL"`)
	assert.Contains(t, out, `"category": "INTEGRITY"`)
}

func TestEmptyReport(t *testing.T) {
	r := NewDiagnosticReport()
	r.Finalize()
	assert.False(t, r.HasAnyIssues())
	assert.Equal(t, "No issues found.\n", r.FormatTextCompact())
}
