package reader

import (
	"sync"

	"github.com/joshuapare/thumbkit/pkg/types"
)

// diagnosticCollector accumulates diagnostics while a database is parsed.
// A nil collector discards everything.
type diagnosticCollector struct {
	report *types.DiagnosticReport
	mu     sync.Mutex
}

func newDiagnosticCollector() *diagnosticCollector {
	return &diagnosticCollector{
		report: types.NewDiagnosticReport(),
	}
}

// record adds a diagnostic to the collection.
func (dc *diagnosticCollector) record(d types.Diagnostic) {
	if dc == nil {
		return
	}

	dc.mu.Lock()
	defer dc.mu.Unlock()

	dc.report.Add(d)
}

// count applies fn to the running summary.
func (dc *diagnosticCollector) count(fn func(*types.DiagSummary)) {
	if dc == nil {
		return
	}

	dc.mu.Lock()
	defer dc.mu.Unlock()

	fn(&dc.report.Summary)
}

// getReport returns the diagnostic report, finalizing it first.
func (dc *diagnosticCollector) getReport() *types.DiagnosticReport {
	if dc == nil {
		return nil
	}

	dc.mu.Lock()
	defer dc.mu.Unlock()

	dc.report.Finalize()
	return dc.report
}

func diagStructure(severity types.Severity, offset int64, structure, issue string, expected, actual any) types.Diagnostic {
	return types.Diagnostic{
		Severity:  severity,
		Category:  types.DiagStructure,
		Offset:    uint64(offset),
		Structure: structure,
		Issue:     issue,
		Expected:  expected,
		Actual:    actual,
	}
}

func diagData(severity types.Severity, offset int64, issue string, expected, actual any) types.Diagnostic {
	return types.Diagnostic{
		Severity:  severity,
		Category:  types.DiagData,
		Offset:    uint64(offset),
		Structure: "DATA",
		Issue:     issue,
		Expected:  expected,
		Actual:    actual,
	}
}

func diagIntegrity(offset int64, issue string, expected, actual uint64) types.Diagnostic {
	return types.Diagnostic{
		Severity:  types.SevWarning,
		Category:  types.DiagIntegrity,
		Offset:    uint64(offset),
		Structure: "ENTRY",
		Issue:     issue,
		Expected:  expected,
		Actual:    actual,
	}
}
