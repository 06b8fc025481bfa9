package reader

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/joshuapare/thumbkit/internal/checksum"
	"github.com/joshuapare/thumbkit/internal/format"
	"github.com/joshuapare/thumbkit/internal/mmfile"
	"github.com/joshuapare/thumbkit/pkg/types"
)

// Result is everything recovered from one database file.
type Result struct {
	Header  format.Header
	Shared  *types.SharedInfo
	Entries []*types.Entry
	Outcome Outcome
	Report  *types.DiagnosticReport
}

// ParseFile maps path and parses every entry in it.
func ParseFile(ctx context.Context, path string, opts Options) (*Result, error) {
	started := time.Now()
	f, err := mmfile.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p, err := NewParser(f, f.Size(), path, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	entries, outcome, err := p.All(ctx)
	report := p.Report()
	report.ScanTime = time.Since(started)
	res := &Result{
		Header:  p.Header(),
		Shared:  p.Shared(),
		Entries: entries,
		Outcome: outcome,
		Report:  report,
	}
	return res, err
}

// ReadData reads the complete data blob of e.
func ReadData(r io.ReaderAt, e *types.Entry) ([]byte, error) {
	if e.Size == 0 {
		return []byte{}, nil
	}
	data := make([]byte, e.Size)
	n, err := r.ReadAt(data, e.DataOffset)
	if n < len(data) {
		if err == nil || err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, &types.Error{
			Kind: types.ErrKindCorrupt,
			Msg:  fmt.Sprintf("entry %016x data at 0x%X", e.Hash, e.DataOffset),
			Err:  err,
		}
	}
	return data, nil
}

// Verify recomputes both checksums of e from r, stores them on e and
// reports whether each matches the stored value. Mismatches are findings,
// not errors; an error means the bytes could not be read.
func Verify(r io.ReaderAt, e *types.Entry) (headerOK, dataOK bool, err error) {
	layout, err := e.Version().Layout()
	if err != nil {
		return false, false, wrapFormatErr(err)
	}
	fixed := make([]byte, layout.Size())
	if n, rerr := r.ReadAt(fixed, e.HeaderOffset); n < len(fixed) {
		if rerr == nil || rerr == io.EOF {
			rerr = io.ErrUnexpectedEOF
		}
		return false, false, &types.Error{
			Kind: types.ErrKindCorrupt,
			Msg:  fmt.Sprintf("entry %016x header at 0x%X", e.Hash, e.HeaderOffset),
			Err:  rerr,
		}
	}
	data, err := ReadData(r, e)
	if err != nil {
		return false, false, err
	}
	e.VerifiedHeaderChecksum = checksum.Header(fixed)
	e.VerifiedDataChecksum = checksum.Data(data)
	return e.HeaderValid(), e.DataValid(), nil
}

// VerifyAll verifies every entry of res against r and records mismatches in
// res.Report.
func VerifyAll(ctx context.Context, r io.ReaderAt, res *Result) error {
	dc := &diagnosticCollector{report: res.Report}
	for _, e := range res.Entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		hok, dok, err := Verify(r, e)
		if err != nil {
			dc.record(diagData(types.SevWarning, e.HeaderOffset, err.Error(), nil, nil))
			continue
		}
		if !hok {
			dc.record(diagIntegrity(e.HeaderOffset, "header checksum mismatch", e.HeaderChecksum, e.VerifiedHeaderChecksum))
		}
		if !dok {
			dc.record(diagIntegrity(e.HeaderOffset, "data checksum mismatch", e.DataChecksum, e.VerifiedDataChecksum))
		}
		if !hok || !dok {
			dc.count(func(s *types.DiagSummary) { s.ChecksumMismatches++ })
		}
	}
	res.Report.Finalize()
	return nil
}
