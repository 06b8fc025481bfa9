// Package reader walks the entry records of a thumbnail cache database.
//
// Parsing is tolerant: an entry whose identifier is damaged is skipped by
// scanning forward for the next "CMMM", deleted slots are passed over, and
// only a data blob running past the end of the file stops the walk early.
// Every such event is recorded as a diagnostic instead of being returned as
// an error.
package reader

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/joshuapare/thumbkit/internal/buf"
	"github.com/joshuapare/thumbkit/internal/format"
	"github.com/joshuapare/thumbkit/pkg/types"
)

// Outcome is the result of one Next call.
type Outcome int

const (
	// OutcomeEntry means an entry was produced.
	OutcomeEntry Outcome = iota
	// OutcomeEnd means the records ran out cleanly.
	OutcomeEnd
	// OutcomeCorrupt means a record ran past the end of the file and the
	// rest of the file was abandoned.
	OutcomeCorrupt
)

func (o Outcome) String() string {
	switch o {
	case OutcomeEntry:
		return "entry"
	case OutcomeEnd:
		return "end"
	case OutcomeCorrupt:
		return "corrupt"
	default:
		return "unknown"
	}
}

type state int

const (
	stateReadHeader state = iota
	stateReadEntry
	stateDataPresent
	stateEndOfFile
	stateCorrupt
)

// Options tune the parser.
type Options struct {
	// MaxFilenameUnits caps the UTF-16 code units read from an identifier
	// string. Zero selects format.MaxFilenameUnits.
	MaxFilenameUnits int

	// ScanChunkSize is the resync read size. Zero selects 32 KiB.
	ScanChunkSize int
}

// Parser produces the entries of one database.
type Parser struct {
	r      io.ReaderAt
	size   int64
	header format.Header
	layout format.Layout
	shared *types.SharedInfo
	opts   Options
	diag   *diagnosticCollector

	state state
	pos   int64
}

// NewParser reads and validates the database header. Header problems are
// fatal for the file and come back as errors matching the types sentinels.
func NewParser(r io.ReaderAt, size int64, path string, opts Options) (*Parser, error) {
	if opts.MaxFilenameUnits <= 0 {
		opts.MaxFilenameUnits = format.MaxFilenameUnits
	}
	p := &Parser{r: r, size: size, opts: opts, diag: newDiagnosticCollector(), state: stateReadHeader}
	p.diag.report.FilePath = path
	p.diag.report.FileSize = size

	hb := make([]byte, format.HeaderSizeWin8v2)
	n, err := r.ReadAt(hb, 0)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read header: %w", err)
	}
	hdr, err := format.ParseHeader(hb[:n])
	if err != nil {
		p.diag.record(diagStructure(types.SevCritical, 0, "HEADER", err.Error(), nil, nil))
		return nil, wrapFormatErr(err)
	}
	layout, err := hdr.Version.Layout()
	if err != nil {
		return nil, wrapFormatErr(err)
	}

	p.header = hdr
	p.layout = layout
	p.shared = types.NewSharedInfo(path, hdr.Version, hdr.CacheType, hdr.Size)
	p.pos = hdr.StartOffset(size)
	p.state = stateReadEntry
	return p, nil
}

// Header returns the parsed database header.
func (p *Parser) Header() format.Header { return p.header }

// Shared returns the SharedInfo attached to every entry of this database.
func (p *Parser) Shared() *types.SharedInfo { return p.shared }

// Report returns the diagnostics gathered so far.
func (p *Parser) Report() *types.DiagnosticReport { return p.diag.getReport() }

// Next returns the next entry. Once it returns OutcomeEnd or OutcomeCorrupt
// every later call returns the same outcome.
func (p *Parser) Next() (*types.Entry, Outcome) {
	for {
		switch p.state {
		case stateEndOfFile:
			return nil, OutcomeEnd
		case stateCorrupt:
			return nil, OutcomeCorrupt
		}

		if entry := p.readEntry(); entry != nil {
			p.diag.count(func(s *types.DiagSummary) { s.Entries++ })
			return entry, OutcomeEntry
		}
	}
}

// readEntry handles the record at pos. It returns nil when the record
// yields no entry; pos or state has moved on in that case.
func (p *Parser) readEntry() *types.Entry {
	start := p.pos
	fixedSize := p.layout.Size()
	fixed := make([]byte, fixedSize)
	if n, _ := p.r.ReadAt(fixed, start); n < fixedSize {
		p.state = stateEndOfFile
		return nil
	}

	if !format.HasMagic(fixed) {
		p.diag.record(diagStructure(types.SevWarning, start, "ENTRY",
			"invalid cache entry", string(format.Magic), fmt.Sprintf("% X", fixed[:format.MagicSize])))
		p.diag.count(func(s *types.DiagSummary) { s.Malformed++ })
		p.resync(start)
		return nil
	}

	rec, err := format.DecodeRecord(p.layout, fixed)
	if err != nil {
		p.state = stateEndOfFile
		return nil
	}
	c := rec.Common()

	if c.EntryHash == 0 {
		p.diag.record(diagStructure(types.SevInfo, start, "ENTRY", "empty slot skipped", nil, nil))
		p.diag.count(func(s *types.DiagSummary) { s.Placeholders++ })
		p.pos = start + int64(fixedSize)
		return nil
	}

	if int64(c.CacheEntrySize) < int64(fixedSize) {
		p.diag.record(diagStructure(types.SevWarning, start, "ENTRY",
			"cache entry size smaller than its header", fixedSize, c.CacheEntrySize))
		p.diag.count(func(s *types.DiagSummary) { s.Malformed++ })
		p.resync(start + format.MagicSize)
		return nil
	}

	next, ok := buf.AddOverflowSafe(start, int64(c.CacheEntrySize))
	if !ok {
		p.state = stateCorrupt
		return nil
	}
	p.pos = next

	off := start + int64(fixedSize)
	name := p.readFilename(off, c.FilenameLength)
	off += int64(c.FilenameLength) + int64(c.PaddingSize)

	p.state = stateDataPresent
	kind := format.ImageUnknown
	ext := ""
	if c.DataSize > 0 {
		if !buf.Within(off, int64(c.DataSize), p.size) {
			p.diag.record(diagData(types.SevError, off,
				"data runs past end of file; remaining entries abandoned", c.DataSize, p.size-off))
			p.diag.count(func(s *types.DiagSummary) { s.Malformed++ })
			p.state = stateCorrupt
			return nil
		}
		sniff := make([]byte, min(int(c.DataSize), format.SniffSize))
		n, _ := p.r.ReadAt(sniff, off)
		kind = format.SniffImage(sniff[:n])
		ext = kind.Extension()
		// Vista records name their own extension; it only counts when the
		// data does not identify itself.
		if v, isVista := rec.(format.VistaRecord); isVista && ext == "" {
			ext = strings.TrimPrefix(strings.TrimSpace(v.Extension), ".")
		}
	}
	p.state = stateReadEntry

	e := &types.Entry{
		Hash:                   c.EntryHash,
		HeaderOffset:           start,
		DataOffset:             off,
		Size:                   c.DataSize,
		DataChecksum:           c.DataChecksum,
		HeaderChecksum:         c.HeaderChecksum,
		VerifiedDataChecksum:   c.DataChecksum,
		VerifiedHeaderChecksum: c.HeaderChecksum,
		Filename:               format.AppendExtension(name, ext),
		Image:                  kind,
		Shared:                 p.shared,
	}
	if w8, isWin8 := rec.(format.Win8Record); isWin8 {
		e.Width, e.Height = w8.Width, w8.Height
	}
	return e
}

// readFilename decodes up to MaxFilenameUnits code units. An unreadable
// name yields "".
func (p *Parser) readFilename(off int64, length uint32) string {
	n := int64(length)
	if limit := int64(p.opts.MaxFilenameUnits) * 2; n > limit {
		n = limit
	}
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	got, _ := p.r.ReadAt(b, off)
	return format.DecodeUTF16(b[:got])
}

// resync moves pos to the next identifier at or after from, or ends the walk.
func (p *Parser) resync(from int64) {
	at, found := scanForMagic(p.r, from, p.opts.ScanChunkSize)
	if !found {
		p.diag.record(diagStructure(types.SevWarning, from, "ENTRY",
			"no further cache entries found after invalid entry", nil, nil))
		p.state = stateEndOfFile
		return
	}
	p.diag.record(diagStructure(types.SevInfo, at, "ENTRY", "resynchronized on cache entry", nil, nil))
	p.diag.count(func(s *types.DiagSummary) { s.Resyncs++ })
	p.pos = at
}

// All drains the parser. ctx is checked between records.
func (p *Parser) All(ctx context.Context) ([]*types.Entry, Outcome, error) {
	var out []*types.Entry
	for {
		if err := ctx.Err(); err != nil {
			return out, OutcomeEnd, err
		}
		e, outcome := p.Next()
		if outcome != OutcomeEntry {
			return out, outcome, nil
		}
		out = append(out, e)
	}
}
