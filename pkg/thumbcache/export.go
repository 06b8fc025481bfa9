package thumbcache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joshuapare/thumbkit/internal/reader"
	"github.com/joshuapare/thumbkit/pkg/types"
)

func openDatabase(ent *types.Entry) (*os.File, error) {
	path := ent.DatabasePath()
	if path == "" {
		return nil, fmt.Errorf("entry %016x: %w", ent.Hash, types.ErrNotFound)
	}
	return os.Open(path)
}

// ExportEntryData reads the data blob of ent from its database file.
func (e *Engine) ExportEntryData(ctx context.Context, ent *types.Entry) ([]byte, error) {
	done, err := e.begin()
	if err != nil {
		return nil, err
	}
	defer done()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := openDatabase(ent)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return reader.ReadData(f, ent)
}

// VerifyChecksums recomputes both checksums of ent and records them on the
// entry. A mismatch is reported through the booleans, not as an error.
func (e *Engine) VerifyChecksums(ctx context.Context, ent *types.Entry) (headerOK, dataOK bool, err error) {
	done, err := e.begin()
	if err != nil {
		return false, false, err
	}
	defer done()
	if err := ctx.Err(); err != nil {
		return false, false, err
	}

	f, err := openDatabase(ent)
	if err != nil {
		return false, false, err
	}
	defer f.Close()
	return reader.Verify(f, ent)
}

// VerifyResult counts the outcome of VerifyAll.
type VerifyResult struct {
	Checked    int
	HeaderBad  int
	DataBad    int
	Unreadable int
}

// VerifyAll verifies every entry, opening each database once.
func (e *Engine) VerifyAll(ctx context.Context) (VerifyResult, error) {
	done, err := e.begin()
	if err != nil {
		return VerifyResult{}, err
	}
	defer done()

	var (
		res   VerifyResult
		files = make(map[string]*os.File)
	)
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()

	for _, ent := range e.store.Entries() {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		path := ent.DatabasePath()
		f, ok := files[path]
		if !ok {
			f, err = openDatabase(ent)
			if err != nil {
				res.Unreadable++
				continue
			}
			files[path] = f
		}
		hok, dok, err := reader.Verify(f, ent)
		if err != nil {
			res.Unreadable++
			continue
		}
		res.Checked++
		if !hok {
			res.HeaderBad++
		}
		if !dok {
			res.DataBad++
		}
	}
	e.log.Infow("checksums verified", "checked", res.Checked, "header_bad", res.HeaderBad, "data_bad", res.DataBad, "unreadable", res.Unreadable)
	return res, nil
}

// ExtractAll writes the data blob of every entry with data into dir and
// returns the number of files written. Files are named after the entry,
// with unsafe characters replaced and " (n)" added to repeated names.
func (e *Engine) ExtractAll(ctx context.Context, dir string) (int, error) {
	done, err := e.begin()
	if err != nil {
		return 0, err
	}
	defer done()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}

	var (
		written int
		used    = make(map[string]int)
		files   = make(map[string]*os.File)
	)
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()

	for _, ent := range e.store.Entries() {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		if ent.Size == 0 {
			continue
		}
		path := ent.DatabasePath()
		f, ok := files[path]
		if !ok {
			if f, err = openDatabase(ent); err != nil {
				return written, err
			}
			files[path] = f
		}
		data, err := reader.ReadData(f, ent)
		if err != nil {
			e.log.Warnw("entry data unreadable", "hash", fmt.Sprintf("%016x", ent.Hash), "error", err)
			continue
		}
		name := uniqueName(used, exportName(ent))
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			return written, err
		}
		written++
	}
	e.log.Infow("entries extracted", "dir", dir, "files", written)
	return written, nil
}

// exportName derives a file name for ent: the last element of its filename
// with reserved characters replaced, or the hash when only an extension is
// left.
func exportName(ent *types.Entry) string {
	name := ent.Filename
	if i := strings.LastIndexAny(name, `\/`); i >= 0 {
		name = name[i+1:]
	}
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || strings.ContainsRune(`<>:"/\|?*`, r) {
			return '_'
		}
		return r
	}, name)
	name = strings.TrimRight(name, " .")
	if strings.Trim(strings.TrimSuffix(name, filepath.Ext(name)), " .") == "" {
		ext := ent.Image.Extension()
		if ext == "" {
			ext = "bin"
		}
		name = fmt.Sprintf("%016x.%s", ent.Hash, ext)
	}
	return name
}

// uniqueName returns name, or name with " (n)" before the extension when it
// was handed out before. Comparison ignores case.
func uniqueName(used map[string]int, name string) string {
	key := strings.ToLower(name)
	n, seen := used[key]
	used[key] = n + 1
	if !seen {
		return name
	}
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for {
		n++
		candidate := fmt.Sprintf("%s (%d)%s", base, n, ext)
		ckey := strings.ToLower(candidate)
		if _, taken := used[ckey]; !taken {
			used[ckey] = 1
			used[key] = n
			return candidate
		}
	}
}
