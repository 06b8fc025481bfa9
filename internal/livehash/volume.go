package livehash

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v3/disk"

	"github.com/joshuapare/thumbkit/internal/index"
)

// ErrNoVolumeGUID is returned when the volume holding a file has no GUID
// that can be resolved.
var ErrNoVolumeGUID = errors.New("livehash: volume GUID lookup failed")

// volumes resolves and caches the GUID of the volume holding a path.
type volumes struct {
	override *[16]byte

	mu     sync.Mutex
	parts  []disk.PartitionStat
	loaded bool
	guids  map[string][16]byte
	failed map[string]error
}

func newVolumes(override string) (*volumes, error) {
	v := &volumes{guids: make(map[string][16]byte), failed: make(map[string]error)}
	if override != "" {
		u, err := uuid.Parse(strings.Trim(override, "{}"))
		if err != nil {
			return nil, fmt.Errorf("volume GUID %q: %w", override, err)
		}
		g := index.GUIDToWindows(u)
		v.override = &g
	}
	return v, nil
}

// guidFor returns the volume GUID for path in Windows memory layout. The
// second result is true the first time a volume fails, so the caller warns
// once per volume.
func (v *volumes) guidFor(ctx context.Context, path string) ([16]byte, bool, error) {
	if v.override != nil {
		return *v.override, false, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.loaded {
		parts, err := disk.PartitionsWithContext(ctx, true)
		if err != nil {
			return [16]byte{}, false, fmt.Errorf("%w: list partitions: %w", ErrNoVolumeGUID, err)
		}
		v.parts, v.loaded = parts, true
	}

	part, ok := mountFor(path, v.parts)
	if !ok {
		return [16]byte{}, false, fmt.Errorf("%w: no mount point for %s", ErrNoVolumeGUID, path)
	}
	if g, ok := v.guids[part.Mountpoint]; ok {
		return g, false, nil
	}
	if err, ok := v.failed[part.Mountpoint]; ok {
		return [16]byte{}, false, err
	}

	g, err := volumeGUID(part)
	if err != nil {
		err = fmt.Errorf("%w: %s: %w", ErrNoVolumeGUID, part.Mountpoint, err)
		v.failed[part.Mountpoint] = err
		return [16]byte{}, true, err
	}
	v.guids[part.Mountpoint] = g
	return g, false, nil
}

// mountFor picks the partition with the longest mount point containing path.
func mountFor(path string, parts []disk.PartitionStat) (disk.PartitionStat, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	var best disk.PartitionStat
	found := false
	for _, p := range parts {
		if p.Mountpoint == "" || !hasPathPrefix(abs, p.Mountpoint) {
			continue
		}
		if !found || len(p.Mountpoint) > len(best.Mountpoint) {
			best, found = p, true
		}
	}
	return best, found
}

func hasPathPrefix(path, dir string) bool {
	path, dir = filepath.Clean(path), filepath.Clean(dir)
	if runtime.GOOS == "windows" {
		path, dir = strings.ToLower(path), strings.ToLower(dir)
	}
	if path == dir {
		return true
	}
	if !strings.HasSuffix(dir, string(filepath.Separator)) {
		dir += string(filepath.Separator)
	}
	return strings.HasPrefix(path, dir)
}

// parseBracedGUID extracts the GUID from strings such as
// `\\?\Volume{6b29fc40-ca47-1067-b31d-00dd010662da}\`.
func parseBracedGUID(s string) ([16]byte, error) {
	start, end := strings.IndexByte(s, '{'), strings.IndexByte(s, '}')
	if start >= 0 && end > start {
		s = s[start+1 : end]
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return [16]byte{}, err
	}
	return index.GUIDToWindows(u), nil
}
