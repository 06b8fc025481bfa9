//go:build !windows

package livehash

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shirou/gopsutil/v3/disk"
)

const byUUIDDir = "/dev/disk/by-uuid"

// volumeGUID looks the partition device up under /dev/disk/by-uuid. Only
// file systems with a 128-bit id resolve; NTFS reports its 64-bit serial
// there, so mounted Windows volumes need the GUID set explicitly.
func volumeGUID(part disk.PartitionStat) ([16]byte, error) {
	dev, err := filepath.EvalSymlinks(part.Device)
	if err != nil {
		return [16]byte{}, err
	}
	links, err := os.ReadDir(byUUIDDir)
	if err != nil {
		return [16]byte{}, err
	}
	for _, l := range links {
		target, err := filepath.EvalSymlinks(filepath.Join(byUUIDDir, l.Name()))
		if err != nil || target != dev {
			continue
		}
		g, err := parseBracedGUID(l.Name())
		if err != nil {
			return [16]byte{}, fmt.Errorf("%s id %s is not a GUID", part.Device, l.Name())
		}
		return g, nil
	}
	return [16]byte{}, fmt.Errorf("%s has no entry in %s", part.Device, byUUIDDir)
}
