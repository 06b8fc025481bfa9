//go:build windows

package livehash

import (
	"strings"

	"github.com/shirou/gopsutil/v3/disk"
	"golang.org/x/sys/windows"
)

func volumeGUID(part disk.PartitionStat) ([16]byte, error) {
	mount := part.Mountpoint
	if !strings.HasSuffix(mount, `\`) {
		mount += `\`
	}
	p, err := windows.UTF16PtrFromString(mount)
	if err != nil {
		return [16]byte{}, err
	}
	var name [windows.MAX_PATH + 1]uint16
	if err := windows.GetVolumeNameForVolumeMountPoint(p, &name[0], uint32(len(name))); err != nil {
		return [16]byte{}, err
	}
	return parseBracedGUID(windows.UTF16ToString(name[:]))
}
