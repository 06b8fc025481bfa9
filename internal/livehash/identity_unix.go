//go:build unix

package livehash

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/joshuapare/thumbkit/internal/format"
)

// identify uses the inode as the file id. Only NTFS volumes mounted from
// Windows carry ids that match a cache, and ntfs-3g exposes the MFT
// reference as the inode number.
func identify(path string) (Identity, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return Identity{}, fmt.Errorf("stat %s: %w", path, err)
	}
	fi, err := os.Stat(path)
	if err != nil {
		return Identity{}, err
	}
	return Identity{
		FileID:    uint64(st.Ino),
		LastWrite: format.TimeToFiletime(fi.ModTime()),
		Dir:       fi.IsDir(),
	}, nil
}
