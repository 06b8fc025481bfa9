package livehash

import "errors"

// Identity is what the hash needs to know about a file besides its volume
// and extension.
type Identity struct {
	FileID    uint64 // FileIndexHigh<<32 | FileIndexLow, or the inode
	LastWrite uint64 // FILETIME
	Dir       bool
}

// ErrNoFileID is returned on platforms without a stable file id.
var ErrNoFileID = errors.New("livehash: file ids are not available on this platform")

// Identify reads the file id and last write time of path.
func Identify(path string) (Identity, error) {
	return identify(path)
}
