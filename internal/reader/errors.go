package reader

import (
	"errors"
	"fmt"

	"github.com/joshuapare/thumbkit/internal/format"
	"github.com/joshuapare/thumbkit/pkg/types"
)

// wrapFormatErr maps low-level decoder errors onto the public sentinels while
// keeping the decoder's detail in the chain.
func wrapFormatErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, format.ErrSignatureMismatch):
		return types.ErrNotThumbcache
	case errors.Is(err, format.ErrTruncated):
		return fmt.Errorf("%w: %w", types.ErrTruncatedHeader, err)
	case errors.Is(err, format.ErrUnsupportedVersion):
		return fmt.Errorf("%w: %w", types.ErrUnsupportedVersion, err)
	default:
		return &types.Error{Kind: types.ErrKindCorrupt, Msg: err.Error(), Err: err}
	}
}
