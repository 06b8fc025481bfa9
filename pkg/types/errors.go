package types

// -----------------------------------------------------------------------------
// Typed Errors (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindFormat      ErrKind = iota // malformed headers/signatures (e.g., bad "CMMM")
	ErrKindCorrupt                    // structural corruption (sizes running past EOF)
	ErrKindUnsupported                // recognized but unsupported variant
	ErrKindNotFound                   // missing entry/column/table
	ErrKindState                      // invalid operation for current state (busy, closed)
	ErrKindIndex                      // index database open/query failure
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindFormat:
		return "format"
	case ErrKindCorrupt:
		return "corrupt"
	case ErrKindUnsupported:
		return "unsupported"
	case ErrKindNotFound:
		return "not found"
	case ErrKindState:
		return "state"
	case ErrKindIndex:
		return "index"
	default:
		return "unknown"
	}
}

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err, or anything it wraps, is an *Error of kind k.
func IsKind(err error, k ErrKind) bool {
	for err != nil {
		if te, ok := err.(*Error); ok && te.Kind == k {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// Sentinels commonly returned by implementations.
var (
	// ErrNotThumbcache indicates the file lacks a valid "CMMM" header.
	ErrNotThumbcache = &Error{Kind: ErrKindFormat, Msg: "not a thumbnail cache database (bad CMMM header)"}
	// ErrTruncatedHeader indicates the file ended inside the database header.
	ErrTruncatedHeader = &Error{Kind: ErrKindFormat, Msg: "truncated database header"}
	// ErrUnsupportedVersion indicates an unknown database version tag.
	ErrUnsupportedVersion = &Error{Kind: ErrKindUnsupported, Msg: "unsupported database version"}
	// ErrCorrupt indicates a record runs past the end of the file.
	ErrCorrupt = &Error{Kind: ErrKindCorrupt, Msg: "corrupt cache entry"}
	// ErrNotFound indicates a missing entry, table or column.
	ErrNotFound = &Error{Kind: ErrKindNotFound, Msg: "not found"}
	// ErrBusy indicates a background task holds the engine.
	ErrBusy = &Error{Kind: ErrKindState, Msg: "a background task is running"}
	// ErrClosed indicates the engine or session was already closed.
	ErrClosed = &Error{Kind: ErrKindState, Msg: "closed"}
	// ErrNoIndex indicates a cross-reference was requested with no open index.
	ErrNoIndex = &Error{Kind: ErrKindState, Msg: "no index database is open"}
	// ErrNotIndexDatabase indicates the file is neither ESE nor SQLite.
	ErrNotIndexDatabase = &Error{Kind: ErrKindFormat, Msg: "not a Windows Search index database"}
	// ErrIndexSchema indicates a required index column has an unexpected shape.
	ErrIndexSchema = &Error{Kind: ErrKindIndex, Msg: "unexpected index database schema"}
)
