package outbreak

import "github.com/pkg/errors"

// Sentinel errors returned by map loading, path planning, and world
// construction. Wrap these with errors.Wrapf at the call site rather than
// building new error strings; callers can recover the sentinel with
// errors.Cause or errors.Is.
var (
	// ErrMalformedMap is returned when an ASCII map contains an
	// unrecognized character, is empty, or has non-rectangular rows.
	ErrMalformedMap = errors.New("malformed map")

	// ErrUnknownMap is returned when a named built-in map is not
	// registered with the loader.
	ErrUnknownMap = errors.New("unknown map name")

	// ErrNoPath is returned when A* cannot find a route between a
	// household and a store, or when either has no adjacent road cell.
	ErrNoPath = errors.New("no path found")

	// ErrBadConfig is returned at world construction when the
	// configuration is internally inconsistent.
	ErrBadConfig = errors.New("invalid configuration")
)
