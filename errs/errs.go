// Package errs defines the sentinel error values returned across opat's
// packages. Callers should compare against these with errors.Is; call
// sites wrap them with fmt.Errorf("...: %w", errs.ErrX, ...) to attach
// offsets, field names, or other diagnostic context.
package errs

import "errors"

var (
	// ErrBadMagic is returned when a file or card payload does not begin
	// with its expected 4-byte magic tag ("OPAT" or "CARD").
	ErrBadMagic = errors.New("opat: bad magic")

	// ErrShortRead is returned when fewer bytes than required were
	// available to read a header, catalog entry, table index entry, or
	// table payload.
	ErrShortRead = errors.New("opat: short read")

	// ErrCatalogCorrupt is returned when a packed record holds a
	// structurally invalid field: a file or card header whose headerSize
	// is not 256, or a table index entry whose cell vector size is 0.
	ErrCatalogCorrupt = errors.New("opat: catalog corrupt")

	// ErrUnsupportedVersion is returned when the file's version field is
	// newer than this reader understands.
	ErrUnsupportedVersion = errors.New("opat: unsupported file version")

	// ErrInvalidArgument is returned for malformed constructor inputs:
	// an empty coordinate vector, a hash precision outside [1,13], or
	// a header numIndex outside [1,255]. Invalid table slice bounds
	// report ErrOutOfRange instead.
	ErrInvalidArgument = errors.New("opat: invalid argument")

	// ErrInvalidDimension is returned when a query vector's length does
	// not equal the interpolator's numIndex.
	ErrInvalidDimension = errors.New("opat: invalid dimension")

	// ErrOutOfRange is returned when a query point falls outside the
	// catalog's per-dimension bounds, or a table access falls outside
	// the table's extent.
	ErrOutOfRange = errors.New("opat: out of range")

	// ErrNotFound is returned when no card exists for a coordinate key,
	// or no table exists for a tag.
	ErrNotFound = errors.New("opat: not found")

	// ErrUnsupported is returned when an interpolation type other than
	// Linear is requested.
	ErrUnsupported = errors.New("opat: unsupported interpolation type")

	// ErrDegenerateGeometry is returned when the catalog's coordinate
	// vectors cannot support a triangulation in their dimension (fewer
	// than N+1 points, or all points co-hyperplanar).
	ErrDegenerateGeometry = errors.New("opat: degenerate geometry")

	// ErrSingularSimplex is returned when the barycentric solver's LU
	// factorization encounters a zero pivot.
	ErrSingularSimplex = errors.New("opat: singular simplex")

	// ErrOutsideHull is returned when the walk-locate procedure exits
	// the convex hull while searching for an enclosing simplex.
	ErrOutsideHull = errors.New("opat: point outside convex hull")

	// ErrWalkCycle is returned when the walk-locate procedure revisits
	// a simplex it has already visited for the current query.
	ErrWalkCycle = errors.New("opat: walk revisited a simplex")

	// ErrWalkExceeded is returned when the walk-locate procedure exceeds
	// its step cap without finding an enclosing simplex.
	ErrWalkExceeded = errors.New("opat: walk exceeded step cap")

	// ErrChecksumMismatch is returned when a card's recomputed SHA-256
	// digest does not match the digest stored in its catalog entry.
	ErrChecksumMismatch = errors.New("opat: checksum mismatch")

	// ErrEmpty is returned when an operation requiring a non-empty
	// triangulation or catalog is attempted on an empty one.
	ErrEmpty = errors.New("opat: empty")
)
