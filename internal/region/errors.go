package region

import "errors"

var (
	// ErrRegionMissing means the backing .mca file does not exist. Callers
	// treat this as an empty-chunk result, not a hard failure.
	ErrRegionMissing = errors.New("region: file missing")
	// ErrDecompressionFailed means the chunk payload's compression scheme
	// byte was unrecognized or the compressed bytes were corrupt.
	ErrDecompressionFailed = errors.New("region: decompression failed")
	// ErrInvalidRegionFile means the file is too short to hold the
	// location/timestamp tables, or a location entry points past EOF.
	ErrInvalidRegionFile = errors.New("region: invalid region file")
)
