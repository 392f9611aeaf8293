package m4ameta

import (
	"github.com/simonhull/m4ameta/internal/types"
)

// FormatError is an alias to types.FormatError.
// Re-exporting from internal/types to keep the public API in one place.
type FormatError = types.FormatError

// LookupError is an alias to types.LookupError.
// Re-exporting from internal/types to keep the public API in one place.
type LookupError = types.LookupError

// MetadataError is an alias to types.MetadataError.
// Re-exporting from internal/types to keep the public API in one place.
type MetadataError = types.MetadataError

// StreamInfoError is an alias to types.StreamInfoError.
// Re-exporting from internal/types to keep the public API in one place.
type StreamInfoError = types.StreamInfoError

// OutOfBoundsError is an alias to types.OutOfBoundsError.
// Re-exporting from internal/types to keep the public API in one place.
type OutOfBoundsError = types.OutOfBoundsError
