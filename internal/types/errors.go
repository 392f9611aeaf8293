// Package types defines the shared data model: error kinds and the
// ordered tag mapping.
package types

import "fmt"

// FormatError is returned when the container uses a structurally
// unsupported layout, such as 64-bit extended atom sizes.
type FormatError struct {
	Path   string
	Reason string
	Offset int64
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: unsupported structure at offset %d: %s", e.Path, e.Offset, e.Reason)
}

// LookupError is returned when a required atom path cannot be resolved
// in the atom tree.
type LookupError struct {
	Path     string // file path
	AtomPath string // dotted atom path, e.g. "moov.udta.meta.ilst"
	Reason   string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s: unable to resolve %q: %s", e.Path, e.AtomPath, e.Reason)
}

// MetadataError is returned when the tag section is missing or a tag
// atom's payload is malformed beyond the defined tolerant fallbacks.
type MetadataError struct {
	Path   string
	Reason string
}

func (e *MetadataError) Error() string {
	return fmt.Sprintf("%s: invalid metadata: %s", e.Path, e.Reason)
}

// StreamInfoError is returned when the media header atom is missing or
// too short for its declared layout.
type StreamInfoError struct {
	Path   string
	Reason string
}

func (e *StreamInfoError) Error() string {
	return fmt.Sprintf("%s: invalid stream info: %s", e.Path, e.Reason)
}

// OutOfBoundsError is returned when attempting to read beyond the bounds
// of the byte source.
type OutOfBoundsError struct {
	Path   string
	What   string
	Offset int64
	Length int
	Size   int64
}

func (e *OutOfBoundsError) Error() string {
	if e.Offset >= e.Size {
		return fmt.Sprintf("%s: offset %d out of bounds (file size: %d) while reading %s",
			e.Path, e.Offset, e.Size, e.What)
	}
	return fmt.Sprintf("%s: read of %d bytes at offset %d would exceed file size %d while reading %s",
		e.Path, e.Length, e.Offset, e.Size, e.What)
}
