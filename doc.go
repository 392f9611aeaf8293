// Package m4ameta reads and rewrites metadata in MPEG-4 audio files,
// the container Apple ships as M4A (aka MP4, M4B, M4P).
//
// There is no official specification for this layout; the byte formats
// here follow the de facto iTunes conventions.
//
// # Quick Start
//
// Reading tags and duration:
//
//	file, err := m4ameta.Open("song.m4a")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer file.Close()
//
//	fmt.Printf("%s - %s\n", file.Tags.Text("\xa9ART"), file.Tags.Text("\xa9nam"))
//	fmt.Printf("%.2f seconds\n", file.Info.Length)
//
// # Tag Mapping
//
// Tags is an ordered mapping from atom codes to typed values. Simple
// tags use their raw 4-byte code as the key ("\xa9nam" for title,
// "trkn" for track numbering, "covr" for cover art). Free-form tags use
// a composite key built from their vendor namespace and field name:
//
//	file.Tags.SetFreeForm("com.example", "custom", []byte("hello"))
//
// Values are typed per kind: UTF-8 text, (number, total) pairs, BPM,
// the compilation flag, image blobs, and raw free-form bytes.
//
// # Writing
//
// Editing happens on the in-memory mapping; RenderTags encodes it back
// into a fresh ilst payload:
//
//	file.Tags.SetText("\xa9nam", "New Title")
//	payload, err := file.RenderTags()
//
// Splicing the payload into the file in place of the old tag section,
// and fixing up ancestor atom lengths, is the caller's responsibility.
// The payload is built fully in memory, so an encoding failure never
// leaves a partially written tag section.
//
// # Limitations
//
// 64-bit extended atom sizes are not supported, so files whose
// individual atoms exceed 4GB fail with FormatError. The library
// rewrites tag atoms in existing containers; it does not create new
// container structures from scratch.
//
// # Error Handling
//
// Failures are reported eagerly through typed errors: FormatError for
// structurally unsupported layouts, LookupError for missing container
// sections, MetadataError for malformed tags, and StreamInfoError for a
// missing or undersized media header. Decoding degrades gracefully in
// exactly two cases: a truncated compilation flag decodes as false, and
// an out-of-range legacy genre index is silently dropped.
package m4ameta
