package m4ameta

// Option configures behavior when opening files.
//
// Options use the functional options pattern:
//
//	file, err := m4ameta.Open("song.m4a", m4ameta.WithoutTags())
type Option func(*openOptions)

// openOptions holds configuration for opening files.
type openOptions struct {
	skipTags       bool // Skip decoding the ilst tag section
	skipStreamInfo bool // Skip reading the media header
}

// defaultOptions returns the default configuration.
func defaultOptions() *openOptions {
	return &openOptions{}
}

// WithoutTags skips decoding the tag section.
//
// Use this when only the duration is needed: a file with no parsable tag
// section then opens without error, and File.Tags stays nil.
func WithoutTags() Option {
	return func(o *openOptions) {
		o.skipTags = true
	}
}

// WithoutStreamInfo skips reading the media header.
//
// Use this when only the tags are needed: a file with no media header
// then opens without error, and File.Info stays zero.
func WithoutStreamInfo() Option {
	return func(o *openOptions) {
		o.skipStreamInfo = true
	}
}
