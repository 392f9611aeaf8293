package m4ameta

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/simonhull/m4ameta/internal/binary"
	"github.com/simonhull/m4ameta/internal/m4a"
)

// Info is an alias to m4a.Info.
// Re-exporting from internal/m4a to keep the public API in one place.
type Info = m4a.Info

// File is an opened MPEG-4 audio file: the parsed atom tree, the decoded
// tag mapping, and the derived stream info.
//
// Opening a file parses the whole atom tree in a single pass, then reads
// the duration and decodes every tag. There is no caching: every Open
// re-parses from byte zero.
//
// A File is not safe for concurrent use; distinct Files are independent
// and may be processed in parallel. Always call Close when done:
//
//	file, err := m4ameta.Open("song.m4a")
//	if err != nil {
//		return err
//	}
//	defer file.Close()
type File struct {
	// Path to the audio file.
	Path string

	// Size is the file size in bytes.
	Size int64

	// Tags is the decoded tag mapping. Edit it in place, then encode
	// with RenderTags. Nil when opened with WithoutTags.
	Tags *Tags

	// Info is the derived stream information. Zero when opened with
	// WithoutStreamInfo.
	Info Info

	reader io.ReaderAt
	tree   *m4a.Tree
}

// Open opens an MPEG-4 audio file and parses its structure, tags, and
// stream info.
//
// Example:
//
//	file, err := m4ameta.Open("song.m4a")
//	if err != nil {
//		return err
//	}
//	defer file.Close()
//	fmt.Println(file.Tags.Text("\xa9nam"))
func Open(path string, opts ...Option) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat file: %w", err)
	}

	file, err := OpenReader(f, stat.Size(), path, opts...)
	if err != nil {
		f.Close()
		return nil, err
	}

	// Keep the handle so Close releases it.
	file.reader = f

	return file, nil
}

// OpenReader parses an MPEG-4 audio stream from an arbitrary byte
// source. path is used only in error messages.
func OpenReader(r io.ReaderAt, size int64, path string, opts ...Option) (*File, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	cursor := binary.NewCursor(r, size, path)

	tree, err := m4a.ParseTree(cursor)
	if err != nil {
		return nil, err
	}

	file := &File{
		Path: path,
		Size: size,
		tree: tree,
	}

	if !options.skipStreamInfo {
		info, err := m4a.ParseInfo(cursor, tree)
		if err != nil {
			return nil, err
		}
		file.Info = info
	}

	if !options.skipTags {
		tags, err := m4a.DecodeTags(cursor, tree)
		if err != nil {
			return nil, err
		}
		file.Tags = tags
	}

	return file, nil
}

// Close releases resources held by the file.
//
// After Close is called, the File should not be used.
func (f *File) Close() error {
	if closer, ok := f.reader.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// RenderTags encodes the current tag mapping into a fresh ilst payload.
//
// The caller is responsible for splicing the payload into the file in
// place of the old ilst contents and fixing up ancestor atom lengths;
// each block's own leading length field is correct and self-consistent.
func (f *File) RenderTags() ([]byte, error) {
	if f.Tags == nil {
		return nil, &MetadataError{
			Path:   f.Path,
			Reason: "tags were not decoded (opened with WithoutTags)",
		}
	}
	return m4a.RenderTags(f.Tags)
}

// DumpAtoms writes an indented listing of the file's atom tree, one atom
// per line with its length and offset.
func (f *File) DumpAtoms(w io.Writer) {
	f.tree.Dump(w)
}

// OpenMany opens multiple files concurrently.
//
// Files are parsed in parallel using up to runtime.NumCPU() goroutines.
// Results are returned in the same order as the input paths. If any file
// fails to open, all successfully opened files are closed and an error
// is returned.
func OpenMany(ctx context.Context, paths ...string) ([]*File, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	results := make([]*File, len(paths))

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			file, err := Open(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			results[i] = file
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, file := range results {
			if file != nil {
				file.Close()
			}
		}
		return nil, err
	}

	return results, nil
}
