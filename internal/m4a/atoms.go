// Package m4a parses the MPEG-4 audio container: the recursive atom
// tree, the ilst tag codec, and the media-header stream info.
//
// There is no official specification for this layout; byte offsets here
// follow the de facto iTunes conventions.
package m4a

import (
	"fmt"
	"io"
	"strings"

	"github.com/simonhull/m4ameta/internal/binary"
	"github.com/simonhull/m4ameta/internal/types"
)

// containers lists the atom kinds this package peeks inside. Not an
// exhaustive list of container atoms, just the ones on the paths to the
// tag section and the media header.
var containers = map[string]bool{
	"moov": true,
	"udta": true,
	"trak": true,
	"mdia": true,
	"meta": true,
	"ilst": true,
}

// skipSizes gives the number of header-only bytes between a container's
// 8-byte header and its first child. meta carries a 4-byte version/flags
// field that is not itself a child atom.
var skipSizes = map[string]int64{
	"meta": 4,
}

// Atom is one node of the container's box tree: a length-prefixed,
// 4-byte-coded binary record. Atoms are immutable once parsed.
type Atom struct {
	// Offset is the absolute position of the atom's header start.
	Offset int64
	// Length is the total size in bytes, including the 8-byte header
	// and all descendants.
	Length int64
	// Name is the 4-byte type code.
	Name string
	// Children is nil for leaf atoms. Container atoms always have a
	// non-nil slice, possibly empty.
	Children []*Atom
}

// ParseAtom reads one atom at the cursor's current position. On return
// the cursor points exactly at offset+length, past the atom and all its
// descendants.
func ParseAtom(c *binary.Cursor) (*Atom, error) {
	offset := c.Tell()

	length, err := binary.Next[uint32](c, "atom length")
	if err != nil {
		return nil, err
	}
	nameBytes, err := c.ReadN(4, "atom name")
	if err != nil {
		return nil, err
	}

	if length == 1 {
		return nil, &types.FormatError{
			Path:   c.Path(),
			Offset: offset,
			Reason: "64 bit atom sizes are not supported",
		}
	}
	if length < 8 {
		return nil, &types.FormatError{
			Path:   c.Path(),
			Offset: offset,
			Reason: fmt.Sprintf("invalid atom length %d (minimum is 8)", length),
		}
	}

	atom := &Atom{
		Offset: offset,
		Length: int64(length),
		Name:   string(nameBytes),
	}

	if containers[atom.Name] {
		atom.Children = []*Atom{}
		c.Skip(skipSizes[atom.Name])
		for c.Tell() < atom.Offset+atom.Length {
			child, err := ParseAtom(c)
			if err != nil {
				return nil, err
			}
			atom.Children = append(atom.Children, child)
		}
	} else {
		c.SeekTo(atom.Offset + atom.Length)
	}

	return atom, nil
}

// Leaf reports whether the atom is a leaf (opaque payload, no children).
func (a *Atom) Leaf() bool {
	return a.Children == nil
}

// Payload reads the atom's payload: Length-8 bytes starting right after
// the 8-byte header.
func (a *Atom) Payload(c *binary.Cursor) ([]byte, error) {
	buf := make([]byte, a.Length-8)
	what := fmt.Sprintf("%q atom payload", a.Name)
	if err := c.ReadAt(buf, a.Offset+8, what); err != nil {
		return nil, err
	}
	return buf, nil
}

// Bytes reads the atom's full on-disk bytes, header included.
func (a *Atom) Bytes(c *binary.Cursor) ([]byte, error) {
	buf := make([]byte, a.Length)
	what := fmt.Sprintf("%q atom", a.Name)
	if err := c.ReadAt(buf, a.Offset, what); err != nil {
		return nil, err
	}
	return buf, nil
}

// get resolves path[idx:] below a, with full giving the complete dotted
// path for error messages.
func (a *Atom) get(c *binary.Cursor, full []string, idx int) (*Atom, error) {
	if idx == len(full) {
		return a, nil
	}
	if a.Children == nil {
		return nil, &types.LookupError{
			Path:     c.Path(),
			AtomPath: strings.Join(full, "."),
			Reason:   fmt.Sprintf("atom %q is not a container", a.Name),
		}
	}
	for _, child := range a.Children {
		if child.Name == full[idx] {
			return child.get(c, full, idx+1)
		}
	}
	return nil, &types.LookupError{
		Path:     c.Path(),
		AtomPath: strings.Join(full, "."),
		Reason:   fmt.Sprintf("no %q atom under %q", full[idx], a.Name),
	}
}

// dump writes an indented one-line summary of the atom and its
// descendants.
func (a *Atom) dump(w io.Writer, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(w, "%s%s (length: %d, offset: %d)\n", indent, a.Name, a.Length, a.Offset)
	for _, child := range a.Children {
		child.dump(w, depth+1)
	}
}

// Tree is the ordered set of top-level atoms parsed from a whole file.
type Tree struct {
	Atoms []*Atom

	cursor *binary.Cursor
}

// ParseTree parses the full byte source into a tree of atoms. The whole
// source must be covered by well-formed top-level atoms.
func ParseTree(c *binary.Cursor) (*Tree, error) {
	tree := &Tree{cursor: c}

	end := c.Size()
	c.SeekTo(0)
	for c.Tell() < end {
		atom, err := ParseAtom(c)
		if err != nil {
			return nil, err
		}
		tree.Atoms = append(tree.Atoms, atom)
	}

	return tree, nil
}

// Get resolves a dotted path of atom names, e.g. "moov.udta.meta.ilst".
// The first match wins at each level. A path that cannot be fully
// matched, or that descends into a leaf atom, fails with LookupError.
func (t *Tree) Get(path string) (*Atom, error) {
	names := strings.Split(path, ".")
	for _, atom := range t.Atoms {
		if atom.Name == names[0] {
			return atom.get(t.cursor, names, 1)
		}
	}
	return nil, &types.LookupError{
		Path:     t.cursor.Path(),
		AtomPath: path,
		Reason:   fmt.Sprintf("no top-level %q atom", names[0]),
	}
}

// Dump writes an indented listing of the whole tree, one atom per line.
func (t *Tree) Dump(w io.Writer) {
	for _, atom := range t.Atoms {
		atom.dump(w, 0)
	}
}
