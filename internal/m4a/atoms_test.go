package m4a

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	m4abinary "github.com/simonhull/m4ameta/internal/binary"
	"github.com/simonhull/m4ameta/internal/types"
)

// buildAtom creates a test atom with the given name and payload. Works
// for containers too: pass the concatenated children as the payload.
func buildAtom(name string, payload []byte) []byte {
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.BigEndian, uint32(8+len(payload)))
	buf.WriteString(name)
	buf.Write(payload)
	return buf.Bytes()
}

// buildMeta creates a meta atom: 4 version/flags bytes, then children.
func buildMeta(children ...[]byte) []byte {
	payload := []byte{0, 0, 0, 0}
	for _, child := range children {
		payload = append(payload, child...)
	}
	return buildAtom("meta", payload)
}

// buildDataAtom creates a tag atom wrapping value in the generic data
// envelope: a "data" sub-box with a type flag and a reserved field.
func buildDataAtom(name string, flags uint32, value []byte) []byte {
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.BigEndian, uint32(16+len(value)))
	buf.WriteString("data")
	binary.Write(buf, binary.BigEndian, flags)
	binary.Write(buf, binary.BigEndian, uint32(0))
	buf.Write(value)
	return buildAtom(name, buf.Bytes())
}

// buildIlstFile wraps tag atoms in moov.udta.meta.ilst.
func buildIlstFile(tagAtoms ...[]byte) []byte {
	var ilstChildren []byte
	for _, atom := range tagAtoms {
		ilstChildren = append(ilstChildren, atom...)
	}
	ilst := buildAtom("ilst", ilstChildren)
	return buildAtom("moov", buildAtom("udta", buildMeta(ilst)))
}

func newTestCursor(data []byte) *m4abinary.Cursor {
	return m4abinary.NewCursor(bytes.NewReader(data), int64(len(data)), "test.m4a")
}

func parseTestTree(t *testing.T, data []byte) (*m4abinary.Cursor, *Tree) {
	t.Helper()
	c := newTestCursor(data)
	tree, err := ParseTree(c)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return c, tree
}

func TestParseAtom_Leaf(t *testing.T) {
	data := buildAtom("ftyp", []byte("M4A \x00\x00\x02\x00"))
	c := newTestCursor(data)

	atom, err := ParseAtom(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if atom.Name != "ftyp" {
		t.Errorf("expected name %q, got %q", "ftyp", atom.Name)
	}
	if atom.Offset != 0 {
		t.Errorf("expected offset 0, got %d", atom.Offset)
	}
	if atom.Length != int64(len(data)) {
		t.Errorf("expected length %d, got %d", len(data), atom.Length)
	}
	if !atom.Leaf() {
		t.Error("expected a leaf atom")
	}

	// The cursor must land exactly on the atom boundary.
	if c.Tell() != atom.Offset+atom.Length {
		t.Errorf("cursor at %d, expected %d", c.Tell(), atom.Offset+atom.Length)
	}
}

func TestParseAtom_Container(t *testing.T) {
	inner := buildAtom("mdhd", make([]byte, 24))
	data := buildAtom("moov", buildAtom("trak", buildAtom("mdia", inner)))
	c := newTestCursor(data)

	atom, err := ParseAtom(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if atom.Leaf() {
		t.Fatal("expected a container atom")
	}
	if len(atom.Children) != 1 || atom.Children[0].Name != "trak" {
		t.Fatalf("expected one trak child, got %+v", atom.Children)
	}
	mdia := atom.Children[0].Children[0]
	if mdia.Name != "mdia" || len(mdia.Children) != 1 {
		t.Fatalf("expected mdia with one child, got %+v", mdia)
	}
	if mdia.Children[0].Name != "mdhd" || !mdia.Children[0].Leaf() {
		t.Errorf("expected mdhd leaf, got %+v", mdia.Children[0])
	}

	if c.Tell() != atom.Offset+atom.Length {
		t.Errorf("cursor at %d, expected %d", c.Tell(), atom.Offset+atom.Length)
	}
}

func TestParseAtom_MetaVersionFlagsSkip(t *testing.T) {
	// meta carries 4 header-only bytes before its first child.
	data := buildMeta(buildAtom("ilst", nil))
	c := newTestCursor(data)

	atom, err := ParseAtom(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(atom.Children) != 1 || atom.Children[0].Name != "ilst" {
		t.Fatalf("expected one ilst child, got %+v", atom.Children)
	}
	if atom.Children[0].Offset != 12 {
		t.Errorf("expected child offset 12, got %d", atom.Children[0].Offset)
	}
}

func TestParseAtom_EmptyContainer(t *testing.T) {
	data := buildAtom("udta", nil)
	c := newTestCursor(data)

	atom, err := ParseAtom(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if atom.Leaf() {
		t.Fatal("an empty container must not decay to a leaf")
	}
	if len(atom.Children) != 0 {
		t.Errorf("expected no children, got %d", len(atom.Children))
	}
}

func TestParseAtom_ExtendedSize(t *testing.T) {
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.BigEndian, uint32(1))
	buf.WriteString("mdat")
	binary.Write(buf, binary.BigEndian, uint64(1000))

	c := newTestCursor(buf.Bytes())
	_, err := ParseAtom(c)
	if err == nil {
		t.Fatal("expected error for 64 bit atom size")
	}
	var fe *types.FormatError
	if !errors.As(err, &fe) {
		t.Errorf("expected FormatError, got %T: %v", err, err)
	}
}

func TestParseAtom_InvalidLength(t *testing.T) {
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.BigEndian, uint32(4))
	buf.WriteString("free")

	c := newTestCursor(buf.Bytes())
	_, err := ParseAtom(c)
	if err == nil {
		t.Fatal("expected error for atom length below 8")
	}
	var fe *types.FormatError
	if !errors.As(err, &fe) {
		t.Errorf("expected FormatError, got %T: %v", err, err)
	}
}

func TestParseTree_Exhaustive(t *testing.T) {
	data := append([]byte{}, buildAtom("ftyp", []byte("M4A "))...)
	data = append(data, buildAtom("free", make([]byte, 16))...)
	data = append(data, buildIlstFile()...)

	c, tree := parseTestTree(t, data)

	if len(tree.Atoms) != 3 {
		t.Fatalf("expected 3 top-level atoms, got %d", len(tree.Atoms))
	}

	var total int64
	for _, atom := range tree.Atoms {
		total += atom.Length
	}
	if total != int64(len(data)) {
		t.Errorf("top-level lengths sum to %d, file is %d bytes", total, len(data))
	}
	if c.Tell() != int64(len(data)) {
		t.Errorf("cursor at %d after parse, expected %d", c.Tell(), len(data))
	}
}

func TestParseTree_TruncatedHeader(t *testing.T) {
	c := newTestCursor([]byte{0x00, 0x00, 0x00})
	if _, err := ParseTree(c); err == nil {
		t.Fatal("expected error for truncated atom header")
	}
}

func TestTreeGet(t *testing.T) {
	data := buildIlstFile(buildDataAtom("\xa9nam", 1, []byte("Title")))
	_, tree := parseTestTree(t, data)

	ilst, err := tree.Get("moov.udta.meta.ilst")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ilst.Name != "ilst" || len(ilst.Children) != 1 {
		t.Errorf("expected ilst with one child, got %+v", ilst)
	}

	// Resolving a prefix returns the container itself.
	moov, err := tree.Get("moov")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if moov.Name != "moov" {
		t.Errorf("expected moov, got %q", moov.Name)
	}
}

func TestTreeGet_Missing(t *testing.T) {
	data := buildIlstFile(buildDataAtom("\xa9nam", 1, []byte("Title")))
	_, tree := parseTestTree(t, data)

	tests := []struct {
		name string
		path string
	}{
		{name: "unknown top-level atom", path: "mdat"},
		{name: "unknown nested atom", path: "moov.trak"},
		{name: "unknown child of empty container", path: "moov.udta.meta.ilst.free"},
		{name: "descend into leaf", path: "moov.udta.meta.ilst.\xa9nam.data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tree.Get(tt.path)
			if err == nil {
				t.Fatal("expected error")
			}
			var le *types.LookupError
			if !errors.As(err, &le) {
				t.Errorf("expected LookupError, got %T: %v", err, err)
			}
		})
	}
}

func TestTreeGet_FirstMatchWins(t *testing.T) {
	// Two trak atoms; lookup must descend into the first.
	first := buildAtom("trak", buildAtom("mdia", nil))
	second := buildAtom("trak", nil)
	data := buildAtom("moov", append(first, second...))
	_, tree := parseTestTree(t, data)

	trak, err := tree.Get("moov.trak")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trak.Children) != 1 {
		t.Errorf("lookup did not return the first trak: %+v", trak)
	}
}

func TestTreeDump(t *testing.T) {
	data := buildIlstFile()
	_, tree := parseTestTree(t, data)

	var buf bytes.Buffer
	tree.Dump(&buf)

	want := "moov (length: 36, offset: 0)\n" +
		"  udta (length: 28, offset: 8)\n" +
		"    meta (length: 20, offset: 16)\n" +
		"      ilst (length: 8, offset: 28)\n"
	if buf.String() != want {
		t.Errorf("expected dump:\n%s\ngot:\n%s", want, buf.String())
	}
}
