package m4a

import (
	"encoding/binary"
	"fmt"
	"strings"

	m4abinary "github.com/simonhull/m4ameta/internal/binary"
	"github.com/simonhull/m4ameta/internal/types"
)

// ilstPath locates the iTunes tag list inside the container.
const ilstPath = "moov.udta.meta.ilst"

// genreKey is the free-text genre tag the legacy numeric decoder falls
// back to.
const genreKey = "\xa9gen"

// handler pairs the decoder and encoder for one tag kind. A nil render
// means the kind is decode-only and re-emits through the text encoder.
type handler struct {
	parse  func(t *types.Tags, path, name string, data []byte) error
	render func(key string, v types.Value) ([]byte, error)
}

// handlers dispatches on the 4-byte atom code. Codes not listed here use
// the text codec.
var handlers = map[string]handler{
	"----": {parseFreeForm, renderFreeForm},
	"trkn": {parsePair, renderPair},
	"disk": {parsePair, renderPair},
	"gnre": {parseGenre, nil},
	"tmpo": {parseTempo, renderTempo},
	"cpil": {parseCompilation, renderCompilation},
	"covr": {parseCover, renderCover},
}

// DecodeTags resolves the ilst atom and decodes every child into an
// ordered tag mapping. A container without a parsable tag section fails
// with MetadataError.
func DecodeTags(c *m4abinary.Cursor, tree *Tree) (*types.Tags, error) {
	ilst, err := tree.Get(ilstPath)
	if err != nil {
		return nil, &types.MetadataError{
			Path:   c.Path(),
			Reason: fmt.Sprintf("no tag section: %v", err),
		}
	}

	tags := types.NewTags()
	for _, atom := range ilst.Children {
		data, err := atom.Payload(c)
		if err != nil {
			return nil, err
		}

		parse := parseText
		if h, ok := handlers[atom.Name]; ok {
			parse = h.parse
		}
		if err := parse(tags, c.Path(), atom.Name, data); err != nil {
			return nil, err
		}
	}

	return tags, nil
}

// parseText decodes bytes from payload offset 16 onward as UTF-8 text,
// replacing undecodable sequences. This is the default for unrecognized
// codes.
func parseText(t *types.Tags, path, name string, data []byte) error {
	var text string
	if len(data) > 16 {
		text = strings.ToValidUTF8(string(data[16:]), "\uFFFD")
	}
	t.SetText(name, text)
	return nil
}

// parsePair decodes track or disc numbering: two big-endian uint16s at
// payload bytes 18..22, (number, total).
func parsePair(t *types.Tags, path, name string, data []byte) error {
	if len(data) < 22 {
		return &types.MetadataError{
			Path:   path,
			Reason: fmt.Sprintf("tag %q payload too short for a number/total pair", name),
		}
	}
	number := binary.BigEndian.Uint16(data[18:20])
	total := binary.BigEndian.Uint16(data[20:22])
	t.SetPair(name, number, total)
	return nil
}

// parseGenre translates a legacy numeric genre atom into the free-text
// genre tag, but only when no free-text genre has been decoded yet. An
// index outside the genre table is silently dropped. There is no inverse:
// genre is always re-encoded as text.
func parseGenre(t *types.Tags, path, name string, data []byte) error {
	if len(data) < 18 {
		return &types.MetadataError{
			Path:   path,
			Reason: "gnre payload too short for a genre index",
		}
	}
	index := binary.BigEndian.Uint16(data[16:18])
	if t.Has(genreKey) {
		return nil
	}
	if index >= 1 && int(index) <= len(genres) {
		t.SetText(genreKey, genres[index-1])
	}
	return nil
}

// parseTempo decodes BPM: a big-endian uint16 at payload bytes 16..18.
func parseTempo(t *types.Tags, path, name string, data []byte) error {
	if len(data) < 18 {
		return &types.MetadataError{
			Path:   path,
			Reason: fmt.Sprintf("tag %q payload too short for a tempo value", name),
		}
	}
	t.SetTempo(name, binary.BigEndian.Uint16(data[16:18]))
	return nil
}

// parseCompilation decodes the compilation flag: one truthy byte at
// payload offset 16. A payload too short to carry the byte decodes as
// false rather than failing.
func parseCompilation(t *types.Tags, path, name string, data []byte) error {
	t.SetBool(name, len(data) > 16 && data[16] != 0)
	return nil
}

// parseCover stores everything from payload offset 16 onward as an
// opaque image blob.
func parseCover(t *types.Tags, path, name string, data []byte) error {
	var blob []byte
	if len(data) > 16 {
		blob = append(blob, data[16:]...)
	}
	t.SetCover(name, blob)
	return nil
}

// parseFreeForm decodes a "----" atom: three length-prefixed sub-records
// (mean, name, data), each shaped [4-byte length][4-byte code][payload].
// The mean and name payloads skip 4 flag bytes after the code; the data
// payload skips 8 (flags plus reserved).
func parseFreeForm(t *types.Tags, path, name string, data []byte) error {
	fail := func(reason string) error {
		return &types.MetadataError{
			Path:   path,
			Reason: fmt.Sprintf("malformed free-form tag: %s", reason),
		}
	}

	pos := 0
	// record returns a sub-record's bytes past its length field, i.e.
	// code, flags, and payload.
	record := func(what string) ([]byte, error) {
		if pos+4 > len(data) {
			return nil, fail(what + " record truncated")
		}
		length := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		if length < 4 || pos+length > len(data) {
			return nil, fail(fmt.Sprintf("%s record has invalid length %d", what, length))
		}
		rec := data[pos+4 : pos+length]
		pos += length
		return rec, nil
	}

	meanRec, err := record("mean")
	if err != nil {
		return err
	}
	nameRec, err := record("name")
	if err != nil {
		return err
	}
	dataRec, err := record("data")
	if err != nil {
		return err
	}

	// Skip the 4-byte code plus flags (and reserved, for data).
	if len(meanRec) < 8 || len(nameRec) < 8 || len(dataRec) < 12 {
		return fail("sub-record too short for its header")
	}
	mean := string(meanRec[8:])
	field := string(nameRec[8:])
	value := append([]byte(nil), dataRec[12:]...)

	t.Set(types.FreeFormKey(mean, field), types.FreeFormValue(value))
	return nil
}
