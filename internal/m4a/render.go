package m4a

import (
	"bytes"
	"fmt"

	m4abinary "github.com/simonhull/m4ameta/internal/binary"
	"github.com/simonhull/m4ameta/internal/types"
)

// Data-envelope type flags. Text and free-form values carry 1, cover art
// carries 13, tempo and the compilation flag share 21.
const (
	flagText   uint32 = 0x1
	flagCover  uint32 = 0xD
	flagNumber uint32 = 0x15
)

// RenderTags encodes the tag mapping into a fresh ilst payload: every
// entry's byte block, concatenated in mapping order. The result is handed
// to a collaborator that splices it into the file in place of the old
// ilst contents.
//
// Encoding is all-or-nothing: the payload is built fully in memory, so a
// failure never leaves a partial tag section behind.
func RenderTags(t *types.Tags) ([]byte, error) {
	var buf bytes.Buffer
	for _, key := range t.Keys() {
		value, _ := t.Get(key)

		render := renderText
		if h, ok := handlers[prefix(key)]; ok && h.render != nil {
			render = h.render
		}

		block, err := render(key, value)
		if err != nil {
			return nil, err
		}
		buf.Write(block)
	}
	return buf.Bytes(), nil
}

// prefix returns the 4-byte atom code a mapping key dispatches on.
// Free-form composite keys start with "----".
func prefix(key string) string {
	if len(key) < 4 {
		return key
	}
	return key[:4]
}

// renderData wraps value bytes in the generic envelope: a "data" sub-box
// carrying a type flag and a zero reserved field, enclosed in a box coded
// with the tag's own key.
func renderData(key string, flags uint32, value []byte) ([]byte, error) {
	var buf bytes.Buffer
	sw := m4abinary.NewSafeWriter(&buf)

	m4abinary.Write[uint32](sw, uint32(len(value))+16)
	sw.WriteString("data")
	m4abinary.Write[uint32](sw, flags)
	m4abinary.Write[uint32](sw, 0)
	sw.WriteBytes(value)

	return renderBox(key, buf.Bytes(), sw.Err())
}

// renderBox prefixes payload with an 8-byte header for key. err, if
// non-nil, is an error from building the payload, propagated here so
// callers can chain.
func renderBox(key string, payload []byte, err error) ([]byte, error) {
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	sw := m4abinary.NewSafeWriter(&buf)
	m4abinary.Write[uint32](sw, uint32(len(payload))+8)
	sw.WriteString(key)
	sw.WriteBytes(payload)
	if err := sw.Err(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// renderText encodes a text value as UTF-8. Default for unrecognized
// keys.
func renderText(key string, v types.Value) ([]byte, error) {
	return renderData(key, flagText, []byte(v.Text))
}

// renderPair encodes track or disc numbering as 8 bytes: zero, number,
// total, zero, each a big-endian uint16, so that number and total land at
// the offsets the decoder reads.
func renderPair(key string, v types.Value) ([]byte, error) {
	var buf bytes.Buffer
	sw := m4abinary.NewSafeWriter(&buf)
	m4abinary.Write[uint16](sw, 0)
	m4abinary.Write[uint16](sw, v.Number)
	m4abinary.Write[uint16](sw, v.Total)
	m4abinary.Write[uint16](sw, 0)
	if err := sw.Err(); err != nil {
		return nil, err
	}
	return renderData(key, 0, buf.Bytes())
}

// renderTempo encodes BPM as a big-endian uint16.
func renderTempo(key string, v types.Value) ([]byte, error) {
	value := []byte{byte(v.Tempo >> 8), byte(v.Tempo)}
	return renderData(key, flagNumber, value)
}

// renderCompilation encodes a true flag as a single 0x01 byte. A false
// flag emits nothing at all: the atom is simply absent from the output.
func renderCompilation(key string, v types.Value) ([]byte, error) {
	if !v.Flag {
		return nil, nil
	}
	return renderData(key, flagNumber, []byte{0x01})
}

// renderCover emits the image bytes verbatim.
func renderCover(key string, v types.Value) ([]byte, error) {
	return renderData(key, flagCover, v.Data)
}

// renderFreeForm rebuilds the three sub-records (mean, name, data) from
// the composite key and raw value, then wraps them in a "----" box.
func renderFreeForm(key string, v types.Value) ([]byte, error) {
	mean, name, err := types.ParseFreeFormKey(key)
	if err != nil {
		return nil, &types.MetadataError{
			Reason: fmt.Sprintf("cannot encode free-form tag: %v", err),
		}
	}

	var buf bytes.Buffer
	sw := m4abinary.NewSafeWriter(&buf)

	m4abinary.Write[uint32](sw, uint32(len(mean))+12)
	sw.WriteString("mean")
	m4abinary.Write[uint32](sw, 0)
	sw.WriteString(mean)

	m4abinary.Write[uint32](sw, uint32(len(name))+12)
	sw.WriteString("name")
	m4abinary.Write[uint32](sw, 0)
	sw.WriteString(name)

	m4abinary.Write[uint32](sw, uint32(len(v.Data))+16)
	sw.WriteString("data")
	m4abinary.Write[uint32](sw, flagText)
	m4abinary.Write[uint32](sw, 0)
	sw.WriteBytes(v.Data)

	return renderBox("----", buf.Bytes(), sw.Err())
}
