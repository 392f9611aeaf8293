package types

import (
	"fmt"
	"strings"
)

// Kind discriminates the typed variants a tag value can take.
type Kind int

const (
	// KindText is a UTF-8 string value (titles, artists, most tags).
	KindText Kind = iota
	// KindPair is a (number, total) pair (track and disc numbers).
	KindPair
	// KindTempo is an unsigned 16-bit BPM value.
	KindTempo
	// KindBool is a boolean flag (compilation).
	KindBool
	// KindCover is an opaque image byte blob.
	KindCover
	// KindFreeForm is a raw byte value under a mean/name composite key.
	KindFreeForm
)

// Value is a tagged union holding one tag value. Kind selects which
// field carries the payload.
type Value struct {
	Kind   Kind
	Text   string
	Number uint16
	Total  uint16
	Tempo  uint16
	Flag   bool
	Data   []byte
}

// TextValue returns a text value.
func TextValue(s string) Value {
	return Value{Kind: KindText, Text: s}
}

// PairValue returns a (number, total) pair value.
func PairValue(number, total uint16) Value {
	return Value{Kind: KindPair, Number: number, Total: total}
}

// TempoValue returns a BPM value.
func TempoValue(bpm uint16) Value {
	return Value{Kind: KindTempo, Tempo: bpm}
}

// BoolValue returns a boolean flag value.
func BoolValue(b bool) Value {
	return Value{Kind: KindBool, Flag: b}
}

// CoverValue returns a cover art value holding the image bytes verbatim.
func CoverValue(data []byte) Value {
	return Value{Kind: KindCover, Data: data}
}

// FreeFormValue returns a free-form value holding raw bytes.
func FreeFormValue(data []byte) Value {
	return Value{Kind: KindFreeForm, Data: data}
}

// String renders the value for display.
func (v Value) String() string {
	switch v.Kind {
	case KindPair:
		return fmt.Sprintf("(%d, %d)", v.Number, v.Total)
	case KindTempo:
		return fmt.Sprintf("%d", v.Tempo)
	case KindBool:
		return fmt.Sprintf("%t", v.Flag)
	case KindCover:
		return fmt.Sprintf("[%d bytes of image data]", len(v.Data))
	case KindFreeForm:
		return string(v.Data)
	default:
		return v.Text
	}
}

// FreeFormKey builds the composite key for a free-form tag from its
// vendor namespace (mean) and field name.
//
// The parts are joined with ":" and not escaped; a mean or name that
// itself contains ":" produces a key that splits differently on the way
// back. This matches the on-disk format's own ambiguity.
func FreeFormKey(mean, name string) string {
	return "----:" + mean + ":" + name
}

// ParseFreeFormKey splits a composite free-form key into its mean and
// name parts. It fails if the key does not have the three ":"-separated
// sections a free-form key carries.
func ParseFreeFormKey(key string) (mean, name string, err error) {
	parts := strings.SplitN(key, ":", 3)
	if len(parts) != 3 {
		return "", "", fmt.Errorf("malformed free-form key %q", key)
	}
	return parts[1], parts[2], nil
}

// Tags is an ordered key-to-value tag mapping.
//
// Keys are either a raw 4-byte atom code (e.g. "\xa9nam", "trkn") or a
// free-form composite key built by FreeFormKey. Iteration order is
// insertion order; overwriting a key keeps its original position. The
// zero value is not usable, call NewTags.
type Tags struct {
	order []string
	items map[string]Value
}

// NewTags returns an empty tag mapping.
func NewTags() *Tags {
	return &Tags{items: make(map[string]Value)}
}

// Len returns the number of entries.
func (t *Tags) Len() int {
	return len(t.order)
}

// Keys returns the keys in insertion order. The slice is shared; do not
// modify it.
func (t *Tags) Keys() []string {
	return t.order
}

// Has reports whether key is present.
func (t *Tags) Has(key string) bool {
	_, ok := t.items[key]
	return ok
}

// Get returns the value for key and whether it was present.
func (t *Tags) Get(key string) (Value, bool) {
	v, ok := t.items[key]
	return v, ok
}

// Set stores a value under key, appending new keys and keeping the
// position of existing ones.
func (t *Tags) Set(key string, v Value) {
	if _, ok := t.items[key]; !ok {
		t.order = append(t.order, key)
	}
	t.items[key] = v
}

// Delete removes key, if present.
func (t *Tags) Delete(key string) {
	if _, ok := t.items[key]; !ok {
		return
	}
	delete(t.items, key)
	for i, k := range t.order {
		if k == key {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// Text returns the text value for key, or "" if absent or not text.
func (t *Tags) Text(key string) string {
	if v, ok := t.items[key]; ok && v.Kind == KindText {
		return v.Text
	}
	return ""
}

// SetText stores a text value under key.
func (t *Tags) SetText(key, s string) {
	t.Set(key, TextValue(s))
}

// Pair returns the (number, total) pair for key, or zeros if absent.
func (t *Tags) Pair(key string) (number, total uint16) {
	if v, ok := t.items[key]; ok && v.Kind == KindPair {
		return v.Number, v.Total
	}
	return 0, 0
}

// SetPair stores a (number, total) pair under key.
func (t *Tags) SetPair(key string, number, total uint16) {
	t.Set(key, PairValue(number, total))
}

// Tempo returns the BPM value for key, or 0 if absent.
func (t *Tags) Tempo(key string) uint16 {
	if v, ok := t.items[key]; ok && v.Kind == KindTempo {
		return v.Tempo
	}
	return 0
}

// SetTempo stores a BPM value under key.
func (t *Tags) SetTempo(key string, bpm uint16) {
	t.Set(key, TempoValue(bpm))
}

// Bool returns the flag value for key, or false if absent.
func (t *Tags) Bool(key string) bool {
	if v, ok := t.items[key]; ok && v.Kind == KindBool {
		return v.Flag
	}
	return false
}

// SetBool stores a flag value under key.
func (t *Tags) SetBool(key string, b bool) {
	t.Set(key, BoolValue(b))
}

// Cover returns the cover art bytes for key, or nil if absent.
func (t *Tags) Cover(key string) []byte {
	if v, ok := t.items[key]; ok && v.Kind == KindCover {
		return v.Data
	}
	return nil
}

// SetCover stores cover art bytes under key.
func (t *Tags) SetCover(key string, data []byte) {
	t.Set(key, CoverValue(data))
}

// FreeForm returns the raw bytes stored under the composite key for the
// given mean and name, or nil if absent.
func (t *Tags) FreeForm(mean, name string) []byte {
	if v, ok := t.items[FreeFormKey(mean, name)]; ok && v.Kind == KindFreeForm {
		return v.Data
	}
	return nil
}

// SetFreeForm stores raw bytes under the composite key for mean and name.
func (t *Tags) SetFreeForm(mean, name string, data []byte) {
	t.Set(FreeFormKey(mean, name), FreeFormValue(data))
}

// String renders the mapping as one "key=value" line per entry, in
// insertion order.
func (t *Tags) String() string {
	lines := make([]string, 0, len(t.order))
	for _, key := range t.order {
		lines = append(lines, fmt.Sprintf("%s=%s", key, t.items[key]))
	}
	return strings.Join(lines, "\n")
}
