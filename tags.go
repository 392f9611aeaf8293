package m4ameta

import (
	"github.com/simonhull/m4ameta/internal/types"
)

// Tags is an alias to types.Tags.
// Re-exporting from internal/types to keep the public API in one place.
type Tags = types.Tags

// Value is an alias to types.Value.
// Re-exporting from internal/types to keep the public API in one place.
type Value = types.Value

// Kind is an alias to types.Kind.
// Re-exporting from internal/types to keep the public API in one place.
type Kind = types.Kind

// Re-export all value kinds.
const (
	KindText     = types.KindText
	KindPair     = types.KindPair
	KindTempo    = types.KindTempo
	KindBool     = types.KindBool
	KindCover    = types.KindCover
	KindFreeForm = types.KindFreeForm
)

// NewTags returns an empty tag mapping.
func NewTags() *Tags {
	return types.NewTags()
}

// TextValue returns a text value.
func TextValue(s string) Value {
	return types.TextValue(s)
}

// PairValue returns a (number, total) pair value.
func PairValue(number, total uint16) Value {
	return types.PairValue(number, total)
}

// TempoValue returns a BPM value.
func TempoValue(bpm uint16) Value {
	return types.TempoValue(bpm)
}

// BoolValue returns a boolean flag value.
func BoolValue(b bool) Value {
	return types.BoolValue(b)
}

// CoverValue returns a cover art value.
func CoverValue(data []byte) Value {
	return types.CoverValue(data)
}

// FreeFormValue returns a free-form raw byte value.
func FreeFormValue(data []byte) Value {
	return types.FreeFormValue(data)
}

// FreeFormKey builds the composite key for a free-form tag from its
// vendor namespace (mean) and field name.
func FreeFormKey(mean, name string) string {
	return types.FreeFormKey(mean, name)
}
