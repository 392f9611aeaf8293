package m4a

import (
	"encoding/binary"
	"fmt"
	"time"

	m4abinary "github.com/simonhull/m4ameta/internal/binary"
	"github.com/simonhull/m4ameta/internal/types"
)

// mdhdPath locates the media header carrying time scale and duration.
const mdhdPath = "moov.trak.mdia.mdhd"

// Info holds the stream information derived from the media header.
// Computed once at load time, immutable thereafter.
type Info struct {
	// Length is the play duration in seconds.
	Length float64
}

// Duration returns the play duration as a time.Duration.
func (i Info) Duration() time.Duration {
	return time.Duration(i.Length * float64(time.Second))
}

// String renders the stream info for display.
func (i Info) String() string {
	return fmt.Sprintf("MPEG-4 AAC, %.2f seconds", i.Length)
}

// ParseInfo resolves the media header and computes the play duration.
//
// The header comes in two historical layouts selected by the version
// discriminant at byte index 9 of the atom: version 0 keeps a 32-bit
// time scale and 32-bit duration at offset 20, version 1 keeps a 32-bit
// time scale and 64-bit duration at offset 28. A missing header or one
// too short for its layout fails with StreamInfoError.
func ParseInfo(c *m4abinary.Cursor, tree *Tree) (Info, error) {
	atom, err := tree.Get(mdhdPath)
	if err != nil {
		return Info{}, &types.StreamInfoError{
			Path:   c.Path(),
			Reason: fmt.Sprintf("no media header: %v", err),
		}
	}

	data, err := atom.Bytes(c)
	if err != nil {
		return Info{}, err
	}
	if len(data) < 10 {
		return Info{}, &types.StreamInfoError{
			Path:   c.Path(),
			Reason: "media header too short for a version field",
		}
	}

	var unit, length uint64
	if data[9] == 0 {
		if len(data) < 28 {
			return Info{}, &types.StreamInfoError{
				Path:   c.Path(),
				Reason: "media header too short for version 0 layout",
			}
		}
		unit = uint64(binary.BigEndian.Uint32(data[20:24]))
		length = uint64(binary.BigEndian.Uint32(data[24:28]))
	} else {
		if len(data) < 40 {
			return Info{}, &types.StreamInfoError{
				Path:   c.Path(),
				Reason: "media header too short for version 1 layout",
			}
		}
		unit = uint64(binary.BigEndian.Uint32(data[28:32]))
		length = binary.BigEndian.Uint64(data[32:40])
	}

	return Info{Length: float64(length) / float64(unit)}, nil
}
