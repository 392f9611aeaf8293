package m4ameta

import (
	"bytes"
	"io"
)

// sniffWindow is how many leading bytes ScoreReader examines.
const sniffWindow = 128

// Score returns a confidence score that the leading bytes of a file are
// an MPEG-4 audio container: one point for the ASCII sequence "ftyp" and
// one for "mp4", so 0, 1, or 2.
//
// This is a heuristic, not a validator. Callers typically combine scores
// across several format detectors and pick the maximum.
func Score(header []byte) int {
	score := 0
	if bytes.Contains(header, []byte("ftyp")) {
		score++
	}
	if bytes.Contains(header, []byte("mp4")) {
		score++
	}
	return score
}

// ScoreReader reads a small leading window from r and scores it with
// Score. A read failure scores 0.
func ScoreReader(r io.ReaderAt, size int64) int {
	n := int64(sniffWindow)
	if size < n {
		n = size
	}
	if n <= 0 {
		return 0
	}

	header := make([]byte, n)
	if _, err := r.ReadAt(header, 0); err != nil && err != io.EOF {
		return 0
	}
	return Score(header)
}
