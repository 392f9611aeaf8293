package m4ameta

import (
	"bytes"
	"testing"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name   string
		header []byte
		want   int
	}{
		{
			name:   "ftyp and mp4 brand",
			header: []byte("\x00\x00\x00\x20ftypmp42\x00\x00\x00\x00"),
			want:   2,
		},
		{
			name:   "ftyp only",
			header: []byte("\x00\x00\x00\x20ftypM4A \x00\x00\x00\x00"),
			want:   1,
		},
		{
			name:   "mp4 only",
			header: []byte("some mp4 text without the box marker"),
			want:   1,
		},
		{
			name:   "neither",
			header: []byte("fLaC\x00\x00\x00\x22"),
			want:   0,
		},
		{
			name:   "empty window",
			header: nil,
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.header); got != tt.want {
				t.Errorf("expected score %d, got %d", tt.want, got)
			}
		})
	}
}

func TestScoreReader(t *testing.T) {
	data := []byte("\x00\x00\x00\x20ftypmp42")
	if got := ScoreReader(bytes.NewReader(data), int64(len(data))); got != 2 {
		t.Errorf("expected score 2, got %d", got)
	}

	if got := ScoreReader(bytes.NewReader(nil), 0); got != 0 {
		t.Errorf("expected score 0 for empty source, got %d", got)
	}
}

func TestScoreReader_OnlyLeadingWindow(t *testing.T) {
	// Markers beyond the sniff window must not count.
	data := append(make([]byte, sniffWindow), []byte("ftypmp42")...)
	if got := ScoreReader(bytes.NewReader(data), int64(len(data))); got != 0 {
		t.Errorf("expected score 0, got %d", got)
	}
}
