package chat

import "bytes"

// FrameScanner splits an incrementally received byte stream into complete
// newline-delimited frames. Transport chunks can end mid-line; the trailing
// incomplete fragment is carried over and completed by the next Push.
//
// The scanner never fails: blank and whitespace-only candidates are dropped,
// and anything else is emitted as-is for the caller to decode.
type FrameScanner struct {
	carry []byte
}

func NewFrameScanner() *FrameScanner {
	return &FrameScanner{}
}

// Push appends chunk to the carry-over buffer and returns every complete
// frame now available, in order. The segment after the final newline (which
// may be empty) becomes the new carry-over.
func (s *FrameScanner) Push(chunk []byte) [][]byte {
	s.carry = append(s.carry, chunk...)

	// The split segments alias s.carry's backing array, so every emitted
	// frame must be copied out before the carry-over is replaced.
	segments := bytes.Split(s.carry, []byte{'\n'})
	last := segments[len(segments)-1]

	frames := make([][]byte, 0, len(segments)-1)
	for _, seg := range segments[:len(segments)-1] {
		trimmed := bytes.TrimSpace(seg)
		if len(trimmed) == 0 {
			continue
		}
		frame := make([]byte, len(trimmed))
		copy(frame, trimmed)
		frames = append(frames, frame)
	}

	s.carry = append([]byte(nil), last...)
	return frames
}

// Pending reports whether an incomplete fragment is being carried over.
func (s *FrameScanner) Pending() bool {
	return len(bytes.TrimSpace(s.carry)) > 0
}
