package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectFrames(scanner *FrameScanner, chunks ...string) []string {
	var frames []string
	for _, chunk := range chunks {
		for _, frame := range scanner.Push([]byte(chunk)) {
			frames = append(frames, string(frame))
		}
	}
	return frames
}

func TestFrameScanner(t *testing.T) {
	t.Run("should emit complete lines in order", func(t *testing.T) {
		scanner := NewFrameScanner()
		frames := collectFrames(scanner, "one\ntwo\nthree\n")
		assert.Equal(t, []string{"one", "two", "three"}, frames)
		assert.False(t, scanner.Pending())
	})

	t.Run("should hold back a trailing incomplete line", func(t *testing.T) {
		scanner := NewFrameScanner()
		frames := collectFrames(scanner, "one\ntwo")
		assert.Equal(t, []string{"one"}, frames)
		assert.True(t, scanner.Pending())

		frames = collectFrames(scanner, "-more\n")
		assert.Equal(t, []string{"two-more"}, frames)
		assert.False(t, scanner.Pending())
	})

	t.Run("should complete a frame split mid-JSON across chunks", func(t *testing.T) {
		scanner := NewFrameScanner()
		frames := collectFrames(scanner, `{"type":"tok`, "en\",\"content\":\"x\"}\n")
		require.Len(t, frames, 1)
		assert.Equal(t, `{"type":"token","content":"x"}`, frames[0])
	})

	t.Run("should emit the same frames regardless of chunk boundaries", func(t *testing.T) {
		full := "alpha\nbeta\ngamma\ndelta\n"
		expected := []string{"alpha", "beta", "gamma", "delta"}

		for split := 1; split < len(full); split++ {
			scanner := NewFrameScanner()
			frames := collectFrames(scanner, full[:split], full[split:])
			assert.Equal(t, expected, frames, "split at %d", split)
		}
	})

	t.Run("should drop blank and whitespace-only candidates", func(t *testing.T) {
		scanner := NewFrameScanner()
		frames := collectFrames(scanner, "one\n\n   \n\t\ntwo\n")
		assert.Equal(t, []string{"one", "two"}, frames)
	})

	t.Run("should handle empty chunks", func(t *testing.T) {
		scanner := NewFrameScanner()
		frames := collectFrames(scanner, "", "one\n", "")
		assert.Equal(t, []string{"one"}, frames)
	})

	t.Run("should keep emitted frames intact while retaining a carry-over", func(t *testing.T) {
		scanner := NewFrameScanner()

		frames := scanner.Push([]byte(`{"type":"token","content":"a"}` + "\n" + `{"type":"tok`))
		require.Len(t, frames, 1)
		assert.Equal(t, `{"type":"token","content":"a"}`, string(frames[0]))

		ev, err := ParseEvent(frames[0])
		require.NoError(t, err)
		assert.Equal(t, "a", ev.Content)

		frames = scanner.Push([]byte("en\",\"content\":\"b\"}\n"))
		require.Len(t, frames, 1)
		assert.Equal(t, `{"type":"token","content":"b"}`, string(frames[0]))
	})

	t.Run("should not let a later push mutate earlier frames", func(t *testing.T) {
		scanner := NewFrameScanner()

		first := scanner.Push([]byte("one\ntwo"))
		require.Len(t, first, 1)

		scanner.Push([]byte("-rest\nthree\nfour"))
		assert.Equal(t, "one", string(first[0]))
	})

	t.Run("should not emit a final unterminated fragment", func(t *testing.T) {
		scanner := NewFrameScanner()
		frames := collectFrames(scanner, "one\npartial")
		assert.Equal(t, []string{"one"}, frames)
		assert.True(t, scanner.Pending())
	})
}
