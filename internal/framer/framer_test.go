package framer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frame(body []byte) []byte {
	n := len(body)
	return append([]byte{byte(n >> 8), byte(n)}, body...)
}

func TestFramer_SingleMessageInOneDeliver(t *testing.T) {
	var got [][]byte
	f := New(func(msg []byte) {
		cp := append([]byte(nil), msg...)
		got = append(got, cp)
	})

	f.Deliver(frame([]byte("hello")))
	require.Len(t, got, 1)
	assert.Equal(t, "hello", string(got[0]))
}

func TestFramer_ArbitraryByteAtATimeSplits(t *testing.T) {
	var got [][]byte
	f := New(func(msg []byte) {
		cp := append([]byte(nil), msg...)
		got = append(got, cp)
	})

	wire := frame([]byte("abcdef"))
	for _, b := range wire {
		f.Deliver([]byte{b})
	}
	require.Len(t, got, 1)
	assert.Equal(t, "abcdef", string(got[0]))
}

func TestFramer_MultipleMessagesInOneDeliver(t *testing.T) {
	var got [][]byte
	f := New(func(msg []byte) {
		cp := append([]byte(nil), msg...)
		got = append(got, cp)
	})

	wire := append(frame([]byte("one")), frame([]byte("two"))...)
	f.Deliver(wire)
	require.Len(t, got, 2)
	assert.Equal(t, "one", string(got[0]))
	assert.Equal(t, "two", string(got[1]))
}

func TestFramer_MessageSplitAcrossArbitraryBoundary(t *testing.T) {
	var got [][]byte
	f := New(func(msg []byte) {
		cp := append([]byte(nil), msg...)
		got = append(got, cp)
	})

	wire := frame([]byte("split-me-please"))
	for split := 1; split < len(wire); split++ {
		got = nil
		f2 := New(func(msg []byte) {
			cp := append([]byte(nil), msg...)
			got = append(got, cp)
		})
		f2.Deliver(wire[:split])
		f2.Deliver(wire[split:])
		require.Len(t, got, 1, "split at %d", split)
		assert.Equal(t, "split-me-please", string(got[0]))
	}
	_ = f
}

func TestFramer_ZeroLengthMessage(t *testing.T) {
	var got [][]byte
	f := New(func(msg []byte) {
		got = append(got, append([]byte(nil), msg...))
	})
	f.Deliver(frame(nil))
	require.Len(t, got, 1)
	assert.Empty(t, got[0])
}

func TestFramer_FlushReportsPartialBody(t *testing.T) {
	f := New(func(msg []byte) {})
	wire := frame([]byte("incomplete"))
	f.Deliver(wire[:5]) // 2-byte length + 3 bytes of a 10-byte body

	partial, had := f.Flush()
	assert.True(t, had)
	assert.Equal(t, "inc", string(partial))
}

func TestFramer_FlushReportsPartialLengthField(t *testing.T) {
	f := New(func(msg []byte) {})
	f.Deliver([]byte{0x00}) // only the high byte of the length prefix

	partial, had := f.Flush()
	assert.True(t, had)
	assert.Equal(t, []byte{0x00}, partial)
}

func TestFramer_FlushOnCleanBoundaryReportsNoPartial(t *testing.T) {
	f := New(func(msg []byte) {})
	f.Deliver(frame([]byte("done")))

	_, had := f.Flush()
	assert.False(t, had)
}
