package dnsproto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuestion_DecodesNameTypeClass(t *testing.T) {
	msg := appendName(nil, "www", "example", "com")
	msg = append(msg, 0, 1, 0, 1) // A, IN

	c := NewCursor(msg)
	q, weirdName := ParseQuestion(c, DecodeContext{})
	require.Empty(t, weirdName)
	assert.Equal(t, "www.example.com", q.Name)
	assert.Equal(t, uint16(1), q.QType)
	assert.Equal(t, uint16(1), q.QClass)
	assert.Equal(t, len(msg), c.Pos)
}

func TestParseQuestion_PropagatesNameWeird(t *testing.T) {
	msg := []byte{0xC0, 0x00, 0, 1, 0, 1} // self-pointer, then type/class
	c := NewCursor(msg)
	_, weirdName := ParseQuestion(c, DecodeContext{})
	assert.NotEmpty(t, weirdName)
}
