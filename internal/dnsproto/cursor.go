package dnsproto

import "encoding/binary"

// Cursor is a forward-only view over a DNS message buffer. Its field
// readers never fail: reading past the end of the buffer yields a
// zero-valued result and still advances Pos, mirroring the wire analyzer's
// ExtractShort/ExtractLong/ExtractOctets behavior. Callers that need to
// distinguish "read past end" from "read a real zero" must compare Pos
// against len(Msg) themselves; the interpreter's higher layers do this at
// message-structure boundaries (header, RR prelude), not at every field.
type Cursor struct {
	Msg []byte
	Pos int
}

// NewCursor returns a Cursor positioned at the start of msg.
func NewCursor(msg []byte) *Cursor {
	return &Cursor{Msg: msg}
}

// Remaining reports how many bytes are left to read.
func (c *Cursor) Remaining() int {
	n := len(c.Msg) - c.Pos
	if n < 0 {
		return 0
	}
	return n
}

// Exhausted reports whether the cursor has run past the end of the buffer.
func (c *Cursor) Exhausted() bool {
	return c.Pos >= len(c.Msg)
}

// ReadUint16 reads a big-endian 16-bit field and advances by 2 bytes
// regardless of how much data was actually available.
func (c *Cursor) ReadUint16() uint16 {
	var v uint16
	if c.Remaining() >= 2 {
		v = binary.BigEndian.Uint16(c.Msg[c.Pos : c.Pos+2])
	}
	c.Pos += 2
	return v
}

// ReadUint32 reads a big-endian 32-bit field and advances by 4 bytes
// regardless of how much data was actually available.
func (c *Cursor) ReadUint32() uint32 {
	var v uint32
	if c.Remaining() >= 4 {
		v = binary.BigEndian.Uint32(c.Msg[c.Pos : c.Pos+4])
	}
	c.Pos += 4
	return v
}

// ReadOctet reads a single byte, returning 0 if none remain, and always
// advances by 1.
func (c *Cursor) ReadOctet() byte {
	var v byte
	if c.Remaining() >= 1 {
		v = c.Msg[c.Pos]
	}
	c.Pos++
	return v
}

// ReadOctets copies up to n bytes starting at the cursor. If fewer than n
// bytes remain, it returns what is available (never more than Remaining())
// and still advances the cursor by n, matching the wire analyzer's clamp
// behavior for octet strings that run off the end of the message.
func (c *Cursor) ReadOctets(n int) []byte {
	if n < 0 {
		n = 0
	}
	avail := c.Remaining()
	take := n
	if take > avail {
		take = avail
	}
	out := make([]byte, take)
	copy(out, c.Msg[c.Pos:c.Pos+take])
	c.Pos += n
	return out
}

// ReadStream is an alias for ReadOctets kept to mirror the wire analyzer's
// naming for RDATA blobs read as an undifferentiated byte stream (TXT
// character-strings, opaque RDATA, TSIG MAC material).
func (c *Cursor) ReadStream(n int) []byte {
	return c.ReadOctets(n)
}

// Skip advances the cursor by n bytes without reading; a negative n is
// treated as zero, and Pos may move past len(Msg). Like the other readers
// it does not fail on short input.
func (c *Cursor) Skip(n int) {
	if n < 0 {
		n = 0
	}
	c.Pos += n
}
