package dnsproto

// HeaderSize is the fixed length of the DNS message header (RFC 1035 §4.1.1).
const HeaderSize = 12

// Header is the fixed 12-byte DNS message header.
type Header struct {
	ID      uint16
	Flags   uint16
	QDCount uint16
	ANCount uint16
	NSCount uint16
	ARCount uint16
}

func (h Header) QR() bool     { return h.Flags&QRFlag != 0 }
func (h Header) Opcode() int  { return int(h.Flags&OpcodeMask) >> 11 }
func (h Header) AA() bool     { return h.Flags&AAFlag != 0 }
func (h Header) TC() bool     { return h.Flags&TCFlag != 0 }
func (h Header) RD() bool     { return h.Flags&RDFlag != 0 }
func (h Header) RA() bool     { return h.Flags&RAFlag != 0 }
func (h Header) Z() int       { return int(h.Flags&ZFlag) >> 4 }
func (h Header) RCode() RCode { return RCodeFromFlags(h.Flags) }

// ParseHeader reads the 12-byte fixed header from the front of the cursor.
// Like every field reader in this package it never fails; in a message
// shorter than HeaderSize the fields that lie past the end read as zero,
// the cursor is still advanced to HeaderSize, and the caller is expected to check
// c.Exhausted() / original message length before trusting the counts.
func ParseHeader(c *Cursor) Header {
	return Header{
		ID:      c.ReadUint16(),
		Flags:   c.ReadUint16(),
		QDCount: c.ReadUint16(),
		ANCount: c.ReadUint16(),
		NSCount: c.ReadUint16(),
		ARCount: c.ReadUint16(),
	}
}
