package dnsproto

// Question is a decoded entry from the question section.
type Question struct {
	Name  string
	QType uint16
	QClass uint16
}

// ParseQuestion decodes one question entry starting at c.Pos, leaving the
// cursor positioned just after the fixed QTYPE/QCLASS fields.
func ParseQuestion(c *Cursor, ctx DecodeContext) (q Question, weirdName string) {
	name, next, w := DecodeName(c.Msg, c.Pos, ctx)
	c.Pos = next
	q.Name = name
	q.QType = c.ReadUint16()
	q.QClass = c.ReadUint16()
	return q, w
}
