package dnsproto

// parseCAA reads a CAA record's RDATA (RFC 8659): a flag byte, a
// length-prefixed tag string, and a value blob filling the rest of the
// RDATA. Grounded on the wire analyzer's ParseRR_CAA.
func parseCAA(c *Cursor, rdlen int) (CAAData, string) {
	start := c.Pos
	if rdlen < 2 {
		c.Skip(rdlen)
		return CAAData{}, "DNS_RR_bad_length"
	}
	flag := c.ReadOctet()
	tagLen := int(c.ReadOctet())

	remaining := rdlen - (c.Pos - start)
	if tagLen >= remaining {
		c.Skip(remaining)
		return CAAData{}, "DNS_CAA_char_str_past_rdlen"
	}
	tag := c.ReadOctets(tagLen)

	remaining = rdlen - (c.Pos - start)
	if remaining < 0 {
		remaining = 0
	}
	value := c.ReadOctets(remaining)

	return CAAData{Flag: flag, Tag: string(tag), Value: value}, ""
}
