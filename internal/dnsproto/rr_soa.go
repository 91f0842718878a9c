package dnsproto

// parseSOA reads an SOA record's RDATA: two compressed names followed by
// five 32-bit integers. Grounded on the wire analyzer's ParseRR_SOA.
func parseSOA(c *Cursor, rdlen int, ctx DecodeContext) (SOAData, string) {
	start := c.Pos
	mname, next, w1 := DecodeName(c.Msg, c.Pos, ctx)
	c.Pos = next
	rname, next2, w2 := DecodeName(c.Msg, c.Pos, ctx)
	c.Pos = next2

	data := SOAData{
		MName:   mname,
		RName:   rname,
		Serial:  c.ReadUint32(),
		Refresh: c.ReadUint32(),
		Retry:   c.ReadUint32(),
		Expire:  c.ReadUint32(),
		Minimum: c.ReadUint32(),
	}

	weirdName := w1
	if weirdName == "" {
		weirdName = w2
	}
	consumed := c.Pos - start
	if consumed != rdlen && weirdName == "" {
		weirdName = "DNS_RR_length_mismatch"
	}
	return data, weirdName
}
