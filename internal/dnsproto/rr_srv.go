package dnsproto

// parseSRV reads an SRV record's RDATA (RFC 2782): priority, weight, port,
// then a compressed target name. Type 33 is shared on the wire with the
// NetBIOS NBSTAT record; the dispatcher in answer.go routes type-33
// records seen on a port-137 responder to the opaque path instead of here,
// matching the wire analyzer's ParseAnswer NBSTAT special case.
func parseSRV(c *Cursor, rdlen int, ctx DecodeContext) (SRVData, string) {
	start := c.Pos
	data := SRVData{
		Priority: c.ReadUint16(),
		Weight:   c.ReadUint16(),
		Port:     c.ReadUint16(),
	}
	name, next, weirdName := DecodeName(c.Msg, c.Pos, ctx)
	c.Pos = next
	data.Target = name

	consumed := c.Pos - start
	if consumed != rdlen && weirdName == "" {
		weirdName = "DNS_RR_length_mismatch"
	}
	return data, weirdName
}
