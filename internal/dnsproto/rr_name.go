package dnsproto

// parseNameRR decodes a record whose RDATA is a single compressed domain
// name: NS, CNAME, and PTR all share this shape (grounded on the wire
// analyzer's ParseRR_Name, which dispatches all three through one
// function).
func parseNameRR(c *Cursor, rdlen int, ctx DecodeContext) (NameData, string) {
	start := c.Pos
	name, next, weirdName := DecodeName(c.Msg, c.Pos, ctx)
	c.Pos = next
	consumed := c.Pos - start
	if consumed != rdlen && weirdName == "" {
		weirdName = "DNS_RR_length_mismatch"
	}
	return NameData{Target: name}, weirdName
}
