package dnsproto

// parseTSIG reads a TSIG record's RDATA (RFC 2845): algorithm name,
// 48-bit signing time, fudge, MAC, original ID, error, and other data.
// Grounded on the wire analyzer's ParseRR_TSIG.
func parseTSIG(c *Cursor, rdlen int, ctx DecodeContext) (TSIGData, string) {
	start := c.Pos
	alg, next, weirdName := DecodeName(c.Msg, c.Pos, ctx)
	c.Pos = next

	timeHi := uint64(c.ReadUint16())
	timeLo := uint64(c.ReadUint32())
	timeSigned := timeHi<<32 | timeLo
	fudge := c.ReadUint16()
	macSize := int(c.ReadUint16())

	remaining := rdlen - (c.Pos - start)
	if macSize > remaining {
		if weirdName == "" {
			weirdName = "DNS_RR_bad_length"
		}
		macSize = remaining
	}
	mac := c.ReadOctets(macSize)

	origID := c.ReadUint16()
	errCode := c.ReadUint16()
	otherLen := int(c.ReadUint16())

	remaining = rdlen - (c.Pos - start)
	if otherLen > remaining {
		if weirdName == "" {
			weirdName = "DNS_RR_bad_length"
		}
		otherLen = remaining
	}
	other := c.ReadOctets(otherLen)

	return TSIGData{
		AlgorithmName: alg,
		TimeSigned:    timeSigned,
		Fudge:         fudge,
		MAC:           mac,
		OriginalID:    origID,
		Error:         errCode,
		Other:         other,
	}, weirdName
}
