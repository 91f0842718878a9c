package dnsproto

// parseCharStrings reads a run of length-prefixed character-strings
// filling rdlen bytes of RDATA: the shape shared by TXT and SPF records.
// Grounded on the wire analyzer's extract_char_string helper used by
// ParseRR_TXT/ParseRR_SPF, which aborts the whole record the moment one
// string's declared length runs past what's left of rdlength rather than
// clamping it and continuing.
func parseCharStrings(c *Cursor, rdlen int) (TXTData, string) {
	start := c.Pos
	var data TXTData
	for c.Pos-start < rdlen {
		remaining := rdlen - (c.Pos - start)
		if remaining < 1 {
			break
		}
		strLen := int(c.ReadOctet())
		remaining--
		if strLen > remaining {
			c.Skip(remaining)
			return data, "DNS_TXT_char_str_past_rdlen"
		}
		data.Strings = append(data.Strings, c.ReadOctets(strLen))
	}
	return data, ""
}
