package dnsproto

import "net"

// parseA reads an A record's RDATA: a single 4-byte IPv4 address.
// Grounded on the wire analyzer's ParseRR_A, which flags any rdlength
// other than 4 rather than trying to make sense of it.
func parseA(c *Cursor, rdlen int) (AddressData, string) {
	if rdlen != 4 {
		c.Skip(rdlen)
		return AddressData{}, "DNS_RR_bad_length"
	}
	raw := c.ReadOctets(4)
	return AddressData{IP: net.IP(raw)}, ""
}

// parseAAAA reads an AAAA record's RDATA as four 32-bit words, matching
// the wire analyzer's ParseRR_AAAA: it never checks rdlength up front,
// only the cursor running out of bytes partway through the four reads.
func parseAAAA(c *Cursor, rdlen int) (AddressData, string) {
	raw := make([]byte, 0, 16)
	for i := 0; i < 4; i++ {
		if c.Remaining() < 4 {
			return AddressData{}, "DNS_AAAA_neg_length"
		}
		raw = append(raw, c.ReadOctets(4)...)
	}
	return AddressData{IP: net.IP(raw)}, ""
}

// parseA6 reads an A6 record's RDATA (RFC 2874): a prefix length byte,
// an address suffix sized to (128 - prefix length) bits, and an optional
// prefix name when the prefix length is nonzero.
func parseA6(c *Cursor, rdlen int) (A6Data, string) {
	start := c.Pos
	if rdlen < 1 {
		c.Skip(rdlen)
		return A6Data{}, "DNS_A6_neg_length"
	}
	prefixLen := c.ReadOctet()
	if prefixLen > 128 {
		remaining := rdlen - (c.Pos - start)
		c.Skip(remaining)
		return A6Data{PrefixLen: prefixLen}, "DNS_RR_bad_length"
	}

	suffixBytes := (128 - int(prefixLen) + 7) / 8
	remaining := rdlen - (c.Pos - start)
	var weirdSuffix string
	if suffixBytes > remaining {
		weirdSuffix = "DNS_A6_neg_length"
		suffixBytes = remaining
	}
	suffixRaw := c.ReadOctets(suffixBytes)

	full := make(net.IP, 16)
	copy(full[16-len(suffixRaw):], suffixRaw)

	data := A6Data{PrefixLen: prefixLen, AddressSuffix: full}
	weirdName := weirdSuffix
	if prefixLen > 0 {
		consumed := c.Pos - start
		remaining = rdlen - consumed
		if remaining > 0 {
			name, next, w := DecodeName(c.Msg, c.Pos, DecodeContext{})
			data.PrefixName = name
			c.Pos = next
			if weirdName == "" {
				weirdName = w
			}
		}
	}
	consumed := c.Pos - start
	if consumed < rdlen {
		c.Skip(rdlen - consumed)
	}
	return data, weirdName
}
