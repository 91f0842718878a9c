package dnsproto

import "github.com/hydravigil/dnsvigil/internal/helpers"

const (
	ednsOptionHeaderLen   = 4
	ednsMaxOptionDataSize = 65535
)

// isAllowedEDNSOption filters the option-code allowlist; unknown or
// disallowed codes are skipped rather than surfaced, matching the wire
// codec's edns.go convention.
func isAllowedEDNSOption(code uint16) bool {
	switch code {
	case 10, 12: // COOKIE, PADDING
		return true
	default:
		return false
	}
}

// parseEDNSOptions extracts allowed EDNS options from RDATA, skipping
// unknown or malformed entries and stopping early on truncation.
func parseEDNSOptions(rdata []byte) []EDNSOption {
	opts := make([]EDNSOption, 0, 2)
	for i := 0; i < len(rdata); {
		if len(rdata)-i < ednsOptionHeaderLen {
			break
		}
		c := NewCursor(rdata[i:])
		code := c.ReadUint16()
		ln := int(c.ReadUint16())
		i += ednsOptionHeaderLen

		if ln > ednsMaxOptionDataSize || i+ln > len(rdata) {
			break
		}
		if isAllowedEDNSOption(code) {
			data := make([]byte, ln)
			copy(data, rdata[i:i+ln])
			opts = append(opts, EDNSOption{Code: code, Data: data})
		}
		i += ln
	}
	return opts
}

// parseEDNS reinterprets an OPT pseudo-record's class/ttl fields (which
// are not a real class or TTL) and decodes its options. Grounded on the
// wire codec's ExtractOPT, generalized from teacher's post-hoc lookup
// into an inline reinterpretation at parse time, per the wire analyzer's
// ParseRR_EDNS.
func parseEDNS(c *Cursor, rdlen int, rawClass uint16, rawTTL uint32) EDNSData {
	rdata := c.ReadOctets(rdlen)
	return EDNSData{
		UDPPayloadSize: rawClass,
		ExtRCode:       helpers.ClampUint32ToUint8((rawTTL >> 24) & 0xFF),
		Version:        helpers.ClampUint32ToUint8((rawTTL >> 16) & 0xFF),
		DO:             (rawTTL>>15)&0x1 == 1,
		Options:        parseEDNSOptions(rdata),
	}
}
