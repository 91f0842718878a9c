package dnsproto

// parseOpaque copies rdlen bytes without interpretation. Used for WKS,
// HINFO, NB (NetBIOS name records), and any unrecognized type, matching
// the wire analyzer's default handling: skip the RDATA, do not fail the
// message over an RR type this interpreter has no opinion about.
func parseOpaque(c *Cursor, rdlen int) OpaqueData {
	return OpaqueData{Raw: c.ReadOctets(rdlen)}
}
