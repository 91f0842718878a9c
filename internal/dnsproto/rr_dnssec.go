package dnsproto

// dnssecAlgo mirrors the wire analyzer's DNSSEC_Algo enum: most named
// algorithms are unremarkable and produce no weird, but a handful of
// values are notable enough to flag on every RRSIG/DNSKEY that names
// them. Values not in namedDNSSECAlgos and not one of the flagged
// constants fall through to the "unknown" case.
type dnssecAlgo uint8

const (
	dnssecAlgoRSAMD5     dnssecAlgo = 1
	dnssecAlgoIndirect   dnssecAlgo = 253
	dnssecAlgoPrivateDNS dnssecAlgo = 254
	dnssecAlgoPrivateOID dnssecAlgo = 255
)

// namedDNSSECAlgos are algorithm identifiers the wire analyzer's
// DNSSEC_Algo enum recognizes as ordinary named algorithms (Diffie
// Hellman, DSA/SHA1 family, RSA/SHA family, GOST, the ECDSA curves):
// none of these produce a weird notice.
var namedDNSSECAlgos = map[uint8]struct{}{
	2: {}, 3: {}, 4: {}, 5: {}, 6: {}, 7: {}, 8: {}, 10: {}, 12: {}, 13: {}, 14: {},
}

// dnssecAlgoWeird classifies an RRSIG/DNSKEY signing algorithm the way
// ParseRR_RRSIG's DNSSEC_Algo switch does, parameterized by the RRSIG vs
// DNSKEY weird-name prefix since the two records share the identical
// classification but report it under different notice names.
func dnssecAlgoWeird(algo uint8, notRecommended, indirect, privateDNS, privateOID, unknown string) string {
	switch dnssecAlgo(algo) {
	case dnssecAlgoRSAMD5:
		return notRecommended
	case dnssecAlgoIndirect:
		return indirect
	case dnssecAlgoPrivateDNS:
		return privateDNS
	case dnssecAlgoPrivateOID:
		return privateOID
	default:
		if _, ok := namedDNSSECAlgos[algo]; ok {
			return ""
		}
		return unknown
	}
}

func rrsigAlgoWeird(algo uint8) string {
	return dnssecAlgoWeird(algo,
		"DNSSEC_RRSIG_NotRecommended_ZoneSignAlgo",
		"DNSSEC_RRSIG_Indirect_ZoneSignAlgo",
		"DNSSEC_RRSIG_PrivateDNS_ZoneSignAlgo",
		"DNSSEC_RRSIG_PrivateOID_ZoneSignAlgo",
		"DNSSEC_RRSIG_unknown_ZoneSignAlgo")
}

func dnskeyAlgoWeird(algo uint8) string {
	return dnssecAlgoWeird(algo,
		"DNSSEC_DNSKEY_NotRecommended_ZoneSignAlgo",
		"DNSSEC_DNSKEY_Indirect_ZoneSignAlgo",
		"DNSSEC_DNSKEY_PrivateDNS_ZoneSignAlgo",
		"DNSSEC_DNSKEY_PrivateOID_ZoneSignAlgo",
		"DNSSEC_DNSKEY_unknown_ZoneSignAlgo")
}

// dsDigestWeird classifies a DS record's digest type the way
// ParseRR_DS's DNSSEC_Digest switch does: digest type 0 is reserved by
// RFC 4509, 1-4 are named and silent, anything else is unknown.
func dsDigestWeird(digest uint8) string {
	switch digest {
	case 0:
		return "DNSSEC_DS_ResrevedDigestType"
	case 1, 2, 3, 4:
		return ""
	default:
		return "DNSSEC_DS_unknown_DigestType"
	}
}

// parseRRSIG reads an RRSIG record's RDATA (RFC 4034). Grounded on the
// wire analyzer's ParseRR_RRSIG.
func parseRRSIG(c *Cursor, rdlen int, ctx DecodeContext) (RRSIGData, string) {
	start := c.Pos
	data := RRSIGData{
		TypeCovered:   c.ReadUint16(),
		Algorithm:     c.ReadOctet(),
		Labels:        c.ReadOctet(),
		OrigTTL:       c.ReadUint32(),
		SigExpiration: c.ReadUint32(),
		SigInception:  c.ReadUint32(),
		KeyTag:        c.ReadUint16(),
	}
	name, next, weirdName := DecodeName(c.Msg, c.Pos, ctx)
	c.Pos = next
	data.SignerName = name

	if weirdName == "" {
		weirdName = rrsigAlgoWeird(data.Algorithm)
	}

	remaining := rdlen - (c.Pos - start)
	if remaining < 0 {
		remaining = 0
	}
	data.Signature = c.ReadOctets(remaining)
	return data, weirdName
}

// dnskeyInvalidFlag reports the wire analyzer's DNSSEC_DNSKEY_Invalid_Flag
// condition: any of the reserved bits (everything but ZONE, SEP, and
// revoke) is set.
func dnskeyInvalidFlag(flags uint16) bool {
	const reservedMask = 0xFE7E
	return flags&reservedMask != 0
}

// dnskeyRevokedKSK reports the wire analyzer's DNSSEC_DNSKEY_Revoked_KSK
// condition: SEP (bit 0), revoke (bit 7), and ZONE (bit 8) all set at
// once. This is independent of dnskeyInvalidFlag/protocol checks and can
// fire on its own.
func dnskeyRevokedKSK(flags uint16) bool {
	const sepRevokeZone = 0x0181
	return flags&sepRevokeZone == sepRevokeZone
}

// parseDNSKEY reads a DNSKEY record's RDATA (RFC 4034). Grounded on the
// wire analyzer's ParseRR_DNSKEY, whose flag/protocol/algorithm checks
// are three independent conditions, each reported on its own regardless
// of whether the others also fired; this function keeps only the
// highest-priority one it found, since the RDATA event carries a single
// weird name.
func parseDNSKEY(c *Cursor, rdlen int) (DNSKEYData, string) {
	start := c.Pos
	data := DNSKEYData{
		Flags: c.ReadUint16(),
	}
	data.Protocol = c.ReadOctet()
	data.Algorithm = c.ReadOctet()

	weirdName := ""
	if dnskeyInvalidFlag(data.Flags) {
		weirdName = "DNSSEC_DNSKEY_Invalid_Flag"
	}
	if dnskeyRevokedKSK(data.Flags) && weirdName == "" {
		weirdName = "DNSSEC_DNSKEY_Revoked_KSK"
	}
	if data.Protocol != 3 && weirdName == "" {
		weirdName = "DNSSEC_DNSKEY_Invalid_Protocol"
	}
	if weirdName == "" {
		weirdName = dnskeyAlgoWeird(data.Algorithm)
	}

	remaining := rdlen - (c.Pos - start)
	if remaining < 0 {
		remaining = 0
	}
	data.PublicKey = c.ReadOctets(remaining)
	return data, weirdName
}

// parseNSEC reads an NSEC record's RDATA (RFC 4034): a compressed next
// owner name followed by a type bitmap. Grounded on ParseRR_NSEC.
func parseNSEC(c *Cursor, rdlen int, ctx DecodeContext) (NSECData, string) {
	start := c.Pos
	name, next, weirdName := DecodeName(c.Msg, c.Pos, ctx)
	c.Pos = next

	remaining := rdlen - (c.Pos - start)
	if remaining < 0 {
		remaining = 0
		if weirdName == "" {
			weirdName = "DNS_RR_bad_length"
		}
	}
	bitmap := c.ReadOctets(remaining)
	return NSECData{NextDomain: name, TypeBitmap: bitmap}, weirdName
}

// parseNSEC3 reads an NSEC3 record's RDATA (RFC 5155): hash algorithm,
// flags, iterations, salt, next hashed owner, and a type bitmap. Grounded
// on ParseRR_NSEC3.
func parseNSEC3(c *Cursor, rdlen int) (NSEC3Data, string) {
	start := c.Pos
	data := NSEC3Data{
		HashAlgorithm: c.ReadOctet(),
		Flags:         c.ReadOctet(),
		Iterations:    c.ReadUint16(),
	}
	saltLen := int(c.ReadOctet())
	remaining := rdlen - (c.Pos - start)
	weirdName := ""
	if saltLen > remaining {
		weirdName = "DNS_RR_bad_length"
		saltLen = remaining
	}
	data.Salt = c.ReadOctets(saltLen)

	remaining = rdlen - (c.Pos - start)
	hashLen := int(c.ReadOctet())
	remaining--
	if hashLen > remaining || remaining < 0 {
		if weirdName == "" {
			weirdName = "DNS_RR_bad_length"
		}
		if remaining < 0 {
			remaining = 0
		}
		hashLen = remaining
	}
	data.NextHashedOwner = c.ReadOctets(hashLen)

	remaining = rdlen - (c.Pos - start)
	if remaining < 0 {
		remaining = 0
	}
	data.TypeBitmap = c.ReadOctets(remaining)
	return data, weirdName
}

// parseDS reads a DS record's RDATA (RFC 4034): key tag, algorithm,
// digest type, and digest. Grounded on ParseRR_DS.
func parseDS(c *Cursor, rdlen int) (DSData, string) {
	start := c.Pos
	data := DSData{
		KeyTag:     c.ReadUint16(),
		Algorithm:  c.ReadOctet(),
		DigestType: c.ReadOctet(),
	}
	weirdName := dsDigestWeird(data.DigestType)

	remaining := rdlen - (c.Pos - start)
	if remaining < 0 {
		remaining = 0
	}
	data.Digest = c.ReadOctets(remaining)
	return data, weirdName
}
