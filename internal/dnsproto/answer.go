package dnsproto

import (
	"github.com/hydravigil/dnsvigil/internal/events"
	"github.com/hydravigil/dnsvigil/internal/weird"
)

// ParseAnswer decodes one resource record from the answer, authority, or
// additional section: the shared name/type/class/ttl/rdlength prelude
// (grounded on the wire codec's ParseRecord), then dispatches on type to
// the matching per-type parser (grounded on the wire analyzer's
// ParseAnswer switch) and emits the corresponding event.
//
// rdlength is bounds-checked against the remaining message length before
// any type-specific parser runs; a record claiming more RDATA than the
// message actually has is truncated to what remains and flagged
// DNS_RR_bad_length rather than causing the whole message parse to abort.
func ParseAnswer(c *Cursor, ctx DecodeContext, section string, hdr events.Header, sink events.Sink, wsink weird.Sink) {
	name, next, nameWeird := DecodeName(c.Msg, c.Pos, ctx)
	c.Pos = next
	if nameWeird != "" {
		wsink.Weird(weird.Notice{Name: nameWeird, SessionID: hdr.SessionID, Detail: "answer name"})
	}

	rtype := c.ReadUint16()
	rclass := c.ReadUint16()
	ttl := c.ReadUint32()
	rdlen := int(c.ReadUint16())

	if rdlen > c.Remaining() {
		wsink.Weird(weird.Notice{Name: weird.RRBadLength, SessionID: hdr.SessionID, Detail: "rdlength exceeds message"})
		rdlen = c.Remaining()
	}

	ans := &events.Answer{
		Header:  hdr,
		Query:   name,
		AType:   rtype,
		AClass:  rclass,
		TTL:     ttl,
		Section: section,
	}

	rdataStart := c.Pos
	kind, rdata, weirdName := dispatchRData(c, RecordType(rtype), rdlen, ctx, rclass, ttl)

	consumed := c.Pos - rdataStart
	if consumed != rdlen {
		// A type-specific parser under- or over-read relative to the
		// declared RDATA length; resynchronize to the RR boundary the
		// header promised so later records in the section stay aligned.
		c.Pos = rdataStart + rdlen
		if weirdName == "" {
			weirdName = weird.RRLengthMismatch
		}
	}

	if weirdName != "" {
		wsink.Weird(weird.Notice{Name: weirdName, SessionID: hdr.SessionID, Detail: name})
	}

	sink.Emit(events.Event{Kind: kind, Ans: ans, Rdata: rdata})
}

func dispatchRData(c *Cursor, rtype RecordType, rdlen int, ctx DecodeContext, rawClass uint16, rawTTL uint32) (events.Kind, any, string) {
	switch rtype {
	case TypeA:
		d, w := parseA(c, rdlen)
		return events.KindAReply, d, w
	case TypeAAAA:
		d, w := parseAAAA(c, rdlen)
		return events.KindAAAAReply, d, w
	case TypeA6:
		d, w := parseA6(c, rdlen)
		return events.KindA6Reply, d, w
	case TypeNS:
		d, w := parseNameRR(c, rdlen, ctx)
		return events.KindNSReply, d, w
	case TypeCNAME:
		d, w := parseNameRR(c, rdlen, ctx)
		return events.KindCNAMEReply, d, w
	case TypePTR:
		d, w := parseNameRR(c, rdlen, ctx)
		return events.KindPTRReply, d, w
	case TypeSOA:
		d, w := parseSOA(c, rdlen, ctx)
		return events.KindSOAReply, d, w
	case TypeMX:
		d, w := parseMX(c, rdlen, ctx)
		return events.KindMXReply, d, w
	case TypeSRV:
		if ctx.isNetBIOS() {
			return events.KindUnknownReply, parseOpaque(c, rdlen), ""
		}
		d, w := parseSRV(c, rdlen, ctx)
		return events.KindSRVReply, d, w
	case TypeTXT:
		d, w := parseCharStrings(c, rdlen)
		return events.KindTXTReply, d, w
	case TypeSPF:
		d, w := parseCharStrings(c, rdlen)
		return events.KindSPFReply, d, w
	case TypeCAA:
		d, w := parseCAA(c, rdlen)
		return events.KindCAAReply, d, w
	case TypeOPT:
		// class/ttl carry non-standard meanings for OPT (RFC 6891):
		// class is the sender's UDP payload size, ttl packs the extended
		// RCODE, version, and DO flag.
		d := parseEDNS(c, rdlen, rawClass, rawTTL)
		return events.KindEDNSAddl, d, ""
	case TypeTSIG:
		d, w := parseTSIG(c, rdlen, ctx)
		return events.KindTSIGAddl, d, w
	case TypeRRSIG:
		d, w := parseRRSIG(c, rdlen, ctx)
		return events.KindRRSIGReply, d, w
	case TypeDNSKEY:
		d, w := parseDNSKEY(c, rdlen)
		return events.KindDNSKEYReply, d, w
	case TypeNSEC:
		d, w := parseNSEC(c, rdlen, ctx)
		return events.KindNSECReply, d, w
	case TypeNSEC3:
		d, w := parseNSEC3(c, rdlen)
		return events.KindNSEC3Reply, d, w
	case TypeDS:
		d, w := parseDS(c, rdlen)
		return events.KindDSReply, d, w
	case TypeWKS, TypeHINFO, TypeNB:
		return events.KindUnknownReply, parseOpaque(c, rdlen), ""
	default:
		return events.KindUnknownReply, parseOpaque(c, rdlen), weird.RRUnknownType
	}
}
