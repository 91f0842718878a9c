package dnsproto

import (
	"fmt"

	"github.com/hydravigil/dnsvigil/internal/events"
	"github.com/hydravigil/dnsvigil/internal/weird"
)

// SkipFilters controls which sections ParseMessage decodes fully versus
// skips wholesale, keyed by policy rather than by content: a monitor
// watching high-volume resolvers can turn off authority/additional
// section decoding entirely, or only for specific responders.
type SkipFilters struct {
	SkipAllAuth bool
	SkipAllAddl bool
	SkipAuth    func(responder string) bool
	SkipAddl    func(responder string) bool
}

func (f SkipFilters) skipAuthority(responder string) bool {
	if f.SkipAllAuth {
		return true
	}
	return f.SkipAuth != nil && f.SkipAuth(responder)
}

func (f SkipFilters) skipAdditional(responder string) bool {
	if f.SkipAllAddl {
		return true
	}
	return f.SkipAddl != nil && f.SkipAddl(responder)
}

// MsgInfo is the scratch record built for a single ParseMessage call. It
// is never retained past the call that produced it: nothing in this
// package or its callers holds a MsgInfo across messages.
type MsgInfo struct {
	IsQuery    bool
	QueryName  string
	QueryType  uint16
	QueryClass uint16
}

// ParseMessage decodes one complete DNS message (the payload of a single
// UDP datagram, or one framed TCP message) starting at msg[0]. responder
// is the address of the side of the connection acting as the DNS server,
// used both for the skip-filter lookups and for the port-137 NetBIOS
// label exception. maxQuestions enforces the per-message question-count
// ceiling (dns_max_queries); a message whose header claims more questions
// than that is reported as ConnCountTooLarge and its question/answer
// sections are not walked.
//
// Grounded on DNS_Interpreter::ParseMessage: role-flip is applied once by
// the caller (see internal/session), not here — ParseMessage itself is
// stateless across calls, consistent with MsgInfo's call-scoped lifetime.
func ParseMessage(msg []byte, responderPort uint16, responderAddr string, sessionID string, maxQuestions int, filters SkipFilters, sink events.Sink, wsink weird.Sink) (MsgInfo, error) {
	if len(msg) < HeaderSize {
		return MsgInfo{}, fmt.Errorf("message shorter than header (%d bytes): %w", len(msg), ErrMalformed)
	}

	c := NewCursor(msg)
	hdr := ParseHeader(c)
	ctx := DecodeContext{ResponderPort: responderPort}

	evHdr := events.Header{
		SessionID: sessionID,
		IsQuery:   !hdr.QR(),
		TransID:   hdr.ID,
		Opcode:    hdr.Opcode(),
		RCode:     int(hdr.RCode()),
		QDCount:   hdr.QDCount,
		ANCount:   hdr.ANCount,
		NSCount:   hdr.NSCount,
		ARCount:   hdr.ARCount,
	}

	var info MsgInfo
	info.IsQuery = !hdr.QR()

	sink.Emit(events.Event{Kind: events.KindMessage, Hdr: &evHdr})

	if int(hdr.QDCount) > maxQuestions {
		wsink.Weird(weird.Notice{Name: weird.ConnCountTooLarge, SessionID: sessionID, Detail: fmt.Sprintf("qdcount=%d", hdr.QDCount)})
		sink.Emit(events.Event{Kind: events.KindEnd, Hdr: &evHdr, Detail: "question count ceiling exceeded"})
		return info, nil
	}

	for i := 0; i < int(hdr.QDCount); i++ {
		if c.Exhausted() {
			wsink.Weird(weird.Notice{Name: weird.TruncatedQuery, SessionID: sessionID})
			break
		}
		q, w := ParseQuestion(c, ctx)
		if w != "" {
			wsink.Weird(weird.Notice{Name: w, SessionID: sessionID, Detail: "question name"})
		}
		if i == 0 {
			info.QueryName = q.Name
			info.QueryType = q.QType
			info.QueryClass = q.QClass
			kind := events.KindRequest
			if hdr.QR() {
				kind = events.KindQueryReply
				if hdr.ANCount == 0 && hdr.NSCount == 0 && hdr.ARCount == 0 {
					kind = events.KindRejected
				}
			}
			sink.Emit(events.Event{Kind: kind, Hdr: &evHdr, Detail: q.Name})
		}
	}

	skipAuth := filters.skipAuthority(responderAddr)
	skipAddl := filters.skipAdditional(responderAddr)
	if hdr.ANCount == 0 {
		// Nothing in the answer section makes the authority/additional
		// sections interesting either, mirroring the wire analyzer's
		// skip_auth/skip_addl derivation for empty-answer responses.
		skipAuth = true
		skipAddl = true
	}

	walkSection(c, ctx, "answer", int(hdr.ANCount), false, evHdr, sink, wsink)
	walkSection(c, ctx, "authority", int(hdr.NSCount), skipAuth, evHdr, sink, wsink)
	walkSection(c, ctx, "additional", int(hdr.ARCount), skipAddl, evHdr, sink, wsink)

	sink.Emit(events.Event{Kind: events.KindEnd, Hdr: &evHdr})
	return info, nil
}

func walkSection(c *Cursor, ctx DecodeContext, section string, count int, skip bool, hdr events.Header, sink events.Sink, wsink weird.Sink) {
	for i := 0; i < count; i++ {
		if c.Exhausted() {
			name := weird.TruncatedAnswer
			wsink.Weird(weird.Notice{Name: name, SessionID: hdr.SessionID, Detail: section})
			return
		}
		if skip {
			skipRecord(c)
			continue
		}
		ParseAnswer(c, ctx, section, hdr, sink, wsink)
	}
}

// skipRecord advances past one resource record without emitting an event,
// used when the section as a whole is filtered out by policy. The
// name/type/class/ttl/rdlength prelude still has to be walked to find the
// record boundary, so this is not free, just quiet.
func skipRecord(c *Cursor) {
	_, next, _ := DecodeName(c.Msg, c.Pos, DecodeContext{})
	c.Pos = next
	c.Skip(2 + 2 + 4) // type, class, ttl
	rdlen := int(c.ReadUint16())
	if rdlen > c.Remaining() {
		rdlen = c.Remaining()
	}
	c.Skip(rdlen)
}
