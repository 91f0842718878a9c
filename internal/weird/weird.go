// Package weird carries the diagnostic-notice channel the interpreter uses
// for protocol anomalies that fall short of a hard parse failure: things
// worth flagging to an analyst but not worth aborting the parse over.
// Modeled on the wire analyzer's Weird() reporting convention, where a
// named string identifies the anomaly and the connection/session it was
// seen on provides context.
package weird

import "log/slog"

// Named notices. Names match the wire analyzer's Weird() call sites
// verbatim so packet captures and logs from either implementation read the
// same way.
const (
	LabelForwardCompressOffset = "DNS_label_forward_compress_offset"
	LabelTooLong               = "DNS_label_too_long"
	LabelLenGtPkt              = "DNS_label_len_gt_pkt"
	LabelLenGtNameLen          = "DNS_label_len_gt_name_len"
	ConnCountTooLarge          = "DNS_Conn_count_too_large"
	RRUnknownType              = "DNS_RR_unknown_type"
	RRBadLength                = "DNS_RR_bad_length"
	RRLengthMismatch           = "DNS_RR_length_mismatch"
	TruncatedAnswer            = "DNS_truncated_answer"
	TruncatedQuery             = "DNS_truncated_query"
	UnmatchedMsg               = "DNS_unmatched_msg"
	UnmatchedReply             = "DNS_unmatched_reply"
	NameTooLong                = "DNS_NAME_too_long"
	StateMismatchInReassembly  = "DNS_state_mismatch_in_reassembly"

	AAAANegLength = "DNS_AAAA_neg_length"
	A6NegLength   = "DNS_A6_neg_length"

	TXTCharStrPastRdlen = "DNS_TXT_char_str_past_rdlen"
	CAACharStrPastRdlen = "DNS_CAA_char_str_past_rdlen"

	DNSSECRRSIGNotRecommendedZoneSignAlgo = "DNSSEC_RRSIG_NotRecommended_ZoneSignAlgo"
	DNSSECRRSIGIndirectZoneSignAlgo       = "DNSSEC_RRSIG_Indirect_ZoneSignAlgo"
	DNSSECRRSIGPrivateDNSZoneSignAlgo     = "DNSSEC_RRSIG_PrivateDNS_ZoneSignAlgo"
	DNSSECRRSIGPrivateOIDZoneSignAlgo     = "DNSSEC_RRSIG_PrivateOID_ZoneSignAlgo"
	DNSSECRRSIGUnknownZoneSignAlgo        = "DNSSEC_RRSIG_unknown_ZoneSignAlgo"

	DNSSECDNSKEYNotRecommendedZoneSignAlgo = "DNSSEC_DNSKEY_NotRecommended_ZoneSignAlgo"
	DNSSECDNSKEYIndirectZoneSignAlgo       = "DNSSEC_DNSKEY_Indirect_ZoneSignAlgo"
	DNSSECDNSKEYPrivateDNSZoneSignAlgo     = "DNSSEC_DNSKEY_PrivateDNS_ZoneSignAlgo"
	DNSSECDNSKEYPrivateOIDZoneSignAlgo     = "DNSSEC_DNSKEY_PrivateOID_ZoneSignAlgo"
	DNSSECDNSKEYUnknownZoneSignAlgo        = "DNSSEC_DNSKEY_unknown_ZoneSignAlgo"

	DNSKEYInvalidFlag     = "DNSSEC_DNSKEY_Invalid_Flag"
	DNSKEYRevokedKSK      = "DNSSEC_DNSKEY_Revoked_KSK"
	DNSKEYInvalidProtocol = "DNSSEC_DNSKEY_Invalid_Protocol"

	DSReservedDigestType = "DNSSEC_DS_ResrevedDigestType"
	DSUnknownDigestType  = "DNSSEC_DS_unknown_DigestType"
)

// Notice is a single diagnostic event.
type Notice struct {
	Name      string
	SessionID string
	Detail    string
}

// Sink receives diagnostic notices. Implementations must not block the
// caller for long; the interpreter reports weirds inline on the parse
// path.
type Sink interface {
	Weird(n Notice)
}

// LogSink reports notices through slog at Warn level, mirroring the
// severity the analyzer's own logging conventions use for anomalies that
// are notable but not fatal.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Weird(n Notice) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn("dns weird", slog.String("name", n.Name), slog.String("session", n.SessionID), slog.String("detail", n.Detail))
}

// NopSink discards every notice. Useful as a default when no sink is wired.
type NopSink struct{}

func (NopSink) Weird(Notice) {}
