package adminapi

import "os"

func processID() int {
	return os.Getpid()
}

// eventKindName maps the numeric events.Kind values stored in the
// database back to a readable label. Kept as a plain lookup table rather
// than importing internal/events, since the admin API only needs to
// display the integer that came out of the store, not construct events.
var eventKindNames = []string{
	"message", "request", "rejected", "query_reply", "a_reply", "aaaa_reply",
	"a6_reply", "cname_reply", "ns_reply", "ptr_reply", "soa_reply", "mx_reply",
	"srv_reply", "txt_reply", "spf_reply", "caa_reply", "edns_addl", "tsig_addl",
	"rrsig_reply", "dnskey_reply", "nsec_reply", "nsec3_reply", "ds_reply",
	"unknown_reply", "end",
}

func eventKindName(kind int) string {
	if kind < 0 || kind >= len(eventKindNames) {
		return "unknown"
	}
	return eventKindNames[kind]
}
