package dnsproto

// DNS header flag masks (RFC 1035 Section 4.1.1).
const (
	QRFlag     uint16 = 0x8000
	OpcodeMask uint16 = 0x7800
	AAFlag     uint16 = 0x0400
	TCFlag     uint16 = 0x0200
	RDFlag     uint16 = 0x0100
	RAFlag     uint16 = 0x0080
	ZFlag      uint16 = 0x0070 // 3-bit reserved field
	RCodeMask  uint16 = 0x000F
)

// RecordType is a DNS resource record TYPE value.
type RecordType uint16

// Record types this interpreter recognizes structurally. Anything else
// falls through to the unknown-type path.
const (
	TypeA          RecordType = 1
	TypeNS         RecordType = 2
	TypeCNAME      RecordType = 5
	TypeSOA        RecordType = 6
	TypeWKS        RecordType = 11
	TypePTR        RecordType = 12
	TypeHINFO      RecordType = 13
	TypeMX         RecordType = 15
	TypeTXT        RecordType = 16
	TypeNB         RecordType = 32 // NetBIOS name record (RFC 1002)
	TypeAAAA       RecordType = 28
	TypeSRV        RecordType = 33 // overlaps NBSTAT (RFC 1002) when responder port is 137
	TypeA6         RecordType = 38 // RFC 2874, historic
	TypeOPT        RecordType = 41
	TypeDS         RecordType = 43
	TypeRRSIG      RecordType = 46
	TypeNSEC       RecordType = 47
	TypeDNSKEY     RecordType = 48
	TypeNSEC3      RecordType = 50
	TypeCAA        RecordType = 257
	TypeSPF        RecordType = 99 // obsoleted by RFC 8206, still seen on the wire
	TypeTSIG       RecordType = 250
	nbstatPort            = 137
)

// RecordClass is a DNS resource record CLASS value.
type RecordClass uint16

const (
	ClassIN RecordClass = 1
)

// RCode is a DNS response code (RFC 1035 §4.1.1).
type RCode uint16

const (
	RCodeNoError  RCode = 0
	RCodeFormErr  RCode = 1
	RCodeServFail RCode = 2
	RCodeNXDomain RCode = 3
	RCodeNotImp   RCode = 4
	RCodeRefused  RCode = 5
)

// RCodeFromFlags extracts the response code from the low 4 bits of the
// header flags word.
func RCodeFromFlags(flags uint16) RCode {
	return RCode(flags & RCodeMask)
}
