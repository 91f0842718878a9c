package dnsproto

import "strings"

// maxNameLength bounds the decoded (dotted, lowercased) name length. The
// wire analyzer this is grounded on uses a 513-byte fixed scratch buffer;
// we keep the same effective content bound (512 bytes of label text) and
// let anything past it truncate rather than grow unbounded.
const maxNameLength = 512

// compressionPtrMask identifies the top two bits of a label-length byte
// that mark it as a compression pointer rather than a length (RFC 1035
// §4.1.4).
const compressionPtrMask = 0xC0

// maxLabelLength is the ordinary per-label cap. Port-137 NetBIOS traffic is
// exempt from this cap per the port-137 exception below.
const maxLabelLength = 63

// DecodeContext carries the per-message information the label decoder
// needs beyond the raw bytes: whether the connection's responder is using
// port 137, which relaxes the 63-byte label cap for NetBIOS name encoding.
type DecodeContext struct {
	ResponderPort uint16
}

func (ctx DecodeContext) isNetBIOS() bool {
	return ctx.ResponderPort == nbstatPort
}

// DecodeName decodes a (possibly compressed) domain name starting at
// startOff in msg. It returns the dotted, lowercased name (trailing dot
// stripped, "." for the root) and the offset immediately following the
// name's uncompressed representation in the message — i.e. following the
// terminating zero byte or the two bytes of the first compression pointer
// encountered, whichever ends the name as it appears at startOff.
//
// Loop safety: a compression pointer is only followed if its target offset
// is strictly less than the offset of the pointer byte itself. This is the
// only cycle-prevention rule applied — there is deliberately no
// visited-offset set. Because every followed pointer must point strictly
// backward, the chain of offsets visited while decoding a single name is
// strictly decreasing and therefore finite; a pointer that fails this
// check is rejected as DNS_label_forward_compress_offset and decoding
// stops with whatever labels were already collected.
func DecodeName(msg []byte, startOff int, ctx DecodeContext) (name string, nextOff int, weirdName string) {
	var b strings.Builder
	pos := startOff
	firstPtrEnd := -1 // offset right after the first pointer's 2 bytes, if any
	steps := 0

	for {
		steps++
		if steps > len(msg)+16 {
			// Should be unreachable given the strictly-decreasing-offset
			// rule below, but bounds worst-case iteration defensively.
			weirdName = "DNS_label_len_gt_pkt"
			break
		}
		if pos < 0 || pos >= len(msg) {
			weirdName = "DNS_label_len_gt_pkt"
			break
		}

		lenByte := msg[pos]

		if lenByte&compressionPtrMask == compressionPtrMask {
			if pos+1 >= len(msg) {
				weirdName = "DNS_label_len_gt_pkt"
				break
			}
			ptrOffset := int(lenByte&^compressionPtrMask)<<8 | int(msg[pos+1])
			if firstPtrEnd == -1 {
				firstPtrEnd = pos + 2
			}
			if ptrOffset >= pos {
				weirdName = "DNS_label_forward_compress_offset"
				break
			}
			pos = ptrOffset
			continue
		}

		labelLen := int(lenByte)
		if labelLen == 0 {
			pos++
			break // terminating root label
		}

		labelCap := maxLabelLength
		if ctx.isNetBIOS() {
			labelCap = 255
		}
		if labelLen > labelCap {
			weirdName = "DNS_label_too_long"
			labelLen = min(labelLen, len(msg)-pos-1)
		}

		pos++
		if pos+labelLen > len(msg) {
			weirdName = "DNS_label_len_gt_pkt"
			labelLen = len(msg) - pos
			if labelLen < 0 {
				labelLen = 0
			}
		}

		if b.Len() > 0 {
			b.WriteByte('.')
		}
		if b.Len()+labelLen <= maxNameLength {
			for i := 0; i < labelLen; i++ {
				b.WriteByte(lowerASCII(msg[pos+i]))
			}
		} else if weirdName == "" {
			weirdName = "DNS_label_len_gt_name_len"
		}
		pos += labelLen

		if weirdName != "" {
			break
		}
	}

	if firstPtrEnd != -1 {
		nextOff = firstPtrEnd
	} else {
		nextOff = pos
	}

	// Advisory only: a name this long is unusual but the bytes already
	// collected are still returned, truncated at maxNameLength above.
	if b.Len() >= 255 && weirdName == "" {
		weirdName = "DNS_NAME_too_long"
	}

	name = b.String()
	if name == "" {
		name = "."
	}
	return name, nextOff, weirdName
}

func lowerASCII(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
