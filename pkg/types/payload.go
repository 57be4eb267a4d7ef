package types

// PayloadKind tags which field of a Payload carries the data.
type PayloadKind uint8

const (
	KindAbsent       PayloadKind = iota // value vanished, or a type with no data form (REG_LINK, resource lists)
	KindText                            // REG_SZ, REG_EXPAND_SZ
	KindInteger                         // REG_DWORD, REG_QWORD
	KindTextSequence                    // REG_MULTI_SZ
	KindBytes                           // REG_BINARY, REG_NONE, REG_DWORD_BE
)

func (k PayloadKind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindText:
		return "text"
	case KindInteger:
		return "integer"
	case KindTextSequence:
		return "text-sequence"
	case KindBytes:
		return "bytes"
	default:
		return "unknown"
	}
}

// Payload is the raw content of one registry value.
//
// Exactly one data field is meaningful, selected by Kind. Type keeps the
// declared registry type for diagnostics; it does not affect decoding.
type Payload struct {
	Kind    PayloadKind
	Type    RegType
	Text    string
	Int     int64
	Strings []string
	Bytes   []byte
}

// Absent returns a payload with no data.
func Absent() Payload { return Payload{Kind: KindAbsent} }

// TextPayload wraps a string value.
func TextPayload(t RegType, s string) Payload {
	return Payload{Kind: KindText, Type: t, Text: s}
}

// IntPayload wraps an integer value.
func IntPayload(t RegType, n int64) Payload {
	return Payload{Kind: KindInteger, Type: t, Int: n}
}

// StringsPayload wraps a multi-string value.
func StringsPayload(ss []string) Payload {
	return Payload{Kind: KindTextSequence, Type: REG_MULTI_SZ, Strings: ss}
}

// BytesPayload wraps raw bytes.
func BytesPayload(t RegType, b []byte) Payload {
	return Payload{Kind: KindBytes, Type: t, Bytes: b}
}
