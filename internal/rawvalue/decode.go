// Package rawvalue decodes registry value data, as stored by Windows, into
// typed payloads.
package rawvalue

import (
	"bytes"
	"encoding/binary"

	"golang.org/x/text/encoding/unicode"

	"github.com/joshuapare/regjson/pkg/types"
)

const (
	dwordSize = 4
	qwordSize = 8
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// Decode converts raw value data of type t into a payload.
//
// Integers are little-endian; REG_DWORD is read as a signed 32-bit number.
// REG_DWORD_BE is kept as bytes. Types without a data form (REG_LINK and
// the resource lists) decode to an absent payload. Short or ragged data
// never fails: integers are zero-padded and odd UTF-16 bytes are dropped.
func Decode(t types.RegType, data []byte) types.Payload {
	switch t {
	case types.REG_SZ, types.REG_EXPAND_SZ:
		return types.TextPayload(t, DecodeUTF16(data))
	case types.REG_DWORD:
		var buf [dwordSize]byte
		copy(buf[:], data)
		return types.IntPayload(t, int64(int32(binary.LittleEndian.Uint32(buf[:]))))
	case types.REG_QWORD:
		var buf [qwordSize]byte
		copy(buf[:], data)
		return types.IntPayload(t, int64(binary.LittleEndian.Uint64(buf[:])))
	case types.REG_MULTI_SZ:
		return types.StringsPayload(DecodeMultiString(data))
	case types.REG_NONE, types.REG_BINARY, types.REG_DWORD_BE:
		return types.BytesPayload(t, data)
	default:
		return types.Payload{Kind: types.KindAbsent, Type: t}
	}
}

// DecodeUTF16 decodes UTF-16LE text, dropping one trailing NUL terminator.
// Further NULs are part of the value. Unpaired surrogates become U+FFFD.
func DecodeUTF16(data []byte) string {
	if len(data)%2 != 0 {
		data = data[:len(data)-1]
	}
	if isNULAt(data, len(data)-2) {
		data = data[:len(data)-2]
	}
	return decodeUnits(data)
}

func decodeUnits(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	out, err := utf16le.NewDecoder().Bytes(data)
	if err != nil {
		return string(bytes.ToValidUTF8(data, []byte("\uFFFD")))
	}
	return string(out)
}

func isNULAt(data []byte, i int) bool {
	return i >= 0 && i+1 < len(data) && data[i] == 0 && data[i+1] == 0
}

// DecodeMultiString splits REG_MULTI_SZ data into its strings.
//
// Every NUL ends a string, so empty strings inside the list are kept. The
// NUL in the last position is the list terminator and adds nothing. Data
// without a final NUL ends with the text after the last one.
func DecodeMultiString(data []byte) []string {
	if len(data)%2 != 0 {
		data = data[:len(data)-1]
	}
	result := []string{}
	last := len(data) - 2
	start := 0
	for i := 0; i+1 < len(data); i += 2 {
		if !isNULAt(data, i) {
			continue
		}
		if i > start || i != last {
			result = append(result, decodeUnits(data[start:i]))
		}
		start = i + 2
	}
	if start < len(data) {
		result = append(result, decodeUnits(data[start:]))
	}
	return result
}

// EncodeUTF16 encodes s as NUL-terminated UTF-16LE.
func EncodeUTF16(s string) []byte {
	out, err := utf16le.NewEncoder().Bytes([]byte(s))
	if err != nil {
		out = nil
	}
	return append(out, 0, 0)
}

// EncodeMultiString encodes ss as REG_MULTI_SZ data.
func EncodeMultiString(ss []string) []byte {
	var buf []byte
	for _, s := range ss {
		buf = append(buf, EncodeUTF16(s)...)
	}
	return append(buf, 0, 0)
}
