package export

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"

	"github.com/joshuapare/regjson/pkg/types"
)

// Normalize converts a raw payload into the form written to the output
// document: string, int64 or []string. It never fails.
//
// Absent payloads become "" (the distinction from an empty string is
// lost). Raw bytes are decoded as UTF-8 with U+FFFD for invalid sequences.
func Normalize(p types.Payload) any {
	switch p.Kind {
	case types.KindAbsent:
		return ""
	case types.KindText:
		return p.Text
	case types.KindInteger:
		return p.Int
	case types.KindTextSequence:
		if p.Strings == nil {
			return []string{}
		}
		return p.Strings
	case types.KindBytes:
		return decodeUTF8(p.Bytes)
	default:
		return ""
	}
}

func decodeUTF8(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	out, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), string(utf8.RuneError))
	}
	return string(out)
}
