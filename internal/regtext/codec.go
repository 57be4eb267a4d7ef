package regtext

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// decodeInput converts a .reg file to UTF-8.
//
// Detection order: UTF-16LE BOM (what regedit writes), UTF-8 BOM, UTF-16LE
// without BOM (NUL in every second byte), REGEDIT4 header or invalid UTF-8
// (read as Windows-1252), plain UTF-8.
func decodeInput(data []byte) ([]byte, error) {
	var dec *encoding.Decoder
	switch {
	case bytes.HasPrefix(data, UTF16LEBOM):
		dec = unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
	case bytes.HasPrefix(data, UTF8BOM):
		return data[len(UTF8BOM):], nil
	case len(data) >= 2 && data[0] != 0 && data[1] == 0:
		dec = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	case bytes.HasPrefix(data, []byte(RegFileHeaderV4)) || !utf8.Valid(data):
		dec = charmap.Windows1252.NewDecoder()
	default:
		return data, nil
	}
	out, err := dec.Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("regtext: decode input: %w", err)
	}
	return out, nil
}
