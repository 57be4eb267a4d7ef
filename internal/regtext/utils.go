package regtext

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/joshuapare/regjson/pkg/types"
)

// unescapeRegString unescapes a string from .reg format.
// .reg files escape backslashes as \\ and quotes as \"
func unescapeRegString(s string) string {
	if strings.IndexByte(s, '\\') == -1 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && (s[i+1] == '\\' || s[i+1] == '"') {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// findClosingQuote finds the position of the closing quote in a line,
// accounting for escaped quotes (preceded by an odd number of backslashes).
// Returns -1 if no valid closing quote is found.
// The search starts at position 1 (assuming the opening quote is at position 0).
func findClosingQuote(line string) int {
	for i := 1; i < len(line); i++ {
		if line[i] != '"' {
			continue
		}
		numBackslashes := 0
		for j := i - 1; j >= 1 && line[j] == '\\'; j-- {
			numBackslashes++
		}
		if numBackslashes%2 == 1 {
			continue
		}
		return i
	}
	return -1
}

// parseHexBytes parses comma-separated hex bytes (the part after "hex:" or
// "hex(N):"). Whitespace and continuation backslashes are ignored and
// single-digit bytes are padded.
func parseHexBytes(hexStr string) ([]byte, error) {
	parts := strings.Split(hexStr, ",")
	buf := make([]byte, 0, len(parts))
	for _, p := range parts {
		p = strings.Map(func(r rune) rune {
			switch r {
			case ' ', '\t', '\r', '\n', '\\':
				return -1
			}
			return r
		}, p)
		if p == "" {
			continue
		}
		if len(p) > 2 {
			return nil, fmt.Errorf("invalid hex byte %q", p)
		}
		n, err := strconv.ParseUint(p, 16, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid hex byte %q: %w", p, err)
		}
		buf = append(buf, byte(n))
	}
	return buf, nil
}

// splitHexPayload splits "hex:..." or "hex(N):..." into the declared type
// and the byte list. Plain "hex:" is REG_BINARY.
func splitHexPayload(payload string) (types.RegType, string, error) {
	lower := strings.ToLower(payload)
	if strings.HasPrefix(lower, HexPrefix) {
		return types.REG_BINARY, payload[len(HexPrefix):], nil
	}
	if !strings.HasPrefix(lower, HexTypedPrefix) {
		return 0, "", errors.New("not a hex value")
	}
	closeParen := strings.Index(payload, ")")
	if closeParen < 0 || closeParen+1 >= len(payload) || payload[closeParen+1] != ':' {
		return 0, "", fmt.Errorf("malformed hex type in %q", payload)
	}
	n, err := strconv.ParseUint(payload[len(HexTypedPrefix):closeParen], 16, 32)
	if err != nil {
		return 0, "", fmt.Errorf("malformed hex type in %q: %w", payload, err)
	}
	return types.RegType(n), payload[closeParen+2:], nil
}
