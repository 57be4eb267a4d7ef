// Package regtext reads registry export files (.reg) into an in-memory
// registry that can be exported like a live one.
package regtext

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/joshuapare/regjson/internal/rawvalue"
	"github.com/joshuapare/regjson/internal/rootpath"
	"github.com/joshuapare/regjson/pkg/types"
)

// Parse reads a .reg file and applies its operations, in order, to an empty
// registry.
//
// Both the "Windows Registry Editor Version 5.00" and REGEDIT4 headers are
// accepted. Key sections ([path]) create the key and any missing parents;
// [-path] removes a subtree. Within a section, "name"=-  removes a value and
// a repeated name replaces the earlier value. Names compare
// case-insensitively. Sections whose path names no root, and names beyond
// the Windows limits, are skipped and reported in Document.Warnings.
func Parse(data []byte) (*Document, error) {
	return ParseWithLimits(data, types.DefaultLimits())
}

// ParseWithLimits is Parse with caller-chosen name and depth limits.
func ParseWithLimits(data []byte, limits types.Limits) (*Document, error) {
	text, err := decodeInput(data)
	if err != nil {
		return nil, types.ErrFormat.Wrap(err)
	}

	p := &parser{doc: newDocument(), limits: limits}
	scanner := bufio.NewScanner(bytes.NewReader(text))
	scanner.Buffer(make([]byte, 0, ScannerInitialBufferSize), ScannerMaxLineSize)

	var pending strings.Builder
	pendingLine := 0
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(strings.TrimSuffix(scanner.Text(), CR))

		if pending.Len() > 0 {
			pending.WriteString(line)
			if strings.HasSuffix(line, Backslash) {
				continue
			}
			if err := p.handleLine(pending.String(), pendingLine); err != nil {
				return nil, err
			}
			pending.Reset()
			continue
		}

		if isContinued(line) {
			pending.WriteString(line)
			pendingLine = lineNum
			continue
		}
		if err := p.handleLine(line, lineNum); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, types.ErrFormat.Wrap(fmt.Errorf("line %d: %w", lineNum+1, err))
	}
	if pending.Len() > 0 {
		if err := p.handleLine(pending.String(), pendingLine); err != nil {
			return nil, err
		}
	}
	if !p.sawHeader {
		return nil, types.ErrFormat.Wrap(errors.New("missing registry editor header"))
	}
	return p.doc, nil
}

// isContinued reports whether a value line carries on to the next line.
// Only hex payloads wrap; key lines end with ']' and strings with '"'.
func isContinued(line string) bool {
	if line == "" || strings.HasPrefix(line, CommentPrefix) || strings.HasPrefix(line, KeyOpenBracket) {
		return false
	}
	return strings.HasSuffix(line, Backslash)
}

type parser struct {
	doc       *Document
	limits    types.Limits
	current   *keyNode
	sawHeader bool
	lineNum   int
}

func (p *parser) warn(format string, args ...any) {
	p.doc.Warnings = append(p.doc.Warnings, fmt.Sprintf("line %d: ", p.lineNum)+fmt.Sprintf(format, args...))
}

func (p *parser) handleLine(line string, lineNum int) error {
	if line == "" || strings.HasPrefix(line, CommentPrefix) {
		return nil
	}
	p.lineNum = lineNum
	if !p.sawHeader {
		if line != RegFileHeader && line != RegFileHeaderV4 {
			return types.ErrFormat.Wrap(fmt.Errorf("line %d: expected registry editor header, got %q", lineNum, line))
		}
		p.sawHeader = true
		return nil
	}

	if strings.HasPrefix(line, KeyOpenBracket) {
		return p.handleKey(line, lineNum)
	}
	if err := p.handleValue(line); err != nil {
		return types.ErrFormat.Wrap(fmt.Errorf("line %d: %w", lineNum, err))
	}
	return nil
}

func (p *parser) handleKey(line string, lineNum int) error {
	if !strings.HasSuffix(line, KeyCloseBracket) {
		return types.ErrFormat.Wrap(fmt.Errorf("line %d: unterminated key %q", lineNum, line))
	}
	inner := line[len(KeyOpenBracket) : len(line)-len(KeyCloseBracket)]
	remove := strings.HasPrefix(inner, DeleteKeyPrefix)
	if remove {
		inner = inner[len(DeleteKeyPrefix):]
	}

	path, err := rootpath.Parse(inner)
	if err != nil {
		p.warn("skipping key %q: no registry root", inner)
		p.current = nil
		return nil
	}
	if reason := p.checkKeyPath(path); reason != "" {
		p.warn("skipping key %q: %s", inner, reason)
		p.current = nil
		return nil
	}

	if remove {
		p.doc.deleteKey(path)
		p.current = nil
		return nil
	}
	p.current = p.doc.ensureKey(path)
	return nil
}

func (p *parser) handleValue(line string) error {
	var name, payload string
	switch {
	case strings.HasPrefix(line, DefaultValuePrefix):
		payload = line[len(DefaultValuePrefix):]
	case strings.HasPrefix(line, Quote):
		end := findClosingQuote(line)
		if end < 0 {
			return fmt.Errorf("unterminated value name in %q", line)
		}
		rest := strings.TrimSpace(line[end+1:])
		if !strings.HasPrefix(rest, ValueAssignment) {
			return fmt.Errorf("missing '=' after value name in %q", line)
		}
		name = unescapeRegString(line[1:end])
		payload = rest[len(ValueAssignment):]
	default:
		return fmt.Errorf("unrecognised line %q", line)
	}
	payload = strings.TrimSpace(payload)

	// values outside any kept section are dropped with their section
	if p.current == nil {
		return nil
	}

	if limit := p.limits.MaxValueNameLen; limit > 0 && utf8.RuneCountInString(name) > limit {
		p.warn("skipping value: name longer than %d characters", limit)
		return nil
	}

	if payload == DeleteValueToken {
		p.current.deleteValue(name)
		return nil
	}
	value, err := parsePayload(payload)
	if err != nil {
		return fmt.Errorf("value %q: %w", name, err)
	}
	p.current.setValue(name, value)
	return nil
}

func (p *parser) checkKeyPath(path rootpath.Path) string {
	parts := splitPath(path.Subpath)
	if limit := p.limits.MaxTreeDepth; limit > 0 && len(parts) > limit {
		return fmt.Sprintf("deeper than %d levels", limit)
	}
	if limit := p.limits.MaxKeyNameLen; limit > 0 {
		for _, part := range parts {
			if utf8.RuneCountInString(part) > limit {
				return fmt.Sprintf("key name longer than %d characters", limit)
			}
		}
	}
	return ""
}

func parsePayload(payload string) (types.Payload, error) {
	lower := strings.ToLower(payload)
	switch {
	case strings.HasPrefix(payload, Quote):
		end := findClosingQuote(payload)
		if end < 0 {
			return types.Payload{}, fmt.Errorf("unterminated string %s", payload)
		}
		return types.TextPayload(types.REG_SZ, unescapeRegString(payload[1:end])), nil
	case strings.HasPrefix(lower, DWORDPrefix):
		digits := payload[len(DWORDPrefix):]
		if digits == "" || len(digits) > DWORDHexLength {
			return types.Payload{}, fmt.Errorf("invalid dword %q", digits)
		}
		n, err := strconv.ParseUint(digits, 16, 32)
		if err != nil {
			return types.Payload{}, fmt.Errorf("invalid dword %q: %w", digits, err)
		}
		return types.IntPayload(types.REG_DWORD, int64(int32(uint32(n)))), nil
	case strings.HasPrefix(lower, HexPrefix), strings.HasPrefix(lower, HexTypedPrefix):
		t, list, err := splitHexPayload(payload)
		if err != nil {
			return types.Payload{}, err
		}
		data, err := parseHexBytes(list)
		if err != nil {
			return types.Payload{}, err
		}
		return rawvalue.Decode(t, data), nil
	default:
		return types.Payload{}, fmt.Errorf("unknown data format %q", payload)
	}
}
