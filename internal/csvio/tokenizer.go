// Package csvio implements the quote-aware line and field splitting shared by
// every CSV-based export parser. The exports are RFC-4180-ish at best, so the
// tokenizer is deliberately forgiving: unquoted fields are trimmed, short rows
// are padded and long rows truncated to the header width.
package csvio

import (
	"fmt"
	"strings"
)

const bom = "\uFEFF"

// Content is the tokenized form of one file.
type Content struct {
	Header []string
	Rows   [][]string
	// Truncated reports that ingestion stopped at the row cap.
	Truncated bool
}

// ValidateSize rejects a file exceeding maxBytes before any tokenizing work.
func ValidateSize(content string, maxBytes int64) error {
	if maxBytes > 0 && int64(len(content)) > maxBytes {
		return fmt.Errorf("file size %d bytes exceeds the %d byte limit", len(content), maxBytes)
	}
	return nil
}

// TokenizeLine splits one CSV line into fields. Double-quote-delimited fields
// may contain commas; a doubled quote inside a quoted field is a literal
// quote. Unquoted fields are whitespace-trimmed.
func TokenizeLine(line string) []string {
	line = strings.TrimPrefix(line, bom)

	fields := make([]string, 0, 8)
	var field strings.Builder
	inQuotes := false
	quoted := false

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				field.WriteByte('"')
				i++
				continue
			}
			inQuotes = !inQuotes
			quoted = true
		case c == ',' && !inQuotes:
			fields = append(fields, finishField(field.String(), quoted))
			field.Reset()
			quoted = false
		default:
			field.WriteByte(c)
		}
	}
	fields = append(fields, finishField(field.String(), quoted))
	return fields
}

func finishField(s string, quoted bool) string {
	if quoted {
		return s
	}
	return strings.TrimSpace(s)
}

// Tokenize splits content into a header row and data rows. Blank lines are
// dropped; every data row is padded or truncated to the header's field count.
// maxRows stops ingestion early without erroring (Content.Truncated is set).
func Tokenize(content string, maxRows int) Content {
	content = strings.TrimPrefix(content, bom)

	lines := splitLines(content)
	if len(lines) == 0 {
		return Content{}
	}

	header := TokenizeLine(lines[0])
	out := Content{Header: header, Rows: make([][]string, 0, len(lines)-1)}

	for _, line := range lines[1:] {
		if maxRows > 0 && len(out.Rows) >= maxRows {
			out.Truncated = true
			break
		}
		row := TokenizeLine(line)
		out.Rows = append(out.Rows, fitToWidth(row, len(header)))
	}
	return out
}

// HeaderFields parses only the first line of content, discarding empty
// tokens. Used by the detector, which never needs the full file.
func HeaderFields(content string) []string {
	content = strings.TrimPrefix(content, bom)
	lines := splitLines(content)
	if len(lines) == 0 {
		return nil
	}
	fields := TokenizeLine(lines[0])
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			out = append(out, f)
		}
	}
	return out
}

func splitLines(content string) []string {
	raw := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, l)
	}
	return lines
}

// fitToWidth pads missing trailing fields with empty strings and drops extras.
func fitToWidth(row []string, width int) []string {
	if len(row) == width {
		return row
	}
	if len(row) > width {
		return row[:width]
	}
	padded := make([]string, width)
	copy(padded, row)
	return padded
}
