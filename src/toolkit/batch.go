package toolkit

import (
	"fmt"
	"strings"
	"unicode"
)

// Batch is an ordered set of named string columns handed from block to block.
type Batch struct {
	keys []string
	cols map[string][]string
}

// NewBatch returns an empty batch.
func NewBatch() *Batch {
	return &Batch{cols: make(map[string][]string)}
}

// Set stores values under key. A new key is appended after the existing ones.
func (b *Batch) Set(key string, values ...string) {
	if b.cols == nil {
		b.cols = make(map[string][]string)
	}
	if _, ok := b.cols[key]; !ok {
		b.keys = append(b.keys, key)
	}
	b.cols[key] = append([]string(nil), values...)
}

func (b *Batch) Get(key string) ([]string, bool) {
	if b == nil {
		return nil, false
	}
	v, ok := b.cols[key]
	return v, ok
}

// Keys returns the column names in insertion order.
func (b *Batch) Keys() []string {
	if b == nil {
		return nil
	}
	return append([]string(nil), b.keys...)
}

func (b *Batch) Len() int {
	if b == nil {
		return 0
	}
	return len(b.keys)
}

// String renders the batch as a dict literal, e.g. {'text': ['a', 'b']}.
func (b *Batch) String() string {
	if b == nil {
		return "<nil>"
	}
	var sb strings.Builder
	sb.WriteByte('{')
	for i, key := range b.keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeQuoted(&sb, key)
		sb.WriteString(": [")
		for j, v := range b.cols[key] {
			if j > 0 {
				sb.WriteString(", ")
			}
			writeQuoted(&sb, v)
		}
		sb.WriteByte(']')
	}
	sb.WriteByte('}')
	return sb.String()
}

// writeQuoted writes s as a quoted literal: single quotes unless s holds a
// single quote and no double quote, non-printable runes as hex escapes.
func writeQuoted(sb *strings.Builder, s string) {
	quote := '\''
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}

	sb.WriteRune(quote)
	for _, r := range s {
		switch {
		case r == quote || r == '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r == '\t':
			sb.WriteString(`\t`)
		case r == ' ' || unicode.IsPrint(r):
			sb.WriteRune(r)
		case r < 0x100:
			fmt.Fprintf(sb, `\x%02x`, r)
		case r < 0x10000:
			fmt.Fprintf(sb, `\u%04x`, r)
		default:
			fmt.Fprintf(sb, `\U%08x`, r)
		}
	}
	sb.WriteRune(quote)
}
