package usecase

import (
	"bytes"
	"encoding/json"
)

// EncodeResult serializes v with ", " and ": " separators, the format widget
// clients have always received.
func EncodeResult(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return spaceSeparators(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

func spaceSeparators(compact []byte) []byte {
	var out bytes.Buffer
	out.Grow(len(compact) + len(compact)/8)
	inString, escaped := false, false
	for _, c := range compact {
		out.WriteByte(c)
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case ',', ':':
			out.WriteByte(' ')
		}
	}
	return out.Bytes()
}
