package custody

import (
	"github.com/nspcc-dev/custody-contract/contracts/custody/custodyconst"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
)

// Stack item type prefixes of std.Serialize output.
const (
	byteStringType = 0x28
	bufferType     = 0x30
	mapType        = 0x48
)

// Limits of the accepted action message. Anything beyond them is not a valid
// message, so it is rejected before std.JSONDeserialize sees it.
const (
	maxMessageDepth = 4
	maxNumberDigits = 15
)

// itemType returns stack item type of v.
func itemType(v any) int {
	return int(std.Serialize(v)[0])
}

// parseMessage checks that data is a JSON object and deserializes it. Every
// other input aborts with ErrWrongMessageFormat.
func parseMessage(data any) map[string]any {
	t := itemType(data)
	if t != byteStringType && t != bufferType {
		panic(custodyconst.ErrWrongMessageFormat)
	}

	raw := []byte(data.(string))
	if !isJSONObject(raw) {
		panic(custodyconst.ErrWrongMessageFormat)
	}

	return std.JSONDeserialize(raw).(map[string]any)
}

// objectField returns the object under key or aborts if there is none.
func objectField(m map[string]any, key string) map[string]any {
	v := field(m, key)
	if v == nil || itemType(v) != mapType {
		panic(custodyconst.ErrWrongMessageFormat)
	}

	return v.(map[string]any)
}

// stringField returns the string under key, empty string if the key is
// absent and aborts if the value is not a string.
func stringField(m map[string]any, key string) string {
	v := field(m, key)
	if v == nil {
		return ""
	}
	if itemType(v) != byteStringType {
		panic(custodyconst.ErrWrongMessageFormat)
	}

	return v.(string)
}

// isDecimal checks that s is a non-empty string of decimal digits.
func isDecimal(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}

	return true
}

// isJSONObject checks that b holds exactly one JSON object std.JSONDeserialize
// can decode. Floats, numbers longer than maxNumberDigits, escaped or
// repeated object keys and nesting deeper than maxMessageDepth are rejected
// too.
func isJSONObject(b []byte) bool {
	i := skipSpace(b, 0)
	if i >= len(b) || b[i] != '{' {
		return false
	}

	i = scanValue(b, i, 0)

	return i >= 0 && skipSpace(b, i) == len(b)
}

func skipSpace(b []byte, i int) int {
	for i < len(b) && (b[i] == ' ' || b[i] == '\t' || b[i] == '\n' || b[i] == '\r') {
		i++
	}

	return i
}

// scanValue returns the position right after the JSON value starting at i or
// -1 if there is no valid value.
func scanValue(b []byte, i, depth int) int {
	if depth > maxMessageDepth {
		return -1
	}

	i = skipSpace(b, i)
	if i >= len(b) {
		return -1
	}

	c := b[i]
	switch {
	case c == '{':
		return scanObject(b, i, depth)
	case c == '[':
		return scanArray(b, i, depth)
	case c == '"':
		return scanString(b, i, true)
	case c == '-' || isDigit(c):
		return scanNumber(b, i)
	case c == 't':
		return scanLiteral(b, i, "true")
	case c == 'f':
		return scanLiteral(b, i, "false")
	case c == 'n':
		return scanLiteral(b, i, "null")
	default:
		return -1
	}
}

func scanObject(b []byte, i, depth int) int {
	i = skipSpace(b, i+1)
	if i < len(b) && b[i] == '}' {
		return i + 1
	}

	keys := []string{}
	for {
		i = skipSpace(b, i)
		end := scanString(b, i, false)
		if end < 0 {
			return -1
		}

		key := string(b[i+1 : end-1])
		for _, k := range keys {
			if k == key {
				return -1
			}
		}
		keys = append(keys, key)

		i = skipSpace(b, end)
		if i >= len(b) || b[i] != ':' {
			return -1
		}

		i = scanValue(b, i+1, depth+1)
		if i < 0 {
			return -1
		}

		i = skipSpace(b, i)
		if i >= len(b) {
			return -1
		}
		if b[i] == '}' {
			return i + 1
		}
		if b[i] != ',' {
			return -1
		}
		i++
	}
}

func scanArray(b []byte, i, depth int) int {
	i = skipSpace(b, i+1)
	if i < len(b) && b[i] == ']' {
		return i + 1
	}

	for {
		i = scanValue(b, i, depth+1)
		if i < 0 {
			return -1
		}

		i = skipSpace(b, i)
		if i >= len(b) {
			return -1
		}
		if b[i] == ']' {
			return i + 1
		}
		if b[i] != ',' {
			return -1
		}
		i++
	}
}

func scanString(b []byte, i int, escapes bool) int {
	if i >= len(b) || b[i] != '"' {
		return -1
	}

	i++
	for ; i < len(b); i++ {
		c := b[i]
		if c == '"' {
			return i + 1
		}
		if c < 0x20 {
			return -1
		}
		if c != '\\' {
			continue
		}
		if !escapes || i+1 >= len(b) {
			return -1
		}

		i++
		switch b[i] {
		case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
		case 'u':
			if i+4 >= len(b) {
				return -1
			}
			for j := i + 1; j <= i+4; j++ {
				if !isHex(b[j]) {
					return -1
				}
			}
			i += 4
		default:
			return -1
		}
	}

	return -1
}

func scanNumber(b []byte, i int) int {
	if b[i] == '-' {
		i++
	}

	start := i
	if i >= len(b) || !isDigit(b[i]) {
		return -1
	}
	if b[i] == '0' {
		i++
	} else {
		for i < len(b) && isDigit(b[i]) {
			i++
		}
	}

	if i-start > maxNumberDigits {
		return -1
	}
	if i < len(b) && (b[i] == '.' || b[i] == 'e' || b[i] == 'E') {
		return -1
	}

	return i
}

func scanLiteral(b []byte, i int, lit string) int {
	end := i + len(lit)
	if end > len(b) || string(b[i:end]) != lit {
		return -1
	}

	return end
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHex(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
