package custody

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsJSONObject(t *testing.T) {
	valid := []string{
		`{}`,
		` { } `,
		`{"action":{"type":"deposit"}}`,
		`{"action":{"type":"deposit","amount":"100"}}`,
		"{\r\n\t\"a\" : [ 1 , -2 , 0 , true , false , null ] }",
		`{"a":"\"\\\/\b\f\n\r\té"}`,
		`{"a":[],"b":{},"c":""}`,
		`{"a":123456789012345}`,
		`{"a":{"b":{"c":[1]}}}`,
	}
	for _, s := range valid {
		require.True(t, isJSONObject([]byte(s)), s)
	}

	invalid := []string{
		``,
		` `,
		`5`,
		`"a"`,
		`[1]`,
		`null`,
		`{`,
		`{"a"}`,
		`{"a":}`,
		`{"a":1,}`,
		`{"a":1 "b":2}`,
		`{a:1}`,
		`{"a":1}}`,
		`{"a":1} {}`,
		`{"a":01}`,
		`{"a":-}`,
		`{"a":1.5}`,
		`{"a":1e3}`,
		`{"a":1234567890123456}`,
		`{"a":tru}`,
		`{"a":nul}`,
		`{"a":"\x"}`,
		`{"a":"\u12"}`,
		"{\"a\":\"\x01\"}",
		`{"a":"b}`,
		`{"\u0061":1}`,
		`{"a":1,"a":2}`,
		`{"a":[1,]}`,
		`{"a":[[[[[1]]]]]}`,
	}
	for _, s := range invalid {
		require.False(t, isJSONObject([]byte(s)), s)
	}

	t.Run("long input", func(t *testing.T) {
		s := `{"a":"` + strings.Repeat("x", 1<<16) + `"}`
		require.True(t, isJSONObject([]byte(s)))
		require.False(t, isJSONObject([]byte(s[:len(s)-1])))
	})
}

func TestIsDecimal(t *testing.T) {
	for _, s := range []string{"0", "10", "340282366920938463463374607431768211455"} {
		require.True(t, isDecimal(s), s)
	}
	for _, s := range []string{"", "-1", "+1", "1.0", " 1", "1e3", "0x10"} {
		require.False(t, isDecimal(s), s)
	}
}
