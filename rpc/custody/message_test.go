package custody

import (
	"math/big"
	"testing"

	"github.com/nspcc-dev/custody-contract/contracts/custody/custodyconst"
	"github.com/stretchr/testify/require"
)

func TestNewDepositMessage(t *testing.T) {
	msg, err := NewDepositMessage(nil)
	require.NoError(t, err)
	require.JSONEq(t, `{"action":{"type":"deposit"}}`, msg)

	msg, err = NewDepositMessage(big.NewInt(100))
	require.NoError(t, err)
	require.JSONEq(t, `{"action":{"type":"deposit","amount":"100"}}`, msg)

	parsed, err := ParseActionMessage([]byte(msg))
	require.NoError(t, err)
	require.Equal(t, custodyconst.ActionDeposit, parsed.Action.Type)
	require.Zero(t, parsed.Action.AmountInt().Cmp(big.NewInt(100)))

	_, err = NewDepositMessage(big.NewInt(-1))
	require.Error(t, err)
}

func TestNewSettleMessage(t *testing.T) {
	msg, err := NewSettleMessage(nil)
	require.NoError(t, err)
	require.JSONEq(t, `{"action":{"type":"settle"}}`, msg)

	parsed, err := ParseActionMessage([]byte(msg))
	require.NoError(t, err)
	require.Equal(t, custodyconst.ActionSettle, parsed.Action.Type)
	require.Nil(t, parsed.Action.AmountInt())
}

func TestParseActionMessage(t *testing.T) {
	t.Run("large amount", func(t *testing.T) {
		parsed, err := ParseActionMessage([]byte(`{"action":{"type":"deposit","amount":"` + custodyconst.MaxAmount + `"}}`))
		require.NoError(t, err)
		require.Equal(t, custodyconst.MaxAmount, parsed.Action.AmountInt().String())
	})
	t.Run("unknown fields", func(t *testing.T) {
		_, err := ParseActionMessage([]byte(`{"action":{"type":"deposit","memo":"x"},"v":1}`))
		require.NoError(t, err)
	})

	for _, tc := range []struct {
		name string
		data string
	}{
		{"not a JSON", `deposit`},
		{"truncated", `{"action":`},
		{"number", `5`},
		{"array", `[1]`},
		{"empty object", `{}`},
		{"no type", `{"action":{"amount":"1"}}`},
		{"type is not a string", `{"action":{"type":5}}`},
		{"unknown type", `{"action":{"type":"withdraw"}}`},
		{"action is not an object", `{"action":"deposit"}`},
		{"action is a number", `{"action":5}`},
		{"numeric amount", `{"action":{"type":"deposit","amount":10}}`},
		{"negative amount", `{"action":{"type":"deposit","amount":"-10"}}`},
		{"signed amount", `{"action":{"type":"deposit","amount":"+10"}}`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseActionMessage([]byte(tc.data))
			require.ErrorIs(t, err, ErrWrongMessageFormat)
		})
	}
}
