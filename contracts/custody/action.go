package custody

import (
	"github.com/nspcc-dev/custody-contract/contracts/custody/custodyconst"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// OnNEP17Payment is a callback for NEP-17 compatible native GAS and NEO
// contracts and any other NEP-17 token. The calling contract is the
// transferred asset, data must be a JSON action message:
//
//	{"action":{"type":"deposit"}}
//	{"action":{"type":"settle"}}
//
// Minting transfers and transfers without a known action are rejected, so
// the token contract never credits this contract with an unaccounted amount.
// The whole transferred amount is accepted on success.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	if from == nil || data == nil {
		panic(custodyconst.ErrWrongMessageFormat)
	}

	ctx := storage.GetContext()
	asset := runtime.GetCallingScriptHash()

	dispatch(ctx, parseAction(data), from, asset, amount)
}

// parseAction extracts the action type from the message.
func parseAction(data any) string {
	action := objectField(parseMessage(data), custodyconst.MessageActionKey)

	typ := stringField(action, custodyconst.MessageTypeKey)
	if typ == "" {
		panic(custodyconst.ErrWrongMessageFormat)
	}

	amount := field(action, custodyconst.MessageAmountKey)
	if amount != nil && !isDecimal(stringField(action, custodyconst.MessageAmountKey)) {
		panic(custodyconst.ErrWrongMessageFormat)
	}

	return typ
}

// dispatch applies the action to the transferred tokens.
func dispatch(ctx storage.Context, action string, from, asset interop.Hash160, amount int) {
	cfg := getConfig(ctx)

	switch action {
	case custodyconst.ActionDeposit:
		deposit(ctx, cfg, from, asset, amount)
	case custodyconst.ActionSettle:
		if !asset.Equals(cfg.TargetToken) {
			panic(custodyconst.ErrWrongAsset)
		}
		checkAmount(amount)
	default:
		panic(custodyconst.ErrWrongMessageFormat)
	}
}

// field returns the value under key or nil if the key is absent.
func field(m map[string]any, key string) any {
	for k, v := range m {
		if k == key {
			return v
		}
	}

	return nil
}
