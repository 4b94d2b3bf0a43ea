package custody

import (
	"github.com/nspcc-dev/custody-contract/contracts/custody/custodyconst"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
)

// requestTransfer moves amount of asset from the contract to the receiver.
func requestTransfer(asset, to interop.Hash160, amount int) {
	transfer(asset, to, amount, nil)
}

// requestTransferWithMessage moves amount of asset from the contract to the
// receiver passing message as NEP-17 transfer data.
func requestTransferWithMessage(asset, to interop.Hash160, amount int, message string) {
	transfer(asset, to, amount, message)
}

// transfer calls NEP-17 transfer of the asset contract. Calls are synchronous,
// so a failed transfer faults the transaction together with the ledger changes
// made before it.
func transfer(asset, to interop.Hash160, amount int, data any) {
	self := runtime.GetExecutingScriptHash()

	ok := contract.Call(asset, "transfer", contract.All, self, to, amount, data).(bool)
	if !ok {
		panic(custodyconst.ErrTransferFailed)
	}
}
