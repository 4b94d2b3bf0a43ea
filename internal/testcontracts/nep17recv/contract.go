package nep17recv

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

type Call struct {
	Asset  interop.Hash160
	From   interop.Hash160
	Amount int
	Data   any
}

func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	if amount <= 0 {
		panic("wrong amount")
	}
	storage.Put(storage.GetContext(), "key", std.Serialize(Call{
		Asset:  runtime.GetCallingScriptHash(),
		From:   from,
		Amount: amount,
		Data:   data,
	}))
}

func Get() Call {
	val := storage.Get(storage.GetReadOnlyContext(), "key")
	if val == nil {
		return Call{}
	}
	return std.Deserialize(val.([]byte)).(Call)
}
