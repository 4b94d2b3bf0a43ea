package nep17token

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const (
	supplyKey  = "s"
	failingKey = "f"
	accPrefix  = 'a'
)

func Symbol() string {
	return "TEST"
}

func Decimals() int {
	return 8
}

func TotalSupply() int {
	return storage.Get(storage.GetReadOnlyContext(), supplyKey).(int)
}

func BalanceOf(account interop.Hash160) int {
	return balanceOf(storage.GetReadOnlyContext(), account)
}

// Transfer returns false without moving anything when failing mode is on.
func Transfer(from, to interop.Hash160, amount int, data any) bool {
	ctx := storage.GetContext()
	if storage.Get(ctx, failingKey) != nil {
		return false
	}
	if len(from) != interop.Hash160Len || len(to) != interop.Hash160Len || amount < 0 {
		panic("invalid arguments")
	}
	if !runtime.CheckWitness(from) {
		return false
	}

	fromBalance := balanceOf(ctx, from)
	if fromBalance < amount {
		return false
	}
	storage.Put(ctx, accKey(from), fromBalance-amount)
	storage.Put(ctx, accKey(to), balanceOf(ctx, to)+amount)

	postTransfer(from, to, amount, data)
	return true
}

// Mint creates amount of tokens on the account. Anyone can mint.
func Mint(to interop.Hash160, amount int, data any) {
	ctx := storage.GetContext()

	storage.Put(ctx, accKey(to), balanceOf(ctx, to)+amount)
	storage.Put(ctx, supplyKey, storage.Get(ctx, supplyKey).(int)+amount)

	postTransfer(nil, to, amount, data)
}

// SetFailing switches failing mode in which every transfer returns false.
func SetFailing(failing bool) {
	ctx := storage.GetContext()
	if failing {
		storage.Put(ctx, failingKey, true)
	} else {
		storage.Delete(ctx, failingKey)
	}
}

// nolint:unused
func _deploy(_ any, isUpdate bool) {
	if !isUpdate {
		storage.Put(storage.GetContext(), supplyKey, 0)
	}
}

func accKey(account interop.Hash160) []byte {
	return append([]byte{accPrefix}, account...)
}

func balanceOf(ctx storage.Context, account interop.Hash160) int {
	val := storage.Get(ctx, accKey(account))
	if val == nil {
		return 0
	}
	return val.(int)
}

func postTransfer(from, to interop.Hash160, amount int, data any) {
	runtime.Notify("Transfer", from, to, amount)
	if management.GetContract(to) != nil {
		contract.Call(to, "onNEP17Payment", contract.All, from, amount, data)
	}
}
