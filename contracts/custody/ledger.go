package custody

import (
	"github.com/nspcc-dev/custody-contract/common"
	"github.com/nspcc-dev/custody-contract/contracts/custody/custodyconst"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

type (
	// Info is the ledger record of a single account.
	Info struct {
		// Principal token units credited to the account and not withdrawn yet.
		DepositAmount int
		// Part of DepositAmount declared eligible for withdrawal.
		PreinformedAmount int
		// Time of the last pre-inform or withdrawal, epoch start for
		// accounts that have only deposited.
		LastPreinformedTime int
	}

	// LedgerConfig is the immutable contract configuration set on deploy.
	LedgerConfig struct {
		PrincipalToken interop.Hash160
		TargetToken    interop.Hash160
		EpochDuration  int
		EpochStart     int
	}
)

const (
	infoPrefix = 'i'
	configKey  = 'c'
)

func infoKey(account interop.Hash160) []byte {
	return append([]byte{infoPrefix}, account...)
}

// getInfo returns the account record and false if the account has never
// deposited.
func getInfo(ctx storage.Context, account interop.Hash160) (Info, bool) {
	data := storage.Get(ctx, infoKey(account))
	if data == nil {
		return Info{}, false
	}

	return std.Deserialize(data.([]byte)).(Info), true
}

func mustGetInfo(ctx storage.Context, account interop.Hash160) Info {
	info, ok := getInfo(ctx, account)
	if !ok {
		panic(custodyconst.ErrAccountNotRegistered)
	}

	return info
}

func putInfo(ctx storage.Context, account interop.Hash160, info Info) {
	common.SetSerialized(ctx, infoKey(account), info)
}

func getConfig(ctx storage.Context) LedgerConfig {
	return common.GetSerialized(ctx, configKey).(LedgerConfig)
}

// deposit credits amount of asset to the account creating the record on the
// first deposit.
func deposit(ctx storage.Context, cfg LedgerConfig, account, asset interop.Hash160, amount int) Info {
	if !asset.Equals(cfg.PrincipalToken) {
		panic(custodyconst.ErrWrongAsset)
	}
	checkAmount(amount)

	info, ok := getInfo(ctx, account)
	if !ok {
		info = Info{
			DepositAmount:       amount,
			PreinformedAmount:   0,
			LastPreinformedTime: cfg.EpochStart,
		}
	} else {
		info.DepositAmount = checkedAdd(info.DepositAmount, amount)
	}

	putInfo(ctx, account, info)
	runtime.Notify(custodyconst.DepositEvent, account, amount, info.DepositAmount)

	return info
}

func maxAmount() int {
	return std.Atoi(custodyconst.MaxAmount, 10)
}

// checkAmount panics if amount is not an unsigned 128-bit integer.
func checkAmount(amount int) {
	if amount < 0 {
		panic(custodyconst.ErrArithmeticUnderflow)
	}
	if amount > maxAmount() {
		panic(custodyconst.ErrArithmeticOverflow)
	}
}

func checkedAdd(a, b int) int {
	sum := a + b
	if sum > maxAmount() {
		panic(custodyconst.ErrArithmeticOverflow)
	}

	return sum
}

func checkedSub(a, b int) int {
	if b > a {
		panic(custodyconst.ErrArithmeticUnderflow)
	}

	return a - b
}
