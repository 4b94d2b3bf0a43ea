package custody

import (
	"github.com/nspcc-dev/custody-contract/common"
	"github.com/nspcc-dev/custody-contract/contracts/custody/custodyconst"
	"github.com/nspcc-dev/custody-contract/contracts/custody/epoch"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// nolint:unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.([]any)
	if len(args) != 4 {
		panic(custodyconst.ErrInvalidConfig + ": expected 4 arguments")
	}

	cfg := LedgerConfig{
		PrincipalToken: args[0].(interop.Hash160),
		TargetToken:    args[1].(interop.Hash160),
		EpochDuration:  args[2].(int),
		EpochStart:     args[3].(int),
	}

	if len(cfg.PrincipalToken) != interop.Hash160Len || len(cfg.TargetToken) != interop.Hash160Len {
		panic(custodyconst.ErrInvalidConfig + ": incorrect token hash")
	}
	if cfg.EpochDuration <= 0 {
		panic(custodyconst.ErrInvalidConfig + ": " + epoch.ErrNonPositiveDuration)
	}
	if cfg.EpochStart < 0 {
		panic(custodyconst.ErrInvalidConfig + ": negative epoch start")
	}

	common.SetSerialized(ctx, configKey, cfg)

	runtime.Log("custody contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	if !runtime.CheckWitness(common.CommitteeAddress()) {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("custody contract updated")
}

// PreInform declares amount of the user's deposit eligible for withdrawal.
// It can be invoked only by the user and only while the epoch gate is open:
// the next epoch boundary must be at least three days away.
//
// A single call and all calls together are bounded by the deposit, the
// pre-informed amount never exceeds the deposited one.
//
// It produces PreInform notification.
func PreInform(user interop.Hash160, amount int) {
	ctx := storage.GetContext()

	common.CheckWitness(user)
	checkAmount(amount)

	info := mustGetInfo(ctx, user)
	now := runtime.GetTime()
	if !isPreinformable(getConfig(ctx), now) {
		panic(custodyconst.ErrEpochNotOpen)
	}

	if amount > info.DepositAmount-info.PreinformedAmount {
		panic(custodyconst.ErrAmountExceedsDeposit)
	}

	info.PreinformedAmount = checkedAdd(info.PreinformedAmount, amount)
	info.LastPreinformedTime = now
	putInfo(ctx, user, info)

	runtime.Notify(custodyconst.PreInformEvent, user, amount, info.PreinformedAmount)
}

// Withdraw transfers amount of asset back to the user against the
// pre-informed part of the deposit. Asset is either the principal token or
// the target token the deposits were traded for. It can be invoked only by
// the user. Both deposited and pre-informed amounts are decreased before the
// transfer, a failed transfer faults the whole transaction.
//
// It produces Withdraw notification.
func Withdraw(user, asset interop.Hash160, amount int) {
	ctx := storage.GetContext()

	common.CheckWitness(user)
	checkAmount(amount)

	cfg := getConfig(ctx)
	if !asset.Equals(cfg.PrincipalToken) && !asset.Equals(cfg.TargetToken) {
		panic(custodyconst.ErrWrongAsset)
	}

	info := mustGetInfo(ctx, user)
	if amount > info.PreinformedAmount {
		panic(custodyconst.ErrInsufficientPreinformedAmount)
	}

	info.DepositAmount = checkedSub(info.DepositAmount, amount)
	info.PreinformedAmount = checkedSub(info.PreinformedAmount, amount)
	info.LastPreinformedTime = runtime.GetTime()
	putInfo(ctx, user, info)

	requestTransfer(asset, user, amount)

	runtime.Notify(custodyconst.WithdrawEvent, user, asset, amount)
}

// Trade relays amount of asset held by the contract to the receiver with the
// message attached as transfer data. Ledger records are not changed. It can
// be invoked only by committee.
//
// It produces Trade notification.
func Trade(receiver, asset interop.Hash160, amount int, message string) {
	common.CheckOperatorWitness()
	checkAmount(amount)

	requestTransferWithMessage(asset, receiver, amount, message)

	runtime.Notify(custodyconst.TradeEvent, receiver, asset, amount, message)
}

// InfoOf returns the ledger record of the account. It fails if the account
// has never deposited.
func InfoOf(account interop.Hash160) Info {
	ctx := storage.GetReadOnlyContext()
	return mustGetInfo(ctx, account)
}

// IsRegistered checks whether the account has a ledger record.
func IsRegistered(account interop.Hash160) bool {
	ctx := storage.GetReadOnlyContext()
	_, ok := getInfo(ctx, account)
	return ok
}

// Config returns the configuration set on deploy.
func Config() LedgerConfig {
	ctx := storage.GetReadOnlyContext()
	return getConfig(ctx)
}

// IsPreinformable checks whether pre-informing is open at the current block
// time.
func IsPreinformable() bool {
	ctx := storage.GetReadOnlyContext()
	return isPreinformable(getConfig(ctx), runtime.GetTime())
}

// NextEpochBoundary returns the time of the next epoch boundary in
// milliseconds. Before the schedule starts it returns the epoch start.
func NextEpochBoundary() int {
	ctx := storage.GetReadOnlyContext()
	cfg := getConfig(ctx)

	now := runtime.GetTime()
	if now < cfg.EpochStart {
		return cfg.EpochStart
	}

	return epoch.NextBoundary(now, cfg.EpochStart, cfg.EpochDuration)
}

// Accounts returns an iterator over the script hashes of all registered
// accounts.
func Accounts() iterator.Iterator {
	ctx := storage.GetReadOnlyContext()
	return storage.Find(ctx, []byte{infoPrefix}, storage.KeysOnly|storage.RemovePrefix)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func isPreinformable(cfg LedgerConfig, now int) bool {
	if now < cfg.EpochStart {
		return false
	}

	return epoch.IsPreinformable(now, cfg.EpochStart, cfg.EpochDuration, epoch.QuietPeriod)
}
