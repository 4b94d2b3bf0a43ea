package deploy

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"go.uber.org/zap"
)

// ErrInvalidPrm is returned by Custody when deployment parameters are
// incorrect.
var ErrInvalidPrm = errors.New("invalid deployment parameters")

// Blockchain groups services provided by particular Neo blockchain network
// that are required for the Custody contract deployment.
type Blockchain interface {
	// RPCActor groups functions needed to compose and send transactions.
	actor.RPCActor

	// GetContractStateByHash returns network state of the smart contract by
	// its address. It returns error with 'Unknown contract' substring if
	// requested contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

// CommonDeployPrm groups common deployment parameters of the smart contract.
type CommonDeployPrm struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

// CustodyContractPrm groups deployment parameters of the Custody contract.
// They can't be changed after deployment.
type CustodyContractPrm struct {
	Common CommonDeployPrm

	// NEP-17 token accepted for deposits and withdrawn back.
	PrincipalToken util.Uint160
	// NEP-17 token the principal one is traded for.
	TargetToken util.Uint160

	// Epoch duration, whole milliseconds.
	EpochDuration time.Duration
	// Moment the first epoch starts at.
	EpochStart time.Time
}

// Prm groups all parameters of the Custody contract deployment procedure.
type Prm struct {
	// Writes progress into the log. Optional.
	Logger *zap.Logger

	// Particular Neo blockchain instance to deploy the contract to.
	Blockchain Blockchain

	// Local process account used for transaction signing (must be unlocked).
	// Contract address depends on it.
	LocalAccount *wallet.Account

	CustodyContract CustodyContractPrm

	// Maximum time to wait for the deployment transaction to be accepted.
	// Defaults to one minute.
	WaitTimeout time.Duration
}

const defaultWaitTimeout = time.Minute

// Custody deploys the Custody contract to the blockchain on behalf of the
// local account and returns its address.
//
// Contract address is determined by the local account, the NEF checksum and
// the contract name. If the contract is already on the chain, Custody
// returns its address without sending anything, so it is safe to repeat.
func Custody(ctx context.Context, prm Prm) (util.Uint160, error) {
	err := checkPrm(&prm)
	if err != nil {
		return util.Uint160{}, err
	}

	cPrm := prm.CustodyContract
	address := state.CreateContractHash(prm.LocalAccount.ScriptHash(), cPrm.Common.NEF.Checksum, cPrm.Common.Manifest.Name)
	l := prm.Logger.With(zap.Stringer("address", address))

	l.Info("checking Custody contract presence on the chain...")

	_, err = prm.Blockchain.GetContractStateByHash(address)
	if err == nil {
		l.Info("Custody contract is already deployed, skip")
		return address, nil
	}
	if !isErrContractNotFound(err) {
		return util.Uint160{}, fmt.Errorf("get Custody contract state: %w", err)
	}

	l.Info("Custody contract is missing on the chain, deploying...",
		zap.Stringer("principal token", cPrm.PrincipalToken),
		zap.Stringer("target token", cPrm.TargetToken),
		zap.Duration("epoch duration", cPrm.EpochDuration),
		zap.Time("epoch start", cPrm.EpochStart))

	act, err := actor.NewSimple(prm.Blockchain, prm.LocalAccount)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("init transaction sender from local account: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, prm.WaitTimeout)
	defer cancel()

	h, vub, err := management.New(act).Deploy(&cPrm.Common.NEF, &cPrm.Common.Manifest, deployData(cPrm))
	res, err := waitTx(ctx, act, h, vub, err)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("deploy Custody contract: %w", err)
	}

	if res.VMState != vmstate.Halt {
		return util.Uint160{}, fmt.Errorf("deploy Custody contract: transaction %s failed: %s", res.Container, res.FaultException)
	}

	l.Info("Custody contract successfully deployed", zap.Stringer("tx", res.Container))

	return address, nil
}

// deployData returns `_deploy` arguments of the Custody contract.
func deployData(prm CustodyContractPrm) []any {
	return []any{
		prm.PrincipalToken,
		prm.TargetToken,
		prm.EpochDuration.Milliseconds(),
		prm.EpochStart.UnixMilli(),
	}
}

func checkPrm(prm *Prm) error {
	switch {
	case prm.Blockchain == nil:
		return fmt.Errorf("%w: missing blockchain", ErrInvalidPrm)
	case prm.LocalAccount == nil:
		return fmt.Errorf("%w: missing local account", ErrInvalidPrm)
	case prm.LocalAccount.PrivateKey() == nil:
		return fmt.Errorf("%w: local account is locked", ErrInvalidPrm)
	}

	cPrm := prm.CustodyContract
	switch {
	case cPrm.Common.Manifest.Name == "":
		return fmt.Errorf("%w: missing contract manifest", ErrInvalidPrm)
	case cPrm.PrincipalToken.Equals(util.Uint160{}):
		return fmt.Errorf("%w: missing principal token", ErrInvalidPrm)
	case cPrm.TargetToken.Equals(util.Uint160{}):
		return fmt.Errorf("%w: missing target token", ErrInvalidPrm)
	case cPrm.EpochDuration < time.Millisecond:
		return fmt.Errorf("%w: epoch duration %s is less than a millisecond", ErrInvalidPrm, cPrm.EpochDuration)
	case cPrm.EpochDuration%time.Millisecond != 0:
		return fmt.Errorf("%w: epoch duration %s is not whole milliseconds", ErrInvalidPrm, cPrm.EpochDuration)
	case cPrm.EpochStart.Before(time.UnixMilli(0)):
		return fmt.Errorf("%w: epoch start %s precedes Unix epoch", ErrInvalidPrm, cPrm.EpochStart)
	}

	if prm.Logger == nil {
		prm.Logger = zap.NewNop()
	}
	if prm.WaitTimeout <= 0 {
		prm.WaitTimeout = defaultWaitTimeout
	}

	return nil
}

// waitTx waits for the transaction h sent with err to be accepted to the
// chain. Waiting stops when ctx is done.
func waitTx(ctx context.Context, w actor.Waiter, h util.Uint256, vub uint32, err error) (*state.AppExecResult, error) {
	if err != nil && !strings.Contains(strings.ToLower(err.Error()), "already exists") {
		return nil, err
	}

	return w.WaitAny(ctx, vub, h)
}

func isErrContractNotFound(err error) bool {
	return strings.Contains(err.Error(), "Unknown contract")
}
