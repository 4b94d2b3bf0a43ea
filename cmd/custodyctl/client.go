package main

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/custody-contract/rpc/custody"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/encoding/fixedn"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/nep17"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
)

var errMissingContract = errors.New("missing Custody contract address, set 'contract' in config or --contract flag")

// dialRPC opens RPC connection to the configured endpoint.
func dialRPC(ctx context.Context, cfg RPCConfig) (*rpcclient.Client, error) {
	c, err := rpcclient.New(ctx, cfg.Endpoint, rpcclient.Options{
		DialTimeout:    cfg.Timeout,
		RequestTimeout: cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("RPC client dial: %w", err)
	}

	err = c.Init()
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("RPC client init: %w", err)
	}

	return c, nil
}

// openAccount reads the wallet and decrypts the configured account, the
// default one is used if the address is not set.
func openAccount(cfg WalletConfig) (*wallet.Account, error) {
	w, err := wallet.NewWalletFromFile(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open wallet: %w", err)
	}

	var acc *wallet.Account
	if cfg.Address != "" {
		h, err := parseHash160(cfg.Address)
		if err != nil {
			return nil, fmt.Errorf("wallet address: %w", err)
		}

		acc = w.GetAccount(h)
		if acc == nil {
			return nil, fmt.Errorf("account %s is missing in the wallet", cfg.Address)
		}
	} else {
		if len(w.Accounts) == 0 {
			return nil, errors.New("wallet has no accounts")
		}
		acc = w.Accounts[0]
		for _, a := range w.Accounts {
			if a.Default {
				acc = a
				break
			}
		}
	}

	err = acc.Decrypt(cfg.Password, w.Scrypt)
	if err != nil {
		return nil, fmt.Errorf("decrypt account %s: %w", acc.Address, err)
	}

	return acc, nil
}

// parseHash160 accepts both Neo address and LE hex script hash.
func parseHash160(s string) (util.Uint160, error) {
	h, err := address.StringToUint160(s)
	if err == nil {
		return h, nil
	}

	h, err = util.Uint160DecodeStringLE(s)
	if err != nil {
		return h, fmt.Errorf("%q is neither address nor script hash", s)
	}

	return h, nil
}

// parseAmount converts decimal token amount into integer units of the token.
func parseAmount(inv nep17.Invoker, token util.Uint160, s string) (*big.Int, error) {
	decimals, err := nep17.NewReader(inv, token).Decimals()
	if err != nil {
		return nil, fmt.Errorf("get token decimals: %w", err)
	}

	amount, err := fixedn.FromString(s, decimals)
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", s, err)
	}

	if amount.Sign() < 0 {
		return nil, fmt.Errorf("negative amount %q", s)
	}

	return amount, nil
}

// session groups RPC connection, signing account and contract bindings.
type session struct {
	rpc      *rpcclient.Client
	acc      *wallet.Account
	act      *actor.Actor
	custody  *custody.Contract
	contract util.Uint160
}

func (x *session) close() {
	x.rpc.Close()
}

// openSession dials RPC and binds the Custody contract. Account is opened
// only if withAccount is set, otherwise a random one is used for test
// invocations.
func openSession(ctx context.Context, cfg Config, withAccount bool) (*session, error) {
	if cfg.Contract == "" {
		return nil, errMissingContract
	}

	contract, err := parseHash160(cfg.Contract)
	if err != nil {
		return nil, fmt.Errorf("contract address: %w", err)
	}

	var acc *wallet.Account
	if withAccount {
		acc, err = openAccount(cfg.Wallet)
	} else {
		acc, err = wallet.NewAccount()
	}
	if err != nil {
		return nil, err
	}

	c, err := dialRPC(ctx, cfg.RPC)
	if err != nil {
		return nil, err
	}

	act, err := actor.NewSimple(c, acc)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("init actor: %w", err)
	}

	return &session{
		rpc:      c,
		acc:      acc,
		act:      act,
		custody:  custody.New(act, contract),
		contract: contract,
	}, nil
}

// wait awaits transaction acceptance and checks its execution result.
func (x *session) wait(h util.Uint256, vub uint32, err error) (*state.AppExecResult, error) {
	res, err := x.act.Wait(h, vub, err)
	if err != nil {
		return nil, fmt.Errorf("wait for transaction: %w", err)
	}

	if res.VMState != vmstate.Halt {
		return res, fmt.Errorf("transaction %s failed: %s", res.Container.StringLE(), res.FaultException)
	}

	return res, nil
}

// appLog wraps single execution result to be decoded by event parsers.
func appLog(res *state.AppExecResult) *result.ApplicationLog {
	return &result.ApplicationLog{
		Container:     res.Container,
		IsTransaction: true,
		Executions:    []state.Execution{res.Execution},
	}
}
