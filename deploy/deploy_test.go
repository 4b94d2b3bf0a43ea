package deploy

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/trigger"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// testBlockchain knows contract states only, any transaction sending
// attempt panics on nil RPCActor.
type testBlockchain struct {
	actor.RPCActor

	contracts map[util.Uint160]*state.Contract
	err       error
}

func (x *testBlockchain) GetContractStateByHash(h util.Uint160) (*state.Contract, error) {
	if x.err != nil {
		return nil, x.err
	}

	c, ok := x.contracts[h]
	if !ok {
		return nil, errors.New("Unknown contract")
	}

	return c, nil
}

func validPrm(t *testing.T) Prm {
	acc, err := wallet.NewAccount()
	require.NoError(t, err)

	_nef, err := nef.NewFile(make([]byte, 32))
	require.NoError(t, err)

	return Prm{
		Logger:       zaptest.NewLogger(t),
		Blockchain:   &testBlockchain{},
		LocalAccount: acc,
		CustodyContract: CustodyContractPrm{
			Common: CommonDeployPrm{
				NEF:      *_nef,
				Manifest: *manifest.NewManifest("Custody"),
			},
			PrincipalToken: util.Uint160{1},
			TargetToken:    util.Uint160{2},
			EpochDuration:  7 * 24 * time.Hour,
			EpochStart:     time.UnixMilli(1_700_000_000_000),
		},
	}
}

func TestCustodyInvalidPrm(t *testing.T) {
	for _, tc := range []struct {
		name   string
		modify func(*Prm)
	}{
		{"no blockchain", func(p *Prm) { p.Blockchain = nil }},
		{"no account", func(p *Prm) { p.LocalAccount = nil }},
		{"locked account", func(p *Prm) { p.LocalAccount.Close() }},
		{"no manifest", func(p *Prm) { p.CustodyContract.Common.Manifest = manifest.Manifest{} }},
		{"no principal token", func(p *Prm) { p.CustodyContract.PrincipalToken = util.Uint160{} }},
		{"no target token", func(p *Prm) { p.CustodyContract.TargetToken = util.Uint160{} }},
		{"zero epoch duration", func(p *Prm) { p.CustodyContract.EpochDuration = 0 }},
		{"sub-millisecond epoch duration", func(p *Prm) { p.CustodyContract.EpochDuration = time.Second + time.Microsecond }},
		{"epoch start before Unix epoch", func(p *Prm) { p.CustodyContract.EpochStart = time.UnixMilli(-1) }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			prm := validPrm(t)
			tc.modify(&prm)

			_, err := Custody(context.Background(), prm)
			require.ErrorIs(t, err, ErrInvalidPrm)
		})
	}
}

func TestCustodyAlreadyDeployed(t *testing.T) {
	prm := validPrm(t)
	cPrm := prm.CustodyContract

	expected := state.CreateContractHash(prm.LocalAccount.ScriptHash(), cPrm.Common.NEF.Checksum, cPrm.Common.Manifest.Name)
	prm.Blockchain = &testBlockchain{
		contracts: map[util.Uint160]*state.Contract{
			expected: {ContractBase: state.ContractBase{Hash: expected}},
		},
	}

	addr, err := Custody(context.Background(), prm)
	require.NoError(t, err)
	require.Equal(t, expected, addr)

	// repeated call is no-op
	addr, err = Custody(context.Background(), prm)
	require.NoError(t, err)
	require.Equal(t, expected, addr)
}

func TestCustodyContractStateFailure(t *testing.T) {
	prm := validPrm(t)
	errRPC := errors.New("connection refused")
	prm.Blockchain = &testBlockchain{err: errRPC}

	_, err := Custody(context.Background(), prm)
	require.ErrorIs(t, err, errRPC)
}

func TestDeployData(t *testing.T) {
	prm := validPrm(t).CustodyContract

	require.Equal(t, []any{
		util.Uint160{1},
		util.Uint160{2},
		int64(604_800_000),
		int64(1_700_000_000_000),
	}, deployData(prm))
}

// testPollingWaiter never sees the awaited transaction until it is accepted.
type testPollingWaiter struct {
	accepted map[util.Uint256]bool
}

func (x *testPollingWaiter) Context() context.Context { return context.Background() }

func (x *testPollingWaiter) GetVersion() (*result.Version, error) {
	v := new(result.Version)
	v.Protocol.MillisecondsPerBlock = 20
	return v, nil
}

func (x *testPollingWaiter) GetBlockCount() (uint32, error) { return 1, nil }

func (x *testPollingWaiter) GetApplicationLog(h util.Uint256, _ *trigger.Type) (*result.ApplicationLog, error) {
	if !x.accepted[h] {
		return nil, errors.New("Unknown transaction or container")
	}

	return &result.ApplicationLog{
		Container:  h,
		Executions: []state.Execution{{Trigger: trigger.Application, VMState: vmstate.Halt}},
	}, nil
}

func TestWaitTx(t *testing.T) {
	accepted := util.Uint256{1}
	w, err := actor.NewPollingWaiter(&testPollingWaiter{
		accepted: map[util.Uint256]bool{accepted: true},
	})
	require.NoError(t, err)

	t.Run("accepted", func(t *testing.T) {
		res, err := waitTx(context.Background(), w, accepted, 100, nil)
		require.NoError(t, err)
		require.Equal(t, accepted, res.Container)
		require.Equal(t, vmstate.Halt, res.VMState)
	})

	t.Run("already exists", func(t *testing.T) {
		res, err := waitTx(context.Background(), w, accepted, 100, errors.New("transaction already exists"))
		require.NoError(t, err)
		require.Equal(t, accepted, res.Container)
	})

	t.Run("send failure", func(t *testing.T) {
		sendErr := errors.New("insufficient funds")
		_, err := waitTx(context.Background(), w, accepted, 100, sendErr)
		require.ErrorIs(t, err, sendErr)
	})

	t.Run("timeout", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		start := time.Now()
		_, err := waitTx(ctx, w, util.Uint256{2}, 100, nil)
		require.ErrorIs(t, err, actor.ErrContextDone)
		require.Less(t, time.Since(start), 5*time.Second)
	})

	t.Run("not accepted", func(t *testing.T) {
		_, err := waitTx(context.Background(), w, util.Uint256{2}, 0, nil)
		require.ErrorIs(t, err, actor.ErrTxNotAccepted)
	})
}
