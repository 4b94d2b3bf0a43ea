package monitor

import (
	"context"
	"errors"
	"io"
	"math/big"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/nspcc-dev/custody-contract/contracts/custody/custodyconst"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// testSubscriber sends prepared events and closes the stream unless hold is
// set. Like WS client, it delivers pending event before completing
// unsubscription.
type testSubscriber struct {
	events  []*state.ContainedNotificationEvent
	pending *state.ContainedNotificationEvent
	hold    bool
	err     error

	rcvr         chan<- *state.ContainedNotificationEvent
	filter       *neorpc.NotificationFilter
	unsubscribed []string
}

func (x *testSubscriber) ReceiveExecutionNotifications(flt *neorpc.NotificationFilter, rcvr chan<- *state.ContainedNotificationEvent) (string, error) {
	if x.err != nil {
		return "", x.err
	}

	x.filter = flt
	x.rcvr = rcvr

	go func() {
		for _, ev := range x.events {
			rcvr <- ev
		}
		if !x.hold {
			close(rcvr)
		}
	}()

	return "sub-1", nil
}

func (x *testSubscriber) Unsubscribe(id string) error {
	if x.pending != nil {
		x.rcvr <- x.pending
	}
	x.unsubscribed = append(x.unsubscribed, id)
	return nil
}

var (
	testContract = util.Uint160{0xc0}
	testAccount  = util.Uint160{0xa1}
	testAsset    = util.Uint160{0xa5}
)

func newEvent(name string, items ...any) *state.ContainedNotificationEvent {
	args := make([]stackitem.Item, len(items))
	for i := range items {
		args[i] = stackitem.Make(items[i])
	}

	return &state.ContainedNotificationEvent{
		Container: util.Uint256{1},
		NotificationEvent: state.NotificationEvent{
			ScriptHash: testContract,
			Name:       name,
			Item:       stackitem.NewArray(args),
		},
	}
}

func testEvents() []*state.ContainedNotificationEvent {
	return []*state.ContainedNotificationEvent{
		newEvent(custodyconst.DepositEvent, testAccount.BytesBE(), 100, 100),
		newEvent(custodyconst.DepositEvent, testAccount.BytesBE(), 50, 150),
		newEvent(custodyconst.PreInformEvent, testAccount.BytesBE(), 40, 40),
		newEvent(custodyconst.WithdrawEvent, testAccount.BytesBE(), testAsset.BytesBE(), 30),
		newEvent(custodyconst.TradeEvent, testAccount.BytesBE(), testAsset.BytesBE(), 7, "swap"),
		newEvent(custodyconst.DepositEvent, "not a hash", 1, 1),
		newEvent("Transfer", testAccount.BytesBE(), testAsset.BytesBE(), 1),
	}
}

func TestMonitorRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	sub := &testSubscriber{events: testEvents()}

	m, err := New(Prm{
		Logger:     zaptest.NewLogger(t),
		Subscriber: sub,
		Contract:   testContract,
		Metrics:    metrics,
	})
	require.NoError(t, err)

	err = m.Run(context.Background())
	require.ErrorIs(t, err, ErrConnectionLost)

	require.NotNil(t, sub.filter)
	require.Equal(t, testContract, *sub.filter.Contract)

	require.Equal(t, 2.0, testutil.ToFloat64(metrics.events.WithLabelValues(custodyconst.DepositEvent)))
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.events.WithLabelValues(custodyconst.PreInformEvent)))
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.events.WithLabelValues(custodyconst.WithdrawEvent)))
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.events.WithLabelValues(custodyconst.TradeEvent)))
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.invalidEvents))

	require.Equal(t, 150.0, testutil.ToFloat64(metrics.deposited))
	require.Equal(t, 40.0, testutil.ToFloat64(metrics.preinformed))
	require.Equal(t, 30.0, testutil.ToFloat64(metrics.withdrawn))
	require.Equal(t, 7.0, testutil.ToFloat64(metrics.traded))
}

func TestMonitorStop(t *testing.T) {
	sub := &testSubscriber{hold: true}

	m, err := New(Prm{Subscriber: sub, Contract: testContract})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("monitor did not stop")
	}
	require.Equal(t, []string{"sub-1"}, sub.unsubscribed)
}

func TestMonitorStopWithPendingEvent(t *testing.T) {
	sub := &testSubscriber{
		hold:    true,
		pending: newEvent(custodyconst.DepositEvent, testAccount.BytesBE(), 1, 1),
	}

	m, err := New(Prm{Logger: zaptest.NewLogger(t), Subscriber: sub, Contract: testContract})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("monitor did not stop while notification was pending")
	}
	require.Equal(t, []string{"sub-1"}, sub.unsubscribed)
}

func TestMonitorSubscribeFailure(t *testing.T) {
	errRPC := errors.New("method not found")

	m, err := New(Prm{Subscriber: &testSubscriber{err: errRPC}})
	require.NoError(t, err)
	require.ErrorIs(t, m.Run(context.Background()), errRPC)

	_, err = New(Prm{})
	require.Error(t, err)
}

func TestMonitorWithoutMetrics(t *testing.T) {
	m, err := New(Prm{Subscriber: &testSubscriber{}})
	require.NoError(t, err)

	for _, ev := range testEvents() {
		require.NotPanics(t, func() { m.handle(ev) })
	}
}

func TestAddAmount(t *testing.T) {
	metrics := NewMetrics(prometheus.NewRegistry())

	addAmount(metrics.deposited, nil)
	addAmount(metrics.deposited, big.NewInt(-5))
	addAmount(metrics.deposited, big.NewInt(0))
	require.Zero(t, testutil.ToFloat64(metrics.deposited))

	max, ok := new(big.Int).SetString(custodyconst.MaxAmount, 10)
	require.True(t, ok)
	addAmount(metrics.deposited, max)
	require.InEpsilon(t, 3.4028236692093846e38, testutil.ToFloat64(metrics.deposited), 1e-9)
}

func TestServeMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	metrics.events.WithLabelValues(custodyconst.DepositEvent).Inc()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serveMetrics(ctx, zaptest.NewLogger(t), lis, reg) }()

	var body string
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + lis.Addr().String() + "/metrics")
		if err != nil {
			return false
		}
		defer resp.Body.Close()

		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return false
		}
		body = string(b)
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	require.True(t, strings.Contains(body, `custody_events_total{event="Deposit"} 1`), body)

	cancel()
	require.NoError(t, <-done)
}
