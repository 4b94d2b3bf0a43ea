/*
Package monitor follows notifications of the Custody contract, logs them and
exposes activity metrics.
*/
package monitor

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/custody-contract/contracts/custody/custodyconst"
	"github.com/nspcc-dev/custody-contract/rpc/custody"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"go.uber.org/zap"
)

// ErrConnectionLost is returned by Monitor.Run when the notification stream
// is closed by the remote side.
var ErrConnectionLost = errors.New("notification stream closed")

// Subscriber opens a stream of contract notifications. It is implemented by
// WebSocket RPC client.
type Subscriber interface {
	// ReceiveExecutionNotifications subscribes to notifications matching the
	// filter and sends them to rcvr. The channel is closed when connection is
	// lost.
	ReceiveExecutionNotifications(flt *neorpc.NotificationFilter, rcvr chan<- *state.ContainedNotificationEvent) (string, error)

	// Unsubscribe cancels subscription by its ID.
	Unsubscribe(id string) error
}

// Prm groups Monitor parameters.
type Prm struct {
	// Writes events into the log. Optional.
	Logger *zap.Logger

	// Source of the notifications.
	Subscriber Subscriber

	// Custody contract address.
	Contract util.Uint160

	// Collectors to update. Optional.
	Metrics *Metrics
}

// Monitor follows Custody contract notifications.
type Monitor struct {
	log      *zap.Logger
	sub      Subscriber
	contract util.Uint160
	metrics  *Metrics
}

// New checks parameters and creates Monitor.
func New(prm Prm) (*Monitor, error) {
	if prm.Subscriber == nil {
		return nil, errors.New("missing notification subscriber")
	}

	if prm.Logger == nil {
		prm.Logger = zap.NewNop()
	}

	return &Monitor{
		log:      prm.Logger.With(zap.Stringer("contract", prm.Contract)),
		sub:      prm.Subscriber,
		contract: prm.Contract,
		metrics:  prm.Metrics,
	}, nil
}

// Run subscribes to the contract notifications and handles them until the
// context is done or the stream is closed. It returns nil on context
// cancellation and ErrConnectionLost if the stream closes first.
func (m *Monitor) Run(ctx context.Context) error {
	ch := make(chan *state.ContainedNotificationEvent)

	id, err := m.sub.ReceiveExecutionNotifications(&neorpc.NotificationFilter{Contract: &m.contract}, ch)
	if err != nil {
		return fmt.Errorf("subscribe to contract notifications: %w", err)
	}

	m.log.Info("listening to contract notifications", zap.String("subscription", id))

	for {
		select {
		case <-ctx.Done():
			m.unsubscribe(id, ch)
			return nil
		case ev, ok := <-ch:
			if !ok {
				return ErrConnectionLost
			}
			m.handle(ev)
		}
	}
}

// unsubscribe cancels the subscription and drains ch until it is done, the
// client blocks on delivery to ch while unsubscribing.
func (m *Monitor) unsubscribe(id string, ch <-chan *state.ContainedNotificationEvent) {
	done := make(chan error, 1)
	go func() {
		done <- m.sub.Unsubscribe(id)
	}()

	for {
		select {
		case err := <-done:
			if err != nil {
				m.log.Warn("failed to unsubscribe", zap.String("subscription", id), zap.Error(err))
			}
			return
		case _, ok := <-ch:
			if !ok {
				ch = nil
			}
		}
	}
}

func (m *Monitor) handle(ev *state.ContainedNotificationEvent) {
	l := m.log.With(zap.String("event", ev.Name), zap.Stringer("tx", ev.Container))

	var err error

	switch ev.Name {
	case custodyconst.DepositEvent:
		var e custody.DepositEvent
		if err = e.FromStackItem(ev.Item); err == nil {
			l.Info("deposit",
				zap.Stringer("account", e.Account), zap.Stringer("amount", e.Amount), zap.Stringer("total", e.Total))
			m.add(ev.Name, e.Amount)
		}
	case custodyconst.PreInformEvent:
		var e custody.PreInformEvent
		if err = e.FromStackItem(ev.Item); err == nil {
			l.Info("pre-inform",
				zap.Stringer("account", e.Account), zap.Stringer("amount", e.Amount), zap.Stringer("pre-informed", e.Preinformed))
			m.add(ev.Name, e.Amount)
		}
	case custodyconst.WithdrawEvent:
		var e custody.WithdrawEvent
		if err = e.FromStackItem(ev.Item); err == nil {
			l.Info("withdraw",
				zap.Stringer("account", e.Account), zap.Stringer("asset", e.Asset), zap.Stringer("amount", e.Amount))
			m.add(ev.Name, e.Amount)
		}
	case custodyconst.TradeEvent:
		var e custody.TradeEvent
		if err = e.FromStackItem(ev.Item); err == nil {
			l.Info("trade",
				zap.Stringer("receiver", e.Receiver), zap.Stringer("asset", e.Asset), zap.Stringer("amount", e.Amount),
				zap.String("message", e.Message))
			m.add(ev.Name, e.Amount)
		}
	default:
		l.Debug("skip unknown notification")
		return
	}

	if err != nil {
		l.Warn("invalid notification", zap.Error(err))
		if m.metrics != nil {
			m.metrics.invalidEvents.Inc()
		}
	}
}

func (m *Monitor) add(event string, amount *big.Int) {
	if m.metrics == nil {
		return
	}

	m.metrics.events.WithLabelValues(event).Inc()

	switch event {
	case custodyconst.DepositEvent:
		addAmount(m.metrics.deposited, amount)
	case custodyconst.PreInformEvent:
		addAmount(m.metrics.preinformed, amount)
	case custodyconst.WithdrawEvent:
		addAmount(m.metrics.withdrawn, amount)
	case custodyconst.TradeEvent:
		addAmount(m.metrics.traded, amount)
	}
}
