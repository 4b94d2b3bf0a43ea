package monitor

import (
	"math/big"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "custody"

// Metrics groups prometheus collectors of the Custody contract activity.
type Metrics struct {
	events        *prometheus.CounterVec
	invalidEvents prometheus.Counter

	deposited   prometheus.Counter
	preinformed prometheus.Counter
	withdrawn   prometheus.Counter
	traded      prometheus.Counter
}

// NewMetrics creates Custody metrics and registers them in reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		events: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Total number of contract notifications by name",
		}, []string{"event"}),
		invalidEvents: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invalid_events_total",
			Help:      "Total number of contract notifications that could not be decoded",
		}),
		deposited: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deposited_amount_total",
			Help:      "Total amount of principal token deposited",
		}),
		preinformed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "preinformed_amount_total",
			Help:      "Total amount of principal token pre-informed for withdrawal",
		}),
		withdrawn: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "withdrawn_amount_total",
			Help:      "Total amount of principal token withdrawn",
		}),
		traded: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "traded_amount_total",
			Help:      "Total amount of tokens relayed by trades",
		}),
	}
}

// addAmount adds token amount to the counter. Precision loss for huge
// amounts is fine for monitoring.
func addAmount(c prometheus.Counter, amount *big.Int) {
	if amount == nil || amount.Sign() <= 0 {
		return
	}

	f, _ := new(big.Float).SetInt(amount).Float64()
	c.Add(f)
}
