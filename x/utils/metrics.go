package utils

import (
	"strconv"
	"time"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a decorator that counts processed transactions and measures
// their processing time. Transactions are labeled with the message path,
// the phase (check or deliver) and the ABCI result code.
type Metrics struct {
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ timelock.Decorator = Metrics{}

// NewMetrics creates a Metrics decorator and registers its collectors. It
// panics if the collectors are already registered.
func NewMetrics(reg prometheus.Registerer) Metrics {
	m := Metrics{
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "timelock",
				Subsystem: "tx",
				Name:      "total",
				Help:      "Number of processed transactions.",
			},
			[]string{"path", "phase", "code"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "timelock",
				Subsystem: "tx",
				Name:      "duration_seconds",
				Help:      "Transaction processing time.",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
			[]string{"path", "phase"},
		),
	}
	reg.MustRegister(m.total, m.duration)
	return m
}

// Check measures the check phase of the transaction.
func (m Metrics) Check(ctx timelock.Context, store timelock.KVStore, tx timelock.Tx, next timelock.Checker) (*timelock.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	m.observe(tx, "check", start, err)
	return res, err
}

// Deliver measures the deliver phase of the transaction.
func (m Metrics) Deliver(ctx timelock.Context, store timelock.KVStore, tx timelock.Tx, next timelock.Deliverer) (*timelock.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	m.observe(tx, "deliver", start, err)
	return res, err
}

func (m Metrics) observe(tx timelock.Tx, phase string, start time.Time, err error) {
	path := timelock.GetPath(tx)
	code, _ := errors.ABCIInfo(err, false)
	m.total.WithLabelValues(path, phase, strconv.FormatUint(uint64(code), 10)).Inc()
	m.duration.WithLabelValues(path, phase).Observe(time.Since(start).Seconds())
}
