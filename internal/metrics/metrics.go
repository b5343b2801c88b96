package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "puzzlehub"

const (
	ResultOK         = "ok"
	ResultIllegal    = "illegal"
	ResultInvalid    = "invalid"
	ResultTerminated = "terminated"
	ResultError      = "error"
)

type Metrics struct {
	// SessionsStarted counts new and restarted sessions. Labels: kind
	SessionsStarted *prometheus.CounterVec

	// MovesTotal counts move attempts. Labels: kind, result
	MovesTotal *prometheus.CounterVec

	// SessionsFinished counts sessions reaching a terminal status. Labels: kind, status
	SessionsFinished *prometheus.CounterVec

	// MoveDuration measures load, apply and store of one move. Labels: kind
	MoveDuration *prometheus.HistogramVec
}

// New - registers the hub metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		SessionsStarted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_started_total",
			Help:      "Puzzle sessions started by kind",
		}, []string{"kind"}),
		MovesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moves_total",
			Help:      "Move attempts by kind and result",
		}, []string{"kind", "result"}),
		SessionsFinished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_finished_total",
			Help:      "Sessions that were solved or lost",
		}, []string{"kind", "status"}),
		MoveDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "move_duration_seconds",
			Help:      "Time to load, apply and store one move",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12), // 0.1ms to ~400ms
		}, []string{"kind"}),
	}
}

func (that *Metrics) SessionStarted(kind string) {
	that.SessionsStarted.WithLabelValues(kind).Inc()
}

func (that *Metrics) MoveApplied(kind, result string, elapsed time.Duration) {
	that.MovesTotal.WithLabelValues(kind, result).Inc()
	that.MoveDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

func (that *Metrics) SessionFinished(kind, status string) {
	that.SessionsFinished.WithLabelValues(kind, status).Inc()
}
