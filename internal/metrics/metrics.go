package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors the bot exposes on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	LeagueFetches    *prometheus.CounterVec
	TradeSimulations prometheus.Counter
	ReportDuration   *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		LeagueFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rotobot_league_fetches_total",
			Help: "League snapshot fetches by result.",
		}, []string{"result"}),
		TradeSimulations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rotobot_trade_simulations_total",
			Help: "One-for-one trade candidates evaluated.",
		}),
		ReportDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rotobot_report_duration_seconds",
			Help:    "Time spent building a report, including any fetch.",
			Buckets: prometheus.DefBuckets,
		}, []string{"report"}),
	}
	m.registry.MustRegister(m.LeagueFetches, m.TradeSimulations, m.ReportDuration)
	return m
}

// ObserveFetch matches fantasy.API's OnFetch hook.
func (m *Metrics) ObserveFetch(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.LeagueFetches.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveSimulation() {
	m.TradeSimulations.Inc()
}

// Time returns a func that records the elapsed time for report when called.
func (m *Metrics) Time(report string) func() {
	start := time.Now()
	return func() {
		m.ReportDuration.WithLabelValues(report).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
