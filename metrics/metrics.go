package metrics

import (
	"encoding/json"
	"net/http"

	"github.com/4O4-Not-F0und/key-relay/manager"
	"github.com/4O4-Not-F0und/key-relay/selector"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const (
	namespace = "key_relay"

	ReloadResultSuccess = "success"
	ReloadResultFailed  = "failed"
)

type MetricConfig struct {
	// Optional. Metrics server is disabled when empty
	Listen string `yaml:"listen"`
}

var (
	// Times a credential was chosen, by strategy.
	MetricCredentialSelectionTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "credential_selection_total",
			Help:      "Times of credential was chosen.",
		},
		[]string{"credential_name", "strategy"},
	)

	// Configured weight of each credential in the active pool.
	MetricCredentialWeight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "credential_weight",
			Help:      "Configured weight of credentials in the active pool.",
		},
		[]string{"credential_name"},
	)

	MetricPoolSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "credential_pool_size",
			Help:      "Number of credentials in the active pool.",
		},
	)

	MetricPoolTotalWeight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "credential_pool_total_weight",
			Help:      "Sum of credential weights in the active pool.",
		},
	)

	// Results: "success", "failed" (previous pool kept serving).
	MetricConfigReloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "config_reloads_total",
			Help:      "Config reload attempts, by result.",
		},
		[]string{"result"},
	)
)

// SelectionObserver counts selections per credential and strategy.
type SelectionObserver struct {
	selections *prometheus.CounterVec
}

// NewSelectionObserver returns a manager.Observer feeding selections into
// the given counter, or MetricCredentialSelectionTotal when nil.
func NewSelectionObserver(selections *prometheus.CounterVec) *SelectionObserver {
	if selections == nil {
		selections = MetricCredentialSelectionTotal
	}
	return &SelectionObserver{selections: selections}
}

func (so *SelectionObserver) OnSelect(e manager.Event) {
	so.selections.WithLabelValues(e.Name, e.Strategy.String()).Inc()
}

// PublishPool replaces the pool gauges with the given manager's description
// and initializes its selection counters.
func PublishPool(m *manager.Manager) {
	MetricCredentialWeight.Reset()
	for _, d := range m.Describe() {
		MetricCredentialWeight.WithLabelValues(d.Name).Set(d.Weight)
		for _, s := range selector.AllStrategies {
			MetricCredentialSelectionTotal.WithLabelValues(d.Name, s.String()).Add(0.0)
		}
	}
	MetricPoolSize.Set(float64(m.Len()))
	MetricPoolTotalWeight.Set(m.TotalWeight())
}

// NewHandler serves Prometheus metrics on /metrics and the active pool
// description on /credentials.
func NewHandler(describe func() []manager.Description) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/credentials", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		err := json.NewEncoder(w).Encode(describe())
		if err != nil {
			logrus.Errorf("encode credential description failed: %v", err)
		}
	})
	return mux
}

func InitMetricServer(conf MetricConfig, describe func() []manager.Description) {
	if conf.Listen == "" {
		logrus.Info("metrics server disabled")
		return
	}
	go func() {
		logrus.Infof("Metrics server listening on %s", conf.Listen)
		if err := http.ListenAndServe(conf.Listen, NewHandler(describe)); err != nil {
			logrus.Fatalf("Failed to start metrics server: %v", err)
		}
	}()
}
