package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sentry-server/internal/core/types"
	"sentry-server/internal/core/types/enums"
	"sentry-server/internal/domain"
)

const namespace = "sentry"

// Collector - метрики вышек. Реализует domain.FlowEventSink и
// domain.StateChangeSink, поэтому подключается к контроллерам напрямую.
// Свой реестр, а не глобальный: тесты создают несколько коллекторов.
type Collector struct {
	registry *prometheus.Registry

	flowEvents    *prometheus.CounterVec
	transitions   *prometheus.CounterVec
	towersInState *prometheus.GaugeVec
	commands      *prometheus.CounterVec
	tickDuration  prometheus.Histogram
	subscribers   prometheus.Gauge

	mu    sync.RWMutex
	names map[types.EntityID]string
}

func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		flowEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flow_events_total",
			Help:      "Flow events emitted by towers (Burst, Preshoot, Shoot, PlayerDetected...).",
		}, []string{"tower", "event"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_transitions_total",
			Help:      "State machine transitions.",
		}, []string{"from", "to"}),
		towersInState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "towers",
			Help:      "Number of enabled towers per state.",
		}, []string{"state"}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Control commands by action and result.",
		}, []string{"action", "result"}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Wall time spent updating all towers in one tick.",
			Buckets:   []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025},
		}),
		subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "telemetry_subscribers",
			Help:      "Connected telemetry websocket clients.",
		}),
		names: make(map[types.EntityID]string),
	}

	c.registry.MustRegister(
		c.flowEvents,
		c.transitions,
		c.towersInState,
		c.commands,
		c.tickDuration,
		c.subscribers,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// SetTowerName - имя вышки для label'а. Без него используется десятичный id.
func (c *Collector) SetTowerName(id types.EntityID, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.names[id] = name
}

func (c *Collector) towerLabel(id types.EntityID) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if name, ok := c.names[id]; ok {
		return name
	}
	return formatID(id)
}

func (c *Collector) OnFlowEvent(tower types.EntityID, ev domain.FlowEvent) {
	c.flowEvents.WithLabelValues(c.towerLabel(tower), ev.String()).Inc()
}

func (c *Collector) OnStateChange(_ types.EntityID, from, to enums.SentryState) {
	if from == to {
		return
	}
	c.transitions.WithLabelValues(from.String(), to.String()).Inc()
}

// ObserveStates выставляет gauge по всем состояниям сразу, отсутствующие - в 0.
func (c *Collector) ObserveStates(counts map[enums.SentryState]int) {
	for _, st := range enums.AllSentryStates() {
		c.towersInState.WithLabelValues(st.String()).Set(float64(counts[st]))
	}
}

func (c *Collector) ObserveTick(seconds float64) {
	c.tickDuration.Observe(seconds)
}

// CommandResult - "ok", "rejected" или "unknown".
func (c *Collector) CommandResult(action domain.ActionType, result string) {
	c.commands.WithLabelValues(action.String(), result).Inc()
}

func (c *Collector) SetSubscribers(n int) {
	c.subscribers.Set(float64(n))
}

func (c *Collector) Gatherer() prometheus.Gatherer {
	return c.registry
}

// Handler - /metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
