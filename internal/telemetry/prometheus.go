package telemetry

import (
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// promauto panics on duplicate registration, so metrics are cached by
// name plus sorted labels
var (
	mu               sync.Mutex
	counterMetricMap = map[string]prometheus.Counter{}
	gaugeMetricMap   = map[string]prometheus.Gauge{}
)

func metricKey(metric string, labels map[string]string) string {
	key := metric
	names := make([]string, 0, len(labels))
	for name := range labels {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		key += "/" + name + ":" + labels[name]
	}
	return key
}

func NewCounter(metric string, labels map[string]string) prometheus.Counter {
	mu.Lock()
	defer mu.Unlock()

	key := metricKey(metric, labels)
	if _, ok := counterMetricMap[key]; !ok {
		counterMetricMap[key] = promauto.NewCounter(prometheus.CounterOpts{Name: metric, ConstLabels: labels})
	}
	return counterMetricMap[key]
}

func NewGauge(metric string, labels map[string]string) prometheus.Gauge {
	mu.Lock()
	defer mu.Unlock()

	key := metricKey(metric, labels)
	if _, ok := gaugeMetricMap[key]; !ok {
		gaugeMetricMap[key] = promauto.NewGauge(prometheus.GaugeOpts{Name: metric, ConstLabels: labels})
	}
	return gaugeMetricMap[key]
}
