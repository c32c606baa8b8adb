// Package prometheus records connector metrics on a Prometheus registry.
package prometheus

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-services-teamwork/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultBuckets covers webhook dispatch durations in milliseconds.
var DefaultBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000}

// knownLabels pins the label set of the connector's own metrics. Other
// metric names take the sorted tag keys of their first observation.
var knownLabels = map[string][]string{
	core.MetricOperationsTotal:   {"event_type", "operation", "status"},
	core.MetricOperationDuration: {"event_type", "operation", "status"},
	core.MetricEventsFired:       {"status"},
}

var nameReplacer = strings.NewReplacer(".", "_", "-", "_", " ", "_", "/", "_")

type counterEntry struct {
	vec    *prometheus.CounterVec
	labels []string
}

type histogramEntry struct {
	vec    *prometheus.HistogramVec
	labels []string
}

type Recorder struct {
	registry *prometheus.Registry
	buckets  []float64

	mu         sync.Mutex
	counters   map[string]counterEntry
	histograms map[string]histogramEntry
}

type Option func(*Recorder)

// WithRegistry records on an existing registry instead of a private one.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(r *Recorder) {
		if registry != nil {
			r.registry = registry
		}
	}
}

func WithBuckets(buckets []float64) Option {
	return func(r *Recorder) {
		if len(buckets) > 0 {
			r.buckets = append([]float64(nil), buckets...)
		}
	}
}

func NewRecorder(opts ...Option) *Recorder {
	r := &Recorder{
		registry:   prometheus.NewRegistry(),
		buckets:    DefaultBuckets,
		counters:   map[string]counterEntry{},
		histograms: map[string]histogramEntry{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Recorder) IncCounter(_ context.Context, name string, value int64, tags map[string]string) {
	if r == nil || value < 0 {
		return
	}
	entry, ok := r.counter(name, tags)
	if !ok {
		return
	}
	entry.vec.WithLabelValues(labelValues(entry.labels, tags)...).Add(float64(value))
}

func (r *Recorder) ObserveHistogram(_ context.Context, name string, value float64, tags map[string]string) {
	if r == nil {
		return
	}
	entry, ok := r.histogram(name, tags)
	if !ok {
		return
	}
	entry.vec.WithLabelValues(labelValues(entry.labels, tags)...).Observe(value)
}

func (r *Recorder) counter(name string, tags map[string]string) (counterEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok := r.counters[name]; ok {
		return entry, true
	}
	labels := labelsFor(name, tags)
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: CounterName(name),
		Help: "Teamwork connector counter " + name + ".",
	}, labels)
	if err := r.registry.Register(vec); err != nil {
		return counterEntry{}, false
	}
	entry := counterEntry{vec: vec, labels: labels}
	r.counters[name] = entry
	return entry, true
}

func (r *Recorder) histogram(name string, tags map[string]string) (histogramEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok := r.histograms[name]; ok {
		return entry, true
	}
	labels := labelsFor(name, tags)
	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    MetricName(name),
		Help:    "Teamwork connector histogram " + name + ".",
		Buckets: r.buckets,
	}, labels)
	if err := r.registry.Register(vec); err != nil {
		return histogramEntry{}, false
	}
	entry := histogramEntry{vec: vec, labels: labels}
	r.histograms[name] = entry
	return entry, true
}

// MetricName converts a dotted metric name to Prometheus form.
func MetricName(name string) string {
	return nameReplacer.Replace(strings.ToLower(strings.TrimSpace(name)))
}

// CounterName is MetricName with the conventional _total suffix.
func CounterName(name string) string {
	converted := MetricName(name)
	if strings.HasSuffix(converted, "_total") {
		return converted
	}
	return converted + "_total"
}

func labelsFor(name string, tags map[string]string) []string {
	if labels, ok := knownLabels[name]; ok {
		return labels
	}
	labels := make([]string, 0, len(tags))
	for key := range tags {
		labels = append(labels, MetricName(key))
	}
	sort.Strings(labels)
	return labels
}

// labelValues maps tags onto labels. Missing tags become empty values and
// tags outside the label set are dropped.
func labelValues(labels []string, tags map[string]string) []string {
	normalized := make(map[string]string, len(tags))
	for key, value := range tags {
		normalized[MetricName(key)] = value
	}
	values := make([]string, len(labels))
	for i, label := range labels {
		values[i] = normalized[label]
	}
	return values
}

var _ core.MetricsRecorder = (*Recorder)(nil)
