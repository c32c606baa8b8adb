package core

import "context"

// Metric names use dots; recorders translate them to their own naming rules.
const (
	MetricOperationsTotal   = "teamwork.operations.total"
	MetricOperationDuration = "teamwork.operations.duration_ms"
	MetricEventsFired       = "teamwork.events.fired"
)

type NopMetricsRecorder struct{}

func (NopMetricsRecorder) IncCounter(context.Context, string, int64, map[string]string) {}

func (NopMetricsRecorder) ObserveHistogram(context.Context, string, float64, map[string]string) {}

func cloneTags(tags map[string]string) map[string]string {
	copied := make(map[string]string, len(tags))
	for key, value := range tags {
		copied[key] = value
	}
	return copied
}
