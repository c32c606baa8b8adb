package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

func (c *Connector) observeOperation(
	ctx context.Context,
	startedAt time.Time,
	operation string,
	err error,
	fields map[string]any,
) {
	if c == nil {
		return
	}
	operation = normalizeOperation(operation)
	if operation == "" {
		operation = "unknown"
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	duration := time.Since(startedAt)

	contextFields := cloneFields(fields)
	contextFields["connector_id"] = c.id
	contextFields["operation"] = operation
	contextFields["status"] = status
	contextFields["duration_ms"] = duration.Milliseconds()
	if err != nil {
		contextFields["error"] = err.Error()
		if mapped := c.mapError(err); mapped != nil {
			contextFields["error_text_code"] = mapped.TextCode
		}
	}

	tags := map[string]string{
		"operation": operation,
		"status":    status,
	}
	if value := strings.TrimSpace(fmt.Sprint(contextFields["event_type"])); value != "" && value != "<nil>" {
		tags["event_type"] = value
	}

	c.recordCounter(ctx, MetricOperationsTotal, 1, tags)
	c.recordHistogram(ctx, MetricOperationDuration, float64(duration.Milliseconds()), tags)

	if err != nil {
		c.logError(ctx, "teamwork "+operation+" failed", contextFields)
		return
	}
	c.logInfo(ctx, "teamwork "+operation+" completed", contextFields)
}

func (c *Connector) logInfo(ctx context.Context, message string, fields map[string]any) {
	c.logWithLevel(ctx, "info", message, fields)
}

func (c *Connector) logWarn(ctx context.Context, message string, fields map[string]any) {
	c.logWithLevel(ctx, "warn", message, fields)
}

func (c *Connector) logError(ctx context.Context, message string, fields map[string]any) {
	c.logWithLevel(ctx, "error", message, fields)
}

func (c *Connector) logWithLevel(ctx context.Context, level string, message string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logger := c.logger
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	fields = RedactSensitiveMap(fields)
	if fieldsLogger, ok := logger.(FieldsLogger); ok {
		logger = fieldsLogger.WithFields(cloneFields(fields))
	}
	args := flattenFields(fields)
	switch level {
	case "error":
		logger.Error(message, args...)
	case "warn":
		logger.Warn(message, args...)
	default:
		logger.Info(message, args...)
	}
}

func (c *Connector) recordCounter(ctx context.Context, name string, value int64, tags map[string]string) {
	if c == nil || c.metricsRecorder == nil {
		return
	}
	c.metricsRecorder.IncCounter(ctx, name, value, cloneTags(tags))
}

func (c *Connector) recordHistogram(ctx context.Context, name string, value float64, tags map[string]string) {
	if c == nil || c.metricsRecorder == nil {
		return
	}
	c.metricsRecorder.ObserveHistogram(ctx, name, value, cloneTags(tags))
}

func cloneFields(fields map[string]any) map[string]any {
	copied := make(map[string]any, len(fields))
	for key, value := range fields {
		copied[key] = value
	}
	return copied
}

func flattenFields(fields map[string]any) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	args := make([]any, 0, len(keys)*2)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}
	return args
}

func normalizeOperation(operation string) string {
	operation = strings.TrimSpace(strings.ToLower(operation))
	operation = strings.ReplaceAll(operation, " ", "_")
	operation = strings.ReplaceAll(operation, "-", "_")
	return operation
}
