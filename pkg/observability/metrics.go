// Package observability publishes application metrics.
package observability

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// CloudWatchMetrics emits reminder-run counters to a CloudWatch namespace.
type CloudWatchMetrics struct {
	client    *cloudwatch.Client
	namespace string
}

// NewCloudWatchMetrics creates a new metrics emitter
func NewCloudWatchMetrics(client *cloudwatch.Client, namespace string) *CloudWatchMetrics {
	return &CloudWatchMetrics{client: client, namespace: namespace}
}

// EmitReminderCounts publishes the aggregate counts of one reminder run
func (m *CloudWatchMetrics) EmitReminderCounts(ctx context.Context, sent, skipped, failed int) error {
	if m.client == nil {
		return nil
	}

	now := time.Now()
	datum := func(name string, value int) types.MetricDatum {
		return types.MetricDatum{
			MetricName: aws.String(name),
			Value:      aws.Float64(float64(value)),
			Unit:       types.StandardUnitCount,
			Timestamp:  aws.Time(now),
		}
	}

	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(m.namespace),
		MetricData: []types.MetricDatum{
			datum("RemindersSent", sent),
			datum("RemindersSkipped", skipped),
			datum("RemindersFailed", failed),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to put metric data: %w", err)
	}
	return nil
}

// NoopMetrics discards all metrics. Used in tests and local development.
type NoopMetrics struct{}

// EmitReminderCounts implements the emitter contract as a no-op
func (NoopMetrics) EmitReminderCounts(ctx context.Context, sent, skipped, failed int) error {
	return nil
}
