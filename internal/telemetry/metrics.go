// Package telemetry holds the OpenTelemetry instruments for the
// refresh-credential lifecycle.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds counters for lifecycle operations. A nil *Metrics is a
// valid no-op receiver, so callers never need to guard.
type Metrics struct {
	issued      metric.Int64Counter
	rotated     metric.Int64Counter
	revoked     metric.Int64Counter
	rejected    metric.Int64Counter
	containment metric.Int64Counter
}

// NewMetrics creates the lifecycle counters on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	issued, err := meter.Int64Counter("refresh.sessions.issued",
		metric.WithDescription("Refresh sessions issued"))
	if err != nil {
		return nil, err
	}
	rotated, err := meter.Int64Counter("refresh.sessions.rotated",
		metric.WithDescription("Refresh sessions rotated"))
	if err != nil {
		return nil, err
	}
	revoked, err := meter.Int64Counter("refresh.sessions.revoked",
		metric.WithDescription("Refresh sessions revoked explicitly or in bulk"))
	if err != nil {
		return nil, err
	}
	rejected, err := meter.Int64Counter("refresh.rotations.rejected",
		metric.WithDescription("Rotation attempts rejected, by reason"))
	if err != nil {
		return nil, err
	}
	containment, err := meter.Int64Counter("refresh.containment.cascades",
		metric.WithDescription("Cascading revocations triggered by a failed rotation check"))
	if err != nil {
		return nil, err
	}
	return &Metrics{
		issued:      issued,
		rotated:     rotated,
		revoked:     revoked,
		rejected:    rejected,
		containment: containment,
	}, nil
}

// RecordIssued counts one issued session.
func (m *Metrics) RecordIssued(ctx context.Context) {
	if m == nil {
		return
	}
	m.issued.Add(ctx, 1)
}

// RecordRotated counts one successful rotation.
func (m *Metrics) RecordRotated(ctx context.Context) {
	if m == nil {
		return
	}
	m.rotated.Add(ctx, 1)
}

// RecordRevoked counts n revoked sessions (1 for explicit revoke; bulk
// revokes count once, the row count is not known at this layer).
func (m *Metrics) RecordRevoked(ctx context.Context) {
	if m == nil {
		return
	}
	m.revoked.Add(ctx, 1)
}

// RecordRejected counts one rejected rotation with its internal reason
// (reuse, device_mismatch, secret_mismatch, not_found).
func (m *Metrics) RecordRejected(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.rejected.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

// RecordContainment counts one cascading revocation.
func (m *Metrics) RecordContainment(ctx context.Context) {
	if m == nil {
		return
	}
	m.containment.Add(ctx, 1)
}
