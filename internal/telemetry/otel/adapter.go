package otel

import (
	"context"
	"strconv"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"secure-chat/backend/internal/audit"
	auditdomain "secure-chat/backend/internal/audit/domain"
)

// NewAuditEmitter returns an audit.Emitter that forwards audit events
// as OTel log records via the given LoggerProvider. If provider is nil,
// returns a no-op emitter.
func NewAuditEmitter(provider *sdklog.LoggerProvider) audit.Emitter {
	if provider == nil {
		return noopEmitter{}
	}
	return &otelEmitter{logger: provider.Logger("securechat.refresh.audit")}
}

type noopEmitter struct{}

func (noopEmitter) Emit(context.Context, *auditdomain.Event) {}

type otelEmitter struct {
	logger otellog.Logger
}

// Emit converts the audit event to an OTel log record and emits it.
func (e *otelEmitter) Emit(ctx context.Context, event *auditdomain.Event) {
	if event == nil {
		return
	}
	rec := otellog.Record{}
	if !event.CreatedAt.IsZero() {
		rec.SetTimestamp(event.CreatedAt)
	} else {
		rec.SetTimestamp(time.Now().UTC())
	}
	rec.SetBody(otellog.StringValue(event.Action))
	rec.AddAttributes(otellog.String("user_id", strconv.FormatInt(event.UserID, 10)))
	if event.TokenID != "" {
		rec.AddAttributes(otellog.String("token_id", event.TokenID))
	}
	if event.UserAgentHash != "" {
		rec.AddAttributes(otellog.String("user_agent_hash", event.UserAgentHash))
	}
	if event.IPHash != "" {
		rec.AddAttributes(otellog.String("ip_hash", event.IPHash))
	}
	if event.Metadata != "" {
		rec.AddAttributes(otellog.String("metadata", event.Metadata))
	}
	e.logger.Emit(ctx, rec)
}
