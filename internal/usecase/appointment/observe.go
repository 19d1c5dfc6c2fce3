package appointment

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/metrics"
)

var tracer = otel.Tracer("github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment")

// Observer carries the logging and metrics sinks shared by the use cases.
// The zero value is usable.
type Observer struct {
	Log     *zap.Logger
	Metrics *metrics.Collector
}

func (o Observer) logger() *zap.Logger {
	if o.Log == nil {
		return zap.NewNop()
	}
	return o.Log
}

func (o Observer) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, "appointment."+op, trace.WithAttributes(attrs...))
}

// finish closes span and counts the operation. Business rejections are
// logged here; infrastructure errors are logged by the HTTP layer.
func (o Observer) finish(span trace.Span, op string, err error) {
	defer span.End()

	if err == nil {
		o.Metrics.ObserveAppointment(op, "ok")
		return
	}

	code := httperr.CodeOf(err)
	if code == "" {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		o.Metrics.ObserveAppointment(op, "error")
		return
	}

	span.SetAttributes(attribute.String("business.code", code))
	o.Metrics.ObserveAppointment(op, code)
	o.logger().Info("appointment operation rejected",
		zap.String("operation", op),
		zap.String("code", code),
	)
}
