package tracing

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const plannerTracerName = "github.com/soratobu/departure-planner/internal/service"

func PlannerTracer() trace.Tracer {
	return otel.Tracer(plannerTracerName)
}

// StartSaveFlowSpan covers one full event save: validation, weather
// adjustment, notification planning and persistence.
func StartSaveFlowSpan(ctx context.Context, userID, eventID string) (context.Context, trace.Span) {
	return PlannerTracer().Start(ctx, "planner.save_flow",
		trace.WithAttributes(
			attribute.String("user_id", userID),
			attribute.String("event_id", eventID),
		),
	)
}

func StartPlanSpan(ctx context.Context, eventID string, startTime time.Time) (context.Context, trace.Span) {
	return PlannerTracer().Start(ctx, "planner.plan_notification",
		trace.WithAttributes(
			attribute.String("event_id", eventID),
			attribute.String("event.start", startTime.Format(time.RFC3339)),
		),
	)
}

func StartExternalAPISpan(ctx context.Context, operation, url string) (context.Context, trace.Span) {
	return PlannerTracer().Start(ctx, "planner.external_api."+operation,
		trace.WithAttributes(
			attribute.String("url", url),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// RecordPlanResult attaches the planning outcome to the span.
func RecordPlanResult(span trace.Span, state string, fireTime time.Time, err error) {
	span.SetAttributes(
		attribute.String("plan.state", state),
	)
	if !fireTime.IsZero() {
		span.SetAttributes(attribute.String("plan.fire_time", fireTime.Format(time.RFC3339)))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}

// InjectToHTTPRequest propagates the current trace context onto an
// outgoing request.
func InjectToHTTPRequest(ctx context.Context, req *http.Request) {
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
}
