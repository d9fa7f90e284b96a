package activity

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"goa.design/clue/log"
)

const instrumentationName = "github.com/fitness-app/activityservice/activity"

type (
	// InstrumentOption configures Instrument.
	InstrumentOption func(*instrumentOptions)

	instrumentOptions struct {
		tracerProvider trace.TracerProvider
		meterProvider  metric.MeterProvider
	}

	// instrumented decorates a Repository with tracing, metrics and error logs.
	instrumented struct {
		next   Repository
		tracer trace.Tracer
		ops    metric.Int64Counter
	}
)

// WithTracerProvider sets the tracer provider used for spans. Defaults to the
// global provider.
func WithTracerProvider(tp trace.TracerProvider) InstrumentOption {
	return func(o *instrumentOptions) { o.tracerProvider = tp }
}

// WithMeterProvider sets the meter provider used for the operation counter.
// Defaults to the global provider.
func WithMeterProvider(mp metric.MeterProvider) InstrumentOption {
	return func(o *instrumentOptions) { o.meterProvider = mp }
}

// Instrument wraps repo so that every operation runs in a span, is counted in
// the activity.repository.operations counter and logs failures. Results and
// errors are returned unchanged.
func Instrument(repo Repository, opts ...InstrumentOption) (Repository, error) {
	if repo == nil {
		return nil, errors.New("repository is required")
	}
	o := instrumentOptions{
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	ops, err := o.meterProvider.Meter(instrumentationName).Int64Counter(
		"activity.repository.operations",
		metric.WithDescription("Number of activity repository operations by outcome."),
	)
	if err != nil {
		return nil, err
	}
	return &instrumented{
		next:   repo,
		tracer: o.tracerProvider.Tracer(instrumentationName),
		ops:    ops,
	}, nil
}

func (r *instrumented) Save(ctx context.Context, a Activity) (Activity, error) {
	ctx, span := r.start(ctx, "Save", attribute.String("activity.id", a.ID), attribute.String("activity.user_id", a.UserID))
	out, err := r.next.Save(ctx, a)
	r.finish(ctx, span, "Save", err)
	return out, err
}

func (r *instrumented) FindByID(ctx context.Context, id string) (Activity, bool, error) {
	ctx, span := r.start(ctx, "FindByID", attribute.String("activity.id", id))
	out, ok, err := r.next.FindByID(ctx, id)
	span.SetAttributes(attribute.Bool("activity.found", ok))
	r.finish(ctx, span, "FindByID", err)
	return out, ok, err
}

func (r *instrumented) FindAll(ctx context.Context) ([]Activity, error) {
	ctx, span := r.start(ctx, "FindAll")
	out, err := r.next.FindAll(ctx)
	span.SetAttributes(attribute.Int("activity.count", len(out)))
	r.finish(ctx, span, "FindAll", err)
	return out, err
}

func (r *instrumented) FindByUserID(ctx context.Context, userID string) ([]Activity, error) {
	ctx, span := r.start(ctx, "FindByUserID", attribute.String("activity.user_id", userID))
	out, err := r.next.FindByUserID(ctx, userID)
	span.SetAttributes(attribute.Int("activity.count", len(out)))
	r.finish(ctx, span, "FindByUserID", err)
	return out, err
}

func (r *instrumented) DeleteByID(ctx context.Context, id string) error {
	ctx, span := r.start(ctx, "DeleteByID", attribute.String("activity.id", id))
	err := r.next.DeleteByID(ctx, id)
	r.finish(ctx, span, "DeleteByID", err)
	return err
}

func (r *instrumented) Count(ctx context.Context) (int64, error) {
	ctx, span := r.start(ctx, "Count")
	n, err := r.next.Count(ctx)
	r.finish(ctx, span, "Count", err)
	return n, err
}

func (r *instrumented) ExistsByID(ctx context.Context, id string) (bool, error) {
	ctx, span := r.start(ctx, "ExistsByID", attribute.String("activity.id", id))
	ok, err := r.next.ExistsByID(ctx, id)
	r.finish(ctx, span, "ExistsByID", err)
	return ok, err
}

func (r *instrumented) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return r.tracer.Start(ctx, "activity."+op, trace.WithAttributes(attrs...))
}

func (r *instrumented) finish(ctx context.Context, span trace.Span, op string, err error) {
	defer span.End()
	outcome := "ok"
	if err != nil {
		outcome = "error"
		if errors.Is(err, ErrInvalidActivity) {
			outcome = "invalid"
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Error(ctx, err, log.KV{K: "msg", V: "activity repository operation failed"}, log.KV{K: "op", V: op})
	}
	r.ops.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("outcome", outcome),
	))
}
