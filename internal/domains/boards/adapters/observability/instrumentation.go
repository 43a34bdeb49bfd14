package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
)

const tracerName = "github.com/Apurer/svgboard-api/internal/domains/boards/adapters/observability"

// instrumentation is shared by the project and snapshot decorators.
type instrumentation struct {
	tracer    trace.Tracer
	logger    *slog.Logger
	metrics   serviceMetrics
	requestID func(context.Context) string
}

// Option configures a decorator.
type Option func(*instrumentation)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(i *instrumentation) {
		i.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(i *instrumentation) {
		i.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(i *instrumentation) {
		i.metrics = newServiceMetrics(m)
	}
}

// WithRequestID sets how the request correlation id is read from a context.
// Log lines carry it as request.id when it is non-empty.
func WithRequestID(fn func(context.Context) string) Option {
	return func(i *instrumentation) {
		i.requestID = fn
	}
}

func newInstrumentation(opts []Option) instrumentation {
	i := instrumentation{
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&i)
		}
	}
	if i.tracer == nil {
		i.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if i.logger == nil {
		i.logger = defaultLogger()
	}
	return i
}

func (i instrumentation) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return i.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (i instrumentation) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	i.logger.LogAttrs(ctx, slog.LevelInfo, msg, i.withRequestID(ctx, attrs)...)
}

func (i instrumentation) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	i.logger.LogAttrs(ctx, slog.LevelError, msg, i.withRequestID(ctx, attrs)...)
}

func (i instrumentation) withRequestID(ctx context.Context, attrs []slog.Attr) []slog.Attr {
	if i.requestID == nil {
		return attrs
	}
	if rid := i.requestID(ctx); rid != "" {
		attrs = append(attrs, slog.String("request.id", rid))
	}
	return attrs
}

func (i instrumentation) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	i.logError(ctx, msg, err, attrs...)
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	projectsCreated  metric.Int64Counter
	projectsDeleted  metric.Int64Counter
	snapshotsCreated metric.Int64Counter
	snapshotsDeleted metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	projectsCreated, _ := m.Int64Counter("boards.projects.created", metric.WithDescription("Number of projects created"))
	projectsDeleted, _ := m.Int64Counter("boards.projects.deleted", metric.WithDescription("Number of projects deleted"))
	snapshotsCreated, _ := m.Int64Counter("boards.snapshots.created", metric.WithDescription("Number of snapshots saved"))
	snapshotsDeleted, _ := m.Int64Counter("boards.snapshots.deleted", metric.WithDescription("Number of snapshot delete operations"))
	return serviceMetrics{
		projectsCreated:  projectsCreated,
		projectsDeleted:  projectsDeleted,
		snapshotsCreated: snapshotsCreated,
		snapshotsDeleted: snapshotsDeleted,
	}
}

func (m serviceMetrics) recordProjectCreated(ctx context.Context) {
	addCounter(ctx, m.projectsCreated, 1)
}

func (m serviceMetrics) recordProjectDeleted(ctx context.Context) {
	addCounter(ctx, m.projectsDeleted, 1)
}

func (m serviceMetrics) recordSnapshotCreated(ctx context.Context, projectID int64) {
	addCounter(ctx, m.snapshotsCreated, 1, attribute.Int64("project.id", projectID))
}

func (m serviceMetrics) recordSnapshotsDeleted(ctx context.Context, scope string) {
	addCounter(ctx, m.snapshotsDeleted, 1, attribute.String("snapshot.delete.scope", scope))
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}
