package dirsync

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const library_name = "dirsync.services.dirsync"

var tracer = otel.Tracer(library_name)

var meter = otel.Meter(library_name)

var addedCounter, _ = meter.Int64Counter(
	"dirsync.added",
	metric.WithDescription("contacts added to the target list"),
)
var removedCounter, _ = meter.Int64Counter(
	"dirsync.removed",
	metric.WithDescription("contacts removed from the target list"),
)
var diagnosticCounter, _ = meter.Int64Counter(
	"dirsync.diagnostics",
	metric.WithDescription("problems recorded during a run"),
)

func recordMetrics(ctx context.Context, report *Report) {
	attrs := metric.WithAttributes(attribute.Bool("dry_run", report.DryRun))
	addedCounter.Add(ctx, int64(len(report.Added)), attrs)
	removedCounter.Add(ctx, int64(len(report.Removed)), attrs)
	for _, d := range report.Diagnostics {
		diagnosticCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.Bool("dry_run", report.DryRun),
			attribute.String("kind", d.Kind.String()),
		))
	}
}
