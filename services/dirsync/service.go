package dirsync

import (
	"context"
	"dirsync/lib/history"
	"log/slog"

	mapset "github.com/deckarep/golang-set/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type Notifier interface {
	Notify(ctx context.Context, subject, body string) error
}

// History persists run summaries, it is optional.
type History interface {
	LatestSuccessful(ctx context.Context) (history.Run, bool, error)
	Record(ctx context.Context, run history.Run) error
}

type Options struct {
	Source   GroupDirectory
	Target   ContactDirectory
	Notifier Notifier
	// may be nil, the shrink check is then skipped
	History       History
	Guard         GuardOptions
	SubjectPrefix string
}

type Service struct {
	source        GroupDirectory
	target        ContactDirectory
	notifier      Notifier
	history       History
	guard         Guard
	subjectPrefix string
}

func NewService(opts Options) Service {
	return Service{
		source:        opts.Source,
		target:        opts.Target,
		notifier:      opts.Notifier,
		history:       opts.History,
		guard:         NewGuard(opts.Guard),
		subjectPrefix: opts.SubjectPrefix,
	}
}

// Preview is the fetched and reconciled state of both directories.
type Preview struct {
	Report  *Report
	Source  Population
	Target  TargetSnapshot
	Plan    Plan
	Verdict Verdict
	// false when the target could not be fetched completely
	TargetOk bool
}

func (s Service) previousSourceCount(ctx context.Context) int {
	if s.history == nil {
		return 0
	}
	run, found, err := s.history.LatestSuccessful(ctx)
	if err != nil {
		slog.WarnContext(ctx, "failed to read previous run", "err", err)
		return 0
	}
	if !found {
		return 0
	}
	return run.SourceCount
}

// Preview fetches both populations, reconciles them and runs the guard
// without changing anything.
func (s Service) Preview(ctx context.Context, rc RunContext) Preview {
	ctx, span := tracer.Start(ctx, "Preview")
	defer span.End()

	report := NewReport(rc)
	source := FetchSource(ctx, s.source, rc, report)
	target, ok := FetchTarget(ctx, s.target, rc, report)
	plan := Reconcile(source, target.Contacts)
	verdict := s.guard.Check(rc, report, plan, s.previousSourceCount(ctx))
	report.Hints = NearMatches(plan.Removes(), plan.Adds())

	slog.InfoContext(
		ctx, "reconciled directories",
		"source", len(source),
		"target", len(target.Contacts),
		"to_add", plan.ToAdd.Cardinality(),
		"to_remove", plan.ToRemove.Cardinality(),
	)

	return Preview{
		Report:   report,
		Source:   source,
		Target:   target,
		Plan:     plan,
		Verdict:  verdict,
		TargetOk: ok,
	}
}

// Run performs a full sync: fetch, reconcile, guard, mutate, record and notify.
// fetch, guard and mutation problems end up in the report, only a failure to
// deliver the report is returned as an error.
func (s Service) Run(ctx context.Context, rc RunContext) (*Report, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()
	span.SetAttributes(
		attribute.String("run", rc.Id),
		attribute.Bool("dry_run", rc.DryRun),
	)

	p := s.Preview(ctx, rc)
	Apply(ctx, s.target, rc, p.Target, p.Source, p.Plan, p.Verdict, p.Report)

	return p.Report, s.finish(ctx, p.Report)
}

// Wipe removes every contact from the target list regardless of the
// source, it bypasses the guard and is meant for starting over.
func (s Service) Wipe(ctx context.Context, rc RunContext) (*Report, error) {
	ctx, span := tracer.Start(ctx, "Wipe")
	defer span.End()

	report := NewReport(rc)
	target, ok := FetchTarget(ctx, s.target, rc, report)
	if ok {
		plan := Plan{
			ToAdd:    mapset.NewThreadUnsafeSet[string](),
			ToRemove: target.Contacts.Keys(),
		}
		slog.WarnContext(ctx, "removing every contact from list", "list", rc.ListName, "contacts", len(target.Contacts))
		Apply(ctx, s.target, rc, target, Population{}, plan, Verdict{AllowRemovals: true}, report)
	}

	return report, s.finish(ctx, report)
}

func (s Service) finish(ctx context.Context, report *Report) error {
	span := trace.SpanFromContext(ctx)
	recordMetrics(ctx, report)

	if s.history != nil {
		err := s.history.Record(ctx, history.Run{
			Id:          report.RunId,
			StartedAt:   report.StartedAt,
			SourceCount: report.SourceCount,
			TargetCount: report.TargetCount,
			Added:       len(report.Added),
			Removed:     len(report.Removed),
			Failures:    len(report.Diagnostics),
			Success:     report.Success(),
			DryRun:      report.DryRun,
		})
		if err != nil {
			slog.WarnContext(ctx, "failed to record run", "err", err)
		}
	}

	if !report.Success() {
		span.SetStatus(codes.Error, "run finished with errors")
	}

	subject := report.Subject(s.subjectPrefix)
	slog.InfoContext(ctx, "sending report", "subject", subject)
	err := s.notifier.Notify(ctx, subject, report.Body())
	if err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}
