package dirsync

import (
	"context"
	"dirsync/lib/platforms/vbout"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
)

// Apply removes then adds contacts one at a time. a failed call is recorded
// on the report and the next email is processed, nothing is retried.
// on a dry run the emails are recorded without calling the directory.
func Apply(
	ctx context.Context,
	dir ContactDirectory,
	rc RunContext,
	target TargetSnapshot,
	source Population,
	plan Plan,
	verdict Verdict,
	report *Report,
) {
	ctx, span := tracer.Start(ctx, "Apply")
	defer span.End()

	if verdict.AllowRemovals {
		for _, email := range plan.Removes() {
			contact := target.Contacts[email]
			if rc.DryRun {
				report.Removed = append(report.Removed, email)
				continue
			}

			slog.InfoContext(ctx, "removing contact", "email", email, "id", contact.TargetId)
			err := dir.DeleteContact(ctx, contact.TargetId, target.ListId)
			if err != nil {
				span.RecordError(err)
				report.recordFailure(OpRemove, email, err)
				continue
			}
			report.Removed = append(report.Removed, email)
		}
	}

	if verdict.AllowAdds {
		for _, email := range plan.Adds() {
			if rc.DryRun {
				report.Added = append(report.Added, email)
				continue
			}

			slog.InfoContext(ctx, "adding contact", "email", email)
			err := dir.AddContact(ctx, vbout.AddContactRequest{
				ListId: target.ListId,
				Email:  email,
				Status: vbout.StatusActive,
				Fields: target.Fields.Attributes(source[email]),
			})
			if err != nil {
				span.RecordError(err)
				report.recordFailure(OpAdd, email, err)
				continue
			}
			report.Added = append(report.Added, email)
		}
	}

	span.SetAttributes(
		attribute.Int("added", len(report.Added)),
		attribute.Int("removed", len(report.Removed)),
		attribute.Int("failures", len(report.Failures)),
	)
}
