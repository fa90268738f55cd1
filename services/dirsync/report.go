package dirsync

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

type DiagnosticKind int

const (
	// a response was missing its expected structure
	KindFetchShape DiagnosticKind = iota
	// a listing returned as many records as the requested limit
	KindPossibleTruncation
	// a single create or delete call failed
	KindMutation
	// a mutation phase was skipped to prevent mass removal
	KindGuard
)

func (k DiagnosticKind) String() string {
	switch k {
	case KindFetchShape:
		return "fetch"
	case KindPossibleTruncation:
		return "truncation"
	case KindMutation:
		return "mutation"
	case KindGuard:
		return "guard"
	}
	return "unknown"
}

type Diagnostic struct {
	Kind    DiagnosticKind
	Message string
}

type Operation string

const (
	OpAdd    Operation = "add"
	OpRemove Operation = "remove"
)

type Failure struct {
	Op    Operation
	Email string
	Err   error
}

// Report accumulates everything that happened during a run.
type Report struct {
	RunId     string
	StartedAt time.Time
	DryRun    bool

	SourceCount      int
	TargetCount      int
	SourceIncomplete bool
	TargetIncomplete bool

	// emails changed in the target, or that would have been on a dry run
	Added   []string
	Removed []string

	Failures    []Failure
	Diagnostics []Diagnostic
	Hints       []Hint

	failed bool
}

func NewReport(rc RunContext) *Report {
	return &Report{
		RunId:     rc.Id,
		StartedAt: rc.StartedAt,
		DryRun:    rc.DryRun,
	}
}

// Fail records a diagnostic and marks the run as failed.
func (r *Report) Fail(kind DiagnosticKind, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	slog.Warn("sync diagnostic", "run", r.RunId, "kind", kind.String(), "message", msg)
	r.Diagnostics = append(r.Diagnostics, Diagnostic{Kind: kind, Message: msg})
	r.failed = true
}

func (r *Report) recordFailure(op Operation, email string, err error) {
	r.Failures = append(r.Failures, Failure{Op: op, Email: email, Err: err})
	r.Fail(KindMutation, "failed to %s contact %s: %s", op, email, err.Error())
}

// Success is true iff nothing was recorded as failed during fetch, guard or mutation.
func (r *Report) Success() bool {
	return !r.failed
}

func (r *Report) status() string {
	if r.Success() {
		return "Success"
	}
	return "ERROR"
}

func (r *Report) Subject(prefix string) string {
	status := r.status()
	if r.DryRun {
		status += " (dry run)"
	}
	if prefix == "" {
		return status
	}
	return fmt.Sprintf("%s - %s", prefix, status)
}

func writeSection(out *strings.Builder, title string, lines []string) {
	out.WriteString(title)
	out.WriteString(":\n")
	for _, l := range lines {
		out.WriteString(l)
		out.WriteString("\n")
	}
	out.WriteString("\n")
}

func (r *Report) Body() string {
	var out strings.Builder

	fmt.Fprintf(&out, "STATUS: %s\n\n", r.status())
	if r.DryRun {
		out.WriteString("DRY RUN: no changes were made to the target directory.\n\n")
	}

	if len(r.Diagnostics) > 0 {
		lines := make([]string, len(r.Diagnostics))
		for i, d := range r.Diagnostics {
			lines[i] = fmt.Sprintf("[%s] %s", d.Kind, d.Message)
		}
		writeSection(&out, "ERRORS", lines)
	}

	addedTitle, removedTitle := "USERS ADDED", "USERS DELETED"
	if r.DryRun {
		addedTitle, removedTitle = "USERS TO ADD", "USERS TO DELETE"
	}
	writeSection(&out, addedTitle, r.Added)
	writeSection(&out, removedTitle, r.Removed)

	if len(r.Hints) > 0 {
		lines := make([]string, len(r.Hints))
		for i, h := range r.Hints {
			lines[i] = fmt.Sprintf("%s -> %s (%.2f)", h.Removed, h.Added, h.Similarity)
		}
		writeSection(&out, "POSSIBLE ADDRESS CHANGES", lines)
	}

	fmt.Fprintf(
		&out, "source members: %d, target contacts: %d, run: %s\n",
		r.SourceCount, r.TargetCount, r.RunId,
	)
	return out.String()
}
