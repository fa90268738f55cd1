package dirsync

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func applyPlan(t testing.TB, dir *fakeVbout, rc RunContext, source Population) *Report {
	ctx := context.Background()
	report := NewReport(rc)
	target, ok := FetchTarget(ctx, dir, rc, report)
	require.True(t, ok)
	report.SourceCount = len(source)

	plan := Reconcile(source, target.Contacts)
	Apply(ctx, dir, rc, target, source, plan, Verdict{AllowAdds: true, AllowRemovals: true}, report)
	return report
}

func TestApply(t *testing.T) {
	dir := newFakeVbout("keep@example.com", "old@example.com")
	source := Population{
		"keep@example.com": {Email: "keep@example.com"},
		"new@example.com": {
			Email:     "new@example.com",
			FirstName: "New",
			LastName:  "Person",
			Group:     "Acme",
			Created:   testCreated,
		},
	}

	report := applyPlan(t, dir, testRunContext(RunOptions{}), source)

	require.True(t, report.Success())
	require.Equal(t, []string{"new@example.com"}, report.Added)
	require.Equal(t, []string{"old@example.com"}, report.Removed)
	require.ElementsMatch(t, []string{"keep@example.com", "new@example.com"}, dir.emails())

	require.Len(t, dir.added, 1)
	req := dir.added[0]
	require.Equal(t, testListId, req.ListId)
	require.Equal(t, "active", req.Status)
	diff := cmp.Diff(map[string]string{
		"101": "New",
		"102": "Person",
		"103": "new@example.com",
		"104": "Acme",
		"105": "2023-05-17",
	}, req.Fields)
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestApplyContinuesAfterFailure(t *testing.T) {
	dir := newFakeVbout("x@example.com", "y@example.com", "z@example.com")
	dir.failDelete["y@example.com"] = true
	dir.failAdd["b@example.com"] = true

	source := population("a@example.com", "b@example.com", "c@example.com")
	report := applyPlan(t, dir, testRunContext(RunOptions{}), source)

	require.False(t, report.Success())
	require.Equal(t, []string{"x@example.com", "z@example.com"}, report.Removed)
	require.Equal(t, []string{"a@example.com", "c@example.com"}, report.Added)

	require.Len(t, report.Failures, 2)
	require.Equal(t, OpRemove, report.Failures[0].Op)
	require.Equal(t, "y@example.com", report.Failures[0].Email)
	require.Equal(t, OpAdd, report.Failures[1].Op)
	require.Equal(t, "b@example.com", report.Failures[1].Email)

	require.Len(t, report.Diagnostics, 2)
	for _, d := range report.Diagnostics {
		require.Equal(t, KindMutation, d.Kind)
	}
	require.Contains(t, report.Body(), "y@example.com")
	require.Contains(t, report.Body(), "b@example.com")
}

func TestApplyDryRun(t *testing.T) {
	dir := newFakeVbout("old@example.com")
	source := population("new@example.com")

	report := applyPlan(t, dir, testRunContext(RunOptions{DryRun: true}), source)

	require.True(t, report.Success())
	require.Equal(t, []string{"new@example.com"}, report.Added)
	require.Equal(t, []string{"old@example.com"}, report.Removed)
	require.Empty(t, dir.added)
	require.Empty(t, dir.deleted)
	require.Equal(t, []string{"old@example.com"}, dir.emails())
}

func TestApplyRespectsVerdict(t *testing.T) {
	ctx := context.Background()
	dir := newFakeVbout("old@example.com")
	rc := testRunContext(RunOptions{})
	report := NewReport(rc)
	target, ok := FetchTarget(ctx, dir, rc, report)
	require.True(t, ok)

	source := population("new@example.com")
	plan := Reconcile(source, target.Contacts)
	Apply(ctx, dir, rc, target, source, plan, Verdict{AllowAdds: true}, report)

	require.Equal(t, []string{"new@example.com"}, report.Added)
	require.Empty(t, report.Removed)
	require.Empty(t, dir.deleted)
}
