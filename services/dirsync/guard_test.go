package dirsync

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGuard(t *testing.T) {
	testCases := []struct {
		name             string
		opts             GuardOptions
		force            bool
		source           Population
		target           Population
		sourceIncomplete bool
		targetIncomplete bool
		previous         int

		allowAdds     bool
		allowRemovals bool
	}{
		{
			name:          "no removals",
			opts:          DefaultGuardOptions(),
			source:        population("a", "b"),
			target:        population("a"),
			allowAdds:     true,
			allowRemovals: true,
		},
		{
			name:          "small removal",
			opts:          DefaultGuardOptions(),
			source:        population("a", "b", "c"),
			target:        population("a", "b", "c", "d"),
			allowAdds:     true,
			allowRemovals: true,
		},
		{
			name:          "empty source refuses full wipe",
			opts:          GuardOptions{},
			source:        Population{},
			target:        population("a", "b", "c"),
			allowAdds:     true,
			allowRemovals: false,
		},
		{
			name:          "forced full wipe",
			opts:          DefaultGuardOptions(),
			force:         true,
			source:        Population{},
			target:        population("a", "b", "c"),
			allowAdds:     true,
			allowRemovals: true,
		},
		{
			name:          "remove ratio exceeded",
			opts:          DefaultGuardOptions(),
			source:        population("a"),
			target:        population("a", "b", "c", "d"),
			allowAdds:     true,
			allowRemovals: false,
		},
		{
			name:          "below minimum source size",
			opts:          GuardOptions{MinSourceSize: 5},
			source:        population("a", "b"),
			target:        population("a", "b", "c"),
			allowAdds:     true,
			allowRemovals: false,
		},
		{
			name:          "shrank since previous run",
			opts:          DefaultGuardOptions(),
			source:        population("a", "b", "c", "d", "e", "f", "g"),
			target:        population("a", "b", "c", "d", "e", "f", "g", "h"),
			previous:      10,
			allowAdds:     true,
			allowRemovals: false,
		},
		{
			name:             "incomplete source is never forced",
			opts:             DefaultGuardOptions(),
			force:            true,
			source:           population("a"),
			target:           population("a", "b"),
			sourceIncomplete: true,
			allowAdds:        true,
			allowRemovals:    false,
		},
		{
			name:             "incomplete target applies nothing",
			opts:             DefaultGuardOptions(),
			source:           population("a", "b"),
			target:           Population{},
			targetIncomplete: true,
			allowAdds:        false,
			allowRemovals:    false,
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			rc := testRunContext(RunOptions{Force: test.force})
			report := NewReport(rc)
			report.SourceCount = len(test.source)
			report.TargetCount = len(test.target)
			report.SourceIncomplete = test.sourceIncomplete
			report.TargetIncomplete = test.targetIncomplete

			plan := Reconcile(test.source, test.target)
			verdict := NewGuard(test.opts).Check(rc, report, plan, test.previous)

			require.Equal(t, test.allowAdds, verdict.AllowAdds)
			require.Equal(t, test.allowRemovals, verdict.AllowRemovals)

			refused := !test.allowAdds || !test.allowRemovals
			require.Equal(t, refused, !report.Success(), "a refusal must fail the run")
			if refused {
				require.NotEmpty(t, verdict.Reasons)
				for _, d := range report.Diagnostics {
					require.Equal(t, KindGuard, d.Kind)
				}
			}
			if !test.allowRemovals && test.allowAdds {
				require.True(t, errors.Is(verdict.Reasons[0], ErrWipeRefused))
			}
		})
	}
}
