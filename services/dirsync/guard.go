package dirsync

import (
	"errors"
	"fmt"
)

var ErrWipeRefused = errors.New("refusing to remove contacts")

type GuardOptions struct {
	// removals are skipped when the source holds fewer members, 0 disables
	MinSourceSize int `json:"min_source_size"`
	// the largest fraction of the target that a run may remove, 0 disables
	MaxRemoveRatio float64 `json:"max_remove_ratio"`
	// the largest fraction the source may shrink by compared to the
	// previous successful run, 0 disables
	MaxShrinkRatio float64 `json:"max_shrink_ratio"`
}

func DefaultGuardOptions() GuardOptions {
	return GuardOptions{
		MinSourceSize:  1,
		MaxRemoveRatio: 0.5,
		MaxShrinkRatio: 0.2,
	}
}

type Guard struct {
	opts GuardOptions
}

func NewGuard(opts GuardOptions) Guard {
	return Guard{opts: opts}
}

// Verdict says which mutation phases may run.
type Verdict struct {
	AllowAdds     bool
	AllowRemovals bool
	// one entry per refused check, each wraps ErrWipeRefused when removals were refused
	Reasons []error
}

// Check decides whether the plan may be applied. `previousSource` is the
// source size of the last successful run, 0 when unknown. every refusal
// is recorded on the report.
func (g Guard) Check(rc RunContext, report *Report, plan Plan, previousSource int) Verdict {
	v := Verdict{AllowAdds: true, AllowRemovals: true}

	refuse := func(format string, args ...any) {
		err := fmt.Errorf("%w: %s", ErrWipeRefused, fmt.Sprintf(format, args...))
		v.AllowRemovals = false
		v.Reasons = append(v.Reasons, err)
		report.Fail(KindGuard, "%s", err.Error())
	}

	if report.TargetIncomplete {
		v.AllowAdds = false
		v.AllowRemovals = false
		err := fmt.Errorf("target listing is incomplete, no changes were applied")
		v.Reasons = append(v.Reasons, err)
		report.Fail(KindGuard, "%s", err.Error())
		return v
	}
	if plan.ToRemove == nil || plan.ToRemove.Cardinality() == 0 {
		return v
	}
	if report.SourceIncomplete {
		refuse("source listing is incomplete, %d removals skipped", plan.ToRemove.Cardinality())
		return v
	}
	if rc.Force {
		return v
	}

	source := report.SourceCount
	target := report.TargetCount
	removals := plan.ToRemove.Cardinality()

	if source == 0 {
		refuse("source population is empty, this would remove all %d contacts", target)
		return v
	}
	if g.opts.MinSourceSize > 0 && source < g.opts.MinSourceSize {
		refuse("source population (%d) is below the minimum of %d", source, g.opts.MinSourceSize)
	}
	if g.opts.MaxRemoveRatio > 0 && target > 0 {
		ratio := float64(removals) / float64(target)
		if ratio > g.opts.MaxRemoveRatio {
			refuse("%d of %d contacts (%.0f%%) would be removed, the limit is %.0f%%",
				removals, target, ratio*100, g.opts.MaxRemoveRatio*100)
		}
	}
	if g.opts.MaxShrinkRatio > 0 && previousSource > 0 {
		floor := float64(previousSource) * (1 - g.opts.MaxShrinkRatio)
		if float64(source) < floor {
			refuse("source population shrank from %d to %d since the last successful run, "+
				"later runs compare against that run until one succeeds, "+
				"run sync --force once if the shrink is expected",
				previousSource, source)
		}
	}
	return v
}
