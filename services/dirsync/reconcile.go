package dirsync

import (
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
)

// Plan is the outcome of reconciliation, the two sets are always disjoint.
type Plan struct {
	ToAdd    mapset.Set[string]
	ToRemove mapset.Set[string]
}

// Reconcile computes which source members are missing from the target and
// which target contacts no longer exist in the source. members present on
// both sides are left alone even when their attributes differ.
//
// an empty source yields every target key in ToRemove.
func Reconcile(source, target Population) Plan {
	sourceKeys := source.Keys()
	targetKeys := target.Keys()
	return Plan{
		ToAdd:    sourceKeys.Difference(targetKeys),
		ToRemove: targetKeys.Difference(sourceKeys),
	}
}

func sorted(set mapset.Set[string]) []string {
	if set == nil {
		return nil
	}
	out := set.ToSlice()
	slices.Sort(out)
	return out
}

// Adds returns ToAdd in lexical order.
func (p Plan) Adds() []string {
	return sorted(p.ToAdd)
}

// Removes returns ToRemove in lexical order.
func (p Plan) Removes() []string {
	return sorted(p.ToRemove)
}
