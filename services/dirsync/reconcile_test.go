package dirsync

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

func TestReconcile(t *testing.T) {
	testCases := []struct {
		name   string
		source Population
		target Population
		add    []string
		remove []string
	}{
		{
			name:   "mixed",
			source: population("a", "b", "c"),
			target: population("b", "d"),
			add:    []string{"a", "c"},
			remove: []string{"d"},
		},
		{
			name:   "identical",
			source: population("a", "b"),
			target: population("a", "b"),
		},
		{
			name:   "empty target",
			source: population("x", "y"),
			target: Population{},
			add:    []string{"x", "y"},
		},
		{
			name:   "empty source",
			source: Population{},
			target: population("x", "y", "z"),
			remove: []string{"x", "y", "z"},
		},
		{
			name:   "both empty",
			source: Population{},
			target: Population{},
		},
		{
			name:   "keys are case sensitive",
			source: population("Alice@example.com"),
			target: population("alice@example.com"),
			add:    []string{"Alice@example.com"},
			remove: []string{"alice@example.com"},
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			plan := Reconcile(test.source, test.target)

			diff := cmp.Diff(test.add, plan.Adds(), cmpopts.EquateEmpty())
			if diff != "" {
				t.Fatal("adds", diff)
			}
			diff = cmp.Diff(test.remove, plan.Removes(), cmpopts.EquateEmpty())
			if diff != "" {
				t.Fatal("removes", diff)
			}
		})
	}
}

func TestReconcileInvariants(t *testing.T) {
	for n := 0; n < 20; n++ {
		source := Population{}
		target := Population{}
		for i := 0; i < n*3; i++ {
			email := fmt.Sprintf("user%d@example.com", i)
			if i%2 == 0 || i%5 == 0 {
				source[email] = Member{Email: email}
			}
			if i%3 == 0 || i%5 == 0 {
				target[email] = Member{Email: email}
			}
		}

		plan := Reconcile(source, target)
		require.Zero(t, plan.ToAdd.Intersect(plan.ToRemove).Cardinality(), "add and remove must be disjoint")

		for _, email := range plan.Adds() {
			require.Contains(t, source, email)
			require.NotContains(t, target, email)
		}
		for _, email := range plan.Removes() {
			require.Contains(t, target, email)
			require.NotContains(t, source, email)
		}

		// applying the plan converges on the source keys
		result := target.Keys().Difference(plan.ToRemove).Union(plan.ToAdd)
		require.True(t, result.Equal(source.Keys()))

		require.Zero(t, Reconcile(source, source).ToAdd.Cardinality())
		require.Zero(t, Reconcile(source, source).ToRemove.Cardinality())
	}
}
