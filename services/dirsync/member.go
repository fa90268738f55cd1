package dirsync

import (
	"time"

	mapset "github.com/deckarep/golang-set/v2"
)

// Member is a single person as seen by either directory, keyed by email.
type Member struct {
	Email     string
	FirstName string
	LastName  string
	// the okta group the member was last seen in
	Group   string
	Created time.Time
	// only set once the member exists in the target directory
	TargetId string
}

// Population maps an email (case-sensitive, as received) to its member.
type Population map[string]Member

func (p Population) Keys() mapset.Set[string] {
	keys := mapset.NewThreadUnsafeSetWithSize[string](len(p))
	for k := range p {
		keys.Add(k)
	}
	return keys
}
