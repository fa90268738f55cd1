package dirsync

import (
	"time"

	"github.com/mazen160/go-random"
)

type RunOptions struct {
	ExcludedGroups []string
	ListName       string
	// the limit sent with vbout listing requests
	ListLimit int
	Fields    FieldNames
	DryRun    bool
	// bypasses the mass-removal guard checks, but never the incomplete fetch check
	Force bool
}

// RunContext holds everything a single run needs to know, it is built once
// and passed by value through every phase.
type RunContext struct {
	Id        string
	StartedAt time.Time
	ListName  string
	ListLimit int
	Fields    FieldNames
	DryRun    bool
	Force     bool

	excluded map[string]struct{}
}

func NewRunContext(now time.Time, opts RunOptions) RunContext {
	id, err := random.String(12)
	if err != nil {
		id = now.Format("20060102T150405")
	}

	excluded := make(map[string]struct{}, len(opts.ExcludedGroups))
	for _, g := range opts.ExcludedGroups {
		excluded[g] = struct{}{}
	}

	fields := opts.Fields
	if fields == (FieldNames{}) {
		fields = DefaultFieldNames()
	}

	return RunContext{
		Id:        id,
		StartedAt: now,
		ListName:  opts.ListName,
		ListLimit: opts.ListLimit,
		Fields:    fields,
		DryRun:    opts.DryRun,
		Force:     opts.Force,
		excluded:  excluded,
	}
}

func (rc RunContext) Excluded(group string) bool {
	_, ok := rc.excluded[group]
	return ok
}
