package dirsync

import (
	"context"
	"dirsync/lib/platforms/okta"
	"dirsync/lib/platforms/vbout"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
)

// GroupDirectory is the source of members, implemented by *okta.Client.
type GroupDirectory interface {
	ListGroups(ctx context.Context) ([]okta.Group, error)
	ListGroupMembers(ctx context.Context, groupId string) ([]okta.User, error)
}

// ContactDirectory is the target list, implemented by *vbout.Client.
type ContactDirectory interface {
	GetLists(ctx context.Context, limit int) (vbout.ListsPage, error)
	GetContacts(ctx context.Context, listId string, limit int) (vbout.ContactsPage, error)
	AddContact(ctx context.Context, req vbout.AddContactRequest) error
	DeleteContact(ctx context.Context, id, listId string) error
}

// FetchSource builds the source population from every non-excluded group.
// a member of several groups keeps the attributes of the last group listed.
func FetchSource(ctx context.Context, dir GroupDirectory, rc RunContext, report *Report) Population {
	ctx, span := tracer.Start(ctx, "FetchSource")
	defer span.End()

	population := Population{}

	groups, err := dir.ListGroups(ctx)
	if err != nil {
		span.RecordError(err)
		report.SourceIncomplete = true
		report.Fail(KindFetchShape, "failed to list source groups: %s", err.Error())
		return population
	}

	for _, group := range groups {
		if rc.Excluded(group.Name()) {
			slog.DebugContext(ctx, "skipping excluded group", "group", group.Name())
			continue
		}

		slog.InfoContext(ctx, "getting members of group", "group", group.Name())
		users, err := dir.ListGroupMembers(ctx, group.Id)
		if err != nil {
			span.RecordError(err)
			report.SourceIncomplete = true
			report.Fail(KindFetchShape, "failed to list members of group %q: %s", group.Name(), err.Error())
			continue
		}

		for _, u := range users {
			if u.Deactivated() {
				continue
			}
			if u.Profile.Login == "" {
				report.SourceIncomplete = true
				report.Fail(KindFetchShape, "user %s in group %q has no login", u.Id, group.Name())
				continue
			}
			population[u.Profile.Login] = Member{
				Email:     u.Profile.Login,
				FirstName: u.Profile.FirstName,
				LastName:  u.Profile.LastName,
				Group:     group.Name(),
				Created:   u.Created,
			}
		}
	}

	report.SourceCount = len(population)
	span.SetAttributes(attribute.Int("members", len(population)))
	return population
}

// TargetSnapshot is the state of the target list at fetch time.
type TargetSnapshot struct {
	ListId   string
	Fields   FieldMap
	Contacts Population
}

// FetchTarget finds the configured list, resolves its fields and lists its
// contacts. ok is false when any step failed, the snapshot must then not be
// used for mutation.
func FetchTarget(ctx context.Context, dir ContactDirectory, rc RunContext, report *Report) (snapshot TargetSnapshot, ok bool) {
	ctx, span := tracer.Start(ctx, "FetchTarget")
	defer span.End()

	snapshot.Contacts = Population{}
	fail := func(kind DiagnosticKind, format string, args ...any) (TargetSnapshot, bool) {
		report.TargetIncomplete = true
		report.Fail(kind, format, args...)
		return snapshot, false
	}

	lists, err := dir.GetLists(ctx, rc.ListLimit)
	if err != nil {
		span.RecordError(err)
		return fail(KindFetchShape, "failed to get target lists: %s", err.Error())
	}
	if lists.Count >= rc.ListLimit {
		return fail(
			KindPossibleTruncation,
			"received lists count (%d) is at or above the requested limit (%d), not every list may have been returned",
			lists.Count, rc.ListLimit,
		)
	}

	list, found := lists.FindList(rc.ListName)
	if !found {
		return fail(KindFetchShape, "target lists do not include the %q list", rc.ListName)
	}
	snapshot.ListId = string(list.Id)

	fields, err := BuildFieldMap(rc.ListName, list.Fields, rc.Fields)
	if err != nil {
		return fail(KindFetchShape, "%s", err.Error())
	}
	snapshot.Fields = fields

	contacts, err := dir.GetContacts(ctx, snapshot.ListId, rc.ListLimit)
	if err != nil {
		span.RecordError(err)
		return fail(KindFetchShape, "failed to get contacts of list %q: %s", rc.ListName, err.Error())
	}
	if contacts.Count >= rc.ListLimit {
		return fail(
			KindPossibleTruncation,
			"received contacts count (%d) is at or above the requested limit (%d), not every contact may have been returned",
			contacts.Count, rc.ListLimit,
		)
	}

	for _, c := range contacts.Items {
		if c.Email == "" {
			slog.WarnContext(ctx, "ignoring contact without email", "id", c.Id)
			continue
		}
		snapshot.Contacts[c.Email] = Member{
			Email:    c.Email,
			TargetId: string(c.Id),
		}
	}

	report.TargetCount = len(snapshot.Contacts)
	span.SetAttributes(attribute.Int("contacts", len(snapshot.Contacts)))
	return snapshot, true
}
