package dirsync

import (
	"context"
	"dirsync/lib/platforms/okta"
	"dirsync/lib/platforms/vbout"
	"fmt"
	"sync"
	"time"
)

type fakeGroup struct {
	group   okta.Group
	members []okta.User
	err     error
}

type fakeOkta struct {
	groups    []fakeGroup
	listErr   error
	requested []string
}

func (f *fakeOkta) ListGroups(ctx context.Context) ([]okta.Group, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]okta.Group, len(f.groups))
	for i, g := range f.groups {
		out[i] = g.group
	}
	return out, nil
}

func (f *fakeOkta) ListGroupMembers(ctx context.Context, groupId string) ([]okta.User, error) {
	f.requested = append(f.requested, groupId)
	for _, g := range f.groups {
		if g.group.Id == groupId {
			return g.members, g.err
		}
	}
	return nil, fmt.Errorf("group %s not found", groupId)
}

func group(id, name string, members ...okta.User) fakeGroup {
	return fakeGroup{
		group: okta.Group{
			Id:      id,
			Type:    "OKTA_GROUP",
			Profile: okta.GroupProfile{Name: name},
		},
		members: members,
	}
}

var testCreated = time.Date(2023, 5, 17, 22, 30, 0, 0, time.UTC)

func user(login, status string) okta.User {
	return okta.User{
		Id:      "u-" + login,
		Status:  status,
		Created: testCreated,
		Profile: okta.UserProfile{
			Login:     login,
			Email:     login,
			FirstName: "First " + login,
			LastName:  "Last " + login,
		},
	}
}

const testListId = "42"

var testListFields = map[string]string{
	"101": "First Name",
	"102": "Last Name",
	"103": "Email Address",
	"104": "Customer",
	"105": "Activated",
	"106": "Phone",
}

type fakeVbout struct {
	mutex sync.Mutex

	lists      []vbout.List
	listsCount int
	listsErr   error

	contacts      map[string][]vbout.Contact
	contactsCount int
	contactsErr   error

	failAdd    map[string]bool
	failDelete map[string]bool

	added   []vbout.AddContactRequest
	deleted []string
	nextId  int
}

func newFakeVbout(emails ...string) *fakeVbout {
	f := &fakeVbout{
		lists: []vbout.List{
			{Id: "7", Name: "Other"},
			{Id: testListId, Name: "Customers", Fields: testListFields},
		},
		contacts:   map[string][]vbout.Contact{},
		failAdd:    map[string]bool{},
		failDelete: map[string]bool{},
		nextId:     1000,
	}
	for _, e := range emails {
		f.insert(e)
	}
	return f
}

func (f *fakeVbout) insert(email string) {
	f.nextId++
	f.contacts[testListId] = append(f.contacts[testListId], vbout.Contact{
		Id:     vbout.ID(fmt.Sprint(f.nextId)),
		Email:  email,
		Status: "Active",
		ListId: testListId,
	})
}

func (f *fakeVbout) emails() []string {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	var out []string
	for _, c := range f.contacts[testListId] {
		out = append(out, c.Email)
	}
	return out
}

func (f *fakeVbout) GetLists(ctx context.Context, limit int) (vbout.ListsPage, error) {
	if f.listsErr != nil {
		return vbout.ListsPage{}, f.listsErr
	}
	count := len(f.lists)
	if f.listsCount > 0 {
		count = f.listsCount
	}
	return vbout.ListsPage{Count: count, Items: f.lists}, nil
}

func (f *fakeVbout) GetContacts(ctx context.Context, listId string, limit int) (vbout.ContactsPage, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if f.contactsErr != nil {
		return vbout.ContactsPage{}, f.contactsErr
	}
	items := append([]vbout.Contact(nil), f.contacts[listId]...)
	count := len(items)
	if f.contactsCount > 0 {
		count = f.contactsCount
	}
	return vbout.ContactsPage{Count: count, Items: items}, nil
}

func (f *fakeVbout) AddContact(ctx context.Context, req vbout.AddContactRequest) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if f.failAdd[req.Email] {
		return &vbout.StatusError{Operation: "addcontact", StatusCode: 200, Body: "error"}
	}
	f.added = append(f.added, req)
	f.insert(req.Email)
	return nil
}

func (f *fakeVbout) DeleteContact(ctx context.Context, id, listId string) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	contacts := f.contacts[listId]
	for i, c := range contacts {
		if string(c.Id) != id {
			continue
		}
		if f.failDelete[c.Email] {
			return &vbout.StatusError{Operation: "deletecontact", StatusCode: 500, Body: "error"}
		}
		f.contacts[listId] = append(contacts[:i:i], contacts[i+1:]...)
		f.deleted = append(f.deleted, c.Email)
		return nil
	}
	return fmt.Errorf("contact %s not found in list %s", id, listId)
}

func testRunContext(opts RunOptions) RunContext {
	if opts.ListName == "" {
		opts.ListName = "Customers"
	}
	if opts.ListLimit == 0 {
		opts.ListLimit = 1000
	}
	return NewRunContext(time.Date(2024, 4, 2, 9, 0, 0, 0, time.UTC), opts)
}

func population(emails ...string) Population {
	out := Population{}
	for _, e := range emails {
		out[e] = Member{Email: e}
	}
	return out
}
