package dirsync

import (
	"fmt"
	"slices"
	"time"
)

// FieldNames are the display names of the target list fields that member
// attributes are written to. an empty name leaves that attribute unmapped.
type FieldNames struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Customer  string `json:"customer"`
	Activated string `json:"activated"`
}

func DefaultFieldNames() FieldNames {
	return FieldNames{
		FirstName: "First Name",
		LastName:  "Last Name",
		Email:     "Email Address",
		Customer:  "Customer",
		Activated: "Activated",
	}
}

// FieldMap holds the target field id for every mapped attribute.
type FieldMap struct {
	FirstName string
	LastName  string
	Email     string
	Customer  string
	Activated string
}

type MissingFieldError struct {
	List  string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("list %q has no field named %q", e.List, e.Field)
}

// BuildFieldMap resolves field names to ids given the list's id -> name
// fields. when a name appears more than once the lowest id wins.
func BuildFieldMap(list string, fields map[string]string, names FieldNames) (FieldMap, error) {
	ids := make([]string, 0, len(fields))
	for id := range fields {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	byName := make(map[string]string, len(fields))
	for _, id := range ids {
		name := fields[id]
		if _, exists := byName[name]; !exists {
			byName[name] = id
		}
	}

	var out FieldMap
	targets := []struct {
		name string
		dst  *string
	}{
		{names.FirstName, &out.FirstName},
		{names.LastName, &out.LastName},
		{names.Email, &out.Email},
		{names.Customer, &out.Customer},
		{names.Activated, &out.Activated},
	}
	for _, t := range targets {
		if t.name == "" {
			continue
		}
		id, ok := byName[t.name]
		if !ok {
			return FieldMap{}, &MissingFieldError{List: list, Field: t.name}
		}
		*t.dst = id
	}
	return out, nil
}

// Attributes renders a member as field id -> value pairs.
func (f FieldMap) Attributes(m Member) map[string]string {
	out := map[string]string{}
	set := func(id, value string) {
		if id != "" {
			out[id] = value
		}
	}
	set(f.FirstName, m.FirstName)
	set(f.LastName, m.LastName)
	set(f.Email, m.Email)
	set(f.Customer, m.Group)
	set(f.Activated, activatedDate(m.Created))
	return out
}

// activatedDate is the UTC calendar date of the okta creation timestamp,
// independent of the configured report timezone.
func activatedDate(created time.Time) string {
	if created.IsZero() {
		return ""
	}
	return created.UTC().Format(time.DateOnly)
}
