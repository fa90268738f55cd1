package dirsync

import (
	"dirsync/lib/timezone"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBuildFieldMap(t *testing.T) {
	fields := map[string]string{
		"12": "Customer",
		"11": "Customer",
		"10": "First Name",
		"13": "Last Name",
	}

	names := FieldNames{
		FirstName: "First Name",
		LastName:  "Last Name",
		Customer:  "Customer",
	}
	m, err := BuildFieldMap("Customers", fields, names)
	require.NoError(t, err)
	require.Equal(t, FieldMap{FirstName: "10", LastName: "13", Customer: "11"}, m)

	names.Activated = "Activated"
	_, err = BuildFieldMap("Customers", fields, names)
	var missing *MissingFieldError
	require.True(t, errors.As(err, &missing))
	require.Equal(t, "Activated", missing.Field)
	require.Equal(t, "Customers", missing.List)
}

func TestFieldMapAttributes(t *testing.T) {
	m := FieldMap{FirstName: "1", Customer: "4", Activated: "5"}
	attrs := m.Attributes(Member{
		Email:     "a@example.com",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Group:     "Acme",
		Created:   testCreated,
	})
	require.Equal(t, map[string]string{
		"1": "Ada",
		"4": "Acme",
		"5": "2023-05-17",
	}, attrs)

	// members without a creation time get an empty date
	attrs = m.Attributes(Member{Email: "b@example.com"})
	require.Equal(t, "", attrs["5"])
}

func TestActivatedDateIgnoresReportTimezone(t *testing.T) {
	require.NoError(t, timezone.Load("Asia/Tokyo"))
	defer func() { timezone.Location = time.UTC }()

	m := FieldMap{Activated: "5"}
	// 22:30 UTC is already the next day in Tokyo
	attrs := m.Attributes(Member{Email: "a@example.com", Created: testCreated})
	require.Equal(t, "2023-05-17", attrs["5"])

	created := time.Date(2023, 5, 17, 1, 0, 0, 0, time.FixedZone("PDT", -7*60*60))
	attrs = m.Attributes(Member{Email: "b@example.com", Created: created})
	require.Equal(t, "2023-05-17", attrs["5"])
}
