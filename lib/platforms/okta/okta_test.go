package okta

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestServer(t testing.TB, handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(ClientOptions{
		BaseUrl:   server.URL,
		ApiKey:    "test-key",
		PageLimit: 2,
	})
	return client, server
}

func TestListGroupsFollowsNextLink(t *testing.T) {
	var requests int
	var server *httptest.Server
	client, server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		require.Equal(t, "SSWS test-key", r.Header.Get("Authorization"))
		require.Equal(t, "/api/v1/groups", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("after") {
		case "":
			require.Equal(t, "2", r.URL.Query().Get("limit"))
			w.Header().Add("Link", fmt.Sprintf(`<%s/api/v1/groups?limit=2>; rel="self"`, server.URL))
			w.Header().Add("Link", fmt.Sprintf(`<%s/api/v1/groups?after=g2&limit=2>; rel="next"`, server.URL))
			fmt.Fprint(w, `[
				{"id": "g1", "type": "OKTA_GROUP", "profile": {"name": "Customers"}},
				{"id": "g2", "type": "OKTA_GROUP", "profile": {"name": "Partners"}}
			]`)
		case "g2":
			w.Header().Add("Link", fmt.Sprintf(`<%s/api/v1/groups?after=g2&limit=2>; rel="self"`, server.URL))
			fmt.Fprint(w, `[{"id": "g3", "type": "BUILT_IN", "profile": {"name": "Everyone"}}]`)
		default:
			t.Fatalf("unexpected cursor %s", r.URL.Query().Get("after"))
		}
	})

	groups, err := client.ListGroups(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, requests)
	require.Len(t, groups, 3)
	require.Equal(t, "Customers", groups[0].Name())
	require.Equal(t, "g3", groups[2].Id)
}

func TestListGroupMembers(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/groups/00g1/users", r.URL.Path)
		fmt.Fprint(w, `[
			{
				"id": "u1",
				"status": "ACTIVE",
				"created": "2021-06-24T16:39:18.000Z",
				"profile": {"login": "ada@example.com", "email": "ada@example.com", "firstName": "Ada", "lastName": "Lovelace"}
			},
			{
				"id": "u2",
				"status": "DEPROVISIONED",
				"created": "2020-01-02T03:04:05.000Z",
				"profile": {"login": "old@example.com", "firstName": "Old", "lastName": "User"}
			}
		]`)
	})

	users, err := client.ListGroupMembers(context.Background(), "00g1")
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, "ada@example.com", users[0].Profile.Login)
	require.Equal(t, time.Date(2021, 6, 24, 16, 39, 18, 0, time.UTC), users[0].Created.UTC())
	require.False(t, users[0].Deactivated())
	require.True(t, users[1].Deactivated())
}

func TestListMalformedPage(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"errorCode": "E0000001"}`)
	})

	_, err := client.ListGroups(context.Background())
	require.ErrorIs(t, err, ErrMalformedPage)
}

func TestListApiError(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"errorCode": "E0000011", "errorSummary": "Invalid token provided"}`)
	})

	_, err := client.ListGroupMembers(context.Background(), "00g1")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestListStopsOnLinkLoop(t *testing.T) {
	var server *httptest.Server
	client, server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Link", fmt.Sprintf(`<%s/api/v1/groups?after=same>; rel="next"`, server.URL))
		fmt.Fprint(w, `[]`)
	})

	_, err := client.ListGroups(context.Background())
	require.ErrorIs(t, err, ErrMalformedPage)
}
