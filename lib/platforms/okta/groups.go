package okta

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

type GroupProfile struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Group struct {
	Id      string       `json:"id"`
	Type    string       `json:"type"`
	Created time.Time    `json:"created"`
	Profile GroupProfile `json:"profile"`
}

func (g Group) Name() string {
	return g.Profile.Name
}

func (c *Client) ListGroups(ctx context.Context) ([]Group, error) {
	return listAll[Group](ctx, c, "/api/v1/groups")
}

func (c *Client) ListGroupMembers(ctx context.Context, groupId string) ([]User, error) {
	return listAll[User](ctx, c, fmt.Sprintf("/api/v1/groups/%s/users", url.PathEscape(groupId)))
}
