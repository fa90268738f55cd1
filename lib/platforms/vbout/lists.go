package vbout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

type List struct {
	Id     ID     `json:"id"`
	Name   string `json:"name"`
	Fields Fields `json:"fields"`
}

// Fields maps field id -> field name. lists without custom fields come back
// with an empty JSON array instead of an object.
type Fields map[string]string

func (f *Fields) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var items []json.RawMessage
		err := json.Unmarshal(data, &items)
		if err != nil {
			return err
		}
		if len(items) > 0 {
			return fmt.Errorf("%w: fields: expected an object, got a non-empty array", ErrMalformedResponse)
		}
		*f = Fields{}
		return nil
	}
	var m map[string]string
	err := json.Unmarshal(data, &m)
	if err != nil {
		return err
	}
	*f = m
	return nil
}

type ListsPage struct {
	// the total number of lists as declared by vbout
	Count int
	Items []List
}

type listsData struct {
	Lists *struct {
		Count *Count  `json:"count"`
		Items *[]List `json:"items"`
	} `json:"lists"`
}

func (c *Client) GetLists(ctx context.Context, limit int) (ListsPage, error) {
	_, data, _, err := call[listsData](
		ctx, "getlists",
		c.http.R().SetQueryParam("limit", strconv.Itoa(limit)),
		http.MethodGet, "/emailmarketing/getlists.json",
	)
	if err != nil {
		return ListsPage{}, err
	}
	if data == nil || data.Lists == nil || data.Lists.Items == nil {
		return ListsPage{}, fmt.Errorf("%w: getlists: expected \"data.lists.items\"", ErrMalformedResponse)
	}

	page := ListsPage{Items: *data.Lists.Items, Count: len(*data.Lists.Items)}
	if data.Lists.Count != nil {
		page.Count = int(*data.Lists.Count)
	}
	return page, nil
}

// FindList returns the list with the exact given name.
func (p ListsPage) FindList(name string) (List, bool) {
	for _, l := range p.Items {
		if l.Name == name {
			return l, true
		}
	}
	return List{}, false
}
