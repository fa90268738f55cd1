package vbout

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
)

const StatusActive = "active"

type Contact struct {
	Id     ID     `json:"id"`
	Email  string `json:"email"`
	Status string `json:"status"`
	ListId ID     `json:"listid"`
}

type ContactsPage struct {
	// the total number of contacts as declared by vbout
	Count int
	Items []Contact
}

type contactsData struct {
	Contacts *struct {
		Count *Count     `json:"count"`
		Items *[]Contact `json:"items"`
	} `json:"contacts"`
}

func (c *Client) GetContacts(ctx context.Context, listId string, limit int) (ContactsPage, error) {
	_, data, _, err := call[contactsData](
		ctx, "getcontacts",
		c.http.R().SetQueryParams(map[string]string{
			"listid": listId,
			"limit":  strconv.Itoa(limit),
		}),
		http.MethodGet, "/emailmarketing/getcontacts.json",
	)
	if err != nil {
		return ContactsPage{}, err
	}
	if data == nil || data.Contacts == nil || data.Contacts.Items == nil {
		return ContactsPage{}, fmt.Errorf("%w: getcontacts: expected \"data.contacts.items\"", ErrMalformedResponse)
	}

	page := ContactsPage{Items: *data.Contacts.Items, Count: len(*data.Contacts.Items)}
	if data.Contacts.Count != nil {
		page.Count = int(*data.Contacts.Count)
	}
	return page, nil
}

type AddContactRequest struct {
	ListId string
	Email  string
	// defaults to "active"
	Status string
	// field id -> value
	Fields map[string]string
}

func (c *Client) AddContact(ctx context.Context, req AddContactRequest) error {
	status := req.Status
	if status == "" {
		status = StatusActive
	}
	form := map[string]string{
		"email":  req.Email,
		"status": status,
		"listid": req.ListId,
	}
	for id, value := range req.Fields {
		form[fmt.Sprintf("fields[%s]", id)] = value
	}

	return c.mutate(ctx, "addcontact", form, "/emailmarketing/addcontact.json")
}

func (c *Client) DeleteContact(ctx context.Context, id, listId string) error {
	return c.mutate(ctx, "deletecontact", map[string]string{
		"id":     id,
		"listid": listId,
	}, "/emailmarketing/deletecontact.json")
}

func (c *Client) mutate(ctx context.Context, operation string, form map[string]string, path string) error {
	status, _, res, err := call[any](
		ctx, operation,
		c.http.R().SetFormData(form),
		http.MethodPost, path,
	)
	if err != nil {
		return err
	}
	if status != "ok" {
		return &StatusError{Operation: operation, StatusCode: res.StatusCode(), Body: res.String()}
	}
	return nil
}
