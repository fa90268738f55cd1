package vbout

import (
	"bytes"
	"context"
	"dirsync/lib/restyutil"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("platforms/vbout")

const DefaultBaseUrl = "https://api.vbout.com/1"

// the api returns 100 results unless told otherwise, asking for a very
// large limit means any count at or above it signals a truncated listing.
const DefaultLimit = 1000000

var ErrMalformedResponse = errors.New("vbout: response is not in the expected format")

// StatusError is returned when vbout rejects a request, either with a
// non-2xx status or with a response header status other than "ok".
type StatusError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("vbout: %s failed (http %d): %s", e.Operation, e.StatusCode, e.Body)
}

// ID holds identifiers that vbout serializes either as strings or as numbers.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		err := json.Unmarshal(data, &s)
		if err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	err := json.Unmarshal(data, &n)
	if err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// Count holds counts that vbout serializes either as strings or as numbers.
type Count int

func (c *Count) UnmarshalJSON(data []byte) error {
	var id ID
	err := id.UnmarshalJSON(data)
	if err != nil {
		return err
	}
	if id == "" {
		*c = 0
		return nil
	}
	n, err := strconv.Atoi(string(id))
	if err != nil {
		return err
	}
	*c = Count(n)
	return nil
}

type responseHeader struct {
	Status string `json:"status"`
}

type envelope[T any] struct {
	Response *struct {
		Header *responseHeader `json:"header"`
		Data   *T              `json:"data"`
	} `json:"response"`
}

type ClientOptions struct {
	BaseUrl string
	ApiKey  string
	Timeout time.Duration
	// optional, receives request/response dumps when debug logging is on
	Output restyutil.InstrumentOutput
}

type Client struct {
	http *resty.Client
}

func NewClient(opts ClientOptions) *Client {
	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = DefaultBaseUrl
	}

	client := resty.New()
	client.SetBaseURL(baseUrl)
	client.SetHeader("Accept", "application/json")
	client.SetQueryParam("key", opts.ApiKey)

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = time.Second * 60
	}
	client.SetTimeout(timeout)

	restyutil.InstrumentClient(client, tracer, opts.Output)

	return &Client{http: client}
}

// call performs the request and decodes the response envelope, returning
// the header status together with the decoded data (which may be nil).
func call[T any](ctx context.Context, operation string, req *resty.Request, method, path string) (string, *T, *resty.Response, error) {
	ctx, span := tracer.Start(ctx, operation)
	defer span.End()

	res, err := req.SetContext(ctx).Execute(method, path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return "", nil, res, err
	}
	if res.IsError() {
		err := &StatusError{Operation: operation, StatusCode: res.StatusCode(), Body: res.String()}
		span.RecordError(err)
		span.SetStatus(codes.Error, "unexpected status")
		return "", nil, res, err
	}

	var body envelope[T]
	err = json.Unmarshal(res.Body(), &body)
	if err != nil || body.Response == nil {
		err = fmt.Errorf("%w: %s: expected a \"response\" object: %s", ErrMalformedResponse, operation, res.String())
		span.SetStatus(codes.Error, "failed to parse json response")
		return "", nil, res, err
	}

	status := ""
	if body.Response.Header != nil {
		status = body.Response.Header.Status
	}
	return status, body.Response.Data, res, nil
}
