package okta

import (
	"dirsync/lib/restyutil"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("platforms/okta")

// DefaultPageLimit is the largest page size okta allows for group member listings.
const DefaultPageLimit = 200

var ErrMalformedPage = errors.New("okta: page is not in the expected format")

// APIError is returned when okta responds with a non-2xx status.
type APIError struct {
	Url        string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("okta: %s responded with %d: %s", e.Url, e.StatusCode, e.Body)
}

type ClientOptions struct {
	BaseUrl   string
	ApiKey    string
	PageLimit int
	Timeout   time.Duration
	// optional, receives request/response dumps when debug logging is on
	Output restyutil.InstrumentOutput
}

type Client struct {
	http      *resty.Client
	pageLimit int
}

func NewClient(opts ClientOptions) *Client {
	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	client.SetHeader("Accept", "application/json")
	client.SetHeader("Content-Type", "application/json")
	client.SetHeader("Authorization", fmt.Sprintf("SSWS %s", opts.ApiKey))

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = time.Second * 30
	}
	client.SetTimeout(timeout)

	restyutil.InstrumentClient(client, tracer, opts.Output)

	pageLimit := opts.PageLimit
	if pageLimit <= 0 {
		pageLimit = DefaultPageLimit
	}
	return &Client{http: client, pageLimit: pageLimit}
}
