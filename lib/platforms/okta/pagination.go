package okta

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/tomnomnom/linkheader"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// NextLink finds the target of the link with relation "next" among the given
// Link header values. ok is false when there are no more pages.
func NextLink(headers []string) (target string, ok bool) {
	for _, l := range linkheader.ParseMultiple(headers) {
		// a link may carry several space separated relation types
		for _, rel := range strings.Fields(l.Rel) {
			if strings.EqualFold(rel, "next") && l.URL != "" {
				return l.URL, true
			}
		}
	}
	return "", false
}

// listAll requests `path` and keeps following the "next" link relation until
// there is none, decoding every page as a JSON array of T.
func listAll[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	ctx, span := tracer.Start(ctx, fmt.Sprintf("list:%s", path))
	defer span.End()

	var out []T
	url := path
	seen := map[string]struct{}{}

	for page := 1; ; page++ {
		req := c.http.R().SetContext(ctx)
		if page == 1 {
			req.SetQueryParam("limit", strconv.Itoa(c.pageLimit))
		}
		res, err := req.Get(url)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to fetch")
			return out, err
		}
		if res.IsError() {
			err := &APIError{Url: url, StatusCode: res.StatusCode(), Body: res.String()}
			span.RecordError(err)
			span.SetStatus(codes.Error, "unexpected status")
			return out, err
		}

		var items []T
		err = json.Unmarshal(res.Body(), &items)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to parse page")
			return out, fmt.Errorf("%w: %s (page %d): %s", ErrMalformedPage, path, page, err.Error())
		}
		out = append(out, items...)

		next, ok := NextLink(res.Header().Values("Link"))
		if !ok {
			span.SetAttributes(
				attribute.Int("pages", page),
				attribute.Int("items", len(out)),
			)
			return out, nil
		}
		if _, loop := seen[next]; loop {
			err := fmt.Errorf("%w: %s links to an already visited page", ErrMalformedPage, path)
			span.SetStatus(codes.Error, err.Error())
			return out, err
		}
		seen[next] = struct{}{}
		url = next
	}
}
