package restyutil

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRedactUrl(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{
			input:    "https://api.vbout.com/1/emailmarketing/getlists.json?key=secret&limit=10",
			expected: "https://api.vbout.com/1/emailmarketing/getlists.json?key=%3Credacted%3E&limit=10",
		},
		{
			input:    "https://example.okta.com/api/v1/groups?limit=200",
			expected: "https://example.okta.com/api/v1/groups?limit=200",
		},
		{
			input:    "https://example.com/?token=abc",
			expected: "https://example.com/?token=%3Credacted%3E",
		},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, RedactUrl(test.input))
	}
}

func TestFormatHeaders(t *testing.T) {
	headers := http.Header{}
	headers.Set("Authorization", "SSWS secret")
	headers.Set("Accept", "application/json")

	require.Equal(
		t,
		"Accept: application/json\nAuthorization: <redacted>",
		formatHeaders(headers),
	)
}
