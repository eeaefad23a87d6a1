package scorelookup

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	testCases := []struct {
		name     string
		status   int
		body     string
		expected Outcome
	}{
		{
			name:     "status 500 means no such candidate",
			status:   500,
			body:     "",
			expected: Outcome{Kind: NotFound},
		},
		{
			name:     "status 500 with body still means no such candidate",
			status:   500,
			body:     `{"ErrorMessage":"Object reference not set to an instance of an object."}`,
			expected: Outcome{Kind: NotFound},
		},
		{
			name:     "empty body",
			status:   200,
			body:     "",
			expected: Outcome{Kind: NotFound},
		},
		{
			name:     "null body",
			status:   200,
			body:     "null",
			expected: Outcome{Kind: NotFound},
		},
		{
			name:   "captcha mismatch, short phrasing",
			status: 200,
			body:   `{"ErrorMessage":"Mã xác nhận không khớp"}`,
			expected: Outcome{
				Kind:         InvalidCaptcha,
				ErrorMessage: "Mã xác nhận không khớp",
			},
		},
		{
			name:   "captcha mismatch, long phrasing",
			status: 200,
			body:   `{"ErrorMessage":"Yêu cầu không hợp lệ: Mã xác nhận không khớp"}`,
			expected: Outcome{
				Kind:         InvalidCaptcha,
				ErrorMessage: "Yêu cầu không hợp lệ: Mã xác nhận không khớp",
			},
		},
		{
			name:   "unknown error envelope",
			status: 200,
			body:   `{"ErrorMessage":"Hệ thống đang bận"}`,
			expected: Outcome{
				Kind:         TransientFailure,
				ErrorMessage: "Hệ thống đang bận",
			},
		},
		{
			name:     "empty error envelope",
			status:   200,
			body:     `{}`,
			expected: Outcome{Kind: NotFound},
		},
		{
			name:   "undecodable json object",
			status: 200,
			body:   `{"ErrorMessage":`,
			expected: Outcome{
				Kind:         TransientFailure,
				ErrorMessage: `{"ErrorMessage":`,
			},
		},
		{
			name:     "plain text hit",
			status:   200,
			body:     "Toán:8.2 Ngữ văn:7.75",
			expected: Outcome{Kind: Found, RawText: "Toán:8.2 Ngữ văn:7.75"},
		},
		{
			name:     "json-quoted text hit",
			status:   200,
			body:     `"Toán:8.2 Ngữ văn:7.75"`,
			expected: Outcome{Kind: Found, RawText: "Toán:8.2 Ngữ văn:7.75"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, Classify(tc.status, tc.body))
		})
	}
}
