package encoder

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCustomOptions(t *testing.T) {
	for _, tc := range []struct {
		name     string
		input    string
		expected CustomOptions
		errors   int
	}{
		{
			name:  "quoted_value",
			input: `-b:v=5000k -x=" a b "`,
			expected: CustomOptions{
				{Key: "b:v", Value: "5000k"},
				{Key: "x", Value: " a b "},
			},
		},
		{
			name:   "no_equals",
			input:  `-badtoken`,
			errors: 1,
		},
		{
			name:   "no_dash",
			input:  `bad=flag`,
			errors: 1,
		},
		{
			name:  "first_equals_wins",
			input: `-x264-params=keyint=60:min-keyint=60`,
			expected: CustomOptions{
				{Key: "x264-params", Value: "keyint=60:min-keyint=60"},
			},
		},
		{
			name:  "nested_quotes",
			input: `-metadata="title='a b'"`,
			expected: CustomOptions{
				{Key: "metadata", Value: "title=a b'"},
			},
		},
		{
			name:  "deeply_nested_quotes",
			input: `-a="1'2"3"4'5" -b='x"y"'`,
			expected: CustomOptions{
				{Key: "a", Value: `12"3"4'5`},
				{Key: "b", Value: `xy"`},
			},
		},
		{
			name:  "escapes",
			input: `-a=\"x\" -b=tab\there -c=q\?`,
			expected: CustomOptions{
				{Key: "a", Value: `"x"`},
				{Key: "b", Value: "tab\there"},
				{Key: "c", Value: "q?"},
			},
		},
		{
			name:  "unsupported_escapes",
			input: `-a=\101 -b=\x41z -c=\u0041`,
			expected: CustomOptions{
				{Key: "a", Value: "01"},
				{Key: "b", Value: "z"},
				{Key: "c", Value: "u0041"},
			},
		},
		{
			name:  "unterminated_quote",
			input: `-a=1 -b="2 3`,
			expected: CustomOptions{
				{Key: "a", Value: "1"},
				{Key: "b", Value: "2 3"},
			},
		},
		{
			name:  "extra_spaces",
			input: `   -a=1    -b=2  `,
			expected: CustomOptions{
				{Key: "a", Value: "1"},
				{Key: "b", Value: "2"},
			},
		},
		{
			name:  "empty",
			input: ``,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			opts, errs := ParseCustomOptions(tc.input)
			require.Equal(t, tc.expected, opts)
			require.Len(t, errs, tc.errors)
			for _, err := range errs {
				require.ErrorAs(t, err, &ErrMalformedOption{})
			}
		})
	}
}
