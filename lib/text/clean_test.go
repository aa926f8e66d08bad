package text

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name           string
		token          string
		lowercase      bool
		expectedCore   string
		expectedPrefix string
		expectedSuffix string
	}{
		{
			name:           "empty string",
			token:          "",
			lowercase:      true,
			expectedCore:   "",
			expectedPrefix: "",
			expectedSuffix: "",
		},
		{
			name:           "mixed ascii and full-width punctuation, lowercased",
			token:          ", Hello, World，大家！!*•-&",
			lowercase:      true,
			expectedCore:   "hello, world，大家！",
			expectedPrefix: ", ",
			expectedSuffix: "!*•-&",
		},
		{
			name:           "mixed ascii and full-width punctuation, case kept",
			token:          "Hello, World，大家！!*•-&",
			lowercase:      false,
			expectedCore:   "Hello, World，大家！",
			expectedPrefix: "",
			expectedSuffix: "!*•-&",
		},
		{
			name:           "trailing full stop",
			token:          "pictorials.",
			lowercase:      false,
			expectedCore:   "pictorials",
			expectedPrefix: "",
			expectedSuffix: ".",
		},
		{
			name:           "internal apostrophe is kept",
			token:          "someone's",
			lowercase:      true,
			expectedCore:   "someone's",
			expectedPrefix: "",
			expectedSuffix: "",
		},
		{
			name:           "typographic quotes and ellipsis",
			token:          "“Versatile…”",
			lowercase:      true,
			expectedCore:   "versatile",
			expectedPrefix: "“",
			expectedSuffix: "…”",
		},
		{
			name:           "only decoration",
			token:          "--*--",
			lowercase:      true,
			expectedCore:   "",
			expectedPrefix: "--*--",
			expectedSuffix: "",
		},
		{
			name:           "cjk punctuation is never stripped",
			token:          "「大家」。",
			lowercase:      true,
			expectedCore:   "「大家」。",
			expectedPrefix: "",
			expectedSuffix: "",
		},
		{
			name:           "digits stay in the core",
			token:          "(1984)",
			lowercase:      false,
			expectedCore:   "1984",
			expectedPrefix: "(",
			expectedSuffix: ")",
		},
	}
	for _, tt := range tests {
		t.Log(tt.name)

		core, prefix, suffix := Clean(tt.token, tt.lowercase)
		assert.Equal(t, tt.expectedCore, core, tt.name)
		assert.Equal(t, tt.expectedPrefix, prefix, tt.name)
		assert.Equal(t, tt.expectedSuffix, suffix, tt.name)
	}
}

func TestCleanRoundTrip(t *testing.T) {
	tokens := []string{
		"",
		"word",
		"Word.",
		"(Hello)",
		"...",
		"“",
		"don't",
		"«Bonjour»",
		"ÉTÉ!",
		"\xffbroken\xfe,",
		"in someone's pocket,",
	}
	for _, token := range tokens {
		core, prefix, suffix := Clean(token, false)
		assert.Equal(t, token, prefix+core+suffix, token)

		lowerCore, lowerPrefix, lowerSuffix := Clean(token, true)
		assert.Equal(t, prefix, lowerPrefix, token)
		assert.Equal(t, suffix, lowerSuffix, token)
		assert.Equal(t, strings.ToLower(core), lowerCore, token)
	}
}

func TestIsDecoration(t *testing.T) {
	for _, r := range ".,;:!?\"'()[]{}“”‘’—–…" {
		assert.True(t, IsDecoration(r), string(r))
	}
	for _, r := range "aZ9é漢，！" {
		assert.False(t, IsDecoration(r), string(r))
	}
}
