package keypath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePointer(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "single key",
			input:    "sourceLocationPrefix",
			expected: "/sourceLocationPrefix",
		},
		{
			name:     "dotted keys",
			input:    "foo.bar.baz",
			expected: "/foo/bar/baz",
		},
		{
			name:     "index between keys",
			input:    "a.b[2].c",
			expected: "/a/b/2/c",
		},
		{
			name:     "index directly after key",
			input:    "versionControlProvenance[0].repositoryUri",
			expected: "/versionControlProvenance/0/repositoryUri",
		},
		{
			name:     "consecutive indices",
			input:    "matrix[1][2]",
			expected: "/matrix/1/2",
		},
		{
			name:     "key requiring pointer escaping",
			input:    "a/b.c",
			expected: "/a~1b/c",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path, err := Parse(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, path.Pointer())
		})
	}
}

func TestParseRejectsMalformedKeys(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{name: "empty key", input: ""},
		{name: "trailing separator", input: "a.b."},
		{name: "empty segment", input: "a..b"},
		{name: "leading separator", input: ".a"},
		{name: "unterminated index", input: "a[2"},
		{name: "non-integer index", input: "a[two]"},
		{name: "negative index", input: "a[-1]"},
		{name: "stray closing bracket", input: "a]b"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.input)
			assert.Error(t, err)
		})
	}
}

func TestResolve(t *testing.T) {
	document := map[string]interface{}{
		"a": map[string]interface{}{
			"b": []interface{}{
				"zero",
				"one",
				map[string]interface{}{"c": "X"},
			},
		},
		"primaryLanguage": "go",
	}

	testCases := []struct {
		name     string
		key      string
		expected interface{}
		found    bool
	}{
		{name: "top-level key", key: "primaryLanguage", expected: "go", found: true},
		{name: "nested key with index", key: "a.b[2].c", expected: "X", found: true},
		{name: "sequence element", key: "a.b[1]", expected: "one", found: true},
		{name: "missing key", key: "a.missing", found: false},
		{name: "index out of range", key: "a.b[7]", found: false},
		{name: "index into mapping", key: "a[0]", found: false},
		{name: "key into scalar", key: "primaryLanguage.sub", found: false},
		{name: "path deeper than document", key: "a.b[2].c.d", found: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path, err := Parse(tc.key)
			require.NoError(t, err)

			value, found := path.Resolve(document)
			assert.Equal(t, tc.found, found)
			if tc.found {
				assert.Equal(t, tc.expected, value)
			}
		})
	}
}

func TestResolveIntermediateValue(t *testing.T) {
	document := map[string]interface{}{
		"versionControlProvenance": []interface{}{
			map[string]interface{}{"repositoryUri": "https://github.com/acme/app"},
		},
	}

	path, err := Parse("versionControlProvenance[0]")
	require.NoError(t, err)

	value, found := path.Resolve(document)
	require.True(t, found)
	record, ok := value.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "https://github.com/acme/app", record["repositoryUri"])
}
