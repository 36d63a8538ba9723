package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"collapses breaks and spaces", "a\n\nb   c", "a b c"},
		{"crlf", "line one\r\nline two", "line one line two"},
		{"trims", "  padded \n", "padded"},
		{"empty", "", ""},
		{"only breaks", "\n\n", ""},
		{"tabs untouched", "a\tb", "a\tb"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CleanText(tc.in))
		})
	}
}

func TestCleanTextIdempotent(t *testing.T) {
	for _, in := range []string{"a\n\nb   c", "already clean", " x \r\n  y  "} {
		once := CleanText(in)
		assert.Equal(t, once, CleanText(once))
	}
}

func TestJoinNonEmpty(t *testing.T) {
	assert.Equal(t, "a c", JoinNonEmpty([]string{"a", "", "c"}, " "))
	assert.Equal(t, "", JoinNonEmpty(nil, " "))
}
