package theme

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"xsearch/internal/xclient"
)

func TestGuidanceTailoredByError(t *testing.T) {
	cases := []struct {
		name  string
		err   error
		first string
	}{
		{"no matches", nil, "No recent posts match your query"},
		{"rate limited", &xclient.Error{Kind: xclient.KindRateLimited}, "Rate limit exceeded (wait ~15 minutes)"},
		{"quota", &xclient.Error{Kind: xclient.KindRateLimited, Title: "UsageCapExceeded"}, "Monthly quota exhausted (check X Developer Portal)"},
		{"rejected", &xclient.Error{Kind: xclient.KindRejectedQuery}, "The API rejected the query (check hashtags and the date range)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := Guidance(tc.err)
			assert.Equal(t, tc.first, g[0])
		})
	}
	assert.Contains(t, Guidance(errors.New("dial tcp: refused"))[0], "dial tcp: refused")
}

func TestRenderedText(t *testing.T) {
	assert.Contains(t, Success(3, "data/tweets.csv"), "Saved 3 posts to data/tweets.csv")
	block := NoResults(nil)
	assert.Contains(t, block, "No posts found")
	assert.Contains(t, block, "Try removing --lang filter")
	assert.Contains(t, Plan([][2]string{{"Query", "(#A)"}}), "(#A)")

	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.Contains(t, buf.String(), "XSEARCH")
}
