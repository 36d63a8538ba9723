package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"xsearch/internal/model"
)

func TestSummarize(t *testing.T) {
	h := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	recs := []model.Record{
		{ID: "1", Date: h.Add(5 * time.Minute), UserUsername: "b", LikeCount: 3, IsReply: true},
		{ID: "2", Date: h.Add(50 * time.Minute), UserUsername: "a", LikeCount: 1, IsQuote: true, IsReply: true},
		{ID: "3", Date: h.Add(2 * time.Hour), UserUsername: "b", RetweetCount: 4, IsRetweet: true},
		{ID: "4", UserUsername: "c"},
	}
	s := Summarize(recs, 2)
	assert.Equal(t, 4, s.Posts)
	assert.Equal(t, 1, s.Retweets)
	assert.Equal(t, 1, s.Quotes)
	assert.Equal(t, 2, s.Replies)
	assert.Equal(t, 4, s.Likes)
	assert.Equal(t, 4, s.RetweetCount)
	assert.Equal(t, map[time.Time]int{h: 2, h.Add(2 * time.Hour): 1}, s.Hourly)
	assert.Equal(t, []AuthorCount{{"b", 2}, {"a", 1}}, s.TopAuthors)
	assert.Equal(t, []time.Time{h, h.Add(2 * time.Hour)}, SortedHours(s.Hourly))

	f := s.Fields()
	assert.Equal(t, []string{"b", "a"}, f["top_authors"])
	assert.Equal(t, "2024-01-01T10:00:00Z", f["first_hour"])
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, 5)
	assert.Zero(t, s.Posts)
	assert.Empty(t, s.TopAuthors)
	_, ok := s.Fields()["first_hour"]
	assert.False(t, ok)
}
