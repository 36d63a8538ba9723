package analytics

import (
	"sort"
	"time"

	"xsearch/internal/model"
)

// Summary aggregates one run's records.
type Summary struct {
	Posts    int
	Retweets int
	Quotes   int
	Replies  int
	// Engagement totals over all posts
	Likes        int
	RetweetCount int
	ReplyCount   int
	QuoteCount   int
	// Hourly counts posts per UTC hour of creation; undated posts are skipped
	Hourly     map[time.Time]int
	TopAuthors []AuthorCount
}

type AuthorCount struct {
	Username string
	Posts    int
}

// Summarize computes totals, hourly volume and the n most active authors.
func Summarize(recs []model.Record, n int) Summary {
	s := Summary{Posts: len(recs), Hourly: make(map[time.Time]int)}
	authors := make(map[string]int)
	for _, r := range recs {
		if r.IsRetweet {
			s.Retweets++
		}
		if r.IsQuote {
			s.Quotes++
		}
		if r.IsReply {
			s.Replies++
		}
		s.Likes += r.LikeCount
		s.RetweetCount += r.RetweetCount
		s.ReplyCount += r.ReplyCount
		s.QuoteCount += r.QuoteCount
		if !r.Date.IsZero() {
			s.Hourly[r.Date.UTC().Truncate(time.Hour)]++
		}
		if r.UserUsername != "" {
			authors[r.UserUsername]++
		}
	}
	for u, c := range authors {
		s.TopAuthors = append(s.TopAuthors, AuthorCount{Username: u, Posts: c})
	}
	sort.Slice(s.TopAuthors, func(i, j int) bool {
		if s.TopAuthors[i].Posts != s.TopAuthors[j].Posts {
			return s.TopAuthors[i].Posts > s.TopAuthors[j].Posts
		}
		return s.TopAuthors[i].Username < s.TopAuthors[j].Username
	})
	if n >= 0 && len(s.TopAuthors) > n {
		s.TopAuthors = s.TopAuthors[:n]
	}
	return s
}

// SortedHours returns the hour keys in ascending order.
func SortedHours(m map[time.Time]int) []time.Time {
	keys := make([]time.Time, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })
	return keys
}

// Fields flattens a summary for structured logging.
func (s Summary) Fields() map[string]any {
	top := make([]string, 0, len(s.TopAuthors))
	for _, a := range s.TopAuthors {
		top = append(top, a.Username)
	}
	hours := SortedHours(s.Hourly)
	f := map[string]any{
		"posts":       s.Posts,
		"retweets":    s.Retweets,
		"quotes":      s.Quotes,
		"replies":     s.Replies,
		"likes":       s.Likes,
		"top_authors": top,
		"hours":       len(hours),
	}
	if len(hours) > 0 {
		f["first_hour"] = hours[0].Format(time.RFC3339)
		f["last_hour"] = hours[len(hours)-1].Format(time.RFC3339)
	}
	return f
}
