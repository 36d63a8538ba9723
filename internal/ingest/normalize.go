package ingest

import (
	"xsearch/internal/model"
	"xsearch/internal/util"
)

// PermalinkPrefix builds a canonical post URL that does not need the author handle.
const PermalinkPrefix = "https://x.com/i/web/status/"

// Normalize turns one raw post plus its page tables into a Record.
// Missing authors, metrics and referenced text degrade to empty values.
func Normalize(raw model.RawTweet, t Tables) model.Record {
	r := model.Record{
		ID:      raw.ID,
		Date:    raw.CreatedAt,
		Content: raw.Text,
		Lang:    raw.Lang,
		URL:     PermalinkPrefix + raw.ID,
	}
	if a, ok := t.Author(raw.AuthorID); ok {
		r.UserUsername = a.Username
		r.UserDisplayName = a.Name
	}
	if m := raw.PublicMetrics; m != nil {
		r.LikeCount = nonNegative(m.LikeCount)
		r.RetweetCount = nonNegative(m.RetweetCount)
		r.ReplyCount = nonNegative(m.ReplyCount)
		r.QuoteCount = nonNegative(m.QuoteCount)
	}
	if raw.Entities != nil {
		r.ExternalURLs = externalURLs(raw.Entities.URLs)
	}
	for _, ref := range raw.ReferencedTweets {
		switch ref.Type {
		case model.RefRetweeted:
			r.IsRetweet = true
		case model.RefQuoted:
			r.IsQuote = true
		case model.RefRepliedTo:
			r.IsReply = true
		}
	}
	// Only the first relation's target is carried, whatever its type.
	if len(raw.ReferencedTweets) > 0 {
		first := raw.ReferencedTweets[0]
		r.ReferencedTweetID = first.ID
		r.ReferencedTweetText = t.PostText(first.ID)
	}
	return r
}

// Flatten prepares a record for one-row-per-post formats: free text is put on a single line.
func Flatten(r model.Record) model.Record {
	r.Content = util.CleanText(r.Content)
	r.ReferencedTweetText = util.CleanText(r.ReferencedTweetText)
	return r
}

func externalURLs(urls []model.RawURL) string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		v := u.ExpandedURL
		if v == "" {
			v = u.URL
		}
		out = append(out, v)
	}
	return util.JoinNonEmpty(out, " ")
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
