package model

import "time"

// Reference relation types as returned in referenced_tweets[].type.
const (
	RefRetweeted = "retweeted"
	RefQuoted    = "quoted"
	RefRepliedTo = "replied_to"
)

// RawPage is one response of the recent search endpoint.
// Includes only covers entities referenced by posts of the same page.
type RawPage struct {
	Data     []RawTweet  `json:"data"`
	Includes RawIncludes `json:"includes"`
	Meta     RawMeta     `json:"meta"`
	// Errors lists partial errors returned alongside a 200, e.g. a referenced post that was deleted.
	Errors []RawError `json:"errors,omitempty"`
}

// RawTweet is a post as returned in data[] or includes.tweets[].
// PublicMetrics and Entities are nil when the API omits them.
type RawTweet struct {
	ID               string         `json:"id"`
	Text             string         `json:"text"`
	CreatedAt        time.Time      `json:"created_at"`
	AuthorID         string         `json:"author_id"`
	Lang             string         `json:"lang"`
	PublicMetrics    *RawMetrics    `json:"public_metrics"`
	Entities         *RawEntities   `json:"entities"`
	ReferencedTweets []RawReference `json:"referenced_tweets"`
}

// Valid reports whether the post carries an identifier; posts without one are skipped.
func (t RawTweet) Valid() bool { return t.ID != "" }

type RawMetrics struct {
	LikeCount    int `json:"like_count"`
	RetweetCount int `json:"retweet_count"`
	ReplyCount   int `json:"reply_count"`
	QuoteCount   int `json:"quote_count"`
}

type RawEntities struct {
	URLs []RawURL `json:"urls"`
}

// RawURL is a URL annotation. ExpandedURL may be empty for some media links.
type RawURL struct {
	URL         string `json:"url"`
	ExpandedURL string `json:"expanded_url"`
	DisplayURL  string `json:"display_url"`
}

type RawReference struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type RawIncludes struct {
	Users  []RawUser  `json:"users"`
	Tweets []RawTweet `json:"tweets"`
}

type RawUser struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

type RawMeta struct {
	ResultCount int    `json:"result_count"`
	NextToken   string `json:"next_token"`
	NewestID    string `json:"newest_id"`
	OldestID    string `json:"oldest_id"`
}

type RawError struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Type   string `json:"type"`
	Value  string `json:"value"`
}

// SearchRequest is one call to the recent search endpoint.
type SearchRequest struct {
	Query      string
	MaxResults int
	StartTime  *time.Time
	EndTime    *time.Time
	NextToken  string
}

// Record is the normalized, flat representation of one post.
// Optional fields use omitempty so that absent values disappear from structured output.
type Record struct {
	ID                  string    `json:"id"`
	Date                time.Time `json:"date"`
	UserUsername        string    `json:"user_username"`
	UserDisplayName     string    `json:"user_displayname"`
	Content             string    `json:"content"`
	LikeCount           int       `json:"like_count"`
	RetweetCount        int       `json:"retweet_count"`
	ReplyCount          int       `json:"reply_count"`
	QuoteCount          int       `json:"quote_count"`
	Lang                string    `json:"lang,omitempty"`
	URL                 string    `json:"url"`
	ExternalURLs        string    `json:"external_urls,omitempty"`
	IsRetweet           bool      `json:"is_retweet"`
	IsQuote             bool      `json:"is_quote"`
	IsReply             bool      `json:"is_reply"`
	ReferencedTweetID   string    `json:"referenced_tweet_id,omitempty"`
	ReferencedTweetText string    `json:"referenced_tweet_text,omitempty"`
}

// SearchMetadata is run-scoped provenance attached to every output artifact.
type SearchMetadata struct {
	RunID      string    `json:"run_id"`
	Query      string    `json:"search_query"`
	Preset     string    `json:"search_preset,omitempty"`
	Hashtags   []string  `json:"search_hashtags,omitempty"`
	Lang       string    `json:"search_lang,omitempty"`
	Since      string    `json:"search_since,omitempty"`
	Until      string    `json:"search_until,omitempty"`
	ExecutedAt time.Time `json:"search_executed_at"`
}
