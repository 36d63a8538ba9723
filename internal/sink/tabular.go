package sink

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"xsearch/internal/ingest"
	"xsearch/internal/model"
)

// SheetName is the single worksheet of an xlsx export.
const SheetName = "tweets"

// utf8BOM lets spreadsheet tools detect UTF-8 in csv files.
const utf8BOM = "\ufeff"

var recordColumns = []string{
	"id", "date", "user_username", "user_displayname", "content",
	"like_count", "retweet_count", "reply_count", "quote_count",
	"lang", "url", "external_urls", "is_retweet", "is_quote", "is_reply",
	"referenced_tweet_id", "referenced_tweet_text",
}

var metaColumns = []string{
	"search_query", "search_preset", "search_hashtags", "search_lang",
	"search_since", "search_until", "search_executed_at", "search_run_id",
}

// header returns the column names; provenance columns only appear when meta is set.
func header(meta *model.SearchMetadata) []string {
	cols := append([]string{}, recordColumns...)
	if meta != nil {
		cols = append(cols, metaColumns...)
	}
	return cols
}

// row renders one record as flat cells with single-line text.
func row(r model.Record, meta *model.SearchMetadata) []string {
	r = ingest.Flatten(r)
	date := ""
	if !r.Date.IsZero() {
		date = r.Date.UTC().Format(time.RFC3339)
	}
	cells := []string{
		r.ID, date, r.UserUsername, r.UserDisplayName, r.Content,
		strconv.Itoa(r.LikeCount), strconv.Itoa(r.RetweetCount), strconv.Itoa(r.ReplyCount), strconv.Itoa(r.QuoteCount),
		r.Lang, r.URL, r.ExternalURLs,
		strconv.FormatBool(r.IsRetweet), strconv.FormatBool(r.IsQuote), strconv.FormatBool(r.IsReply),
		r.ReferencedTweetID, r.ReferencedTweetText,
	}
	if meta != nil {
		cells = append(cells,
			meta.Query, meta.Preset, strings.Join(meta.Hashtags, " "), meta.Lang,
			meta.Since, meta.Until, meta.ExecutedAt.UTC().Format(time.RFC3339), meta.RunID,
		)
	}
	return cells
}

func writeCSV(path string, recs []model.Record, meta *model.SearchMetadata) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(utf8BOM); err != nil {
		_ = f.Close()
		return err
	}
	w := csv.NewWriter(f)
	_ = w.Write(header(meta))
	for _, r := range recs {
		_ = w.Write(row(r, meta))
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func writeXLSX(path string, recs []model.Record, meta *model.SearchMetadata) error {
	x := excelize.NewFile()
	defer x.Close()
	if err := x.SetSheetName(x.GetSheetName(0), SheetName); err != nil {
		return err
	}
	if err := setRow(x, 1, header(meta)); err != nil {
		return err
	}
	for i, r := range recs {
		if err := setRow(x, i+2, row(r, meta)); err != nil {
			return err
		}
	}
	return x.SaveAs(path)
}

func setRow(x *excelize.File, n int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	vals := make([]any, len(cells))
	for i, c := range cells {
		vals[i] = c
	}
	return x.SetSheetRow(SheetName, cell, &vals)
}
