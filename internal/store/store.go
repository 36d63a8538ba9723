package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"xsearch/internal/model"
)

// DB wraps a SQLite database holding search runs and their posts.
type DB struct{ sql *sql.DB }

func Open(path string) (*DB, error) {
	d, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		// each pooled connection would get its own empty database
		d.SetMaxOpenConns(1)
	}
	if _, err := d.Exec(`PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;`); err != nil {
		_ = d.Close()
		return nil, err
	}
	db := &DB{sql: d}
	if err := db.migrate(); err != nil {
		_ = d.Close()
		return nil, err
	}
	return db, nil
}

func (d *DB) Close() error { return d.sql.Close() }

func (d *DB) migrate() error {
	_, err := d.sql.Exec(`
	CREATE TABLE IF NOT EXISTS runs (
	  id TEXT PRIMARY KEY,
	  query TEXT NOT NULL,
	  preset TEXT,
	  hashtags TEXT,
	  lang TEXT,
	  since TEXT,
	  until TEXT,
	  executed_at INTEGER NOT NULL,
	  record_count INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS tweets (
	  run_id TEXT NOT NULL REFERENCES runs(id),
	  seq INTEGER NOT NULL,
	  id TEXT NOT NULL,
	  created_at INTEGER,
	  user_username TEXT,
	  user_displayname TEXT,
	  content TEXT,
	  like_count INTEGER NOT NULL DEFAULT 0,
	  retweet_count INTEGER NOT NULL DEFAULT 0,
	  reply_count INTEGER NOT NULL DEFAULT 0,
	  quote_count INTEGER NOT NULL DEFAULT 0,
	  lang TEXT,
	  url TEXT,
	  external_urls TEXT,
	  is_retweet INTEGER NOT NULL DEFAULT 0,
	  is_quote INTEGER NOT NULL DEFAULT 0,
	  is_reply INTEGER NOT NULL DEFAULT 0,
	  referenced_tweet_id TEXT,
	  referenced_tweet_text TEXT,
	  PRIMARY KEY (run_id, id)
	);
	CREATE INDEX IF NOT EXISTS idx_tweets_created ON tweets(created_at);
	`)
	return err
}

// SaveRun stores the run metadata and its records in one transaction, preserving record order.
func (d *DB) SaveRun(ctx context.Context, meta model.SearchMetadata, recs []model.Record) (err error) {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var hashtags *string
	if len(meta.Hashtags) > 0 {
		b, _ := json.Marshal(meta.Hashtags)
		s := string(b)
		hashtags = &s
	}
	if _, err = tx.ExecContext(ctx, `INSERT INTO runs(id, query, preset, hashtags, lang, since, until, executed_at, record_count) VALUES(?,?,?,?,?,?,?,?,?)`,
		meta.RunID, meta.Query, nullable(meta.Preset), hashtags, nullable(meta.Lang), nullable(meta.Since), nullable(meta.Until),
		meta.ExecutedAt.Unix(), len(recs)); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO tweets(run_id, seq, id, created_at, user_username, user_displayname, content,
	  like_count, retweet_count, reply_count, quote_count, lang, url, external_urls, is_retweet, is_quote, is_reply,
	  referenced_tweet_id, referenced_tweet_text) VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, r := range recs {
		var created *int64
		if !r.Date.IsZero() {
			u := r.Date.Unix()
			created = &u
		}
		if _, err = stmt.ExecContext(ctx, meta.RunID, i, r.ID, created, r.UserUsername, r.UserDisplayName, r.Content,
			r.LikeCount, r.RetweetCount, r.ReplyCount, r.QuoteCount, nullable(r.Lang), r.URL, nullable(r.ExternalURLs),
			r.IsRetweet, r.IsQuote, r.IsReply, nullable(r.ReferencedTweetID), nullable(r.ReferencedTweetText)); err != nil {
			return fmt.Errorf("insert tweet %s: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

// LoadRun returns the records of a run in their original order.
func (d *DB) LoadRun(ctx context.Context, runID string) ([]model.Record, error) {
	rows, err := d.sql.QueryContext(ctx, `SELECT id, created_at, user_username, user_displayname, content,
	  like_count, retweet_count, reply_count, quote_count, COALESCE(lang,''), url, COALESCE(external_urls,''),
	  is_retweet, is_quote, is_reply, COALESCE(referenced_tweet_id,''), COALESCE(referenced_tweet_text,'')
	  FROM tweets WHERE run_id=? ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Record
	for rows.Next() {
		var r model.Record
		var created sql.NullInt64
		if err := rows.Scan(&r.ID, &created, &r.UserUsername, &r.UserDisplayName, &r.Content,
			&r.LikeCount, &r.RetweetCount, &r.ReplyCount, &r.QuoteCount, &r.Lang, &r.URL, &r.ExternalURLs,
			&r.IsRetweet, &r.IsQuote, &r.IsReply, &r.ReferencedTweetID, &r.ReferencedTweetText); err != nil {
			return nil, err
		}
		if created.Valid {
			r.Date = time.Unix(created.Int64, 0).UTC()
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountRuns returns how many runs the database holds.
func (d *DB) CountRuns(ctx context.Context) (int, error) {
	var n int
	err := d.sql.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&n)
	return n, err
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
