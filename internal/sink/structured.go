package sink

import (
	"context"
	"encoding/json"
	"os"

	"xsearch/internal/model"
	"xsearch/internal/store"
)

// document is the json artifact; meta is an empty object when absent.
type document struct {
	Meta any            `json:"meta"`
	Data []model.Record `json:"data"`
}

func writeJSON(path string, recs []model.Record, meta *model.SearchMetadata) error {
	doc := document{Meta: struct{}{}, Data: recs}
	if meta != nil {
		doc.Meta = meta
	}
	if doc.Data == nil {
		doc.Data = []model.Record{}
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}

func writeSQLite(ctx context.Context, path string, recs []model.Record, meta *model.SearchMetadata) error {
	db, err := store.Open(path)
	if err != nil {
		return err
	}
	var m model.SearchMetadata
	if meta != nil {
		m = *meta
	}
	if err := db.SaveRun(ctx, m, recs); err != nil {
		_ = db.Close()
		return err
	}
	return db.Close()
}
