package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"xsearch/internal/model"
)

// Format selects the output artifact.
type Format string

const (
	FormatCSV    Format = "csv"
	FormatXLSX   Format = "xlsx"
	FormatJSON   Format = "json"
	FormatSQLite Format = "sqlite"
)

// Formats lists the supported formats in help order.
var Formats = []Format{FormatCSV, FormatXLSX, FormatJSON, FormatSQLite}

// ParseFormat accepts a format name case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (want csv, xlsx, json or sqlite)", s)
}

// Ext is the file extension for the format.
func (f Format) Ext() string {
	if f == FormatSQLite {
		return "db"
	}
	return string(f)
}

// Filename returns <prefix>_<YYYYMMDD_HHMMSS>.<ext>, the timestamp in UTC.
func Filename(prefix string, now time.Time, f Format) string {
	return fmt.Sprintf("%s_%s.%s", prefix, now.UTC().Format("20060102_150405"), f.Ext())
}

// Save writes records and their run metadata to a new file under dir and returns its path.
// The directory is created if absent. meta may be nil.
func Save(ctx context.Context, dir, prefix string, f Format, now time.Time, recs []model.Record, meta *model.SearchMetadata) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, Filename(prefix, now, f))
	var err error
	switch f {
	case FormatCSV:
		err = writeCSV(path, recs, meta)
	case FormatXLSX:
		err = writeXLSX(path, recs, meta)
	case FormatJSON:
		err = writeJSON(path, recs, meta)
	case FormatSQLite:
		err = writeSQLite(ctx, path, recs, meta)
	default:
		err = fmt.Errorf("unknown output format %q", f)
	}
	if err != nil {
		return "", fmt.Errorf("write %s: %w", f, err)
	}
	return path, nil
}
