package ingest

import (
	"context"
	"errors"

	"xsearch/internal/logging"
	"xsearch/internal/metrics"
	"xsearch/internal/model"
	"xsearch/internal/query"
	"xsearch/internal/xclient"
)

// PageSize is the max_results sent on every search call.
const PageSize = 50

// Searcher is the retrieval boundary; *xclient.HTTPClient satisfies it.
type Searcher interface {
	SearchRecent(ctx context.Context, r model.SearchRequest) (model.RawPage, error)
}

var _ Searcher = &xclient.HTTPClient{}

// Params describe one run. Limit <= 0 means no limit.
type Params struct {
	Query  string
	Limit  int
	Window query.Window
}

// StopReason tells why pagination ended.
type StopReason string

const (
	StopLimit     StopReason = "limit"
	StopExhausted StopReason = "exhausted"
	StopError     StopReason = "error"
	StopCanceled  StopReason = "canceled"
)

// Result holds whatever was collected before pagination ended.
// Err is set when Stop is StopError or StopCanceled.
type Result struct {
	Records []model.Record
	Pages   int
	Stop    StopReason
	Err     error
}

// Collect pages through search results until the limit, the last page, an error or cancellation.
// Errors end pagination but never discard records already collected.
func Collect(ctx context.Context, s Searcher, p Params) Result {
	var res Result
	seen := make(map[string]struct{})
	token := ""
	for {
		if err := ctx.Err(); err != nil {
			res.Stop, res.Err = StopCanceled, err
			logging.Warn("search_canceled", map[string]any{"pages": res.Pages, "records": len(res.Records)})
			return res
		}
		page, err := s.SearchRecent(ctx, model.SearchRequest{
			Query:      p.Query,
			MaxResults: PageSize,
			StartTime:  p.Window.Start,
			EndTime:    p.Window.End,
			NextToken:  token,
		})
		if err != nil {
			res.Stop, res.Err = StopError, err
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				res.Stop = StopCanceled
			}
			reportStop(err, res)
			return res
		}
		res.Pages++
		metrics.PagesFetched.Inc()
		logging.Debug("search_page", map[string]any{
			"page":         res.Pages,
			"result_count": page.Meta.ResultCount,
			"next_token":   preview(page.Meta.NextToken),
		})
		for _, pe := range page.Errors {
			logging.Debug("search_partial_error", map[string]any{"title": pe.Title, "detail": pe.Detail, "value": pe.Value})
		}

		tables := Reconcile(page.Includes)
		for _, raw := range page.Data {
			if !raw.Valid() {
				continue
			}
			if _, dup := seen[raw.ID]; dup {
				continue
			}
			seen[raw.ID] = struct{}{}
			res.Records = append(res.Records, Normalize(raw, tables))
			metrics.RecordsCollected.Inc()
			if p.Limit > 0 && len(res.Records) >= p.Limit {
				res.Stop = StopLimit
				return res
			}
		}
		if page.Meta.NextToken == "" {
			res.Stop = StopExhausted
			return res
		}
		token = page.Meta.NextToken
	}
}

func reportStop(err error, res Result) {
	kind := xclient.KindOf(err)
	if res.Stop == StopCanceled {
		logging.Warn("search_canceled", map[string]any{"pages": res.Pages, "records": len(res.Records)})
		return
	}
	metrics.IncAPIError(kind.String())
	fields := map[string]any{"kind": kind.String(), "pages": res.Pages, "records": len(res.Records), "error": err.Error()}
	switch kind {
	case xclient.KindRateLimited:
		if xclient.IsQuotaExhausted(err) {
			fields["tip"] = "monthly post cap reached; wait for the next billing cycle"
		} else {
			fields["tip"] = "wait about 15 minutes or run without --no-wait"
		}
		logging.Warn("search_rate_limited", fields)
	case xclient.KindRejectedQuery:
		fields["tip"] = "check the query syntax and the date range (recent search covers the last 7 days)"
		logging.Error("search_query_rejected", fields)
	case xclient.KindConfiguration:
		fields["tip"] = "check the bearer token and the app's API access level"
		logging.Error("search_unauthorized", fields)
	case xclient.KindTransport:
		logging.Error("search_transport_error", fields)
	default:
		logging.Error("search_error", fields)
	}
}

func preview(token string) string {
	if len(token) > 12 {
		return token[:12] + "..."
	}
	return token
}
