package ingest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xsearch/internal/model"
	"xsearch/internal/xclient"
)

// fakeSearcher serves pages in order and then the configured error.
type fakeSearcher struct {
	pages []model.RawPage
	err   error
	calls []model.SearchRequest
}

func (f *fakeSearcher) SearchRecent(ctx context.Context, r model.SearchRequest) (model.RawPage, error) {
	f.calls = append(f.calls, r)
	i := len(f.calls) - 1
	if i < len(f.pages) {
		return f.pages[i], nil
	}
	if f.err != nil {
		return model.RawPage{}, f.err
	}
	return model.RawPage{}, nil
}

func page(next string, ids ...string) model.RawPage {
	p := model.RawPage{Meta: model.RawMeta{ResultCount: len(ids), NextToken: next}}
	for _, id := range ids {
		p.Data = append(p.Data, model.RawTweet{ID: id, Text: "post " + id, AuthorID: "u1"})
	}
	p.Includes.Users = []model.RawUser{{ID: "u1", Username: "one", Name: "One"}}
	return p
}

func ids(recs []model.Record) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.ID)
	}
	return out
}

func TestCollectStopsAtExactLimit(t *testing.T) {
	f := &fakeSearcher{pages: []model.RawPage{page("t1", "1", "2", "3"), page("t2", "4", "5", "6")}}
	res := Collect(context.Background(), f, Params{Query: "(#A)", Limit: 5})

	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, ids(res.Records))
	assert.Equal(t, StopLimit, res.Stop)
	assert.NoError(t, res.Err)
	assert.Equal(t, 2, res.Pages)
	require.Len(t, f.calls, 2)
	assert.Equal(t, "", f.calls[0].NextToken)
	assert.Equal(t, "t1", f.calls[1].NextToken)
	assert.Equal(t, PageSize, f.calls[0].MaxResults)
}

func TestCollectExhaustsPages(t *testing.T) {
	f := &fakeSearcher{pages: []model.RawPage{page("t1", "1"), page("", "2")}}
	res := Collect(context.Background(), f, Params{Query: "*", Limit: 100})
	assert.Equal(t, []string{"1", "2"}, ids(res.Records))
	assert.Equal(t, StopExhausted, res.Stop)
}

func TestCollectKeepsPartialResultsOnError(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"rate limited", &xclient.Error{Kind: xclient.KindRateLimited, StatusCode: 429}},
		{"rejected", &xclient.Error{Kind: xclient.KindRejectedQuery, StatusCode: 400}},
		{"transport", &xclient.Error{Kind: xclient.KindTransport, Err: errors.New("connection reset")}},
		{"unknown", fmt.Errorf("decode: %w", errors.New("boom"))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := &fakeSearcher{pages: []model.RawPage{page("t1", "1", "2")}, err: tc.err}
			res := Collect(context.Background(), f, Params{Query: "*", Limit: 10})
			assert.Equal(t, []string{"1", "2"}, ids(res.Records))
			assert.Equal(t, StopError, res.Stop)
			assert.ErrorIs(t, res.Err, tc.err)
			assert.Equal(t, 1, res.Pages)
		})
	}
}

func TestCollectFirstCallFailure(t *testing.T) {
	f := &fakeSearcher{err: &xclient.Error{Kind: xclient.KindRateLimited, StatusCode: 429}}
	res := Collect(context.Background(), f, Params{Query: "*", Limit: 10})
	assert.Empty(t, res.Records)
	assert.Equal(t, StopError, res.Stop)
	assert.True(t, xclient.IsRateLimited(res.Err))
}

func TestCollectSkipsInvalidAndDuplicatePosts(t *testing.T) {
	p1 := page("t1", "1", "2")
	p1.Data = append(p1.Data, model.RawTweet{Text: "no id"})
	f := &fakeSearcher{pages: []model.RawPage{p1, page("", "2", "3")}}
	res := Collect(context.Background(), f, Params{Query: "*"})
	assert.Equal(t, []string{"1", "2", "3"}, ids(res.Records))
	assert.Equal(t, "one", res.Records[0].UserUsername)
}

func TestCollectHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := &fakeSearcher{pages: []model.RawPage{page("t1", "1")}}
	res := Collect(ctx, f, Params{Query: "*"})
	assert.Empty(t, f.calls)
	assert.Equal(t, StopCanceled, res.Stop)
	assert.ErrorIs(t, res.Err, context.Canceled)
}

func TestCollectCanceledBetweenPages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	f := &cancelingSearcher{cancel: cancel, page: page("t1", "1")}
	res := Collect(ctx, f, Params{Query: "*"})
	assert.Equal(t, []string{"1"}, ids(res.Records))
	assert.Equal(t, StopCanceled, res.Stop)
	assert.Equal(t, 1, f.calls)
}

type cancelingSearcher struct {
	cancel context.CancelFunc
	page   model.RawPage
	calls  int
}

func (c *cancelingSearcher) SearchRecent(ctx context.Context, r model.SearchRequest) (model.RawPage, error) {
	c.calls++
	c.cancel()
	return c.page, nil
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", preview("short"))
	assert.Equal(t, "abcdefghijkl...", preview("abcdefghijklmnop"))
}
