package service

import (
	"context"
	"sort"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/seedrec/core"
	"github.com/rushteam/seedrec/domain"
	"github.com/rushteam/seedrec/pkg/utils"
	"github.com/rushteam/seedrec/recall"
	"github.com/rushteam/seedrec/store"
)

type staticCatalogs map[core.Domain]*core.Catalog

func (s staticCatalogs) Get(d core.Domain) (*core.Catalog, error) {
	c, ok := s[d]
	if !ok {
		return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeUnavailable, "catalog not loaded")
	}
	return c, nil
}

// newSampleRecommender 使用内置样例目录与内存排行构建推荐服务。
func newSampleRecommender(t *testing.T) *Recommender {
	t.Helper()
	reg, err := domain.Builtin()
	require.NoError(t, err)

	kv := store.NewMemoryStore()
	t.Cleanup(func() { kv.Close() })
	catalogs := store.NewCatalogStore(reg, kv, store.CatalogOptions{}, zerolog.Nop())
	require.NoError(t, catalogs.LoadAll(context.Background()))

	rec, err := NewRecommender(Options{
		Registry: reg,
		Catalogs: catalogs,
		Store:    kv,
		Logger:   zerolog.Nop(),
	})
	require.NoError(t, err)
	return rec
}

func recommendationIDs(resp *Response) []string {
	out := make([]string, len(resp.Recommendations))
	for i, r := range resp.Recommendations {
		out[i] = r.ID
	}
	return out
}

func TestRecommend_SeedNeighbors(t *testing.T) {
	rec := newSampleRecommender(t)

	resp, err := rec.Recommend(context.Background(), Request{Titles: []string{"1984"}, Domain: "book", Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, core.DomainBook, resp.Domain)
	require.Len(t, resp.Recommendations, 4)
	assert.NotContains(t, recommendationIDs(resp), "2")
	assert.ElementsMatch(t, []string{"1", "3", "4", "5"}, recommendationIDs(resp))

	for _, r := range resp.Recommendations {
		assert.Empty(t, r.Genre, "book responses carry no genre")
		assert.Empty(t, r.Type)
		assert.NotEmpty(t, r.Image)
	}
}

func TestRecommend_NeighborsAscendingDistance(t *testing.T) {
	rec := newSampleRecommender(t)
	desc, _ := rec.registry.Get(core.DomainBook)
	catalog, err := rec.catalogs.Get(core.DomainBook)
	require.NoError(t, err)

	p, err := rec.build(desc, zerolog.Nop())
	require.NoError(t, err)
	rctx := core.NewRecommendContext("", core.Criteria{Domain: core.DomainBook}, []string{"1984"}, 3, catalog)
	items, err := p.Run(context.Background(), rctx, catalog.Items())
	require.NoError(t, err)

	require.Len(t, items, 3)
	for i, it := range items {
		assert.NotEqual(t, "2", it.ID)
		assert.Equal(t, recall.SourceSeed, it.Label(utils.LabelRecallSource))
		if i > 0 {
			assert.LessOrEqual(t, items[i-1].Score, it.Score)
		}
	}
}

func TestRecommend_ColdStart(t *testing.T) {
	rec := newSampleRecommender(t)

	tests := []struct {
		name   string
		req    Request
		wantID []string
	}{
		{
			name:   "unknown title returns most popular books",
			req:    Request{Titles: []string{"Unknown Title"}, Domain: "book", Limit: 5},
			wantID: []string{"1", "2", "3", "4", "5"},
		},
		{
			name:   "blank titles behave like unmatched titles",
			req:    Request{Titles: []string{"  "}, Domain: "book", Limit: 2},
			wantID: []string{"1", "2"},
		},
		{
			name:   "movie cold start ignores filters",
			req:    Request{Titles: []string{"zzz"}, Domain: "movies", Genre: "comedy", Limit: 3},
			wantID: []string{"tt0468569", "tt0111161", "tt0068646"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := rec.Recommend(context.Background(), tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, recommendationIDs(resp))
		})
	}
}

func TestRecommend_ResponseShape(t *testing.T) {
	rec := newSampleRecommender(t)

	movies, err := rec.Recommend(context.Background(), Request{Titles: []string{"godfather"}, Domain: "movie", Genre: "drama"})
	require.NoError(t, err)
	assert.Equal(t, core.DomainMovie, movies.Domain)
	require.Len(t, movies.Recommendations, 4)
	assert.NotContains(t, recommendationIDs(movies), "tt0068646")
	for _, r := range movies.Recommendations {
		assert.Equal(t, "movie", r.Type)
		assert.NotEmpty(t, r.Genre)
		assert.NotNil(t, r.Year)
	}

	anime, err := rec.Recommend(context.Background(), Request{Titles: []string{"Death Note"}, Domain: "anime", Limit: 2})
	require.NoError(t, err)
	require.Len(t, anime.Recommendations, 2)
	for _, r := range anime.Recommendations {
		assert.NotEqual(t, "1", r.ID)
		assert.NotEmpty(t, r.Genre)
		assert.Empty(t, r.Type)
	}
}

func TestRecommend_Limits(t *testing.T) {
	rec := newSampleRecommender(t)
	ctx := context.Background()

	resp, err := rec.Recommend(ctx, Request{Titles: []string{"Unknown"}, Domain: "book"})
	require.NoError(t, err)
	assert.Len(t, resp.Recommendations, 5, "zero limit uses the default")

	resp, err = rec.Recommend(ctx, Request{Titles: []string{"Unknown"}, Domain: "book", Limit: 1000})
	require.NoError(t, err)
	assert.Len(t, resp.Recommendations, 5, "limit is capped and bounded by the catalog")

	resp, err = rec.Recommend(ctx, Request{Titles: []string{"Unknown"}, Domain: "book", Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, recommendationIDs(resp))
}

func TestRecommend_InvalidInput(t *testing.T) {
	rec := newSampleRecommender(t)

	tests := []struct {
		name string
		req  Request
	}{
		{name: "no titles", req: Request{Domain: "book"}},
		{name: "unknown domain", req: Request{Titles: []string{"x"}, Domain: "music"}},
		{name: "negative limit", req: Request{Titles: []string{"x"}, Limit: -1}},
		{name: "bad filter expression", req: Request{Titles: []string{"1984"}, Filter: "item.rating >"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := rec.Recommend(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, core.IsInvalidInput(err), "got %v", err)
		})
	}

	_, err := rec.Recommend(context.Background(), Request{})
	assert.ErrorIs(t, err, core.ErrNoTitles)
}

func TestRecommend_FilterExpression(t *testing.T) {
	rec := newSampleRecommender(t)
	resp, err := rec.Recommend(context.Background(), Request{
		Titles: []string{"Full Metal"},
		Domain: "anime",
		Filter: "item.year >= 2009",
	})
	require.NoError(t, err)
	// Death Note (2006) 被表达式排除，种子本身也不出现在结果中
	assert.Equal(t, []string{"3", "4", "5"}, sortedIDs(resp))
}

func TestRecommend_PlaceholderImage(t *testing.T) {
	reg, err := domain.Builtin()
	require.NoError(t, err)
	catalog := core.NewCatalog(core.DomainBook, []*core.Record{
		{ID: "1", Title: "Alpha", Tags: []string{"Fiction"}, Rating: 4, Popularity: 30, Image: "Unknown"},
		{ID: "2", Title: "Beta", Tags: []string{"Fiction"}, Rating: 4, Popularity: 20},
		{ID: "3", Title: "Gamma", Tags: []string{"Fiction"}, Rating: 4, Popularity: 10, Image: "http://x/3.jpg"},
	})
	rec, err := NewRecommender(Options{
		Registry: reg,
		Catalogs: staticCatalogs{core.DomainBook: catalog},
		Logger:   zerolog.Nop(),
	})
	require.NoError(t, err)

	resp, err := rec.Recommend(context.Background(), Request{Titles: []string{"none"}, Limit: 3})
	require.NoError(t, err)
	require.Len(t, resp.Recommendations, 3)
	placeholder := reg.MustGet(core.DomainBook).PlaceholderImage()
	assert.Equal(t, placeholder, resp.Recommendations[0].Image)
	assert.Equal(t, placeholder, resp.Recommendations[1].Image)
	assert.Equal(t, "http://x/3.jpg", resp.Recommendations[2].Image)

	_, err = rec.Recommend(context.Background(), Request{Titles: []string{"x"}, Domain: "anime"})
	assert.True(t, core.IsUnavailable(err))
}

func TestNewRecommender_RequiresDeps(t *testing.T) {
	_, err := NewRecommender(Options{})
	assert.Error(t, err)
}

func sortedIDs(resp *Response) []string {
	ids := recommendationIDs(resp)
	sort.Strings(ids)
	return ids
}
