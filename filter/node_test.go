package filter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/seedrec/core"
	"github.com/rushteam/seedrec/domain"
)

func TestFilterNode_Process(t *testing.T) {
	catalog := core.NewCatalog(core.DomainMovie, []*core.Record{
		rec("1", []string{"Drama"}, 9.3, 300, intp(1994)),
		rec("2", []string{"Comedy"}, 7.1, 200, intp(2015)),
		rec("3", []string{"Drama", "Crime"}, 9.0, 250, intp(2008)),
		rec("4", []string{"Drama"}, 6.2, 100, nil),
	})
	expr, err := NewExprFilter("item.rating >= 7.0")
	require.NoError(t, err)

	tests := []struct {
		name    string
		filters []Filter
		want    []string
	}{
		{name: "no filters", want: []string{"1", "2", "3", "4"}},
		{
			name:    "tags",
			filters: []Filter{NewTagFilter("config", map[string]struct{}{"Drama": {}})},
			want:    []string{"1", "3", "4"},
		},
		{
			name: "tags and years",
			filters: []Filter{
				NewTagFilter("config", map[string]struct{}{"Drama": {}}),
				&YearRangeFilter{Range: domain.YearRange{Start: 2000, End: 2010}},
			},
			want: []string{"3"},
		},
		{
			name:    "expression",
			filters: []Filter{expr},
			want:    []string{"1", "2", "3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rctx := core.NewRecommendContext("test", core.Criteria{Domain: core.DomainMovie}, nil, 5, catalog)
			node := &FilterNode{Filters: tt.filters}
			out, err := node.Process(context.Background(), rctx, catalog.Items())
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(out))
		})
	}
}

func TestFilterNode_AfterSubset(t *testing.T) {
	catalog := core.NewCatalog(core.DomainBook, []*core.Record{rec("1", []string{"Fiction"}, 4, 1, nil)})
	rctx := core.NewRecommendContext("test", core.Criteria{}, nil, 5, catalog)
	rctx.Frame.Subset = catalog.Items()

	_, err := (&FilterNode{}).Process(context.Background(), rctx, rctx.Frame.Subset)
	assert.Error(t, err)
}

func TestTagFilter_SortedTags(t *testing.T) {
	f := NewTagFilter("genre", map[string]struct{}{"Drama": {}, "Crime": {}, "Action": {}})
	assert.Equal(t, []string{"Action", "Crime", "Drama"}, f.SortedTags())
	assert.Empty(t, NewTagFilter("genre", nil).SortedTags())
}
