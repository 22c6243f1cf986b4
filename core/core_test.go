package core

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/seedrec/pkg/utils"
)

func TestParseDomain(t *testing.T) {
	tests := []struct {
		in     string
		want   Domain
		wantOK bool
	}{
		{in: "", want: DomainBook, wantOK: true},
		{in: "Books", want: DomainBook, wantOK: true},
		{in: "anime", want: DomainAnime, wantOK: true},
		{in: " movies ", want: DomainMovie, wantOK: true},
		{in: "music", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDomain(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeTags(t *testing.T) {
	assert.Equal(t, []string{"Fiction", "Classics"}, SplitTags(" Fiction,Classics, Fiction ,"))
	assert.Equal(t, []string{UnknownTag}, SplitTags(""))
	assert.Equal(t, []string{UnknownTag}, NormalizeTags([]string{" ", ""}))
}

func TestCatalog(t *testing.T) {
	records := []*Record{
		{ID: "a", Title: "A", Popularity: 10},
		{ID: "b", Title: "B", Popularity: 30},
		{ID: "a", Title: "duplicate", Popularity: 99},
		nil,
		{ID: "c", Title: "C", Popularity: 30},
	}
	c := NewCatalog(DomainAnime, records)

	require.Equal(t, 3, c.Len())
	assert.Equal(t, DomainAnime, c.Domain())
	a, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "A", a.Title)
	assert.Equal(t, DomainAnime, a.Domain)

	top := c.TopByPopularity(2)
	require.Len(t, top, 2)
	assert.Equal(t, "b", top[0].ID, "ties keep catalog order")
	assert.Equal(t, "c", top[1].ID)
	assert.Len(t, c.TopByPopularity(-1), 3)

	items := c.Items()
	for i, it := range items {
		assert.Equal(t, i, it.Row)
		assert.Same(t, c.At(i), it.Record)
	}

	var nilCatalog *Catalog
	assert.Zero(t, nilCatalog.Len())
	assert.Nil(t, nilCatalog.Items())
}

func TestRecord_Valid(t *testing.T) {
	assert.True(t, (&Record{Title: "x", Rating: 4}).Valid())
	assert.False(t, (&Record{Title: "  "}).Valid())
	assert.False(t, (&Record{Title: "x", Rating: math.NaN()}).Valid())
	var r *Record
	assert.False(t, r.Valid())
}

func TestItem_Labels(t *testing.T) {
	it := NewItem("1")
	it.PutLabel(utils.LabelRecallSource, utils.Label{Value: "seed", Source: "recall"})
	it.PutLabel(utils.LabelRecallSource, utils.Label{Value: "popular", Source: "recall"})
	assert.Equal(t, "seed|popular", it.Label(utils.LabelRecallSource))

	cp := it.Clone()
	cp.PutLabel("x", utils.Label{Value: "y"})
	assert.Empty(t, it.Label("x"))
	assert.Equal(t, "y", cp.Label("x"))
}

func TestDomainError(t *testing.T) {
	wrapped := fmt.Errorf("pipeline: %w", ErrNoTitles)
	assert.True(t, IsInvalidInput(wrapped))
	assert.False(t, IsNotFound(wrapped))
	assert.Equal(t, ModuleService, GetDomainError(wrapped).Module)

	assert.True(t, IsStoreNotFound(ErrStoreNotFound))
	assert.False(t, IsStoreNotFound(NewDomainError(ModuleCatalog, ErrorCodeNotFound, "x")))
	assert.Nil(t, GetDomainError(nil))
}

func TestStaticRecallConfig(t *testing.T) {
	c := &StaticRecallConfig{Limit: 3}
	assert.Equal(t, 3, c.DefaultLimit())
	assert.Equal(t, 50, c.MaxLimit())
	assert.Equal(t, 50, c.MaxComponents())
}

func TestStoreKeys(t *testing.T) {
	assert.Equal(t, "popular:movie", PopularKey(DomainMovie))
	assert.Equal(t, "catalog:book:info", CatalogInfoKey(DomainBook))
}
