package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/seedrec/core"
)

func TestBuiltin(t *testing.T) {
	reg, err := Builtin()
	require.NoError(t, err)
	assert.Equal(t, []core.Domain{core.DomainAnime, core.DomainBook, core.DomainMovie}, reg.Domains())

	movie, ok := reg.Get(core.DomainMovie)
	require.True(t, ok)
	assert.Equal(t, FallbackTiered, movie.Fallback.Strategy)
	assert.Equal(t, 10, movie.Fallback.GenreOnlyMin)
	assert.Equal(t, 100, movie.Fallback.PopularTop)
	assert.True(t, movie.Response.IncludeKind)

	book := reg.MustGet(core.DomainBook)
	assert.Equal(t, FallbackFullCatalog, book.Fallback.Strategy)
	assert.False(t, book.Response.IncludeGenre)
}

func TestDescriptor_TargetTags(t *testing.T) {
	reg, err := Builtin()
	require.NoError(t, err)
	book := reg.MustGet(core.DomainBook)

	tests := []struct {
		name     string
		criteria core.Criteria
		want     []string
		notWant  []string
	}{
		{
			name:     "genre alias",
			criteria: core.Criteria{Genre: "scifi"},
			want:     []string{"Science Fiction"},
		},
		{
			name:     "mood and genre union",
			criteria: core.Criteria{Genre: "fantasy", Mood: "light"},
			want:     []string{"Fantasy", "Humor", "Romance"},
		},
		{
			name:     "unknown values contribute nothing",
			criteria: core.Criteria{Genre: "cooking", Mood: "sleepy"},
			notWant:  []string{"Fantasy"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tags := book.TargetTags(tt.criteria)
			for _, w := range tt.want {
				assert.Contains(t, tags, w)
			}
			for _, w := range tt.notWant {
				assert.NotContains(t, tags, w)
			}
			if len(tt.want) == 0 {
				assert.Empty(t, tags)
			}
		})
	}
}

func TestDescriptor_Eras(t *testing.T) {
	reg, err := Builtin()
	require.NoError(t, err)

	movie := reg.MustGet(core.DomainMovie)
	yr, ok := movie.EraYears("modern")
	require.True(t, ok)
	assert.Equal(t, YearRange{Start: 1990, End: 2010}, yr)
	assert.True(t, yr.Contains(1990))
	assert.False(t, yr.Contains(2010))

	_, ok = movie.EraYears(core.EraAny)
	assert.False(t, ok)
	_, ok = movie.EraYears("jurassic")
	assert.False(t, ok)
	_, ok = movie.EraTags("modern")
	assert.False(t, ok)

	book := reg.MustGet(core.DomainBook)
	_, ok = book.EraYears("classic")
	assert.False(t, ok)
	tags, ok := book.EraTags("classic")
	require.True(t, ok)
	assert.Contains(t, tags, "Classics")
	assert.Contains(t, tags, "19th Century")
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "unknown domain",
			yaml: "domains:\n  - domain: music\n    fields: {id: [id], title: [title]}\n",
		},
		{
			name: "unknown fallback strategy",
			yaml: "domains:\n  - domain: book\n    fields: {id: [id], title: [title]}\n    fallback: {strategy: random}\n",
		},
		{
			name: "empty era range",
			yaml: "domains:\n  - domain: movie\n    fields: {id: [id], title: [title]}\n    eras:\n      x: {years: {start: 2000, end: 2000}}\n",
		},
		{
			name: "missing title field",
			yaml: "domains:\n  - domain: anime\n    fields: {id: [id]}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestDescriptor_PlaceholderImage(t *testing.T) {
	d := &Descriptor{}
	assert.NotEmpty(t, d.PlaceholderImage())
	d.Response.PlaceholderImage = "x.png"
	assert.Equal(t, "x.png", d.PlaceholderImage())
}
