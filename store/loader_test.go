package store

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/seedrec/core"
	"github.com/rushteam/seedrec/domain"
)

func descriptor(t *testing.T, d core.Domain) *domain.Descriptor {
	t.Helper()
	reg, err := domain.Builtin()
	require.NoError(t, err)
	return reg.MustGet(d)
}

func TestReadCatalog_Book(t *testing.T) {
	data := "\ufeffitem_id,title,author,genres,avg_rating,num_votes,img\n" +
		`1,To Kill a Mockingbird,Harper Lee,"Fiction,Classics",4.3,4000,http://x/1.jpg` + "\n" +
		`2,1984,George Orwell,"Fiction, Science Fiction,Fiction",4.2,3500,` + "\n" +
		`3,,Nobody,Fiction,4.0,10,` + "\n" +
		`4,Untagged,Someone,,abc,n/a,` + "\n"

	records, err := ReadCatalog(strings.NewReader(data), ',', descriptor(t, core.DomainBook))
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "1", records[0].ID)
	assert.Equal(t, "Harper Lee", records[0].Creator)
	assert.Equal(t, []string{"Fiction", "Classics"}, records[0].Tags)
	assert.Equal(t, 4.3, records[0].Rating)
	assert.EqualValues(t, 4000, records[0].Popularity)
	assert.Nil(t, records[0].Year)
	assert.Equal(t, core.DomainBook, records[0].Domain)

	assert.Equal(t, []string{"Fiction", "Science Fiction"}, records[1].Tags)
	assert.Empty(t, records[1].Image)

	assert.Equal(t, "Untagged", records[2].Title)
	assert.Equal(t, []string{core.UnknownTag}, records[2].Tags)
	assert.Zero(t, records[2].Rating)
	assert.Zero(t, records[2].Popularity)
}

func TestReadCatalog_MovieAlternateColumns(t *testing.T) {
	data := "tconst\tprimaryTitle\ttitleType\tgenres\tavg_rating\tnum_votes\tstartYear\n" +
		"tt1\tHeat\tmovie\tAction,Crime\t8.3\t700000\t1995\n" +
		"tt2\tLost\ttvSeries\tDrama\t8.3\t600000\t\\N\n"

	records, err := ReadCatalog(strings.NewReader(data), '\t', descriptor(t, core.DomainMovie))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "tt1", records[0].ID)
	assert.Equal(t, "Heat", records[0].Title)
	assert.Equal(t, "movie", records[0].Kind)
	require.NotNil(t, records[0].Year)
	assert.Equal(t, 1995, *records[0].Year)
	assert.Equal(t, "tvSeries", records[1].Kind)
	assert.Nil(t, records[1].Year)
}

func TestReadCatalog_RowNumberIDs(t *testing.T) {
	data := "title,genre\nA,Action\nB,Drama\n"
	records, err := ReadCatalog(strings.NewReader(data), ',', descriptor(t, core.DomainAnime))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "1", records[0].ID)
	assert.Equal(t, "2", records[1].ID)
}

func TestReadCatalog_Errors(t *testing.T) {
	desc := descriptor(t, core.DomainBook)

	_, err := ReadCatalog(strings.NewReader(""), ',', desc)
	assert.Error(t, err)

	_, err = ReadCatalog(strings.NewReader("item_id,name\n1,x\n"), ',', desc)
	assert.ErrorContains(t, err, "title")
}

func TestWriteCatalog_RoundTrip(t *testing.T) {
	year := 1994
	in := []*core.Record{{
		ID: "tt0111161", Title: "The Shawshank Redemption", Creator: "Director",
		Tags: []string{"Drama"}, Rating: 9.3, Popularity: 2400000, Year: &year,
		Image: "http://x.jpg", Kind: "movie",
	}}

	dir := t.TempDir()
	path := filepath.Join(dir, "movie.csv")
	var buf bytes.Buffer
	require.NoError(t, WriteCatalog(&buf, in))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	out, err := ReadCatalogFile(path, descriptor(t, core.DomainMovie))
	require.NoError(t, err)
	require.Len(t, out, 1)
	in[0].Domain = core.DomainMovie
	assert.Equal(t, in[0], out[0])
}

func TestReadCatalogFile_Missing(t *testing.T) {
	_, err := ReadCatalogFile(filepath.Join(t.TempDir(), "nope.csv"), descriptor(t, core.DomainBook))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
