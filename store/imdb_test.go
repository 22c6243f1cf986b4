package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/seedrec/core"
)

const imdbHeader = "tconst\ttitleType\tprimaryTitle\toriginalTitle\tisAdult\tstartYear\tendYear\truntimeMinutes\tgenres\n"

func TestReadIMDbBasics(t *testing.T) {
	data := imdbHeader +
		"tt0111161\tmovie\tThe Shawshank Redemption\tThe Shawshank Redemption\t0\t1994\t\\N\t142\tDrama\n" +
		"tt0903747\ttvSeries\tBreaking Bad\tBreaking Bad\t0\t2008\t2013\t49\tCrime,Drama,Thriller\n" +
		"tt0000001\tshort\tCarmencita\tCarmencita\t0\t1894\t\\N\t1\tDocumentary,Short\n" +
		"tt0000002\tmovie\tAdult Title\tAdult Title\t1\t2001\t\\N\t90\tDrama\n" +
		"tt0000003\tmovie\tNo Year\tNo Year\t0\t\\N\t\\N\t90\tDrama\n" +
		"tt0000004\tmovie\tNo Genre\tNo Genre\t0\t2001\t\\N\t90\t\\N\n" +
		"tt0000005\ttvMiniSeries\tChernobyl\tChernobyl\t0\t2019\t2019\t330\tDrama,History\n"

	records, err := ReadIMDbBasics(strings.NewReader(data), IMDbOptions{})
	require.NoError(t, err)
	require.Len(t, records, 3)

	shawshank := records[0]
	assert.Equal(t, "tt0111161", shawshank.ID)
	assert.Equal(t, "Director", shawshank.Creator)
	assert.Equal(t, IMDbPlaceholderRating, shawshank.Rating)
	assert.EqualValues(t, IMDbPlaceholderVotes, shawshank.Popularity)
	assert.Equal(t, "movie", shawshank.Kind)
	assert.Equal(t, PosterURL("tt0111161"), shawshank.Image)
	require.NotNil(t, shawshank.Year)
	assert.Equal(t, 1994, *shawshank.Year)

	assert.Equal(t, "Creator", records[1].Creator)
	assert.Equal(t, []string{"Crime", "Drama", "Thriller"}, records[1].Tags)
	assert.Equal(t, "tvMiniSeries", records[2].Kind)
}

func TestReadIMDbBasics_MissingColumn(t *testing.T) {
	_, err := ReadIMDbBasics(strings.NewReader("tconst\tprimaryTitle\n"), IMDbOptions{})
	assert.ErrorContains(t, err, "titleType")
}

func TestReadIMDbBasics_Sample(t *testing.T) {
	var b strings.Builder
	b.WriteString(imdbHeader)
	for i := 0; i < 50; i++ {
		fmt.Fprintf(&b, "tt%07d\tmovie\tTitle %d\tTitle %d\t0\t2000\t\\N\t90\tDrama\n", i, i, i)
	}

	first, err := ReadIMDbBasics(strings.NewReader(b.String()), IMDbOptions{SampleSize: 10})
	require.NoError(t, err)
	require.Len(t, first, 10)

	second, err := ReadIMDbBasics(strings.NewReader(b.String()), IMDbOptions{SampleSize: 10})
	require.NoError(t, err)

	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID, "sampling must be deterministic")
		if i > 0 {
			assert.Less(t, first[i-1].ID, first[i].ID, "sample keeps source order")
		}
	}
}

func TestPosterURL(t *testing.T) {
	assert.Equal(t, "https://m.media-amazon.com/images/M/0111161._V1_SX300.jpg", PosterURL("tt0111161"))
}

func TestProcessIMDbFile(t *testing.T) {
	dir := t.TempDir()
	raw := filepath.Join(dir, "title.basics.tsv")
	processed := filepath.Join(dir, "out", "movie_processed.csv")
	data := imdbHeader + "tt0111161\tmovie\tThe Shawshank Redemption\tThe Shawshank Redemption\t0\t1994\t\\N\t142\tDrama\n"
	require.NoError(t, os.WriteFile(raw, []byte(data), 0o644))

	records, err := ProcessIMDbFile(raw, processed, IMDbOptions{})
	require.NoError(t, err)
	require.Len(t, records, 1)

	reread, err := ReadCatalogFile(processed, descriptor(t, core.DomainMovie))
	require.NoError(t, err)
	require.Len(t, reread, 1)
	assert.Equal(t, records[0], reread[0])

	_, err = os.Stat(processed + ".tmp")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
