package feature

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/rushteam/seedrec/core"
)

func TestTagVectorizer_FitTransform(t *testing.T) {
	v := &TagVectorizer{}
	m := v.FitTransform([][]string{
		{"Fiction", "Classics"},
		{"fiction"},
		{"Unknown"},
	})
	require.NotNil(t, m)
	assert.Equal(t, []string{"classics", "fiction", "unknown"}, v.Vocabulary)

	rows, cols := m.Dims()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 3, cols)

	for i := 0; i < rows; i++ {
		assert.InDelta(t, 1.0, floats.Norm(mat.Row(nil, i, m), 2), 1e-9)
	}
	assert.Equal(t, []float64{0, 1, 0}, mat.Row(nil, 1, m))

	// 稀有标签的 idf 更高
	row0 := mat.Row(nil, 0, m)
	assert.Greater(t, row0[0], row0[1])
}

func TestTagVectorizer_Empty(t *testing.T) {
	v := &TagVectorizer{}
	assert.Nil(t, v.FitTransform(nil))
}

func TestZScoreNormalizer(t *testing.T) {
	tests := []struct {
		name string
		col  []float64
		want []float64
	}{
		{
			name: "constant column maps to zero",
			col:  []float64{4.3, 4.3, 4.3},
			want: []float64{0, 0, 0},
		},
		{
			name: "population standard deviation",
			col:  []float64{1, 2, 3},
			want: []float64{-math.Sqrt(1.5), 0, math.Sqrt(1.5)},
		},
		{
			name: "single value",
			col:  []float64{7},
			want: []float64{0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &ZScoreNormalizer{}
			n.Fit(map[string][]float64{"x": tt.col})
			got := n.Transform("x", tt.col)
			require.Len(t, got, len(tt.want))
			for i := range got {
				assert.InDelta(t, tt.want[i], got[i], 1e-9)
			}
		})
	}
}

func items(records ...*core.Record) []*core.Item {
	return core.NewCatalog(core.DomainBook, records).Items()
}

func TestBuildMatrix(t *testing.T) {
	in := items(
		&core.Record{ID: "1", Title: "a", Tags: []string{"Fiction", "Classics"}, Rating: 4.3, Popularity: 4000},
		&core.Record{ID: "2", Title: "b", Tags: []string{"Fiction"}, Rating: 4.3, Popularity: 3000},
		&core.Record{ID: "3", Title: "c", Tags: []string{"Romance"}, Rating: 4.3, Popularity: 2000},
	)
	m, vocab := BuildMatrix(in)
	assert.Equal(t, []string{"classics", "fiction", "romance"}, vocab)

	rows, cols := m.Dims()
	assert.Equal(t, 3, rows)
	assert.Equal(t, len(vocab)+2, cols)

	rating := mat.Col(nil, len(vocab), m)
	assert.Equal(t, []float64{0, 0, 0}, rating)

	pop := mat.Col(nil, len(vocab)+1, m)
	assert.Greater(t, pop[0], pop[1])
	assert.Greater(t, pop[1], pop[2])
	assert.InDelta(t, 0, floats.Sum(pop), 1e-9)
}

func TestMatrixAndReduceNodes(t *testing.T) {
	in := items(
		&core.Record{ID: "1", Title: "a", Tags: []string{"Fiction", "Classics"}, Rating: 4.3, Popularity: 4000},
		&core.Record{ID: "2", Title: "b", Tags: []string{"Fiction", "Science Fiction"}, Rating: 4.2, Popularity: 3500},
		&core.Record{ID: "3", Title: "c", Tags: []string{"Romance"}, Rating: 3.9, Popularity: 3200},
	)
	rctx := core.NewRecommendContext("", core.Criteria{}, nil, 5, nil)
	rctx.Frame.Subset = in

	ctx := context.Background()
	out, err := (&MatrixNode{}).Process(ctx, rctx, in)
	require.NoError(t, err)
	assert.Equal(t, in, out)
	require.NotNil(t, rctx.Frame.Features)
	assert.Len(t, rctx.Frame.Vocabulary, 4)

	out, err = (&ReduceNode{MaxComponents: 2}).Process(ctx, rctx, out)
	require.NoError(t, err)
	assert.Len(t, out, 3)
	require.NotNil(t, rctx.Frame.Latent)
	r, c := rctx.Frame.Latent.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 2, c)
}

func TestMatrixNode_Errors(t *testing.T) {
	in := items(&core.Record{ID: "1", Title: "a", Tags: []string{"Fiction"}})
	rctx := core.NewRecommendContext("", core.Criteria{}, nil, 5, nil)

	_, err := (&MatrixNode{}).Process(context.Background(), rctx, in)
	assert.Error(t, err, "items must be aligned with the subset")

	_, err = (&ReduceNode{}).Process(context.Background(), rctx, in)
	assert.Error(t, err, "reduce requires a feature matrix")

	out, err := (&MatrixNode{}).Process(context.Background(), rctx, nil)
	assert.NoError(t, err)
	assert.Empty(t, out)
}
