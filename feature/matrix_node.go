package feature

import (
	"context"

	"gonum.org/v1/gonum/mat"

	"github.com/rushteam/seedrec/core"
	"github.com/rushteam/seedrec/pipeline"
)

// 数值特征列名
const (
	ColumnRating     = "rating"
	ColumnPopularity = "popularity"
)

// MatrixNode 基于过滤子集构建特征矩阵：TF-IDF 标签列 + 标准化后的评分与热度两列。
// 矩阵行与 rctx.Frame.Subset 一一对应，列顺序为 [词表..., rating, popularity]。
// 子集为空时原样透传，不写入特征矩阵。
type MatrixNode struct{}

func (n *MatrixNode) Name() string {
	return "feature.matrix"
}

func (n *MatrixNode) Kind() pipeline.Kind {
	return pipeline.KindFeature
}

func (n *MatrixNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}
	if len(rctx.Frame.Subset) != len(items) {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeInternalError,
			"feature matrix: items are not aligned with the filtered subset")
	}

	features, vocab := BuildMatrix(items)
	rctx.Frame.Features = features
	rctx.Frame.Vocabulary = vocab
	return items, nil
}

// BuildMatrix 构建特征矩阵并返回本次使用的词表。
func BuildMatrix(items []*core.Item) (*mat.Dense, []string) {
	n := len(items)
	docs := make([][]string, n)
	ratings := make([]float64, n)
	pops := make([]float64, n)
	for i, it := range items {
		if it.Record == nil {
			docs[i] = []string{core.UnknownTag}
			continue
		}
		docs[i] = it.Record.Tags
		ratings[i] = it.Record.Rating
		pops[i] = float64(it.Record.Popularity)
	}

	vec := &TagVectorizer{}
	tfidf := vec.FitTransform(docs)
	vocabCols := len(vec.Vocabulary)

	norm := &ZScoreNormalizer{}
	norm.Fit(map[string][]float64{
		ColumnRating:     ratings,
		ColumnPopularity: pops,
	})
	ratings = norm.Transform(ColumnRating, ratings)
	pops = norm.Transform(ColumnPopularity, pops)

	out := mat.NewDense(n, vocabCols+2, nil)
	if tfidf != nil {
		out.Slice(0, n, 0, vocabCols).(*mat.Dense).Copy(tfidf)
	}
	for i := 0; i < n; i++ {
		out.Set(i, vocabCols, ratings[i])
		out.Set(i, vocabCols+1, pops[i])
	}
	return out, vec.Vocabulary
}
