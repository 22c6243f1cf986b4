package vector

import (
	"context"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/rushteam/seedrec/core"
)

// CosineIndex 是基于隐向量矩阵的暴力余弦近邻索引。
//
// 特点：
//   - 每个请求构建一次，构建后只读，并发查询安全
//   - 距离 = 1 - 余弦相似度；零向量与任何向量的相似度视为 0
//   - 结果按距离升序，距离相同时按行号升序
//   - TopK 大于行数时返回全部行
type CosineIndex struct {
	rows  [][]float64
	norms []float64
	dim   int
}

// NewCosineIndex 基于 latent 的每一行构建索引。
func NewCosineIndex(latent *mat.Dense) *CosineIndex {
	idx := &CosineIndex{}
	if latent == nil {
		return idx
	}
	r, c := latent.Dims()
	idx.dim = c
	idx.rows = make([][]float64, r)
	idx.norms = make([]float64, r)
	for i := 0; i < r; i++ {
		row := mat.Row(nil, i, latent)
		idx.rows[i] = row
		idx.norms[i] = floats.Norm(row, 2)
	}
	return idx
}

// Len 返回索引中的行数。
func (idx *CosineIndex) Len() int {
	return len(idx.rows)
}

// Dim 返回向量维度。
func (idx *CosineIndex) Dim() int {
	return idx.dim
}

// Search 实现 core.NeighborIndex 接口
func (idx *CosineIndex) Search(ctx context.Context, req *core.VectorSearchRequest) (*core.VectorSearchResult, error) {
	if req == nil {
		return nil, core.NewDomainError(core.ModuleVector, core.ErrorCodeInvalidInput, "vector search request is nil")
	}
	if !core.ValidateVectorMetric(req.Metric) {
		return nil, core.NewDomainError(core.ModuleVector, core.ErrorCodeNotSupported, "unsupported metric: "+req.Metric)
	}
	if len(idx.rows) == 0 {
		return &core.VectorSearchResult{Items: []core.VectorSearchItem{}}, nil
	}
	if len(req.Vector) != idx.dim {
		return nil, core.NewDomainError(core.ModuleVector, core.ErrorCodeInvalidInput, "vector dimension mismatch")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	topK := req.TopK
	if topK <= 0 || topK > len(idx.rows) {
		topK = len(idx.rows)
	}

	qnorm := floats.Norm(req.Vector, 2)
	items := make([]core.VectorSearchItem, len(idx.rows))
	for i, row := range idx.rows {
		items[i] = core.VectorSearchItem{
			Row:      i,
			Distance: 1 - cosine(req.Vector, qnorm, row, idx.norms[i]),
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Distance != items[j].Distance {
			return items[i].Distance < items[j].Distance
		}
		return items[i].Row < items[j].Row
	})

	return &core.VectorSearchResult{Items: items[:topK]}, nil
}

func cosine(a []float64, anorm float64, b []float64, bnorm float64) float64 {
	if anorm == 0 || bnorm == 0 {
		return 0
	}
	return floats.Dot(a, b) / (anorm * bnorm)
}

var _ core.NeighborIndex = (*CosineIndex)(nil)
