package model

import (
	"gonum.org/v1/gonum/mat"
)

// DefaultMaxComponents 是默认保留的最大分量数。
const DefaultMaxComponents = 50

// TruncatedSVD 把特征矩阵投影到低维稠密空间：latent = U_k · Σ_k。
//
// 分量数 k = min(MaxComponents, cols-1)，且不小于 1；列数小于 2 时 k = max(1, cols-1)。
// k 同时受奇异值个数 min(rows, cols) 约束。行顺序与输入一致。
type TruncatedSVD struct {
	MaxComponents int

	// Converged 表示最近一次 FitTransform 是否完成了分解
	Converged bool
	// Singular 是保留下来的奇异值（降序）
	Singular []float64
}

// NewTruncatedSVD 创建降维器，maxComponents <= 0 时使用默认值。
func NewTruncatedSVD(maxComponents int) *TruncatedSVD {
	if maxComponents <= 0 {
		maxComponents = DefaultMaxComponents
	}
	return &TruncatedSVD{MaxComponents: maxComponents}
}

// Components 根据列数计算分量数 k（k >= 1）。
func (s *TruncatedSVD) Components(cols int) int {
	maxK := s.MaxComponents
	if maxK <= 0 {
		maxK = DefaultMaxComponents
	}
	k := cols - 1
	if k > maxK {
		k = maxK
	}
	if k < 1 {
		k = 1
	}
	return k
}

// FitTransform 对特征矩阵做瘦 SVD 并返回前 k 个分量的隐向量矩阵。
// 分解不收敛时，退化为直接取特征矩阵的前 k 列。
func (s *TruncatedSVD) FitTransform(features *mat.Dense) *mat.Dense {
	if features == nil {
		return nil
	}
	rows, cols := features.Dims()
	if rows == 0 || cols == 0 {
		return nil
	}

	k := s.Components(cols)

	var svd mat.SVD
	s.Converged = svd.Factorize(features, mat.SVDThin)
	if !s.Converged {
		if k > cols {
			k = cols
		}
		s.Singular = nil
		return mat.DenseCopyOf(features.Slice(0, rows, 0, k))
	}

	values := svd.Values(nil)
	if k > len(values) {
		k = len(values)
	}

	var u mat.Dense
	svd.UTo(&u)

	latent := mat.NewDense(rows, k, nil)
	latent.Copy(u.Slice(0, rows, 0, k))
	for j := 0; j < k; j++ {
		for i := 0; i < rows; i++ {
			latent.Set(i, j, latent.At(i, j)*values[j])
		}
	}
	s.Singular = values[:k]
	return latent
}
