package feature

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Normalizer 是数值列标准化接口
type Normalizer interface {
	// Fit 基于当前样本计算统计量
	Fit(columns map[string][]float64)
	// NormalizeValueWithKey 标准化单个值（指定特征名）
	NormalizeValueWithKey(key string, value float64) float64
}

// ZScoreNormalizer Z-score 标准化（Standardization）
// 公式: z = (x - μ) / σ，σ 为总体标准差
// 特点: 均值变为 0，标准差变为 1；方差为 0 的列全部映射为 0
type ZScoreNormalizer struct {
	Mean map[string]float64 // 特征均值
	Std  map[string]float64 // 特征标准差，0 表示常量列
}

// NewZScoreNormalizer 创建 Z-score 标准化器
func NewZScoreNormalizer(mean, std map[string]float64) *ZScoreNormalizer {
	return &ZScoreNormalizer{
		Mean: mean,
		Std:  std,
	}
}

// Fit 计算每列的均值与总体标准差。
// NaN / Inf 视为 0（缺失值按 0 处理）。
func (n *ZScoreNormalizer) Fit(columns map[string][]float64) {
	n.Mean = make(map[string]float64, len(columns))
	n.Std = make(map[string]float64, len(columns))
	for key, col := range columns {
		clean := sanitize(col)
		if len(clean) == 0 {
			continue
		}
		if floats.Min(clean) == floats.Max(clean) {
			n.Mean[key] = clean[0]
			n.Std[key] = 0
			continue
		}
		mean, std := stat.PopMeanStdDev(clean, nil)
		n.Mean[key] = mean
		n.Std[key] = std
	}
}

// NormalizeValueWithKey 标准化单个值（指定特征名）
func (n *ZScoreNormalizer) NormalizeValueWithKey(key string, value float64) float64 {
	std := n.Std[key]
	if std <= 0 || math.IsNaN(std) || math.IsInf(std, 0) {
		return 0
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		value = 0
	}
	return (value - n.Mean[key]) / std
}

// Transform 标准化一整列。
func (n *ZScoreNormalizer) Transform(key string, col []float64) []float64 {
	out := make([]float64, len(col))
	for i, v := range col {
		out[i] = n.NormalizeValueWithKey(key, v)
	}
	return out
}

// sanitize 把 NaN / Inf 替换为 0。
func sanitize(col []float64) []float64 {
	out := make([]float64, len(col))
	for i, v := range col {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out[i] = v
	}
	return out
}

var _ Normalizer = (*ZScoreNormalizer)(nil)
