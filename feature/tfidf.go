package feature

import (
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// TagVectorizer 把标签列表转换为 TF-IDF 向量。
//
// 规则：
//   - 标签先转小写，词表由当前样本中出现的全部标签构成（按字典序排列）
//   - 词频为原始计数，idf 使用平滑公式 ln((1+n)/(1+df)) + 1
//   - 每行做 L2 归一化，全零行保持为零
//
// 词表只在单次请求内有效，不同请求的向量不可比较。
type TagVectorizer struct {
	Vocabulary []string
	index      map[string]int
	idf        []float64
}

// FitTransform 基于 docs 构建词表并返回 n × |V| 的 TF-IDF 矩阵。
// docs 为空时返回 nil。
func (v *TagVectorizer) FitTransform(docs [][]string) *mat.Dense {
	n := len(docs)
	if n == 0 {
		return nil
	}

	lowered := make([][]string, n)
	df := make(map[string]int)
	for i, doc := range docs {
		seen := make(map[string]struct{}, len(doc))
		lowered[i] = make([]string, 0, len(doc))
		for _, t := range doc {
			t = strings.ToLower(t)
			lowered[i] = append(lowered[i], t)
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			df[t]++
		}
	}

	v.Vocabulary = make([]string, 0, len(df))
	for t := range df {
		v.Vocabulary = append(v.Vocabulary, t)
	}
	sort.Strings(v.Vocabulary)

	v.index = make(map[string]int, len(v.Vocabulary))
	v.idf = make([]float64, len(v.Vocabulary))
	for j, t := range v.Vocabulary {
		v.index[t] = j
		v.idf[j] = math.Log(float64(1+n)/float64(1+df[t])) + 1
	}

	cols := len(v.Vocabulary)
	if cols == 0 {
		return nil
	}
	out := mat.NewDense(n, cols, nil)
	row := make([]float64, cols)
	for i, doc := range lowered {
		for j := range row {
			row[j] = 0
		}
		for _, t := range doc {
			row[v.index[t]]++
		}
		for j := range row {
			row[j] *= v.idf[j]
		}
		if norm := floats.Norm(row, 2); norm > 0 {
			floats.Scale(1/norm, row)
		}
		out.SetRow(i, row)
	}
	return out
}
