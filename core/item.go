package core

import "github.com/rushteam/seedrec/pkg/utils"

// Item 是推荐链路中的统一承载结构：目录记录、行号、分数、标签。
// Row 是该 Item 在当前输入切片（目录或过滤子集）中的行号；
// 过滤节点输出子集后会重新编号，后续特征矩阵、隐向量矩阵、近邻索引都按 Row 对齐。
// Labels 用于解释与观测；Score 在近邻召回中为余弦距离（越小越相似）。
type Item struct {
	ID     string
	Row    int
	Record *Record
	Score  float64
	Labels map[string]utils.Label
}

func NewItem(id string) *Item {
	return &Item{
		ID:     id,
		Labels: make(map[string]utils.Label),
	}
}

// Clone 复制 Item（共享只读的 Record），Labels 独立。
func (it *Item) Clone() *Item {
	cp := &Item{
		ID:     it.ID,
		Row:    it.Row,
		Record: it.Record,
		Score:  it.Score,
		Labels: make(map[string]utils.Label, len(it.Labels)),
	}
	for k, v := range it.Labels {
		cp.Labels[k] = v
	}
	return cp
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// Label 读取 Label 的值，不存在时返回空串。
func (it *Item) Label(key string) string {
	if it == nil || it.Labels == nil {
		return ""
	}
	return it.Labels[key].Value
}
