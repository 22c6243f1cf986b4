package utils

// Label 是推荐链路中的一等公民：可解释、可追踪、可透传。
type Label struct {
	Value  string `json:"value"`
	Source string `json:"source"` // filter / recall / rerank ...
}

// 链路中使用的标签 key。
const (
	LabelFilterTier   = "filter_tier"   // 过滤子集来自哪一级回退
	LabelRecallSource = "recall_source" // seed / popular
	LabelSeed         = "seed"          // 命中的种子标题
)

// MergeLabel 用于合并同名 Label，遵循“保留历史、可追踪”的默认策略。
// - Value: 以 '|' 累积
// - Source: 以 ',' 累积
func MergeLabel(existing Label, incoming Label) Label {
	if existing.Value == "" {
		return incoming
	}
	if incoming.Value == "" {
		return existing
	}

	merged := existing
	merged.Value = existing.Value + "|" + incoming.Value
	switch {
	case existing.Source == "":
		merged.Source = incoming.Source
	case incoming.Source == "":
		merged.Source = existing.Source
	default:
		merged.Source = existing.Source + "," + incoming.Source
	}
	return merged
}
