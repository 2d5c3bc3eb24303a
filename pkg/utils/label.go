package utils

// Label 是推荐链路中的一等公民：可解释、可追踪、可透传。
// Value 与 Source 的语义由各 Node 约定；这里只提供标准化的合并规则。
type Label struct {
	Value  string `json:"value"`
	Source string `json:"source"` // recall / filter / rank / rerank ...
}

// 链路内约定的 Label key
const (
	LabelRecallSource = "recall_source" // 召回来源
	LabelFiltered     = "filtered"      // 被过滤原因（仅观测用）
	LabelRankStrategy = "rank_strategy" // 打分策略：simple / advanced
	LabelRerank       = "rerank"        // 经过的重排阶段
	LabelMMRScore     = "mmr_score"     // MMR 选择时的边际分
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
