package store

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/rushteam/artrec/core"
	"github.com/rushteam/artrec/logging"
	"github.com/rushteam/artrec/metrics"
	"github.com/rushteam/artrec/pkg/conv"
)

// 维度推断策略
const (
	DimensionMajority = "majority" // 出现次数最多的向量长度，平票取枚举顺序中最先出现者
	DimensionFirst    = "first"    // 枚举顺序中第一个物品的向量长度
)

// 维度不一致处理策略
const (
	MismatchRepair = "repair" // 补零或截断到 D
	MismatchReject = "reject" // 丢弃该物品
)

// CorpusOptions 控制语料解析时的维度策略。
type CorpusOptions struct {
	// Dimension > 0 时直接作为 D，不做推断
	Dimension int

	// DimensionPolicy: majority（默认）/ first
	DimensionPolicy string

	// MismatchPolicy: repair（默认）/ reject
	MismatchPolicy string
}

func (o CorpusOptions) withDefaults() CorpusOptions {
	if o.DimensionPolicy == "" {
		o.DimensionPolicy = DimensionMajority
	}
	if o.MismatchPolicy == "" {
		o.MismatchPolicy = MismatchRepair
	}
	return o
}

// Validate 检查策略取值。
func (o CorpusOptions) Validate() error {
	o = o.withDefaults()
	if o.Dimension < 0 {
		return core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidInput,
			fmt.Sprintf("store: dimension must be >= 0, got %d", o.Dimension))
	}
	switch o.DimensionPolicy {
	case DimensionMajority, DimensionFirst:
	default:
		return core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidInput,
			"store: unknown dimension policy "+o.DimensionPolicy)
	}
	switch o.MismatchPolicy {
	case MismatchRepair, MismatchReject:
	default:
		return core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidInput,
			"store: unknown mismatch policy "+o.MismatchPolicy)
	}
	return nil
}

// LoadReport 记录一次解析中被丢弃或修复的物品。
type LoadReport struct {
	Discarded []string // 向量缺失、非数组或为空
	Padded    []string
	Truncated []string
	Rejected  []string // MismatchReject 下维度不一致
}

// Corpus 是加载完成后的只读语料快照，实现 core.Corpus。
//
// 物品按 ID 升序排列，向量存放在一个 N*D 的稠密 float32 矩阵中，
// Article.Vector 是矩阵对应行的切片。加载后不再修改，可并发读取。
type Corpus struct {
	ids      []string
	index    map[string]int
	articles []core.Article
	matrix   []float32
	dim      int

	// Report 是本次加载的修复/丢弃记录
	Report LoadReport

	generation uint64
	cache      *vectorCache
}

var _ core.Corpus = (*Corpus)(nil)

type rawArticle struct {
	Vector   any             `json:"vector"`
	Cluster  any             `json:"cluster"`
	Metadata json.RawMessage `json:"metadata"`
}

type candidate struct {
	id       string
	vector   []float32
	cluster  *int
	metadata core.Metadata
}

// ParseCorpus 解析 embeddings 文档：{id: {vector, cluster?, metadata}}。
//
// 顶层不是对象时返回 DATA_LOAD；向量缺失、非数值数组或为空的物品被丢弃；
// 没有任何物品留下时返回 EMPTY_CORPUS。
func ParseCorpus(data []byte, opts CorpusOptions) (*Corpus, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	log := logging.Component("store")

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, core.WrapDomainError(core.ModuleStore, core.ErrorCodeDataLoad,
			"store: embeddings document is not a JSON object", err)
	}

	ids := make([]string, 0, len(doc))
	for id := range doc {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var report LoadReport
	cands := make([]candidate, 0, len(ids))
	for _, id := range ids {
		c, reason := decodeArticle(id, doc[id], log)
		if reason != "" {
			log.Warn().Str("item_id", id).Str("reason", reason).Msg("discarding item without usable vector")
			report.Discarded = append(report.Discarded, id)
			metrics.CorpusRepairs.WithLabelValues("discarded").Inc()
			continue
		}
		cands = append(cands, c)
	}
	if len(cands) == 0 {
		return nil, core.ErrEmptyCorpus
	}

	dim := opts.Dimension
	if dim == 0 {
		dim = inferDimension(cands, opts.DimensionPolicy)
	}

	kept := cands[:0]
	for _, c := range cands {
		n := len(c.vector)
		switch {
		case n == dim:
		case opts.MismatchPolicy == MismatchReject:
			log.Warn().Str("item_id", c.id).Int("len", n).Int("dimension", dim).Msg("rejecting item with mismatched vector length")
			report.Rejected = append(report.Rejected, c.id)
			metrics.CorpusRepairs.WithLabelValues("rejected").Inc()
			continue
		case n < dim:
			log.Warn().Str("item_id", c.id).Int("len", n).Int("dimension", dim).Msg("zero-padding vector")
			report.Padded = append(report.Padded, c.id)
			metrics.CorpusRepairs.WithLabelValues("padded").Inc()
		default:
			log.Warn().Str("item_id", c.id).Int("len", n).Int("dimension", dim).Msg("truncating vector")
			report.Truncated = append(report.Truncated, c.id)
			metrics.CorpusRepairs.WithLabelValues("truncated").Inc()
		}
		kept = append(kept, c)
	}
	if len(kept) == 0 {
		return nil, core.ErrEmptyCorpus
	}

	c := &Corpus{
		ids:      make([]string, len(kept)),
		index:    make(map[string]int, len(kept)),
		articles: make([]core.Article, len(kept)),
		matrix:   make([]float32, len(kept)*dim),
		dim:      dim,
		Report:   report,
	}
	for i, k := range kept {
		row := c.matrix[i*dim : (i+1)*dim : (i+1)*dim]
		copy(row, k.vector)
		c.ids[i] = k.id
		c.index[k.id] = i
		c.articles[i] = core.Article{
			ID:       k.id,
			Vector:   row,
			Cluster:  k.cluster,
			Metadata: k.metadata,
		}
	}
	return c, nil
}

func decodeArticle(id string, raw json.RawMessage, log zerolog.Logger) (candidate, string) {
	var ra rawArticle
	if err := json.Unmarshal(raw, &ra); err != nil {
		return candidate{}, "entry is not an object"
	}
	if ra.Vector == nil {
		return candidate{}, "vector missing"
	}
	vec, ok := conv.ToFloat32Slice(ra.Vector)
	if !ok {
		return candidate{}, "vector is not a numeric array"
	}
	if len(vec) == 0 {
		return candidate{}, "vector is empty"
	}

	c := candidate{id: id, vector: vec}
	if ra.Cluster != nil {
		if _, isBool := ra.Cluster.(bool); !isBool {
			if label, ok := conv.ToInt(ra.Cluster); ok {
				c.cluster = &label
			}
		}
		if c.cluster == nil {
			log.Warn().Str("item_id", id).Interface("cluster", ra.Cluster).Msg("ignoring non-integer cluster label")
		}
	}
	if len(ra.Metadata) > 0 && !strings.EqualFold(string(ra.Metadata), "null") {
		if err := json.Unmarshal(ra.Metadata, &c.metadata); err != nil {
			log.Warn().Str("item_id", id).Err(err).Msg("ignoring malformed metadata")
			c.metadata = core.Metadata{}
		}
	}
	return c, ""
}

func inferDimension(cands []candidate, policy string) int {
	if policy == DimensionFirst {
		return len(cands[0].vector)
	}
	counts := make(map[int]int)
	order := make([]int, 0)
	for _, c := range cands {
		n := len(c.vector)
		if counts[n] == 0 {
			order = append(order, n)
		}
		counts[n]++
	}
	best := order[0]
	for _, n := range order[1:] {
		if counts[n] > counts[best] {
			best = n
		}
	}
	return best
}

// Len 返回物品数量
func (c *Corpus) Len() int { return len(c.ids) }

// Dimension 返回向量维度 D
func (c *Corpus) Dimension() int { return c.dim }

// At 返回第 i 个物品
func (c *Corpus) At(i int) *core.Article { return &c.articles[i] }

// Index 返回 id 在枚举顺序中的位置
func (c *Corpus) Index(id string) (int, bool) {
	i, ok := c.index[id]
	return i, ok
}

// IDs 返回按枚举顺序排列的物品 ID（副本）。
func (c *Corpus) IDs() []string {
	out := make([]string, len(c.ids))
	copy(out, c.ids)
	return out
}

// Matrix 返回 N*D 的行优先稠密矩阵，只读。
func (c *Corpus) Matrix() []float32 { return c.matrix }

// Generation 返回快照代数，每次安装到 VectorStore 时递增。
func (c *Corpus) Generation() uint64 { return c.generation }

// Article 按 ID 返回物品
func (c *Corpus) Article(id string) (*core.Article, bool) {
	i, ok := c.index[id]
	if !ok {
		return nil, false
	}
	return &c.articles[i], true
}

// GetVector 返回物品向量的副本；快照已安装到 VectorStore 时经由其 LRU 缓存。
func (c *Corpus) GetVector(id string) ([]float32, error) {
	if c.cache != nil {
		return c.cache.get(c, id)
	}
	return c.copyRow(id)
}

func (c *Corpus) copyRow(id string) ([]float32, error) {
	i, ok := c.index[id]
	if !ok {
		return nil, core.WrapDomainError(core.ModuleStore, core.ErrorCodeNotFound,
			"store: item vector not found", fmt.Errorf("id %q", id))
	}
	out := make([]float32, c.dim)
	copy(out, c.matrix[i*c.dim:(i+1)*c.dim])
	return out, nil
}
