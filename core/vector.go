package core

// CorpusView 是一次推荐请求看到的只读语料快照。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store.Corpus）实现
//   - 快照加载后不再修改，可被多个请求并发读取
//   - 枚举顺序固定（按 ID 升序），作为打分时稳定排序的次序
type CorpusView interface {
	// Len 返回物品数量
	Len() int

	// Dimension 返回向量维度 D
	Dimension() int

	// At 返回第 i 个物品（枚举顺序）
	At(i int) *Article

	// Index 返回物品在枚举顺序中的位置
	Index(id string) (int, bool)
}

// VectorLookup 是按物品 ID 的向量查找接口（带缓存）。
type VectorLookup interface {
	// GetVector 返回物品向量，未命中时返回 ErrVectorNotFound
	GetVector(id string) ([]float32, error)

	// Article 返回物品本身
	Article(id string) (*Article, bool)
}

// Corpus 同时提供枚举与查找能力，store.Corpus 实现此接口。
type Corpus interface {
	CorpusView
	VectorLookup
}
