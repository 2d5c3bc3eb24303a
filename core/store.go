package core

import "context"

// Store 是持久化文档的领域接口。
//
// 语料（embeddings）、用户阅读历史（profiles）与批量推荐结果（recommendations）
// 都以扁平的 key -> JSON 文档形式存放，Store 只负责整块读写，不关心内容。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store）实现
//   - 遵循依赖倒置原则：领域层定义接口，基础设施层实现接口
//
// 实现：
//   - store.FileStore：目录 + 文件名作为 key
//   - store.RedisStore：key 前缀 + 名称
//   - store.MemoryStore：测试 / 原型
type Store interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	// Get 读取单个 key 的值，不存在时返回 ErrStoreNotFound
	Get(ctx context.Context, key string) ([]byte, error)

	// Set 整体写入单个 key（覆盖，不追加）
	Set(ctx context.Context, key string, value []byte, ttl ...int) error

	// Close 关闭连接/释放资源
	Close() error
}

// Store 错误定义（使用统一的 DomainError）
var (
	// ErrStoreNotFound 表示 key 不存在
	ErrStoreNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: key not found")

	// ErrStoreNotSupported 表示操作不支持
	ErrStoreNotSupported = NewDomainError(ModuleStore, ErrorCodeNotSupported, "store: operation not supported")
)

// IsStoreNotFound 检查错误是否为 store 模块的 NOT_FOUND
func IsStoreNotFound(err error) bool {
	domainErr := GetDomainError(err)
	if domainErr != nil && domainErr.Module == ModuleStore {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}
