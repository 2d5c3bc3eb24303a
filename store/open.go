package store

import (
	"context"

	"github.com/rushteam/artrec/core"
)

// 后端类型
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// BackendConfig 描述一个 Store 后端。
type BackendConfig struct {
	Type string

	// Dir 是 file 后端的根目录
	Dir string

	Redis RedisConfig
}

// Open 按配置创建 Store。
func Open(ctx context.Context, cfg BackendConfig) (core.Store, error) {
	switch cfg.Type {
	case "", BackendFile:
		return NewFileStore(cfg.Dir), nil
	case BackendRedis:
		return NewRedisStore(ctx, cfg.Redis)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeNotSupported,
			"store: unknown backend "+cfg.Type)
	}
}
