package core

import "time"

// 默认参数
const (
	DefaultTopN            = 5
	DefaultCacheSize       = 128
	DefaultTimeDecayDays   = 30.0
	DefaultDiversityWeight = 0.3
	DefaultClusterWeight   = 0.2
	DefaultMMRLambda       = 0.5
)

// RecommendConfig 是推荐相关的配置接口，用于提供默认值。
type RecommendConfig interface {
	// DefaultTopN 返回默认的推荐数量
	DefaultTopN() int

	// DefaultCacheSize 返回默认的向量缓存容量
	DefaultCacheSize() int

	// DefaultTimeDecayDays 返回新鲜度衰减的时间常数（天）
	DefaultTimeDecayDays() float64

	// DefaultMMRLambda 返回 MMR 的相关性/冗余权衡参数
	DefaultMMRLambda() float64

	// DefaultLoadTimeout 返回加载语料的默认超时时间
	DefaultLoadTimeout() time.Duration
}

// DefaultRecommendConfig 是默认的推荐配置实现。
type DefaultRecommendConfig struct{}

func (c *DefaultRecommendConfig) DefaultTopN() int { return DefaultTopN }

func (c *DefaultRecommendConfig) DefaultCacheSize() int { return DefaultCacheSize }

func (c *DefaultRecommendConfig) DefaultTimeDecayDays() float64 { return DefaultTimeDecayDays }

func (c *DefaultRecommendConfig) DefaultMMRLambda() float64 { return DefaultMMRLambda }

func (c *DefaultRecommendConfig) DefaultLoadTimeout() time.Duration { return 30 * time.Second }
