package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/rushteam/artrec/core"
	"github.com/rushteam/artrec/rank"
	"github.com/rushteam/artrec/store"
)

// ConfigPathEnvVar 指定配置文件路径的环境变量
const ConfigPathEnvVar = "ARTREC_CONFIG"

// Settings 是进程级配置。
// 加载顺序：默认值 -> YAML 文件（可选）-> 环境变量，后者覆盖前者。
type Settings struct {
	Recommender RecommenderSettings `koanf:"recommender"`
	Corpus      CorpusSettings      `koanf:"corpus"`
	Store       StoreSettings       `koanf:"store"`
	Data        DataSettings        `koanf:"data"`
	Filter      FilterSettings      `koanf:"filter"`
	Rerank      RerankSettings      `koanf:"rerank"`
	Batch       BatchSettings       `koanf:"batch"`
	Logging     LoggingSettings     `koanf:"logging"`

	// PipelineFile 非空时按 YAML 构建 Pipeline，忽略 Filter/Rerank 开关
	PipelineFile string `koanf:"pipeline_file"`
}

// RecommenderSettings 是打分策略配置。
type RecommenderSettings struct {
	Type            string  `koanf:"type" validate:"required,oneof=simple advanced"`
	DiversityWeight float64 `koanf:"diversity_weight" validate:"gte=0,lte=1"`
	ClusterWeight   float64 `koanf:"cluster_weight" validate:"gte=0,lte=1"`
	TimeDecayDays   float64 `koanf:"time_decay_days" validate:"gt=0"`
	TopN            int     `koanf:"top_n" validate:"gte=1"`
	CacheSize       int     `koanf:"cache_size" validate:"gte=1"`
}

// CorpusSettings 是语料维度策略配置。
type CorpusSettings struct {
	Dimension       int           `koanf:"dimension" validate:"gte=0"`
	DimensionPolicy string        `koanf:"dimension_policy" validate:"oneof=majority first"`
	MismatchPolicy  string        `koanf:"mismatch_policy" validate:"oneof=repair reject"`
	LoadTimeout     time.Duration `koanf:"load_timeout" validate:"gte=0"`
}

// StoreSettings 是存储后端配置。
type StoreSettings struct {
	Type  string        `koanf:"type" validate:"oneof=file redis memory"`
	Dir   string        `koanf:"dir"`
	Redis RedisSettings `koanf:"redis"`
}

// RedisSettings 是 Redis 后端配置。
type RedisSettings struct {
	Addr           string `koanf:"addr"`
	Password       string `koanf:"password"`
	DB             int    `koanf:"db" validate:"gte=0"`
	Prefix         string `koanf:"prefix"`
	ConnectRetries int    `koanf:"connect_retries" validate:"gte=0"`
}

// DataSettings 是三份文档在 Store 中的 key。
type DataSettings struct {
	EmbeddingsKey      string `koanf:"embeddings_key" validate:"required"`
	ProfilesKey        string `koanf:"profiles_key" validate:"required"`
	RecommendationsKey string `koanf:"recommendations_key" validate:"required"`
}

// FilterSettings 是候选过滤配置。
type FilterSettings struct {
	// Expr 是 CEL 表达式，为 false 的候选被移除。该过滤在打分前执行，item.score 恒为 0
	Expr         string   `koanf:"expr"`
	BlacklistIDs []string `koanf:"blacklist_ids"`
	BlacklistKey string   `koanf:"blacklist_key"`
}

// RerankSettings 是可选重排阶段配置。
type RerankSettings struct {
	MMR        MMRSettings        `koanf:"mmr"`
	ClusterCap ClusterCapSettings `koanf:"cluster_cap"`
}

// MMRSettings 控制 MMR 重排，默认关闭。
type MMRSettings struct {
	Enabled bool    `koanf:"enabled"`
	Lambda  float64 `koanf:"lambda" validate:"gte=0,lte=1"`
}

// ClusterCapSettings 控制按聚类限量，默认关闭。
type ClusterCapSettings struct {
	Enabled       bool `koanf:"enabled"`
	MaxPerCluster int  `koanf:"max_per_cluster" validate:"gte=1"`
}

// BatchSettings 是批量生成配置。
type BatchSettings struct {
	Concurrency int `koanf:"concurrency" validate:"gte=1"`
}

// LoggingSettings 是日志配置。
type LoggingSettings struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// DefaultSettings 返回默认配置。
func DefaultSettings() *Settings {
	return &Settings{
		Recommender: RecommenderSettings{
			Type:            rank.KindAdvanced,
			DiversityWeight: core.DefaultDiversityWeight,
			ClusterWeight:   core.DefaultClusterWeight,
			TimeDecayDays:   core.DefaultTimeDecayDays,
			TopN:            core.DefaultTopN,
			CacheSize:       core.DefaultCacheSize,
		},
		Corpus: CorpusSettings{
			DimensionPolicy: store.DimensionMajority,
			MismatchPolicy:  store.MismatchRepair,
			LoadTimeout:     30 * time.Second,
		},
		Store: StoreSettings{
			Type: store.BackendFile,
			Dir:  ".",
			Redis: RedisSettings{
				Addr:           "localhost:6379",
				Prefix:         "artrec:",
				ConnectRetries: 3,
			},
		},
		Data: DataSettings{
			EmbeddingsKey:      "embeddings/article_vectors.json",
			ProfilesKey:        "profiles/user_profiles.json",
			RecommendationsKey: "recommendations.json",
		},
		Rerank: RerankSettings{
			MMR:        MMRSettings{Lambda: core.DefaultMMRLambda},
			ClusterCap: ClusterCapSettings{MaxPerCluster: 1},
		},
		Batch: BatchSettings{Concurrency: 4},
		Logging: LoggingSettings{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load 按 默认值 -> YAML 文件 -> 环境变量 的顺序加载并校验配置。
// path 为空时读取 ARTREC_CONFIG；两者都为空则不读文件。
func Load(path string) (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(DefaultSettings(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path == "" {
		path = os.Getenv(ConfigPathEnvVar)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}
	if err := processSliceFields(k); err != nil {
		return nil, err
	}

	s := &Settings{}
	if err := k.Unmarshal("", s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return s, nil
}

var validate = validator.New()

// Validate 做字段校验与跨字段校验（权重之和 <= 1）。
func (s *Settings) Validate() error {
	s.Recommender.Type = strings.ToLower(strings.TrimSpace(s.Recommender.Type))
	if err := validate.Struct(s); err != nil {
		return core.WrapDomainError(core.ModulePipeline, core.ErrorCodeInvalidInput, "config: invalid settings", err)
	}
	if s.Store.Type == store.BackendRedis && s.Store.Redis.Addr == "" {
		return core.NewDomainError(core.ModulePipeline, core.ErrorCodeInvalidInput, "config: store.redis.addr is required for the redis backend")
	}
	return s.Weights().Validate()
}

// Weights 返回 Advanced 策略权重。
func (s *Settings) Weights() rank.Weights {
	return rank.Weights{
		Diversity:     s.Recommender.DiversityWeight,
		Cluster:       s.Recommender.ClusterWeight,
		TimeDecayDays: s.Recommender.TimeDecayDays,
	}
}

// CorpusOptions 返回语料解析选项。
func (s *Settings) CorpusOptions() store.CorpusOptions {
	return store.CorpusOptions{
		Dimension:       s.Corpus.Dimension,
		DimensionPolicy: s.Corpus.DimensionPolicy,
		MismatchPolicy:  s.Corpus.MismatchPolicy,
	}
}

// Backend 返回存储后端配置。
func (s *Settings) Backend() store.BackendConfig {
	return store.BackendConfig{
		Type: s.Store.Type,
		Dir:  s.Store.Dir,
		Redis: store.RedisConfig{
			Addr:           s.Store.Redis.Addr,
			Password:       s.Store.Redis.Password,
			DB:             s.Store.Redis.DB,
			Prefix:         s.Store.Redis.Prefix,
			ConnectRetries: s.Store.Redis.ConnectRetries,
		},
	}
}

var sliceConfigPaths = []string{
	"filter.blacklist_ids",
}

// processSliceFields 把环境变量中逗号分隔的字符串转为切片。
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings 把环境变量名映射到配置路径。
// 不带前缀的名称沿用历史部署中的变量名。
var envMappings = map[string]string{
	"recommender_type": "recommender.type",
	"diversity_weight": "recommender.diversity_weight",
	"time_decay_days":  "recommender.time_decay_days",
	"cache_size":       "recommender.cache_size",
	"log_level":        "logging.level",

	"artrec_recommender_type":    "recommender.type",
	"artrec_diversity_weight":    "recommender.diversity_weight",
	"artrec_cluster_weight":      "recommender.cluster_weight",
	"artrec_time_decay_days":     "recommender.time_decay_days",
	"artrec_top_n":               "recommender.top_n",
	"artrec_cache_size":          "recommender.cache_size",
	"artrec_corpus_dimension":    "corpus.dimension",
	"artrec_dimension_policy":    "corpus.dimension_policy",
	"artrec_mismatch_policy":     "corpus.mismatch_policy",
	"artrec_load_timeout":        "corpus.load_timeout",
	"artrec_store_type":          "store.type",
	"artrec_store_dir":           "store.dir",
	"artrec_redis_addr":          "store.redis.addr",
	"artrec_redis_password":      "store.redis.password",
	"artrec_redis_db":            "store.redis.db",
	"artrec_redis_prefix":        "store.redis.prefix",
	"artrec_redis_retries":       "store.redis.connect_retries",
	"artrec_embeddings_key":      "data.embeddings_key",
	"artrec_profiles_key":        "data.profiles_key",
	"artrec_recommendations_key": "data.recommendations_key",
	"artrec_filter_expr":         "filter.expr",
	"artrec_blacklist_ids":       "filter.blacklist_ids",
	"artrec_blacklist_key":       "filter.blacklist_key",
	"artrec_mmr_enabled":         "rerank.mmr.enabled",
	"artrec_mmr_lambda":          "rerank.mmr.lambda",
	"artrec_cluster_cap_enabled": "rerank.cluster_cap.enabled",
	"artrec_cluster_cap":         "rerank.cluster_cap.max_per_cluster",
	"artrec_batch_concurrency":   "batch.concurrency",
	"artrec_log_level":           "logging.level",
	"artrec_log_format":          "logging.format",
	"artrec_pipeline_file":       "pipeline_file",
}

// envTransformFunc 把环境变量名转为 koanf 路径，未映射的变量返回空串被忽略。
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
