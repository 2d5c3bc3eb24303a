package engine

import (
	"context"

	"github.com/rushteam/artrec/config"
	_ "github.com/rushteam/artrec/config/builders"
	"github.com/rushteam/artrec/core"
	"github.com/rushteam/artrec/filter"
	"github.com/rushteam/artrec/pipeline"
	"github.com/rushteam/artrec/rerank"
	"github.com/rushteam/artrec/store"
)

// FromSettings 按进程配置打开存储、加载语料并创建 Engine。
// 返回的 core.Store 由调用方负责 Close。
func FromSettings(ctx context.Context, s *config.Settings) (*Engine, core.Store, error) {
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}

	st, err := store.Open(ctx, s.Backend())
	if err != nil {
		return nil, nil, err
	}

	e, err := fromSettings(ctx, s, st)
	if err != nil {
		_ = st.Close()
		return nil, nil, err
	}
	return e, st, nil
}

func fromSettings(ctx context.Context, s *config.Settings, st core.Store) (*Engine, error) {
	vsOpts := []store.VectorStoreOption{store.WithCorpusOptions(s.CorpusOptions())}
	if s.Corpus.LoadTimeout > 0 {
		vsOpts = append(vsOpts, store.WithLoadTimeout(s.Corpus.LoadTimeout))
	}
	vs, err := store.NewVectorStore(st, s.Data.EmbeddingsKey, s.Recommender.CacheSize, vsOpts...)
	if err != nil {
		return nil, err
	}
	if _, err := vs.Load(ctx); err != nil {
		return nil, err
	}

	opts := []Option{
		WithTopN(s.Recommender.TopN),
		WithConcurrency(s.Batch.Concurrency),
	}

	if s.PipelineFile != "" {
		p, err := pipelineFromFile(s.PipelineFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithPipeline(p))
		return CreateEngine(vs, s.Recommender.Type, s.Weights(), opts...)
	}

	if len(s.Filter.BlacklistIDs) > 0 || s.Filter.BlacklistKey != "" {
		var adapter *filter.StoreAdapter
		if s.Filter.BlacklistKey != "" {
			adapter = filter.NewStoreAdapter(st)
		}
		opts = append(opts, WithFilters(filter.NewBlacklistFilter(s.Filter.BlacklistIDs, adapter, s.Filter.BlacklistKey)))
	}
	if s.Filter.Expr != "" {
		f, err := filter.NewExprFilter(s.Filter.Expr)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithFilters(f))
	}
	if s.Rerank.ClusterCap.Enabled {
		opts = append(opts, WithClusterCap(s.Rerank.ClusterCap.MaxPerCluster))
	}
	if s.Rerank.MMR.Enabled {
		node, err := rerank.NewMMRNode(s.Rerank.MMR.Lambda, 0)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithMMR(node))
	}
	return CreateEngine(vs, s.Recommender.Type, s.Weights(), opts...)
}

func pipelineFromFile(path string) (*pipeline.Pipeline, error) {
	cfg, err := pipeline.LoadFromYAML(path)
	if err != nil {
		return nil, err
	}
	if err := config.ValidatePipelineConfig(cfg); err != nil {
		return nil, err
	}
	return cfg.BuildPipeline(config.DefaultFactory())
}
