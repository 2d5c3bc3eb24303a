package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/artrec/core"
	"github.com/rushteam/artrec/logging"
	"github.com/rushteam/artrec/metrics"
	"github.com/rushteam/artrec/store"
)

// GenerateAll 为 profiles 中每个用户生成推荐，全部用户共享同一份语料快照。
//
// 单个用户失败（阅读历史无法解析、打分出错、panic）只记录日志并从结果中省略，
// 不影响其他用户。ctx 结束时返回 ctx.Err()。
func (e *Engine) GenerateAll(ctx context.Context, profiles store.Profiles, topN int) (map[string][]Recommendation, error) {
	c, err := e.vs.Corpus()
	if err != nil {
		return nil, err
	}
	log := logging.Ctx(ctx, logging.Component("engine"))

	var (
		mu  sync.Mutex
		out = make(map[string][]Recommendation, len(profiles))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for _, u := range profiles.Users() {
		if gctx.Err() != nil {
			break
		}
		userID, readIDs := u.UserID, u.ReadItemIDs
		g.Go(func() error {
			recs, err := e.recommendSafe(gctx, c, userID, readIDs, topN)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				metrics.BatchUsers.WithLabelValues("skipped").Inc()
				log.Error().Err(err).Str("user_id", userID).Int("read", len(readIDs)).
					Msg("skip user")
				return nil
			}
			metrics.BatchUsers.WithLabelValues("ok").Inc()
			mu.Lock()
			out[userID] = recs
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Engine) recommendSafe(
	ctx context.Context,
	c *store.Corpus,
	userID string,
	readIDs []string,
	topN int,
) (recs []Recommendation, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return e.recommend(ctx, c, userID, readIDs, topN, true)
}

// BatchKeys 是批量任务读写的 key。
type BatchKeys struct {
	Profiles        string
	Recommendations string
}

// BatchResult 是一次批量任务的摘要。
type BatchResult struct {
	RunID     string
	Users     int
	Generated int
	Skipped   int
	Duration  time.Duration
}

// RunBatch 从 src 读取用户阅读历史，生成全部推荐，以缩进 JSON 整体写入 dst。
func (e *Engine) RunBatch(ctx context.Context, src, dst core.Store, keys BatchKeys, topN int) (*BatchResult, error) {
	start := time.Now()
	runID := logging.NewRunID()
	ctx = logging.WithRunID(ctx, runID)
	log := logging.Ctx(ctx, logging.Component("batch"))

	profiles, err := store.LoadProfiles(ctx, src, keys.Profiles)
	if err != nil {
		return nil, err
	}
	log.Info().Int("users", len(profiles)).Str("key", keys.Profiles).Msg("profiles loaded")

	all, err := e.GenerateAll(ctx, profiles, topN)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode recommendations: %w", err)
	}
	if err := dst.Set(ctx, keys.Recommendations, data); err != nil {
		return nil, fmt.Errorf("write recommendations to %s: %w", dst.Name(), err)
	}

	res := &BatchResult{
		RunID:     runID,
		Users:     len(profiles),
		Generated: len(all),
		Skipped:   len(profiles) - len(all),
		Duration:  time.Since(start),
	}
	log.Info().
		Int("users", res.Users).
		Int("generated", res.Generated).
		Int("skipped", res.Skipped).
		Str("key", keys.Recommendations).
		Dur("duration", res.Duration).
		Msg("recommendations generated")
	return res, nil
}
