// Package dsl 提供基于 CEL (Common Expression Language) 的候选表达式求值。
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/artrec/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("item", cel.DynType),
			cel.Variable("label", cel.DynType),
			cel.Variable("rctx", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Program 是编译好的布尔表达式，可被多个请求并发求值。
//
// 可用变量：
//   - item.id / item.score / item.title / item.url / item.content / item.scraped_at
//   - item.cluster（无标签为 -1）/ item.has_cluster
//   - item.days_old（scraped_at 缺失或无法解析时为 -1）
//   - label.<key>：item 上的 Label 值
//   - rctx.user_id / rctx.read_count / rctx.params
//
// item.score 只在打分节点之后才有值。默认链路中 filter 位于 rank 之前，
// 此时 item.score 恒为 0；按分数过滤需把 ExprFilter 放在 rank 之后。
//
// 示例：
//   - `item.has_cluster && item.cluster != 3`
//   - `item.days_old >= 0 && item.days_old <= 30`
//   - `!item.url.startsWith("http://spam.example")`
//   - `"max_age" in rctx.params ? item.days_old <= rctx.params.max_age : true`
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译表达式；表达式必须返回 bool。
func Compile(expr string) (*Program, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, core.WrapDomainError(core.ModulePipeline, core.ErrorCodeInvalidInput,
			"dsl: compile "+expr, issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Program{expr: expr, prg: prg}, nil
}

// String 返回原始表达式
func (p *Program) String() string { return p.expr }

// Eval 对单个候选求值。
func (p *Program) Eval(item *core.Item, a *core.Article, rctx *core.RecommendContext) (bool, error) {
	out, _, err := p.prg.Eval(buildInput(item, a, rctx))
	if err != nil {
		// 访问不存在的 key 会报错，应使用 `"key" in label` 检查存在性
		return false, fmt.Errorf("eval error: %w", err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// Evaluate 编译并求值一次，适合一次性的表达式。
func Evaluate(expr string, item *core.Item, a *core.Article, rctx *core.RecommendContext) (bool, error) {
	if expr == "" {
		return true, nil
	}
	p, err := Compile(expr)
	if err != nil {
		return false, err
	}
	return p.Eval(item, a, rctx)
}

func buildInput(item *core.Item, a *core.Article, rctx *core.RecommendContext) map[string]any {
	labels := make(map[string]any)
	itemMap := map[string]any{
		"id":          "",
		"score":       0.0,
		"title":       "",
		"url":         "",
		"content":     "",
		"scraped_at":  "",
		"cluster":     -1,
		"has_cluster": false,
		"days_old":    -1,
	}
	if item != nil {
		itemMap["id"] = item.ID
		itemMap["score"] = item.Score
		for k, v := range item.Labels {
			labels[k] = v.Value
		}
	}
	if a != nil {
		itemMap["title"] = a.Metadata.Title
		itemMap["url"] = a.Metadata.URL
		itemMap["content"] = a.Metadata.Content
		itemMap["scraped_at"] = a.Metadata.ScrapedAt
		if c, ok := a.ClusterLabel(); ok {
			itemMap["cluster"] = c
			itemMap["has_cluster"] = true
		}
		if d, ok := a.DaysOld(rctx.Clock()); ok {
			itemMap["days_old"] = d
		}
	}

	rctxMap := map[string]any{
		"user_id":    "",
		"read_count": 0,
		"params":     map[string]any{},
	}
	if rctx != nil {
		rctxMap["user_id"] = rctx.UserID
		rctxMap["read_count"] = len(rctx.ReadItemIDs)
		if rctx.Params != nil {
			rctxMap["params"] = rctx.Params
		}
	}

	return map[string]any{
		"item":  itemMap,
		"label": labels,
		"rctx":  rctxMap,
	}
}
