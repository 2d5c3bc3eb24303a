package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rushteam/artrec/core"
	"github.com/rushteam/artrec/logging"
)

// Pipeline 把推荐逻辑拆成可组合的 Node 链：召回 -> 过滤 -> 打分 -> 重排。
type Pipeline struct {
	Name  string
	Nodes []Node
}

// New 创建 Pipeline。
func New(name string, nodes ...Node) *Pipeline {
	return &Pipeline{Name: name, Nodes: nodes}
}

// Run 依次执行 Node；任一 Node 出错或 ctx 结束即返回。
func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	log := logging.Ctx(ctx, logging.Component("pipeline"))
	debug := log.Debug().Enabled()

	cur := items
	for _, node := range p.Nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var start time.Time
		if debug {
			start = time.Now()
		}
		in := len(cur)
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", node.Kind(), node.Name(), err)
		}
		if debug {
			log.Debug().
				Str("pipeline", p.Name).
				Str("node", node.Name()).
				Str("kind", string(node.Kind())).
				Str("user_id", rctx.UserID).
				Int("in", in).
				Int("out", len(next)).
				Dur("took", time.Since(start)).
				Msg("node done")
		}
		cur = next
	}
	return cur, nil
}

// NodeNames 返回按执行顺序排列的 Node 名称。
func (p *Pipeline) NodeNames() []string {
	names := make([]string, len(p.Nodes))
	for i, n := range p.Nodes {
		names[i] = n.Name()
	}
	return names
}
