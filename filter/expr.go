package filter

import (
	"context"

	"github.com/rushteam/artrec/core"
	"github.com/rushteam/artrec/pkg/dsl"
)

// ExprFilter 用 CEL 表达式过滤候选：表达式为 false 的物品被移除。
// 表达式在构造时编译一次，见 dsl.Program 的可用变量。
// 位于 rank 之前时 item.score 尚未计算，恒为 0。
type ExprFilter struct {
	prg *dsl.Program
}

var _ Filter = (*ExprFilter)(nil)

// NewExprFilter 编译表达式，语法错误时返回 INVALID_INPUT。
func NewExprFilter(expr string) (*ExprFilter, error) {
	prg, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &ExprFilter{prg: prg}, nil
}

func (f *ExprFilter) Name() string { return "filter.expr" }

// Expr 返回原始表达式
func (f *ExprFilter) Expr() string { return f.prg.String() }

func (f *ExprFilter) ShouldFilter(_ context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error) {
	var a *core.Article
	if rctx != nil && rctx.Corpus != nil {
		a = rctx.Corpus.At(item.Index)
	}
	keep, err := f.prg.Eval(item, a, rctx)
	if err != nil {
		return false, err
	}
	return !keep, nil
}
