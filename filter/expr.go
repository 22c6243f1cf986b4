package filter

import (
	"context"

	"github.com/rushteam/seedrec/core"
	"github.com/rushteam/seedrec/pkg/dsl"
)

// ExprFilter 使用 CEL 表达式过滤物品：表达式为 false 或求值出错的物品被过滤。
type ExprFilter struct {
	Program *dsl.Program
}

// NewExprFilter 编译表达式；编译失败返回 INVALID_INPUT 错误。
func NewExprFilter(expr string) (*ExprFilter, error) {
	prg, err := dsl.Compile(expr)
	if err != nil {
		return nil, core.InvalidInputf(core.ModuleFilter, "invalid filter expression: %v", err)
	}
	return &ExprFilter{Program: prg}, nil
}

func (f *ExprFilter) Name() string {
	return "filter.expr"
}

func (f *ExprFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	ok, err := f.Program.Match(item.Record)
	if err != nil {
		return true, nil
	}
	return !ok, nil
}
