package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/seedrec/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("item", cel.MapType(cel.StringType, cel.DynType)),
	)
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = initCELEnv()
	})
	return celEnv, celEnvErr
}

// Program 是编译后的记录过滤表达式，使用 CEL (Common Expression Language) 实现。
// 编译一次后可并发地对多条记录求值。
//
// 可用字段（item.xxx）：
//   - id, title, creator, kind, domain, image: string
//   - tags: list(string)
//   - rating: double
//   - popularity: int
//   - year: int（无年份时为 0），has_year: bool
//
// 示例：
//   - `item.rating >= 8.5`
//   - `"Drama" in item.tags && item.has_year && item.year < 2000`
//   - `item.creator.contains("Madhouse")`
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 解析并编译表达式，表达式必须返回布尔值。
func Compile(expr string) (*Program, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %v", issues.Err())
	}
	if ast.OutputType() != cel.BoolType && ast.OutputType() != cel.DynType {
		return nil, fmt.Errorf("expression must return bool, got %s", ast.OutputType())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %v", err)
	}
	return &Program{expr: expr, prg: prg}, nil
}

// String 返回原始表达式。
func (p *Program) String() string { return p.expr }

// Match 对单条记录求值。
func (p *Program) Match(rec *core.Record) (bool, error) {
	if rec == nil {
		return false, nil
	}

	out, _, err := p.prg.Eval(map[string]interface{}{
		"item": buildInput(rec),
	})
	if err != nil {
		return false, fmt.Errorf("eval error: %v", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func buildInput(rec *core.Record) map[string]interface{} {
	year := 0
	if rec.Year != nil {
		year = *rec.Year
	}
	tags := make([]string, len(rec.Tags))
	copy(tags, rec.Tags)

	return map[string]interface{}{
		"id":         rec.ID,
		"title":      rec.Title,
		"creator":    rec.Creator,
		"tags":       tags,
		"rating":     rec.Rating,
		"popularity": rec.Popularity,
		"year":       year,
		"has_year":   rec.Year != nil,
		"image":      rec.Image,
		"kind":       rec.Kind,
		"domain":     string(rec.Domain),
	}
}
