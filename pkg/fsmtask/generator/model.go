package generator

import (
	"fmt"
	"go/token"
)

// Variant 封闭集合中的一个具体类型
type Variant struct {
	Name string // 类型名
	Ptr  bool   // 由 *T 而不是 T 实现接口
}

// Expr 返回类型表达式
func (v Variant) Expr() string {
	if v.Ptr {
		return "*" + v.Name
	}
	return v.Name
}

// Catalog 状态与事件的封闭类型目录
type Catalog struct {
	Package string    // 目标包名
	Prefix  string    // 生成标识符的前缀
	State   string    // 状态接口名
	Event   string    // 事件接口名
	States  []Variant // 按声明顺序，第一个为初始状态
	Events  []Variant
	Entry   bool // 生成进入钩子分发
	Exit    bool // 生成退出钩子分发
}

// Validate 校验目录
func (c *Catalog) Validate() error {
	if !token.IsIdentifier(c.Package) {
		return fmt.Errorf("invalid package name %q", c.Package)
	}
	if !token.IsIdentifier(c.Prefix) || !token.IsExported(c.Prefix) {
		return fmt.Errorf("prefix %q must be an exported identifier", c.Prefix)
	}
	if len(c.States) == 0 {
		return fmt.Errorf("no types implement state interface %s", c.State)
	}
	if len(c.Events) == 0 {
		return fmt.Errorf("no types implement event interface %s", c.Event)
	}

	for _, group := range []struct {
		kind     string
		variants []Variant
	}{{"state", c.States}, {"event", c.Events}} {
		names := make(map[string]bool)
		for _, v := range group.variants {
			if names[v.Name] {
				return fmt.Errorf("duplicate %s type %s", group.kind, v.Name)
			}
			names[v.Name] = true
		}
	}

	// 方法名 On<状态><事件> 必须唯一，例如 A+BC 与 AB+C 会冲突
	methods := make(map[string]string)
	for _, s := range c.States {
		for _, e := range c.Events {
			m := handlerName(s, e)
			if prev, ok := methods[m]; ok {
				return fmt.Errorf("handler name %s is ambiguous (%s and %s×%s)", m, prev, s.Name, e.Name)
			}
			methods[m] = s.Name + "×" + e.Name
		}
	}
	return nil
}

// Pair 状态×事件组合
type Pair struct {
	State  Variant
	Event  Variant
	Method string
}

// Pairs 返回全部组合，状态优先
func (c *Catalog) Pairs() []Pair {
	pairs := make([]Pair, 0, len(c.States)*len(c.Events))
	for _, s := range c.States {
		for _, e := range c.Events {
			pairs = append(pairs, Pair{State: s, Event: e, Method: handlerName(s, e)})
		}
	}
	return pairs
}

func handlerName(s, e Variant) string {
	return "On" + s.Name + e.Name
}
