package generator

import (
	"errors"
	"fmt"
	"go/types"
	"sort"

	"golang.org/x/tools/go/packages"
)

// Load 加载包并收集状态、事件接口的全部实现类型
//
// 包中的类型错误会被忽略：首次生成时处理函数引用的 <Prefix>Fallback 等
// 类型尚不存在，但目录本身仍可以解析。
func Load(dir, pattern, stateIface, eventIface string) (*Catalog, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedTypes | packages.NeedSyntax | packages.NeedTypesInfo,
		Dir:  dir,
	}
	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return nil, fmt.Errorf("load package: %w", err)
	}
	if len(pkgs) != 1 {
		return nil, fmt.Errorf("pattern %q matched %d packages, want 1", pattern, len(pkgs))
	}

	p := pkgs[0]
	if p.Types == nil || p.Types.Scope() == nil {
		return nil, packageError(p)
	}

	scope := p.Types.Scope()
	state, err := lookupInterface(scope, stateIface)
	if err != nil {
		return nil, err
	}
	event, err := lookupInterface(scope, eventIface)
	if err != nil {
		return nil, err
	}

	return &Catalog{
		Package: p.Name,
		State:   stateIface,
		Event:   eventIface,
		States:  implementations(scope, state),
		Events:  implementations(scope, event),
	}, nil
}

func packageError(p *packages.Package) error {
	errs := make([]error, 0, len(p.Errors))
	for _, e := range p.Errors {
		errs = append(errs, e)
	}
	if len(errs) == 0 {
		return fmt.Errorf("package %s has no type information", p.PkgPath)
	}
	return errors.Join(errs...)
}

func lookupInterface(scope *types.Scope, name string) (*types.Interface, error) {
	obj, ok := scope.Lookup(name).(*types.TypeName)
	if !ok {
		return nil, fmt.Errorf("type %s not found", name)
	}
	iface, ok := obj.Type().Underlying().(*types.Interface)
	if !ok {
		return nil, fmt.Errorf("type %s is not an interface", name)
	}
	if iface.NumMethods() == 0 {
		return nil, fmt.Errorf("interface %s has no methods, every type would implement it", name)
	}
	return iface, nil
}

// implementations 按声明位置排序返回实现了 iface 的具名类型
func implementations(scope *types.Scope, iface *types.Interface) []Variant {
	type found struct {
		v   Variant
		pos int
	}
	var list []found

	for _, name := range scope.Names() {
		obj, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || obj.IsAlias() {
			continue
		}
		named, ok := obj.Type().(*types.Named)
		if !ok || named.TypeParams().Len() > 0 {
			continue
		}
		if _, isIface := named.Underlying().(*types.Interface); isIface {
			continue
		}

		switch {
		case types.Implements(named, iface):
			list = append(list, found{Variant{Name: name}, int(obj.Pos())})
		case types.Implements(types.NewPointer(named), iface):
			list = append(list, found{Variant{Name: name, Ptr: true}, int(obj.Pos())})
		}
	}

	sort.Slice(list, func(i, j int) bool { return list[i].pos < list[j].pos })

	variants := make([]Variant, len(list))
	for i, f := range list {
		variants[i] = f.v
	}
	return variants
}
