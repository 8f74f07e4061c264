package generate

import (
	"go/ast"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/packages"
)

// TypeProcessor rewrites type expressions of an interface file so they
// resolve from the generated proxy's package.
type TypeProcessor struct {
	defs    map[string]types.Object
	fset    *token.FileSet
	content []byte
}

func NewTypeProcessor(
	pkg *packages.Package,
	fset *token.FileSet,
	content []byte,
) *TypeProcessor {
	defs := make(map[string]types.Object)

	for _, t := range pkg.TypesInfo.Defs {
		if t == nil {
			continue
		}
		if _, ok := t.(*types.TypeName); !ok {
			continue
		}
		if !t.Exported() {
			continue
		}
		// only package level types can be referenced from another package
		if t.Parent() != pkg.Types.Scope() {
			continue
		}
		if _, ok := defs[t.Name()]; ok {
			continue
		}
		defs[t.Name()] = t
	}

	return &TypeProcessor{
		defs:    defs,
		fset:    fset,
		content: content,
	}
}

func (tp *TypeProcessor) deepIdent(t ast.Expr) *ast.Ident {
	switch t := t.(type) {
	case *ast.Ident:
		return t
	case *ast.StarExpr:
		return tp.deepIdent(t.X)
	case *ast.SelectorExpr:
		return tp.deepIdent(t.Sel)
	case *ast.ArrayType:
		return tp.deepIdent(t.Elt)
	case *ast.MapType:
		return tp.deepIdent(t.Value)
	case *ast.ChanType:
		return tp.deepIdent(t.Value)
	default:
		return nil
	}
}

func (tp *TypeProcessor) source(n ast.Node) string {
	start := tp.fset.Position(n.Pos())
	end := tp.fset.Position(n.End())
	return string(tp.content[start.Offset:end.Offset])
}

// correctType renders t for the proxy file. Exported types local to the
// interface's package get that package's alias when addSelector is set,
// and selector expressions are re-pointed at the proxy's import aliases.
func (tp *TypeProcessor) correctType(
	t ast.Expr,
	existingImports []*ImportData,
	newImports []*ImportData,
	pkgPath string,
	addSelector bool,
) string {
	correctTypeProxy := func(t ast.Expr) string {
		return tp.correctType(t, existingImports, newImports, pkgPath, addSelector)
	}

	switch t := t.(type) {
	case *ast.Ident:
		if !addSelector {
			return t.Name
		}
		if _, ok := tp.defs[t.Name]; ok {
			for i := range newImports {
				if newImports[i].Path == pkgPath {
					newImports[i].Used = true
					return newImports[i].Alias + "." + t.Name
				}
			}
		}
		return t.Name
	case *ast.StarExpr:
		return "*" + correctTypeProxy(t.X)
	case *ast.SelectorExpr:
		selectorPkg := tp.source(t.X)
		for _, i := range existingImports {
			if i.Selector() == selectorPkg {
				for idx := range newImports {
					if newImports[idx].Path == i.Path {
						newImports[idx].Used = true
						return newImports[idx].Alias + "." + t.Sel.Name
					}
				}
			}
		}
		return selectorPkg + "." + tp.deepIdent(t.Sel).Name
	case *ast.Ellipsis:
		return "..." + correctTypeProxy(t.Elt)
	case *ast.ArrayType:
		if t.Len != nil {
			return "[" + tp.source(t.Len) + "]" + correctTypeProxy(t.Elt)
		}
		return "[]" + correctTypeProxy(t.Elt)
	case *ast.MapType:
		return "map[" + correctTypeProxy(t.Key) + "]" + correctTypeProxy(t.Value)
	case *ast.ChanType:
		// channel with correct arrow position
		if t.Arrow == token.NoPos {
			return "chan " + correctTypeProxy(t.Value)
		} else if t.Dir == ast.RECV {
			return "<-chan " + correctTypeProxy(t.Value)
		} else {
			return "chan<- " + correctTypeProxy(t.Value)
		}
	default:
		return tp.source(t)
	}
}
