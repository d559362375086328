package main

import (
	"go/ast"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// NoPrintAnalyzer запрещает вывод в stdout через fmt.Print* и встроенные
// print/println вне пакета main. Для диагностики используется логгер.
var NoPrintAnalyzer = &analysis.Analyzer{
	Name:     "noprint",
	Doc:      "reports fmt.Print, fmt.Printf, fmt.Println and builtin print calls outside package main",
	Run:      runNoPrintCheck,
	Requires: []*analysis.Analyzer{inspect.Analyzer},
}

var forbiddenFmt = map[string]bool{
	"Print":   true,
	"Printf":  true,
	"Println": true,
}

func runNoPrintCheck(pass *analysis.Pass) (interface{}, error) {
	if pass.Pkg.Name() == "main" {
		return nil, nil
	}

	inspect := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	nodeFilter := []ast.Node{
		(*ast.CallExpr)(nil),
	}

	inspect.Preorder(nodeFilter, func(node ast.Node) {
		call := node.(*ast.CallExpr)

		// Example тесты печатают в stdout намеренно
		filename := pass.Fset.Position(call.Pos()).Filename
		if strings.HasSuffix(filename, "_test.go") {
			return
		}

		switch fun := call.Fun.(type) {
		case *ast.Ident:
			if b, ok := pass.TypesInfo.Uses[fun].(*types.Builtin); ok && (b.Name() == "print" || b.Name() == "println") {
				pass.Reportf(call.Pos(), "builtin %s call, use the logger instead", b.Name())
			}
		case *ast.SelectorExpr:
			ident, ok := fun.X.(*ast.Ident)
			if !ok || !forbiddenFmt[fun.Sel.Name] {
				return
			}
			if pkgName, ok := pass.TypesInfo.Uses[ident].(*types.PkgName); ok && pkgName.Imported().Path() == "fmt" {
				pass.Reportf(call.Pos(), "fmt.%s writes to stdout, use the logger instead", fun.Sel.Name)
			}
		}
	})

	return nil, nil
}
