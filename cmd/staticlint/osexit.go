package main

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// exitFuncs функции, завершающие процесс в обход отложенных вызовов
var exitFuncs = map[string]bool{
	"os.Exit":      true,
	"syscall.Exit": true,
}

// OsExitAnalyzer запрещает завершать процесс прямо из main.main.
// Сервер должен вернуть ошибку из run и дать отработать graceful shutdown
// и закрытию модели.
var OsExitAnalyzer = &analysis.Analyzer{
	Name:     "osexit",
	Doc:      "reports os.Exit and syscall.Exit calls inside main.main",
	Run:      runOsExitCheck,
	Requires: []*analysis.Analyzer{inspect.Analyzer},
}

func runOsExitCheck(pass *analysis.Pass) (interface{}, error) {
	if pass.Pkg.Name() != "main" {
		return nil, nil
	}

	inspect := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	inspect.Preorder([]ast.Node{(*ast.FuncDecl)(nil)}, func(node ast.Node) {
		fn := node.(*ast.FuncDecl)
		if fn.Recv != nil || fn.Name.Name != "main" || fn.Body == nil {
			return
		}

		ast.Inspect(fn.Body, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			if name := exitCallName(pass, call); name != "" {
				pass.Reportf(call.Pos(), "%s in main.main skips deferred cleanup, return an error from run instead", name)
			}
			return true
		})
	})

	return nil, nil
}

// exitCallName возвращает "pkg.Func" для вызова из exitFuncs или пустую строку
func exitCallName(pass *analysis.Pass, call *ast.CallExpr) string {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return ""
	}
	fn, ok := pass.TypesInfo.Uses[sel.Sel].(*types.Func)
	if !ok || fn.Pkg() == nil {
		return ""
	}
	name := fn.Pkg().Path() + "." + fn.Name()
	if !exitFuncs[name] {
		return ""
	}
	return name
}
