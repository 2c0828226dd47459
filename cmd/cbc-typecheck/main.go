// Command cbc-typecheck runs the semantic checking pass over a
// hand-assembled sample program and reports the diagnostics it produces.
// Lexing, parsing, and name resolution live outside this module's scope
// (see the design notes in the repository root), so this driver builds its
// input AST directly rather than reading cbc source text; its purpose is to
// exercise Check end to end and demonstrate the diagnostics it emits, not
// to be a complete compiler front end.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"

	"github.com/cbc-lang/cbc/internal/ast"
	"github.com/cbc-lang/cbc/internal/config"
	"github.com/cbc-lang/cbc/internal/diagnostics"
	"github.com/cbc-lang/cbc/internal/position"
	"github.com/cbc-lang/cbc/internal/typechecker"
	"github.com/cbc-lang/cbc/internal/types"
)

func main() {
	watch := flag.String("watch", "", "re-run the sample check whenever the named file changes")
	flag.Parse()

	color := diagnostics.ColorSupported(int(os.Stderr.Fd()))

	if *watch == "" {
		os.Exit(run(color))
	}

	if err := runWatch(*watch, color); err != nil {
		fmt.Fprintln(os.Stderr, "cbc-typecheck:", err)
		os.Exit(1)
	}
}

// run performs one checking pass over the built-in sample program and
// prints its diagnostics, returning the process exit code.
func run(color bool) int {
	diags := diagnostics.NewSink()
	table := types.NewILP32Table()
	prog := sampleProgram(table)

	err := typechecker.Check(prog, table, config.DefaultDialect, diags)

	diags.Sort()

	for _, d := range diags.All() {
		fmt.Fprintln(os.Stderr, diagnostics.Format(d, color))
	}

	fmt.Fprintln(os.Stderr, diags.FormatSummary())

	if err != nil {
		return 1
	}

	return 0
}

// runWatch re-runs run every time path changes, until the process is
// interrupted. It exists to exercise the ambient file-watching dependency
// this driver carries; since the checker's actual input is the hardcoded
// sample program, a real driver would instead re-parse path on each event.
func runWatch(path string, color bool) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}

	run(color)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				fmt.Fprintf(os.Stderr, "cbc-typecheck: %s changed, re-checking\n", event.Name)
				run(color)
			}
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			fmt.Fprintln(os.Stderr, "cbc-typecheck: watch error:", watchErr)
		}
	}
}

// sampleProgram builds a small AST by hand: a function
//
//	int add(int *p, int n) {
//	    int total;
//	    total = p[0] + n;
//	    return total;
//	}
//
// It exists to give Check something concrete to exercise; a real pipeline
// would substitute the parser/resolver's output here.
func sampleProgram(table *types.Table) *ast.Program {
	span := position.Span{
		Start: position.Position{Filename: "sample.cbc", Line: 1, Column: 1},
		End:   position.Position{Filename: "sample.cbc", Line: 5, Column: 1},
	}

	intRef := ast.TypeRef{Name: "int", ArrayLen: -1}
	intPtrRef := ast.TypeRef{Name: "int", PointerDepth: 1, ArrayLen: -1}

	intType, _ := table.Get(types.Ref{Name: "int", ArrayLen: -1})
	intPtrType, _ := table.Get(types.Ref{Name: "int", PointerDepth: 1, ArrayLen: -1})

	pParam := &ast.Parameter{Span: span, Name: "p", TypeRef: intPtrRef}
	nParam := &ast.Parameter{Span: span, Name: "n", TypeRef: intRef}

	total := &ast.DefinedVariable{Span: span, Name: "total", TypeRef: intRef}

	// A real name/type resolver would have already stamped every Identifier
	// with its referent's declared type by the time this pass runs; this
	// driver does that stamping itself since it has no resolver to call.
	pIdent := ast.NewIdentifier(span, "p", pParam)
	pIdent.SetType(intPtrType)

	nIdent := ast.NewIdentifier(span, "n", nParam)
	nIdent.SetType(intType)

	totalIdent := ast.NewIdentifier(span, "total", total)
	totalIdent.SetType(intType)

	returnIdent := ast.NewIdentifier(span, "total", total)
	returnIdent.SetType(intType)

	index := ast.NewArefExpr(span, pIdent, ast.NewIntegerLiteral(span, 0, intType))
	sum := ast.NewBinaryOp(span, "+", index, nIdent)
	assign := ast.NewAssignment(span, totalIdent, sum)

	body := &ast.Block{
		Span:      span,
		Variables: []*ast.DefinedVariable{total},
		Stmts: []ast.Statement{
			&ast.ExprStatement{Span: span, Expr: assign},
			&ast.ReturnStatement{Span: span, Expr: returnIdent},
		},
	}

	fn := &ast.DefinedFunction{
		Span:       span,
		Name:       "add",
		ReturnType: intRef,
		Params:     []*ast.Parameter{pParam, nParam},
		Body:       body,
	}

	return &ast.Program{Span: span, Declarations: []ast.Declaration{fn}}
}
