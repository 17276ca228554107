// Copyright © 2026 The SetlX authors

package cmd

import (
	"fmt"
	"math/big"
	"os"

	"github.com/spf13/cobra"

	"github.com/sebschmitt/setlX/setl"
	"github.com/sebschmitt/setlX/setl/ast"
)

// demoCmd represents the demo command
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a fixed program against the runtime and print its trace",
	Long: `demo builds a small hardcoded program exercising closures, scope,
and procedure calls end to end, runs it against a configured runtime, and
prints each step's result. There is no source-level parser in this core
(the lexer/grammar remain an external collaborator) — demo exists so the
call protocol and capture semantics can be observed from the command line
without one.

The program is the counter closure: n starts at 0, a closure over n is
called three times, and n is read back afterward to show the closure's
mutation is visible in its defining scope.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runCounterClosureDemo(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func runCounterClosureDemo() error {
	rt := newRuntime()
	global := rt.Global

	n := setl.Intern("n")
	global.Bind(n, setl.NewInt(0))

	closureBody := &ast.Block{
		Stmts: []setl.Node{
			&ast.Assign{Name: n, Value: &incrExpr{Name: n}},
			&ast.Return{Value: &ast.VarRef{Name: n}},
		},
	}

	mkc := setl.Intern("mkc")
	proc := setl.NewClosure("mkc", nil, closureBody, global)
	global.Bind(mkc, proc)

	for i := 0; i < 3; i++ {
		v, err := proc.Call(rt, global, nil, nil, nil)
		if err != nil {
			return err
		}
		fmt.Printf("call %d -> %s\n", i+1, v)
	}

	final, _ := global.Lookup(n)
	fmt.Printf("outer n -> %s\n", final)
	return nil
}

// incrExpr evaluates to its named variable's current value plus one. The
// core defines no arithmetic-operator node of its own (operator
// evaluation belongs to the external expression evaluator named in the
// interpreter-driver touchpoints); this is a minimal fixture local to
// the demo command, not a language construct.
type incrExpr struct {
	Name *setl.Ident
}

func (e *incrExpr) Exec(rt *setl.Runtime, scope *setl.Scope) (setl.Value, error) {
	cur, ok := scope.Lookup(e.Name)
	if !ok {
		return nil, setl.NewErrorKind(setl.UndefinedOperation, "incr: %s is unbound", e.Name.Name())
	}
	i, ok := cur.(setl.Int)
	if !ok {
		return nil, setl.NewErrorKind(setl.IncompatibleType, "incr: %s is not an integer", e.Name.Name())
	}
	return setl.NewIntFromBig(new(big.Int).Add(i.Big(), big.NewInt(1))), nil
}

func (e *incrExpr) CollectVariables(bound, unbound, used map[*setl.Ident]bool) {
	used[e.Name] = true
	if !bound[e.Name] {
		unbound[e.Name] = true
	}
}
