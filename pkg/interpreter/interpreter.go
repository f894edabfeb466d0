package interpreter

import (
	"fmt"
	"io"
	"os"

	"obj/interpreter-go/pkg/ast"
	"obj/interpreter-go/pkg/runtime"
)

// Interpreter drives evaluation of OBJ AST nodes. The class registry is owned
// by the interpreter instance; there is no process-wide state.
type Interpreter struct {
	global  *runtime.Environment
	classes map[string]*runtime.ClassValue
	stdout  io.Writer
}

// New returns an interpreter with the primitives bound in a fresh global
// environment, printing to stdout.
func New() *Interpreter {
	return NewWithOutput(os.Stdout)
}

// NewWithOutput is New with top-level and print output redirected.
func NewWithOutput(w io.Writer) *Interpreter {
	i := &Interpreter{
		global:  runtime.NewEnvironment(nil),
		classes: make(map[string]*runtime.ClassValue),
		stdout:  w,
	}
	i.installPrimitives()
	return i
}

// GlobalEnvironment returns the interpreter's global environment.
func (i *Interpreter) GlobalEnvironment() *runtime.Environment {
	return i.global
}

// ClassByName looks up a registered class.
func (i *Interpreter) ClassByName(name string) (*runtime.ClassValue, bool) {
	cv, ok := i.classes[name]
	return cv, ok
}

func (i *Interpreter) topContext() runtime.CallContext {
	return runtime.CallContext{Env: i.global}
}

// EvaluateProgram executes a program's command sequence. The value of every
// top-level expression command is printed, one per line; define, set, and
// class commands are silent. Returns the last evaluated value.
func (i *Interpreter) EvaluateProgram(program *ast.Program) (runtime.Value, error) {
	var last runtime.Value = runtime.NilValue{}
	for _, stmt := range program.Statements {
		val, err := i.EvaluateStatement(stmt)
		if err != nil {
			return nil, err
		}
		last = val
		if isExpressionCommand(stmt) {
			fmt.Fprintln(i.stdout, runtime.Stringify(val))
		}
	}
	return last, nil
}

func isExpressionCommand(stmt ast.Statement) bool {
	switch stmt.(type) {
	case *ast.DefineStatement, *ast.SetStatement, *ast.ClassDeclaration:
		return false
	default:
		return true
	}
}

// EvaluateStatement runs one statement in the global context (used by the
// program loop and the REPL).
func (i *Interpreter) EvaluateStatement(stmt ast.Statement) (runtime.Value, error) {
	return i.evaluateStatement(stmt, i.topContext())
}

func (i *Interpreter) evaluateStatement(node ast.Statement, ctx runtime.CallContext) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.DefineStatement:
		val, err := i.evaluateExpression(n.Value, ctx)
		if err != nil {
			return nil, err
		}
		ctx.Env.Define(n.Name.Name, val)
		return val, nil
	case *ast.SetStatement:
		return i.evaluateSet(n, ctx)
	case *ast.ClassDeclaration:
		cv, err := i.DefineClass(n, ctx.Env)
		if err != nil {
			return nil, err
		}
		return cv, nil
	case ast.Expression:
		return i.evaluateExpression(n, ctx)
	default:
		return nil, fmt.Errorf("Statement type %T is not supported", node)
	}
}

func (i *Interpreter) evaluateExpression(node ast.Expression, ctx runtime.CallContext) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.IntegerLiteral:
		return runtime.IntegerValue{Val: n.Value}, nil
	case *ast.Identifier:
		return ctx.Env.Get(n.Name)
	case *ast.Receiver:
		if ctx.Receiver == nil {
			return nil, runtime.NoReceiver(n.Keyword, n.Keyword)
		}
		return ctx.Receiver, nil
	case *ast.ProcExpression:
		return i.makeProc(n, ctx), nil
	case *ast.QualifiedRef:
		return i.resolveQualifiedRef(n, ctx)
	case *ast.MethodCall:
		return i.evaluateMethodCall(n, ctx)
	case *ast.ApplyExpression:
		return i.evaluateApply(n, ctx)
	case *ast.NewExpression:
		cv, ok := i.classes[n.ClassName.Name]
		if !ok {
			return nil, runtime.UnknownClass(n.ClassName.Name)
		}
		return i.Instantiate(cv)
	case *ast.LetExpression:
		return i.evaluateLet(n, ctx)
	case *ast.BlockExpression:
		return i.evaluateBlock(n, ctx)
	case *ast.IfExpression:
		return i.evaluateIf(n, ctx)
	default:
		return nil, fmt.Errorf("Expression type %T is not supported", node)
	}
}

func (i *Interpreter) makeProc(n *ast.ProcExpression, ctx runtime.CallContext) *runtime.ProcValue {
	params := make([]string, 0, len(n.Params))
	for _, p := range n.Params {
		params = append(params, p.Name)
	}
	return &runtime.ProcValue{
		Params:   params,
		Body:     n.Body,
		Env:      ctx.Env,
		Receiver: ctx.Receiver,
		Anchor:   ctx.Anchor,
	}
}

func (i *Interpreter) evaluateLet(n *ast.LetExpression, ctx runtime.CallContext) (runtime.Value, error) {
	// Non-recursive let: right-hand sides see the enclosing environment only.
	values := make([]runtime.Value, len(n.Bindings))
	for idx, b := range n.Bindings {
		val, err := i.evaluateExpression(b.Value, ctx)
		if err != nil {
			return nil, err
		}
		values[idx] = val
	}
	frame := ctx.Env.Extend()
	for idx, b := range n.Bindings {
		frame.Define(b.Name.Name, values[idx])
	}
	return i.evaluateExpression(n.Body, ctx.WithEnv(frame))
}

func (i *Interpreter) evaluateBlock(n *ast.BlockExpression, ctx runtime.CallContext) (runtime.Value, error) {
	blockCtx := ctx.WithEnv(ctx.Env.Extend())
	var last runtime.Value = runtime.NilValue{}
	for _, stmt := range n.Body {
		val, err := i.evaluateStatement(stmt, blockCtx)
		if err != nil {
			return nil, err
		}
		last = val
	}
	return last, nil
}

func (i *Interpreter) evaluateIf(n *ast.IfExpression, ctx runtime.CallContext) (runtime.Value, error) {
	cond, err := i.evaluateExpression(n.Condition, ctx)
	if err != nil {
		return nil, err
	}
	truthy, err := integerOf(cond, "if condition")
	if err != nil {
		return nil, err
	}
	if truthy != 0 {
		return i.evaluateExpression(n.Consequence, ctx)
	}
	if n.Alternative == nil {
		return runtime.NilValue{}, nil
	}
	return i.evaluateExpression(n.Alternative, ctx)
}

func (i *Interpreter) evaluateApply(n *ast.ApplyExpression, ctx runtime.CallContext) (runtime.Value, error) {
	callee, err := i.evaluateExpression(n.Callee, ctx)
	if err != nil {
		return nil, err
	}
	args, err := i.evaluateArgs(n.Args, ctx)
	if err != nil {
		return nil, err
	}
	return i.applyValue(callee, args)
}

func (i *Interpreter) evaluateArgs(exprs []ast.Expression, ctx runtime.CallContext) ([]runtime.Value, error) {
	args := make([]runtime.Value, 0, len(exprs))
	for _, e := range exprs {
		val, err := i.evaluateExpression(e, ctx)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}
	return args, nil
}

// applyValue applies a first-class proc or primitive. A proc body runs under
// the receiver and anchor captured at the proc literal, so object context
// survives the call.
func (i *Interpreter) applyValue(callee runtime.Value, args []runtime.Value) (runtime.Value, error) {
	switch fn := callee.(type) {
	case *runtime.ProcValue:
		if len(args) != len(fn.Params) {
			return nil, runtime.ArityMismatch("proc", len(fn.Params), len(args))
		}
		frame := fn.Env.Extend()
		for idx, name := range fn.Params {
			frame.Define(name, args[idx])
		}
		callCtx := runtime.CallContext{Receiver: fn.Receiver, Anchor: fn.Anchor, Env: frame}
		return i.evaluateExpression(fn.Body, callCtx)
	case runtime.NativeProcValue:
		if fn.Arity >= 0 && len(args) != fn.Arity {
			return nil, runtime.ArityMismatch(fn.Name, fn.Arity, len(args))
		}
		return fn.Impl(args)
	default:
		return nil, runtime.NotCallable(runtime.Stringify(callee))
	}
}

func integerOf(v runtime.Value, what string) (int64, error) {
	iv, ok := v.(runtime.IntegerValue)
	if !ok {
		return 0, runtime.TypeMismatch(fmt.Sprintf("%s must be an integer, got %s", what, v.Kind()))
	}
	return iv.Val, nil
}
