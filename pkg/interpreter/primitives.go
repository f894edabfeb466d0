package interpreter

import (
	"fmt"

	"obj/interpreter-go/pkg/runtime"
)

// OBJ's primitives are ordinary global bindings of native procs, applied with
// the prefix syntax `+(a, b)`.
func (i *Interpreter) installPrimitives() {
	define := func(name string, arity int, impl func(args []runtime.Value) (runtime.Value, error)) {
		i.global.Define(name, runtime.NativeProcValue{Name: name, Arity: arity, Impl: impl})
	}

	arith := func(name string, op func(a, b int64) (int64, error)) {
		define(name, 2, func(args []runtime.Value) (runtime.Value, error) {
			a, err := integerOf(args[0], fmt.Sprintf("first argument of %s", name))
			if err != nil {
				return nil, err
			}
			b, err := integerOf(args[1], fmt.Sprintf("second argument of %s", name))
			if err != nil {
				return nil, err
			}
			out, err := op(a, b)
			if err != nil {
				return nil, err
			}
			return runtime.IntegerValue{Val: out}, nil
		})
	}

	arith("+", func(a, b int64) (int64, error) { return a + b, nil })
	arith("-", func(a, b int64) (int64, error) { return a - b, nil })
	arith("*", func(a, b int64) (int64, error) { return a * b, nil })
	arith("/", func(a, b int64) (int64, error) {
		if b == 0 {
			return 0, runtime.TypeMismatch("division by zero")
		}
		return a / b, nil
	})

	unary := func(name string, op func(a int64) int64) {
		define(name, 1, func(args []runtime.Value) (runtime.Value, error) {
			a, err := integerOf(args[0], fmt.Sprintf("argument of %s", name))
			if err != nil {
				return nil, err
			}
			return runtime.IntegerValue{Val: op(a)}, nil
		})
	}

	unary("add1", func(a int64) int64 { return a + 1 })
	unary("sub1", func(a int64) int64 { return a - 1 })
	unary("zero?", func(a int64) int64 { return boolInt(a == 0) })
	unary("not?", func(a int64) int64 { return boolInt(a == 0) })

	define("print", 1, func(args []runtime.Value) (runtime.Value, error) {
		fmt.Fprintln(i.stdout, runtime.Stringify(args[0]))
		return args[0], nil
	})
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
