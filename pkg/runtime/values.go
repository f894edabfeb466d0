package runtime

import (
	"fmt"

	"obj/interpreter-go/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNil Kind = iota
	KindInteger
	KindProc
	KindNativeProc
	KindClass
	KindInstance
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindInteger:
		return "integer"
	case KindProc:
		return "proc"
	case KindNativeProc:
		return "native_proc"
	case KindClass:
		return "class"
	case KindInstance:
		return "instance"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

type NilValue struct{}

func (NilValue) Kind() Kind { return KindNil }

// IntegerValue is the only scalar OBJ has; conditionals treat non-zero as
// true, so booleans are integers too.
type IntegerValue struct {
	Val int64
}

func (v IntegerValue) Kind() Kind { return KindInteger }

// ProcValue is a first-class closure. Besides its environment it captures the
// receiver and anchor in effect where the proc literal was evaluated, so a
// proc built inside a method can still reach self/this when applied later.
type ProcValue struct {
	Params   []string
	Body     ast.Expression
	Env      *Environment
	Receiver *InstanceValue
	Anchor   *ClassDef
}

func (v *ProcValue) Kind() Kind { return KindProc }

// NativeProcValue backs the built-in primitives (+, *, add1, ...).
type NativeProcValue struct {
	Name  string
	Arity int
	Impl  func(args []Value) (Value, error)
}

func (v NativeProcValue) Kind() Kind { return KindNativeProc }

// Stringify renders a value the way the top-level driver prints it.
func Stringify(v Value) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case NilValue:
		return "nil"
	case IntegerValue:
		return fmt.Sprintf("%d", val.Val)
	case *ProcValue:
		return fmt.Sprintf("<proc/%d>", len(val.Params))
	case NativeProcValue:
		return fmt.Sprintf("<native %s>", val.Name)
	case *ClassValue:
		return fmt.Sprintf("<class %s>", val.Def.Name)
	case *InstanceValue:
		return fmt.Sprintf("<%s instance>", val.Class.Def.Name)
	default:
		return fmt.Sprintf("<%s>", v.Kind())
	}
}
