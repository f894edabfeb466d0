package interpreter

import (
	"fmt"

	"obj/interpreter-go/pkg/ast"
	"obj/interpreter-go/pkg/runtime"
)

// Dispatch walks one of six binding contexts for every qualified call, read,
// or assignment:
//
//	self        search from the receiver's most-derived level upward
//	this        search from the anchor level upward
//	super       search from the anchor's parent upward
//	myclass     the anchor level's own statics, exactly that level
//	superclass  the anchor's parent statics, exactly that level
//	lexical     the anchor's captured definition-site environment
//
// plus the explicit-object form `.<expr>m(...)` / `<expr>x`, which behaves
// like self against the evaluated target (or hits a class's own statics when
// the target is a class). The receiver is threaded unchanged through nested
// this/super hops, so a self call made deep inside a super chain still
// dispatches against the original object's most-derived class.

func (i *Interpreter) evaluateMethodCall(n *ast.MethodCall, ctx runtime.CallContext) (runtime.Value, error) {
	var target runtime.Value
	if n.Mode == ast.ModeObject {
		val, err := i.evaluateExpression(n.Object, ctx)
		if err != nil {
			return nil, err
		}
		target = val
	}
	args, err := i.evaluateArgs(n.Args, ctx)
	if err != nil {
		return nil, err
	}
	return i.EvaluateCall(ctx, n.Mode, target, n.Name.Name, args)
}

// EvaluateCall resolves and invokes a qualified call. The target is only
// consulted for ModeObject.
func (i *Interpreter) EvaluateCall(ctx runtime.CallContext, mode ast.QualifierMode, target runtime.Value, name string, args []runtime.Value) (runtime.Value, error) {
	switch mode {
	case ast.ModeSelf, ast.ModeThis, ast.ModeSuper:
		method, foundAt, err := i.resolveMethod(ctx, mode, name)
		if err != nil {
			return nil, err
		}
		return i.invokeMethod(ctx.Receiver, method, foundAt, args)
	case ast.ModeMyClass, ast.ModeSuperClass:
		level, err := staticLevel(ctx, mode, name)
		if err != nil {
			return nil, err
		}
		proc, ok := level.StaticProcs[name]
		if !ok {
			return nil, runtime.UnboundIn(name, string(mode), level.Name)
		}
		return i.invokeStaticProc(proc, args)
	case ast.ModeLexical:
		env, err := lexicalEnv(ctx, name)
		if err != nil {
			return nil, err
		}
		callee, err := env.Get(name)
		if err != nil {
			return nil, runtime.Unbound(name, string(mode))
		}
		return i.applyValue(callee, args)
	case ast.ModeObject:
		switch t := target.(type) {
		case *runtime.InstanceValue:
			method, foundAt := t.Class.Def.FindMethod(name)
			if method == nil {
				return nil, runtime.UnboundIn(name, "object", t.Class.Def.Name)
			}
			return i.invokeMethod(t, method, foundAt, args)
		case *runtime.ClassValue:
			proc, ok := t.Def.StaticProcs[name]
			if !ok {
				return nil, runtime.UnboundIn(name, "object", t.Def.Name)
			}
			return i.invokeStaticProc(proc, args)
		default:
			return nil, runtime.NotCallable(fmt.Sprintf("method '%s' on %s", name, runtime.Stringify(target)))
		}
	default:
		return nil, fmt.Errorf("Call mode %q is not supported", mode)
	}
}

// resolveMethod finds a method for the receiver-relative modes and reports
// the level it was found at, which becomes the callee's anchor.
func (i *Interpreter) resolveMethod(ctx runtime.CallContext, mode ast.QualifierMode, name string) (*runtime.MethodDef, *runtime.ClassDef, error) {
	if ctx.Receiver == nil {
		return nil, nil, runtime.NoReceiver(name, string(mode))
	}
	start, err := searchStart(ctx, mode)
	if err != nil {
		return nil, nil, err
	}
	method, foundAt := start.FindMethod(name)
	if method == nil {
		return nil, nil, runtime.UnboundIn(name, string(mode), start.Name)
	}
	return method, foundAt, nil
}

// searchStart picks the first class level to examine for a receiver-relative
// lookup. self starts at the receiver's actual class; this and super never
// re-examine it and start at the anchor instead.
func searchStart(ctx runtime.CallContext, mode ast.QualifierMode) (*runtime.ClassDef, error) {
	switch mode {
	case ast.ModeSelf:
		return ctx.Receiver.Class.Def, nil
	case ast.ModeThis:
		if ctx.Anchor == nil {
			return nil, runtime.TypeMismatch("'this' used outside of class code")
		}
		return ctx.Anchor, nil
	case ast.ModeSuper:
		if ctx.Anchor == nil {
			return nil, runtime.TypeMismatch("'super' used outside of class code")
		}
		if ctx.Anchor.Parent == nil {
			return nil, runtime.UnboundIn("super", string(mode), ctx.Anchor.Name)
		}
		return ctx.Anchor.Parent, nil
	default:
		return nil, fmt.Errorf("mode %q has no receiver-relative search", mode)
	}
}

// staticLevel picks the exact class level a myclass/superclass access
// addresses. Statics are not implicitly inherited, so there is no upward
// search past the addressed level.
func staticLevel(ctx runtime.CallContext, mode ast.QualifierMode, name string) (*runtime.ClassDef, error) {
	if ctx.Anchor == nil {
		return nil, runtime.TypeMismatch(fmt.Sprintf("'%s' used outside of class code", mode))
	}
	if mode == ast.ModeMyClass {
		return ctx.Anchor, nil
	}
	if ctx.Anchor.Parent == nil {
		return nil, runtime.UnboundIn(name, string(mode), ctx.Anchor.Name)
	}
	return ctx.Anchor.Parent, nil
}

// lexicalEnv resolves the definition-site environment for `!@` references.
func lexicalEnv(ctx runtime.CallContext, name string) (*runtime.Environment, error) {
	if ctx.Anchor == nil {
		return nil, runtime.TypeMismatch(fmt.Sprintf("lexical reference '%s' used outside of class code", name))
	}
	return ctx.Anchor.LexicalEnv, nil
}

// invokeMethod builds the callee's activation context: same receiver, anchor
// moved to the level the method was found at, params bound in a fresh frame
// over that level's lexical environment.
func (i *Interpreter) invokeMethod(receiver *runtime.InstanceValue, method *runtime.MethodDef, foundAt *runtime.ClassDef, args []runtime.Value) (runtime.Value, error) {
	if len(args) != len(method.Params) {
		return nil, runtime.ArityMismatch(method.Name, len(method.Params), len(args))
	}
	frame := runtime.NewEnvironment(foundAt.LexicalEnv)
	for idx, name := range method.Params {
		frame.Define(name, args[idx])
	}
	callCtx := runtime.CallContext{Receiver: receiver, Anchor: foundAt, Env: frame}
	return i.evaluateExpression(method.Body, callCtx)
}

// invokeStaticProc runs a static proc with no receiver; self/this/super
// inside the body fail with the no-receiver error.
func (i *Interpreter) invokeStaticProc(proc *runtime.MethodDef, args []runtime.Value) (runtime.Value, error) {
	if len(args) != len(proc.Params) {
		return nil, runtime.ArityMismatch(proc.Name, len(proc.Params), len(args))
	}
	frame := runtime.NewEnvironment(proc.DefiningClass.LexicalEnv)
	for idx, name := range proc.Params {
		frame.Define(name, args[idx])
	}
	callCtx := runtime.CallContext{Anchor: proc.DefiningClass, Env: frame}
	return i.evaluateExpression(proc.Body, callCtx)
}

func (i *Interpreter) resolveQualifiedRef(n *ast.QualifiedRef, ctx runtime.CallContext) (runtime.Value, error) {
	var target runtime.Value
	if n.Mode == ast.ModeObject {
		val, err := i.evaluateExpression(n.Object, ctx)
		if err != nil {
			return nil, err
		}
		target = val
	}
	return i.ResolveQualified(ctx, n.Mode, target, n.Name.Name)
}

// ResolveQualified reads a qualified identifier: a field, a static, or a
// lexical capture, per the mode table.
func (i *Interpreter) ResolveQualified(ctx runtime.CallContext, mode ast.QualifierMode, target runtime.Value, name string) (runtime.Value, error) {
	switch mode {
	case ast.ModeSelf, ast.ModeThis, ast.ModeSuper:
		frame, level, err := i.fieldFrame(ctx.Receiver, ctx, mode, name)
		if err != nil {
			return nil, err
		}
		val, err := frame.GetLocal(name)
		if err != nil {
			return nil, runtime.UnboundIn(name, string(mode), level.Name)
		}
		return val, nil
	case ast.ModeMyClass, ast.ModeSuperClass:
		level, err := staticLevel(ctx, mode, name)
		if err != nil {
			return nil, err
		}
		return i.readStatic(level, mode, name)
	case ast.ModeLexical:
		env, err := lexicalEnv(ctx, name)
		if err != nil {
			return nil, err
		}
		val, err := env.Get(name)
		if err != nil {
			return nil, runtime.Unbound(name, string(mode))
		}
		return val, nil
	case ast.ModeObject:
		switch t := target.(type) {
		case *runtime.InstanceValue:
			level := t.Class.Def.FindFieldLevel(name)
			if level == nil {
				return nil, runtime.UnboundIn(name, "object", t.Class.Def.Name)
			}
			val, err := t.FieldFrame(level).GetLocal(name)
			if err != nil {
				return nil, runtime.UnboundIn(name, "object", level.Name)
			}
			return val, nil
		case *runtime.ClassValue:
			return i.readStatic(t.Def, mode, name)
		default:
			return nil, runtime.TypeMismatch(fmt.Sprintf("cannot read '%s' from %s", name, runtime.Stringify(target)))
		}
	default:
		return nil, fmt.Errorf("Reference mode %q is not supported", mode)
	}
}

func (i *Interpreter) evaluateSet(n *ast.SetStatement, ctx runtime.CallContext) (runtime.Value, error) {
	val, err := i.evaluateExpression(n.Value, ctx)
	if err != nil {
		return nil, err
	}
	if n.Mode == ast.ModeNone {
		if err := ctx.Env.Assign(n.Name.Name, val); err != nil {
			return nil, err
		}
		return val, nil
	}
	var target runtime.Value
	if n.Mode == ast.ModeObject {
		obj, err := i.evaluateExpression(n.Object, ctx)
		if err != nil {
			return nil, err
		}
		target = obj
	}
	if err := i.AssignQualified(ctx, n.Mode, target, n.Name.Name, val); err != nil {
		return nil, err
	}
	return val, nil
}

// AssignQualified mutates the cell a qualified reference addresses. The cell
// must already exist (a declared field, a seeded static, or a reachable
// lexical binding); assignment never creates storage.
func (i *Interpreter) AssignQualified(ctx runtime.CallContext, mode ast.QualifierMode, target runtime.Value, name string, value runtime.Value) error {
	switch mode {
	case ast.ModeSelf, ast.ModeThis, ast.ModeSuper:
		frame, _, err := i.fieldFrame(ctx.Receiver, ctx, mode, name)
		if err != nil {
			return err
		}
		return frame.SetLocal(name, value)
	case ast.ModeMyClass, ast.ModeSuperClass:
		level, err := staticLevel(ctx, mode, name)
		if err != nil {
			return err
		}
		return i.writeStatic(level, mode, name, value)
	case ast.ModeLexical:
		env, err := lexicalEnv(ctx, name)
		if err != nil {
			return err
		}
		if err := env.Assign(name, value); err != nil {
			return runtime.Unbound(name, string(mode))
		}
		return nil
	case ast.ModeObject:
		switch t := target.(type) {
		case *runtime.InstanceValue:
			level := t.Class.Def.FindFieldLevel(name)
			if level == nil {
				return runtime.UnboundIn(name, "object", t.Class.Def.Name)
			}
			return t.FieldFrame(level).SetLocal(name, value)
		case *runtime.ClassValue:
			return i.writeStatic(t.Def, mode, name, value)
		default:
			return runtime.TypeMismatch(fmt.Sprintf("cannot set '%s' on %s", name, runtime.Stringify(target)))
		}
	default:
		return fmt.Errorf("Assignment mode %q is not supported", mode)
	}
}

// fieldFrame locates the field storage a self/this/super reference
// addresses: the first level declaring the name along the mode's search
// path, then that level's frame on the receiver.
func (i *Interpreter) fieldFrame(receiver *runtime.InstanceValue, ctx runtime.CallContext, mode ast.QualifierMode, name string) (*runtime.Environment, *runtime.ClassDef, error) {
	if receiver == nil {
		return nil, nil, runtime.NoReceiver(name, string(mode))
	}
	start, err := searchStart(ctx, mode)
	if err != nil {
		return nil, nil, err
	}
	level := start.FindFieldLevel(name)
	if level == nil {
		return nil, nil, runtime.UnboundIn(name, string(mode), start.Name)
	}
	return receiver.FieldFrame(level), level, nil
}

// readStatic reads a static cell at exactly the given level.
func (i *Interpreter) readStatic(level *runtime.ClassDef, mode ast.QualifierMode, name string) (runtime.Value, error) {
	cv, ok := i.classes[level.Name]
	if !ok {
		return nil, runtime.UnknownClass(level.Name)
	}
	val, err := cv.StaticFrame(level).GetLocal(name)
	if err != nil {
		return nil, runtime.UnboundIn(name, string(mode), level.Name)
	}
	return val, nil
}

func (i *Interpreter) writeStatic(level *runtime.ClassDef, mode ast.QualifierMode, name string, value runtime.Value) error {
	cv, ok := i.classes[level.Name]
	if !ok {
		return runtime.UnknownClass(level.Name)
	}
	if err := cv.StaticFrame(level).SetLocal(name, value); err != nil {
		return runtime.UnboundIn(name, string(mode), level.Name)
	}
	return nil
}
