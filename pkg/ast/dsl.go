package ast

// Shorthand builders, mostly for tests and for assembling programs in Go.

func ID(name string) *Identifier {
	return NewIdentifier(name)
}

func Int(value int64) *IntegerLiteral {
	return NewIntegerLiteral(value)
}

func This() *Receiver {
	return NewReceiver("this")
}

func Self() *Receiver {
	return NewReceiver("self")
}

func Proc(params []string, body Expression) *ProcExpression {
	ids := make([]*Identifier, 0, len(params))
	for _, p := range params {
		ids = append(ids, ID(p))
	}
	return NewProcExpression(ids, body)
}

// Qual builds a qualified read such as `<myclass>x`.
func Qual(mode QualifierMode, name string) *QualifiedRef {
	return NewQualifiedRef(mode, nil, ID(name))
}

// QualOf builds an explicit-object read such as `<p>x` or `<Counter>count`.
func QualOf(object Expression, name string) *QualifiedRef {
	return NewQualifiedRef(ModeObject, object, ID(name))
}

// Call builds a dotted qualified call such as `.<self>area()`.
func Call(mode QualifierMode, name string, args ...Expression) *MethodCall {
	return NewMethodCall(mode, nil, ID(name), args)
}

// CallOn builds an explicit-object call such as `.<p>init(3, 4)`.
func CallOn(object Expression, name string, args ...Expression) *MethodCall {
	return NewMethodCall(ModeObject, object, ID(name), args)
}

// Apply builds a proc application such as `.f(5)` or `add1(x)`.
func Apply(callee Expression, args ...Expression) *ApplyExpression {
	return NewApplyExpression(callee, args)
}

func New(className string) *NewExpression {
	return NewNewExpression(ID(className))
}

func Bind(name string, value Expression) *LetBinding {
	return NewLetBinding(ID(name), value)
}

func Let(bindings []*LetBinding, body Expression) *LetExpression {
	return NewLetExpression(bindings, body)
}

func Block(body ...Statement) *BlockExpression {
	return NewBlockExpression(body)
}

func If(condition, consequence, alternative Expression) *IfExpression {
	return NewIfExpression(condition, consequence, alternative)
}

func Define(name string, value Expression) *DefineStatement {
	return NewDefineStatement(ID(name), value)
}

// Set builds an unqualified `set x = e`.
func Set(name string, value Expression) *SetStatement {
	return NewSetStatement(ModeNone, nil, ID(name), value)
}

// SetQual builds `set <this>x = e` and friends.
func SetQual(mode QualifierMode, name string, value Expression) *SetStatement {
	return NewSetStatement(mode, nil, ID(name), value)
}

// SetOn builds `set <p>x = e`.
func SetOn(object Expression, name string, value Expression) *SetStatement {
	return NewSetStatement(ModeObject, object, ID(name), value)
}

func Field(name string) *FieldDecl {
	return NewFieldDecl(ID(name), nil)
}

func FieldInit(name string, init Expression) *FieldDecl {
	return NewFieldDecl(ID(name), init)
}

func Static(name string, init Expression) *FieldDecl {
	return NewFieldDecl(ID(name), init)
}

func Method(name string, params []string, body Expression) *MethodDecl {
	return NewMethodDecl(ID(name), Proc(params, body))
}

func StaticProc(name string, params []string, body Expression) *MethodDecl {
	return NewMethodDecl(ID(name), Proc(params, body))
}

// Class builds a class declaration; parent may be empty for a root class.
func Class(name, parent string, fields, statics []*FieldDecl, methods, staticProcs []*MethodDecl) *ClassDeclaration {
	var parentID *Identifier
	if parent != "" {
		parentID = ID(parent)
	}
	return NewClassDeclaration(ID(name), parentID, fields, statics, methods, staticProcs)
}

func Prog(statements ...Statement) *Program {
	return NewProgram(statements)
}
