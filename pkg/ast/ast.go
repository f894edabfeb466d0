package ast

type NodeType string

const (
	NodeIdentifier       NodeType = "Identifier"
	NodeIntegerLiteral   NodeType = "IntegerLiteral"
	NodeReceiver         NodeType = "Receiver"
	NodeProcExpression   NodeType = "ProcExpression"
	NodeQualifiedRef     NodeType = "QualifiedRef"
	NodeMethodCall       NodeType = "MethodCall"
	NodeApplyExpression  NodeType = "ApplyExpression"
	NodeNewExpression    NodeType = "NewExpression"
	NodeLetExpression    NodeType = "LetExpression"
	NodeLetBinding       NodeType = "LetBinding"
	NodeBlockExpression  NodeType = "BlockExpression"
	NodeIfExpression     NodeType = "IfExpression"
	NodeDefineStatement  NodeType = "DefineStatement"
	NodeSetStatement     NodeType = "SetStatement"
	NodeFieldDecl        NodeType = "FieldDecl"
	NodeMethodDecl       NodeType = "MethodDecl"
	NodeClassDeclaration NodeType = "ClassDeclaration"
	NodeProgram          NodeType = "Program"
)

type Node interface {
	NodeType() NodeType
	isNode()
}

type nodeImpl struct {
	Type NodeType `json:"type"`
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (nodeImpl) isNode()              {}

// Marker interfaces.

// Expression is also a Statement: OBJ's command language accepts any
// expression in statement position (a top-level expression command prints its
// value).
type Expression interface {
	Node
	expressionNode()
	statementNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

// QualifierMode identifies the binding context a qualified reference or call
// resolves against.
type QualifierMode string

const (
	// ModeNone marks an unqualified target (plain environment binding).
	ModeNone       QualifierMode = "none"
	ModeSelf       QualifierMode = "self"
	ModeThis       QualifierMode = "this"
	ModeSuper      QualifierMode = "super"
	ModeMyClass    QualifierMode = "myclass"
	ModeSuperClass QualifierMode = "superclass"
	ModeLexical    QualifierMode = "lexical"
	// ModeObject targets an explicit object or class expression, as in
	// `.<p>init(3, 4)` or `<Counter>count`.
	ModeObject QualifierMode = "object"
)

//-----------------------------------------------------------------------------
// Expressions
//-----------------------------------------------------------------------------

type Identifier struct {
	nodeImpl
	expressionMarker
	statementMarker

	Name string `json:"name"`
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier), Name: name}
}

type IntegerLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Value int64 `json:"value"`
}

func NewIntegerLiteral(value int64) *IntegerLiteral {
	return &IntegerLiteral{nodeImpl: newNodeImpl(NodeIntegerLiteral), Value: value}
}

// Receiver is a bare `this` or `self` expression; both denote the original
// dynamically-dispatched receiver when used as a value.
type Receiver struct {
	nodeImpl
	expressionMarker
	statementMarker

	Keyword string `json:"keyword"`
}

func NewReceiver(keyword string) *Receiver {
	return &Receiver{nodeImpl: newNodeImpl(NodeReceiver), Keyword: keyword}
}

// ProcExpression is a `proc(a, b) body` literal. Method and static-proc
// declarations reuse it as their right-hand side.
type ProcExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Params []*Identifier `json:"params"`
	Body   Expression    `json:"body"`
}

func NewProcExpression(params []*Identifier, body Expression) *ProcExpression {
	return &ProcExpression{nodeImpl: newNodeImpl(NodeProcExpression), Params: params, Body: body}
}

// QualifiedRef is a bare qualified read: `<this>x`, `<myclass>count`,
// `<!@>val`, or `<expr>x` when Mode is ModeObject.
type QualifiedRef struct {
	nodeImpl
	expressionMarker
	statementMarker

	Mode   QualifierMode `json:"mode"`
	Object Expression    `json:"object,omitempty"`
	Name   *Identifier   `json:"name"`
}

func NewQualifiedRef(mode QualifierMode, object Expression, name *Identifier) *QualifiedRef {
	return &QualifiedRef{nodeImpl: newNodeImpl(NodeQualifiedRef), Mode: mode, Object: object, Name: name}
}

// MethodCall is a dotted qualified call: `.<self>area()`, `.<super>test()`,
// `.<p>init(3, 4)` when Mode is ModeObject.
type MethodCall struct {
	nodeImpl
	expressionMarker
	statementMarker

	Mode   QualifierMode `json:"mode"`
	Object Expression    `json:"object,omitempty"`
	Name   *Identifier   `json:"name"`
	Args   []Expression  `json:"args"`
}

func NewMethodCall(mode QualifierMode, object Expression, name *Identifier, args []Expression) *MethodCall {
	return &MethodCall{nodeImpl: newNodeImpl(NodeMethodCall), Mode: mode, Object: object, Name: name, Args: args}
}

// ApplyExpression applies a proc value to arguments: `.f(5)` or a primitive
// application such as `add1(x)`.
type ApplyExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Callee Expression   `json:"callee"`
	Args   []Expression `json:"args"`
}

func NewApplyExpression(callee Expression, args []Expression) *ApplyExpression {
	return &ApplyExpression{nodeImpl: newNodeImpl(NodeApplyExpression), Callee: callee, Args: args}
}

type NewExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	ClassName *Identifier `json:"className"`
}

func NewNewExpression(className *Identifier) *NewExpression {
	return &NewExpression{nodeImpl: newNodeImpl(NodeNewExpression), ClassName: className}
}

type LetBinding struct {
	nodeImpl

	Name  *Identifier `json:"name"`
	Value Expression  `json:"value"`
}

func NewLetBinding(name *Identifier, value Expression) *LetBinding {
	return &LetBinding{nodeImpl: newNodeImpl(NodeLetBinding), Name: name, Value: value}
}

// LetExpression binds names in a fresh frame for the body. Right-hand sides
// are evaluated in the enclosing environment (non-recursive let).
type LetExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Bindings []*LetBinding `json:"bindings"`
	Body     Expression    `json:"body"`
}

func NewLetExpression(bindings []*LetBinding, body Expression) *LetExpression {
	return &LetExpression{nodeImpl: newNodeImpl(NodeLetExpression), Bindings: bindings, Body: body}
}

// BlockExpression is a `{ s ; s ; ... }` sequence; its value is the value of
// the last statement.
type BlockExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Body []Statement `json:"body"`
}

func NewBlockExpression(body []Statement) *BlockExpression {
	return &BlockExpression{nodeImpl: newNodeImpl(NodeBlockExpression), Body: body}
}

// IfExpression treats any non-zero integer as true.
type IfExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Condition   Expression `json:"condition"`
	Consequence Expression `json:"consequence"`
	Alternative Expression `json:"alternative"`
}

func NewIfExpression(condition, consequence, alternative Expression) *IfExpression {
	return &IfExpression{nodeImpl: newNodeImpl(NodeIfExpression), Condition: condition, Consequence: consequence, Alternative: alternative}
}

//-----------------------------------------------------------------------------
// Statements and declarations
//-----------------------------------------------------------------------------

type DefineStatement struct {
	nodeImpl
	statementMarker

	Name  *Identifier `json:"name"`
	Value Expression  `json:"value"`
}

func NewDefineStatement(name *Identifier, value Expression) *DefineStatement {
	return &DefineStatement{nodeImpl: newNodeImpl(NodeDefineStatement), Name: name, Value: value}
}

// SetStatement mutates an existing binding: `set x = e` (Mode ModeNone) or a
// qualified cell such as `set <this>x = e`.
type SetStatement struct {
	nodeImpl
	statementMarker

	Mode   QualifierMode `json:"mode"`
	Object Expression    `json:"object,omitempty"`
	Name   *Identifier   `json:"name"`
	Value  Expression    `json:"value"`
}

func NewSetStatement(mode QualifierMode, object Expression, name *Identifier, value Expression) *SetStatement {
	return &SetStatement{nodeImpl: newNodeImpl(NodeSetStatement), Mode: mode, Object: object, Name: name, Value: value}
}

// FieldDecl is a `field x` / `field x = e` or `static x = e` entry. Init is
// nil for a field declared without an initializer; such a field stays unbound
// until first set.
type FieldDecl struct {
	nodeImpl

	Name *Identifier `json:"name"`
	Init Expression  `json:"init,omitempty"`
}

func NewFieldDecl(name *Identifier, init Expression) *FieldDecl {
	return &FieldDecl{nodeImpl: newNodeImpl(NodeFieldDecl), Name: name, Init: init}
}

// MethodDecl is a `method m = proc(...)` or `proc p = proc(...)` entry.
type MethodDecl struct {
	nodeImpl

	Name *Identifier     `json:"name"`
	Proc *ProcExpression `json:"proc"`
}

func NewMethodDecl(name *Identifier, proc *ProcExpression) *MethodDecl {
	return &MethodDecl{nodeImpl: newNodeImpl(NodeMethodDecl), Name: name, Proc: proc}
}

type ClassDeclaration struct {
	nodeImpl
	statementMarker

	Name        *Identifier   `json:"name"`
	Parent      *Identifier   `json:"parent,omitempty"`
	Fields      []*FieldDecl  `json:"fields"`
	Statics     []*FieldDecl  `json:"statics"`
	Methods     []*MethodDecl `json:"methods"`
	StaticProcs []*MethodDecl `json:"staticProcs"`
}

func NewClassDeclaration(name, parent *Identifier, fields, statics []*FieldDecl, methods, staticProcs []*MethodDecl) *ClassDeclaration {
	return &ClassDeclaration{
		nodeImpl:    newNodeImpl(NodeClassDeclaration),
		Name:        name,
		Parent:      parent,
		Fields:      fields,
		Statics:     statics,
		Methods:     methods,
		StaticProcs: staticProcs,
	}
}

type Program struct {
	nodeImpl

	Statements []Statement `json:"statements"`
}

func NewProgram(statements []Statement) *Program {
	return &Program{nodeImpl: newNodeImpl(NodeProgram), Statements: statements}
}
