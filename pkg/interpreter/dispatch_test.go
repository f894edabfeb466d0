package interpreter

import (
	"io"
	"testing"

	"obj/interpreter-go/pkg/ast"
	"obj/interpreter-go/pkg/runtime"
)

func add(a, b ast.Expression) ast.Expression {
	return ast.Apply(ast.ID("+"), a, b)
}

// A parameter, a field, and a static sharing one name stay three distinct
// cells, reached as x, <self>x, and <myclass>x.
func TestParamFieldStaticShadowing(t *testing.T) {
	val := evalProgram(t,
		ast.Class("Score", "",
			[]*ast.FieldDecl{ast.Field("x")},
			[]*ast.FieldDecl{ast.Static("x", ast.Int(100))},
			[]*ast.MethodDecl{
				ast.Method("init", nil, ast.Block(
					ast.SetQual(ast.ModeThis, "x", ast.Int(10)),
					ast.This(),
				)),
				ast.Method("calc", []string{"x"},
					add(ast.ID("x"), add(ast.Qual(ast.ModeSelf, "x"), ast.Qual(ast.ModeMyClass, "x")))),
			}, nil),
		ast.Define("s", ast.CallOn(ast.New("Score"), "init")),
		ast.CallOn(ast.ID("s"), "calc", ast.Int(1)),
	)
	wantInt(t, val, 111)
}

// A self call inside an inherited method re-dispatches from the receiver's
// most-derived class.
func TestSelfCallUsesDynamicReceiver(t *testing.T) {
	val := evalProgram(t,
		ast.Class("Animal", "", nil, nil, []*ast.MethodDecl{
			ast.Method("identify", nil, ast.Int(1)),
			ast.Method("describe", nil, ast.Call(ast.ModeSelf, "identify")),
		}, nil),
		ast.Class("Dog", "Animal", nil, nil, []*ast.MethodDecl{
			ast.Method("identify", nil, ast.Int(2)),
		}, nil),
		ast.CallOn(ast.New("Dog"), "describe"),
	)
	wantInt(t, val, 2)
}

// A this call starts at the anchor and never re-examines the receiver's
// class, so an override below the anchor is invisible.
func TestThisCallIgnoresOverrides(t *testing.T) {
	val := evalProgram(t,
		ast.Class("Animal", "", nil, nil, []*ast.MethodDecl{
			ast.Method("identify", nil, ast.Int(1)),
			ast.Method("describe", nil, ast.Call(ast.ModeThis, "identify")),
		}, nil),
		ast.Class("Dog", "Animal", nil, nil, []*ast.MethodDecl{
			ast.Method("identify", nil, ast.Int(2)),
		}, nil),
		ast.CallOn(ast.New("Dog"), "describe"),
	)
	wantInt(t, val, 1)
}

// `<!@>val` reads the class's definition-site environment live, while
// `<myclass>val` reads the static, untouched by either the global or the
// instance field of the same name.
func TestLexicalVersusStaticVersusField(t *testing.T) {
	val := evalProgram(t,
		ast.Define("val", ast.Int(10)),
		ast.Class("Sampler", "",
			[]*ast.FieldDecl{ast.FieldInit("val", ast.Int(30))},
			[]*ast.FieldDecl{ast.Static("val", ast.Int(20))},
			[]*ast.MethodDecl{
				ast.Method("sum", nil,
					add(ast.Qual(ast.ModeLexical, "val"), ast.Qual(ast.ModeMyClass, "val"))),
			}, nil),
		ast.Set("val", ast.Int(999)),
		ast.CallOn(ast.New("Sampler"), "sum"),
	)
	wantInt(t, val, 1019)
}

// superclass addresses the parent's own static cell and super the parent's
// method, both untouched by the child's shadows.
func TestSuperclassStaticAndSuperMethod(t *testing.T) {
	val := evalProgram(t,
		ast.Class("Base", "", nil,
			[]*ast.FieldDecl{ast.Static("id", ast.Int(1))},
			[]*ast.MethodDecl{ast.Method("tag", nil, ast.Int(10))}, nil),
		ast.Class("Derived", "Base", nil,
			[]*ast.FieldDecl{ast.Static("id", ast.Int(2))},
			[]*ast.MethodDecl{
				ast.Method("tag", nil, ast.Int(20)),
				ast.Method("combine", nil,
					add(ast.Qual(ast.ModeSuperClass, "id"), ast.Call(ast.ModeSuper, "tag"))),
			}, nil),
		ast.CallOn(ast.New("Derived"), "combine"),
	)
	wantInt(t, val, 11)
}

// Static procs run without a receiver: myclass works, self fails.
func TestStaticProcHasNoReceiver(t *testing.T) {
	interp := NewWithOutput(io.Discard)
	_, err := interp.EvaluateStatement(ast.Class("Registry", "",
		[]*ast.FieldDecl{ast.Field("x")},
		[]*ast.FieldDecl{ast.Static("x", ast.Int(5))},
		nil,
		[]*ast.MethodDecl{
			ast.StaticProc("reader", nil, ast.Qual(ast.ModeMyClass, "x")),
			ast.StaticProc("bad", nil, ast.Qual(ast.ModeSelf, "x")),
		}))
	if err != nil {
		t.Fatalf("class definition failed: %v", err)
	}

	val, err := interp.EvaluateStatement(ast.CallOn(ast.ID("Registry"), "reader"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantInt(t, val, 5)

	_, err = interp.EvaluateStatement(ast.CallOn(ast.ID("Registry"), "bad"))
	if runtime.CodeOf(err) != runtime.CodeNoReceiver {
		t.Fatalf("expected no_receiver, got %v", err)
	}
}

// The receiver survives a chain of super hops: a self call at the top of the
// chain still dispatches against the original object's class.
func TestReceiverSurvivesSuperChain(t *testing.T) {
	val := evalProgram(t,
		ast.Class("A", "", nil, nil, []*ast.MethodDecl{
			ast.Method("foo", nil, ast.Int(1)),
			ast.Method("probe", nil, ast.Call(ast.ModeSelf, "foo")),
		}, nil),
		ast.Class("B", "A", nil, nil, []*ast.MethodDecl{
			ast.Method("foo", nil, ast.Int(2)),
			ast.Method("probe", nil, ast.Call(ast.ModeSuper, "probe")),
		}, nil),
		ast.Class("C", "B", nil, nil, []*ast.MethodDecl{
			ast.Method("foo", nil, ast.Int(3)),
		}, nil),
		ast.CallOn(ast.New("C"), "probe"),
	)
	wantInt(t, val, 3)
}

// Two levels declaring the same field name keep independent storage; this
// addresses the anchor level's cell, self the most-derived declaration.
func TestFieldStoragePerLevel(t *testing.T) {
	program := []ast.Statement{
		ast.Class("Top", "",
			[]*ast.FieldDecl{ast.FieldInit("v", ast.Int(1))}, nil,
			[]*ast.MethodDecl{
				ast.Method("topV", nil, ast.Qual(ast.ModeThis, "v")),
				ast.Method("topVSelf", nil, ast.Qual(ast.ModeSelf, "v")),
			}, nil),
		ast.Class("Bottom", "Top",
			[]*ast.FieldDecl{ast.FieldInit("v", ast.Int(2))}, nil,
			[]*ast.MethodDecl{
				ast.Method("bottomV", nil, ast.Qual(ast.ModeThis, "v")),
			}, nil),
		ast.Define("b", ast.New("Bottom")),
	}

	interp := NewWithOutput(io.Discard)
	if _, err := interp.EvaluateProgram(ast.Prog(program...)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct {
		method string
		want   int64
	}{
		{"topV", 1},
		{"topVSelf", 2},
		{"bottomV", 2},
	}
	for _, tc := range cases {
		val, err := interp.EvaluateStatement(ast.CallOn(ast.ID("b"), tc.method))
		if err != nil {
			t.Fatalf("%s failed: %v", tc.method, err)
		}
		wantInt(t, val, tc.want)
	}
}

// A field reached through self sitting at an ancestor level is found by
// searching upward from the receiver's class.
func TestInheritedFieldReachableFromDerived(t *testing.T) {
	val := evalProgram(t,
		ast.Class("Top", "",
			[]*ast.FieldDecl{ast.FieldInit("y", ast.Int(7))}, nil, nil, nil),
		ast.Class("Bottom", "Top", nil, nil, []*ast.MethodDecl{
			ast.Method("getY", nil, ast.Qual(ast.ModeSelf, "y")),
		}, nil),
		ast.CallOn(ast.New("Bottom"), "getY"),
	)
	wantInt(t, val, 7)
}

// Statics are not inherited: myclass in a child that declares no such static
// fails even when the parent declares one.
func TestStaticsNotInherited(t *testing.T) {
	interp := NewWithOutput(io.Discard)
	_, err := interp.EvaluateProgram(ast.Prog(
		ast.Class("Par", "", nil,
			[]*ast.FieldDecl{ast.Static("n", ast.Int(5))}, nil, nil),
		ast.Class("Chi", "Par", nil, nil, []*ast.MethodDecl{
			ast.Method("read", nil, ast.Qual(ast.ModeMyClass, "n")),
		}, nil),
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = interp.EvaluateStatement(ast.CallOn(ast.New("Chi"), "read"))
	if runtime.CodeOf(err) != runtime.CodeUnboundIdentifier {
		t.Fatalf("expected unbound_identifier, got %v", err)
	}
}

// An explicit `<Counter>count` addresses the named class's own static cell,
// shared by every instance and visible at top level.
func TestExplicitClassStaticShared(t *testing.T) {
	counter := ast.Class("Counter", "", nil,
		[]*ast.FieldDecl{ast.Static("count", ast.Int(0))},
		[]*ast.MethodDecl{
			ast.Method("bump", nil, ast.Block(
				ast.SetOn(ast.ID("Counter"), "count",
					ast.Apply(ast.ID("add1"), ast.QualOf(ast.ID("Counter"), "count"))),
			)),
		}, nil)

	interp := NewWithOutput(io.Discard)
	_, err := interp.EvaluateProgram(ast.Prog(
		counter,
		ast.Define("c1", ast.New("Counter")),
		ast.Define("c2", ast.New("Counter")),
		ast.CallOn(ast.ID("c1"), "bump"),
		ast.CallOn(ast.ID("c2"), "bump"),
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	val, err := interp.EvaluateStatement(ast.QualOf(ast.ID("Counter"), "count"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantInt(t, val, 2)
}

// A proc literal built inside a method captures the receiver and anchor, so
// applying it later still reaches the object's fields.
func TestProcCapturesObjectContext(t *testing.T) {
	val := evalProgram(t,
		ast.Class("Box", "",
			[]*ast.FieldDecl{ast.FieldInit("v", ast.Int(42))}, nil,
			[]*ast.MethodDecl{
				ast.Method("reader", nil, ast.Proc(nil, ast.Qual(ast.ModeSelf, "v"))),
			}, nil),
		ast.Define("r", ast.CallOn(ast.New("Box"), "reader")),
		ast.Apply(ast.ID("r")),
	)
	wantInt(t, val, 42)
}

// Mutating a lexical capture from inside a method writes through to the
// definition-site cell.
func TestLexicalSetWritesThrough(t *testing.T) {
	val := evalProgram(t,
		ast.Define("total", ast.Int(0)),
		ast.Class("Acc", "", nil, nil, []*ast.MethodDecl{
			ast.Method("inc", nil, ast.Block(
				ast.SetQual(ast.ModeLexical, "total",
					ast.Apply(ast.ID("add1"), ast.Qual(ast.ModeLexical, "total"))),
			)),
		}, nil),
		ast.Define("a", ast.New("Acc")),
		ast.CallOn(ast.ID("a"), "inc"),
		ast.CallOn(ast.ID("a"), "inc"),
		ast.ID("total"),
	)
	wantInt(t, val, 2)
}

// A field declared without an initializer exists but cannot be read before
// its first set.
func TestUninitializedFieldUnboundUntilSet(t *testing.T) {
	interp := NewWithOutput(io.Discard)
	_, err := interp.EvaluateProgram(ast.Prog(
		ast.Class("Cell", "",
			[]*ast.FieldDecl{ast.Field("x")}, nil,
			[]*ast.MethodDecl{
				ast.Method("get", nil, ast.Qual(ast.ModeThis, "x")),
				ast.Method("put", []string{"v"}, ast.Block(
					ast.SetQual(ast.ModeThis, "x", ast.ID("v")),
				)),
			}, nil),
		ast.Define("c", ast.New("Cell")),
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = interp.EvaluateStatement(ast.CallOn(ast.ID("c"), "get"))
	if runtime.CodeOf(err) != runtime.CodeUnboundIdentifier {
		t.Fatalf("expected unbound_identifier before first set, got %v", err)
	}
	if _, err := interp.EvaluateStatement(ast.CallOn(ast.ID("c"), "put", ast.Int(3))); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	val, err := interp.EvaluateStatement(ast.CallOn(ast.ID("c"), "get"))
	if err != nil {
		t.Fatalf("get after set failed: %v", err)
	}
	wantInt(t, val, 3)
}

func TestDuplicateClassDefinition(t *testing.T) {
	interp := NewWithOutput(io.Discard)
	decl := ast.Class("Twice", "", nil, nil, nil, nil)
	if _, err := interp.EvaluateStatement(decl); err != nil {
		t.Fatalf("first definition failed: %v", err)
	}
	_, err := interp.EvaluateStatement(ast.Class("Twice", "", nil, nil, nil, nil))
	if runtime.CodeOf(err) != runtime.CodeDuplicateDefinition {
		t.Fatalf("expected duplicate_definition, got %v", err)
	}
}

func TestUnknownParent(t *testing.T) {
	interp := NewWithOutput(io.Discard)
	_, err := interp.EvaluateStatement(ast.Class("Orphan", "Missing", nil, nil, nil, nil))
	if runtime.CodeOf(err) != runtime.CodeUnknownParent {
		t.Fatalf("expected unknown_parent, got %v", err)
	}
}

func TestNewUnknownClass(t *testing.T) {
	interp := NewWithOutput(io.Discard)
	_, err := interp.EvaluateStatement(ast.New("Missing"))
	if runtime.CodeOf(err) != runtime.CodeUnknownClass {
		t.Fatalf("expected unknown_class, got %v", err)
	}
}

func TestSuperAtRootFails(t *testing.T) {
	interp := NewWithOutput(io.Discard)
	_, err := interp.EvaluateProgram(ast.Prog(
		ast.Class("Root", "", nil, nil, []*ast.MethodDecl{
			ast.Method("up", nil, ast.Call(ast.ModeSuper, "up")),
		}, nil),
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = interp.EvaluateStatement(ast.CallOn(ast.New("Root"), "up"))
	if runtime.CodeOf(err) != runtime.CodeUnboundIdentifier {
		t.Fatalf("expected unbound_identifier for super at root, got %v", err)
	}
}

func TestMethodArityChecked(t *testing.T) {
	interp := NewWithOutput(io.Discard)
	_, err := interp.EvaluateStatement(ast.Class("Pair", "", nil, nil, []*ast.MethodDecl{
		ast.Method("both", []string{"a", "b"}, add(ast.ID("a"), ast.ID("b"))),
	}, nil))
	if err != nil {
		t.Fatalf("class definition failed: %v", err)
	}
	_, err = interp.EvaluateStatement(ast.CallOn(ast.New("Pair"), "both", ast.Int(1)))
	if runtime.CodeOf(err) != runtime.CodeArityMismatch {
		t.Fatalf("expected arity_mismatch, got %v", err)
	}
}

// Static initializers run at class-definition time, see earlier statics of
// the same class, and anchor myclass correctly.
func TestStaticInitializersSeeEarlierStatics(t *testing.T) {
	val := evalProgram(t,
		ast.Class("Conf", "", nil,
			[]*ast.FieldDecl{
				ast.Static("base", ast.Int(40)),
				ast.Static("doubled", ast.Apply(ast.ID("+"), ast.ID("base"), ast.ID("base"))),
			},
			[]*ast.MethodDecl{
				ast.Method("get", nil, ast.Qual(ast.ModeMyClass, "doubled")),
			}, nil),
		ast.CallOn(ast.New("Conf"), "get"),
	)
	wantInt(t, val, 80)
}

// A static initializer may address earlier statics of its own class through
// myclass; the class is resolvable from the moment seeding starts.
func TestStaticInitializerMyClassReference(t *testing.T) {
	val := evalProgram(t,
		ast.Class("Ledger", "", nil,
			[]*ast.FieldDecl{
				ast.Static("base", ast.Int(40)),
				ast.Static("doubled",
					add(ast.Qual(ast.ModeMyClass, "base"), ast.Qual(ast.ModeMyClass, "base"))),
			},
			[]*ast.MethodDecl{
				ast.Method("get", nil, ast.Qual(ast.ModeMyClass, "doubled")),
			}, nil),
		ast.CallOn(ast.New("Ledger"), "get"),
	)
	wantInt(t, val, 80)
}

// A failing static initializer leaves the class unregistered, so the name
// stays free for a corrected definition.
func TestFailedStaticInitializerUnregistersClass(t *testing.T) {
	interp := NewWithOutput(io.Discard)
	_, err := interp.EvaluateStatement(ast.Class("Flaky", "", nil,
		[]*ast.FieldDecl{ast.Static("x", ast.Apply(ast.ID("/"), ast.Int(1), ast.Int(0)))},
		nil, nil))
	if runtime.CodeOf(err) != runtime.CodeTypeMismatch {
		t.Fatalf("expected type_mismatch from the initializer, got %v", err)
	}
	if _, ok := interp.ClassByName("Flaky"); ok {
		t.Fatalf("failed definition must not stay registered")
	}

	_, err = interp.EvaluateStatement(ast.Class("Flaky", "", nil,
		[]*ast.FieldDecl{ast.Static("x", ast.Int(1))},
		nil, nil))
	if err != nil {
		t.Fatalf("redefinition after failure should succeed, got %v", err)
	}
}

// Field initializers at each level run with that level as anchor, so a
// myclass reference inside one addresses the declaring class's statics.
func TestFieldInitializerAnchorsAtDeclaringLevel(t *testing.T) {
	val := evalProgram(t,
		ast.Class("Up", "",
			[]*ast.FieldDecl{ast.FieldInit("mark", ast.Qual(ast.ModeMyClass, "seed"))},
			[]*ast.FieldDecl{ast.Static("seed", ast.Int(5))},
			[]*ast.MethodDecl{
				ast.Method("mark", nil, ast.Qual(ast.ModeThis, "mark")),
			}, nil),
		ast.Class("Down", "Up", nil,
			[]*ast.FieldDecl{ast.Static("seed", ast.Int(6))}, nil, nil),
		ast.CallOn(ast.New("Down"), "mark"),
	)
	wantInt(t, val, 5)
}
