package interpreter

import (
	"obj/interpreter-go/pkg/ast"
	"obj/interpreter-go/pkg/runtime"
)

// DefineClass registers a class declaration. The given environment is
// captured by reference as the class's lexical environment, so free names in
// method bodies observe later mutation of their cells. A parent must already
// be fully defined, which rules out cycles by construction.
func (i *Interpreter) DefineClass(decl *ast.ClassDeclaration, env *runtime.Environment) (*runtime.ClassValue, error) {
	name := decl.Name.Name
	if _, exists := i.classes[name]; exists {
		return nil, runtime.DuplicateDefinition(name)
	}

	var parentVal *runtime.ClassValue
	depth := 0
	if decl.Parent != nil {
		pv, ok := i.classes[decl.Parent.Name]
		if !ok {
			return nil, runtime.UnknownParent(name, decl.Parent.Name)
		}
		parentVal = pv
		depth = pv.Def.Depth + 1
	}

	def := &runtime.ClassDef{
		Name:        name,
		Fields:      decl.Fields,
		Statics:     decl.Statics,
		Methods:     make(map[string]*runtime.MethodDef, len(decl.Methods)),
		StaticProcs: make(map[string]*runtime.MethodDef, len(decl.StaticProcs)),
		LexicalEnv:  env,
		Depth:       depth,
	}
	if parentVal != nil {
		def.Parent = parentVal.Def
	}
	for _, m := range decl.Methods {
		def.Methods[m.Name.Name] = methodDef(m, def)
	}
	for _, p := range decl.StaticProcs {
		def.StaticProcs[p.Name.Name] = methodDef(p, def)
	}

	cv := runtime.NewClassValue(def, parentVal)

	// Statics are seeded eagerly, in declaration order, inside the static
	// frame itself; the frame is parented to the lexical environment, so an
	// initializer sees earlier statics and then the definition-site scope.
	// The class registers before seeding so an initializer can address
	// already-seeded cells through <myclass>; a failed initializer
	// unregisters it again.
	i.classes[name] = cv
	frame := cv.OwnStaticFrame()
	initCtx := runtime.CallContext{Anchor: def, Env: frame}
	for _, s := range decl.Statics {
		if s.Init == nil {
			frame.Declare(s.Name.Name)
			continue
		}
		val, err := i.evaluateExpression(s.Init, initCtx)
		if err != nil {
			delete(i.classes, name)
			return nil, err
		}
		frame.Define(s.Name.Name, val)
	}

	env.Define(name, cv)
	return cv, nil
}

func methodDef(m *ast.MethodDecl, def *runtime.ClassDef) *runtime.MethodDef {
	params := make([]string, 0, len(m.Proc.Params))
	for _, p := range m.Proc.Params {
		params = append(params, p.Name)
	}
	return &runtime.MethodDef{
		Name:          m.Name.Name,
		Params:        params,
		Body:          m.Proc.Body,
		DefiningClass: def,
	}
}

// Instantiate allocates an instance with one field frame per class level,
// root ancestor first, and seeds each frame from that level's field
// declarations. Fields without initializers stay unbound until first set.
// There is no implicit constructor call.
func (i *Interpreter) Instantiate(cv *runtime.ClassValue) (*runtime.InstanceValue, error) {
	inst := runtime.NewInstanceValue(cv)
	for _, level := range cv.Def.Chain() {
		frame := inst.FieldFrame(level)
		for _, f := range level.Fields {
			if f.Init == nil {
				frame.Declare(f.Name.Name)
				continue
			}
			initCtx := runtime.CallContext{Receiver: inst, Anchor: level, Env: frame}
			val, err := i.evaluateExpression(f.Init, initCtx)
			if err != nil {
				return nil, err
			}
			frame.Define(f.Name.Name, val)
		}
	}
	return inst, nil
}
