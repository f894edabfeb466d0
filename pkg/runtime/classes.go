package runtime

import "obj/interpreter-go/pkg/ast"

// MethodDef is one method or static-proc entry. DefiningClass fixes the
// static-dispatch anchor for this/super/myclass/superclass while the body
// runs.
type MethodDef struct {
	Name          string
	Params        []string
	Body          ast.Expression
	DefiningClass *ClassDef
}

// ClassDef is the immutable description of a class level. Depth is the
// level's position in its chain, root ancestor at 0.
type ClassDef struct {
	Name        string
	Parent      *ClassDef
	Fields      []*ast.FieldDecl
	Statics     []*ast.FieldDecl
	Methods     map[string]*MethodDef
	StaticProcs map[string]*MethodDef
	LexicalEnv  *Environment
	Depth       int
}

// Chain returns the ancestor chain, root ancestor first, this level last.
func (d *ClassDef) Chain() []*ClassDef {
	chain := make([]*ClassDef, d.Depth+1)
	for level := d; level != nil; level = level.Parent {
		chain[level.Depth] = level
	}
	return chain
}

// FindMethod searches for a method from this level upward through ancestors.
// It returns the definition and the level it was found at.
func (d *ClassDef) FindMethod(name string) (*MethodDef, *ClassDef) {
	for level := d; level != nil; level = level.Parent {
		if m, ok := level.Methods[name]; ok {
			return m, level
		}
	}
	return nil, nil
}

// DeclaresField reports whether this level itself declares the field.
func (d *ClassDef) DeclaresField(name string) bool {
	for _, f := range d.Fields {
		if f.Name.Name == name {
			return true
		}
	}
	return false
}

// DeclaresStatic reports whether this level itself declares the static.
func (d *ClassDef) DeclaresStatic(name string) bool {
	for _, f := range d.Statics {
		if f.Name.Name == name {
			return true
		}
	}
	return false
}

// FindFieldLevel searches for the first level declaring the field, from this
// level upward through ancestors.
func (d *ClassDef) FindFieldLevel(name string) *ClassDef {
	for level := d; level != nil; level = level.Parent {
		if level.DeclaresField(name) {
			return level
		}
	}
	return nil
}

// ClassValue is the live value for a class. It holds one static frame per
// level in its chain; ancestor frames are shared with the ancestor's own
// ClassValue, so a static cell has exactly one home regardless of how it is
// reached.
type ClassValue struct {
	Def     *ClassDef
	statics []*Environment
}

func (v *ClassValue) Kind() Kind { return KindClass }

// NewClassValue allocates the class value for def. The new level's static
// frame is parented to the class's lexical environment so static
// initializers and later static-proc lookups resolve free names there;
// parent levels reuse the parent class value's frames.
func NewClassValue(def *ClassDef, parent *ClassValue) *ClassValue {
	statics := make([]*Environment, def.Depth+1)
	if parent != nil {
		copy(statics, parent.statics)
	}
	statics[def.Depth] = NewEnvironment(def.LexicalEnv)
	return &ClassValue{Def: def, statics: statics}
}

// StaticFrame returns the static frame for a level of this class's chain.
func (v *ClassValue) StaticFrame(level *ClassDef) *Environment {
	return v.statics[level.Depth]
}

// OwnStaticFrame returns the frame for the most-derived level.
func (v *ClassValue) OwnStaticFrame() *Environment {
	return v.statics[v.Def.Depth]
}

// InstanceValue is an object. Field frames mirror the class chain one-to-one,
// root level at index 0; two levels declaring the same field name keep
// independent storage.
type InstanceValue struct {
	Class  *ClassValue
	fields []*Environment
}

func (v *InstanceValue) Kind() Kind { return KindInstance }

// NewInstanceValue allocates an instance with one empty field frame per chain
// level, each parented to that level's lexical environment. Field
// initializers are evaluated by the interpreter after allocation.
func NewInstanceValue(class *ClassValue) *InstanceValue {
	chain := class.Def.Chain()
	fields := make([]*Environment, len(chain))
	for i, level := range chain {
		fields[i] = NewEnvironment(level.LexicalEnv)
	}
	return &InstanceValue{Class: class, fields: fields}
}

// FieldFrame returns the field frame for a level of the instance's chain.
func (v *InstanceValue) FieldFrame(level *ClassDef) *Environment {
	return v.fields[level.Depth]
}
