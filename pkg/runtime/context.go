package runtime

// CallContext is the set of ambient bindings in effect while a body runs: the
// original dynamically-dispatched receiver, the class level whose code is
// executing, and the activation environment for locals and params. It is
// passed by value into every call and never mutated in place; dispatch builds
// a fresh context for each callee. Receiver stays the same across nested
// this/super hops even as Anchor moves.
type CallContext struct {
	Receiver *InstanceValue
	Anchor   *ClassDef
	Env      *Environment
}

// WithEnv returns a copy of the context using a different environment.
func (c CallContext) WithEnv(env *Environment) CallContext {
	c.Env = env
	return c
}
