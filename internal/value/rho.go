package value

// Rho is the runtime environment threaded through evaluation, mapping
// names to values. It is immutable and persistent: Extend returns a
// new Rho sharing structure with its parent, exactly like the other
// contexts in this kernel (spec §3, §5).
type Rho struct {
	name   string
	val    Value
	parent *Rho
}

// EmptyRho is the environment with no bindings.
var EmptyRho = (*Rho)(nil)

// Extend returns a new environment with name bound to val, shadowing
// any earlier binding of the same name.
func (r *Rho) Extend(name string, val Value) *Rho {
	return &Rho{name: name, val: val, parent: r}
}

// ExtendRec binds name to the value produced by build, which receives
// the extended environment itself. Used when elaborating a `data`
// declaration whose constructor telescopes mention the datatype being
// defined: the datatype's own value must close over an environment
// that already contains it. build must not force the binding while it
// runs (evaluating a lambda or datatype former only captures the
// environment, which is all the callers do).
func (r *Rho) ExtendRec(name string, build func(*Rho) (Value, error)) (*Rho, Value, error) {
	node := &Rho{name: name, parent: r}
	v, err := build(node)
	if err != nil {
		return nil, nil, err
	}
	node.val = v
	return node, v, nil
}

// Get looks up the latest binding of name, if any.
func (r *Rho) Get(name string) (Value, bool) {
	for f := r; f != nil; f = f.parent {
		if f.name == name {
			return f.val, true
		}
	}
	return nil, false
}
