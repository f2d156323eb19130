package core

import (
	"maps"
	"slices"
)

// Variable is a named, typed value.
type Variable struct {
	Name  string
	Type  VarType
	Value Value
}

// VariableStore maps names to variables. It is mutated in place by RunCycle
// and by manual writes; see Context for the access contract.
type VariableStore struct {
	vars map[string]Variable
}

// NewVariableStore creates an empty store.
func NewVariableStore() *VariableStore {
	return &VariableStore{vars: map[string]Variable{}}
}

// Get returns the named variable.
func (s *VariableStore) Get(name string) (Variable, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// Set stores a variable, replacing any previous one of the same name. The
// value is converted to the representation of t.
func (s *VariableStore) Set(name string, t VarType, v Value) {
	s.vars[name] = Variable{Name: name, Type: t, Value: coerce(v, t)}
}

// Assign writes v to an existing variable keeping its type, or creates a
// variable of the type inferred from v.
func (s *VariableStore) Assign(name string, v Value) {
	if old, ok := s.vars[name]; ok {
		s.Set(name, old.Type, v)
		return
	}

	t := Bool
	switch {
	case v.IsNumber():
		t = Real
	case !v.IsBool():
		t = Time
	}
	s.Set(name, t, v)
}

// SetBool stores a BOOL variable.
func (s *VariableStore) SetBool(name string, b bool) {
	s.Set(name, Bool, BoolValue(b))
}

// Declare creates the variable if it does not exist yet.
func (s *VariableStore) Declare(name string, t VarType, v Value) {
	if _, ok := s.vars[name]; ok {
		return
	}
	s.Set(name, t, v)
}

// Delete removes a variable.
func (s *VariableStore) Delete(name string) {
	delete(s.vars, name)
}

// Len returns the number of variables.
func (s *VariableStore) Len() int {
	return len(s.vars)
}

// Names returns the variable names in sorted order.
func (s *VariableStore) Names() []string {
	return slices.Sorted(maps.Keys(s.vars))
}

// List returns the variables sorted by name.
func (s *VariableStore) List() []Variable {
	list := make([]Variable, 0, len(s.vars))
	for _, name := range s.Names() {
		list = append(list, s.vars[name])
	}
	return list
}

// Clone returns an independent copy of the store.
func (s *VariableStore) Clone() *VariableStore {
	return &VariableStore{vars: maps.Clone(s.vars)}
}
