// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gatesim

import (
	"github.com/pkg/errors"
)

// A Kind is the closed set of gate categories known to the engine. Primitive
// kinds evaluate through a fixed rule table; KindCustom and KindFunc gates
// carry their own rule.
//
type Kind int

// Gate kinds.
//
const (
	KindUnknown Kind = iota
	KindInput        // source: 0 in, 1 out, emits its stored bit
	KindOutput       // sink: 1 in, 0 out, observed through its cached input
	KindBuffer
	KindNot
	KindAnd
	KindNand
	KindOr
	KindNor
	KindXor
	KindFunc   // rule supplied at registration time
	KindCustom // compiled from a nested snapshot
)

var kindNames = [...]string{
	KindUnknown: "unknown",
	KindInput:   "input",
	KindOutput:  "output",
	KindBuffer:  "buffer",
	KindNot:     "not",
	KindAnd:     "and",
	KindNand:    "nand",
	KindOr:      "or",
	KindNor:     "nor",
	KindXor:     "xor",
	KindFunc:    "func",
	KindCustom:  "custom",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Primitive reports whether k evaluates through the built-in rule table.
//
func (k Kind) Primitive() bool {
	return k >= KindInput && k <= KindXor
}

// Type identifiers of the primitive gates.
//
const (
	TypeInput   = "input"
	TypeOutput  = "output"
	TypeBuffer  = "buffer"
	TypeNot     = "not"
	TypeAnd     = "and"
	TypeNand    = "nand"
	TypeOr      = "or"
	TypeNor     = "nor"
	TypeXor     = "xor"
	TypeUnknown = "unknown"
)

// A Rule computes a gate's outputs from its inputs. state is the gate's
// stored bit (only meaningful for sources). in and out are sized to the
// definition's arity and out is zeroed before each call.
//
type Rule func(state bool, in []bool, out []bool)

// Point is a port position, relative to the gate's top-left corner. Layout
// only: the engine never reads it.
//
type Point struct {
	X, Y float64
}

// Ports describes the port geometry of a gate kind.
//
type Ports struct {
	Inputs  []Point
	Outputs []Point
}

// A Definition is the blueprint of a gate kind. Definitions are copied on
// registration and must not be modified afterwards.
//
type Definition struct {
	// Type identifier, as found in snapshots ("and", "custom-half-adder", ...).
	Type string
	Kind Kind
	// Human readable name.
	Label        string
	Description  string
	Abbreviation string
	// Input and output arity.
	Inputs  int
	Outputs int
	Ports   Ports
	// VHDL is an optional template used by the VHDL serializer for non
	// primitive kinds.
	VHDL string
	// Template is the compiled nested netlist of a custom gate.
	Template *Template

	// Mount returns the evaluation rule of a new gate instance. Primitive kinds
	// may leave it nil. Rules returned by Mount may hold private state that
	// must not be shared between instances.
	Mount func() Rule
}

// Source reports whether d is the source primitive.
//
func (d *Definition) Source() bool { return d.Kind == KindInput }

// Sink reports whether d is the sink primitive.
//
func (d *Definition) Sink() bool { return d.Kind == KindOutput }

// NewRule returns a fresh evaluation rule for one gate instance.
//
func (d *Definition) NewRule() Rule {
	if d.Mount != nil {
		return d.Mount()
	}
	if d.Kind.Primitive() {
		return primitiveRules[d.Kind]
	}
	return nil
}

// Registry holds gate definitions keyed by type. A Registry is built once, then
// handed read-only to the model builder, evaluator, compiler and serializer.
// It is not safe for concurrent modification.
//
type Registry struct {
	defs  map[string]*Definition
	order []string
}

// NewRegistry returns a registry pre-loaded with the primitive gates.
//
func NewRegistry() *Registry {
	r := &Registry{defs: make(map[string]*Definition)}
	for _, d := range primitives() {
		if err := r.Register(d); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds or replaces a definition. It fails if d.Type is empty, if the
// arity is negative, if the kind has no evaluation rule or if d.Type is
// already bound to a different arity.
//
func (r *Registry) Register(d *Definition) error {
	if d == nil || d.Type == "" {
		return errors.New("gate type must be a non-empty string")
	}
	if d.Inputs < 0 || d.Outputs < 0 {
		return errors.Errorf("gate type %q: negative arity", d.Type)
	}
	if d.Mount == nil && !d.Kind.Primitive() {
		return errors.Errorf("gate type %q: no evaluation rule", d.Type)
	}
	if old, ok := r.defs[d.Type]; ok {
		if old.Inputs != d.Inputs || old.Outputs != d.Outputs {
			return errors.Errorf("gate type %q already registered with %d inputs and %d outputs", d.Type, old.Inputs, old.Outputs)
		}
	} else {
		r.order = append(r.order, d.Type)
	}
	dd := *d
	if dd.Label == "" {
		dd.Label = dd.Type
	}
	r.defs[d.Type] = &dd
	return nil
}

// RegisterFunc registers a gate kind evaluated by a stateless rule.
//
func (r *Registry) RegisterFunc(typ string, inputs, outputs int, rule Rule) error {
	if rule == nil {
		return errors.Errorf("gate type %q: nil rule", typ)
	}
	return r.Register(&Definition{
		Type:    typ,
		Kind:    KindFunc,
		Inputs:  inputs,
		Outputs: outputs,
		Mount:   func() Rule { return rule },
	})
}

// Lookup returns the definition registered for typ.
//
func (r *Registry) Lookup(typ string) (*Definition, bool) {
	d, ok := r.defs[typ]
	return d, ok
}

// Types returns the registered types in registration order.
//
func (r *Registry) Types() []string {
	return append([]string(nil), r.order...)
}

// Clone returns a shallow copy of r. Definitions are shared since they are
// immutable; registering into the clone does not affect r.
//
func (r *Registry) Clone() *Registry {
	c := &Registry{
		defs:  make(map[string]*Definition, len(r.defs)),
		order: append([]string(nil), r.order...),
	}
	for k, d := range r.defs {
		c.defs[k] = d
	}
	return c
}
