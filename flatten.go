// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gatesim

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// MaxNesting is the deepest custom gate nesting level Flatten accepts. A
// custom gate placed in a circuit is at level 1.
//
const MaxNesting = 1

// expansion records, for one inlined custom gate, the internal ports fed by
// each of its input ports and the internal ports feeding each of its output
// ports.
//
type expansion struct {
	inputs  map[int][]Endpoint
	outputs map[int][]Endpoint
}

type flattener struct {
	reg    *Registry
	keep   bool
	used   map[string]struct{}
	out    map[string]bool // connection ids emitted so far
	n      int
	gates  []Gate
	conns  []Connection
	exp    map[string]*expansion
	kept   []string
	keptCG map[string]CustomGate
}

func (f *flattener) free(id string) bool {
	_, ok := f.used[id]
	return !ok
}

// newID returns the first free id prefix<n>, advancing the shared counter.
//
func (f *flattener) newID(prefix string) string {
	for {
		id := prefix + strconv.Itoa(f.n)
		f.n++
		if f.free(id) {
			f.used[id] = struct{}{}
			return id
		}
	}
}

// connect appends a connection. id is kept unless an emitted connection already
// carries it or, for connections copied out of a custom gate, it is an id of
// the flattened snapshot.
//
func (f *flattener) connect(from, to Endpoint, id string, reserved bool) {
	if from.GateID == "" || to.GateID == "" {
		return
	}
	if id == "" || f.out[id] || !reserved && !f.free(id) {
		id = f.newID("cxc")
	}
	f.used[id] = struct{}{}
	f.out[id] = true
	f.conns = append(f.conns, Connection{ID: id, From: from, To: to})
}

// Flatten inlines every custom gate of snap into primitive gates. Inlined gates
// and connections get fresh ids (cxg<n> and cxc<n>) that collide with no id of
// snap. Connections of snap keep their id; connections copied out of a custom
// gate keep theirs while it is free. Connections
// into or out of a custom gate are rewritten to one connection per pair of the
// internal ports they stand for.
//
// Flatten fails with UnknownGateKind if a gate type is not registered and with
// NestedCustomGateUnsupported if a custom gate contains another custom gate.
// With the KeepTemplated option, custom gates that have a VHDL template are
// left in place and their definition is embedded in the result's CustomGates.
//
func Flatten(snap *Snapshot, reg *Registry, opts ...Option) (*Snapshot, error) {
	o := newOptions(opts)
	f := &flattener{
		reg:    reg,
		keep:   o.keepTemplated,
		used:   make(map[string]struct{}, len(snap.Gates)+len(snap.Connections)),
		out:    make(map[string]bool),
		exp:    make(map[string]*expansion),
		keptCG: make(map[string]CustomGate),
	}
	for _, g := range snap.Gates {
		f.used[g.ID] = struct{}{}
	}
	for _, c := range snap.Connections {
		if c.ID != "" {
			f.used[c.ID] = struct{}{}
		}
	}
	for _, cg := range snap.CustomGates {
		f.keptCG[cg.Type] = cg
	}

	top := make(map[string]bool, len(snap.Gates))
	for _, g := range snap.Gates {
		if g.ID == "" || top[g.ID] {
			continue
		}
		top[g.ID] = true
		d, ok := reg.Lookup(g.Type)
		if !ok {
			return nil, NewError(UnknownGateKind, g.ID, g.Type, "not registered")
		}
		if d.Template == nil || f.keep && d.VHDL != "" {
			f.gates = append(f.gates, g)
			if d.Template != nil {
				f.keepType(d)
			}
			continue
		}
		x, err := f.inline(g, d.Template, 1)
		if err != nil {
			return nil, err
		}
		f.exp[g.ID] = x
	}

	for _, c := range snap.Connections {
		if !top[c.From.GateID] || !top[c.To.GateID] {
			continue
		}
		srcs := []Endpoint{c.From}
		if x := f.exp[c.From.GateID]; x != nil {
			srcs = x.outputs[c.From.Port]
		}
		dsts := []Endpoint{c.To}
		if x := f.exp[c.To.GateID]; x != nil {
			dsts = x.inputs[c.To.Port]
		}
		for _, s := range srcs {
			for _, d := range dsts {
				f.connect(s, d, c.ID, true)
			}
		}
	}

	out := &Snapshot{
		Version:     snap.Version,
		Origin:      snap.Origin,
		NextID:      snap.NextID,
		Gates:       f.gates,
		Connections: f.conns,
	}
	if out.Gates == nil {
		out.Gates = []Gate{}
	}
	if out.Connections == nil {
		out.Connections = []Connection{}
	}
	if n := nextID(f.gates); n > out.NextID {
		out.NextID = n
	}
	for _, typ := range f.kept {
		out.CustomGates = append(out.CustomGates, f.keptCG[typ])
	}
	return out, nil
}

func (f *flattener) keepType(d *Definition) {
	for _, t := range f.kept {
		if t == d.Type {
			return
		}
	}
	f.kept = append(f.kept, d.Type)
	if cg, ok := f.keptCG[d.Type]; ok && cg.VHDL != "" {
		return
	}
	f.keptCG[d.Type] = d.Template.CustomGate()
}

// inline copies the internal gates of template t, placed as gate g at nesting
// depth, and returns the port mapping of the instance.
//
func (f *flattener) inline(g Gate, t *Template, depth int) (*expansion, error) {
	if depth > MaxNesting {
		return nil, NewError(NestedCustomGateUnsupported, g.ID, g.Type, "custom gates nest at most "+strconv.Itoa(MaxNesting)+" level deep")
	}
	iface := t.Interface
	ids := make(map[string]string, len(t.Model.Gates))
	for _, child := range t.Model.Gates {
		if iface.InputIndex(child.ID) >= 0 || iface.OutputIndex(child.ID) >= 0 {
			continue
		}
		d, ok := f.reg.Lookup(child.Type)
		if !ok {
			return nil, errors.Wrapf(NewError(UnknownGateKind, child.ID, child.Type, "not registered"), "custom gate %q", t.Label)
		}
		if d.Template != nil && depth+1 > MaxNesting {
			return nil, errors.Wrapf(NewError(NestedCustomGateUnsupported, child.ID, child.Type, "custom gates nest at most "+strconv.Itoa(MaxNesting)+" level deep"), "custom gate %q", t.Label)
		}
		c := child
		c.ID = f.newID("cxg")
		ids[child.ID] = c.ID
		f.gates = append(f.gates, c)
	}

	x := &expansion{inputs: make(map[int][]Endpoint), outputs: make(map[int][]Endpoint)}
	for _, c := range t.Model.Connections {
		if d, ok := t.Model.Driver(c.To.GateID, c.To.Port); !ok || d != c.From {
			// superseded by a later connection to the same port
			continue
		}
		in, out := iface.InputIndex(c.From.GateID), iface.OutputIndex(c.To.GateID)
		switch {
		case in >= 0 && out >= 0:
			// pass-through wire
			b := Gate{ID: f.newID("cxg"), Type: TypeBuffer, X: g.X, Y: g.Y, Label: iface.OutputNames[out]}
			f.gates = append(f.gates, b)
			x.inputs[in] = append(x.inputs[in], Endpoint{GateID: b.ID})
			x.outputs[out] = append(x.outputs[out], Endpoint{GateID: b.ID})
		case in >= 0:
			if id, ok := ids[c.To.GateID]; ok {
				x.inputs[in] = append(x.inputs[in], Endpoint{GateID: id, Port: c.To.Port})
			}
		case out >= 0:
			if id, ok := ids[c.From.GateID]; ok {
				x.outputs[out] = append(x.outputs[out], Endpoint{GateID: id, Port: c.From.Port})
			}
		default:
			from, fok := ids[c.From.GateID]
			to, tok := ids[c.To.GateID]
			if fok && tok {
				f.connect(Endpoint{GateID: from, Port: c.From.Port}, Endpoint{GateID: to, Port: c.To.Port}, c.ID, false)
			}
		}
	}
	return x, nil
}

// nextID returns one more than the largest number found in the digits of the
// gate ids, and at least 1.
//
func nextID(gates []Gate) int {
	n := 1
	for _, g := range gates {
		digits := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, g.ID)
		v, err := strconv.Atoi(digits)
		if digits == "" {
			v, err = 0, nil
		}
		if err == nil && v+1 > n {
			n = v + 1
		}
	}
	return n
}
