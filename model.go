// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gatesim

// A Model is a sanitized netlist with precomputed port lookups. It is built
// once from a snapshot and is never mutated by evaluation.
//
type Model struct {
	Gates       []Gate
	Connections []Connection

	reg     *Registry
	index   map[string]int
	defs    []*Definition
	sources []int
	sinks   []int
	drivers map[Endpoint]Endpoint
	fanout  map[string][]Endpoint
}

// BuildModel builds a model from snap using the definitions in reg. It never
// fails. Gates with a duplicate id are dropped (the first one is kept), gates
// of an unregistered type are kept but take no part in evaluation and
// connections are kept even if an endpoint names a missing gate. When several
// connections target the same input port, the last one wins.
//
func BuildModel(reg *Registry, snap *Snapshot) *Model {
	m := &Model{
		reg:     reg,
		index:   make(map[string]int),
		drivers: make(map[Endpoint]Endpoint),
		fanout:  make(map[string][]Endpoint),
	}
	if snap == nil {
		return m
	}
	for _, g := range snap.Gates {
		if g.ID == "" {
			continue
		}
		if _, dup := m.index[g.ID]; dup {
			continue
		}
		i := len(m.Gates)
		m.index[g.ID] = i
		m.Gates = append(m.Gates, g)
		d, _ := reg.Lookup(g.Type)
		m.defs = append(m.defs, d)
		switch {
		case d == nil:
		case d.Source():
			m.sources = append(m.sources, i)
		case d.Sink():
			m.sinks = append(m.sinks, i)
		}
	}
	for _, c := range snap.Connections {
		if c.From.GateID == "" || c.To.GateID == "" {
			continue
		}
		m.Connections = append(m.Connections, c)
		if old, ok := m.drivers[c.To]; ok {
			m.unlink(old, c.To)
		}
		m.drivers[c.To] = c.From
		m.fanout[c.From.GateID] = append(m.fanout[c.From.GateID], c.To)
	}
	return m
}

// unlink removes destination to from the fanout of from.
//
func (m *Model) unlink(from, to Endpoint) {
	l := m.fanout[from.GateID]
	for i, e := range l {
		if e == to {
			m.fanout[from.GateID] = append(l[:i:i], l[i+1:]...)
			return
		}
	}
}

// Registry returns the registry the model was built with.
//
func (m *Model) Registry() *Registry { return m.reg }

// Len returns the number of gates in the model.
//
func (m *Model) Len() int { return len(m.Gates) }

// Gate returns the gate with the given id.
//
func (m *Model) Gate(id string) (*Gate, bool) {
	i, ok := m.index[id]
	if !ok {
		return nil, false
	}
	return &m.Gates[i], true
}

// Definition returns the definition of gate id, or nil if the gate is missing
// or of an unregistered type.
//
func (m *Model) Definition(id string) *Definition {
	if i, ok := m.index[id]; ok {
		return m.defs[i]
	}
	return nil
}

// Sources returns the source gates in encounter order.
//
func (m *Model) Sources() []*Gate { return m.pick(m.sources) }

// Sinks returns the sink gates in encounter order.
//
func (m *Model) Sinks() []*Gate { return m.pick(m.sinks) }

func (m *Model) pick(idx []int) []*Gate {
	gs := make([]*Gate, len(idx))
	for i, n := range idx {
		gs[i] = &m.Gates[n]
	}
	return gs
}

// Driver returns the output port driving input port of gate id.
//
func (m *Model) Driver(id string, port int) (Endpoint, bool) {
	e, ok := m.drivers[Endpoint{GateID: id, Port: port}]
	return e, ok
}

// Fanout returns the input ports driven by the outputs of gate id.
//
func (m *Model) Fanout(id string) []Endpoint {
	return m.fanout[id]
}
