// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gatesim

import (
	"github.com/pkg/errors"
)

// ClearInputs returns a copy of snap where every source gate has its stored bit
// cleared.
//
func ClearInputs(snap *Snapshot, reg *Registry) *Snapshot {
	s := snap.Clone()
	for i := range s.Gates {
		if d, ok := reg.Lookup(s.Gates[i].Type); ok && d.Source() {
			s.Gates[i].State = 0
		}
	}
	return s
}

// Origin values of Snapshot.Origin.
//
const (
	OriginCenter  = "center"
	OriginTopLeft = "top-left"
)

// Recenter returns a copy of snap with gate coordinates relative to the centre
// of a square workspace whose sides are 2*half long. Only snapshots declaring
// a top-left origin are moved; the result always declares a centre origin.
//
func Recenter(snap *Snapshot, half float64) *Snapshot {
	s := snap.Clone()
	if s.Origin == OriginTopLeft {
		for i := range s.Gates {
			s.Gates[i].X -= half
			s.Gates[i].Y -= half
		}
	}
	s.Origin = OriginCenter
	return s
}

// Prune returns a copy of snap without the gates that cannot reach a sink gate,
// along with the connections that touch them. A snapshot without sinks is
// returned unchanged.
//
func Prune(snap *Snapshot, reg *Registry) *Snapshot {
	var stack []string
	keep := make(map[string]bool)
	for _, g := range snap.Gates {
		if d, ok := reg.Lookup(g.Type); ok && d.Sink() && !keep[g.ID] {
			keep[g.ID] = true
			stack = append(stack, g.ID)
		}
	}
	if len(stack) == 0 {
		return snap.Clone()
	}
	pred := make(map[string][]string)
	for _, c := range snap.Connections {
		pred[c.To.GateID] = append(pred[c.To.GateID], c.From.GateID)
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, p := range pred[id] {
			if !keep[p] {
				keep[p] = true
				stack = append(stack, p)
			}
		}
	}

	s := snap.Clone()
	s.Gates = s.Gates[:0]
	for _, g := range snap.Gates {
		if keep[g.ID] {
			s.Gates = append(s.Gates, g)
		}
	}
	s.Connections = s.Connections[:0]
	for _, c := range snap.Connections {
		if keep[c.From.GateID] && keep[c.To.GateID] {
			s.Connections = append(s.Connections, c)
		}
	}
	return s
}

// PrepareExport turns snap into the netlist handed to the VHDL serializer:
// source bits are cleared (ZeroInputs option), custom gates are flattened
// (KeepTemplated option) and gates that cannot reach a sink are dropped
// (PruneDisconnected option). snap is not modified.
//
func PrepareExport(snap *Snapshot, reg *Registry, opts ...Option) (*Snapshot, error) {
	o := newOptions(opts)
	s := snap
	if o.zeroInputs {
		s = ClearInputs(s, reg)
		o.log.Debug("cleared input bits")
	}
	flat, err := Flatten(s, reg, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "flatten")
	}
	o.log.Debug("flattened", "gates", len(flat.Gates), "connections", len(flat.Connections))
	if o.prune {
		n := len(flat.Gates)
		flat = Prune(flat, reg)
		o.log.Debug("pruned disconnected gates", "dropped", n-len(flat.Gates))
	}
	return flat, nil
}
