// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gatesim

import (
	"strconv"
	"strings"

	"github.com/db47h/gatesim/internal/slug"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Interface lists the placeholder gates of a custom gate: its source gates are
// the inputs and its sink gates the outputs, both in encounter order.
//
type Interface struct {
	InputIDs    []string
	OutputIDs   []string
	InputNames  []string
	OutputNames []string
}

// InputIndex returns the input port index of placeholder id, or -1.
//
func (i *Interface) InputIndex(id string) int { return indexOf(i.InputIDs, id) }

// OutputIndex returns the output port index of placeholder id, or -1.
//
func (i *Interface) OutputIndex(id string) int { return indexOf(i.OutputIDs, id) }

func indexOf(l []string, s string) int {
	for i, e := range l {
		if e == s {
			return i
		}
	}
	return -1
}

// DiscoverInterface returns the interface of m. It fails with
// InvalidCustomGateInterface if m has no source or no sink gate. Unlabelled
// placeholders are named "In n" and "Out n", counting from 1.
//
func DiscoverInterface(m *Model) (*Interface, error) {
	src, snk := m.Sources(), m.Sinks()
	if len(src) == 0 || len(snk) == 0 {
		return nil, NewError(InvalidCustomGateInterface, "", "", "a custom gate needs at least one input and one output gate")
	}
	iface := new(Interface)
	for i, g := range src {
		iface.InputIDs = append(iface.InputIDs, g.ID)
		iface.InputNames = append(iface.InputNames, portName(g.Label, "In", i))
	}
	for i, g := range snk {
		iface.OutputIDs = append(iface.OutputIDs, g.ID)
		iface.OutputNames = append(iface.OutputNames, portName(g.Label, "Out", i))
	}
	return iface, nil
}

func portName(label, prefix string, i int) string {
	if l := strings.TrimSpace(label); l != "" {
		return l
	}
	return prefix + " " + strconv.Itoa(i+1)
}

// A Template is a compiled custom gate. It is immutable once compiled.
//
type Template struct {
	Type      string
	Label     string
	Snapshot  *Snapshot
	Model     *Model
	Interface *Interface
	VHDL      string
	// persisted form, as registered
	custom CustomGate
}

// CompileTemplate compiles snap into a template. Every gate type of snap must
// be registered in reg.
//
func CompileTemplate(reg *Registry, typ, label string, snap *Snapshot) (*Template, error) {
	if snap == nil {
		return nil, NewError(InvalidCustomGateInterface, "", typ, "no snapshot")
	}
	snap = snap.Clone()
	for _, g := range snap.Gates {
		if _, ok := reg.Lookup(g.Type); !ok {
			return nil, errors.Wrapf(NewError(UnknownGateKind, g.ID, g.Type, "not registered"), "custom gate %q", label)
		}
	}
	m := BuildModel(reg, snap)
	iface, err := DiscoverInterface(m)
	if err != nil {
		if e, ok := errors.Cause(err).(*Error); ok {
			e.Type = typ
		}
		return nil, errors.Wrapf(err, "custom gate %q", label)
	}
	return &Template{
		Type:      typ,
		Label:     label,
		Snapshot:  snap,
		Model:     m,
		Interface: iface,
	}, nil
}

// mount returns the rule of one placed instance. Each instance runs its own
// circuit so that instances do not share runtime bits.
//
func (t *Template) mount() Rule {
	c := NewCircuit(t.Model)
	ov := make(map[string]bool, len(t.Interface.InputIDs))
	return func(_ bool, in, out []bool) {
		for i, id := range t.Interface.InputIDs {
			ov[id] = i < len(in) && in[i]
		}
		c.Settle(ov)
		for i, id := range t.Interface.OutputIDs {
			if i >= len(out) {
				break
			}
			v := c.Value(id)
			out[i] = len(v) > 0 && v[0]
		}
	}
}

// CustomGate returns the persisted form of t, with its snapshot embedded.
//
func (t *Template) CustomGate() CustomGate {
	cg := t.custom
	cg.Snapshot = t.Snapshot.Clone()
	cg.Source = SourceEmbedded
	return cg
}

// uniqueCustomType returns "custom-<slug of label>", suffixed with -2, -3...
// until the type is free in r.
//
func (r *Registry) uniqueCustomType(label string) string {
	base := "custom-" + slug.Make(label, "custom-gate")
	typ := base
	for n := 2; ; n++ {
		if _, ok := r.defs[typ]; !ok {
			return typ
		}
		typ = base + "-" + strconv.Itoa(n)
	}
}

// RegisterCustom compiles and registers a custom gate. A unique type is
// generated from the label if cg.Type is empty. The registered definition
// simulates the gate as a black box.
//
func (r *Registry) RegisterCustom(cg CustomGate) (*Definition, error) {
	label := strings.TrimSpace(cg.Label)
	if cg.Type == "" {
		cg.Type = r.uniqueCustomType(label)
	}
	if label == "" {
		label = cg.Type
	}
	t, err := CompileTemplate(r, cg.Type, label, cg.Snapshot)
	if err != nil {
		return nil, err
	}
	t.VHDL = strings.TrimSpace(cg.VHDL)
	if len(cg.InputNames) == len(t.Interface.InputIDs) {
		t.Interface.InputNames = append([]string(nil), cg.InputNames...)
	}
	if len(cg.OutputNames) == len(t.Interface.OutputIDs) {
		t.Interface.OutputNames = append([]string(nil), cg.OutputNames...)
	}
	if cg.Abbreviation == "" {
		cg.Abbreviation = slug.Abbreviation(label)
	}
	if cg.Description == "" {
		from := "a JSON snapshot"
		if cg.FileName != "" {
			from = cg.FileName
		}
		cg.Description = "Custom gate imported from " + from + "."
	}
	cg.Label = label
	cg.InputNames = t.Interface.InputNames
	cg.OutputNames = t.Interface.OutputNames
	cg.Snapshot = nil
	t.custom = cg

	ins, outs := len(t.Interface.InputIDs), len(t.Interface.OutputIDs)
	d := &Definition{
		Type:         cg.Type,
		Kind:         KindCustom,
		Label:        label,
		Description:  cg.Description,
		Abbreviation: cg.Abbreviation,
		Inputs:       ins,
		Outputs:      outs,
		Ports:        autoPorts(ins, outs),
		VHDL:         t.VHDL,
		Template:     t,
		Mount:        t.mount,
	}
	if err = r.Register(d); err != nil {
		return nil, err
	}
	d, _ = r.Lookup(cg.Type)
	return d, nil
}

// Hydrate registers the custom gates embedded in snap that are not yet
// registered. Entries may depend on each other in any order. Entries that
// cannot be compiled are reported in a *multierror.Error; the others are
// registered regardless.
//
func (r *Registry) Hydrate(snap *Snapshot) error {
	var pending []CustomGate
	for _, cg := range snap.CustomGates {
		if _, ok := r.Lookup(cg.Type); !ok {
			pending = append(pending, cg)
		}
	}
	for len(pending) > 0 {
		var (
			left   []CustomGate
			result *multierror.Error
		)
		for _, cg := range pending {
			if _, err := r.RegisterCustom(cg); err != nil {
				left = append(left, cg)
				result = multierror.Append(result, err)
			}
		}
		if len(left) == len(pending) {
			return result.ErrorOrNil()
		}
		pending = left
	}
	return nil
}
