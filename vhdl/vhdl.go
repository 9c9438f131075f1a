// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package vhdl compiles flattened gatesim netlists to VHDL.
//
// The generated program declares one entity whose ports are the sink gates of
// the netlist and one behavioral architecture holding one signal per gate
// output and one concurrent assignment per gate:
//
//	-- Logic Circuit Lab export
//
//	library IEEE;
//	use IEEE.STD_LOGIC_1164.ALL;
//
//	entity logic_circuit_lab is
//	  port (
//	    output_g3 : out STD_LOGIC
//	  );
//	end entity logic_circuit_lab;
//
//	architecture behavioral of logic_circuit_lab is
//	  signal a : STD_LOGIC;
//	  signal not_g2_0 : STD_LOGIC;
//	begin
//	  a <= '1'; -- Input a
//	  not_g2_0 <= not (a); -- NOT
//	  output_g3 <= not_g2_0; -- Output
//	end architecture behavioral;
//
// Custom gates must either be flattened first (see gatesim.Flatten) or carry a
// VHDL template (see Expand).
//
package vhdl

import (
	"strings"

	"github.com/db47h/gatesim"
	"github.com/db47h/gatesim/internal/slug"
)

// DefaultEntity is the default entity name.
//
const DefaultEntity = "logic_circuit_lab"

// Header is the comment line starting every generated program.
//
const Header = "-- Logic Circuit Lab export"

type options struct {
	entity string
}

// An Option configures Compile.
//
type Option func(*options)

// WithEntityName sets the entity name. It is sanitized like signal names; an
// empty result selects DefaultEntity.
//
func WithEntityName(name string) Option {
	return func(o *options) {
		o.entity = slug.Identifier(name, DefaultEntity)
	}
}

// gateDef is what the compiler needs to know about a gate type.
//
type gateDef struct {
	kind    gatesim.Kind
	label   string
	inputs  int
	outputs int
	vhdl    string
}

type compiler struct {
	snap    *gatesim.Snapshot
	reg     *gatesim.Registry
	gates   map[string]*gatesim.Gate
	defs    map[string]*gateDef
	custom  map[string]*gatesim.CustomGate
	drivers map[gatesim.Endpoint]gatesim.Endpoint
	names   *namer

	signals  []string
	declared map[string]bool
	assigns  []string
	outputs  []string
	ports    []string
}

// lookup resolves the definition of type typ from the registry, then from the
// custom gates embedded in the snapshot.
//
func (c *compiler) lookup(typ string) *gateDef {
	if d, ok := c.defs[typ]; ok {
		return d
	}
	var gd *gateDef
	if d, ok := c.reg.Lookup(typ); ok {
		gd = &gateDef{kind: d.Kind, label: d.Label, inputs: d.Inputs, outputs: d.Outputs, vhdl: d.VHDL}
		if gd.vhdl == "" && d.Kind == gatesim.KindCustom {
			if cg := c.custom[typ]; cg != nil {
				gd.vhdl = cg.VHDL
			}
		}
	} else if cg := c.custom[typ]; cg != nil {
		label := cg.Label
		if label == "" {
			label = typ
		}
		gd = &gateDef{kind: gatesim.KindCustom, label: label, inputs: len(cg.InputNames), outputs: len(cg.OutputNames), vhdl: cg.VHDL}
	}
	c.defs[typ] = gd
	return gd
}

// Compile returns the VHDL program of snap. Gate types are resolved in reg,
// then in snap.CustomGates. Compile fails with gatesim.UnknownGateKind if a gate
// type cannot be resolved and with gatesim.CustomGateMissingTemplate if a
// non-primitive gate has no VHDL template.
//
func Compile(snap *gatesim.Snapshot, reg *gatesim.Registry, opts ...Option) (string, error) {
	o := options{entity: DefaultEntity}
	for _, f := range opts {
		f(&o)
	}
	c := &compiler{
		snap:     snap,
		reg:      reg,
		gates:    make(map[string]*gatesim.Gate, len(snap.Gates)),
		defs:     make(map[string]*gateDef),
		custom:   make(map[string]*gatesim.CustomGate),
		drivers:  make(map[gatesim.Endpoint]gatesim.Endpoint),
		names:    newNamer(),
		declared: make(map[string]bool),
	}
	for i := range snap.CustomGates {
		cg := &snap.CustomGates[i]
		c.custom[cg.Type] = cg
	}
	var order []*gatesim.Gate
	for i := range snap.Gates {
		g := &snap.Gates[i]
		if _, dup := c.gates[g.ID]; dup || g.ID == "" {
			continue
		}
		c.gates[g.ID] = g
		order = append(order, g)
	}
	for _, cn := range snap.Connections {
		if cn.To.GateID != "" {
			c.drivers[cn.To] = cn.From
		}
	}
	for _, g := range order {
		if err := c.gate(g); err != nil {
			return "", err
		}
	}
	return c.program(o.entity), nil
}

func (c *compiler) declare(sig string) {
	if !c.declared[sig] {
		c.declared[sig] = true
		c.signals = append(c.signals, "signal "+sig+" : STD_LOGIC;")
	}
}

func comment(d *gateDef, g *gatesim.Gate) string {
	if g.Label != "" {
		return " -- " + d.label + " " + g.Label
	}
	return " -- " + d.label
}

// resolve returns the operand driving input port p of gate id: a signal name,
// or '0' when the port is undriven. An input driven by a sink resolves through
// that sink.
//
func (c *compiler) resolve(id string, p int) string {
	seen := make(map[string]bool)
	for {
		from, ok := c.drivers[gatesim.Endpoint{GateID: id, Port: p}]
		if !ok {
			return zero
		}
		g := c.gates[from.GateID]
		if g == nil {
			return zero
		}
		d := c.lookup(g.Type)
		if d == nil {
			return zero
		}
		if d.kind == gatesim.KindOutput {
			if seen[g.ID] {
				return zero
			}
			seen[g.ID] = true
			id, p = g.ID, 0
			continue
		}
		if from.Port < 0 || from.Port >= d.outputs {
			return zero
		}
		return c.names.signal(g, d.label, from.Port)
	}
}

func (c *compiler) gate(g *gatesim.Gate) error {
	d := c.lookup(g.Type)
	if d == nil {
		return gatesim.NewError(gatesim.UnknownGateKind, g.ID, g.Type, "not registered")
	}

	if d.kind != gatesim.KindOutput {
		for i := 0; i < d.outputs; i++ {
			c.declare(c.names.signal(g, d.label, i))
		}
	}

	switch d.kind {
	case gatesim.KindInput:
		bit := "'0'"
		if g.High() {
			bit = "'1'"
		}
		c.assigns = append(c.assigns, c.names.signal(g, d.label, 0)+" <= "+bit+";"+comment(d, g))
		return nil
	case gatesim.KindOutput:
		in := c.resolve(g.ID, 0)
		port := c.names.port(g, d.label)
		c.ports = append(c.ports, port+" : out STD_LOGIC")
		c.outputs = append(c.outputs, port+" <= "+in+";"+comment(d, g))
		return nil
	}

	ins := make([]string, d.inputs)
	for i := range ins {
		ins[i] = c.resolve(g.ID, i)
	}
	if len(ins) == 0 {
		ins = []string{zero}
	}
	outs := make([]string, d.outputs)
	for i := range outs {
		outs[i] = c.names.signal(g, d.label, i)
	}

	if !d.kind.Primitive() {
		if strings.TrimSpace(d.vhdl) == "" {
			return gatesim.NewError(gatesim.CustomGateMissingTemplate, g.ID, g.Type, "flatten the circuit before exporting")
		}
		snippet := Expand(d.vhdl, &TemplateContext{Inputs: ins, Outputs: outs, GateID: g.ID, Label: g.Label, Type: d.label})
		c.assigns = append(c.assigns, lines(snippet)...)
		return nil
	}

	var target string
	if len(outs) > 0 {
		target = outs[0]
	} else {
		target = c.names.signal(g, d.label, 0)
	}
	var expr string
	switch d.kind {
	case gatesim.KindNot:
		expr = "not (" + ins[0] + ")"
	case gatesim.KindAnd:
		expr = reduce(ins, "and")
	case gatesim.KindNand:
		expr = "not (" + reduce(ins, "and") + ")"
	case gatesim.KindOr:
		expr = reduce(ins, "or")
	case gatesim.KindNor:
		expr = "not (" + reduce(ins, "or") + ")"
	case gatesim.KindXor:
		expr = reduce(ins, "xor")
	default:
		expr = ins[0]
	}
	c.assigns = append(c.assigns, target+" <= "+expr+";"+comment(d, g))
	return nil
}

// reduce joins operands with op. A single operand is returned as is.
//
func reduce(ins []string, op string) string {
	switch len(ins) {
	case 0:
		return zero
	case 1:
		return ins[0]
	}
	var b strings.Builder
	for i, in := range ins {
		if i > 0 {
			b.WriteString(" " + op + " ")
		}
		b.WriteString("(" + in + ")")
	}
	return b.String()
}

func (c *compiler) program(entity string) string {
	var b strings.Builder
	w := func(ls ...string) {
		for _, l := range ls {
			b.WriteString(l)
			b.WriteByte('\n')
		}
	}
	w(Header, "", "library IEEE;", "use IEEE.STD_LOGIC_1164.ALL;", "")
	w("entity " + entity + " is")
	if len(c.ports) > 0 {
		w("  port (", "    "+strings.Join(c.ports, ",\n    "), "  );")
	}
	w("end entity "+entity+";", "")
	w("architecture behavioral of " + entity + " is")
	for _, s := range c.signals {
		w("  " + s)
	}
	w("begin")
	for _, a := range c.assigns {
		w("  " + a)
	}
	for _, a := range c.outputs {
		w("  " + a)
	}
	w("end architecture behavioral;")
	return b.String()
}
