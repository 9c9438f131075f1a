// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gatesim_test

import (
	"testing"

	gs "github.com/db47h/gatesim"
	"github.com/db47h/gatesim/gatetest"
	"github.com/google/go-cmp/cmp"
)

func TestRegistry_primitives(t *testing.T) {
	reg := gs.NewRegistry()
	want := []string{"input", "output", "buffer", "not", "and", "nand", "or", "nor", "xor"}
	if diff := cmp.Diff(want, reg.Types()); diff != "" {
		t.Fatalf("types mismatch (-want +got):\n%s", diff)
	}
	td := []struct {
		typ     string
		kind    gs.Kind
		in, out int
	}{
		{"input", gs.KindInput, 0, 1},
		{"output", gs.KindOutput, 1, 0},
		{"buffer", gs.KindBuffer, 1, 1},
		{"not", gs.KindNot, 1, 1},
		{"xor", gs.KindXor, 2, 1},
	}
	for _, d := range td {
		def, ok := reg.Lookup(d.typ)
		if !ok {
			t.Fatalf("%s not registered", d.typ)
		}
		if def.Kind != d.kind || def.Inputs != d.in || def.Outputs != d.out {
			t.Errorf("%s: got %v %d/%d, expected %v %d/%d", d.typ, def.Kind, def.Inputs, def.Outputs, d.kind, d.in, d.out)
		}
		if !def.Kind.Primitive() || def.Kind.String() != d.typ {
			t.Errorf("%s: bad kind %v", d.typ, def.Kind)
		}
		if len(def.Ports.Inputs) != d.in || len(def.Ports.Outputs) != d.out {
			t.Errorf("%s: port layout does not match arity", d.typ)
		}
	}
	if !gs.KindInput.Primitive() || gs.KindCustom.Primitive() || gs.KindFunc.Primitive() {
		t.Error("bad Primitive()")
	}
}

func TestRegistry_Register(t *testing.T) {
	td := []struct {
		name string
		def  *gs.Definition
		ok   bool
	}{
		{"nil", nil, false},
		{"empty type", &gs.Definition{Kind: gs.KindAnd, Inputs: 2, Outputs: 1}, false},
		{"negative arity", &gs.Definition{Type: "neg", Kind: gs.KindAnd, Inputs: -1, Outputs: 1}, false},
		{"no rule", &gs.Definition{Type: "norule", Kind: gs.KindFunc, Inputs: 1, Outputs: 1}, false},
		{"arity conflict", &gs.Definition{Type: "and", Kind: gs.KindAnd, Inputs: 3, Outputs: 1}, false},
		{"same arity", &gs.Definition{Type: "and", Kind: gs.KindAnd, Label: "And", Inputs: 2, Outputs: 1}, true},
		{"new primitive arity", &gs.Definition{Type: "and3", Kind: gs.KindAnd, Inputs: 3, Outputs: 1}, true},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			reg := gs.NewRegistry()
			err := reg.Register(d.def)
			if (err == nil) != d.ok {
				t.Fatalf("got error %v, expected success %v", err, d.ok)
			}
			if !d.ok {
				return
			}
			def, _ := reg.Lookup(d.def.Type)
			if def == d.def {
				t.Error("definition not copied")
			}
			if def.Label == "" {
				t.Error("empty label")
			}
		})
	}

	reg := gs.NewRegistry()
	if err := reg.Register(&gs.Definition{Type: "and", Kind: gs.KindAnd, Inputs: 2, Outputs: 1}); err != nil {
		t.Fatal(err)
	}
	if n := len(reg.Types()); n != 9 {
		t.Errorf("replacing a type changed the type count to %d", n)
	}
}

func TestRegistry_RegisterFunc(t *testing.T) {
	reg := gs.NewRegistry()
	if err := reg.RegisterFunc("nil", 1, 1, nil); err == nil {
		t.Error("nil rule accepted")
	}
	maj := func(_ bool, in, out []bool) {
		n := 0
		for _, b := range in {
			n += bit(b)
		}
		out[0] = n >= 2
	}
	if err := reg.RegisterFunc("maj", 3, 1, maj); err != nil {
		t.Fatal(err)
	}
	if d, _ := reg.Lookup("maj"); d.Kind != gs.KindFunc {
		t.Fatalf("got kind %v", d.Kind)
	}
	m := gs.BuildModel(reg, gatetest.Snap("a:input, b:input, c:input, g:maj, o:output", "a>g.0, b>g.1, c>g.2, g>o"))
	for i := 0; i < 8; i++ {
		ov := gatetest.Assignment([]string{"a", "b", "c"}, i)
		exp := bit(ov["a"])+bit(ov["b"])+bit(ov["c"]) >= 2
		if got := gs.Evaluate(m, ov).Value("o"); got != exp {
			t.Errorf("maj(%03b) = %v, expected %v", i, got, exp)
		}
	}
}

func TestRegistry_Clone(t *testing.T) {
	reg := gs.NewRegistry()
	c := reg.Clone()
	if err := c.RegisterFunc("one", 0, 1, func(_ bool, _, out []bool) { out[0] = true }); err != nil {
		t.Fatal(err)
	}
	if _, ok := reg.Lookup("one"); ok {
		t.Error("registering into a clone modified the original")
	}
	if _, ok := c.Lookup("xor"); !ok {
		t.Error("clone lost primitive definitions")
	}
	if len(c.Types()) != len(reg.Types())+1 {
		t.Errorf("got %d types in clone", len(c.Types()))
	}
}
