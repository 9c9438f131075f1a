// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gatesim_test

import (
	"strings"
	"testing"

	gs "github.com/db47h/gatesim"
	"github.com/db47h/gatesim/gatetest"
	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

func TestDiscoverInterface(t *testing.T) {
	reg := gs.NewRegistry()
	iface, err := gs.DiscoverInterface(gs.BuildModel(reg, halfAdder()))
	if err != nil {
		t.Fatal(err)
	}
	want := &gs.Interface{
		InputIDs:    []string{"a", "b"},
		OutputIDs:   []string{"s", "c"},
		InputNames:  []string{"A", "B"},
		OutputNames: []string{"S", "C"},
	}
	if diff := cmp.Diff(want, iface); diff != "" {
		t.Errorf("interface mismatch (-want +got):\n%s", diff)
	}
	if iface.InputIndex("b") != 1 || iface.OutputIndex("s") != 0 || iface.InputIndex("x") != -1 {
		t.Error("bad port index")
	}

	iface, err = gs.DiscoverInterface(gs.BuildModel(reg, andNot()))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"In 1", "In 2"}, iface.InputNames); diff != "" {
		t.Errorf("default input names mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Out 1"}, iface.OutputNames); diff != "" {
		t.Errorf("default output names mismatch (-want +got):\n%s", diff)
	}

	for _, s := range []*gs.Snapshot{
		gatetest.Snap("a:input, n:not", "a>n"),
		gatetest.Snap("n:not, o:output", "n>o"),
		gatetest.Snap("", ""),
	} {
		if _, err = gs.DiscoverInterface(gs.BuildModel(reg, s)); !gs.IsCode(err, gs.InvalidCustomGateInterface) {
			t.Errorf("got error %v, expected InvalidCustomGateInterface", err)
		}
	}
}

func TestRegisterCustom(t *testing.T) {
	reg := gs.NewRegistry()
	d := mustRegister(t, reg, gs.CustomGate{Label: " Half Adder ", Snapshot: halfAdder()})
	if d.Type != "custom-half-adder" || d.Kind != gs.KindCustom || d.Label != "Half Adder" {
		t.Errorf("got type %q, kind %v, label %q", d.Type, d.Kind, d.Label)
	}
	if d.Inputs != 2 || d.Outputs != 2 || len(d.Ports.Inputs) != 2 || len(d.Ports.Outputs) != 2 {
		t.Errorf("got arity %d/%d", d.Inputs, d.Outputs)
	}
	if d.Abbreviation != "HA" {
		t.Errorf("got abbreviation %q", d.Abbreviation)
	}
	if d.Description != "Custom gate imported from a JSON snapshot." {
		t.Errorf("got description %q", d.Description)
	}

	d2 := mustRegister(t, reg, gs.CustomGate{
		Label:       "half adder",
		FileName:    "ha.json",
		InputNames:  []string{"x", "y"},
		OutputNames: []string{"too", "many", "names"},
		Snapshot:    halfAdder(),
	})
	if d2.Type != "custom-half-adder-2" {
		t.Errorf("got type %q", d2.Type)
	}
	if d2.Description != "Custom gate imported from ha.json." {
		t.Errorf("got description %q", d2.Description)
	}
	iface := d2.Template.Interface
	if diff := cmp.Diff([]string{"x", "y"}, iface.InputNames); diff != "" {
		t.Errorf("input names mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"S", "C"}, iface.OutputNames); diff != "" {
		t.Errorf("output names mismatch (-want +got):\n%s", diff)
	}

	cg := d2.Template.CustomGate()
	if cg.Type != d2.Type || cg.Source != gs.SourceEmbedded || cg.Snapshot == nil || len(cg.Snapshot.Gates) != 6 {
		t.Errorf("bad persisted form %+v", cg)
	}

	if _, err := reg.RegisterCustom(gs.CustomGate{Label: "nothing"}); !gs.IsCode(err, gs.InvalidCustomGateInterface) {
		t.Errorf("got error %v, expected InvalidCustomGateInterface", err)
	}
	_, err := reg.RegisterCustom(gs.CustomGate{Type: "custom-bad", Label: "Bad", Snapshot: gatetest.Snap("a:input, z:mystery, o:output", "a>z, z>o")})
	if !gs.IsCode(err, gs.UnknownGateKind) || !strings.Contains(err.Error(), `"Bad"`) {
		t.Errorf("got error %v, expected UnknownGateKind", err)
	}
	_, err = reg.RegisterCustom(gs.CustomGate{Type: "custom-out", Snapshot: gatetest.Snap("o:output", "")})
	if ge, ok := errors.Cause(err).(*gs.Error); !ok || ge.Code != gs.InvalidCustomGateInterface || ge.Type != "custom-out" {
		t.Errorf("got error %v, expected InvalidCustomGateInterface for custom-out", err)
	}
}

// a custom gate evaluates like the netlist it was compiled from.
func TestCustom_evaluate(t *testing.T) {
	reg := gs.NewRegistry()
	ha := mustRegister(t, reg, gs.CustomGate{Label: "Half Adder", Snapshot: halfAdder()})
	s := gatetest.Snap("a:input, b:input, h:"+ha.Type+", s:output, c:output", "a>h.0, b>h.1, h.0>s, h.1>c")
	gatetest.CompareModels(t, gs.BuildModel(reg, halfAdder()), gs.BuildModel(reg, s))

	// full adder from two half adders
	fa := gatetest.Snap("a:input, b:input, ci:input, h1:"+ha.Type+", h2:"+ha.Type+", or:or, s:output, co:output",
		"a>h1.0, b>h1.1, h1.0>h2.0, ci>h2.1, h2.0>s, h1.1>or.0, h2.1>or.1, or>co")
	m := gs.BuildModel(reg, fa)
	for i := 0; i < 8; i++ {
		ov := gatetest.Assignment([]string{"a", "b", "ci"}, i)
		sum := bit(ov["a"]) + bit(ov["b"]) + bit(ov["ci"])
		r := gs.Evaluate(m, ov)
		if !r.Stable {
			t.Fatalf("%03b: not stable", i)
		}
		if got := bit(r.Value("s")) + 2*bit(r.Value("co")); got != sum {
			t.Errorf("%03b: got %d, expected %d", i, got, sum)
		}
	}
}

func TestHydrate(t *testing.T) {
	reg := gs.NewRegistry()
	outer := gatetest.Snap("i:input, x:custom-inner, o:output", "i>x, x>o")
	s := gatetest.Snap("a:input=1, g:custom-outer, o:output", "a>g, g>o")
	s.CustomGates = []gs.CustomGate{
		{Type: "custom-outer", Label: "Outer", Snapshot: outer},
		{Type: "custom-broken", Label: "Broken", Snapshot: gatetest.Snap("n:not", "")},
		{Type: "custom-inner", Label: "Inner", Snapshot: gatetest.Snap("i:input, n:not, o:output", "i>n, n>o")},
	}
	err := reg.Hydrate(s)
	if err == nil {
		t.Fatal("broken custom gate accepted")
	}
	if me, ok := err.(*multierror.Error); !ok || len(me.Errors) != 1 || !gs.IsCode(me.Errors[0], gs.InvalidCustomGateInterface) {
		t.Errorf("got error %v", err)
	}
	for _, typ := range []string{"custom-outer", "custom-inner"} {
		if _, ok := reg.Lookup(typ); !ok {
			t.Errorf("%s not registered", typ)
		}
	}
	// nested custom gates simulate without a depth limit
	if r := gs.Evaluate(gs.BuildModel(reg, s), nil); !r.Stable || r.Value("o") {
		t.Errorf("got o=%v (stable: %v), expected false", r.Value("o"), r.Stable)
	}

	// registered types are skipped
	s.CustomGates = s.CustomGates[:1]
	if err = reg.Hydrate(s); err != nil {
		t.Errorf("got error %v", err)
	}
}
