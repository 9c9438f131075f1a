// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gatesim_test

import (
	"math/bits"
	"strconv"
	"strings"
	"testing"
	"testing/quick"

	gs "github.com/db47h/gatesim"
	"github.com/db47h/gatesim/gatetest"
)

// single returns a snapshot where n inputs i0..i(n-1) drive gate g of type typ,
// and output o observes g.
func single(typ string, n int) *gs.Snapshot {
	gates := []string{"g:" + typ, "o:output"}
	wires := []string{"g>o"}
	for i := 0; i < n; i++ {
		id := "i" + strconv.Itoa(i)
		gates = append(gates, id+":input")
		wires = append(wires, id+">g."+strconv.Itoa(i))
	}
	return gatetest.Snap(strings.Join(gates, ","), strings.Join(wires, ","))
}

func inputIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = "i" + strconv.Itoa(i)
	}
	return ids
}

func Test_gate_builtin(t *testing.T) {
	td := []struct {
		typ    string
		n      int
		result []bool // indexed by input assignment, MSB first
	}{
		{"buffer", 1, []bool{false, true}},
		{"not", 1, []bool{true, false}},
		{"and", 2, []bool{false, false, false, true}},
		{"nand", 2, []bool{true, true, true, false}},
		{"or", 2, []bool{false, true, true, true}},
		{"nor", 2, []bool{true, false, false, false}},
		{"xor", 2, []bool{false, true, true, false}},
	}
	reg := gs.NewRegistry()
	for _, d := range td {
		t.Run(d.typ, func(t *testing.T) {
			m := gs.BuildModel(reg, single(d.typ, d.n))
			ids := inputIDs(d.n)
			for i, exp := range d.result {
				r := gs.Evaluate(m, gatetest.Assignment(ids, i))
				if !r.Stable {
					t.Fatalf("input %d: not stable after %d rounds", i, r.Rounds)
				}
				if got := r.Value("o"); got != exp {
					t.Errorf("%s(%0*b) = %v, expected %v", d.typ, d.n, i, got, exp)
				}
			}
		})
	}
}

func Test_gate_input(t *testing.T) {
	m := gs.BuildModel(gs.NewRegistry(), gatetest.Snap("hi:input=1, lo:input, a:output, b:output", "hi>a, lo>b"))
	r := gs.Evaluate(m, nil)
	if !r.Value("a") || r.Value("b") {
		t.Errorf("got a=%v b=%v", r.Value("a"), r.Value("b"))
	}
	r = gs.Evaluate(m, map[string]bool{"hi": false, "lo": true})
	if r.Value("a") || !r.Value("b") {
		t.Errorf("overrides: got a=%v b=%v", r.Value("a"), r.Value("b"))
	}
}

// primitives of any arity reduce their whole input vector.
func Test_gate_reduce(t *testing.T) {
	const n = 8
	reg := gs.NewRegistry()
	td := []struct {
		kind gs.Kind
		f    func(v uint8) bool
	}{
		{gs.KindAnd, func(v uint8) bool { return v == 0xff }},
		{gs.KindNand, func(v uint8) bool { return v != 0xff }},
		{gs.KindOr, func(v uint8) bool { return v != 0 }},
		{gs.KindNor, func(v uint8) bool { return v == 0 }},
		{gs.KindXor, func(v uint8) bool { return bits.OnesCount8(v)&1 != 0 }},
	}
	for _, d := range td {
		typ := d.kind.String() + "8"
		if err := reg.Register(&gs.Definition{Type: typ, Kind: d.kind, Inputs: n, Outputs: 1}); err != nil {
			t.Fatal(err)
		}
		m := gs.BuildModel(reg, single(typ, n))
		f := d.f
		t.Run(typ, func(t *testing.T) {
			if err := quick.Check(func(v uint8) bool {
				return gs.Evaluate(m, gatetest.Assignment(inputIDs(n), int(v))).Value("o") == f(v)
			}, nil); err != nil {
				t.Error(err)
			}
		})
	}
}

func Test_gate_noInputs(t *testing.T) {
	reg := gs.NewRegistry()
	for _, k := range []gs.Kind{gs.KindAnd, gs.KindNand, gs.KindOr, gs.KindXor} {
		if err := reg.Register(&gs.Definition{Type: k.String() + "0", Kind: k, Outputs: 1}); err != nil {
			t.Fatal(err)
		}
	}
	td := []struct {
		typ string
		exp bool
	}{
		{"and0", false},
		{"nand0", true},
		{"or0", false},
		{"xor0", false},
	}
	for _, d := range td {
		m := gs.BuildModel(reg, gatetest.Snap("g:"+d.typ+", o:output", "g>o"))
		if got := gs.Evaluate(m, nil).Value("o"); got != d.exp {
			t.Errorf("%s() = %v, expected %v", d.typ, got, d.exp)
		}
	}
}

func Test_gate_multiOutput(t *testing.T) {
	reg := gs.NewRegistry()
	if err := reg.Register(&gs.Definition{Type: "or2x2", Kind: gs.KindOr, Inputs: 2, Outputs: 2}); err != nil {
		t.Fatal(err)
	}
	m := gs.BuildModel(reg, gatetest.Snap("a:input=1, b:input, g:or2x2, o0:output, o1:output", "a>g.0, b>g.1, g.0>o0, g.1>o1"))
	r := gs.Evaluate(m, nil)
	if !r.Value("o0") || !r.Value("o1") {
		t.Errorf("got %v, %v", r.Value("o0"), r.Value("o1"))
	}
}
