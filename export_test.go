// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gatesim_test

import (
	"bytes"
	"strings"
	"testing"

	gs "github.com/db47h/gatesim"
	"github.com/db47h/gatesim/gatetest"
	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/go-hclog"
)

func TestClearInputs(t *testing.T) {
	reg := gs.NewRegistry()
	s := gatetest.Snap("a:input=1, b:input=1, n:not=1, o:output", "a>n, n>o")
	z := gs.ClearInputs(s, reg)
	for i, exp := range []int{0, 0, 1, 0} {
		if z.Gates[i].State != exp {
			t.Errorf("gate %s: got state %d, expected %d", z.Gates[i].ID, z.Gates[i].State, exp)
		}
	}
	if s.Gates[0].State != 1 {
		t.Error("input snapshot modified")
	}
}

func TestRecenter(t *testing.T) {
	td := []struct {
		name   string
		src    string
		x, y   float64
		origin string
	}{
		{"top-left", `{"origin": "Top-Left", "gates": [{"id": "a", "type": "input", "x": 1000, "y": 250}]}`, 0, -750, "center"},
		{"center", `{"origin": "center", "gates": [{"id": "a", "type": "input", "x": 1000, "y": 250}]}`, 1000, 250, "center"},
		{"undeclared", `{"version": 1, "gates": [{"id": "a", "type": "input", "x": 1000, "y": 250}]}`, 1000, 250, "center"},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			s, err := gs.ParseSnapshot([]byte(d.src))
			if err != nil {
				t.Fatal(err)
			}
			// parsing keeps coordinates as stored
			if g := s.Gates[0]; g.X != 1000 || g.Y != 250 {
				t.Fatalf("parsed gate at (%v, %v)", g.X, g.Y)
			}
			r := gs.Recenter(s, 1000)
			if g := r.Gates[0]; g.X != d.x || g.Y != d.y || r.Origin != d.origin {
				t.Errorf("got (%v, %v) origin %q, expected (%v, %v) origin %q", g.X, g.Y, r.Origin, d.x, d.y, d.origin)
			}
			if s.Gates[0].X != 1000 {
				t.Error("input snapshot modified")
			}
		})
	}
}

func TestPrune(t *testing.T) {
	reg := gs.NewRegistry()
	s := gatetest.Snap("a:input, b:input, g:not, h:not, k:and, o:output",
		"a>g, g>o, b>h, h>k.0, a>k.1")
	p := gs.Prune(s, reg)
	want := gatetest.Snap("a:input, g:not, o:output", "a>g, g>o")
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("pruned snapshot mismatch (-want +got):\n%s", diff)
	}
	if len(s.Gates) != 6 {
		t.Error("input snapshot modified")
	}

	// without sinks, nothing is pruned
	s = gatetest.Snap("a:input, g:not", "a>g")
	if diff := cmp.Diff(s, gs.Prune(s, reg)); diff != "" {
		t.Errorf("snapshot without sinks mismatch (-want +got):\n%s", diff)
	}
}

func TestPrepareExport(t *testing.T) {
	reg := gs.NewRegistry()
	d := mustRegister(t, reg, gs.CustomGate{Label: "My NAND", Snapshot: andNot()})
	s := gatetest.Snap("a:input=1, b:input=1, x:"+d.Type+", out:output, lone:input=1, n:not", "a>x.0, b>x.1, x>out, lone>n")

	var buf bytes.Buffer
	log := hclog.New(&hclog.LoggerOptions{Output: &buf, Level: hclog.Debug})
	p, err := gs.PrepareExport(s, reg, gs.ZeroInputs(), gs.PruneDisconnected(), gs.WithLogger(log))
	if err != nil {
		trace(t, err)
		t.Fatal(err)
	}
	var types []string
	for _, g := range p.Gates {
		types = append(types, g.ID+":"+g.Type)
		if g.State != 0 {
			t.Errorf("gate %s: state not cleared", g.ID)
		}
	}
	if diff := cmp.Diff([]string{"a:input", "b:input", "cxg0:and", "cxg1:not", "out:output"}, types); diff != "" {
		t.Errorf("gates mismatch (-want +got):\n%s", diff)
	}
	if s.Gates[0].State != 1 || s.Gates[2].Type != d.Type {
		t.Error("input snapshot modified")
	}
	if !strings.Contains(buf.String(), "pruned disconnected gates") {
		t.Errorf("missing log entry in %q", buf.String())
	}

	// defaults: no zeroing, no pruning
	p, err = gs.PrepareExport(s, reg)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Gates) != 7 || p.Gates[0].State != 1 {
		t.Errorf("got %d gates, a=%d", len(p.Gates), p.Gates[0].State)
	}

	_, err = gs.PrepareExport(gatetest.Snap("z:mystery", ""), reg)
	if !gs.IsCode(err, gs.UnknownGateKind) || !strings.HasPrefix(err.Error(), "flatten: ") {
		t.Errorf("got error %v", err)
	}
}
