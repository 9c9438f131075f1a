// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package report aggregates diagnostics over a gatesim model: gate counts,
// layout bounds, fan-in and fan-out, floating pins and a truth table.
//
package report

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/db47h/gatesim"
	"github.com/pkg/errors"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Listing limits.
//
const (
	PositionLimit = 40
	FloatingLimit = 20
	FanLimit      = 5
)

// GateName formats g as `[type] "label" (id)`, omitting an empty label.
//
func GateName(g *gatesim.Gate) string {
	if g == nil {
		return "[unknown]"
	}
	typ := g.Type
	if typ == "" {
		typ = gatesim.TypeUnknown
	}
	s := "[" + typ + "]"
	if l := strings.TrimSpace(g.Label); l != "" {
		s += ` "` + l + `"`
	}
	return s + " (" + g.ID + ")"
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// A TypeCount is the number of gates of one type.
//
type TypeCount struct {
	Type  string
	Count int
}

// GateCounts returns the gate type histogram, most frequent first, then by type.
//
func GateCounts(m *gatesim.Model) []TypeCount {
	idx := make(map[string]int)
	var tc []TypeCount
	for i := range m.Gates {
		t := m.Gates[i].Type
		if t == "" {
			t = gatesim.TypeUnknown
		}
		if n, ok := idx[t]; ok {
			tc[n].Count++
			continue
		}
		idx[t] = len(tc)
		tc = append(tc, TypeCount{t, 1})
	}
	c := collate.New(language.Und)
	sort.SliceStable(tc, func(i, j int) bool {
		if tc[i].Count != tc[j].Count {
			return tc[i].Count > tc[j].Count
		}
		return c.CompareString(tc[i].Type, tc[j].Type) < 0
	})
	return tc
}

// Bounds is the bounding box of gate positions.
//
type Bounds struct {
	MinX, MaxX, MinY, MaxY float64
}

// BoundingBox returns the bounds of the gate positions of m. ok is false if m
// has no gates.
//
func BoundingBox(m *gatesim.Model) (b Bounds, ok bool) {
	for i := range m.Gates {
		g := &m.Gates[i]
		if i == 0 {
			b = Bounds{g.X, g.X, g.Y, g.Y}
			continue
		}
		if g.X < b.MinX {
			b.MinX = g.X
		}
		if g.X > b.MaxX {
			b.MaxX = g.X
		}
		if g.Y < b.MinY {
			b.MinY = g.Y
		}
		if g.Y > b.MaxY {
			b.MaxY = g.Y
		}
	}
	return b, len(m.Gates) > 0
}

// A Fan is the number of connections ending at (fan-in) or starting from
// (fan-out) a gate.
//
type Fan struct {
	Gate  *gatesim.Gate
	Total int
}

// ConnectionSummary aggregates fan-in and fan-out over all connections.
//
type ConnectionSummary struct {
	Total     int
	AvgFanIn  float64
	AvgFanOut float64
	TopFanIn  []Fan
	TopFanOut []Fan
}

func topFans(m *gatesim.Model, order []string, count map[string]int) []Fan {
	fs := make([]Fan, 0, len(order))
	for _, id := range order {
		g, _ := m.Gate(id)
		if g == nil {
			g = &gatesim.Gate{ID: id}
		}
		fs = append(fs, Fan{g, count[id]})
	}
	sort.SliceStable(fs, func(i, j int) bool { return fs[i].Total > fs[j].Total })
	if len(fs) > FanLimit {
		fs = fs[:FanLimit]
	}
	return fs
}

// Connections returns the connection summary of m. Averages are taken over the
// gates having at least one input (fan-in) or output (fan-out) port.
//
func Connections(m *gatesim.Model) ConnectionSummary {
	var (
		inOrder, outOrder []string
		in                = make(map[string]int)
		out               = make(map[string]int)
	)
	for _, c := range m.Connections {
		if out[c.From.GateID] == 0 {
			outOrder = append(outOrder, c.From.GateID)
		}
		out[c.From.GateID]++
		if in[c.To.GateID] == 0 {
			inOrder = append(inOrder, c.To.GateID)
		}
		in[c.To.GateID]++
	}
	withIn, withOut := 0, 0
	for i := range m.Gates {
		if d := m.Definition(m.Gates[i].ID); d != nil {
			if d.Inputs > 0 {
				withIn++
			}
			if d.Outputs > 0 {
				withOut++
			}
		}
	}
	s := ConnectionSummary{
		Total:     len(m.Connections),
		TopFanIn:  topFans(m, inOrder, in),
		TopFanOut: topFans(m, outOrder, out),
	}
	if withIn > 0 {
		s.AvgFanIn = float64(s.Total) / float64(withIn)
	}
	if withOut > 0 {
		s.AvgFanOut = float64(s.Total) / float64(withOut)
	}
	return s
}

// A Pin is an input port of a gate.
//
type Pin struct {
	Gate *gatesim.Gate
	Port int
}

// FloatingPins returns the undriven input ports of non-source gates and the
// non-sink gates whose outputs drive nothing.
//
func FloatingPins(m *gatesim.Model) (open []Pin, floating []*gatesim.Gate) {
	for i := range m.Gates {
		g := &m.Gates[i]
		d := m.Definition(g.ID)
		if d == nil {
			continue
		}
		if d.Inputs > 0 && !d.Source() {
			for p := 0; p < d.Inputs; p++ {
				if _, ok := m.Driver(g.ID, p); !ok {
					open = append(open, Pin{g, p})
				}
			}
		}
		if d.Outputs > 0 && !d.Sink() && len(m.Fanout(g.ID)) == 0 {
			floating = append(floating, g)
		}
	}
	return open, floating
}

// Build returns the text report of m.
//
func Build(m *gatesim.Model, o Options) string {
	var b bytes.Buffer
	_ = Write(&b, m, o)
	return b.String()
}

type writer struct {
	w   io.Writer
	err error
}

func (w *writer) println(a ...interface{}) {
	if w.err == nil {
		_, w.err = fmt.Fprintln(w.w, a...)
	}
}

func (w *writer) printf(format string, a ...interface{}) {
	if w.err == nil {
		_, w.err = fmt.Fprintf(w.w, format+"\n", a...)
	}
}

// Write writes the text report of m to w. Nothing is written if o.Enabled is
// false.
//
func Write(out io.Writer, m *gatesim.Model, o Options) error {
	if !o.Enabled {
		return nil
	}
	w := &writer{w: out}
	s := o.Sections
	w.println()
	w.println("=== Circuit Export Report ===")

	if s.Summary {
		w.printf("Total gates: %d", len(m.Gates))
		w.printf("Total connections: %d", len(m.Connections))
		w.printf("Inputs: %d | Outputs: %d", len(m.Sources()), len(m.Sinks()))
	}

	if s.GateCounts {
		if tc := GateCounts(m); len(tc) == 0 {
			w.println("Gate counts: n/a (no gates present)")
		} else {
			w.println("Gate counts:")
			for _, c := range tc {
				w.printf("  - %s: %d", c.Type, c.Count)
			}
		}
	}

	if s.GatePositions {
		if len(m.Gates) == 0 {
			w.println("Gate positions: n/a (no gates present)")
		} else {
			w.println("Gate positions:")
			for i := range m.Gates {
				if i == PositionLimit {
					w.printf("  ... %d additional gates not shown", len(m.Gates)-PositionLimit)
					break
				}
				g := &m.Gates[i]
				w.printf("  - %s @ (%s, %s)", GateName(g), num(g.X), num(g.Y))
			}
		}
	}

	if s.SpatialMetrics {
		if bb, ok := BoundingBox(m); !ok {
			w.println("Spatial metrics: n/a (no gates present)")
		} else {
			w.println("Spatial metrics:")
			w.printf("  - Bounds X: %s → %s (width %s)", num(bb.MinX), num(bb.MaxX), num(bb.MaxX-bb.MinX))
			w.printf("  - Bounds Y: %s → %s (height %s)", num(bb.MinY), num(bb.MaxY), num(bb.MaxY-bb.MinY))
		}
	}

	if s.ConnectionSummary {
		cs := Connections(m)
		w.println("Connection summary:")
		w.printf("  - Total: %d", cs.Total)
		w.printf("  - Avg fan-in: %.2f", cs.AvgFanIn)
		w.printf("  - Avg fan-out: %.2f", cs.AvgFanOut)
		if len(cs.TopFanIn) > 0 {
			w.println("  - Highest fan-in:")
			for _, f := range cs.TopFanIn {
				w.printf("      • %s → %d inputs", GateName(f.Gate), f.Total)
			}
		}
		if len(cs.TopFanOut) > 0 {
			w.println("  - Highest fan-out:")
			for _, f := range cs.TopFanOut {
				w.printf("      • %s → %d outputs", GateName(f.Gate), f.Total)
			}
		}
	}

	if s.FloatingPins {
		writeFloating(w, m)
	}

	if s.TruthTable {
		writeTable(w, TruthTable(m, o.Truth))
	}

	w.println("=== End of Circuit Report ===")
	w.println()
	return errors.Wrap(w.err, "write report")
}

func writeFloating(w *writer, m *gatesim.Model) {
	open, floating := FloatingPins(m)
	if len(open) == 0 && len(floating) == 0 {
		w.println("Connectivity check: all gate inputs and outputs are connected.")
		return
	}
	w.println("Connectivity diagnostics:")
	if len(open) > 0 {
		w.println("  Unconnected gate inputs:")
		for i, p := range open {
			if i == FloatingLimit {
				w.printf("      ... %d additional open inputs", len(open)-FloatingLimit)
				break
			}
			w.printf("      • %s input %d", GateName(p.Gate), p.Port)
		}
	} else {
		w.println("  Unconnected gate inputs: none")
	}
	if len(floating) > 0 {
		w.println("  Gate outputs with no destinations:")
		for i, g := range floating {
			if i == FloatingLimit {
				w.printf("      ... %d additional floating outputs", len(floating)-FloatingLimit)
				break
			}
			w.printf("      • %s", GateName(g))
		}
	} else {
		w.println("  Gate outputs with no destinations: none")
	}
}

func bits(bs []bool, sep string) string {
	if len(bs) == 0 {
		return "-"
	}
	s := make([]string, len(bs))
	for i, b := range bs {
		s[i] = "0"
		if b {
			s[i] = "1"
		}
	}
	return strings.Join(s, sep)
}

func names(gs []*gatesim.Gate, empty string) string {
	if len(gs) == 0 {
		return empty
	}
	s := make([]string, len(gs))
	for i, g := range gs {
		s[i] = g.Label
		if s[i] == "" {
			s[i] = g.ID
		}
	}
	return strings.Join(s, " ")
}

func writeTable(w *writer, t *Table) {
	switch {
	case t.Skipped:
		w.printf("Truth table: skipped (%s)", t.Reason)
		return
	case len(t.Rows) == 0:
		w.println("Truth table: no rows to display")
		return
	}
	trunc := ""
	if t.Truncated {
		trunc = ", truncated"
	}
	w.printf("Truth table (%d/%d rows%s):", len(t.Rows), t.TotalRows, trunc)
	w.printf("  %s || %s", names(t.Inputs, "(no inputs)"), names(t.Outputs, "(no outputs)"))
	for _, r := range t.Rows {
		w.printf("  %s || %s", bits(r.Inputs, "   "), bits(r.Outputs, "   "))
	}
	if t.Truncated {
		w.printf("  ... %d additional rows not shown", t.TotalRows-len(t.Rows))
	}
}
