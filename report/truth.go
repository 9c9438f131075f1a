// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package report

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/db47h/gatesim"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Default truth table limits.
//
const (
	DefaultMaxInputs = 6
	DefaultMaxRows   = 64
)

// Limits bounds the size of a truth table. Non-positive values select the
// defaults.
//
type Limits struct {
	MaxInputs int
	MaxRows   int
}

func (l Limits) normalize() Limits {
	if l.MaxInputs <= 0 {
		l.MaxInputs = DefaultMaxInputs
	}
	if l.MaxRows <= 0 {
		l.MaxRows = DefaultMaxRows
	}
	return l
}

// A Row is one input assignment and the resulting sink values.
//
type Row struct {
	Index   int
	Inputs  []bool
	Outputs []bool
}

// Table is a truth table. If Skipped is set, Reason tells why and the other
// fields are empty.
//
type Table struct {
	Skipped   bool
	Reason    string
	Inputs    []*gatesim.Gate
	Outputs   []*gatesim.Gate
	Rows      []Row
	TotalRows int
	Truncated bool
}

// sortGates orders gates by lower-cased label, then by id ignoring case and
// accents. Strings are compared with the root locale collation.
//
func sortGates(gs []*gatesim.Gate) {
	// a Collator is not safe for concurrent use
	label, id := collate.New(language.Und), collate.New(language.Und, collate.Loose)
	sort.SliceStable(gs, func(i, j int) bool {
		li, lj := strings.ToLower(gs[i].Label), strings.ToLower(gs[j].Label)
		if li != lj {
			return label.CompareString(li, lj) < 0
		}
		return id.CompareString(gs[i].ID, gs[j].ID) < 0
	})
}

// TruthTable enumerates the input assignments of m. Source gates are the
// table inputs and sink gates its outputs. Row i assigns the binary expansion
// of i to the inputs, most significant bit first. The table is skipped if m has
// no sink or more than l.MaxInputs sources, and holds at most l.MaxRows rows.
//
func TruthTable(m *gatesim.Model, l Limits, opts ...gatesim.Option) *Table {
	l = l.normalize()
	ins, outs := m.Sources(), m.Sinks()
	sortGates(ins)
	sortGates(outs)
	if len(outs) == 0 {
		return &Table{Skipped: true, Reason: "No output gates defined"}
	}
	n := len(ins)
	if n > l.MaxInputs {
		return &Table{Skipped: true, Reason: "Input count (" + strconv.Itoa(n) + ") exceeds configured limit (" + strconv.Itoa(l.MaxInputs) + ")"}
	}
	total := math.MaxInt
	if n < strconv.IntSize-1 {
		total = 1 << uint(n)
	}
	rows := total
	if l.MaxRows < rows {
		rows = l.MaxRows
	}
	t := &Table{
		Inputs:    ins,
		Outputs:   outs,
		Rows:      make([]Row, 0, rows),
		TotalRows: total,
		Truncated: rows < total,
	}
	ov := make(map[string]bool, n)
	for r := 0; r < rows; r++ {
		row := Row{Index: r, Inputs: make([]bool, n), Outputs: make([]bool, len(outs))}
		for i, g := range ins {
			b := r>>uint(n-i-1)&1 != 0
			ov[g.ID] = b
			row.Inputs[i] = b
		}
		res := gatesim.Evaluate(m, ov, opts...)
		for i, g := range outs {
			row.Outputs[i] = res.Value(g.ID)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
