// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gatesim

import (
	"sync"

	"github.com/hashicorp/go-hclog"
)

// Circuit is a runnable simulation of a Model.
//
// Output bits are double-buffered: during a round every gate reads the
// previous round's frame (s0) and writes the next one (s1), so the result of a
// round does not depend on gate order. A Circuit keeps its frames between calls
// to Settle and is not safe for concurrent use.
//
type Circuit struct {
	m     *Model
	rules []Rule
	state []bool

	inOff  []int // per gate, offset in in and drv
	outOff []int // per gate, offset in s0 and s1
	drv    []int // per input bit, index of the driving bit in the frame or -1
	in     []bool
	s0     []bool
	s1     []bool
	chunks [][2]int

	maxRounds int
	log       hclog.Logger
}

// NewCircuit returns a circuit for m with every output bit low.
//
func NewCircuit(m *Model, opts ...Option) *Circuit {
	o := newOptions(opts)
	n := len(m.Gates)
	c := &Circuit{
		m:         m,
		rules:     make([]Rule, n),
		state:     make([]bool, n),
		inOff:     make([]int, n+1),
		outOff:    make([]int, n+1),
		maxRounds: o.maxRounds,
		log:       o.log,
	}
	for i, d := range m.defs {
		ins, outs := 0, 0
		if d != nil {
			c.rules[i] = d.NewRule()
			ins, outs = d.Inputs, d.Outputs
		}
		c.state[i] = m.Gates[i].High()
		c.inOff[i+1] = c.inOff[i] + ins
		c.outOff[i+1] = c.outOff[i] + outs
	}
	c.in = make([]bool, c.inOff[n])
	c.s0 = make([]bool, c.outOff[n])
	c.s1 = make([]bool, c.outOff[n])
	c.drv = make([]int, c.inOff[n])
	for i := range m.Gates {
		id := m.Gates[i].ID
		for p := 0; p < c.inOff[i+1]-c.inOff[i]; p++ {
			c.drv[c.inOff[i]+p] = c.driverBit(id, p)
		}
	}

	l := n / o.workers
	if l*o.workers < n {
		l++
	}
	for s := 0; s < n; s += l {
		c.chunks = append(c.chunks, [2]int{s, min(s+l, n)})
	}
	return c
}

// driverBit returns the frame index of the output driving input port p of
// gate id, or -1 if the port is undriven or the driver's port is out of range.
//
func (c *Circuit) driverBit(id string, p int) int {
	from, ok := c.m.Driver(id, p)
	if !ok {
		return -1
	}
	j, ok := c.m.index[from.GateID]
	if !ok || from.Port < 0 || from.Port >= c.outOff[j+1]-c.outOff[j] {
		return -1
	}
	return c.outOff[j] + from.Port
}

// Model returns the model simulated by c.
//
func (c *Circuit) Model() *Model { return c.m }

// Set sets the stored bit of the source gate id. It reports whether id names a
// source gate.
//
func (c *Circuit) Set(id string, b bool) bool {
	i, ok := c.m.index[id]
	if !ok || c.m.defs[i] == nil || !c.m.defs[i].Source() {
		return false
	}
	c.state[i] = b
	return true
}

// Settle relaxes the circuit until no output bit changes in a full round, or
// the round cap is reached. overrides forces the bit of source gates for this
// call; entries naming other gates are ignored. It returns the number of rounds
// run and whether a steady state was reached. Non-convergence is not an
// error: the last computed bits are kept.
//
func (c *Circuit) Settle(overrides map[string]bool) (rounds int, stable bool) {
	state := c.state
	if len(overrides) > 0 {
		state = append([]bool(nil), c.state...)
		for _, i := range c.m.sources {
			if b, ok := overrides[c.m.Gates[i].ID]; ok {
				state[i] = b
			}
		}
	}
	for rounds = 1; rounds <= c.maxRounds; rounds++ {
		c.step(state)
		changed := !equalBits(c.s0, c.s1)
		c.s0, c.s1 = c.s1, c.s0
		if !changed {
			return rounds, true
		}
	}
	c.log.Debug("circuit did not settle", "rounds", c.maxRounds, "gates", len(c.m.Gates))
	return c.maxRounds, false
}

// step runs one relaxation round: read s0, write s1.
//
func (c *Circuit) step(state []bool) {
	if len(c.chunks) <= 1 {
		c.update(state, 0, len(c.rules))
		return
	}
	var wg sync.WaitGroup
	for _, ch := range c.chunks {
		wg.Add(1)
		go func(lo, hi int) {
			c.update(state, lo, hi)
			wg.Done()
		}(ch[0], ch[1])
	}
	wg.Wait()
}

func (c *Circuit) update(state []bool, lo, hi int) {
	for i := lo; i < hi; i++ {
		in := c.in[c.inOff[i]:c.inOff[i+1]]
		for p := range in {
			if d := c.drv[c.inOff[i]+p]; d >= 0 {
				in[p] = c.s0[d]
			} else {
				in[p] = false
			}
		}
		out := c.s1[c.outOff[i]:c.outOff[i+1]]
		for k := range out {
			out[k] = false
		}
		if r := c.rules[i]; r != nil {
			r(state[i], in, out)
		}
	}
}

func equalBits(a, b []bool) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Outputs returns a copy of the output bits of gate id.
//
func (c *Circuit) Outputs(id string) []bool {
	i, ok := c.m.index[id]
	if !ok {
		return nil
	}
	return append([]bool(nil), c.s0[c.outOff[i]:c.outOff[i+1]]...)
}

// Inputs returns a copy of the cached input bits of gate id.
//
func (c *Circuit) Inputs(id string) []bool {
	i, ok := c.m.index[id]
	if !ok {
		return nil
	}
	return append([]bool(nil), c.in[c.inOff[i]:c.inOff[i+1]]...)
}

// Value returns the observed bits of gate id: the cached input of a sink, the
// output vector of any other gate, or the stored bit of a gate with neither.
//
func (c *Circuit) Value(id string) []bool {
	i, ok := c.m.index[id]
	if !ok {
		return nil
	}
	return c.value(i)
}

func (c *Circuit) value(i int) []bool {
	in := c.in[c.inOff[i]:c.inOff[i+1]]
	out := c.s0[c.outOff[i]:c.outOff[i+1]]
	switch {
	case c.m.defs[i] != nil && c.m.defs[i].Sink() && len(in) > 0:
		return []bool{in[0]}
	case len(out) > 0:
		return append([]bool(nil), out...)
	case len(in) > 0:
		return []bool{in[0]}
	}
	return []bool{c.state[i]}
}

// Result holds the observed bits of every gate after evaluation.
//
type Result struct {
	Outputs map[string][]bool
	Rounds  int
	Stable  bool
}

// Value returns the first observed bit of gate id.
//
func (r *Result) Value(id string) bool {
	v := r.Outputs[id]
	return len(v) > 0 && v[0]
}

// Evaluate runs a fresh circuit for m to a steady state and returns the observed
// bits of every gate. The result only depends on m and overrides.
//
func Evaluate(m *Model, overrides map[string]bool, opts ...Option) *Result {
	c := NewCircuit(m, opts...)
	rounds, stable := c.Settle(overrides)
	r := &Result{
		Outputs: make(map[string][]bool, len(m.Gates)),
		Rounds:  rounds,
		Stable:  stable,
	}
	for i := range m.Gates {
		r.Outputs[m.Gates[i].ID] = c.value(i)
	}
	return r
}
