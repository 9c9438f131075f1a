// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gatesim

// primitive evaluation rules, indexed by Kind.
//
var primitiveRules = [...]Rule{
	KindInput:  func(state bool, _, out []bool) { setAll(out, state) },
	KindOutput: func(bool, []bool, []bool) {},
	KindBuffer: func(_ bool, in, out []bool) { setAll(out, first(in)) },
	KindNot:    func(_ bool, in, out []bool) { setAll(out, !first(in)) },
	KindAnd:    func(_ bool, in, out []bool) { setAll(out, allHigh(in)) },
	KindNand:   func(_ bool, in, out []bool) { setAll(out, !allHigh(in)) },
	KindOr:     func(_ bool, in, out []bool) { setAll(out, anyHigh(in)) },
	KindNor:    func(_ bool, in, out []bool) { setAll(out, !anyHigh(in)) },
	KindXor:    func(_ bool, in, out []bool) { setAll(out, parity(in)) },
	KindFunc:   nil,
	KindCustom: nil,
}

func setAll(out []bool, v bool) {
	for i := range out {
		out[i] = v
	}
}

func first(in []bool) bool {
	return len(in) > 0 && in[0]
}

// allHigh is the AND reduction of in. It is false for an empty input vector.
func allHigh(in []bool) bool {
	for _, b := range in {
		if !b {
			return false
		}
	}
	return len(in) > 0
}

func anyHigh(in []bool) bool {
	for _, b := range in {
		if b {
			return true
		}
	}
	return false
}

// parity is true iff an odd number of inputs are high.
func parity(in []bool) bool {
	p := false
	for _, b := range in {
		p = p != b
	}
	return p
}

var (
	oneIn      = []Point{{0, 32}}
	twoIn      = []Point{{0, 24}, {0, 40}}
	oneOut     = []Point{{64, 32}}
	gatePorts1 = Ports{Inputs: oneIn, Outputs: oneOut}
	gatePorts2 = Ports{Inputs: twoIn, Outputs: oneOut}
)

func primitives() []*Definition {
	return []*Definition{
		{Type: TypeInput, Kind: KindInput, Label: "Input", Outputs: 1,
			Description: "Manual toggle that emits a high (1) or low (0) signal.",
			Ports:       Ports{Outputs: oneOut}},
		{Type: TypeOutput, Kind: KindOutput, Label: "Output", Inputs: 1,
			Description: "Shows the value from a single input line.",
			Ports:       Ports{Inputs: oneIn}},
		{Type: TypeBuffer, Kind: KindBuffer, Label: "Buffer", Inputs: 1, Outputs: 1,
			Description: "Passes the input signal through unchanged.",
			Ports:       gatePorts1},
		{Type: TypeNot, Kind: KindNot, Label: "NOT", Inputs: 1, Outputs: 1,
			Description: "Inverts the incoming signal.",
			Ports:       gatePorts1},
		{Type: TypeAnd, Kind: KindAnd, Label: "AND", Inputs: 2, Outputs: 1,
			Description: "Outputs 1 when all inputs are high.",
			Ports:       gatePorts2},
		{Type: TypeNand, Kind: KindNand, Label: "NAND", Inputs: 2, Outputs: 1,
			Description: "Outputs 0 only when all inputs are high.",
			Ports:       gatePorts2},
		{Type: TypeOr, Kind: KindOr, Label: "OR", Inputs: 2, Outputs: 1,
			Description: "Outputs 1 when any input is high.",
			Ports:       gatePorts2},
		{Type: TypeNor, Kind: KindNor, Label: "NOR", Inputs: 2, Outputs: 1,
			Description: "Outputs 1 only when all inputs are low.",
			Ports:       gatePorts2},
		{Type: TypeXor, Kind: KindXor, Label: "XOR", Inputs: 2, Outputs: 1,
			Description: "Outputs 1 when an odd number of inputs are high.",
			Ports:       gatePorts2},
	}
}

// autoPorts spreads n ports evenly along the left (inputs) or right (outputs)
// edge of a square custom gate body.
//
func autoPorts(inputs, outputs int) Ports {
	const (
		width   = 64
		spacing = 16
		grid    = 16
	)
	n := inputs
	if outputs > n {
		n = outputs
	}
	if n < 1 {
		n = 1
	}
	height := float64(((n+1)*spacing + grid - 1) / grid * grid)
	if height < width {
		height = width
	}
	spread := func(n int, x float64) []Point {
		if n == 0 {
			return nil
		}
		step := height / float64(n+1)
		ps := make([]Point, n)
		for i := range ps {
			ps[i] = Point{x, float64(int(step*float64(i+1) + 0.5))}
		}
		return ps
	}
	return Ports{Inputs: spread(inputs, 0), Outputs: spread(outputs, width)}
}
