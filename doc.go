// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

/*
Package gatesim evaluates combinational logic netlists.

A netlist is persisted as a Snapshot: placed gates, directed connections from
an output port to an input port, and the definitions of the custom gates it
uses. Snapshots come from an interactive editor and are decoded leniently:
records that make no sense are dropped or defaulted, never rejected.

Gate kinds live in a Registry. NewRegistry returns one holding the primitive
gates (input, output, buffer, not, and, nand, or, nor, xor); custom gates are
compiled from nested snapshots by RegisterCustom, Hydrate or LoadLibrary.
Source gates (input) hold a stored bit and sink gates (output) observe the bit
on their single input.

BuildModel turns a snapshot into a Model with precomputed port lookups, and
Evaluate relaxes it to a steady state:

	reg := gatesim.NewRegistry()
	s, err := gatesim.ParseSnapshot(data)
	if err != nil {
		// malformed JSON
	}
	if err = reg.Hydrate(s); err != nil {
		// some embedded custom gates did not compile
	}
	r := gatesim.Evaluate(gatesim.BuildModel(reg, s), map[string]bool{"a": true})
	fmt.Println(r.Value("out"), r.Stable)

Evaluation is a double-buffered fixpoint: each round computes every gate from
the previous round's outputs, until a round changes nothing or DefaultMaxRounds
rounds have run. Circuits with feedback are accepted; one that oscillates is
reported as not stable and keeps its last computed bits.

Custom gates are simulated as black boxes: each placed instance runs a private
circuit of the nested snapshot. For export, Flatten inlines them into
primitive gates (one nesting level is supported) and PrepareExport chains input
clearing, flattening and pruning ahead of the vhdl package.
*/
package gatesim
