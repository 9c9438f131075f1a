// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gatesim

import (
	"github.com/hashicorp/go-hclog"
)

// DefaultMaxRounds is the default relaxation round cap of a Circuit.
//
const DefaultMaxRounds = 32

type options struct {
	maxRounds     int
	workers       int
	log           hclog.Logger
	keepTemplated bool
	zeroInputs    bool
	prune         bool
}

// An Option configures evaluation, flattening, export or library loading.
// Options that do not apply to an operation are ignored.
//
type Option func(*options)

func newOptions(opts []Option) options {
	o := options{maxRounds: DefaultMaxRounds, workers: 1}
	for _, f := range opts {
		if f != nil {
			f(&o)
		}
	}
	if o.log == nil {
		o.log = hclog.NewNullLogger()
	}
	return o
}

// WithMaxRounds sets the round cap of the fixpoint evaluator. Values <= 0 are
// replaced by DefaultMaxRounds.
//
func WithMaxRounds(n int) Option {
	return func(o *options) {
		if n <= 0 {
			n = DefaultMaxRounds
		}
		o.maxRounds = n
	}
}

// WithWorkers sets the number of goroutines that share each relaxation round.
// Values <= 1 run rounds on the calling goroutine.
//
func WithWorkers(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = 1
		}
		o.workers = n
	}
}

// WithLogger sets the logger used to report non-convergence and pipeline
// progress. The default discards everything.
//
func WithLogger(l hclog.Logger) Option {
	return func(o *options) { o.log = l }
}

// KeepTemplated makes Flatten leave custom gates that carry a VHDL template
// unexpanded.
//
func KeepTemplated() Option {
	return func(o *options) { o.keepTemplated = true }
}

// ZeroInputs makes PrepareExport clear the stored bit of every source gate.
//
func ZeroInputs() Option {
	return func(o *options) { o.zeroInputs = true }
}

// PruneDisconnected makes PrepareExport drop gates that cannot reach a sink.
//
func PruneDisconnected() Option {
	return func(o *options) { o.prune = true }
}
