// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gatesim_test

import (
	"testing"

	gs "github.com/db47h/gatesim"
	"github.com/db47h/gatesim/gatetest"
	"github.com/pkg/errors"
)

func trace(t *testing.T, err error) {
	t.Helper()
	if err, ok := err.(interface {
		StackTrace() errors.StackTrace
	}); ok {
		for _, f := range err.StackTrace() {
			t.Logf("%+v ", f)
		}
	}
}

// halfAdder: S = A xor B, C = A and B.
func halfAdder() *gs.Snapshot {
	return gatetest.Snap("a:input:A, b:input:B, x:xor, n:and, s:output:S, c:output:C",
		"a>x.0, b>x.1, a>n.0, b>n.1, x>s, n>c")
}

// andNot is a NAND built from an AND and a NOT.
func andNot() *gs.Snapshot {
	return gatetest.Snap("i0:input, i1:input, g:and, n:not, o:output",
		"i0>g.0, i1>g.1, g>n, n>o")
}

func mustRegister(t *testing.T, reg *gs.Registry, cg gs.CustomGate) *gs.Definition {
	t.Helper()
	d, err := reg.RegisterCustom(cg)
	if err != nil {
		trace(t, err)
		t.Fatal(err)
	}
	return d
}

func bit(b bool) int {
	if b {
		return 1
	}
	return 0
}
