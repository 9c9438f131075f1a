// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package slug_test

import (
	"testing"

	"github.com/db47h/gatesim/internal/slug"
)

func TestMake(t *testing.T) {
	td := []struct {
		in, exp string
	}{
		{"Half Adder", "half-adder"},
		{"  --Foo__Bar!! ", "foo-bar"},
		{"v2.0", "v2-0"},
		{"", "fb"},
		{"ÄÖ", "fb"},
		{"---", "fb"},
	}
	for _, d := range td {
		if got := slug.Make(d.in, "fb"); got != d.exp {
			t.Errorf("Make(%q) = %q, expected %q", d.in, got, d.exp)
		}
	}
}

func TestAbbreviation(t *testing.T) {
	td := []struct {
		in, exp string
	}{
		{"Half Adder", "HA"},
		{"full adder with carry", "FAW"},
		{"mux", "M"},
		{"élan vital", "ÉV"},
		{"", "CG"},
		{"   ", "CG"},
	}
	for _, d := range td {
		if got := slug.Abbreviation(d.in); got != d.exp {
			t.Errorf("Abbreviation(%q) = %q, expected %q", d.in, got, d.exp)
		}
	}
}

func TestIdentifier(t *testing.T) {
	td := []struct {
		in, exp string
	}{
		{"My Signal", "my_signal"},
		{"2fast", "fast"},
		{"__x", "__x"},
		{"a--b", "a_b"},
		{"NOT_g2_0", "not_g2_0"},
		{" a b  ", "a_b"},
		{"123", "fb"},
		{"", "fb"},
	}
	for _, d := range td {
		if got := slug.Identifier(d.in, "fb"); got != d.exp {
			t.Errorf("Identifier(%q) = %q, expected %q", d.in, got, d.exp)
		}
	}
}

func TestSet(t *testing.T) {
	var s slug.Set
	if s.Has("a") {
		t.Fatal("empty set has a")
	}
	for _, exp := range []string{"a", "a_1", "A_2"} {
		base := exp[:1]
		if got := s.Unique(base, "_", 1); got != exp {
			t.Errorf("Unique(%q) = %q, expected %q", base, got, exp)
		}
	}
	s.Add("Node")
	if !s.Has("NODE") || !s.Has("a_2") {
		t.Error("names are not compared case-insensitively")
	}
	if got := s.Unique("node", "-", 2); got != "node-2" {
		t.Errorf("got %q, expected node-2", got)
	}
}
