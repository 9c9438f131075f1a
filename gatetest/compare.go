// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package gatetest provides utility functions for testing circuits.
//
package gatetest

import (
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/db47h/gatesim"
	"github.com/db47h/gatesim/report"
	"github.com/google/go-cmp/cmp"
)

// exhaustiveLimit is the largest input count for which CompareModels tries
// every assignment. Above it, random assignments are sampled.
//
const exhaustiveLimit = 12

const samples = 1 << exhaustiveLimit

func randBool(r *rand.Rand) bool {
	return r.Int63()&(1<<62) != 0
}

// Assignment maps every id in ids to the bit of n at the same position, most
// significant first.
//
func Assignment(ids []string, n int) map[string]bool {
	ov := make(map[string]bool, len(ids))
	for i, id := range ids {
		ov[id] = n>>uint(len(ids)-i-1)&1 != 0
	}
	return ov
}

func ids(gs []*gatesim.Gate) []string {
	l := make([]string, len(gs))
	for i, g := range gs {
		l[i] = g.ID
	}
	return l
}

func format(ov map[string]bool, ids []string) string {
	var b strings.Builder
	for _, id := range ids {
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString(id)
		b.WriteByte('=')
		b.WriteString(strconv.FormatBool(ov[id]))
	}
	return b.String()
}

// CompareModels drives the source gates of want and got with the same bits and
// reports every sink of want whose value differs in got. Gates are matched by
// id: both models must share the ids of want's source and sink gates.
//
func CompareModels(t testing.TB, want, got *gatesim.Model) {
	t.Helper()

	in, out := ids(want.Sources()), ids(want.Sinks())
	for _, id := range append(append([]string(nil), in...), out...) {
		if _, ok := got.Gate(id); !ok {
			t.Fatalf("gate %s missing", id)
		}
	}

	check := func(ov map[string]bool) {
		t.Helper()
		rw, rg := gatesim.Evaluate(want, ov), gatesim.Evaluate(got, ov)
		for _, id := range out {
			if rw.Value(id) != rg.Value(id) {
				t.Errorf("%s: %s = %v, expected %v", format(ov, in), id, rg.Value(id), rw.Value(id))
			}
		}
	}

	if len(in) <= exhaustiveLimit {
		for n := 0; n < 1<<uint(len(in)); n++ {
			check(Assignment(in, n))
		}
		return
	}
	r := rand.New(rand.NewSource(int64(len(in))))
	for s := 0; s < samples; s++ {
		ov := make(map[string]bool, len(in))
		for _, id := range in {
			ov[id] = randBool(r)
		}
		check(ov)
	}
}

type tableRow struct {
	Inputs  []bool
	Outputs []bool
}

func rows(t *report.Table) []tableRow {
	rs := make([]tableRow, len(t.Rows))
	for i, r := range t.Rows {
		rs[i] = tableRow{r.Inputs, r.Outputs}
	}
	return rs
}

// EqualTables reports an error if got and want do not have the same rows.
// Gate ids and labels are not compared.
//
func EqualTables(t testing.TB, want, got *report.Table) {
	t.Helper()
	if want.Skipped != got.Skipped || want.Reason != got.Reason {
		t.Fatalf("skipped %v (%s), expected %v (%s)", got.Skipped, got.Reason, want.Skipped, want.Reason)
	}
	if want.TotalRows != got.TotalRows || want.Truncated != got.Truncated {
		t.Errorf("%d total rows (truncated: %v), expected %d (truncated: %v)", got.TotalRows, got.Truncated, want.TotalRows, want.Truncated)
	}
	if diff := cmp.Diff(rows(want), rows(got)); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}
