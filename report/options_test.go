// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package report_test

import (
	"testing"

	"github.com/db47h/gatesim/report"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
)

const hclConfig = `
report {
  sections {
    gate_positions = false
  }
  truth_table {
    enabled    = false
    max_inputs = 4
    max_rows   = 0
  }
}

export {
  prune_disconnected = true
  entity             = "top"
}
`

func TestParseConfig(t *testing.T) {
	hclExp := report.DefaultConfig()
	hclExp.Report.Sections.GatePositions = false
	hclExp.Report.Sections.TruthTable = false
	hclExp.Report.Truth.MaxInputs = 4
	hclExp.Export = report.Export{PruneDisconnected: true, Entity: "top"}

	jsonExp := report.DefaultConfig()
	jsonExp.Report.Enabled = false
	jsonExp.Export.ZeroInputs = true

	td := []struct {
		name string
		file string
		src  string
		exp  *report.Config
	}{
		{"hcl", "gatesim.hcl", hclConfig, hclExp},
		{"json", "gatesim.json", `{"report": {"enabled": false}, "export": {"zero_inputs": true}}`, jsonExp},
		{"empty", "empty.hcl", "", report.DefaultConfig()},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			c, err := report.ParseConfig(d.file, []byte(d.src))
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(d.exp, c); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseConfig_errors(t *testing.T) {
	td := []struct {
		name string
		file string
		src  string
	}{
		{"syntax", "x.hcl", "report {"},
		{"unknown attribute", "x.hcl", "report {\n  color = true\n}\n"},
		{"bad type", "x.hcl", "export {\n  zero_inputs = \"maybe\"\n}\n"},
		{"unknown format", "x.yaml", ""},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			if _, err := report.ParseConfig(d.file, []byte(d.src)); err == nil {
				t.Error("no error")
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "etc/gatesim.hcl", []byte(hclConfig), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := report.LoadConfig(fs, "etc/gatesim.hcl")
	if err != nil {
		t.Fatal(err)
	}
	if c.Export.Entity != "top" || c.Report.Truth.MaxRows != report.DefaultMaxRows {
		t.Errorf("got %+v", c)
	}
	if _, err = report.LoadConfig(fs, "etc/missing.hcl"); err == nil {
		t.Error("no error for a missing file")
	}
}

func TestExport_Options(t *testing.T) {
	td := []struct {
		e report.Export
		n int
	}{
		{report.Export{}, 0},
		{report.Export{ZeroInputs: true}, 1},
		{report.Export{ZeroInputs: true, PruneDisconnected: true, KeepTemplated: true, Entity: "x"}, 3},
	}
	for _, d := range td {
		if got := len(d.e.Options()); got != d.n {
			t.Errorf("%+v: got %d options, expected %d", d.e, got, d.n)
		}
	}
}
