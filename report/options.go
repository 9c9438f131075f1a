// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package report

import (
	"github.com/db47h/gatesim"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// Sections toggles the sections of a report.
//
type Sections struct {
	Summary           bool
	GateCounts        bool
	GatePositions     bool
	SpatialMetrics    bool
	ConnectionSummary bool
	FloatingPins      bool
	TruthTable        bool
}

// Options configures a report.
//
type Options struct {
	Enabled  bool
	Sections Sections
	Truth    Limits
}

// DefaultOptions returns options enabling every section with the default truth
// table limits.
//
func DefaultOptions() Options {
	return Options{
		Enabled: true,
		Sections: Sections{
			Summary:           true,
			GateCounts:        true,
			GatePositions:     true,
			SpatialMetrics:    true,
			ConnectionSummary: true,
			FloatingPins:      true,
			TruthTable:        true,
		},
		Truth: Limits{MaxInputs: DefaultMaxInputs, MaxRows: DefaultMaxRows},
	}
}

// Export holds the export pipeline settings.
//
type Export struct {
	ZeroInputs        bool
	PruneDisconnected bool
	KeepTemplated     bool
	Entity            string
}

// Options returns the gatesim options matching e.
//
func (e *Export) Options() []gatesim.Option {
	var opts []gatesim.Option
	if e.ZeroInputs {
		opts = append(opts, gatesim.ZeroInputs())
	}
	if e.PruneDisconnected {
		opts = append(opts, gatesim.PruneDisconnected())
	}
	if e.KeepTemplated {
		opts = append(opts, gatesim.KeepTemplated())
	}
	return opts
}

// Config is the content of a configuration file.
//
type Config struct {
	Report Options
	Export Export
}

// DefaultConfig returns the configuration used when no file is given.
//
func DefaultConfig() *Config {
	return &Config{Report: DefaultOptions()}
}

// file layout. Every attribute is optional; pointers tell unset values apart.

type fileConfig struct {
	Report *reportBlock `hcl:"report,block"`
	Export *exportBlock `hcl:"export,block"`
}

type reportBlock struct {
	Enabled  *bool          `hcl:"enabled,optional"`
	Sections *sectionsBlock `hcl:"sections,block"`
	Truth    *truthBlock    `hcl:"truth_table,block"`
}

type sectionsBlock struct {
	Summary           *bool `hcl:"summary,optional"`
	GateCounts        *bool `hcl:"gate_counts,optional"`
	GatePositions     *bool `hcl:"gate_positions,optional"`
	SpatialMetrics    *bool `hcl:"spatial_metrics,optional"`
	ConnectionSummary *bool `hcl:"connection_summary,optional"`
	FloatingPins      *bool `hcl:"floating_pins,optional"`
	TruthTable        *bool `hcl:"truth_table,optional"`
}

type truthBlock struct {
	Enabled   *bool `hcl:"enabled,optional"`
	MaxInputs *int  `hcl:"max_inputs,optional"`
	MaxRows   *int  `hcl:"max_rows,optional"`
}

type exportBlock struct {
	ZeroInputs        *bool   `hcl:"zero_inputs,optional"`
	PruneDisconnected *bool   `hcl:"prune_disconnected,optional"`
	KeepTemplated     *bool   `hcl:"keep_templated,optional"`
	Entity            *string `hcl:"entity,optional"`
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func setPositive(dst *int, src *int) {
	if src != nil && *src > 0 {
		*dst = *src
	}
}

// ParseConfig decodes a configuration in HCL native syntax if filename ends
// with ".hcl", or in JSON if it ends with ".json". Unset values keep their
// defaults.
//
//	report {
//	  enabled = true
//	  sections {
//	    gate_positions = false
//	  }
//	  truth_table {
//	    max_inputs = 6
//	    max_rows   = 64
//	  }
//	}
//	export {
//	  zero_inputs        = false
//	  prune_disconnected = true
//	  keep_templated     = false
//	  entity             = "logic_circuit_lab"
//	}
//
func ParseConfig(filename string, src []byte) (*Config, error) {
	var f fileConfig
	if err := hclsimple.Decode(filename, src, nil, &f); err != nil {
		return nil, errors.Wrapf(err, "decode %s", filename)
	}
	c := DefaultConfig()
	if r := f.Report; r != nil {
		o := &c.Report
		setBool(&o.Enabled, r.Enabled)
		if s := r.Sections; s != nil {
			setBool(&o.Sections.Summary, s.Summary)
			setBool(&o.Sections.GateCounts, s.GateCounts)
			setBool(&o.Sections.GatePositions, s.GatePositions)
			setBool(&o.Sections.SpatialMetrics, s.SpatialMetrics)
			setBool(&o.Sections.ConnectionSummary, s.ConnectionSummary)
			setBool(&o.Sections.FloatingPins, s.FloatingPins)
			setBool(&o.Sections.TruthTable, s.TruthTable)
		}
		if t := r.Truth; t != nil {
			if t.Enabled != nil && !*t.Enabled {
				o.Sections.TruthTable = false
			}
			setPositive(&o.Truth.MaxInputs, t.MaxInputs)
			setPositive(&o.Truth.MaxRows, t.MaxRows)
		}
	}
	if e := f.Export; e != nil {
		setBool(&c.Export.ZeroInputs, e.ZeroInputs)
		setBool(&c.Export.PruneDisconnected, e.PruneDisconnected)
		setBool(&c.Export.KeepTemplated, e.KeepTemplated)
		if e.Entity != nil {
			c.Export.Entity = *e.Entity
		}
	}
	return c, nil
}

// LoadConfig reads and decodes the configuration file at path in fs.
//
func LoadConfig(fs afero.Fs, path string) (*Config, error) {
	src, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrap(err, "read configuration")
	}
	return ParseConfig(path, src)
}
