// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"bytes"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/db47h/gatesim"
	"github.com/db47h/gatesim/report"
	"github.com/db47h/gatesim/vhdl"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/xlab/treeprint"
	"golang.org/x/sync/errgroup"
)

// exportCommand writes the VHDL translation of each snapshot next to it and
// prints the circuit report.
//
type exportCommand struct {
	*meta
}

func (c *exportCommand) Synopsis() string {
	return "Export snapshots to VHDL files"
}

func (c *exportCommand) Help() string {
	return help("export [options] file.json...",
		"Writes file.vhdl next to each file.json and prints a circuit report.\n"+
			"  Files are processed concurrently.")
}

type exported struct {
	path   string
	report string
}

func (c *exportCommand) Run(args []string) int {
	fs := c.flagSet("export")
	if err := fs.Parse(args); err != nil {
		return c.errorf(err)
	}
	if fs.NArg() == 0 {
		return c.errorf(errors.New("no snapshot file"))
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return c.errorf(err)
	}
	base := c.registry()

	res := make([]exported, fs.NArg())
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range fs.Args() {
		i, path := i, path
		g.Go(func() error {
			out, rep, err := c.export(base.Clone(), cfg, path)
			if err != nil {
				return errors.Wrap(err, path)
			}
			res[i] = exported{out, rep}
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return c.errorf(err)
	}
	for _, r := range res {
		c.ui.Output("Wrote " + r.path)
		if r.report != "" {
			c.ui.Output(r.report)
		}
	}
	return 0
}

func (c *exportCommand) export(reg *gatesim.Registry, cfg *report.Config, path string) (string, string, error) {
	s, err := c.snapshot(reg, path)
	if err != nil {
		return "", "", err
	}
	log := c.log.Named("export").With("file", path)
	opts := append(cfg.Export.Options(), gatesim.WithLogger(log))
	prep, err := gatesim.PrepareExport(s, reg, opts...)
	if err != nil {
		return "", "", err
	}
	src, err := vhdl.Compile(prep, reg, vhdl.WithEntityName(cfg.Export.Entity))
	if err != nil {
		return "", "", err
	}
	out := strings.TrimSuffix(path, filepath.Ext(path)) + ".vhdl"
	if err = afero.WriteFile(c.fs, out, []byte(src), 0644); err != nil {
		return "", "", errors.Wrap(err, "write VHDL")
	}
	log.Info("exported", "output", out, "gates", len(prep.Gates))
	return out, report.Build(gatesim.BuildModel(reg, prep), cfg.Report), nil
}

type vhdlCommand struct {
	*meta
	entity string
	raw    bool
}

func (c *vhdlCommand) Synopsis() string {
	return "Print the VHDL translation of a snapshot"
}

func (c *vhdlCommand) Help() string {
	return help("vhdl [options] file.json",
		"Prints the VHDL translation of file.json to standard output.\n\n"+
			"  -entity=name   Entity name (overrides the configuration).\n"+
			"  -raw           Skip the export pipeline (flattening and pruning).")
}

func (c *vhdlCommand) Run(args []string) int {
	fs := c.flagSet("vhdl")
	fs.StringVar(&c.entity, "entity", "", "entity name")
	fs.BoolVar(&c.raw, "raw", false, "skip the export pipeline")
	reg, s, err := c.single(fs, args)
	if err != nil {
		return c.errorf(err)
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return c.errorf(err)
	}
	if !c.raw {
		opts := append(cfg.Export.Options(), gatesim.WithLogger(c.log.Named("export")))
		if s, err = gatesim.PrepareExport(s, reg, opts...); err != nil {
			return c.errorf(err)
		}
	}
	entity := cfg.Export.Entity
	if c.entity != "" {
		entity = c.entity
	}
	src, err := vhdl.Compile(s, reg, vhdl.WithEntityName(entity))
	if err != nil {
		return c.errorf(err)
	}
	c.ui.Output(strings.TrimSuffix(src, "\n"))
	return 0
}

type reportCommand struct {
	*meta
	workspace float64
}

func (c *reportCommand) Synopsis() string {
	return "Print a circuit report"
}

func (c *reportCommand) Help() string {
	return help("report [options] file.json",
		"Prints the diagnostics report of file.json. Sections are selected in\n"+
			"  the configuration file.\n\n"+
			"  -workspace=n  Side length of the editor workspace. Snapshots saved\n"+
			"                with a top-left origin are moved to its centre.")
}

func (c *reportCommand) Run(args []string) int {
	fs := c.flagSet("report")
	fs.Float64Var(&c.workspace, "workspace", 0, "workspace size")
	reg, s, err := c.single(fs, args)
	if err != nil {
		return c.errorf(err)
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return c.errorf(err)
	}
	if c.workspace > 0 {
		s = gatesim.Recenter(s, c.workspace/2)
	}
	cfg.Report.Enabled = true
	c.ui.Output(report.Build(gatesim.BuildModel(reg, s), cfg.Report))
	return 0
}

type truthCommand struct {
	*meta
	maxInputs, maxRows int
}

func (c *truthCommand) Synopsis() string {
	return "Print the truth table of a snapshot"
}

func (c *truthCommand) Help() string {
	return help("truth [options] file.json",
		"Enumerates the input assignments of file.json.\n\n"+
			"  -max-inputs=n  Skip circuits with more than n inputs.\n"+
			"  -max-rows=n    Print at most n rows.")
}

func (c *truthCommand) Run(args []string) int {
	fs := c.flagSet("truth")
	fs.IntVar(&c.maxInputs, "max-inputs", 0, "input limit")
	fs.IntVar(&c.maxRows, "max-rows", 0, "row limit")
	reg, s, err := c.single(fs, args)
	if err != nil {
		return c.errorf(err)
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return c.errorf(err)
	}
	l := cfg.Report.Truth
	if c.maxInputs > 0 {
		l.MaxInputs = c.maxInputs
	}
	if c.maxRows > 0 {
		l.MaxRows = c.maxRows
	}
	o := report.Options{Enabled: true, Sections: report.Sections{TruthTable: true}, Truth: l}
	c.ui.Output(strings.TrimSpace(report.Build(gatesim.BuildModel(reg, s), o)))
	return 0
}

type evalCommand struct {
	*meta
	set assignments
}

// assignments collects repeated -set id=bit flags.
//
type assignments map[string]bool

func (a assignments) String() string {
	l := make([]string, 0, len(a))
	for id, b := range a {
		l = append(l, id+"="+strconv.FormatBool(b))
	}
	sort.Strings(l)
	return strings.Join(l, ",")
}

func (a assignments) Set(v string) error {
	i := strings.LastIndexByte(v, '=')
	if i <= 0 {
		return errors.Errorf("invalid assignment %q, expected id=bit", v)
	}
	b, err := strconv.ParseBool(v[i+1:])
	if err != nil {
		return errors.Wrapf(err, "assignment %q", v)
	}
	a[v[:i]] = b
	return nil
}

func (c *evalCommand) Synopsis() string {
	return "Evaluate a snapshot and print its outputs"
}

func (c *evalCommand) Help() string {
	return help("eval [options] file.json",
		"Settles the circuit of file.json and prints the value of each output.\n\n"+
			"  -set=id=bit    Drive input gate id (repeatable).")
}

func (c *evalCommand) Run(args []string) int {
	c.set = make(assignments)
	fs := c.flagSet("eval")
	fs.Var(c.set, "set", "input assignment")
	reg, s, err := c.single(fs, args)
	if err != nil {
		return c.errorf(err)
	}
	m := gatesim.BuildModel(reg, s)
	r := gatesim.Evaluate(m, c.set, gatesim.WithLogger(c.log.Named("eval")))
	for _, g := range m.Sinks() {
		v := "0"
		if r.Value(g.ID) {
			v = "1"
		}
		c.ui.Output(report.GateName(g) + " = " + v)
	}
	if !r.Stable {
		c.ui.Warn(c.color.Color("[bold]Warning:[reset] circuit did not settle after " + strconv.Itoa(r.Rounds) + " rounds"))
	}
	return 0
}

type flattenCommand struct {
	*meta
	keep bool
}

func (c *flattenCommand) Synopsis() string {
	return "Inline the custom gates of a snapshot"
}

func (c *flattenCommand) Help() string {
	return help("flatten [options] file.json",
		"Prints file.json with its custom gates replaced by their content.\n\n"+
			"  -keep-templated  Keep custom gates that have a VHDL template.")
}

func (c *flattenCommand) Run(args []string) int {
	fs := c.flagSet("flatten")
	fs.BoolVar(&c.keep, "keep-templated", false, "keep templated custom gates")
	reg, s, err := c.single(fs, args)
	if err != nil {
		return c.errorf(err)
	}
	opts := []gatesim.Option{gatesim.WithLogger(c.log.Named("flatten"))}
	if c.keep {
		opts = append(opts, gatesim.KeepTemplated())
	}
	f, err := gatesim.Flatten(s, reg, opts...)
	if err != nil {
		return c.errorf(err)
	}
	data, err := f.MarshalIndent()
	if err != nil {
		return c.errorf(err)
	}
	c.ui.Output(string(bytes.TrimSuffix(data, []byte("\n"))))
	return 0
}

type gatesCommand struct {
	*meta
}

func (c *gatesCommand) Synopsis() string {
	return "List the registered gate types"
}

func (c *gatesCommand) Help() string {
	return help("gates [options]",
		"Prints the registered gate types grouped by kind. Custom gates are\n"+
			"  listed with the gates they contain.")
}

func (c *gatesCommand) Run(args []string) int {
	fs := c.flagSet("gates")
	if err := fs.Parse(args); err != nil {
		return c.errorf(err)
	}
	reg := c.registry()
	for _, path := range fs.Args() {
		if _, err := c.snapshot(reg, path); err != nil {
			return c.errorf(err)
		}
	}
	c.ui.Output(strings.TrimSuffix(gateTree(reg).String(), "\n"))
	return 0
}

func gateTree(reg *gatesim.Registry) treeprint.Tree {
	tree := treeprint.New()
	tree.SetValue("gates")
	kinds := make(map[gatesim.Kind]treeprint.Tree)
	for _, typ := range reg.Types() {
		d, _ := reg.Lookup(typ)
		k := d.Kind
		if k.Primitive() {
			k = gatesim.KindUnknown
		}
		br, ok := kinds[k]
		if !ok {
			name := "primitive"
			if k != gatesim.KindUnknown {
				name = k.String()
			}
			br = tree.AddBranch(name)
			kinds[k] = br
		}
		meta := strconv.Itoa(d.Inputs) + "→" + strconv.Itoa(d.Outputs)
		if d.Template == nil {
			br.AddMetaNode(meta, typ)
			continue
		}
		cg := br.AddMetaBranch(meta, typ+" ("+d.Label+")")
		for _, g := range d.Template.Model.Gates {
			cg.AddNode(g.Type + " " + g.ID)
		}
	}
	return tree
}
