// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"flag"
	"io"
	"strings"

	"github.com/db47h/gatesim"
	"github.com/db47h/gatesim/report"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/cli"
	"github.com/mitchellh/colorstring"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// meta holds the state and flags shared by all commands.
//
type meta struct {
	ui    cli.Ui
	fs    afero.Fs
	log   hclog.Logger
	color *colorstring.Colorize

	lib    string
	config string
}

func (m *meta) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&m.lib, "lib", "", "directory of custom gate *.json files")
	fs.StringVar(&m.config, "config", "", "report and export configuration file (.hcl or .json)")
	return fs
}

func (m *meta) errorf(err error) int {
	m.ui.Error(m.color.Color("[bold]Error:[reset] " + err.Error()))
	return 1
}

func (m *meta) warn(err error) {
	if me, ok := err.(*multierror.Error); ok {
		for _, e := range me.Errors {
			m.ui.Warn(m.color.Color("[bold]Warning:[reset] " + e.Error()))
		}
		return
	}
	m.ui.Warn(m.color.Color("[bold]Warning:[reset] " + err.Error()))
}

// registry returns a registry with the primitives and the custom gates of the
// -lib directory.
//
func (m *meta) registry() *gatesim.Registry {
	reg := gatesim.NewRegistry()
	if m.lib == "" {
		return reg
	}
	defs, err := gatesim.LoadLibrary(m.fs, m.lib, reg, gatesim.WithLogger(m.log.Named("library")))
	if err != nil {
		m.warn(err)
	}
	m.log.Debug("custom gate library loaded", "dir", m.lib, "gates", len(defs))
	return reg
}

func (m *meta) loadConfig() (*report.Config, error) {
	if m.config == "" {
		return report.DefaultConfig(), nil
	}
	return report.LoadConfig(m.fs, m.config)
}

// snapshot reads the snapshot at path and registers the custom gates it
// embeds.
//
func (m *meta) snapshot(reg *gatesim.Registry, path string) (*gatesim.Snapshot, error) {
	data, err := afero.ReadFile(m.fs, path)
	if err != nil {
		return nil, errors.Wrap(err, "read snapshot")
	}
	s, err := gatesim.ParseSnapshot(data)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	if err = reg.Hydrate(s); err != nil {
		m.warn(err)
	}
	return s, nil
}

// single parses args and loads the one snapshot they name.
//
func (m *meta) single(fs *flag.FlagSet, args []string) (*gatesim.Registry, *gatesim.Snapshot, error) {
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if fs.NArg() != 1 {
		return nil, nil, errors.New("expected exactly one snapshot file")
	}
	reg := m.registry()
	s, err := m.snapshot(reg, fs.Arg(0))
	if err != nil {
		return nil, nil, err
	}
	return reg, s, nil
}

const commonHelp = `
Options:

  -lib=dir       Load the custom gates found in the *.json files of dir.
  -config=file   Report and export configuration (.hcl or .json).
`

func help(usage, text string) string {
	return strings.TrimSpace("Usage: gatesim "+usage+"\n\n  "+text+"\n"+commonHelp) + "\n"
}
