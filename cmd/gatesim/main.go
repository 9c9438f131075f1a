// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command gatesim evaluates, flattens, reports on and exports gate netlist
// snapshots.
//
//	gatesim export [-config file] [-lib dir] circuit.json...
//	gatesim vhdl circuit.json
//	gatesim report circuit.json
//	gatesim truth circuit.json
//	gatesim eval [-set id=bit] circuit.json
//	gatesim flatten circuit.json
//	gatesim gates [-lib dir]
//
// The log level is read from the GATESIM_LOG environment variable (trace,
// debug, info, warn, error; default warn).
//
package main

import (
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/mattn/go-isatty"
	"github.com/mitchellh/cli"
	"github.com/mitchellh/colorstring"
	"github.com/spf13/afero"
)

const version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	tty := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

	var ui cli.Ui = &cli.BasicUi{
		Reader:      os.Stdin,
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
	}
	if tty {
		ui = &cli.ColoredUi{ErrorColor: cli.UiColorRed, WarnColor: cli.UiColorYellow, Ui: ui}
	}
	ui = &cli.ConcurrentUi{Ui: ui}

	level := hclog.LevelFromString(os.Getenv("GATESIM_LOG"))
	if level == hclog.NoLevel {
		level = hclog.Warn
	}
	m := &meta{
		ui: ui,
		fs: afero.NewOsFs(),
		log: hclog.New(&hclog.LoggerOptions{
			Name:   "gatesim",
			Level:  level,
			Output: os.Stderr,
			Color:  hclog.AutoColor,
		}),
		color: &colorstring.Colorize{
			Colors:  colorstring.DefaultColors,
			Disable: !tty,
			Reset:   true,
		},
	}

	c := cli.NewCLI("gatesim", version)
	c.Args = args
	c.Commands = commands(m)
	status, err := c.Run()
	if err != nil {
		m.log.Error("command failed", "error", err)
		return 1
	}
	return status
}

func commands(m *meta) map[string]cli.CommandFactory {
	return map[string]cli.CommandFactory{
		"export":  func() (cli.Command, error) { return &exportCommand{meta: m}, nil },
		"vhdl":    func() (cli.Command, error) { return &vhdlCommand{meta: m}, nil },
		"report":  func() (cli.Command, error) { return &reportCommand{meta: m}, nil },
		"truth":   func() (cli.Command, error) { return &truthCommand{meta: m}, nil },
		"eval":    func() (cli.Command, error) { return &evalCommand{meta: m}, nil },
		"flatten": func() (cli.Command, error) { return &flattenCommand{meta: m}, nil },
		"gates":   func() (cli.Command, error) { return &gatesCommand{meta: m}, nil },
	}
}
