// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gatetest

import (
	"strconv"
	"strings"

	"github.com/db47h/gatesim"
)

func endpoint(s string) gatesim.Endpoint {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '.'); i > 0 {
		p, err := strconv.Atoi(s[i+1:])
		if err != nil {
			panic("gatetest: bad port number in " + strconv.Quote(s))
		}
		return gatesim.Endpoint{GateID: s[:i], Port: p}
	}
	return gatesim.Endpoint{GateID: s}
}

func split(s string) []string {
	var l []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			l = append(l, f)
		}
	}
	return l
}

// Snap builds a snapshot from a compact description and panics if it is
// malformed.
//
// gates is a comma separated list of id:type[=1][:label], where =1 sets the
// stored bit. wires is a comma separated list of from>to connections where
// each endpoint is a gate id optionally followed by .port (default 0).
// Connections are numbered c1, c2...
//
//	gatetest.Snap("a:input=1, b:input, g:and, out:output:Q", "a>g.0, b>g.1, g>out")
//
func Snap(gates, wires string) *gatesim.Snapshot {
	s := &gatesim.Snapshot{Version: 1, Gates: []gatesim.Gate{}, Connections: []gatesim.Connection{}}
	for _, f := range split(gates) {
		parts := strings.SplitN(f, ":", 3)
		if len(parts) < 2 {
			panic("gatetest: bad gate " + strconv.Quote(f))
		}
		g := gatesim.Gate{ID: parts[0], Type: parts[1]}
		if strings.HasSuffix(g.Type, "=1") {
			g.Type = strings.TrimSuffix(g.Type, "=1")
			g.State = 1
		}
		if len(parts) == 3 {
			g.Label = parts[2]
		}
		s.Gates = append(s.Gates, g)
	}
	for i, f := range split(wires) {
		ends := strings.Split(f, ">")
		if len(ends) != 2 {
			panic("gatetest: bad wire " + strconv.Quote(f))
		}
		s.Connections = append(s.Connections, gatesim.Connection{
			ID:   "c" + strconv.Itoa(i+1),
			From: endpoint(ends[0]),
			To:   endpoint(ends[1]),
		})
	}
	return s
}
