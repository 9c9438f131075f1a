// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package vhdl

import (
	"strconv"
	"strings"

	"github.com/db47h/gatesim"
	"github.com/db47h/gatesim/internal/slug"
)

type portKey struct {
	id   string
	port int
}

// namer hands out signal and port identifiers. Names are allocated on first
// use and are unique across the whole program, case-insensitively.
//
type namer struct {
	used    slug.Set
	signals map[portKey]string
	ports   map[string]string
}

func newNamer() *namer {
	return &namer{
		signals: make(map[portKey]string),
		ports:   make(map[string]string),
	}
}

func typeSlug(g *gatesim.Gate, label, fallback string) string {
	if label == "" {
		label = g.Type
	}
	return slug.Identifier(label, slug.Identifier(fallback+"_"+g.ID, fallback))
}

// signal returns the identifier of output port of gate g.
//
func (n *namer) signal(g *gatesim.Gate, typeLabel string, port int) string {
	k := portKey{g.ID, port}
	if s, ok := n.signals[k]; ok {
		return s
	}
	ts := typeSlug(g, typeLabel, "node")
	var base string
	if strings.TrimSpace(g.Label) != "" {
		base = slug.Identifier(g.Label, slug.Identifier(ts+"_"+g.ID, "node"))
	} else {
		base = slug.Identifier(ts+"_"+g.ID+"_"+strconv.Itoa(port), "node")
	}
	s := n.used.Unique(base, "_", 1)
	n.signals[k] = s
	return s
}

// port returns the entity port identifier of sink gate g.
//
func (n *namer) port(g *gatesim.Gate, typeLabel string) string {
	if s, ok := n.ports[g.ID]; ok {
		return s
	}
	ts := typeSlug(g, typeLabel, "out")
	var base string
	if strings.TrimSpace(g.Label) != "" {
		base = slug.Identifier(g.Label, slug.Identifier(ts+"_"+g.ID, "out"))
	} else {
		base = slug.Identifier(ts+"_"+g.ID, "out")
	}
	s := n.used.Unique(base, "_", 1)
	n.ports[g.ID] = s
	return s
}
