// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gatesim

import (
	"encoding/json"

	"github.com/mitchellh/copystructure"
	"github.com/pkg/errors"
)

// Source tells where a custom gate definition comes from.
//
type Source string

// Custom gate sources.
//
const (
	SourceEmbedded   Source = "embedded"
	SourceFilesystem Source = "filesystem"
	SourceLibrary    Source = "library"
)

func normalizeSource(s string) Source {
	switch Source(s) {
	case SourceEmbedded, SourceFilesystem:
		return Source(s)
	}
	return SourceLibrary
}

// Snapshot is the persisted form of a circuit, as exchanged with the editor.
//
type Snapshot struct {
	Version     int          `json:"version,omitempty"`
	Origin      string       `json:"origin,omitempty"`
	NextID      int          `json:"nextId,omitempty"`
	Gates       []Gate       `json:"gates"`
	Connections []Connection `json:"connections"`
	CustomGates []CustomGate `json:"customGates,omitempty"`
}

// Gate is a placed gate instance.
//
type Gate struct {
	ID       string  `json:"id"`
	Type     string  `json:"type"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	State    int     `json:"state"`
	Label    string  `json:"label,omitempty"`
	Rotation int     `json:"rotation,omitempty"`
}

// High reports whether the gate's stored bit is set.
//
func (g *Gate) High() bool { return g.State != 0 }

// Endpoint is one end of a connection: a port of a gate.
//
type Endpoint struct {
	GateID string `json:"gateId"`
	Port   int    `json:"portIndex"`
}

// Connection is a directed wire from an output port to an input port.
//
type Connection struct {
	ID   string   `json:"id,omitempty"`
	From Endpoint `json:"from"`
	To   Endpoint `json:"to"`
}

// CustomGate is the persisted description of a custom gate kind.
//
type CustomGate struct {
	Type         string    `json:"type"`
	Label        string    `json:"label"`
	FileName     string    `json:"fileName,omitempty"`
	Description  string    `json:"description,omitempty"`
	InputNames   []string  `json:"inputNames,omitempty"`
	OutputNames  []string  `json:"outputNames,omitempty"`
	Abbreviation string    `json:"abbreviation,omitempty"`
	VHDL         string    `json:"customVhdl,omitempty"`
	Source       Source    `json:"source,omitempty"`
	Snapshot     *Snapshot `json:"snapshot,omitempty"`
}

// ParseSnapshot decodes a JSON snapshot. It only fails on malformed JSON;
// invalid records are dropped or defaulted (see DecodeSnapshot).
//
func ParseSnapshot(data []byte) (*Snapshot, error) {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "parse snapshot")
	}
	return DecodeSnapshot(raw), nil
}

// MarshalIndent encodes s as indented JSON followed by a newline.
//
func (s *Snapshot) MarshalIndent() ([]byte, error) {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encode snapshot")
	}
	return append(b, '\n'), nil
}

// Clone returns a deep copy of s.
//
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	c, err := copystructure.Copy(s)
	if err != nil {
		// Snapshot only holds plain data
		panic(err)
	}
	return c.(*Snapshot)
}
