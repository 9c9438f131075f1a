// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gatesim

import (
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// raw records as found in persisted snapshots. Fields are decoded weakly: any
// value that cannot be coerced falls back to its zero value.

type rawGate struct {
	ID       string  `mapstructure:"id"`
	X        float64 `mapstructure:"x"`
	Y        float64 `mapstructure:"y"`
	Label    string  `mapstructure:"label"`
	Rotation float64 `mapstructure:"rotation"`
}

type rawEndpoint struct {
	GateID string  `mapstructure:"gateId"`
	Port   float64 `mapstructure:"portIndex"`
}

type rawConnection struct {
	ID   string      `mapstructure:"id"`
	From rawEndpoint `mapstructure:"from"`
	To   rawEndpoint `mapstructure:"to"`
}

type rawCustomGate struct {
	Label        string `mapstructure:"label"`
	FileName     string `mapstructure:"fileName"`
	Description  string `mapstructure:"description"`
	Abbreviation string `mapstructure:"abbreviation"`
	VHDL         string `mapstructure:"customVhdl"`
	Source       string `mapstructure:"source"`
}

type rawHeader struct {
	Version float64 `mapstructure:"version"`
	Origin  string  `mapstructure:"origin"`
	NextID  float64 `mapstructure:"nextId"`
}

// scalarHook coerces values to the target kind and never fails: numbers are
// finite-or-zero, non-scalar strings are empty and non-map structs are empty.
//
func scalarHook(_ reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	switch to.Kind() {
	case reflect.Float32, reflect.Float64, reflect.Int, reflect.Int64, reflect.Int32:
		return toFloat(data), nil
	case reflect.String:
		switch v := data.(type) {
		case string:
			return v, nil
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), nil
		case int:
			return strconv.Itoa(v), nil
		case bool:
			return strconv.FormatBool(v), nil
		}
		return "", nil
	case reflect.Struct:
		if _, ok := data.(map[string]interface{}); !ok {
			return map[string]interface{}{}, nil
		}
	}
	return data, nil
}

// toFloat converts v to a finite float64, or 0.
//
func toFloat(v interface{}) float64 {
	var f float64
	switch v := v.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case bool:
		if v {
			f = 1
		}
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0
		}
		var err error
		if f, err = strconv.ParseFloat(s, 64); err != nil {
			return 0
		}
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func decodeWeak(in interface{}, out interface{}) {
	d, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.DecodeHookFuncType(scalarHook),
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		panic(err)
	}
	// the hook makes every field decodable; a residual failure leaves the
	// fields decoded so far in place.
	_ = d.Decode(in)
}

// normalizeBit maps a persisted state to 0 or 1: positive numbers, true and
// "1" are high.
//
func normalizeBit(v interface{}) int {
	switch v := v.(type) {
	case bool:
		if v {
			return 1
		}
		return 0
	case string:
		if s := strings.TrimSpace(v); s == "1" || strings.EqualFold(s, "true") {
			return 1
		}
		return 0
	}
	if toFloat(v) > 0 {
		return 1
	}
	return 0
}

// normalizeRotation rounds r to the nearest quarter turn in [0, 360).
//
func normalizeRotation(r float64) int {
	n := math.Mod(math.Round(r/90)*90, 360)
	if n < 0 {
		n += 360
	}
	return int(n)
}

func portIndex(f float64) int {
	if f < 0 || f > math.MaxInt32 {
		return -1
	}
	return int(f)
}

func asMap(v interface{}) (map[string]interface{}, bool) {
	m, ok := v.(map[string]interface{})
	return m, ok
}

func asSlice(v interface{}) []interface{} {
	s, _ := v.([]interface{})
	return s
}

func stringList(v interface{}) []string {
	var l []string
	for _, e := range asSlice(v) {
		if s, ok := e.(string); ok {
			l = append(l, s)
		}
	}
	return l
}

// DecodeSnapshot converts an untyped JSON value into a Snapshot. It never
// fails: gates without an id and connections with an empty endpoint are
// dropped, other invalid fields are defaulted. A payload wrapped as
// {"snapshot": {...}} is unwrapped and the legacy "positions" key is accepted
// in place of "gates".
//
func DecodeSnapshot(raw interface{}) *Snapshot {
	p, ok := asMap(raw)
	if !ok {
		return &Snapshot{Version: 1, Gates: []Gate{}, Connections: []Connection{}}
	}
	if inner, ok := asMap(p["snapshot"]); ok {
		p = inner
	}

	var h rawHeader
	decodeWeak(p, &h)
	s := &Snapshot{
		Version:     int(h.Version),
		Origin:      strings.ToLower(h.Origin),
		Gates:       []Gate{},
		Connections: []Connection{},
	}
	if s.Version <= 0 {
		s.Version = 1
	}
	if h.NextID > 0 {
		s.NextID = int(h.NextID)
	}

	gates, ok := p["gates"].([]interface{})
	if !ok {
		gates = asSlice(p["positions"])
	}
	for _, e := range gates {
		if g, ok := decodeGate(e); ok {
			s.Gates = append(s.Gates, g)
		}
	}
	for _, e := range asSlice(p["connections"]) {
		if c, ok := decodeConnection(e); ok {
			s.Connections = append(s.Connections, c)
		}
	}
	for _, e := range asSlice(p["customGates"]) {
		if cg, ok := decodeCustomGate(e); ok {
			s.CustomGates = append(s.CustomGates, cg)
		}
	}
	return s
}

func decodeGate(e interface{}) (Gate, bool) {
	m, ok := asMap(e)
	if !ok {
		return Gate{}, false
	}
	var r rawGate
	decodeWeak(m, &r)
	if r.ID == "" {
		return Gate{}, false
	}
	typ, _ := m["type"].(string)
	if typ == "" {
		typ = TypeUnknown
	}
	return Gate{
		ID:       r.ID,
		Type:     typ,
		X:        r.X,
		Y:        r.Y,
		State:    normalizeBit(m["state"]),
		Label:    r.Label,
		Rotation: normalizeRotation(r.Rotation),
	}, true
}

func decodeConnection(e interface{}) (Connection, bool) {
	m, ok := asMap(e)
	if !ok {
		return Connection{}, false
	}
	var r rawConnection
	decodeWeak(m, &r)
	if r.From.GateID == "" || r.To.GateID == "" {
		return Connection{}, false
	}
	return Connection{
		ID:   r.ID,
		From: Endpoint{GateID: r.From.GateID, Port: portIndex(r.From.Port)},
		To:   Endpoint{GateID: r.To.GateID, Port: portIndex(r.To.Port)},
	}, true
}

func decodeCustomGate(e interface{}) (CustomGate, bool) {
	m, ok := asMap(e)
	if !ok {
		return CustomGate{}, false
	}
	typ, _ := m["type"].(string)
	if typ == "" {
		return CustomGate{}, false
	}
	var r rawCustomGate
	decodeWeak(m, &r)
	cg := CustomGate{
		Type:         typ,
		Label:        r.Label,
		FileName:     r.FileName,
		Description:  r.Description,
		InputNames:   stringList(m["inputNames"]),
		OutputNames:  stringList(m["outputNames"]),
		Abbreviation: r.Abbreviation,
		VHDL:         strings.TrimSpace(r.VHDL),
		Source:       normalizeSource(r.Source),
	}
	if cg.Label == "" {
		cg.Label = typ
	}
	if _, ok := asMap(m["snapshot"]); ok {
		cg.Snapshot = DecodeSnapshot(m["snapshot"])
	}
	return cg, true
}
