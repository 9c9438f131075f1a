// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gatesim

import (
	"strconv"

	"github.com/pkg/errors"
)

// A Code identifies the kind of failure of a strict (compile or export)
// operation.
//
type Code int

// Error codes.
//
const (
	UnknownGateKind Code = iota + 1
	NestedCustomGateUnsupported
	CustomGateMissingTemplate
	InvalidCustomGateInterface
)

var codeNames = [...]string{
	UnknownGateKind:             "UnknownGateKind",
	NestedCustomGateUnsupported: "NestedCustomGateUnsupported",
	CustomGateMissingTemplate:   "CustomGateMissingTemplate",
	InvalidCustomGateInterface:  "InvalidCustomGateInterface",
}

func (c Code) String() string {
	if c > 0 && int(c) < len(codeNames) {
		return codeNames[c]
	}
	return "Code(" + strconv.Itoa(int(c)) + ")"
}

// Error is the error type returned by strict operations. It carries the
// offending gate id (if any) and gate type.
//
type Error struct {
	Code   Code
	GateID string
	Type   string
	Msg    string
}

func (e *Error) Error() string {
	s := e.Code.String()
	if e.Type != "" {
		s += " " + strconv.Quote(e.Type)
	}
	if e.GateID != "" {
		s += " (gate " + e.GateID + ")"
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}

// NewError returns an *Error with a stack trace attached.
//
func NewError(code Code, gateID, typ, msg string) error {
	return errors.WithStack(&Error{Code: code, GateID: gateID, Type: typ, Msg: msg})
}

// IsCode reports whether err, or any error it wraps, is an *Error with the
// given code.
//
func IsCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
