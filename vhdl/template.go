// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package vhdl

import (
	"regexp"
	"strconv"
	"strings"
)

const zero = "'0'"

var (
	reInput  = regexp.MustCompile(`(?i)\{\{\s*input:(\d+)\s*\}\}`)
	reOutput = regexp.MustCompile(`(?i)\{\{\s*output:(\d+)\s*\}\}`)
	reGateID = regexp.MustCompile(`(?i)\{\{\s*gateId\s*\}\}`)
	reLabel  = regexp.MustCompile(`(?i)\{\{\s*label\s*\}\}`)
	reType   = regexp.MustCompile(`(?i)\{\{\s*type\s*\}\}`)
)

// TemplateContext holds the values substituted into a custom gate template.
//
type TemplateContext struct {
	Inputs  []string // resolved input operands
	Outputs []string // output signal names
	GateID  string
	Label   string
	Type    string // type label
}

// indexed returns l[n], the first element of l if n is out of range, or
// fallback if l is empty.
//
func indexed(l []string, n string, fallback string) string {
	i, err := strconv.Atoi(n)
	if err != nil || i < 0 {
		return fallback
	}
	if i < len(l) {
		return l[i]
	}
	if len(l) > 0 {
		return l[0]
	}
	return fallback
}

// Expand substitutes the placeholders {{input:N}}, {{output:N}}, {{gateId}},
// {{label}} and {{type}} in tmpl. Placeholder names are case insensitive and
// may be padded with blanks inside the braces. An out of range index expands
// to the first element, or to '0' when there is none.
//
func Expand(tmpl string, ctx *TemplateContext) string {
	if strings.TrimSpace(tmpl) == "" {
		return ""
	}
	ins := ctx.Inputs
	if len(ins) == 0 {
		ins = []string{zero}
	}
	outFallback := zero
	if len(ctx.Outputs) > 0 {
		outFallback = ctx.Outputs[0]
	}
	sub := func(re *regexp.Regexp, s string, f func(m []string) string) string {
		return re.ReplaceAllStringFunc(s, func(m string) string {
			return f(re.FindStringSubmatch(m))
		})
	}
	s := sub(reInput, tmpl, func(m []string) string { return indexed(ins, m[1], zero) })
	s = sub(reOutput, s, func(m []string) string { return indexed(ctx.Outputs, m[1], outFallback) })
	s = reGateID.ReplaceAllLiteralString(s, ctx.GateID)
	s = reLabel.ReplaceAllLiteralString(s, strings.TrimSpace(ctx.Label))
	s = reType.ReplaceAllLiteralString(s, strings.TrimSpace(ctx.Type))
	return s
}

// lines splits s into right-trimmed, non-blank lines.
//
func lines(s string) []string {
	var l []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimRight(line, " \t\r\v\f")
		if strings.TrimSpace(line) != "" {
			l = append(l, line)
		}
	}
	return l
}
