// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package slug derives type names, abbreviations and HDL identifiers from
// free-text labels.
//
package slug

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// collapse lower-cases s and replaces every run of bytes not accepted by keep
// with sep.
//
func collapse(s string, sep byte, keep func(c byte) bool) string {
	var b strings.Builder
	s = strings.ToLower(strings.TrimSpace(s))
	run := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if keep(c) {
			b.WriteByte(c)
			run = false
			continue
		}
		if !run {
			b.WriteByte(sep)
			run = true
		}
	}
	return b.String()
}

func alnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9'
}

// Make returns the dash separated slug of s: lower case, runs of characters
// other than [a-z0-9] replaced by a single '-', no leading or trailing dash.
// It returns fallback if the result is empty.
//
func Make(s, fallback string) string {
	if r := strings.Trim(collapse(s, '-', alnum), "-"); r != "" {
		return r
	}
	return fallback
}

// Abbreviation returns the upper-cased initials of the first three words of
// label, or "CG" for an empty label.
//
func Abbreviation(label string) string {
	words := strings.Fields(label)
	if len(words) == 0 {
		return "CG"
	}
	var b strings.Builder
	for _, w := range words {
		if b.Len() >= 3 {
			break
		}
		r, _ := utf8.DecodeRuneInString(w)
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// Identifier returns s as an HDL identifier: lower case, runs of characters
// other than [a-z0-9_] replaced by '_', leading characters other than a letter
// or '_' stripped. It returns fallback if the result is empty.
//
func Identifier(s, fallback string) string {
	r := collapse(s, '_', func(c byte) bool { return alnum(c) || c == '_' })
	r = strings.TrimLeftFunc(r, func(c rune) bool { return !(c >= 'a' && c <= 'z' || c == '_') })
	if r == "" {
		return fallback
	}
	return r
}

// Set hands out names that are unique, compared case-insensitively.
//
type Set struct {
	used map[string]struct{}
}

// Add marks name as used without altering it.
//
func (s *Set) Add(name string) {
	if s.used == nil {
		s.used = make(map[string]struct{})
	}
	s.used[strings.ToLower(name)] = struct{}{}
}

// Has reports whether name is already used.
//
func (s *Set) Has(name string) bool {
	_, ok := s.used[strings.ToLower(name)]
	return ok
}

// Unique returns base, or base followed by sep and the first integer >= first
// that makes it unused, then marks the result as used.
//
func (s *Set) Unique(base, sep string, first int) string {
	c := base
	for n := first; s.Has(c); n++ {
		c = base + sep + strconv.Itoa(n)
	}
	s.Add(c)
	return c
}
