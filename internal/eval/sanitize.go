// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"fmt"
	"strings"
	"unicode"
)

// swiftKeywords cannot be used as bare identifiers and are backquoted.
var swiftKeywords = map[string]bool{
	"associatedtype": true, "class": true, "deinit": true, "enum": true,
	"extension": true, "fileprivate": true, "func": true, "import": true,
	"init": true, "inout": true, "internal": true, "let": true, "open": true,
	"operator": true, "private": true, "precedencegroup": true,
	"protocol": true, "public": true, "rethrows": true, "static": true,
	"struct": true, "subscript": true, "typealias": true, "var": true,
	"break": true, "case": true, "catch": true, "continue": true,
	"default": true, "defer": true, "do": true, "else": true,
	"fallthrough": true, "for": true, "guard": true, "if": true, "in": true,
	"repeat": true, "return": true, "throw": true, "switch": true,
	"where": true, "while": true, "as": true, "Any": true, "false": true,
	"is": true, "nil": true, "self": true, "Self": true, "super": true,
	"throws": true, "true": true, "try": true,
}

// Sanitize maps a source name to a Swift identifier.
func Sanitize(name string) string {
	var sb strings.Builder
	for i, r := range name {
		switch {
		case r == '_' || unicode.IsLetter(r):
			sb.WriteRune(r)
		case unicode.IsDigit(r):
			if i == 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(r)
		case r == '-':
			sb.WriteByte('_')
		case r == '?':
			sb.WriteString("_p")
		case r == '!':
			sb.WriteString("_bang")
		case r == '*':
			sb.WriteString("_star")
		default:
			fmt.Fprintf(&sb, "_u%04X", r)
		}
	}
	s := sb.String()
	if swiftKeywords[s] {
		return "`" + s + "`"
	}
	return s
}
