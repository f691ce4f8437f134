// Filmdash - Movie Dataset Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmdash

package etl

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// MultiValueSeparator joins the values of Directors, Stars and Genre cells.
const MultiValueSeparator = ", "

// nameDisallowed matches everything that is not an ASCII letter,
// whitespace, a period or a hyphen. Accented letters are removed too.
var nameDisallowed = regexp.MustCompile(`[^a-zA-Z\s.\-]`)

// CleanPersonName strips disallowed characters from a director or star name
// and trims surrounding whitespace.
//
//	CleanPersonName(" Bong Joon Ho (1)") == "Bong Joon Ho"
//	CleanPersonName("Pedro Almodóvar")  == "Pedro Almodvar"
func CleanPersonName(name string) string {
	return strings.TrimSpace(nameDisallowed.ReplaceAllString(name, ""))
}

// SplitMulti splits a multi-valued cell on MultiValueSeparator. A null cell
// yields no values. Elements are not trimmed or deduplicated.
func SplitMulti(cell string) []string {
	if cell == "" {
		return nil
	}
	return strings.Split(cell, MultiValueSeparator)
}

// parseNullableFloat parses a numeric cell; empty, unparseable and
// non-finite values are null.
func parseNullableFloat(cell string) (float64, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// parseYear accepts "2019" as well as the "2019.0" form some exporters
// write for integer columns with gaps.
func parseYear(cell string) (int64, bool) {
	v, ok := parseNullableFloat(cell)
	if !ok || v != math.Trunc(v) {
		return 0, false
	}
	return int64(v), true
}
