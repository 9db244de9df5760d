// Project ORBITA - Satellite Intelligence and Industrial Monitoring Dashboard
// Copyright 2026 catchmeifyoucaan
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/catchmeifyoucaan/projectORBITA

// Package orbit owns the satellite catalog: fetching and parsing TLE
// element sets, caching the last good set locally, and computing
// geodetic positions and visibility passes from the elements via SGP4.
package orbit

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Element is one catalog entry: the satellite name plus its two-line
// element set, with identity fields pre-parsed from line 1.
type Element struct {
	Name           string `json:"name"`
	Line1          string `json:"line1"`
	Line2          string `json:"line2"`
	CatalogNumber  int    `json:"catalog_number"`
	Classification string `json:"classification"`
}

// ID returns the stable identifier used across the API: the NORAD
// catalog number in decimal form.
func (e Element) ID() string {
	return strconv.Itoa(e.CatalogNumber)
}

// ParseTLESet parses a Celestrak-style three-line element file
// (name line, line 1, line 2, repeated). Malformed entries are
// skipped; the error is non-nil only when nothing could be parsed
// from a non-empty input.
func ParseTLESet(r io.Reader) ([]Element, error) {
	scanner := bufio.NewScanner(r)

	var (
		elements []Element
		lines    []string
		sawInput bool
	)

	flush := func() {
		if len(lines) != 3 {
			lines = lines[:0]
			return
		}
		if el, err := parseEntry(lines[0], lines[1], lines[2]); err == nil {
			elements = append(elements, el)
		}
		lines = lines[:0]
	}

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \r")
		if line == "" {
			continue
		}
		sawInput = true

		// A name line while a previous entry is incomplete means the
		// previous entry was malformed; start over from this name.
		if !strings.HasPrefix(line, "1 ") && !strings.HasPrefix(line, "2 ") {
			flush()
			lines = append(lines[:0], line)
			continue
		}
		lines = append(lines, line)
		if len(lines) == 3 {
			flush()
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read element set: %w", err)
	}

	if len(elements) == 0 && sawInput {
		return nil, fmt.Errorf("no valid TLE entries in input")
	}
	return elements, nil
}

// tleLineLength is the fixed width of both element lines. The SGP4
// library parses by column slice and aborts the process on fields it
// cannot read, so every line it will see must be full width and every
// numeric field must already be known to parse.
const tleLineLength = 69

func parseEntry(name, line1, line2 string) (Element, error) {
	if len(line1) < tleLineLength || len(line2) < tleLineLength {
		return Element{}, fmt.Errorf("element lines too short for %q", name)
	}
	if !strings.HasPrefix(line1, "1 ") || !strings.HasPrefix(line2, "2 ") {
		return Element{}, fmt.Errorf("element lines out of order for %q", name)
	}

	// Columns 3-7 of line 1 hold the catalog number, column 8 the
	// classification flag.
	catNum, err := strconv.Atoi(strings.TrimSpace(line1[2:7]))
	if err != nil {
		return Element{}, fmt.Errorf("catalog number for %q: %w", name, err)
	}

	cat2, err := strconv.Atoi(strings.TrimSpace(line2[2:7]))
	if err != nil || cat2 != catNum {
		return Element{}, fmt.Errorf("catalog number mismatch for %q", name)
	}

	if err := checkLine1Fields(line1); err != nil {
		return Element{}, fmt.Errorf("line 1 for %q: %w", name, err)
	}
	if err := checkLine2Fields(line2); err != nil {
		return Element{}, fmt.Errorf("line 2 for %q: %w", name, err)
	}

	return Element{
		Name:           strings.TrimSpace(name),
		Line1:          line1,
		Line2:          line2,
		CatalogNumber:  catNum,
		Classification: string(line1[7]),
	}, nil
}

// checkLine1Fields pre-validates the numeric columns SGP4
// initialization reads from line 1, reconstructing the implied-decimal
// fields exactly the way the propagation library does.
func checkLine1Fields(line string) error {
	if _, err := strconv.ParseInt(line[18:20], 10, 0); err != nil {
		return fmt.Errorf("epoch year: %w", err)
	}
	fields := []struct{ value, name string }{
		{line[20:32], "epoch day"},
		{strings.Replace(line[33:43], " ", "", 2), "mean motion derivative"},
		{strings.Replace(line[44:45]+"."+line[45:50]+"e"+line[50:52], " ", "", 2), "second derivative"},
		{strings.Replace(line[53:54]+"."+line[54:59]+"e"+line[59:61], " ", "", 2), "drag term"},
	}
	return checkFloatFields(fields)
}

// checkLine2Fields pre-validates the orbital element columns of line 2.
func checkLine2Fields(line string) error {
	fields := []struct{ value, name string }{
		{strings.Replace(line[8:16], " ", "", 2), "inclination"},
		{strings.Replace(line[17:25], " ", "", 2), "right ascension"},
		{"." + line[26:33], "eccentricity"},
		{strings.Replace(line[34:42], " ", "", 2), "argument of perigee"},
		{strings.Replace(line[43:51], " ", "", 2), "mean anomaly"},
		{strings.Replace(line[52:63], " ", "", 2), "mean motion"},
	}
	return checkFloatFields(fields)
}

func checkFloatFields(fields []struct{ value, name string }) error {
	for _, f := range fields {
		if _, err := strconv.ParseFloat(f.value, 64); err != nil {
			return fmt.Errorf("%s field: %w", f.name, err)
		}
	}
	return nil
}
