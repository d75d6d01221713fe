package models

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidLength reports an otolith length that is present but not a finite number.
var ErrInvalidLength = errors.New("length_mm must be a number")

// ParseSpeciesCSV splits a comma-separated species list into trimmed tokens.
// Order, duplicates and case are preserved; empty tokens are dropped.
func ParseSpeciesCSV(value string) []string {
	out := []string{}
	if strings.TrimSpace(value) == "" {
		return out
	}
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

// ParseLengthMM parses an otolith length in millimetres. Blank input yields nil.
func ParseLengthMM(value string) (*float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return nil, ErrInvalidLength
	}
	return &parsed, nil
}
