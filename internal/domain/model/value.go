// Package model contains domain models passed between pipeline stages.
package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind discriminates the states a feature or attribute value can be in.
// Only KindNumber carries a numeric payload; the rest are in-band
// markers that downstream models observe and impute, never errors.
type Kind uint8

const (
	// KindUnavailable means the stat was never collected under the
	// record's source schema, or a required opponent timeline was
	// missing. Distinct from zero. Deliberately the zero Kind: a
	// missing map entry reads as unavailable, never as the number 0.
	KindUnavailable Kind = iota

	// KindNumber is a plain numeric observation or computed feature.
	KindNumber

	// KindInsufficientHistory means too few prior games existed as of
	// the computation point to produce a value at all.
	KindInsufficientHistory

	// KindUndefined means a rate feature hit a zero denominator.
	KindUndefined
)

// Serialized marker forms. Numbers serialize via strconv; a trailing
// tilde marks an incomplete-window number.
const (
	markerUnavailable  = "!unavailable"
	markerInsufficient = "!insufficient"
	markerUndefined    = "!undefined"
	incompleteSuffix   = "~"
)

// Value is a tagged union for attribute and feature values.
// Incomplete is meaningful only on KindNumber: it flags a windowed
// feature computed over fewer games than the window asked for.
type Value struct {
	Kind       Kind
	Num        float64
	Incomplete bool
}

// Number returns a complete numeric value.
func Number(f float64) Value {
	return Value{Kind: KindNumber, Num: f}
}

// IncompleteNumber returns a numeric value computed over a short window.
func IncompleteNumber(f float64) Value {
	return Value{Kind: KindNumber, Num: f, Incomplete: true}
}

// Unavailable returns the structurally-absent marker.
func Unavailable() Value {
	return Value{Kind: KindUnavailable}
}

// InsufficientHistory returns the no-prior-data marker.
func InsufficientHistory() Value {
	return Value{Kind: KindInsufficientHistory}
}

// Undefined returns the zero-denominator marker.
func Undefined() Value {
	return Value{Kind: KindUndefined}
}

// IsNumber reports whether v carries a numeric payload.
func (v Value) IsNumber() bool {
	return v.Kind == KindNumber
}

// Float returns the numeric payload and whether one exists.
func (v Value) Float() (float64, bool) {
	if v.Kind != KindNumber {
		return 0, false
	}
	return v.Num, true
}

// String renders v in its serialized form, suitable for CSV cells.
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		s := strconv.FormatFloat(v.Num, 'g', -1, 64)
		if v.Incomplete {
			return s + incompleteSuffix
		}
		return s
	case KindUnavailable:
		return markerUnavailable
	case KindInsufficientHistory:
		return markerInsufficient
	case KindUndefined:
		return markerUndefined
	default:
		return markerUnavailable
	}
}

// ParseValue is the inverse of String. Round-tripping preserves the
// kind, the incomplete flag, and numeric payloads exactly.
func ParseValue(s string) (Value, error) {
	switch s {
	case markerUnavailable:
		return Unavailable(), nil
	case markerInsufficient:
		return InsufficientHistory(), nil
	case markerUndefined:
		return Undefined(), nil
	}
	incomplete := strings.HasSuffix(s, incompleteSuffix)
	num := strings.TrimSuffix(s, incompleteSuffix)
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Value{}, fmt.Errorf("parse value %q: %w", s, err)
	}
	return Value{Kind: KindNumber, Num: f, Incomplete: incomplete}, nil
}
