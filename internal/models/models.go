package models

import (
	"slices"
	"strconv"
	"strings"
)

// Symbol is one discrete input value, an index into the alphabet (e.g. one of four colors).
type Symbol int

// Sequence is an ordered list of symbols: a challenge, a player's response, or the expected response.
type Sequence []Symbol

// Clone returns a copy that shares no backing array with s.
func (s Sequence) Clone() Sequence {
	if s == nil {
		return nil
	}
	out := make(Sequence, len(s))
	copy(out, s)
	return out
}

// Equal reports exact ordered equality: same length and the same symbol at every position.
func (s Sequence) Equal(other Sequence) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Distinct returns the distinct symbols of s in ascending order.
func (s Sequence) Distinct() []Symbol {
	seen := make(map[Symbol]bool, len(s))
	var out []Symbol
	for _, sym := range s {
		if !seen[sym] {
			seen[sym] = true
			out = append(out, sym)
		}
	}
	slices.Sort(out)
	return out
}

func (s Sequence) String() string {
	parts := make([]string, len(s))
	for i, sym := range s {
		parts[i] = strconv.Itoa(int(sym))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
