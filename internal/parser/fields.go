package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/IshaanNene/bizgoat/internal/types"
)

// Labels is the label→value dictionary of a profile's tab panel.
// Only non-empty values are stored.
type Labels map[string]string

// Get returns the value of the first key present, or nil.
func (l Labels) Get(keys ...string) *string {
	for _, k := range keys {
		if v, ok := l[k]; ok && v != "" {
			return &v
		}
	}
	return nil
}

// List splits the value of key on single pipes.
func (l Labels) List(key string) []string {
	return SplitList(l.Get(key), "|")
}

// Nested splits the value of key on double pipes and then on single pipes.
func (l Labels) Nested(key string) []string {
	return SplitNested(l.Get(key))
}

// ParseInteger strips every non-digit character from raw and parses the rest.
// It returns nil when nothing remains.
func ParseInteger(raw *string) *int {
	if raw == nil {
		return nil
	}
	digits := digitsOnly(*raw)
	if digits == "" {
		return nil
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		// Only a range error is possible here.
		n = math.MaxInt
	}
	return &n
}

// ParseGenderDistribution builds a split from the two raw sides. It returns nil
// only when both sides are absent; a missing or unparsable side counts as 0.
func ParseGenderDistribution(maleRaw, femaleRaw *string) *types.GenderDistribution {
	if isBlank(maleRaw) && isBlank(femaleRaw) {
		return nil
	}
	return &types.GenderDistribution{
		Male:   intOrZero(maleRaw),
		Female: intOrZero(femaleRaw),
	}
}

// DedupeNonEmpty trims every value, drops empties and removes duplicates,
// keeping the first occurrence. The result is never nil.
func DedupeNonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// SplitList splits raw on sep and normalizes the parts with DedupeNonEmpty.
func SplitList(raw *string, sep string) []string {
	if raw == nil {
		return []string{}
	}
	return DedupeNonEmpty(strings.Split(*raw, sep)...)
}

// SplitNested splits raw into top-level entries on "||" and each entry into
// sub-items on "|", flattening the result.
func SplitNested(raw *string) []string {
	if raw == nil {
		return []string{}
	}
	var parts []string
	for _, chunk := range strings.Split(*raw, "||") {
		parts = append(parts, strings.Split(chunk, "|")...)
	}
	return DedupeNonEmpty(parts...)
}

// Resolve returns structured when present and otherwise the result of fallback.
func Resolve(structured *string, fallback func() *string) *string {
	if structured != nil {
		return structured
	}
	if fallback == nil {
		return nil
	}
	return fallback()
}

// ResolveInt is Resolve for integer fields.
func ResolveInt(structured *int, fallback func() *int) *int {
	if structured != nil {
		return structured
	}
	if fallback == nil {
		return nil
	}
	return fallback()
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func intOrZero(raw *string) int {
	if n := ParseInteger(raw); n != nil {
		return *n
	}
	return 0
}

func isBlank(s *string) bool {
	return s == nil || *s == ""
}

// optional returns a pointer to the trimmed s, or nil when it is empty.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func intPtr(n int) *int { return &n }

func boolPtr(b bool) *bool { return &b }
