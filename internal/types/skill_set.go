// Package types provides type definitions for structured data used throughout the skillmatch system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CanonicalLabel renders a skill label in its canonical form: inner whitespace
// collapsed, trimmed, and title-cased ("machine  learning" -> "Machine Learning",
// "SQL" -> "Sql"). Returns "" for blank input.
func CanonicalLabel(label string) string {
	fields := strings.Fields(label)
	if len(fields) == 0 {
		return ""
	}
	// A Caser is stateful, so one is built per call.
	return cases.Title(language.Und).String(strings.Join(fields, " "))
}

// LabelKey returns the comparison key for a label. Two labels are the same
// skill iff their keys are equal.
func LabelKey(label string) string {
	return strings.ToLower(strings.Join(strings.Fields(label), " "))
}

// SkillSet is a set of canonical skill labels with case-insensitive identity.
// The zero value is an empty set ready to use.
type SkillSet struct {
	labels map[string]string // key -> canonical label
}

// NewSkillSet builds a set from the given labels, skipping blanks.
func NewSkillSet(labels ...string) SkillSet {
	s := SkillSet{labels: make(map[string]string, len(labels))}
	for _, l := range labels {
		s.Add(l)
	}
	return s
}

// Add inserts a label in canonical form. Returns false if the label was blank
// or already present.
func (s *SkillSet) Add(label string) bool {
	key := LabelKey(label)
	if key == "" {
		return false
	}
	if s.labels == nil {
		s.labels = make(map[string]string)
	}
	if _, exists := s.labels[key]; exists {
		return false
	}
	s.labels[key] = CanonicalLabel(label)
	return true
}

// AddAll inserts every label of other.
func (s *SkillSet) AddAll(other SkillSet) {
	for key, label := range other.labels {
		if s.labels == nil {
			s.labels = make(map[string]string, len(other.labels))
		}
		s.labels[key] = label
	}
}

// Contains reports whether the set holds the label, ignoring case.
func (s SkillSet) Contains(label string) bool {
	_, ok := s.labels[LabelKey(label)]
	return ok
}

// Len returns the number of distinct skills.
func (s SkillSet) Len() int {
	return len(s.labels)
}

// IsEmpty reports whether the set has no skills.
func (s SkillSet) IsEmpty() bool {
	return len(s.labels) == 0
}

// Labels returns the canonical labels in alphabetical order.
func (s SkillSet) Labels() []string {
	out := make([]string, 0, len(s.labels))
	for _, label := range s.labels {
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}

// Union returns a new set holding the skills of both sets.
func (s SkillSet) Union(other SkillSet) SkillSet {
	out := SkillSet{labels: make(map[string]string, len(s.labels)+len(other.labels))}
	out.AddAll(s)
	out.AddAll(other)
	return out
}

// Intersect returns the skills present in both sets.
func (s SkillSet) Intersect(other SkillSet) SkillSet {
	out := SkillSet{labels: make(map[string]string)}
	for key, label := range s.labels {
		if _, ok := other.labels[key]; ok {
			out.labels[key] = label
		}
	}
	return out
}

// Difference returns the skills of s that are absent from other.
func (s SkillSet) Difference(other SkillSet) SkillSet {
	out := SkillSet{labels: make(map[string]string)}
	for key, label := range s.labels {
		if _, ok := other.labels[key]; !ok {
			out.labels[key] = label
		}
	}
	return out
}

// Equal reports whether both sets hold the same skills.
func (s SkillSet) Equal(other SkillSet) bool {
	if len(s.labels) != len(other.labels) {
		return false
	}
	for key := range s.labels {
		if _, ok := other.labels[key]; !ok {
			return false
		}
	}
	return true
}

// String joins the sorted labels with ", ".
func (s SkillSet) String() string {
	return strings.Join(s.Labels(), ", ")
}

// MarshalJSON encodes the set as a sorted array of labels.
func (s SkillSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Labels())
}

// UnmarshalJSON decodes an array of labels, canonicalizing each one.
func (s *SkillSet) UnmarshalJSON(data []byte) error {
	var labels []string
	if err := json.Unmarshal(data, &labels); err != nil {
		return err
	}
	*s = NewSkillSet(labels...)
	return nil
}
