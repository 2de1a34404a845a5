// Package filter holds the set of group-address prefixes telegrams are matched against.
package filter

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/boatkit-io/knxsplit/pkg/knx"
)

const (
	// DefaultPrefix is used when no filter is configured.
	DefaultPrefix = "0/7/"

	// MaxPrefixes is the most filters a run accepts.
	MaxPrefixes = 10
)

// Error reports an unusable filter configuration.
type Error struct {
	Filter string
	Reason string
}

func (e *Error) Error() string {
	if e.Filter == "" {
		return "invalid filter set: " + e.Reason
	}
	return fmt.Sprintf("invalid filter %q: %s", e.Filter, e.Reason)
}

// Set is an ordered collection of main/middle/ prefixes with hashed membership.
type Set struct {
	prefixes []string
	lookup   map[string]struct{}
}

// Normalize appends the trailing slash a prefix is compared with.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if s != "" && !strings.HasSuffix(s, "/") {
		s += "/"
	}
	return s
}

// NewSet normalizes and validates prefixes. Empty entries are skipped; an
// empty list falls back to DefaultPrefix. Duplicates are kept.
func NewSet(prefixes []string) (*Set, error) {
	s := &Set{lookup: make(map[string]struct{}, len(prefixes))}
	for _, raw := range prefixes {
		p := Normalize(raw)
		if p == "" {
			continue
		}
		norm, err := knx.NormalizePrefix(p)
		if err != nil || norm != p {
			return nil, &Error{Filter: raw, Reason: "expected main/middle/"}
		}
		s.prefixes = append(s.prefixes, p)
		s.lookup[p] = struct{}{}
	}
	if len(s.prefixes) > MaxPrefixes {
		return nil, &Error{Reason: fmt.Sprintf("%d filters given, at most %d allowed", len(s.prefixes), MaxPrefixes)}
	}
	if len(s.prefixes) == 0 {
		s.prefixes = []string{DefaultPrefix}
		s.lookup[DefaultPrefix] = struct{}{}
	}
	return s, nil
}

// Match reports whether prefix equals one of the set's entries.
func (s *Set) Match(prefix string) bool {
	_, ok := s.lookup[prefix]
	return ok
}

// Unique returns the entries in configured order without duplicates.
func (s *Set) Unique() []string {
	out := make([]string, 0, len(s.prefixes))
	for _, p := range s.prefixes {
		if !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	return out
}

// Tags returns the unique entries in file name form: 0/7/ becomes 0_7.
func (s *Set) Tags() []string {
	unique := s.Unique()
	tags := make([]string, len(unique))
	for i, p := range unique {
		tags[i] = strings.Trim(strings.ReplaceAll(p, "/", "_"), "_")
	}
	return tags
}

// String lists the entries comma separated, duplicates included.
func (s *Set) String() string {
	return strings.Join(s.prefixes, ", ")
}
