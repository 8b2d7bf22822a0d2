package permkit

import (
	"strings"
)

// Matcher decides whether a granted permission covers a required one.
//
// Matching rules, in order:
//
//  1. Actions must be exactly equal. read, write and delete are disjoint;
//     there is no action hierarchy.
//  2. Both matcher strings are normalized (trimmed and lower-cased).
//  3. A granted matcher of "*" covers any required matcher.
//  4. Exact string equality covers.
//  5. Otherwise the grant covers iff the required matcher starts with the
//     granted matcher as a literal prefix.
//
// The prefix test is NOT path-segment aware: a grant on "/admin/rbac" also
// covers "/admin/rbac-extra". This is a deliberate broad-grant behavior
// inherited from the route-prefix convention; integrators who need strict
// segment boundaries should choose matcher strings with a trailing slash.
type Matcher struct{}

// NewMatcher creates a new Matcher.
func NewMatcher() *Matcher {
	return &Matcher{}
}

// NormalizeMatcher trims surrounding whitespace and lower-cases a matcher
// string. Both sides of a match are normalized before comparison.
func NormalizeMatcher(matcher string) string {
	return strings.ToLower(strings.TrimSpace(matcher))
}

// Match checks whether a granted (matcher, action) pair covers a required one.
//
// Examples:
//
//	Match({"*", read}, {"/anything", read})                  // true - wildcard
//	Match({"/admin/rbac", read}, {"/admin/rbac", read})      // true - exact
//	Match({"/admin/rbac", read}, {"/admin/rbac/roles", read}) // true - prefix
//	Match({"/admin/rbac", read}, {"/admin/rbac", write})     // false - action differs
func (m *Matcher) Match(granted, required Requirement) bool {
	if granted.Action != required.Action {
		return false
	}

	grantedMatcher := NormalizeMatcher(granted.Matcher)
	requiredMatcher := NormalizeMatcher(required.Matcher)

	if grantedMatcher == "*" {
		return true
	}
	if grantedMatcher == requiredMatcher {
		return true
	}
	return strings.HasPrefix(requiredMatcher, grantedMatcher)
}

// MatchAny checks whether any permission in the set covers the required pair.
func (m *Matcher) MatchAny(granted []Permission, required Requirement) bool {
	for _, p := range granted {
		if m.Match(p.Requirement(), required) {
			return true
		}
	}
	return false
}

// MatchAll checks whether every requirement is covered by at least one
// permission in the set. Each requirement is tested independently: the
// list is an AND of checks, each itself an OR over the granted set.
func (m *Matcher) MatchAll(granted []Permission, required []Requirement) bool {
	for _, req := range required {
		if !m.MatchAny(granted, req) {
			return false
		}
	}
	return true
}

// DefaultMatcher is the default matcher instance.
var DefaultMatcher = NewMatcher()

// MatchPermission is a convenience function using the default matcher.
func MatchPermission(granted, required Requirement) bool {
	return DefaultMatcher.Match(granted, required)
}

// MatchAnyPermission is a convenience function using the default matcher.
func MatchAnyPermission(granted []Permission, required Requirement) bool {
	return DefaultMatcher.MatchAny(granted, required)
}
