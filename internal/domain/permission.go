package domain

import (
	"encoding/json"
	"strings"
)

// Permission is a validated permission string: "category.action",
// "category.*", or the global wildcard "*". Matching is case-sensitive and
// wildcards nest exactly one level deep.
type Permission string

// Wildcard is the global permission matching everything.
const Wildcard Permission = "*"

// ParsePermission validates a raw stored string. It rejects empty strings,
// strings with surrounding whitespace, and wildcard forms deeper than one
// level ("a.*.b", "a.b.*").
func ParsePermission(raw string) (Permission, error) {
	if raw == "" {
		return "", ErrValidation("permission must not be empty")
	}
	if strings.TrimSpace(raw) != raw {
		return "", ErrValidation("permission %q has surrounding whitespace", raw)
	}
	if raw == string(Wildcard) {
		return Wildcard, nil
	}
	if i := strings.Index(raw, "*"); i >= 0 {
		// The only wildcard form besides "*" is "category.*".
		if !strings.HasSuffix(raw, ".*") || i != len(raw)-1 || strings.Count(raw, ".") != 1 {
			return "", ErrValidation("permission %q: invalid wildcard form", raw)
		}
	}
	return Permission(raw), nil
}

// Category returns the part before the first dot, or the whole string when
// no dot is present.
func (p Permission) Category() string {
	if i := strings.Index(string(p), "."); i >= 0 {
		return string(p)[:i]
	}
	return string(p)
}

// PermissionSet is the flattened set of permissions a role grants.
// Order is irrelevant; the zero value is a valid empty set.
type PermissionSet map[Permission]struct{}

// NewPermissionSet builds a set from already-validated permissions.
func NewPermissionSet(perms ...Permission) PermissionSet {
	s := make(PermissionSet, len(perms))
	for _, p := range perms {
		s[p] = struct{}{}
	}
	return s
}

// ParsePermissions parses a stored JSON array of permission strings into a
// set. Malformed JSON yields the empty set together with the parse error;
// individually malformed entries are dropped. Callers treat the empty set
// as zero permissions rather than failing the request.
func ParsePermissions(rawJSON []byte) (PermissionSet, error) {
	set := PermissionSet{}
	if len(rawJSON) == 0 {
		return set, nil
	}
	var entries []string
	if err := json.Unmarshal(rawJSON, &entries); err != nil {
		return PermissionSet{}, ErrValidation("permissions payload is not a JSON string array: %v", err)
	}
	var firstErr error
	for _, e := range entries {
		p, err := ParsePermission(e)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		set[p] = struct{}{}
	}
	return set, firstErr
}

// Has reports whether the set grants the required permission:
//  1. the global wildcard "*" grants everything;
//  2. an exact member grants itself;
//  3. "category.*" grants every "category.<action>".
//
// A required string with no dot separator can only match rules 1 and 2.
func (s PermissionSet) Has(required Permission) bool {
	if _, ok := s[Wildcard]; ok {
		return true
	}
	if _, ok := s[required]; ok {
		return true
	}
	if i := strings.Index(string(required), "."); i >= 0 {
		category := string(required)[:i]
		if _, ok := s[Permission(category+".*")]; ok {
			return true
		}
	}
	return false
}

// HasAny reports whether at least one of the required permissions is
// granted. It short-circuits on the first match.
func (s PermissionSet) HasAny(required ...Permission) bool {
	for _, r := range required {
		if s.Has(r) {
			return true
		}
	}
	return false
}

// Strings returns the members as a sorted-insensitive plain slice, for
// surfacing held permissions in denial diagnostics.
func (s PermissionSet) Strings() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, string(p))
	}
	return out
}
