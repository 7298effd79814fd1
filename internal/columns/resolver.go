// =============================================================================
// GSTR-1 Reconciler - Column Resolver
// =============================================================================
//
// Source extracts do not agree on header text. The GL dump says
// "G/L Account: Long Text", the trial balance says "G/L Acct Long Text", and
// period columns carry the period number ("Period 09 D"). Instead of spreading
// literal header strings through the pipeline, every semantic field is
// declared once as a FieldSpec and resolved against the actual headers when a
// table is ingested. Everything downstream addresses columns by the resolved
// name only.
//
// MATCHING RULES:
//   - Headers are compared after whitespace normalization and lowercasing.
//   - Exact specs match a header equal to the label.
//   - Token specs match a header containing every token. A token written as
//     "account|acct" is satisfied by either alternative.
//   - Exclude tokens disqualify a header that contains any of them.
//   - The first matching header wins. There is no uniqueness check.
//
// =============================================================================

package columns

import (
	"fmt"
	"regexp"
	"strings"
)

// =============================================================================
// FIELD SPEC
// =============================================================================

// FieldSpec describes how to find one semantic field in a header list.
type FieldSpec struct {
	// Label is the semantic name of the field, used in errors and as the
	// exact header text when Exact is set.
	Label string `yaml:"label"`

	// Tokens must all appear (case-insensitive substring) in the header.
	// Alternatives inside one token are separated by "|". Tokens are not
	// trimmed, so a leading space is significant.
	Tokens []string `yaml:"tokens"`

	// Exact requires the normalized header to equal Label (case-insensitive).
	Exact bool `yaml:"exact"`

	// Exclude lists tokens that must NOT appear in the header.
	Exclude []string `yaml:"exclude,omitempty"`
}

// Expected returns a human-readable description of what the spec looks for.
func (s FieldSpec) Expected() []string {
	if s.Exact {
		return []string{s.Label}
	}
	out := make([]string, len(s.Tokens))
	copy(out, s.Tokens)
	return out
}

// Matches reports whether a single header satisfies the spec.
func (s FieldSpec) Matches(header string) bool {
	h := strings.ToLower(NormalizeHeader(header))

	if s.Exact {
		return h == strings.ToLower(NormalizeHeader(s.Label))
	}

	if len(s.Tokens) == 0 {
		return false
	}

	for _, token := range s.Tokens {
		if !containsAny(h, token) {
			return false
		}
	}
	for _, token := range s.Exclude {
		if containsAny(h, token) {
			return false
		}
	}
	return true
}

// containsAny checks h against each "|"-separated alternative of token.
func containsAny(h, token string) bool {
	for _, alt := range strings.Split(strings.ToLower(token), "|") {
		if alt != "" && strings.Contains(h, alt) {
			return true
		}
	}
	return false
}

// =============================================================================
// RESOLUTION
// =============================================================================

// Resolve returns the first header in headers that satisfies spec.
//
// PARAMETERS:
//   - headers: The actual header list of a table.
//   - spec: The semantic field descriptor.
//
// RETURNS:
//   - The header exactly as it appears in headers.
//   - A *ColumnNotFoundError carrying the expected tokens and every actual
//     header when nothing matches.
func Resolve(headers []string, spec FieldSpec) (string, error) {
	for _, header := range headers {
		if spec.Matches(header) {
			return header, nil
		}
	}

	actual := make([]string, len(headers))
	copy(actual, headers)
	return "", &ColumnNotFoundError{
		Field:    spec.Label,
		Expected: spec.Expected(),
		Actual:   actual,
	}
}

// ResolveAll resolves a set of specs against one header list. The result maps
// each spec key to its resolved header. Every failure is collected; keys that
// failed are absent from the map.
func ResolveAll(headers []string, specs map[string]FieldSpec, keys ...string) (map[string]string, []error) {
	resolved := make(map[string]string, len(keys))
	var errs []error
	for _, key := range keys {
		spec, ok := specs[key]
		if !ok {
			errs = append(errs, fmt.Errorf("no field spec registered for %q", key))
			continue
		}
		header, err := Resolve(headers, spec)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		resolved[key] = header
	}
	return resolved, errs
}

// =============================================================================
// HEADER NORMALIZATION
// =============================================================================

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeHeader trims a header and collapses internal whitespace runs to a
// single space, so "G/L  Account:   Long Text" and "G/L Account: Long Text"
// compare equal. Applying it twice is a no-op.
func NormalizeHeader(header string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(header), " ")
}

// NormalizeHeaders applies NormalizeHeader to every header.
func NormalizeHeaders(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = NormalizeHeader(h)
	}
	return out
}
