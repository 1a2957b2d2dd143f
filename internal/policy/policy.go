// Package policy implements the password-shape rules a secret must satisfy
// before it is checked against the credential store.
//
// All rules work on raw bytes with C-locale character classes: length is
// len(s), uppercase means 'A'..'Z', and any byte that is not an ASCII letter
// or digit counts as special. Control characters, NUL and non-ASCII bytes
// get no treatment beyond that.
package policy

import "strings"

const (
	MinLength = 5
	MaxLength = 10
)

// Rule identifies one password requirement.
type Rule int

const (
	RuleMinLength Rule = iota + 1
	RuleMaxLength
	RuleUpperCase
	RuleSpecialChar
)

// Rules lists every rule in evaluation order.
var Rules = []Rule{RuleMinLength, RuleMaxLength, RuleUpperCase, RuleSpecialChar}

func (r Rule) String() string {
	switch r {
	case RuleMinLength:
		return "min_length"
	case RuleMaxLength:
		return "max_length"
	case RuleUpperCase:
		return "uppercase"
	case RuleSpecialChar:
		return "special"
	default:
		return "unknown"
	}
}

// Description is the user-facing wording of the rule.
func (r Rule) Description() string {
	switch r {
	case RuleMinLength:
		return "at least 5 characters"
	case RuleMaxLength:
		return "at most 10 characters"
	case RuleUpperCase:
		return "1 uppercase letter"
	case RuleSpecialChar:
		return "1 special character"
	default:
		return "unknown rule"
	}
}

// Holds reports whether s satisfies r.
func (r Rule) Holds(s string) bool {
	switch r {
	case RuleMinLength:
		return HasMinLength(s)
	case RuleMaxLength:
		return HasMaxLength(s)
	case RuleUpperCase:
		return HasUpperCase(s)
	case RuleSpecialChar:
		return HasSpecialChar(s)
	default:
		return false
	}
}

// GenericMessage is shown for any policy failure.
const GenericMessage = "password must be 5-10 characters with 1 uppercase and 1 special character"

// Evaluate reports whether candidate satisfies all four rules.
func Evaluate(candidate string) bool {
	return HasMinLength(candidate) &&
		HasMaxLength(candidate) &&
		HasUpperCase(candidate) &&
		HasSpecialChar(candidate)
}

func HasMinLength(s string) bool {
	return len(s) >= MinLength
}

func HasMaxLength(s string) bool {
	return len(s) <= MaxLength
}

func HasUpperCase(s string) bool {
	for i := 0; i < len(s); i++ {
		if isUpper(s[i]) {
			return true
		}
	}
	return false
}

func HasSpecialChar(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isAlnum(s[i]) {
			return true
		}
	}
	return false
}

// Violations returns every rule candidate breaks, in Rules order. It is
// empty exactly when Evaluate(candidate) is true.
func Violations(candidate string) []Rule {
	var failed []Rule
	for _, r := range Rules {
		if !r.Holds(candidate) {
			failed = append(failed, r)
		}
	}
	return failed
}

// Message renders violations for display. It starts with GenericMessage and
// names the unmet rules; no violations gives "".
func Message(violations []Rule) string {
	if len(violations) == 0 {
		return ""
	}
	missing := make([]string, len(violations))
	for i, r := range violations {
		missing[i] = r.Description()
	}
	return GenericMessage + " (missing: " + strings.Join(missing, ", ") + ")"
}

func isUpper(c byte) bool {
	return 'A' <= c && c <= 'Z'
}

func isAlnum(c byte) bool {
	return isUpper(c) || ('a' <= c && c <= 'z') || ('0' <= c && c <= '9')
}
