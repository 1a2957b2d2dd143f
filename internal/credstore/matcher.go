package credstore

import (
	"crypto/subtle"
	"fmt"

	"github.com/dmitrijs2005/gatekeeper/internal/cryptox"
)

// SecretMatcher decides whether a candidate secret matches the stored value.
type SecretMatcher interface {
	Match(stored, candidate string) (bool, error)
}

// PlainMatcher compares secrets byte for byte, in constant time.
type PlainMatcher struct{}

func (PlainMatcher) Match(stored, candidate string) (bool, error) {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1, nil
}

// Argon2Matcher treats stored values as argon2id PHC hashes.
type Argon2Matcher struct{}

func (Argon2Matcher) Match(stored, candidate string) (bool, error) {
	return cryptox.VerifySecret([]byte(candidate), stored)
}

// MatcherFor maps a configured secret scheme to its matcher.
func MatcherFor(scheme string) (SecretMatcher, error) {
	switch scheme {
	case "", "plain":
		return PlainMatcher{}, nil
	case "argon2id":
		return Argon2Matcher{}, nil
	default:
		return nil, fmt.Errorf("unknown secret scheme %q", scheme)
	}
}
