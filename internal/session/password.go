package session

import (
	"strings"
	"unicode"
)

// PolicyError reports every password policy rule a candidate fails, so the
// user sees the full list at once instead of fixing one rule per attempt.
type PolicyError struct {
	Violations []string
}

func (e *PolicyError) Error() string {
	return "session: password " + strings.Join(e.Violations, "; ")
}

// PolicyViolations checks the platform password policy: at least 8
// characters with one lowercase letter, one uppercase letter, and one digit.
// An empty result means the password is acceptable.
func PolicyViolations(password string) []string {
	var violations []string
	if len(password) < 8 {
		violations = append(violations, "must be at least 8 characters")
	}
	if !strings.ContainsFunc(password, unicode.IsLower) {
		violations = append(violations, "must contain a lowercase letter")
	}
	if !strings.ContainsFunc(password, unicode.IsUpper) {
		violations = append(violations, "must contain an uppercase letter")
	}
	if !strings.ContainsFunc(password, unicode.IsDigit) {
		violations = append(violations, "must contain a digit")
	}
	return violations
}
