// Package validate provides input sanitization and field validators.
// Validators accumulate every violation instead of failing fast so callers
// can report all issues in one response.
package validate

import (
	"fmt"
	"html"
	"net/mail"
	"regexp"
	"strings"
	"unicode"
)

// MinPasswordLength is the password length policy.
const MinPasswordLength = 6

var namePattern = regexp.MustCompile(`^[A-Za-z ]+$`)

// Result holds the outcome of a validation, accumulating all errors.
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

func result(errors []string) Result {
	return Result{Valid: len(errors) == 0, Errors: errors}
}

// Sanitize trims whitespace, strips control characters and neutralizes
// markup so stored fields are safe to render later.
func Sanitize(text string) string {
	text = strings.TrimSpace(text)
	text = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, text)
	return html.EscapeString(text)
}

// Email validates an email address.
func Email(email string) Result {
	var errors []string
	if email == "" {
		errors = append(errors, "Email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		errors = append(errors, "Invalid email address")
	}
	return result(errors)
}

// Name validates a person's name: letters and spaces only.
func Name(name string) Result {
	var errors []string
	if name == "" {
		errors = append(errors, "Name is required")
	} else if !namePattern.MatchString(name) {
		errors = append(errors, "Name must contain only letters and spaces")
	}
	return result(errors)
}

// Password validates a password against the length policy. Further
// complexity rules slot in here as additional appends.
func Password(password string) Result {
	var errors []string
	if password == "" {
		errors = append(errors, "Password is required")
	} else if len(password) < MinPasswordLength {
		errors = append(errors, fmt.Sprintf("Password must be at least %d characters long", MinPasswordLength))
	}
	return result(errors)
}

// Merge combines several results into one, concatenating their errors.
func Merge(results ...Result) Result {
	var errors []string
	for _, r := range results {
		errors = append(errors, r.Errors...)
	}
	return result(errors)
}

// Message joins all errors of a result for a single-line response.
func (r Result) Message() string {
	return strings.Join(r.Errors, ". ")
}
