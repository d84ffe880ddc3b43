package domain

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxQuestionLength bounds chat questions.
const MaxQuestionLength = 500

var (
	// emailRe matches a standard local@domain.tld shape, nothing fancier.
	emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)

	// phoneRe is a loose international pattern: optional +, then 7-15 digits
	// with common separators. An opening parenthesis may lead the area code.
	phoneRe = regexp.MustCompile(`^\+?[0-9(][0-9\s\-().]{5,18}$`)
)

func ValidEmail(s string) bool {
	return emailRe.MatchString(strings.TrimSpace(s))
}

func ValidPhone(s string) bool {
	return phoneRe.MatchString(strings.TrimSpace(s))
}

// ValidateQuestion returns a field error message for a chat question, or ""
// when it is acceptable.
func ValidateQuestion(q string) string {
	q = strings.TrimSpace(q)
	if q == "" {
		return "required"
	}
	if utf8.RuneCountInString(q) > MaxQuestionLength {
		return "must be at most 500 characters"
	}
	return ""
}

// ValidateRegistration collects field-level problems with a registration
// request. An empty map means the input is acceptable.
func ValidateRegistration(r Registration) map[string]string {
	fields := make(map[string]string)

	if strings.TrimSpace(r.EventID) == "" {
		fields["event_id"] = "required"
	}
	if strings.TrimSpace(r.Name) == "" {
		fields["name"] = "required"
	}
	switch {
	case strings.TrimSpace(r.Email) == "":
		fields["email"] = "required"
	case !ValidEmail(r.Email):
		fields["email"] = "malformed"
	}
	if strings.TrimSpace(r.Phone) != "" && !ValidPhone(r.Phone) {
		fields["phone"] = "malformed"
	}

	if len(fields) == 0 {
		return nil
	}
	return fields
}
