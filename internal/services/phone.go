package services

import (
	"regexp"
	"strings"
)

var (
	reLetters = regexp.MustCompile(`[A-Za-z]`)
	// Only allow digits, spaces, +, -, (, )
	reAllowed = regexp.MustCompile(`^[0-9+\-\s\(\)]+$`)
	// E.164-ish: + followed by 8..15 digits (no leading 0 after +)
	reE164 = regexp.MustCompile(`^\+[1-9][0-9]{7,14}$`)
	// Indian mobile numbers without a country code.
	reINMobile = regexp.MustCompile(`^[6-9][0-9]{9}$`)
)

// NormPhone normalizes a phone number to a +E.164-like form. Numbers without a
// country code are taken to be Indian.
// Rules: strip spaces/dashes/parens; 00.. -> +..; 0.. -> +91..; bare 10-digit
// mobile -> +91..; ensure leading +. Anything with letters gives "".
func NormPhone(p string) string {
	s := strings.TrimSpace(p)
	if s == "" || reLetters.MatchString(s) || !reAllowed.MatchString(s) {
		return ""
	}

	repl := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", "\n", "", "\r", "")
	s = repl.Replace(s)

	switch {
	case strings.HasPrefix(s, "00"):
		s = "+" + s[2:]
	case strings.HasPrefix(s, "0"):
		s = "+91" + s[1:]
	case reINMobile.MatchString(s):
		s = "+91" + s
	}
	if !strings.HasPrefix(s, "+") {
		s = "+" + s
	}
	return s
}

// WhatsAppLink returns a click-to-chat link for p, or "" when p does not
// normalize to a plausible international number.
func WhatsAppLink(p string) string {
	n := NormPhone(p)
	if !reE164.MatchString(n) {
		return ""
	}
	return "https://wa.me/" + n[1:]
}
