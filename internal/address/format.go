// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package address

import (
	"strings"
	"unicode"
)

// FormatError describes why an input address failed basic format checks,
// with remediation guidance for the caller.
type FormatError struct {
	Message     string   `json:"message"`
	Example     string   `json:"example"`
	Suggestions []string `json:"suggestions"`
}

func (e *FormatError) Error() string {
	return e.Message
}

// nycIndicators are substrings that mark an address as plausibly in NYC.
var nycIndicators = []string{
	"new york", "nyc", "ny", "manhattan", "brooklyn", "bronx",
	"queens", "staten island",
}

// CheckFormat rejects addresses that cannot possibly be analyzed: too
// short, no street number, or no NYC indicator. It returns nil when the
// address passes. This runs before any external call is attempted.
func CheckFormat(addr string) *FormatError {
	trimmed := strings.TrimSpace(addr)

	fail := func(suggestions ...string) *FormatError {
		return &FormatError{
			Message:     "Invalid address format",
			Example:     "350 Central Park West, New York, NY",
			Suggestions: suggestions,
		}
	}

	if len(trimmed) < 5 {
		return fail("provide a full street address, not a fragment")
	}

	hasDigit := strings.IndexFunc(trimmed, unicode.IsDigit) >= 0
	if !hasDigit {
		return fail("include the street number", "check the address spelling")
	}

	lower := strings.ToLower(trimmed)
	for _, ind := range nycIndicators {
		// Two-letter indicators must stand alone ("NY" but not "ALBANY").
		if len(ind) <= 2 {
			if containsWord(lower, ind) {
				return nil
			}
			continue
		}
		if strings.Contains(lower, ind) {
			return nil
		}
	}
	return fail(
		"include the city or borough (e.g. \"New York, NY\" or \"Brooklyn\")",
		"verify the property is located in New York City",
	)
}

// containsWord reports whether word appears in s delimited by non-letters.
func containsWord(s, word string) bool {
	idx := 0
	for {
		i := strings.Index(s[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		beforeOK := start == 0 || !unicode.IsLetter(rune(s[start-1]))
		afterOK := end == len(s) || !unicode.IsLetter(rune(s[end]))
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}
