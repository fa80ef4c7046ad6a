// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package address standardizes free-text NYC addresses and scores the
// similarity between two address strings for fuzzy matching.
package address

import (
	"regexp"
	"strings"
)

// reUnit matches apartment/unit suffixes ("Apt 4B", "unit 12", "# 3-A").
var reUnit = regexp.MustCompile(`(?i)\s+(apt|apartment|unit|#)\s*[\w-]+`)

// reSpaces collapses runs of whitespace.
var reSpaces = regexp.MustCompile(`\s+`)

// reStreetNumber captures the leading street-number token.
var reStreetNumber = regexp.MustCompile(`^\d+`)

// boroughs are stripped entirely; they interfere with registry matching.
var boroughs = []string{
	"manhattan", "brooklyn", "bronx", "queens", "staten island",
}

// directionals maps long-form compass words to their abbreviations.
// Longer keys are applied first so "northeast" never matches as "north".
var directionals = [][2]string{
	{"northeast", "ne"}, {"northwest", "nw"},
	{"southeast", "se"}, {"southwest", "sw"},
	{"north", "n"}, {"south", "s"}, {"east", "e"}, {"west", "w"},
}

// streetTypes maps long-form street-type words to their abbreviations.
var streetTypes = [][2]string{
	{"street", "st"}, {"avenue", "ave"}, {"boulevard", "blvd"},
	{"place", "pl"}, {"road", "rd"}, {"drive", "dr"}, {"lane", "ln"},
	{"court", "ct"}, {"plaza", "plz"}, {"parkway", "pkwy"},
}

var (
	boroughRes     []*regexp.Regexp
	directionalRes []*regexp.Regexp
	streetTypeRes  []*regexp.Regexp
)

func init() {
	for _, b := range boroughs {
		boroughRes = append(boroughRes, regexp.MustCompile(`(?i),?\s*`+b+`\s*,?`))
	}
	for _, d := range directionals {
		directionalRes = append(directionalRes, regexp.MustCompile(`(?i)\b`+d[0]+`\b`))
	}
	for _, s := range streetTypes {
		streetTypeRes = append(streetTypeRes, regexp.MustCompile(`(?i)\b`+s[0]+`\b`))
	}
}

// Standardize converts a free-text address to its canonical uppercase form:
// unit tokens and borough names removed, directionals and street types
// abbreviated, whitespace collapsed. Pure and idempotent.
func Standardize(addr string) string {
	s := reUnit.ReplaceAllString(addr, "")

	for _, re := range boroughRes {
		s = re.ReplaceAllString(s, " ")
	}
	for i, re := range directionalRes {
		s = re.ReplaceAllString(s, directionals[i][1])
	}
	for i, re := range streetTypeRes {
		s = re.ReplaceAllString(s, streetTypes[i][1])
	}

	s = reSpaces.ReplaceAllString(strings.TrimSpace(s), " ")
	return strings.ToUpper(s)
}

// Similarity scores how alike two addresses are on [0,1]. Both inputs are
// standardized, compared with a longest-common-subsequence character ratio,
// and granted a flat +0.10 bonus when the leading street-number tokens
// match exactly. The result is capped at 1.0.
func Similarity(a, b string) float64 {
	sa := Standardize(a)
	sb := Standardize(b)

	sim := sequenceRatio(sa, sb)

	na := reStreetNumber.FindString(sa)
	nb := reStreetNumber.FindString(sb)
	if na != "" && na == nb {
		sim += 0.10
	}

	if sim > 1.0 {
		return 1.0
	}
	return sim
}

// StreetNumber returns the leading street-number token of addr, or "".
func StreetNumber(addr string) string {
	return reStreetNumber.FindString(strings.TrimSpace(addr))
}

// sequenceRatio is 2*LCS(a,b) / (len(a)+len(b)), the classic sequence
// matcher ratio. Two empty strings are identical by convention.
func sequenceRatio(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra)+len(rb) == 0 {
		return 1.0
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0.0
	}

	// Single-row LCS table; addresses are short so O(n*m) is fine.
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				cur[j] = prev[j-1] + 1
			} else if prev[j] >= cur[j-1] {
				cur[j] = prev[j]
			} else {
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}

	lcs := prev[len(rb)]
	return 2.0 * float64(lcs) / float64(len(ra)+len(rb))
}
