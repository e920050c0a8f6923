// Package permute generates candidate email addresses from a person's name
// and a company domain. It is pure: no I/O, deterministic output.
package permute

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Candidates returns candidate addresses for the given name at the given
// domain, ordered most-likely-first. The verification engine stops at the
// first valid result, so the order is part of the contract. Any empty input
// yields no candidates.
func Candidates(firstName, lastName, domain string) []string {
	f := strings.ToLower(strings.TrimSpace(firstName))
	l := strings.ToLower(strings.TrimSpace(lastName))
	d := strings.ToLower(strings.TrimSpace(domain))

	if f == "" || l == "" || d == "" {
		return nil
	}

	fi := initial(f)
	li := initial(l)

	// Common corporate patterns, ordered by observed frequency.
	return []string{
		fmt.Sprintf("%s.%s@%s", f, l, d),  // john.doe@nike.com
		fmt.Sprintf("%s%s@%s", fi, l, d),  // jdoe@nike.com
		fmt.Sprintf("%s@%s", f, d),        // john@nike.com
		fmt.Sprintf("%s%s@%s", f, l, d),   // johndoe@nike.com
		fmt.Sprintf("%s.%s@%s", l, f, d),  // doe.john@nike.com
		fmt.Sprintf("%s_%s@%s", f, l, d),  // john_doe@nike.com
		fmt.Sprintf("%s.%s@%s", fi, l, d), // j.doe@nike.com
		fmt.Sprintf("%s%s@%s", l, f, d),   // doejohn@nike.com
		fmt.Sprintf("%s%s@%s", f, li, d),  // johnd@nike.com
	}
}

// initial returns the first letter as a full rune, not a byte.
func initial(s string) string {
	_, size := utf8.DecodeRuneInString(s)
	return s[:size]
}

// SplitName derives first and last name from a full display name. Middle
// tokens are dropped. Returns ok=false when fewer than two tokens remain,
// in which case enrichment is skipped for the record.
func SplitName(full string) (first, last string, ok bool) {
	parts := strings.Fields(full)
	if len(parts) < 2 {
		return "", "", false
	}
	return parts[0], parts[len(parts)-1], true
}

// CompanyDomain derives a candidate domain from a company name: lower-cased,
// whitespace stripped, ".com" appended.
func CompanyDomain(company string) string {
	d := strings.ToLower(company)
	d = strings.Join(strings.Fields(d), "")
	return d + ".com"
}
