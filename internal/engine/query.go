package engine

import (
	"fmt"
	"regexp"
	"strings"
)

// Dork builds the professional-profile search query for a role at a
// company. The role is expanded with its common leadership variants so a
// single query covers "CMO", "Head of Marketing", and "Director of
// Marketing" style titles.
func Dork(role, company string) string {
	return fmt.Sprintf(`site:linkedin.com/in ("%s" OR "Head of %s" OR "Director of %s") "%s"`,
		role, role, role, company)
}

// phoneDork builds the follow-up query used to find a phone number for a
// named person. Profile pages never publish numbers, so they are excluded.
func phoneDork(name, company string) string {
	return fmt.Sprintf(`"%s" "%s" (phone OR mobile OR contact) -site:linkedin.com`, name, company)
}

var phoneRE = regexp.MustCompile(`\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)

// ExtractPhone pulls the first US-format phone number out of free text.
func ExtractPhone(text string) string {
	return phoneRE.FindString(text)
}

var (
	experienceRE = regexp.MustCompile(`(?i)Experience:\s*(.*?)(?:\s·\sEducation:|\s·\sLocation:|$)`)
	educationRE  = regexp.MustCompile(`(?i)Education:\s*(.*?)(?:\s·\sLocation:|$)`)
)

// ParseRichSnippet pulls work history and education out of a profile
// page's og:description, which follows an
// "Experience: Company · Education: University · Location: City" shape.
func ParseRichSnippet(description string) (workHistory, education string) {
	if m := experienceRE.FindStringSubmatch(description); m != nil {
		workHistory = strings.TrimSpace(m[1])
	}
	if m := educationRE.FindStringSubmatch(description); m != nil {
		education = strings.TrimSpace(m[1])
	}
	return workHistory, education
}

// ParseResultTitle splits a search result title into a person name and a
// headline. Profile titles follow a "Name - Title - Company | LinkedIn"
// shape; site suffixes and result-page ellipses are stripped before the
// split.
func ParseResultTitle(title string) (name, headline string) {
	title = strings.TrimSpace(title)
	title = strings.TrimSuffix(title, "| LinkedIn")
	title = strings.TrimSuffix(title, "...")
	title = strings.TrimSpace(title)

	parts := strings.Split(title, " - ")
	name = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		headline = strings.TrimSpace(strings.Join(parts[1:], " - "))
	}
	return name, headline
}

// isProfileURL reports whether a link points at an individual profile
// rather than a company page or post.
func isProfileURL(link string) bool {
	return strings.Contains(link, "linkedin.com/in/")
}
