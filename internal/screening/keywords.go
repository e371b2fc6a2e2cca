package screening

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	metadataKeywords = []string{
		"Python", "Java", "JavaScript", "React", "Node", "Django",
		"SQL", "AWS", "Docker", "Machine Learning", "CSV", "Excel",
	}
	questionKeywords = []string{
		"Python", "Java", "JavaScript", "React", "Node", "Django",
		"SQL", "AWS", "Docker", "Kubernetes", "Machine Learning",
		"TypeScript", "Angular", "Vue", "MongoDB", "PostgreSQL",
	}
	codingLanguages = []string{"Python", "Java", "JavaScript", "C++", "Go", "Ruby"}
)

const defaultCodingLanguage = "Python"

var (
	emailRe      = regexp.MustCompile(`[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+`)
	experienceRe = regexp.MustCompile(`(?i)(\d+)\+?\s*(?:years|yrs)\s*(?:of\s+)?(?:exp|experience)`)
	digitsRe     = regexp.MustCompile(`\d+`)
)

// detectKeywords returns the keywords found in text, case-insensitively, in
// keyword order.
func detectKeywords(text string, keywords []string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			found = append(found, kw)
		}
	}
	return found
}

// DetectSkills reports the question keywords present in resume text.
func DetectSkills(text string) []string {
	return detectKeywords(text, questionKeywords)
}

// detectLanguage returns the first coding language mentioned, Python if none.
func detectLanguage(text string) string {
	if found := detectKeywords(text, codingLanguages); len(found) > 0 {
		return found[0]
	}
	return defaultCodingLanguage
}

// detectExperienceYears takes the first "N years (of) experience" match.
// A capture that does not parse counts as one year; no match is zero.
func detectExperienceYears(text string) int {
	m := experienceRe.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 1
	}
	return n
}

func firstN(list []string, n int) []string {
	if len(list) > n {
		return list[:n]
	}
	return list
}
