package resume

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/spigell/resume-matcher/internal/utils"
)

const (
	nameScanLines = 5
	nameMinRunes  = 4
	nameMaxRunes  = 49

	experienceScanLimit = 20
	experienceKeepLines = 15
	experienceFallback  = 500

	educationBefore   = 2
	educationAfter    = 5
	educationKeepLine = 10
)

var (
	emailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)
	phoneRe = regexp.MustCompile(`[\+]?[(]?[0-9]{3}[)]?[-\s\.]?[0-9]{3}[-\s\.]?[0-9]{4,6}`)

	experienceMarkers = []string{"experience", "work history", "employment", "career"}
	educationMarkers  = []string{"education", "degree", "university", "college", "bachelor", "master", "phd"}
)

// ExtractName returns the first line among the first five whose trimmed
// length is between 4 and 49 runes.
func ExtractName(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > nameScanLines {
		lines = lines[:nameScanLines]
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		n := utf8.RuneCountInString(line)
		if n >= nameMinRunes && n <= nameMaxRunes {
			return line
		}
	}

	return UnknownName
}

// ExtractEmail returns the first email-like token or "".
func ExtractEmail(text string) string {
	return emailRe.FindString(text)
}

// ExtractPhone returns the first phone-like digit group or "".
func ExtractPhone(text string) string {
	return phoneRe.FindString(text)
}

// ExtractExperience returns up to 15 lines starting at the first line that
// mentions work history. Without such a line it returns the first 500 runes.
func ExtractExperience(text string) string {
	var section []string
	inSection := false

	for _, line := range strings.Split(text, "\n") {
		if !inSection && containsAny(strings.ToLower(line), experienceMarkers) {
			inSection = true
		}
		if !inSection {
			continue
		}

		section = append(section, line)
		if len(section) > experienceScanLimit {
			break
		}
	}

	if len(section) == 0 {
		return utils.TruncateRunes(text, experienceFallback)
	}

	if len(section) > experienceKeepLines {
		section = section[:experienceKeepLines]
	}

	return strings.Join(section, "\n")
}

// ExtractEducation collects a window of lines around every line that mentions
// a degree or school and returns the first 10 collected lines.
// Overlapping windows repeat lines.
func ExtractEducation(text string) string {
	lines := strings.Split(text, "\n")

	var section []string
	for i, line := range lines {
		if !containsAny(strings.ToLower(line), educationMarkers) {
			continue
		}

		start := max(0, i-educationBefore)
		end := min(len(lines), i+educationAfter)
		section = append(section, lines[start:end]...)

		if len(section) >= educationKeepLine {
			break
		}
	}

	if len(section) > educationKeepLine {
		section = section[:educationKeepLine]
	}

	return strings.Join(section, "\n")
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// dedupe keeps the first occurrence of each value.
func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}
