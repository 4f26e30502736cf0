package sales

import "strings"

// MergeTerms combines the configured default terms with document-specific
// terms. Lines are compared case-insensitively after trimming bullets and
// whitespace; duplicates keep their first occurrence, defaults first.
func MergeTerms(defaultTerms, documentTerms string) string {
	seen := make(map[string]bool)
	var lines []string

	appendLines := func(text string) {
		for _, raw := range strings.Split(text, "\n") {
			line := normalizeTermLine(raw)
			if line == "" {
				continue
			}
			key := strings.ToLower(line)
			if seen[key] {
				continue
			}
			seen[key] = true
			lines = append(lines, line)
		}
	}

	appendLines(defaultTerms)
	appendLines(documentTerms)

	return strings.Join(lines, "\n")
}

func normalizeTermLine(raw string) string {
	line := strings.TrimSpace(raw)
	for _, bullet := range []string{"- ", "* ", "• "} {
		if strings.HasPrefix(line, bullet) {
			line = strings.TrimSpace(strings.TrimPrefix(line, bullet))
			break
		}
	}
	return line
}
