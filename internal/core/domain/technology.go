package domain

import "strings"

// technologyVocabulary is the fixed set of technology keywords recognised
// in both documents and queries.
var technologyVocabulary = []string{
	"node.js", "nodejs", "react", "python", "typescript", "javascript",
	"fastapi", "django", "flask", "mongodb", "postgresql", "mysql",
	"docker", "kubernetes", "aws", "gcp", "azure", "tensorflow",
	"pytorch", "opencv", "scikit-learn", "pandas", "numpy",
	"express", "vue", "angular", "next.js", "nuxt", "svelte",
}

// TechnologyVocabulary returns a copy of the recognised technology keywords.
func TechnologyVocabulary() []string {
	out := make([]string, len(technologyVocabulary))
	copy(out, technologyVocabulary)
	return out
}

// ScanTechnologies returns the vocabulary entries that occur in text,
// case-insensitively, as plain substrings. Results follow vocabulary order.
func ScanTechnologies(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, tech := range technologyVocabulary {
		if strings.Contains(lower, tech) {
			found = append(found, tech)
		}
	}
	return found
}

// SplitTechnologies splits a comma-separated technology list.
func SplitTechnologies(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// MergeTechnologies lower-cases, trims and deduplicates technology names,
// keeping the first-seen order across all lists.
func MergeTechnologies(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, list := range lists {
		for _, t := range list {
			t = strings.ToLower(strings.TrimSpace(t))
			if t == "" {
				continue
			}
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}
