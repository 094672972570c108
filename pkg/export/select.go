package export

import "github.com/bmatcuk/doublestar/v4"

// Select returns the titles kept by the include and exclude patterns, in the
// order given. Patterns use doublestar syntax ("*", "?", "[a-z]", "{a,b}")
// and are matched against the whole title; malformed patterns never match.
func Select(titles, include, exclude []string) []string {
	selected := make([]string, 0, len(titles))
	for _, title := range titles {
		if len(include) > 0 && !matchAny(title, include) {
			continue
		}
		if matchAny(title, exclude) {
			continue
		}
		selected = append(selected, title)
	}
	return selected
}

func matchAny(title string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, title); err == nil && matched {
			return true
		}
	}
	return false
}
