package utils

import "strings"

// ParseQueryList handles both repeated and comma-separated query params.
// Empty entries are dropped.
// Example:
//
//	?table=breakers,ampacity   → ["breakers","ampacity"]
//	?table=breakers&table=ampacity  → ["breakers","ampacity"]
func ParseQueryList(q map[string][]string, key string) []string {
	values := q[key]

	if len(values) == 0 {
		return nil
	}

	cleaned := make([]string, 0, len(values))
	for _, v := range values {
		// a single value may itself be a comma-separated list
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				cleaned = append(cleaned, part)
			}
		}
	}
	if len(cleaned) == 0 {
		return nil
	}
	return cleaned
}
