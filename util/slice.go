package util

import "strings"

// SplitList splits s on any of the separators, trimming blanks and dropping
// empty segments.
func SplitList(s string, seps ...string) []string {
	if len(seps) == 0 {
		seps = []string{","}
	}
	fields := strings.FieldsFunc(s, func(r rune) bool {
		for _, sep := range seps {
			if strings.ContainsRune(sep, r) {
				return true
			}
		}
		return false
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func Contains(src []string, value string) bool {
	for _, v := range src {
		if v == value {
			return true
		}
	}
	return false
}
