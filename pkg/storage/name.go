package storage

import "strings"

// DisplayName derives a human-readable title from a raw object name:
// extension stripped, '-'/'_' segments title-cased.
// "market-analysis_report.pdf" -> "Market Analysis Report".
func DisplayName(rawName string) string {
	name := rawName
	if idx := strings.LastIndex(name, "."); idx > 0 {
		name = name[:idx]
	}

	segments := strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_'
	})

	for i, seg := range segments {
		if seg == "" {
			continue
		}
		segments[i] = strings.ToUpper(seg[:1]) + seg[1:]
	}

	return strings.Join(segments, " ")
}
