package database

import (
	"sort"
	"strings"
)

// mergeOptions overlays overrides on defaults and returns the keys sorted so
// generated DSNs are stable.
func mergeOptions(defaults, overrides map[string]string) ([]string, map[string]string) {
	merged := make(map[string]string, len(defaults)+len(overrides))
	for key, value := range defaults {
		merged[key] = value
	}
	for key, value := range overrides {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		merged[key] = value
	}

	keys := make([]string, 0, len(merged))
	for key := range merged {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, merged
}

// quoteLibpq quotes a keyword/value connection string value when needed.
func quoteLibpq(value string) string {
	if value != "" && !strings.ContainsAny(value, ` '\`) {
		return value
	}
	escaped := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(value)
	return "'" + escaped + "'"
}
