package extractor

import "strings"

// KeyValue is one "Key: Value" line of a payslip.
type KeyValue struct {
	Key   string
	Value string
}

// KeyValues collects every line containing a colon, split at the first
// colon and trimmed. A repeated key keeps its first position and its last
// value.
func KeyValues(lines []string) []KeyValue {
	var pairs []KeyValue
	index := make(map[string]int)
	for _, line := range lines {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if i, seen := index[key]; seen {
			pairs[i].Value = value
			continue
		}
		index[key] = len(pairs)
		pairs = append(pairs, KeyValue{Key: key, Value: value})
	}
	return pairs
}
