// Package merge implements the deep-merge used to fold agent-supplied
// updates into existing memory content.
package merge

import (
	"encoding/json"
	"fmt"
)

// Merge combines update into base without mutating either argument.
//
// If either argument is not a map, update wins verbatim. For keys present
// in both maps: two maps merge recursively, two lists concatenate
// (base first) with duplicates removed keeping first-occurrence order,
// anything else is replaced by update's value. Keys present in only one
// map are carried through. The result may share unmodified sub-structures
// with the inputs.
func Merge(base, update any) any {
	bm, bok := base.(map[string]any)
	um, uok := update.(map[string]any)
	if !bok || !uok {
		return update
	}

	out := make(map[string]any, len(bm)+len(um))
	for k, v := range bm {
		out[k] = v
	}
	for k, v := range um {
		if cur, ok := out[k]; ok {
			out[k] = mergeValue(cur, v)
		} else {
			out[k] = v
		}
	}
	return out
}

func mergeValue(base, update any) any {
	switch u := update.(type) {
	case map[string]any:
		if b, ok := base.(map[string]any); ok {
			return Merge(b, u)
		}
	case []any:
		if b, ok := base.([]any); ok {
			return mergeLists(b, u)
		}
	}
	return update
}

func mergeLists(base, update []any) []any {
	out := make([]any, 0, len(base)+len(update))
	seen := make(map[string]bool, len(base)+len(update))
	for _, list := range [2][]any{base, update} {
		for _, v := range list {
			id := identity(v)
			if seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, v)
		}
	}
	return out
}

// identity derives the dedup key for a list element. Elements of
// different types with the same serialized form (e.g. 1 and 1.0)
// collapse into one; that is a known limitation of the serialized
// comparison, kept as-is.
func identity(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
