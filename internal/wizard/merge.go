package wizard

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"cvbuilder-backend/internal/cv"
)

// The dirty-field bookkeeping and the keep-dirty-values merge both work on the
// JSON shape of a section payload: payloads are flattened to path->scalar maps
// ("0.school", "firstName") for comparison, and merged structurally with edited
// paths preferring the in-progress value over the incoming default.

func flatten(p cv.SectionPayload) (map[string]string, error) {
	generic, err := toGeneric(p)
	if err != nil {
		return nil, err
	}
	out := map[string]string{}
	flattenValue("", generic, out)
	return out, nil
}

func flattenValue(prefix string, v any, out map[string]string) {
	switch val := v.(type) {
	case map[string]any:
		for k, child := range val {
			flattenValue(joinPath(prefix, k), child, out)
		}
	case []any:
		for i, child := range val {
			flattenValue(joinPath(prefix, strconv.Itoa(i)), child, out)
		}
	case nil:
		out[prefix] = ""
	case string:
		out[prefix] = val
	case bool:
		out[prefix] = strconv.FormatBool(val)
	case float64:
		out[prefix] = strconv.FormatFloat(val, 'g', -1, 64)
	default:
		out[prefix] = fmt.Sprintf("%v", val)
	}
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// dirtyPaths returns every flattened path whose value differs between the
// defaults snapshot and the current edit state.
func dirtyPaths(defaults, values cv.SectionPayload) (map[string]bool, error) {
	defFlat, err := flatten(defaults)
	if err != nil {
		return nil, err
	}
	curFlat, err := flatten(values)
	if err != nil {
		return nil, err
	}
	dirty := map[string]bool{}
	for path, cur := range curFlat {
		if def, ok := defFlat[path]; !ok || def != cur {
			dirty[path] = true
		}
	}
	for path := range defFlat {
		if _, ok := curFlat[path]; !ok {
			dirty[path] = true
		}
	}
	return dirty, nil
}

// mergeKeepDirty reconciles freshly fetched defaults with the current edit
// state: dirty paths keep the user's in-progress value, everything else takes
// the incoming default. Shape conflicts (e.g. entry count changed on both
// sides) resolve toward the side the user touched.
func mergeKeepDirty(section cv.Section, newDefaults, current cv.SectionPayload, dirty map[string]bool) (cv.SectionPayload, error) {
	defGeneric, err := toGeneric(newDefaults)
	if err != nil {
		return nil, err
	}
	curGeneric, err := toGeneric(current)
	if err != nil {
		return nil, err
	}
	merged := mergeValues("", defGeneric, curGeneric, dirty)
	data, err := json.Marshal(merged)
	if err != nil {
		return nil, err
	}
	return cv.DecodePayload(section, data)
}

func mergeValues(path string, def, cur any, dirty map[string]bool) any {
	switch curVal := cur.(type) {
	case map[string]any:
		defMap, ok := def.(map[string]any)
		if !ok {
			return pick(path, def, cur, dirty)
		}
		out := make(map[string]any, len(curVal))
		for k := range defMap {
			out[k] = mergeValues(joinPath(path, k), defMap[k], curVal[k], dirty)
		}
		for k := range curVal {
			if _, seen := defMap[k]; !seen {
				out[k] = curVal[k]
			}
		}
		return out
	case []any:
		defArr, ok := def.([]any)
		if !ok || len(defArr) != len(curVal) {
			return pick(path, def, cur, dirty)
		}
		out := make([]any, len(curVal))
		for i := range curVal {
			out[i] = mergeValues(joinPath(path, strconv.Itoa(i)), defArr[i], curVal[i], dirty)
		}
		return out
	default:
		return pick(path, def, cur, dirty)
	}
}

func pick(path string, def, cur any, dirty map[string]bool) any {
	if dirty[path] || anyDirtyUnder(path, dirty) {
		return cur
	}
	return def
}

func anyDirtyUnder(path string, dirty map[string]bool) bool {
	// Every path sits under the root, so any dirty entry counts there.
	prefix := path + "."
	if path == "" {
		prefix = ""
	}
	for p := range dirty {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

func toGeneric(p cv.SectionPayload) (any, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, err
	}
	return generic, nil
}

// clonePayload deep-copies a payload through its JSON form.
func clonePayload(p cv.SectionPayload) (cv.SectionPayload, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return cv.DecodePayload(p.Kind(), data)
}
