package route

import (
	"encoding/json"
	"fmt"
)

// projectOntoQuery implements spec §4.6.4: for a GET tRPC route, the body
// example (if any) is projected onto query parameters. Each top-level key
// whose value is a primitive becomes a string-valued query entry;
// object/array-valued keys are dropped.
func projectOntoQuery(body json.RawMessage) map[string]string {
	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil
	}

	query := make(map[string]string, len(obj))
	for k, v := range obj {
		switch val := v.(type) {
		case string:
			query[k] = val
		case bool:
			query[k] = fmt.Sprintf("%t", val)
		case float64:
			query[k] = formatNumber(val)
		case nil:
			// null is not a primitive worth projecting; omit.
		default:
			// object or array: dropped per spec.
		}
	}
	return query
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}
