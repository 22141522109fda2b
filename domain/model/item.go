package model

// Attribute accessors tolerant of the numeric widening that happens on the
// round trip through the store.

func itemString(item map[string]interface{}, key string) string {
	if v, ok := item[key].(string); ok {
		return v
	}
	return ""
}

func itemInt64(item map[string]interface{}, key string) int64 {
	switch v := item[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}
