package filters

// Params holds decode parameters taken from a DecodeParms dictionary, with
// PDF objects converted to Go values (int, float64, bool, string).
type Params map[string]interface{}

// getIntParam returns params[key] as an int, or defaultValue when it is
// missing or not numeric.
func getIntParam(params Params, key string, defaultValue int) int {
	if params == nil {
		return defaultValue
	}
	switch v := params[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case int32:
		return int(v)
	case float64:
		return int(v)
	default:
		return defaultValue
	}
}

// getBoolParam returns params[key] as a bool, or defaultValue when it is
// missing or not a boolean.
func getBoolParam(params Params, key string, defaultValue bool) bool {
	if params == nil {
		return defaultValue
	}
	if v, ok := params[key].(bool); ok {
		return v
	}
	return defaultValue
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
