package rule

// Options is the ordered option list that follows the severity in a rule
// spec, e.g. ["error", {max: 1}] carries Options{map[string]any{"max": 1}}.
type Options []any

// At returns the i-th option or nil.
func (o Options) At(i int) any {
	if i < 0 || i >= len(o) {
		return nil
	}
	return o[i]
}

// Object returns the i-th option as a mapping, or nil when it is not one.
func (o Options) Object(i int) map[string]any {
	switch m := o.At(i).(type) {
	case map[string]any:
		return m
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			if ks, ok := k.(string); ok {
				out[ks] = v
			}
		}
		return out
	}
	return nil
}

// String returns the i-th option as a string.
func (o Options) String(i int, defaultVal string) string {
	if s, ok := o.At(i).(string); ok {
		return s
	}
	return defaultVal
}

// Int returns the i-th option as an int, accepting JSON float64 numbers.
func (o Options) Int(i int, defaultVal int) int {
	if n, ok := toInt(o.At(i)); ok {
		return n
	}
	return defaultVal
}

// GetOption extracts a typed option with a default value.
func GetOption[T any](opts map[string]any, key string, defaultVal T) T {
	v, ok := opts[key]
	if !ok {
		return defaultVal
	}
	if typed, ok := v.(T); ok {
		return typed
	}
	return defaultVal
}

// GetIntOption extracts an int option, handling float64 from JSON.
func GetIntOption(opts map[string]any, key string, defaultVal int) int {
	if n, ok := toInt(opts[key]); ok {
		return n
	}
	return defaultVal
}

// GetBoolOption extracts a bool option.
func GetBoolOption(opts map[string]any, key string, defaultVal bool) bool {
	return GetOption(opts, key, defaultVal)
}

// GetStringOption extracts a string option.
func GetStringOption(opts map[string]any, key string, defaultVal string) string {
	return GetOption(opts, key, defaultVal)
}

// GetStringSliceOption extracts a string slice option.
func GetStringSliceOption(opts map[string]any, key string, defaultVal []string) []string {
	v, ok := opts[key]
	if !ok {
		return defaultVal
	}
	switch s := v.(type) {
	case []string:
		return s
	case []any:
		result := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok {
				result = append(result, str)
			}
		}
		return result
	}
	return defaultVal
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}
