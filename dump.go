package logging

import (
	"fmt"
	"reflect"
)

// Dump logs the contents of the provided value at Debug level, one record per
// leaf. Structs log their exported fields, maps and slices their elements
// (slices are capped at ten), and basic types their value.
func (l *Logger) Dump(v interface{}) {
	if l == nil || !l.Enabled(DebugLevel) {
		return
	}
	if v == nil {
		l.DebugWith().Msg("Dump: <nil>")
		return
	}

	// Use a map to track visited pointers to prevent infinite recursion
	visited := make(map[uintptr]bool)
	l.dumpValue(v, "", visited, 0)
}

const (
	maxDumpDepth    = 10
	maxDumpElements = 10
)

// dumpValue is a recursive helper function for Dump
func (l *Logger) dumpValue(v interface{}, prefix string, visited map[uintptr]bool, depth int) {
	if depth > maxDumpDepth {
		l.DebugWith().Msgf("%s: <max depth reached>", prefix)
		return
	}

	if v == nil {
		l.DebugWith().Msgf("%s: <nil>", prefix)
		return
	}

	val := reflect.ValueOf(v)

	// Unwrap interfaces and pointers; a pointer seen twice is a cycle.
	for val.Kind() == reflect.Interface || val.Kind() == reflect.Ptr {
		if val.IsNil() {
			l.DebugWith().Msgf("%s: <nil>", prefix)
			return
		}
		if val.Kind() == reflect.Ptr {
			ptr := val.Pointer()
			if visited[ptr] {
				l.DebugWith().Msgf("%s: <circular reference>", prefix)
				return
			}
			visited[ptr] = true
		}
		val = val.Elem()
	}

	typ := val.Type()

	switch val.Kind() {
	case reflect.Struct:
		structName := typ.Name()
		if prefix == "" {
			l.DebugWith().Msgf("Struct: %s", structName)
		} else {
			l.DebugWith().Msgf("%s: %s {", prefix, structName)
		}

		// Iterate over struct fields
		for i := 0; i < val.NumField(); i++ {
			field := typ.Field(i)
			fieldVal := val.Field(i)

			// Skip unexported fields
			if !fieldVal.CanInterface() {
				continue
			}

			fieldPrefix := field.Name
			if prefix != "" {
				fieldPrefix = prefix + "." + field.Name
			}

			l.dumpValue(fieldVal.Interface(), fieldPrefix, visited, depth+1)
		}

		if prefix != "" {
			l.DebugWith().Msgf("%s: }", prefix)
		}

	case reflect.Map:
		l.DebugWith().Msgf("%s: map[%s]%s (len: %d) {",
			prefix, typ.Key().String(), typ.Elem().String(), val.Len())

		iter := val.MapRange()
		for iter.Next() {
			key := fmt.Sprintf("%s[%v]", prefix, iter.Key().Interface())
			l.dumpValue(iter.Value().Interface(), key, visited, depth+1)
		}

		l.DebugWith().Msgf("%s: }", prefix)

	case reflect.Slice, reflect.Array:
		l.DebugWith().Msgf("%s: %s (len: %d, cap: %d) {",
			prefix, typ.String(), val.Len(), val.Cap())

		for i := 0; i < val.Len() && i < maxDumpElements; i++ {
			l.dumpValue(val.Index(i).Interface(), fmt.Sprintf("%s[%d]", prefix, i), visited, depth+1)
		}

		if val.Len() > maxDumpElements {
			l.DebugWith().Msgf("%s: ... (%d more elements)", prefix, val.Len()-maxDumpElements)
		}

		l.DebugWith().Msgf("%s: }", prefix)

	default:
		if val.IsValid() && val.CanInterface() {
			l.DebugWith().Msgf("%s: %v", prefix, val.Interface())
		} else {
			l.DebugWith().Msgf("%s: %v", prefix, v)
		}
	}
}
