package matching

import (
	"reflect"
	"strings"
)

// MergeContexts folds next into prev field by field: a blank next value
// keeps the previous one, a non-blank next value replaces it. Context
// accumulation stays monotonic across turns: information is only ever
// added or explicitly replaced, never silently dropped.
//
// PatientContext is all strings, so one reflective coalesce covers every
// field instead of re-deriving the rule per field.
func MergeContexts(prev, next PatientContext) PatientContext {
	merged := prev
	dst := reflect.ValueOf(&merged).Elem()
	src := reflect.ValueOf(next)
	for i := 0; i < src.NumField(); i++ {
		if v := src.Field(i).String(); strings.TrimSpace(v) != "" {
			dst.Field(i).SetString(v)
		}
	}
	return merged
}
