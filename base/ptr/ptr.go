// Package ptr builds pointers to literals for optional and patchable fields
package ptr

import "time"

func Bool(value bool) *bool {
	return &value
}

func Int64(value int64) *int64 {
	return &value
}

// Time returns nil for the zero time
func Time(value time.Time) *time.Time {
	if value.IsZero() {
		return nil
	}
	return &value
}
