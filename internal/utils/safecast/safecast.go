// Package safecast implements functions to safely cast types to avoid panics
package safecast

import (
	"fmt"

	"github.com/spf13/cast"
)

// IntToUint64 safely converts an int to uint64 using cast and checks for underflow
func IntToUint64(value int) (uint64, error) {
	if value < 0 {
		return 0, fmt.Errorf("value %d is negative, cannot convert to uint64", value)
	}

	return cast.ToUint64E(value)
}
