package common

import (
	"fmt"
	"time"

	"discount-system/vitrina/internal/constants"
)

func GetResponseTime(init time.Time) string {
	timeDiff := time.Since(init).Milliseconds()
	return fmt.Sprintf("%dms", timeDiff)
}

// DiscountCacheKey is the cache key of one discount triple
func DiscountCacheKey(complexID, typeID, paymentTypeID uint) string {
	return fmt.Sprintf("%s%d:%d:%d", constants.CachePrefixDiscount, complexID, typeID, paymentTypeID)
}

// DedupeStrings keeps the first occurrence of every value, preserving order
func DedupeStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
