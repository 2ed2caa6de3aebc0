// File: utils/constants.go
package utils

import "time"

// UnpaidCachePrefix is the prefix used for Redis unpaid-status cache keys.
const UnpaidCachePrefix = "unpaid:"

// UnpaidCacheTTL is the time-to-live for unpaid-status cache entries. Short
// on purpose: the gate itself is enforced server-side, the cache only saves
// dashboard polling from hammering the aggregation.
const UnpaidCacheTTL = 30 * time.Second
