package manager

import (
	"time"
)

// DefaultHashTTL defines how long computed hashes stay in the cache when
// HASH_TTL_SECONDS is not set. The pipeline is pure, so cached entries never
// go stale; the TTL only bounds memory.
const DefaultHashTTL = time.Minute * 15

const initialCacheCapacity = 32
