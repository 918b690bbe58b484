package utils

import "time"

// AuthCachePrefix is the prefix used for Redis authorization cache keys.
const AuthCachePrefix = "auth:"

// AuthCacheTTL is the time-to-live for authorization cache entries.
const AuthCacheTTL = time.Hour

// RoomCacheKey is the cache key holding the serialized room catalogue.
const RoomCacheKey = "rooms:catalogue"

// RoomChangeChannel is the pub/sub channel carrying room-state change events.
const RoomChangeChannel = "rooms:changes"
