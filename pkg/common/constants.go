package common

import "time"

const (
	// RedisKeyFingerprint is the key prefix for the ingestion fingerprint
	// pre-filter cache. The database unique constraint remains the source
	// of truth; the cache only short-circuits repeat feed snapshots.
	RedisKeyFingerprint = "news:fingerprint:"

	// RedisFingerprintTTL bounds cache growth. Feed snapshots only contain
	// recent items, so entries older than this are never re-offered.
	RedisFingerprintTTL = 72 * time.Hour
)
