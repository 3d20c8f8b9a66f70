package relcache

// Namespace maps a logical key into prefix's keyspace. Two caches with
// different prefixes never address the same Redis key for one logical key.
func Namespace(prefix, key string) string {
	return prefix + ":" + key
}

// Key returns the fully namespaced form of a logical key. This is the form
// SAdd expects for its members.
func (c *Cache) Key(key string) string {
	return Namespace(c.prefix, key)
}
