package storage

// KV is the durable key-value store shared by the session and cart stores.
// The contract mirrors browser local storage: synchronous string blobs, and
// the only failure mode callers handle is "absent". Implementations deal with
// their own write errors internally.
//
// Consumers define this interface, not the storage implementation.
type KV interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool)

	// Set stores value under key, overwriting any previous value. The value
	// is durable before Set returns.
	Set(key, value string)

	// Remove deletes key. Removing an absent key is a no-op.
	Remove(key string)
}
