package redis

// Config holds Redis connection and vault settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// KeyPrefix namespaces every vault key
	KeyPrefix string

	// HandleLength is the length of the opaque handle kept client-side
	HandleLength int
}

// DefaultConfig returns sensible defaults for the vault
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		KeyPrefix:    "blogfront",
		HandleLength: 32,
	}
}
