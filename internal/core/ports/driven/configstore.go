package driven

// ConfigStore provides persistent key-value configuration.
type ConfigStore interface {
	// Get retrieves a raw configuration value.
	Get(key string) (any, bool)
	// GetString retrieves a string value, empty if unset.
	GetString(key string) string
	// GetInt retrieves an integer value, zero if unset.
	GetInt(key string) int
	// GetBool retrieves a boolean value, false if unset.
	GetBool(key string) bool
	// Set stores a value and persists it.
	Set(key string, value any) error
	// Save persists the current configuration.
	Save() error
	// Load reloads configuration from the backing store.
	Load() error
}
