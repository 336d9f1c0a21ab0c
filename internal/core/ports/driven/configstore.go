package driven

// ConfigStore reads and writes the assistant's configuration. Keys use
// flat dot notation ("models.fast", "watch.folders"). Implementations own
// persistence and type coercion; callers never see the file format.
type ConfigStore interface {
	// Get returns the raw value for key and whether the key is present.
	Get(key string) (any, bool)

	// GetString returns the value for key, or "" when the key is absent
	// or not a string.
	GetString(key string) string

	// GetInt returns the value for key, or 0 when the key is absent or
	// not numeric.
	GetInt(key string) int

	// GetBool returns the value for key, or false when the key is absent
	// or not a boolean.
	GetBool(key string) bool

	// GetStringSlice returns the value for key, or nil when the key is
	// absent or not a slice of strings.
	GetStringSlice(key string) []string

	// Set stores a value under key and persists it immediately.
	Set(key string, value any) error

	// Save writes the current configuration to storage.
	Save() error

	// Load replaces the in-memory configuration with the stored one.
	Load() error

	// Path returns the location of the backing configuration file.
	Path() string
}
