package config

// Default paths for databases
const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./electisspace.db"

	// DefaultDotEnvPath is loaded before reading the environment, when present
	DefaultDotEnvPath = ".env"
)
