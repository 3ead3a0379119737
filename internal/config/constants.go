package config

const (
	// DefaultDatabaseURL is used when DATABASE_URL is not set.
	DefaultDatabaseURL = "./my_database.db"

	// DefaultSweepSchedule runs the orphan sweep daily at 03:00.
	DefaultSweepSchedule = "0 3 * * *"

	// DefaultEnvFile is loaded before reading the environment, if present.
	DefaultEnvFile = ".env"
)
