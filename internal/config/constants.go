package config

const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./annuaire.db"

	// DefaultMaintenanceSchedule runs audit cleanup nightly at 03:00.
	DefaultMaintenanceSchedule = "0 3 * * *"
)
