package constants

const (
	AppName            = "hearth"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/hearth/hearth.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// DefaultTimezone is assumed for schedules that do not carry one
	DefaultTimezone = "UTC"

	// DefaultCalendarDays is the span of the calendar view when no range is given
	DefaultCalendarDays = 7
)
