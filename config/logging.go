package config

var (
	// region Logging.

	// LoggingFormat is either "json" or "text".
	LoggingFormat = NewKey("logging.format",
		WithDefaultValue("text"),
		WithAllowedStrings([]string{"json", "text"}))

	// LoggingColors toggles colored output for the text format.
	LoggingColors = NewKey("logging.colors",
		WithDefaultValue(true),
		WithValidBool())

	LoggingTimeFormat = NewKey("logging.timeFormat",
		WithDefaultValue("15:04:05"))

	// LoggingOutput is "stdout", "stderr" or a file path to append to.
	LoggingOutput = NewKey("logging.output",
		WithDefaultValue("stdout"))

	LoggingLevel = NewKey("logging.level",
		WithDefaultValue("INFO"),
		WithAllowedStrings([]string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR", "FATAL", "PANIC", "DISABLED"}))

	// LoggingProgress logs one line per uploaded or deleted object at INFO.
	// When disabled those lines are logged at DEBUG.
	LoggingProgress = NewKey("logging.progress",
		WithDefaultValue(true),
		WithValidBool())

	// endregion.
)
