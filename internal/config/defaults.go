package config

const (
	// DefaultDestinationFile is the report file name, relative to the working directory
	DefaultDestinationFile = "story.md"
	// DefaultSnapshotFile is the last-run snapshot, relative to the working directory
	DefaultSnapshotFile = ".story/last-run.json"
	// DefaultConfigFile is the optional YAML config file
	DefaultConfigFile = ".story.yaml"
	// DefaultEnvFile is the optional dotenv file
	DefaultEnvFile = ".env"
	// ModeHTML selects the HTML report
	ModeHTML = "html"
)

// Environment variables read by Resolve
const (
	EnvDestination = "STORY_DESTINATION"
	EnvTitle       = "STORY_TITLE"
	EnvMode        = "STORY_MODE"
	EnvLiterals    = "STORY_LITERALS"
	EnvSnapshot    = "STORY_SNAPSHOT"
	EnvMetricsFile = "STORY_METRICS_FILE"
	EnvHistoryDSN  = "STORY_HISTORY_DSN"
)
