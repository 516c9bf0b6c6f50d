package commands

// CommonConfig contains configuration common to all commands
type CommonConfig struct {
	// DataDir is the path to the data directory
	DataDir string `help:"Path to data directory" default:"./data"`
	// Timezone is the timezone used for business-day boundaries
	Timezone string `help:"Timezone for business-day boundaries" default:"Asia/Tokyo"`
	// LogLevel is the logging level to use
	LogLevel string `help:"Log level (debug, info, warn, error)" default:"warn" enum:"debug,info,warn,error"`
}
